package engine

import (
	"testing"

	"github.com/andresuchdata/marginsight/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var promoToday = date(2024, 6, 1)

func TestScorePromotionCandidates_OnlyInStock(t *testing.T) {
	inventory := []domain.InventoryItem{
		{MTM: "IN", ModelName: "IdeaPad 3", OnHandQty: 30},
		{MTM: "OUT", OnHandQty: 0},
		{MTM: "NEG", OnHandQty: -5},
	}
	out := ScorePromotionCandidates(inventory, promoToday)
	require.Len(t, out, 1)
	assert.Equal(t, "IN", out[0].MTM)
}

func TestScorePromotionCandidates_SlowDeepStockOutranksFastMover(t *testing.T) {
	first := date(2024, 1, 1)
	inventory := []domain.InventoryItem{
		{MTM: "SLOW", OnHandQty: 60, WeeklyRunRate: 0, FirstOrderDate: &first},
		{MTM: "FAST", OnHandQty: 60, WeeklyRunRate: 12, FirstOrderDate: &first},
	}
	out := ScorePromotionCandidates(inventory, promoToday)
	require.Len(t, out, 2)
	assert.Equal(t, "SLOW", out[0].MTM)
	assert.Greater(t, out[0].Score, out[1].Score)
}

func TestScorePromotionCandidates_LaunchBoost(t *testing.T) {
	first := date(2024, 5, 15)
	inventory := []domain.InventoryItem{
		{MTM: "NEWLY", OnHandQty: 20, FirstOrderDate: &first, IsNewModel: true},
		{MTM: "LEGACY", OnHandQty: 20, FirstOrderDate: &first},
	}
	out := ScorePromotionCandidates(inventory, promoToday)
	require.Len(t, out, 2)
	assert.Equal(t, "NEWLY", out[0].MTM)
	assert.Equal(t, out[1].Score+10, out[0].Score)
}

func TestScorePromotionCandidates_StockAge(t *testing.T) {
	first := date(2024, 3, 3) // 90 days before promoToday
	out := ScorePromotionCandidates([]domain.InventoryItem{
		{MTM: "M1", OnHandQty: 10, FirstOrderDate: &first},
	}, promoToday)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].StockAgeDays)
	assert.Equal(t, 90, *out[0].StockAgeDays)
}

func TestScorePromotionCandidates_TiesBreakByMTM(t *testing.T) {
	out := ScorePromotionCandidates([]domain.InventoryItem{
		{MTM: "BBB", OnHandQty: 10},
		{MTM: "AAA", OnHandQty: 10},
	}, promoToday)
	require.Len(t, out, 2)
	assert.Equal(t, "AAA", out[0].MTM)
	assert.Equal(t, "BBB", out[1].MTM)
}
