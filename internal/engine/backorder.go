// backend-go/internal/engine/backorder.go
package engine

import (
	"sort"
	"time"

	"github.com/andresuchdata/marginsight/backend-go/internal/domain"
)

const (
	backorderHighCutoff   = 60
	backorderMediumCutoff = 30
)

// AnalyzeBackorderCandidates ranks out-of-stock MTMs that still show
// recent demand. The score rewards sustained unit volume, breadth of
// affected customers, rising demand, and freshly launched models; the
// High/Medium/Low buckets cut the score at fixed thresholds so the
// board reads the same across refreshes.
func AnalyzeBackorderCandidates(snap Snapshot, inventory []domain.InventoryItem, today time.Time) []domain.BackorderRecommendation {
	stats := collectSalesStats(snap.Sales, today)

	recs := make([]domain.BackorderRecommendation, 0)
	for _, item := range inventory {
		st := stats[item.MTM]
		if item.OnHandQty > 0 || st == nil || st.recentUnits == 0 {
			continue
		}

		avgPrice := 0.0
		if st.recentUnits > 0 {
			avgPrice = st.recentValue / float64(st.recentUnits)
		}

		rec := domain.BackorderRecommendation{
			MTM:                     item.MTM,
			ModelName:               item.ModelName,
			RecentSalesUnits:        st.recentUnits,
			EstimatedBackorderValue: float64(st.recentUnits) * avgPrice,
			AffectedCustomers:       len(st.recentBuyers),
			SalesTrend:              classifyTrend(st.earlyUnits, st.lateUnits),
			IsNewModel:              item.IsNewModel,
		}
		rec.PriorityScore = backorderScore(rec)
		rec.Priority = backorderPriority(rec.PriorityScore)
		recs = append(recs, rec)
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].PriorityScore != recs[j].PriorityScore {
			return recs[i].PriorityScore > recs[j].PriorityScore
		}
		return recs[i].MTM < recs[j].MTM
	})
	return recs
}

// classifyTrend compares the two halves of the trailing window. A ±20%
// band around flat counts as Stable, which also absorbs ties and
// single-half data.
func classifyTrend(early, late int) domain.SalesTrend {
	switch {
	case float64(late) > float64(early)*1.2:
		return domain.TrendIncreasing
	case float64(late) < float64(early)*0.8:
		return domain.TrendDecreasing
	default:
		return domain.TrendStable
	}
}

func backorderScore(rec domain.BackorderRecommendation) float64 {
	score := float64(rec.RecentSalesUnits) * 2
	score += float64(rec.AffectedCustomers) * 5
	if rec.SalesTrend == domain.TrendIncreasing {
		score += 15
	}
	if rec.IsNewModel {
		score += 10
	}
	valueBoost := rec.EstimatedBackorderValue / 1000
	if valueBoost > 20 {
		valueBoost = 20
	}
	return score + valueBoost
}

func backorderPriority(score float64) domain.Priority {
	switch {
	case score >= backorderHighCutoff:
		return domain.PriorityHigh
	case score >= backorderMediumCutoff:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}
