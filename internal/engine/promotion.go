// backend-go/internal/engine/promotion.go
package engine

import (
	"math"
	"sort"
	"time"

	"github.com/andresuchdata/marginsight/backend-go/internal/domain"
)

// ScorePromotionCandidates ranks in-stock MTMs for a marketing push.
// Deep stock that isn't moving scores highest; a recent launch gets a
// visibility boost so new models aren't drowned out by legacy surplus.
func ScorePromotionCandidates(inventory []domain.InventoryItem, today time.Time) []domain.PromotionCandidate {
	out := make([]domain.PromotionCandidate, 0)
	for _, item := range inventory {
		if item.OnHandQty <= 0 {
			continue
		}

		cand := domain.PromotionCandidate{
			MTM:           item.MTM,
			ModelName:     item.ModelName,
			OnHandQty:     item.OnHandQty,
			WeeklyRunRate: item.WeeklyRunRate,
			IsNewLaunch:   item.IsNewModel,
		}
		if item.FirstOrderDate != nil {
			age := daysBetween(*item.FirstOrderDate, today)
			if age >= 0 {
				cand.StockAgeDays = ptrInt(age)
			}
		}
		cand.Score = promotionScore(cand)
		out = append(out, cand)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].MTM < out[j].MTM
	})
	return out
}

func promotionScore(c domain.PromotionCandidate) int {
	depth := float64(c.OnHandQty) / 2
	if depth > 40 {
		depth = 40
	}

	age := 0.0
	if c.StockAgeDays != nil {
		age = float64(*c.StockAgeDays) / 10
		if age > 30 {
			age = 30
		}
	}

	// Slow movers need the push; velocity dampens the score.
	stagnation := 20 / (1 + c.WeeklyRunRate)

	launch := 0.0
	if c.IsNewLaunch {
		launch = 10
	}

	return int(math.Round(depth + age + stagnation + launch))
}
