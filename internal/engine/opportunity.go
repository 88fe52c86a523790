// backend-go/internal/engine/opportunity.go
package engine

import (
	"math"
	"sort"
	"time"

	"github.com/andresuchdata/marginsight/backend-go/internal/domain"
)

// Surplus means more than this many units on hand for one MTM.
const surplusThreshold = 25

// ScoreSurplusOpportunities cross-references customers against surplus
// inventory: every customer who has ever bought a surplus MTM gets one
// scored opportunity per (customer, MTM) pair. Customers with no
// opportunities are not emitted. Output is sorted by the per-customer
// mean score descending, ties by buyer ID; each customer's list is
// sorted by MTM.
func ScoreSurplusOpportunities(snap Snapshot, inventory []domain.InventoryItem, customers []domain.Customer, today time.Time) []domain.CustomerSalesOpportunity {
	surplus := make(map[string]domain.InventoryItem)
	for _, item := range inventory {
		if item.OnHandQty > surplusThreshold {
			surplus[item.MTM] = item
		}
	}
	if len(surplus) == 0 {
		return []domain.CustomerSalesOpportunity{}
	}

	// Per (buyer, surplus MTM): lifetime units and most recent purchase.
	type history struct {
		units        int
		lastPurchase *time.Time
	}
	byPair := make(map[string]map[string]*history)
	for _, s := range snap.Sales {
		if _, ok := surplus[s.LenovoProductNumber]; !ok {
			continue
		}
		perBuyer := byPair[s.BuyerID]
		if perBuyer == nil {
			perBuyer = make(map[string]*history)
			byPair[s.BuyerID] = perBuyer
		}
		h := perBuyer[s.LenovoProductNumber]
		if h == nil {
			h = &history{}
			perBuyer[s.LenovoProductNumber] = h
		}
		h.units += s.Quantity
		if sold, ok := ParseDate(s.InvoiceDate); ok {
			if h.lastPurchase == nil || sold.After(*h.lastPurchase) {
				last := sold
				h.lastPurchase = &last
			}
		}
	}

	out := make([]domain.CustomerSalesOpportunity, 0)
	for _, c := range customers {
		perBuyer := byPair[c.BuyerID]
		if len(perBuyer) == 0 {
			continue
		}

		mtms := make([]string, 0, len(perBuyer))
		for mtm := range perBuyer {
			mtms = append(mtms, mtm)
		}
		sort.Strings(mtms)

		entry := domain.CustomerSalesOpportunity{
			BuyerID:   c.BuyerID,
			BuyerName: c.BuyerName,
			Tier:      c.Tier,
		}
		scoreSum := 0
		for _, mtm := range mtms {
			item := surplus[mtm]
			h := perBuyer[mtm]
			opp := domain.SurplusOpportunity{
				MTM:                      mtm,
				ModelName:                item.ModelName,
				InStockQty:               item.OnHandQty,
				SurplusStockValue:        float64(item.OnHandQty) * orZero(item.AvgLandingCost),
				CustomerPastUnits:        h.units,
				CustomerLastPurchaseDate: h.lastPurchase,
			}
			opp.Score = opportunityScore(c.Tier, item.OnHandQty, daysSince(h.lastPurchase, today), h.units)
			scoreSum += opp.Score
			entry.Opportunities = append(entry.Opportunities, opp)
		}
		entry.CustomerOpportunityScore = int(math.Round(float64(scoreSum) / float64(len(entry.Opportunities))))
		out = append(out, entry)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CustomerOpportunityScore != out[j].CustomerOpportunityScore {
			return out[i].CustomerOpportunityScore > out[j].CustomerOpportunityScore
		}
		return out[i].BuyerID < out[j].BuyerID
	})
	return out
}

// opportunityScore blends relationship strength (tier), surplus depth,
// recency, and prior volume into one rounded number. Recency
// contributes nothing when the customer has no dated purchase.
func opportunityScore(tier domain.Tier, inStockQty int, daysSinceLast float64, pastUnits int) int {
	score := tier.Score() * 7.5

	depth := (float64(inStockQty) - surplusThreshold) / 20
	if depth > 15 {
		depth = 15
	}
	score += depth

	if !math.IsInf(daysSinceLast, 1) {
		score += 35 / math.Sqrt(daysSinceLast+1)
	}

	volume := 10 * math.Log10(float64(pastUnits)+1)
	if volume > 20 {
		volume = 20
	}
	score += volume

	return int(math.Round(score))
}

func daysSince(t *time.Time, today time.Time) float64 {
	if t == nil {
		return math.Inf(1)
	}
	return float64(daysBetween(*t, today))
}
