// backend-go/internal/engine/customers.go
package engine

import (
	"math"
	"sort"
	"time"

	"github.com/andresuchdata/marginsight/backend-go/internal/domain"
)

const (
	newCustomerWindowDays = 90
	atRiskAfterDays       = 180
	quadrantMinPopulation = 4
)

// Tier cutoffs as cumulative population fractions, computed on the
// population size at call time.
const (
	platinumFraction = 0.05
	goldFraction     = 0.20
	silverFraction   = 0.50
)

// SegmentCustomers folds Sales into one Customer per buyer, flags
// tenure/recency, assigns revenue-percentile tiers and the 2x2
// value/frequency quadrant. Output is sorted by total revenue
// descending (ties by buyer ID), the same order the tier cut uses.
func SegmentCustomers(sales []domain.Sale, recs []domain.ReconciledSale, today time.Time) []domain.Customer {
	type agg struct {
		customer domain.Customer
		invoices map[string]struct{}
	}

	byBuyer := make(map[string]*agg)
	for _, s := range sales {
		a := byBuyer[s.BuyerID]
		if a == nil {
			a = &agg{
				customer: domain.Customer{BuyerID: s.BuyerID},
				invoices: make(map[string]struct{}),
			}
			byBuyer[s.BuyerID] = a
		}
		if a.customer.BuyerName == "" {
			a.customer.BuyerName = s.BuyerName
		}
		if a.customer.Segment == "" {
			a.customer.Segment = s.Segment
		}
		a.customer.TotalRevenue += s.TotalRevenue
		a.customer.TotalUnits += s.Quantity
		if s.InvoiceNumber != "" {
			a.invoices[s.InvoiceNumber] = struct{}{}
		}
		if sold, ok := ParseDate(s.InvoiceDate); ok {
			if a.customer.FirstPurchase == nil || sold.Before(*a.customer.FirstPurchase) {
				first := sold
				a.customer.FirstPurchase = &first
			}
			if a.customer.LastPurchase == nil || sold.After(*a.customer.LastPurchase) {
				last := sold
				a.customer.LastPurchase = &last
			}
		}
	}

	profitByBuyer := make(map[string]*float64)
	for _, r := range recs {
		if r.UnitProfit == nil {
			continue
		}
		total := orZero(profitByBuyer[r.BuyerID]) + *r.UnitProfit*float64(r.Quantity)
		profitByBuyer[r.BuyerID] = &total
	}

	customers := make([]domain.Customer, 0, len(byBuyer))
	for _, a := range byBuyer {
		c := a.customer
		c.InvoiceCount = len(a.invoices)
		c.TotalProfit = profitByBuyer[c.BuyerID]

		// No purchase date at all counts as infinitely stale.
		c.IsAtRisk = true
		if c.LastPurchase != nil {
			d := float64(daysBetween(*c.LastPurchase, today))
			c.DaysSinceLastPurchase = &d
			c.IsAtRisk = d > atRiskAfterDays
		}
		if c.FirstPurchase != nil {
			age := daysBetween(*c.FirstPurchase, today)
			c.IsNew = age >= 0 && age <= newCustomerWindowDays
		}

		customers = append(customers, c)
	}

	sort.Slice(customers, func(i, j int) bool {
		if customers[i].TotalRevenue != customers[j].TotalRevenue {
			return customers[i].TotalRevenue > customers[j].TotalRevenue
		}
		return customers[i].BuyerID < customers[j].BuyerID
	})

	assignTiers(customers)
	assignQuadrants(customers)
	return customers
}

// assignTiers partitions the revenue-sorted population into four
// non-overlapping groups cut at ceil(5%), ceil(20%) and ceil(50%).
func assignTiers(customers []domain.Customer) {
	n := len(customers)
	if n == 0 {
		return
	}
	platinum := int(math.Ceil(platinumFraction * float64(n)))
	gold := int(math.Ceil(goldFraction * float64(n)))
	silver := int(math.Ceil(silverFraction * float64(n)))

	for i := range customers {
		switch {
		case i < platinum:
			customers[i].Tier = domain.TierPlatinum
		case i < gold:
			customers[i].Tier = domain.TierGold
		case i < silver:
			customers[i].Tier = domain.TierSilver
		default:
			customers[i].Tier = domain.TierBronze
		}
	}
}

// assignQuadrants classifies each customer against the unfiltered
// population medians of revenue and invoice count ("high" means at or
// above the median). Fewer than four customers is too little signal for
// a split; everyone lands in the watch quadrant.
func assignQuadrants(customers []domain.Customer) {
	if len(customers) < quadrantMinPopulation {
		for i := range customers {
			customers[i].Quadrant = domain.QuadrantWatch
		}
		return
	}

	revenues := make([]float64, len(customers))
	frequencies := make([]float64, len(customers))
	for i, c := range customers {
		revenues[i] = c.TotalRevenue
		frequencies[i] = float64(c.InvoiceCount)
	}
	revMedian := median(revenues)
	freqMedian := median(frequencies)

	for i := range customers {
		highRev := customers[i].TotalRevenue >= revMedian
		highFreq := float64(customers[i].InvoiceCount) >= freqMedian
		switch {
		case highRev && highFreq:
			customers[i].Quadrant = domain.QuadrantChampion
		case highRev:
			customers[i].Quadrant = domain.QuadrantHighSpender
		case highFreq:
			customers[i].Quadrant = domain.QuadrantLoyal
		default:
			customers[i].Quadrant = domain.QuadrantWatch
		}
	}
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
