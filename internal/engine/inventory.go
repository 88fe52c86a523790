// backend-go/internal/engine/inventory.go
package engine

import (
	"math"
	"sort"
	"time"

	"github.com/andresuchdata/marginsight/backend-go/internal/domain"
)

const (
	velocityWindowDays = 90
	newModelWindowDays = 90
	weeksPerWindow     = velocityWindowDays / 7.0
)

// mtmSalesStats is the per-MTM demand picture over the trailing window.
type mtmSalesStats struct {
	soldTotal    int
	recentUnits  int
	earlyUnits   int // first half of the trailing window
	lateUnits    int // second half
	recentValue  float64
	recentBuyers map[string]struct{}
}

// BuildInventory computes the per-MTM stock, velocity and profitability
// view. Every MTM seen in orders, sales or shipments gets a row; output
// is sorted by MTM for deterministic recomputation.
func BuildInventory(snap Snapshot, recs []domain.ReconciledSale, today time.Time) []domain.InventoryItem {
	stats := collectSalesStats(snap.Sales, today)
	profit := collectProfitStats(recs)

	type orderAgg struct {
		modelName   string
		productLine string
		firstOrder  *time.Time
		arrivedQty  int
		openValue   float64
	}
	orders := make(map[string]*orderAgg)
	for _, o := range snap.Orders {
		agg := orders[o.MTM]
		if agg == nil {
			agg = &orderAgg{}
			orders[o.MTM] = agg
		}
		if agg.modelName == "" {
			agg.modelName = o.ModelName
		}
		if agg.productLine == "" {
			agg.productLine = o.ProductLine
		}
		if issued, ok := ParseDate(o.DateIssuePI); ok {
			if agg.firstOrder == nil || issued.Before(*agg.firstOrder) {
				first := issued
				agg.firstOrder = &first
			}
		}
		if _, arrived := ParseDate(o.ActualArrival); arrived {
			agg.arrivedQty += o.Qty
		} else if o.OrderValue != nil {
			agg.openValue += *o.OrderValue
		}
	}

	inTransit := make(map[string]int)
	for _, sh := range snap.Shipments {
		if _, arrived := ParseDate(sh.ArrivalDate); !arrived {
			inTransit[sh.MTM] += sh.Quantity
		}
	}

	mtms := make(map[string]struct{})
	for mtm := range orders {
		mtms[mtm] = struct{}{}
	}
	for mtm := range stats {
		mtms[mtm] = struct{}{}
	}
	for mtm := range inTransit {
		mtms[mtm] = struct{}{}
	}
	sorted := make([]string, 0, len(mtms))
	for mtm := range mtms {
		sorted = append(sorted, mtm)
	}
	sort.Strings(sorted)

	items := make([]domain.InventoryItem, 0, len(sorted))
	for _, mtm := range sorted {
		item := domain.InventoryItem{MTM: mtm}

		var sold, recent int
		if st := stats[mtm]; st != nil {
			sold = st.soldTotal
			recent = st.recentUnits
		}
		item.SoldQty = sold

		if agg := orders[mtm]; agg != nil {
			item.ModelName = agg.modelName
			item.ProductLine = agg.productLine
			item.FirstOrderDate = agg.firstOrder
			item.ArrivedQty = agg.arrivedQty
			item.OnTheWayValue = agg.openValue
		}
		if item.ModelName == "" {
			item.ModelName = modelNameFromSales(snap.Sales, mtm)
		}

		item.ShippedQty = item.ArrivedQty + inTransit[mtm]
		item.OnTheWayQty = item.ShippedQty - item.ArrivedQty
		item.OnHandQty = item.ArrivedQty - item.SoldQty

		item.WeeklyRunRate = float64(recent) / weeksPerWindow
		if item.WeeklyRunRate > 0 {
			// nil, not zero, when the rate is zero: "cannot estimate"
			// must stay distinguishable from "zero weeks of cover".
			weeks := int(math.Floor(float64(item.OnHandQty) / item.WeeklyRunRate))
			item.WeeksOfInventory = &weeks
		}

		if item.FirstOrderDate != nil {
			age := daysBetween(*item.FirstOrderDate, today)
			item.IsNewModel = age >= 0 && age <= newModelWindowDays
		}

		if p := profit[mtm]; p != nil {
			item.AvgLandingCost = p.avgLanding()
			item.AvgUnitProfit = p.avgProfit()
			item.AvgProfitMargin = p.avgMargin()
		}

		items = append(items, item)
	}
	return items
}

func collectSalesStats(sales []domain.Sale, today time.Time) map[string]*mtmSalesStats {
	stats := make(map[string]*mtmSalesStats)
	for _, s := range sales {
		st := stats[s.LenovoProductNumber]
		if st == nil {
			st = &mtmSalesStats{recentBuyers: make(map[string]struct{})}
			stats[s.LenovoProductNumber] = st
		}
		st.soldTotal += s.Quantity

		sold, ok := ParseDate(s.InvoiceDate)
		if !ok {
			continue
		}
		age := daysBetween(sold, today)
		if age < 0 || age > velocityWindowDays {
			continue
		}
		st.recentUnits += s.Quantity
		st.recentValue += s.TotalRevenue
		st.recentBuyers[s.BuyerID] = struct{}{}
		if age > velocityWindowDays/2 {
			st.earlyUnits += s.Quantity
		} else {
			st.lateUnits += s.Quantity
		}
	}
	return stats
}

// profitStats accumulates reconciled figures per MTM for enrichment.
type profitStats struct {
	landingSum float64
	landingN   int
	profitSum  float64
	profitN    int
	marginSum  float64
	marginN    int
}

func (p *profitStats) avgLanding() *float64 {
	if p.landingN == 0 {
		return nil
	}
	return ptrFloat(p.landingSum / float64(p.landingN))
}

func (p *profitStats) avgProfit() *float64 {
	if p.profitN == 0 {
		return nil
	}
	return ptrFloat(p.profitSum / float64(p.profitN))
}

func (p *profitStats) avgMargin() *float64 {
	if p.marginN == 0 {
		return nil
	}
	return ptrFloat(p.marginSum / float64(p.marginN))
}

func collectProfitStats(recs []domain.ReconciledSale) map[string]*profitStats {
	stats := make(map[string]*profitStats)
	for _, r := range recs {
		st := stats[r.MTM]
		if st == nil {
			st = &profitStats{}
			stats[r.MTM] = st
		}
		if r.LandingCost != nil {
			st.landingSum += *r.LandingCost
			st.landingN++
		}
		if r.UnitProfit != nil {
			st.profitSum += *r.UnitProfit
			st.profitN++
		}
		if r.ProfitMargin != nil {
			st.marginSum += *r.ProfitMargin
			st.marginN++
		}
	}
	return stats
}

func modelNameFromSales(sales []domain.Sale, mtm string) string {
	for _, s := range sales {
		if s.LenovoProductNumber == mtm && s.ModelName != "" {
			return s.ModelName
		}
	}
	return ""
}
