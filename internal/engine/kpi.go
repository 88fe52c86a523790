// backend-go/internal/engine/kpi.go
package engine

import (
	"strings"

	"github.com/andresuchdata/marginsight/backend-go/internal/domain"
)

// Summarize rolls the source collections and reconciliation results up
// into the dashboard KPI bundle. Sums run in input order so repeated
// passes accumulate identically.
func Summarize(snap Snapshot, recs []domain.ReconciledSale) domain.DashboardSummary {
	return domain.DashboardSummary{
		Orders:         summarizeOrders(snap.Orders),
		Sales:          summarizeSales(snap.Sales),
		Rebates:        summarizeRebates(snap.RebatePrograms),
		Reconciliation: summarizeReconciliation(recs),
	}
}

func summarizeOrders(orders []domain.Order) domain.OrdersKPI {
	kpi := domain.OrdersKPI{TotalOrders: len(orders)}
	for _, o := range orders {
		kpi.TotalUnits += o.Qty
		if o.OrderValue != nil {
			kpi.TotalValue += *o.OrderValue
		}
		if _, arrived := ParseDate(o.ActualArrival); arrived {
			kpi.UnitsArrived += o.Qty
		} else {
			kpi.UnitsInTransit += o.Qty
		}
	}
	return kpi
}

func summarizeSales(sales []domain.Sale) domain.SalesKPI {
	kpi := domain.SalesKPI{}
	invoices := make(map[string]struct{})
	for _, s := range sales {
		kpi.TotalRevenue += s.TotalRevenue
		kpi.TotalUnits += s.Quantity
		if s.InvoiceNumber != "" {
			invoices[s.InvoiceNumber] = struct{}{}
		}
	}
	kpi.InvoiceCount = len(invoices)
	if kpi.TotalUnits > 0 {
		kpi.AvgUnitPrice = kpi.TotalRevenue / float64(kpi.TotalUnits)
	}
	return kpi
}

func summarizeRebates(programs []domain.RebateProgram) domain.RebateKPI {
	kpi := domain.RebateKPI{ProgramCount: len(programs)}
	for _, p := range programs {
		if strings.EqualFold(strings.TrimSpace(p.Status), "active") {
			kpi.ActivePrograms++
		}
		if p.RebateEarned != nil {
			kpi.TotalRebateEarned += *p.RebateEarned
		}
	}
	return kpi
}

func summarizeReconciliation(recs []domain.ReconciledSale) domain.ReconciliationKPI {
	kpi := domain.ReconciliationKPI{
		TotalSales:    len(recs),
		CountByStatus: make(map[domain.ReconStatus]int),
	}

	marginSum := 0.0
	marginN := 0
	missingCost := 0
	for _, r := range recs {
		kpi.CountByStatus[r.Status]++
		if r.LandingCost == nil {
			missingCost++
		}
		if r.RebateApplied != nil {
			kpi.TotalRebateApplied += *r.RebateApplied * float64(r.Quantity)
		}
		if r.UnitProfit != nil {
			kpi.TotalProfit += *r.UnitProfit * float64(r.Quantity)
		}
		if r.ProfitMargin != nil {
			marginSum += *r.ProfitMargin
			marginN++
		}
	}

	if len(recs) > 0 {
		kpi.PctMissingCost = float64(missingCost) / float64(len(recs)) * 100
	}
	if marginN > 0 {
		kpi.AvgProfitMargin = ptrFloat(marginSum / float64(marginN))
	}
	return kpi
}
