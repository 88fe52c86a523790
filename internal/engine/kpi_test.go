package engine

import (
	"testing"

	"github.com/andresuchdata/marginsight/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeOrders(t *testing.T) {
	v1, v2 := 5000.0, 3000.0
	kpi := summarizeOrders([]domain.Order{
		{Qty: 10, OrderValue: &v1, ActualArrival: "2024-05-01"},
		{Qty: 4, OrderValue: &v2},
		{Qty: 2}, // no value, no arrival
	})

	assert.Equal(t, 3, kpi.TotalOrders)
	assert.Equal(t, 16, kpi.TotalUnits)
	assert.Equal(t, 8000.0, kpi.TotalValue)
	assert.Equal(t, 10, kpi.UnitsArrived)
	assert.Equal(t, 6, kpi.UnitsInTransit)
}

func TestSummarizeSales_DistinctInvoices(t *testing.T) {
	kpi := summarizeSales([]domain.Sale{
		{InvoiceNumber: "INV-1", Quantity: 2, TotalRevenue: 1000},
		{InvoiceNumber: "INV-1", Quantity: 1, TotalRevenue: 500},
		{InvoiceNumber: "INV-2", Quantity: 1, TotalRevenue: 700},
		{Quantity: 1, TotalRevenue: 300}, // blank invoice not counted
	})

	assert.Equal(t, 2, kpi.InvoiceCount)
	assert.Equal(t, 5, kpi.TotalUnits)
	assert.Equal(t, 2500.0, kpi.TotalRevenue)
	assert.Equal(t, 500.0, kpi.AvgUnitPrice)
}

func TestSummarizeSales_Empty(t *testing.T) {
	kpi := summarizeSales(nil)
	assert.Zero(t, kpi.AvgUnitPrice, "no division by zero units")
}

func TestSummarizeRebates(t *testing.T) {
	earned := 1200.0
	kpi := summarizeRebates([]domain.RebateProgram{
		{Program: "Q1-BID", Status: "Active", RebateEarned: &earned},
		{Program: "Q2-BID", Status: " ACTIVE "},
		{Program: "Q3-BID", Status: "Closed"},
		{Program: "Q4-BID"},
	})

	assert.Equal(t, 4, kpi.ProgramCount)
	assert.Equal(t, 2, kpi.ActivePrograms, "status matching is case and whitespace insensitive")
	assert.Equal(t, 1200.0, kpi.TotalRebateEarned)
}

func TestSummarizeReconciliation(t *testing.T) {
	landing := 320.0
	rebate := 15.0
	profit := 195.0
	margin1, margin2 := 39.0, 41.0

	recs := []domain.ReconciledSale{
		{Quantity: 2, Status: domain.StatusMatched, LandingCost: &landing, RebateApplied: &rebate, UnitProfit: &profit, ProfitMargin: &margin1},
		{Quantity: 1, Status: domain.StatusNoRebate, LandingCost: &landing, ProfitMargin: &margin2},
		{Quantity: 1, Status: domain.StatusCostMissing},
		{Quantity: 1, Status: domain.StatusNoOrderMatch},
	}

	kpi := summarizeReconciliation(recs)

	assert.Equal(t, 4, kpi.TotalSales)
	assert.Equal(t, 1, kpi.CountByStatus[domain.StatusMatched])
	assert.Equal(t, 1, kpi.CountByStatus[domain.StatusNoRebate])
	assert.Equal(t, 1, kpi.CountByStatus[domain.StatusCostMissing])
	assert.Equal(t, 1, kpi.CountByStatus[domain.StatusNoOrderMatch])

	// 2 of 4 rows have no landing cost.
	assert.Equal(t, 50.0, kpi.PctMissingCost)

	// Row totals weight per-unit figures by quantity.
	assert.Equal(t, 30.0, kpi.TotalRebateApplied)
	assert.Equal(t, 390.0, kpi.TotalProfit)

	require.NotNil(t, kpi.AvgProfitMargin)
	assert.Equal(t, 40.0, *kpi.AvgProfitMargin)
}

func TestSummarizeReconciliation_Empty(t *testing.T) {
	kpi := summarizeReconciliation(nil)
	assert.Zero(t, kpi.PctMissingCost)
	assert.Nil(t, kpi.AvgProfitMargin)
}

func TestSummarize_Bundle(t *testing.T) {
	snap := waterfallSnapshot()
	idx := BuildIndexes(snap)
	recs := ReconcileSales(snap, idx, NewRebateMatcher(snap.RebateDetails))

	summary := Summarize(snap, recs)
	assert.Equal(t, len(snap.Orders), summary.Orders.TotalOrders)
	assert.Equal(t, len(recs), summary.Reconciliation.TotalSales)
}
