package engine

import (
	"fmt"
	"math"
	"testing"

	"github.com/andresuchdata/marginsight/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var segToday = date(2024, 6, 1)

func TestSegmentCustomers_Aggregation(t *testing.T) {
	sales := []domain.Sale{
		{InvoiceNumber: "I1", InvoiceDate: "2024-05-01", BuyerID: "B1", BuyerName: "Alpha", Quantity: 2, TotalRevenue: 1000},
		{InvoiceNumber: "I1", InvoiceDate: "2024-05-01", BuyerID: "B1", BuyerName: "Alpha", Quantity: 1, TotalRevenue: 500},
		{InvoiceNumber: "I2", InvoiceDate: "2024-02-10", BuyerID: "B1", BuyerName: "Alpha", Quantity: 3, TotalRevenue: 1500},
	}
	customers := SegmentCustomers(sales, nil, segToday)
	require.Len(t, customers, 1)
	c := customers[0]

	assert.Equal(t, "Alpha", c.BuyerName)
	assert.Equal(t, 3000.0, c.TotalRevenue)
	assert.Equal(t, 6, c.TotalUnits)
	assert.Equal(t, 2, c.InvoiceCount, "distinct invoice numbers, not lines")
	require.NotNil(t, c.FirstPurchase)
	assert.Equal(t, date(2024, 2, 10), *c.FirstPurchase)
	require.NotNil(t, c.LastPurchase)
	assert.Equal(t, date(2024, 5, 1), *c.LastPurchase)
	require.NotNil(t, c.DaysSinceLastPurchase)
	assert.Equal(t, 31.0, *c.DaysSinceLastPurchase)
}

func TestSegmentCustomers_Flags(t *testing.T) {
	sales := []domain.Sale{
		{InvoiceNumber: "I1", InvoiceDate: "2024-05-15", BuyerID: "NEW", Quantity: 1, TotalRevenue: 100},
		{InvoiceNumber: "I2", InvoiceDate: "2023-10-01", BuyerID: "STALE", Quantity: 1, TotalRevenue: 100},
		{InvoiceNumber: "I3", InvoiceDate: "bogus-date", BuyerID: "UNDATED", Quantity: 1, TotalRevenue: 100},
	}
	customers := SegmentCustomers(sales, nil, segToday)
	byID := make(map[string]domain.Customer)
	for _, c := range customers {
		byID[c.BuyerID] = c
	}

	assert.True(t, byID["NEW"].IsNew)
	assert.False(t, byID["NEW"].IsAtRisk)

	assert.False(t, byID["STALE"].IsNew)
	assert.True(t, byID["STALE"].IsAtRisk, "244 days since last purchase")

	undated := byID["UNDATED"]
	assert.Nil(t, undated.LastPurchase)
	assert.Nil(t, undated.DaysSinceLastPurchase, "no purchase date at all")
	assert.True(t, undated.IsAtRisk)
}

func TestSegmentCustomers_ProfitEnrichment(t *testing.T) {
	sales := []domain.Sale{
		{InvoiceNumber: "I1", InvoiceDate: "2024-05-01", BuyerID: "B1", Quantity: 2, TotalRevenue: 1000},
	}
	recs := []domain.ReconciledSale{
		{BuyerID: "B1", Quantity: 2, UnitProfit: ptrFloat(100)},
		{BuyerID: "B1", Quantity: 1, UnitProfit: nil}, // missing cost data
	}
	customers := SegmentCustomers(sales, recs, segToday)
	require.Len(t, customers, 1)
	require.NotNil(t, customers[0].TotalProfit)
	assert.Equal(t, 200.0, *customers[0].TotalProfit)
}

func tierCounts(customers []domain.Customer) map[domain.Tier]int {
	counts := make(map[domain.Tier]int)
	for _, c := range customers {
		counts[c.Tier]++
	}
	return counts
}

func makePopulation(n int) []domain.Sale {
	sales := make([]domain.Sale, 0, n)
	for i := 0; i < n; i++ {
		sales = append(sales, domain.Sale{
			InvoiceNumber: fmt.Sprintf("I%03d", i),
			InvoiceDate:   "2024-05-01",
			BuyerID:       fmt.Sprintf("B%03d", i),
			Quantity:      1,
			TotalRevenue:  float64((n - i) * 100), // strictly decreasing revenue
		})
	}
	return sales
}

func TestSegmentCustomers_TierPartition(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 19, 20, 100} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			customers := SegmentCustomers(makePopulation(n), nil, segToday)
			require.Len(t, customers, n)

			counts := tierCounts(customers)
			platinum := int(math.Ceil(0.05 * float64(n)))
			gold := int(math.Ceil(0.20 * float64(n)))
			silver := int(math.Ceil(0.50 * float64(n)))

			assert.Equal(t, platinum, counts[domain.TierPlatinum])
			assert.Equal(t, gold, counts[domain.TierPlatinum]+counts[domain.TierGold])
			assert.Equal(t, silver, counts[domain.TierPlatinum]+counts[domain.TierGold]+counts[domain.TierSilver])
			assert.Equal(t, n, counts[domain.TierPlatinum]+counts[domain.TierGold]+counts[domain.TierSilver]+counts[domain.TierBronze])

			// Tiering follows the revenue sort: the top customer is
			// always Platinum.
			assert.Equal(t, domain.TierPlatinum, customers[0].Tier)
		})
	}
}

func TestSegmentCustomers_QuadrantSplit(t *testing.T) {
	sales := []domain.Sale{
		// high revenue, high frequency
		{InvoiceNumber: "I1", InvoiceDate: "2024-05-01", BuyerID: "CHAMP", Quantity: 1, TotalRevenue: 900},
		{InvoiceNumber: "I2", InvoiceDate: "2024-05-02", BuyerID: "CHAMP", Quantity: 1, TotalRevenue: 900},
		{InvoiceNumber: "I3", InvoiceDate: "2024-05-03", BuyerID: "CHAMP", Quantity: 1, TotalRevenue: 900},
		// high revenue, single invoice
		{InvoiceNumber: "I4", InvoiceDate: "2024-05-01", BuyerID: "SPENDER", Quantity: 1, TotalRevenue: 2000},
		// low revenue, many invoices
		{InvoiceNumber: "I5", InvoiceDate: "2024-05-01", BuyerID: "LOYAL", Quantity: 1, TotalRevenue: 50},
		{InvoiceNumber: "I6", InvoiceDate: "2024-05-02", BuyerID: "LOYAL", Quantity: 1, TotalRevenue: 50},
		{InvoiceNumber: "I7", InvoiceDate: "2024-05-03", BuyerID: "LOYAL", Quantity: 1, TotalRevenue: 50},
		// low revenue, single invoice
		{InvoiceNumber: "I8", InvoiceDate: "2024-05-01", BuyerID: "WATCH", Quantity: 1, TotalRevenue: 40},
	}
	customers := SegmentCustomers(sales, nil, segToday)
	require.Len(t, customers, 4)

	byID := make(map[string]domain.Quadrant)
	for _, c := range customers {
		byID[c.BuyerID] = c.Quadrant
	}
	assert.Equal(t, domain.QuadrantChampion, byID["CHAMP"])
	assert.Equal(t, domain.QuadrantHighSpender, byID["SPENDER"])
	assert.Equal(t, domain.QuadrantLoyal, byID["LOYAL"])
	assert.Equal(t, domain.QuadrantWatch, byID["WATCH"])
}

func TestSegmentCustomers_SmallPopulationSkipsQuadrantSplit(t *testing.T) {
	customers := SegmentCustomers(makePopulation(3), nil, segToday)
	require.Len(t, customers, 3)
	for _, c := range customers {
		assert.Equal(t, domain.QuadrantWatch, c.Quadrant)
	}
}

func TestSegmentCustomers_EmptyPopulation(t *testing.T) {
	assert.Empty(t, SegmentCustomers(nil, nil, segToday))
}
