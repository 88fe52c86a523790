package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_Deterministic(t *testing.T) {
	snap := waterfallSnapshot()
	snap.Shipments = append(snap.Shipments, inventorySnapshot().Shipments...)
	today := date(2024, 6, 1)

	first := Compute(snap, today)
	second := Compute(snap, today)

	require.NotEmpty(t, first.Fingerprint())
	assert.Equal(t, first.Fingerprint(), second.Fingerprint(),
		"recomputing an unchanged snapshot must be bit-identical")
}

func TestCompute_OneReconciledSalePerSale(t *testing.T) {
	snap := waterfallSnapshot()
	out := Compute(snap, date(2024, 6, 1))

	require.Len(t, out.ReconciledSales, len(snap.Sales))
	seen := make(map[string]bool)
	for i, r := range out.ReconciledSales {
		assert.Equal(t, snap.Sales[i].SerialNumber, r.SerialNumber, "input order is preserved")
		assert.False(t, seen[r.SerialNumber+r.InvoiceNumber])
		seen[r.SerialNumber+r.InvoiceNumber] = true
	}
}

func TestCompute_EmptySnapshot(t *testing.T) {
	out := Compute(Snapshot{}, date(2024, 6, 1))

	assert.Empty(t, out.ReconciledSales)
	assert.Empty(t, out.Inventory)
	assert.Empty(t, out.Backorders)
	assert.Empty(t, out.Customers)
	assert.Empty(t, out.Opportunities)
	assert.Empty(t, out.Promotions)
	assert.Empty(t, out.ShipmentGroups)
	assert.Zero(t, out.Summary.Sales.TotalRevenue)
	assert.NotEmpty(t, out.Fingerprint())
}

func TestCompute_NormalizesToday(t *testing.T) {
	snap := waterfallSnapshot()
	midnight := date(2024, 6, 1)
	afternoon := time.Date(2024, 6, 1, 15, 42, 7, 0, time.UTC)

	assert.Equal(t, Compute(snap, midnight).Fingerprint(), Compute(snap, afternoon).Fingerprint(),
		"the wall-clock time of day must not affect results")
}

func TestSnapshotFingerprint(t *testing.T) {
	a := waterfallSnapshot()
	b := waterfallSnapshot()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Sales[0].UnitPrice += 0.01
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}
