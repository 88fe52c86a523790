// backend-go/internal/engine/engine.go

// Package engine is the reconciliation-and-analytics core: a set of pure
// transformations from a Snapshot of the source collections to the
// Derived analytics collections. Nothing in here performs I/O, mutates
// its inputs, retries, or keeps state between passes; recomputing from
// an unchanged snapshot yields bit-identical output.
package engine

import (
	"time"
)

// Compute runs one full pass in dependency order: indexes and
// reconciliation first, then inventory (profit-enriched), backorders,
// customers, opportunities, promotions, shipment groups and KPIs.
// today is normalized to UTC midnight once and shared by every
// relative-date computation in the pass.
func Compute(snap Snapshot, today time.Time) Derived {
	now := Midnight(today)

	idx := BuildIndexes(snap)
	matcher := NewRebateMatcher(snap.RebateDetails)

	recs := ReconcileSales(snap, idx, matcher)
	inventory := BuildInventory(snap, recs, now)
	customers := SegmentCustomers(snap.Sales, recs, now)

	return Derived{
		ReconciledSales: recs,
		Inventory:       inventory,
		Backorders:      AnalyzeBackorderCandidates(snap, inventory, now),
		Customers:       customers,
		Opportunities:   ScoreSurplusOpportunities(snap, inventory, customers, now),
		Promotions:      ScorePromotionCandidates(inventory, now),
		ShipmentGroups:  GroupShipments(snap, now),
		Summary:         Summarize(snap, recs),
	}
}
