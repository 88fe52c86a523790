// backend-go/internal/engine/shipments.go
package engine

import (
	"sort"
	"time"

	"github.com/andresuchdata/marginsight/backend-go/internal/domain"
)

// GroupShipments runs the two grouping passes and concatenates them:
// (a) actual Shipment records grouped by packing list (SG->KH leg), then
// (b) not-yet-arrived Orders that carry a delivery number and are not
// already represented in (a), grouped by delivery number (CN->SG leg).
// Groups within each pass are sorted by group ID.
func GroupShipments(snap Snapshot, today time.Time) []domain.AugmentedShipmentGroup {
	groups := groupPackingLists(snap.Shipments, today)
	covered := make(map[string]struct{})
	for _, sh := range snap.Shipments {
		covered[OrderKey(sh.SalesOrder, sh.MTM)] = struct{}{}
	}
	groups = append(groups, groupDeliveries(snap.Orders, covered, today)...)
	return groups
}

func groupPackingLists(shipments []domain.Shipment, today time.Time) []domain.AugmentedShipmentGroup {
	byList := make(map[string][]domain.Shipment)
	for _, sh := range shipments {
		if sh.PackingList == "" {
			continue
		}
		byList[sh.PackingList] = append(byList[sh.PackingList], sh)
	}

	ids := make([]string, 0, len(byList))
	for id := range byList {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	groups := make([]domain.AugmentedShipmentGroup, 0, len(ids))
	for _, id := range ids {
		lines := byList[id]
		g := domain.AugmentedShipmentGroup{
			GroupID: id,
			Leg:     domain.LegSgpToKhm,
		}

		allArrived := true
		for _, sh := range lines {
			g.Items = append(g.Items, domain.ShipmentGroupItem{
				SalesOrder: sh.SalesOrder,
				MTM:        sh.MTM,
				Quantity:   sh.Quantity,
			})
			g.TotalQuantity += sh.Quantity
			g.ShippingCost += orZero(sh.ShippingCost) * float64(sh.Quantity)
			if sh.TotalKgsOnDate > g.TotalWeightKgs {
				g.TotalWeightKgs = sh.TotalKgsOnDate
			}

			if packed, ok := ParseDate(sh.PackingListDate); ok {
				if g.PackingListDate == nil || packed.Before(*g.PackingListDate) {
					d := packed
					g.PackingListDate = &d
				}
			}
			if eta, ok := ParseDate(sh.ETA); ok {
				if g.ETA == nil || eta.After(*g.ETA) {
					d := eta
					g.ETA = &d
				}
			}
			if arrived, ok := ParseDate(sh.ArrivalDate); ok {
				if g.ArrivalDate == nil || arrived.After(*g.ArrivalDate) {
					d := arrived
					g.ArrivalDate = &d
				}
			} else {
				allArrived = false
			}
		}
		// A group has arrived only when every line has.
		if !allArrived {
			g.ArrivalDate = nil
		}
		g.DepartureDate = g.PackingListDate

		g.Status = packingListStatus(g, today)
		annotateProgress(&g, g.PackingListDate, today)
		groups = append(groups, g)
	}
	return groups
}

func packingListStatus(g domain.AugmentedShipmentGroup, today time.Time) domain.ShipmentStatus {
	switch {
	case g.ArrivalDate != nil:
		return domain.ShipmentArrived
	case g.ETA != nil && g.ETA.Before(today):
		return domain.ShipmentDelayed
	case g.PackingListDate != nil && !g.PackingListDate.After(today):
		return domain.ShipmentTransit
	default:
		return domain.ShipmentUpcoming
	}
}

func groupDeliveries(orders []domain.Order, covered map[string]struct{}, today time.Time) []domain.AugmentedShipmentGroup {
	byDelivery := make(map[string][]domain.Order)
	for _, o := range orders {
		if o.DeliveryNumber == "" {
			continue
		}
		if _, arrived := ParseDate(o.ActualArrival); arrived {
			continue
		}
		if _, ok := covered[OrderKey(o.SalesOrder, o.MTM)]; ok {
			continue
		}
		byDelivery[o.DeliveryNumber] = append(byDelivery[o.DeliveryNumber], o)
	}

	ids := make([]string, 0, len(byDelivery))
	for id := range byDelivery {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	groups := make([]domain.AugmentedShipmentGroup, 0, len(ids))
	for _, id := range ids {
		lines := byDelivery[id]
		g := domain.AugmentedShipmentGroup{
			GroupID: id,
			Leg:     domain.LegFactoryToSgp,
		}

		var issued *time.Time
		for _, o := range lines {
			g.Items = append(g.Items, domain.ShipmentGroupItem{
				SalesOrder: o.SalesOrder,
				MTM:        o.MTM,
				ModelName:  o.ModelName,
				Quantity:   o.Qty,
			})
			g.TotalQuantity += o.Qty
			if d, ok := ParseDate(o.DateIssuePI); ok {
				if issued == nil || d.Before(*issued) {
					v := d
					issued = &v
				}
			}
			if eta, ok := ParseDate(o.ETA); ok {
				if g.ETA == nil || eta.After(*g.ETA) {
					v := eta
					g.ETA = &v
				}
			}
		}
		// No packing list exists yet on this leg; the PI issue date is
		// the best available journey start for progress estimation.
		g.DepartureDate = issued

		if g.ETA != nil && g.ETA.Before(today) {
			g.Status = domain.ShipmentDelayed
		} else {
			g.Status = domain.ShipmentUpcoming
		}
		annotateProgress(&g, issued, today)
		groups = append(groups, g)
	}
	return groups
}

// annotateProgress fills progress/ETA percentages and the delay counter.
// The scale runs from start to end (arrival if known, else ETA) and is
// clamped to [0,100]; etaPct marks where the original ETA sits on the
// same scale, which visualizes slippage when arrival came later.
func annotateProgress(g *domain.AugmentedShipmentGroup, start *time.Time, today time.Time) {
	end := g.ArrivalDate
	if end == nil {
		end = g.ETA
	}
	if start != nil && end != nil && end.After(*start) {
		span := end.Sub(*start)
		progress := clampPct(today.Sub(*start).Hours() / span.Hours() * 100)
		g.ProgressPct = &progress
		if g.ETA != nil {
			etaPct := clampPct(g.ETA.Sub(*start).Hours() / span.Hours() * 100)
			g.ETAPct = &etaPct
		}
	}

	if g.ArrivalDate == nil && g.ETA != nil && g.ETA.Before(today) {
		delay := daysBetween(*g.ETA, today)
		g.DelayDays = &delay
	}
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
