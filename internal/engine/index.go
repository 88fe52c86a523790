// backend-go/internal/engine/index.go
package engine

import (
	"strings"

	"github.com/andresuchdata/marginsight/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
)

// Identity indexes resolve joins across collections that share no single
// key. Serial-number keys are upper-cased because scans arrive in mixed
// case; composite keys are "<salesOrder>-<mtm>", case-sensitive as
// supplied. Duplicate keys resolve last-write-wins (a known source
// ambiguity, see DESIGN.md), and missing keys resolve to "not found".
type Indexes struct {
	Serials     map[string]domain.SerializedItem
	Orders      map[string]domain.Order
	ShipCosts   map[string]float64
	Accessories map[string]float64
	RebateSales map[string]domain.RebateSale
}

// OrderKey builds the hyphen-joined composite key used throughout.
func OrderKey(salesOrder, mtm string) string {
	return salesOrder + "-" + mtm
}

// SerialKey normalizes a serial number for index lookup.
func SerialKey(serial string) string {
	return strings.ToUpper(strings.TrimSpace(serial))
}

// BuildIndexes constructs all lookup maps for one computation pass.
func BuildIndexes(snap Snapshot) Indexes {
	idx := Indexes{
		Serials:     make(map[string]domain.SerializedItem, len(snap.SerializedItems)),
		Orders:      make(map[string]domain.Order, len(snap.Orders)),
		ShipCosts:   make(map[string]float64, len(snap.Shipments)),
		Accessories: make(map[string]float64, len(snap.AccessoryCosts)),
		RebateSales: make(map[string]domain.RebateSale, len(snap.RebateSales)),
	}

	for _, item := range snap.SerializedItems {
		key := SerialKey(item.SerialNumber)
		if key == "" {
			continue
		}
		idx.Serials[key] = item
	}

	for _, order := range snap.Orders {
		key := OrderKey(order.SalesOrder, order.MTM)
		if _, dup := idx.Orders[key]; dup {
			log.Debug().Str("key", key).Msg("duplicate order key, last row wins")
		}
		idx.Orders[key] = order
	}

	for _, sh := range snap.Shipments {
		if sh.ShippingCost == nil {
			continue
		}
		idx.ShipCosts[OrderKey(sh.SalesOrder, sh.MTM)] = *sh.ShippingCost
	}

	for _, ac := range snap.AccessoryCosts {
		if ac.BackpackCost == nil {
			continue
		}
		idx.Accessories[OrderKey(ac.SO, ac.MTM)] = *ac.BackpackCost
	}

	for _, rs := range snap.RebateSales {
		key := SerialKey(rs.SerialNumber)
		if key == "" {
			continue
		}
		idx.RebateSales[key] = rs
	}

	return idx
}

// LookupSerial returns the serialized item for a (mixed-case) serial.
func (idx Indexes) LookupSerial(serial string) (domain.SerializedItem, bool) {
	item, ok := idx.Serials[SerialKey(serial)]
	return item, ok
}

// LookupOrder returns the order for a composite key; the empty key never
// matches.
func (idx Indexes) LookupOrder(key string) (domain.Order, bool) {
	if key == "" {
		return domain.Order{}, false
	}
	order, ok := idx.Orders[key]
	return order, ok
}

// LookupUnitCost reads a per-unit cost map, distinguishing "not found"
// from zero.
func LookupUnitCost(m map[string]float64, key string) *float64 {
	if key == "" {
		return nil
	}
	if v, ok := m[key]; ok {
		c := v
		return &c
	}
	return nil
}
