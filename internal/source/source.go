// Package source defines where raw source rows come from. A Provider
// hands back untyped rows per collection; decoding into domain entities
// happens here so every provider (Sheets, CSV) shares one mapping.
package source

import (
	"context"

	"github.com/andresuchdata/marginsight/backend-go/internal/engine"
	"github.com/rs/zerolog/log"
)

// Collection names one source tab/file. The string value doubles as the
// sheet tab title and the CSV file stem.
type Collection string

const (
	CollectionOrders          Collection = "orders"
	CollectionSales           Collection = "sales"
	CollectionSerializedItems Collection = "serialized_items"
	CollectionShipments       Collection = "shipments"
	CollectionAccessoryCosts  Collection = "accessory_costs"
	CollectionRebatePrograms  Collection = "rebate_programs"
	CollectionRebateDetails   Collection = "rebate_details"
	CollectionRebateSales     Collection = "rebate_sales"
)

// All lists every collection in snapshot field order.
var All = []Collection{
	CollectionOrders,
	CollectionSales,
	CollectionSerializedItems,
	CollectionShipments,
	CollectionAccessoryCosts,
	CollectionRebatePrograms,
	CollectionRebateDetails,
	CollectionRebateSales,
}

// Provider fetches the raw rows of one collection, header row included.
// A missing collection yields empty rows, not an error; errors are for
// transport failures only.
type Provider interface {
	Fetch(ctx context.Context, c Collection) ([][]string, error)
}

// Load fetches and decodes every collection into one snapshot. A
// collection that fails to fetch stays empty and is reported back so
// the caller can decide whether stale data should be kept instead.
func Load(ctx context.Context, p Provider) (engine.Snapshot, []error) {
	var snap engine.Snapshot
	var errs []error

	for _, c := range All {
		rows, err := p.Fetch(ctx, c)
		if err != nil {
			log.Warn().Err(err).Str("collection", string(c)).Msg("source fetch failed")
			errs = append(errs, err)
			continue
		}
		DecodeInto(&snap, c, rows)
	}
	return snap, errs
}
