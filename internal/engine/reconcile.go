// backend-go/internal/engine/reconcile.go
package engine

import (
	"github.com/andresuchdata/marginsight/backend-go/internal/domain"
)

// ReconcileSales produces exactly one ReconciledSale per input Sale, in
// input order. Missing joins never raise errors; every gap becomes a nil
// field plus a status tag so the KPI rollups can report data quality
// instead of failing on it.
func ReconcileSales(snap Snapshot, idx Indexes, matcher *RebateMatcher) []domain.ReconciledSale {
	out := make([]domain.ReconciledSale, 0, len(snap.Sales))
	for _, sale := range snap.Sales {
		out = append(out, reconcileOne(sale, idx, matcher))
	}
	return out
}

func reconcileOne(sale domain.Sale, idx Indexes, matcher *RebateMatcher) domain.ReconciledSale {
	rec := domain.ReconciledSale{
		InvoiceNumber: sale.InvoiceNumber,
		InvoiceDate:   sale.InvoiceDate,
		SerialNumber:  sale.SerialNumber,
		MTM:           sale.LenovoProductNumber,
		ModelName:     sale.ModelName,
		BuyerID:       sale.BuyerID,
		BuyerName:     sale.BuyerName,
		Quantity:      sale.Quantity,
		UnitPrice:     sale.UnitPrice,
	}

	// Serial scan -> sales order. Without it the composite key stays
	// empty and every downstream cost lookup reports "not found".
	orderKey := ""
	if item, ok := idx.LookupSerial(sale.SerialNumber); ok {
		orderKey = OrderKey(item.SalesOrder, item.MTM)
		rec.SalesOrder = item.SalesOrder
	}

	order, hasOrder := idx.LookupOrder(orderKey)
	if hasOrder && order.FOBUnitPrice != nil {
		fob := *order.FOBUnitPrice
		rec.FOBCost = &fob
	}

	rec.ShippingCost = LookupUnitCost(idx.ShipCosts, orderKey)
	rec.AccessoryCost = LookupUnitCost(idx.Accessories, orderKey)

	// Landing cost needs FOB; freight and accessory default to zero in
	// the sum but stay nil in the report when missing.
	if rec.FOBCost != nil {
		landing := *rec.FOBCost + orZero(rec.ShippingCost) + orZero(rec.AccessoryCost)
		rec.LandingCost = &landing
	}

	// Rebate window matching uses the vendor-reported invoice date when
	// a RebateSale exists for this serial, else the retail invoice date.
	refRaw := sale.InvoiceDate
	if rs, ok := idx.RebateSales[SerialKey(sale.SerialNumber)]; ok {
		refRaw = rs.RebateInvoiceDate
	}
	if reference, ok := ParseDate(refRaw); ok {
		rec.RebateDetails = matcher.Eligible(sale.LenovoProductNumber, reference)
	}
	if len(rec.RebateDetails) > 0 {
		rebate := PerUnitTotal(rec.RebateDetails)
		rec.RebateApplied = &rebate
	}

	if rec.LandingCost != nil {
		net := *rec.LandingCost - orZero(rec.RebateApplied)
		rec.NetCost = &net
	}

	if rec.NetCost != nil {
		profit := sale.UnitPrice - *rec.NetCost
		rec.UnitProfit = &profit
		if sale.UnitPrice > 0 {
			margin := profit / sale.UnitPrice * 100
			rec.ProfitMargin = &margin
		}
	}

	rec.Status = classify(hasOrder, rec)
	return rec
}

// classify applies the status decision tree; first match wins. Only
// missing freight downgrades to Partially Costed: many orders simply
// ship without accessories, so an absent accessory record is normal
// and the sale still resolves to a rebate-derived status.
func classify(hasOrder bool, rec domain.ReconciledSale) domain.ReconStatus {
	switch {
	case !hasOrder:
		return domain.StatusNoOrderMatch
	case rec.FOBCost == nil:
		return domain.StatusCostMissing
	case rec.ShippingCost == nil:
		return domain.StatusPartiallyCosted
	case len(rec.RebateDetails) > 0:
		return domain.StatusMatched
	default:
		return domain.StatusNoRebate
	}
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func ptrFloat(v float64) *float64 { return &v }

func ptrInt(v int) *int { return &v }
