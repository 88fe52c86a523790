package source

import (
	"strconv"
	"strings"

	"github.com/andresuchdata/marginsight/backend-go/internal/domain"
	"github.com/andresuchdata/marginsight/backend-go/internal/engine"
)

// DecodeInto decodes raw rows (header first) into the matching snapshot
// collection, overwriting whatever the snapshot held for it. Unknown
// collections are ignored; rows shorter than the header read as blanks.
func DecodeInto(snap *engine.Snapshot, c Collection, rows [][]string) {
	var header []string
	var records [][]string
	if len(rows) > 0 {
		header, records = rows[0], rows[1:]
	}

	switch c {
	case CollectionOrders:
		snap.Orders = decodeOrders(header, records)
	case CollectionSales:
		snap.Sales = decodeSales(header, records)
	case CollectionSerializedItems:
		snap.SerializedItems = decodeSerializedItems(header, records)
	case CollectionShipments:
		snap.Shipments = decodeShipments(header, records)
	case CollectionAccessoryCosts:
		snap.AccessoryCosts = decodeAccessoryCosts(header, records)
	case CollectionRebatePrograms:
		snap.RebatePrograms = decodeRebatePrograms(header, records)
	case CollectionRebateDetails:
		snap.RebateDetails = decodeRebateDetails(header, records)
	case CollectionRebateSales:
		snap.RebateSales = decodeRebateSales(header, records)
	}
}

// normalizeColumnName folds header variants ("Sales Order", "sales_order",
// "salesOrder") onto one lookup key.
func normalizeColumnName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

type row struct {
	colMap map[string]int
	record []string
}

func newRowReader(header []string) func(record []string) row {
	colMap := make(map[string]int, len(header))
	for i, col := range header {
		colMap[normalizeColumnName(col)] = i
	}
	return func(record []string) row {
		return row{colMap: colMap, record: record}
	}
}

func (r row) str(col string) string {
	if idx, ok := r.colMap[col]; ok && idx < len(r.record) {
		return strings.TrimSpace(r.record[idx])
	}
	return ""
}

func (r row) int(col string) int {
	val := r.str(col)
	if val == "" {
		return 0
	}
	// Handle float strings like "1.0"
	f, _ := strconv.ParseFloat(strings.ReplaceAll(val, ",", ""), 64)
	return int(f)
}

func (r row) float(col string) float64 {
	val := r.str(col)
	if val == "" {
		return 0
	}
	f, _ := strconv.ParseFloat(strings.ReplaceAll(val, ",", ""), 64)
	return f
}

// floatPtr keeps the blank/unparseable distinction: nil means the cell
// carried no usable number, which the engine treats as missing cost.
func (r row) floatPtr(col string) *float64 {
	val := r.str(col)
	if val == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(val, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &f
}

func decodeOrders(header []string, records [][]string) []domain.Order {
	read := newRowReader(header)
	out := make([]domain.Order, 0, len(records))
	for _, rec := range records {
		r := read(rec)
		out = append(out, domain.Order{
			SalesOrder:     r.str("salesorder"),
			MTM:            r.str("mtm"),
			ModelName:      r.str("modelname"),
			ProductLine:    r.str("productline"),
			Qty:            r.int("qty"),
			FOBUnitPrice:   r.floatPtr("fobunitprice"),
			OrderValue:     r.floatPtr("ordervalue"),
			DateIssuePI:    r.str("dateissuepi"),
			ETA:            r.str("eta"),
			ActualArrival:  r.str("actualarrival"),
			FactoryToSgp:   r.str("factorytosgp"),
			Status:         r.str("status"),
			DeliveryNumber: r.str("deliverynumber"),
		})
	}
	return out
}

func decodeSales(header []string, records [][]string) []domain.Sale {
	read := newRowReader(header)
	out := make([]domain.Sale, 0, len(records))
	for _, rec := range records {
		r := read(rec)
		out = append(out, domain.Sale{
			InvoiceNumber:       r.str("invoicenumber"),
			InvoiceDate:         r.str("invoicedate"),
			BuyerID:             r.str("buyerid"),
			BuyerName:           r.str("buyername"),
			SerialNumber:        r.str("serialnumber"),
			LenovoProductNumber: r.str("lenovoproductnumber"),
			ModelName:           r.str("modelname"),
			Quantity:            r.int("quantity"),
			UnitPrice:           r.float("unitprice"),
			TotalRevenue:        r.float("totalrevenue"),
			Segment:             r.str("segment"),
		})
	}
	return out
}

func decodeSerializedItems(header []string, records [][]string) []domain.SerializedItem {
	read := newRowReader(header)
	out := make([]domain.SerializedItem, 0, len(records))
	for _, rec := range records {
		r := read(rec)
		out = append(out, domain.SerializedItem{
			SerialNumber:         r.str("serialnumber"),
			FullSerializedString: r.str("fullserializedstring"),
			SalesOrder:           r.str("salesorder"),
			MTM:                  r.str("mtm"),
			Timestamp:            r.str("timestamp"),
		})
	}
	return out
}

func decodeShipments(header []string, records [][]string) []domain.Shipment {
	read := newRowReader(header)
	out := make([]domain.Shipment, 0, len(records))
	for _, rec := range records {
		r := read(rec)
		out = append(out, domain.Shipment{
			PackingList:     r.str("packinglist"),
			SalesOrder:      r.str("salesorder"),
			MTM:             r.str("mtm"),
			Quantity:        r.int("quantity"),
			ShippingCost:    r.floatPtr("shippingcost"),
			PackingListDate: r.str("packinglistdate"),
			ETA:             r.str("eta"),
			ArrivalDate:     r.str("arrivaldate"),
			TotalKgsOnDate:  r.float("totalkgsondate"),
		})
	}
	return out
}

func decodeAccessoryCosts(header []string, records [][]string) []domain.AccessoryCost {
	read := newRowReader(header)
	out := make([]domain.AccessoryCost, 0, len(records))
	for _, rec := range records {
		r := read(rec)
		out = append(out, domain.AccessoryCost{
			SO:           r.str("so"),
			MTM:          r.str("mtm"),
			BackpackCost: r.floatPtr("backpackcost"),
		})
	}
	return out
}

func decodeRebatePrograms(header []string, records [][]string) []domain.RebateProgram {
	read := newRowReader(header)
	out := make([]domain.RebateProgram, 0, len(records))
	for _, rec := range records {
		r := read(rec)
		out = append(out, domain.RebateProgram{
			Program:       r.str("program"),
			LenovoQuarter: r.str("lenovoquarter"),
			StartDate:     r.str("startdate"),
			EndDate:       r.str("enddate"),
			PerUnit:       r.floatPtr("perunit"),
			Status:        r.str("status"),
			Update:        r.str("update"),
			RebateEarned:  r.floatPtr("rebateearned"),
			CreditNo:      r.str("creditno"),
		})
	}
	return out
}

func decodeRebateDetails(header []string, records [][]string) []domain.RebateDetail {
	read := newRowReader(header)
	out := make([]domain.RebateDetail, 0, len(records))
	for _, rec := range records {
		r := read(rec)
		out = append(out, domain.RebateDetail{
			ProgramCode:        r.str("programcode"),
			MTM:                r.str("mtm"),
			PerUnit:            r.float("perunit"),
			StartDate:          r.str("startdate"),
			EndDate:            r.str("enddate"),
			ProgramMax:         r.floatPtr("programmax"),
			ProgramReportedLPH: r.str("programreportedlph"),
		})
	}
	return out
}

func decodeRebateSales(header []string, records [][]string) []domain.RebateSale {
	read := newRowReader(header)
	out := make([]domain.RebateSale, 0, len(records))
	for _, rec := range records {
		r := read(rec)
		out = append(out, domain.RebateSale{
			SerialNumber:        r.str("serialnumber"),
			MTM:                 r.str("mtm"),
			RebateInvoiceDate:   r.str("rebateinvoicedate"),
			BuyerID:             r.str("buyerid"),
			Quantity:            r.int("quantity"),
			UnitBPReportedPrice: r.float("unitbpreportedprice"),
		})
	}
	return out
}
