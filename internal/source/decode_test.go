package source

import (
	"testing"

	"github.com/andresuchdata/marginsight/backend-go/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeColumnName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Sales Order", "salesorder"},
		{"sales_order", "salesorder"},
		{"salesOrder", "salesorder"},
		{"  FOB Unit Price ", "fobunitprice"},
		{"Total KGS on Date", "totalkgsondate"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeColumnName(tt.in))
	}
}

func TestDecodeInto_Orders(t *testing.T) {
	rows := [][]string{
		{"Sales Order", "MTM", "Model Name", "Qty", "FOB Unit Price", "Order Value", "ETA", "Delivery Number"},
		{"SO-1", "21AH00", "ThinkPad E14", "10", "300.50", "3005", "2024-06-20", "DN-1"},
		{"SO-2", "21AH01", "", "2.0", "", "n/a", "", ""},
	}

	var snap engine.Snapshot
	DecodeInto(&snap, CollectionOrders, rows)
	require.Len(t, snap.Orders, 2)

	first := snap.Orders[0]
	assert.Equal(t, "SO-1", first.SalesOrder)
	assert.Equal(t, 10, first.Qty)
	require.NotNil(t, first.FOBUnitPrice)
	assert.Equal(t, 300.50, *first.FOBUnitPrice)
	assert.Equal(t, "2024-06-20", first.ETA)

	second := snap.Orders[1]
	assert.Equal(t, 2, second.Qty, "float-ish quantities are truncated")
	assert.Nil(t, second.FOBUnitPrice, "blank cell stays nil")
	assert.Nil(t, second.OrderValue, "unparseable cell stays nil")
}

func TestDecodeInto_ShortRecordReadsAsBlanks(t *testing.T) {
	rows := [][]string{
		{"Invoice Number", "Invoice Date", "Buyer ID", "Serial Number", "Quantity", "Unit Price"},
		{"INV-1", "2024-03-15"},
	}

	var snap engine.Snapshot
	DecodeInto(&snap, CollectionSales, rows)
	require.Len(t, snap.Sales, 1)
	assert.Equal(t, "INV-1", snap.Sales[0].InvoiceNumber)
	assert.Empty(t, snap.Sales[0].SerialNumber)
	assert.Zero(t, snap.Sales[0].Quantity)
}

func TestDecodeInto_HeaderOnly(t *testing.T) {
	var snap engine.Snapshot
	DecodeInto(&snap, CollectionShipments, [][]string{{"Packing List"}})
	assert.Empty(t, snap.Shipments)
}
