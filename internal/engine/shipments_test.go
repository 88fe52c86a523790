package engine

import (
	"testing"

	"github.com/andresuchdata/marginsight/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shipToday = date(2024, 6, 1)

func TestGroupShipments_PackingListGrouping(t *testing.T) {
	cost := 12.0
	snap := Snapshot{Shipments: []domain.Shipment{
		{PackingList: "PL-1", SalesOrder: "SO-1", MTM: "M1", Quantity: 10, ShippingCost: &cost, PackingListDate: "2024-05-01", ETA: "2024-05-20", ArrivalDate: "2024-05-22", TotalKgsOnDate: 480},
		{PackingList: "PL-1", SalesOrder: "SO-2", MTM: "M2", Quantity: 5, ShippingCost: &cost, PackingListDate: "2024-05-01", ETA: "2024-05-20", ArrivalDate: "2024-05-22", TotalKgsOnDate: 480},
	}}

	groups := GroupShipments(snap, shipToday)
	require.Len(t, groups, 1)
	g := groups[0]

	assert.Equal(t, "PL-1", g.GroupID)
	assert.Equal(t, domain.LegSgpToKhm, g.Leg)
	assert.Equal(t, domain.ShipmentArrived, g.Status)
	assert.Equal(t, 15, g.TotalQuantity)
	assert.Len(t, g.Items, 2)

	// items quantity sum equals the group total
	sum := 0
	for _, item := range g.Items {
		sum += item.Quantity
	}
	assert.Equal(t, g.TotalQuantity, sum)
	assert.Equal(t, 480.0, g.TotalWeightKgs)
	assert.Equal(t, 12.0*15, g.ShippingCost)
}

func TestGroupShipments_StatusLadder(t *testing.T) {
	tests := []struct {
		name string
		ship domain.Shipment
		want domain.ShipmentStatus
	}{
		{
			"arrived",
			domain.Shipment{PackingList: "PL", PackingListDate: "2024-05-01", ETA: "2024-05-20", ArrivalDate: "2024-05-22"},
			domain.ShipmentArrived,
		},
		{
			"delayed_past_eta",
			domain.Shipment{PackingList: "PL", PackingListDate: "2024-05-01", ETA: "2024-05-20"},
			domain.ShipmentDelayed,
		},
		{
			"transit_packed_eta_ahead",
			domain.Shipment{PackingList: "PL", PackingListDate: "2024-05-25", ETA: "2024-06-20"},
			domain.ShipmentTransit,
		},
		{
			"upcoming_not_packed",
			domain.Shipment{PackingList: "PL", PackingListDate: "2024-06-10", ETA: "2024-06-25"},
			domain.ShipmentUpcoming,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := GroupShipments(Snapshot{Shipments: []domain.Shipment{tt.ship}}, shipToday)
			require.Len(t, groups, 1)
			assert.Equal(t, tt.want, groups[0].Status)
		})
	}
}

func TestGroupShipments_PartiallyArrivedGroupIsNotArrived(t *testing.T) {
	snap := Snapshot{Shipments: []domain.Shipment{
		{PackingList: "PL-1", MTM: "M1", Quantity: 1, PackingListDate: "2024-05-01", ETA: "2024-05-20", ArrivalDate: "2024-05-22"},
		{PackingList: "PL-1", MTM: "M2", Quantity: 1, PackingListDate: "2024-05-01", ETA: "2024-05-20"},
	}}
	groups := GroupShipments(snap, shipToday)
	require.Len(t, groups, 1)
	assert.Nil(t, groups[0].ArrivalDate)
	assert.Equal(t, domain.ShipmentDelayed, groups[0].Status)
}

func TestGroupShipments_ProgressAndDelay(t *testing.T) {
	// Packed May 1, ETA May 21 (20-day span), today June 1: delayed 11
	// days, progress clamps to 100.
	snap := Snapshot{Shipments: []domain.Shipment{
		{PackingList: "PL-1", MTM: "M1", Quantity: 1, PackingListDate: "2024-05-01", ETA: "2024-05-21"},
	}}
	groups := GroupShipments(snap, shipToday)
	require.Len(t, groups, 1)
	g := groups[0]

	require.NotNil(t, g.ProgressPct)
	assert.Equal(t, 100.0, *g.ProgressPct)
	require.NotNil(t, g.ETAPct)
	assert.Equal(t, 100.0, *g.ETAPct, "without an arrival the scale ends at the ETA")
	require.NotNil(t, g.DelayDays)
	assert.Equal(t, 11, *g.DelayDays)
}

func TestGroupShipments_ETAMarkerWithLateArrival(t *testing.T) {
	// Packed May 1, ETA May 21, arrived May 31: the ETA marker sits at
	// 2/3 of the actual journey.
	snap := Snapshot{Shipments: []domain.Shipment{
		{PackingList: "PL-1", MTM: "M1", Quantity: 1, PackingListDate: "2024-05-01", ETA: "2024-05-21", ArrivalDate: "2024-05-31"},
	}}
	groups := GroupShipments(snap, shipToday)
	require.Len(t, groups, 1)
	g := groups[0]

	require.NotNil(t, g.ETAPct)
	assert.InDelta(t, 66.67, *g.ETAPct, 0.01)
	assert.Nil(t, g.DelayDays, "arrived shipments stop counting delay")
}

func TestGroupShipments_DeliveryPass(t *testing.T) {
	val := 9000.0
	snap := Snapshot{
		Orders: []domain.Order{
			// in transit with a delivery number: grouped in pass (b)
			{SalesOrder: "SO-1", MTM: "M1", ModelName: "ThinkPad E14", Qty: 10, OrderValue: &val, DateIssuePI: "2024-05-10", ETA: "2024-06-20", DeliveryNumber: "DN-7"},
			{SalesOrder: "SO-2", MTM: "M2", Qty: 4, DateIssuePI: "2024-05-12", ETA: "2024-06-20", DeliveryNumber: "DN-7"},
			// already arrived: excluded
			{SalesOrder: "SO-3", MTM: "M3", Qty: 2, ActualArrival: "2024-05-01", DeliveryNumber: "DN-8"},
			// no delivery number: excluded
			{SalesOrder: "SO-4", MTM: "M4", Qty: 1, ETA: "2024-06-20"},
			// covered by an actual shipment record: excluded
			{SalesOrder: "SO-5", MTM: "M5", Qty: 3, ETA: "2024-06-20", DeliveryNumber: "DN-9"},
		},
		Shipments: []domain.Shipment{
			{PackingList: "PL-1", SalesOrder: "SO-5", MTM: "M5", Quantity: 3, PackingListDate: "2024-05-20", ETA: "2024-06-10"},
		},
	}

	groups := GroupShipments(snap, shipToday)
	require.Len(t, groups, 2, "one packing-list group, one delivery group")

	assert.Equal(t, "PL-1", groups[0].GroupID)

	g := groups[1]
	assert.Equal(t, "DN-7", g.GroupID)
	assert.Equal(t, domain.LegFactoryToSgp, g.Leg)
	assert.Equal(t, 14, g.TotalQuantity)
	assert.Nil(t, g.PackingListDate)
	assert.Equal(t, domain.ShipmentUpcoming, g.Status)

	// Progress runs from the earliest PI issue date to the ETA.
	require.NotNil(t, g.ProgressPct)
	assert.InDelta(t, 100*22.0/41.0, *g.ProgressPct, 0.01)
}

func TestGroupShipments_DelayedDelivery(t *testing.T) {
	snap := Snapshot{Orders: []domain.Order{
		{SalesOrder: "SO-1", MTM: "M1", Qty: 1, DateIssuePI: "2024-04-01", ETA: "2024-05-15", DeliveryNumber: "DN-1"},
	}}
	groups := GroupShipments(snap, shipToday)
	require.Len(t, groups, 1)
	assert.Equal(t, domain.ShipmentDelayed, groups[0].Status)
	require.NotNil(t, groups[0].DelayDays)
	assert.Equal(t, 17, *groups[0].DelayDays)
}

func TestGroupShipments_EmptyInput(t *testing.T) {
	assert.Empty(t, GroupShipments(Snapshot{}, shipToday))
}
