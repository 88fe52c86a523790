package sink

import (
	"time"

	"github.com/andresuchdata/marginsight/backend-go/internal/engine"
)

// Tabs renders every derived collection into its write-back tab. Cell
// values stay typed where possible; nil pointer fields render as "".
func Tabs(d engine.Derived) []Tab {
	return []Tab{
		reconciledTab(d),
		inventoryTab(d),
		backordersTab(d),
		customersTab(d),
		opportunitiesTab(d),
		promotionsTab(d),
		shipmentsTab(d),
		summaryTab(d),
	}
}

func reconciledTab(d engine.Derived) Tab {
	t := Tab{
		Title: "Reconciled Sales",
		Header: []string{
			"Invoice Number", "Invoice Date", "Serial Number", "MTM", "Model Name",
			"Buyer ID", "Buyer Name", "Sales Order", "Quantity", "Unit Price",
			"FOB Cost", "Shipping Cost", "Accessory Cost", "Landing Cost",
			"Rebate Applied", "Net Cost", "Unit Profit", "Profit Margin %", "Status",
		},
	}
	for _, r := range d.ReconciledSales {
		t.Rows = append(t.Rows, []interface{}{
			r.InvoiceNumber, r.InvoiceDate, r.SerialNumber, r.MTM, r.ModelName,
			r.BuyerID, r.BuyerName, r.SalesOrder, r.Quantity, r.UnitPrice,
			cellFloat(r.FOBCost), cellFloat(r.ShippingCost), cellFloat(r.AccessoryCost),
			cellFloat(r.LandingCost), cellFloat(r.RebateApplied), cellFloat(r.NetCost),
			cellFloat(r.UnitProfit), cellFloat(r.ProfitMargin), string(r.Status),
		})
	}
	return t
}

func inventoryTab(d engine.Derived) Tab {
	t := Tab{
		Title: "Inventory",
		Header: []string{
			"MTM", "Model Name", "Product Line", "Arrived", "Shipped", "Sold",
			"On Hand", "On The Way", "OTW Value", "Weekly Run Rate",
			"Weeks Of Inventory", "New Model", "First Order Date",
			"Avg Landing Cost", "Avg Unit Profit", "Avg Margin %",
		},
	}
	for _, i := range d.Inventory {
		t.Rows = append(t.Rows, []interface{}{
			i.MTM, i.ModelName, i.ProductLine, i.ArrivedQty, i.ShippedQty, i.SoldQty,
			i.OnHandQty, i.OnTheWayQty, i.OnTheWayValue, i.WeeklyRunRate,
			cellInt(i.WeeksOfInventory), i.IsNewModel, cellDate(i.FirstOrderDate),
			cellFloat(i.AvgLandingCost), cellFloat(i.AvgUnitProfit), cellFloat(i.AvgProfitMargin),
		})
	}
	return t
}

func backordersTab(d engine.Derived) Tab {
	t := Tab{
		Title: "Backorders",
		Header: []string{
			"MTM", "Model Name", "Priority", "Score", "Recent Units",
			"Estimated Value", "Affected Customers", "Trend", "New Model",
		},
	}
	for _, b := range d.Backorders {
		t.Rows = append(t.Rows, []interface{}{
			b.MTM, b.ModelName, string(b.Priority), b.PriorityScore, b.RecentSalesUnits,
			b.EstimatedBackorderValue, b.AffectedCustomers, string(b.SalesTrend), b.IsNewModel,
		})
	}
	return t
}

func customersTab(d engine.Derived) Tab {
	t := Tab{
		Title: "Customers",
		Header: []string{
			"Buyer ID", "Buyer Name", "Segment", "Revenue", "Units", "Invoices",
			"Profit", "First Purchase", "Last Purchase", "Days Since Last",
			"New", "At Risk", "Tier", "Quadrant",
		},
	}
	for _, c := range d.Customers {
		t.Rows = append(t.Rows, []interface{}{
			c.BuyerID, c.BuyerName, c.Segment, c.TotalRevenue, c.TotalUnits, c.InvoiceCount,
			cellFloat(c.TotalProfit), cellDate(c.FirstPurchase), cellDate(c.LastPurchase),
			cellFloat(c.DaysSinceLastPurchase), c.IsNew, c.IsAtRisk, string(c.Tier), string(c.Quadrant),
		})
	}
	return t
}

func opportunitiesTab(d engine.Derived) Tab {
	t := Tab{
		Title: "Opportunities",
		Header: []string{
			"Buyer ID", "Buyer Name", "Tier", "Customer Score",
			"MTM", "Model Name", "In Stock", "Surplus Value",
			"Past Units", "Last Purchase", "Score",
		},
	}
	// flattened: one row per (customer, opportunity)
	for _, c := range d.Opportunities {
		for _, o := range c.Opportunities {
			t.Rows = append(t.Rows, []interface{}{
				c.BuyerID, c.BuyerName, string(c.Tier), c.CustomerOpportunityScore,
				o.MTM, o.ModelName, o.InStockQty, o.SurplusStockValue,
				o.CustomerPastUnits, cellDate(o.CustomerLastPurchaseDate), o.Score,
			})
		}
	}
	return t
}

func promotionsTab(d engine.Derived) Tab {
	t := Tab{
		Title: "Promotions",
		Header: []string{
			"MTM", "Model Name", "On Hand", "Weekly Run Rate",
			"Stock Age Days", "New Launch", "Score",
		},
	}
	for _, p := range d.Promotions {
		t.Rows = append(t.Rows, []interface{}{
			p.MTM, p.ModelName, p.OnHandQty, p.WeeklyRunRate,
			cellInt(p.StockAgeDays), p.IsNewLaunch, p.Score,
		})
	}
	return t
}

func shipmentsTab(d engine.Derived) Tab {
	t := Tab{
		Title: "Shipments",
		Header: []string{
			"Group", "Leg", "Status", "Quantity", "Weight Kgs", "Shipping Cost",
			"Packed", "ETA", "Arrived", "Progress %", "ETA %", "Delay Days",
		},
	}
	for _, g := range d.ShipmentGroups {
		t.Rows = append(t.Rows, []interface{}{
			g.GroupID, string(g.Leg), string(g.Status), g.TotalQuantity,
			g.TotalWeightKgs, g.ShippingCost, cellDate(g.PackingListDate),
			cellDate(g.ETA), cellDate(g.ArrivalDate),
			cellFloat(g.ProgressPct), cellFloat(g.ETAPct), cellInt(g.DelayDays),
		})
	}
	return t
}

func summaryTab(d engine.Derived) Tab {
	s := d.Summary
	t := Tab{Title: "Summary", Header: []string{"Metric", "Value"}}
	add := func(metric string, value interface{}) {
		t.Rows = append(t.Rows, []interface{}{metric, value})
	}

	add("Total Orders", s.Orders.TotalOrders)
	add("Ordered Units", s.Orders.TotalUnits)
	add("Order Value", s.Orders.TotalValue)
	add("Units Arrived", s.Orders.UnitsArrived)
	add("Units In Transit", s.Orders.UnitsInTransit)
	add("Total Revenue", s.Sales.TotalRevenue)
	add("Units Sold", s.Sales.TotalUnits)
	add("Invoices", s.Sales.InvoiceCount)
	add("Avg Unit Price", s.Sales.AvgUnitPrice)
	add("Rebate Programs", s.Rebates.ProgramCount)
	add("Active Programs", s.Rebates.ActivePrograms)
	add("Rebate Earned", s.Rebates.TotalRebateEarned)
	add("Reconciled Sales", s.Reconciliation.TotalSales)
	add("Pct Missing Cost", s.Reconciliation.PctMissingCost)
	add("Rebate Applied", s.Reconciliation.TotalRebateApplied)
	add("Total Profit", s.Reconciliation.TotalProfit)
	add("Avg Margin %", cellFloat(s.Reconciliation.AvgProfitMargin))
	return t
}

func cellFloat(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func cellInt(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func cellDate(t *time.Time) interface{} {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
