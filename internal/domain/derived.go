// backend-go/internal/domain/derived.go
package domain

import "time"

// Derived entities are recomputed on every pass and never treated as a
// source of truth. Nil pointer fields mean "unknown from the data we
// have", which downstream rollups report instead of failing.

// ReconciledSale is the per-unit cost/profit waterfall for one Sale,
// keyed by serial number (1:1 with the input Sale).
type ReconciledSale struct {
	InvoiceNumber string      `json:"invoice_number" db:"invoice_number"`
	InvoiceDate   string      `json:"invoice_date" db:"invoice_date"`
	SerialNumber  string      `json:"serial_number" db:"serial_number"`
	MTM           string      `json:"mtm" db:"mtm"`
	ModelName     string      `json:"model_name" db:"model_name"`
	BuyerID       string      `json:"buyer_id" db:"buyer_id"`
	BuyerName     string      `json:"buyer_name" db:"buyer_name"`
	SalesOrder    string      `json:"sales_order" db:"sales_order"`
	Quantity      int         `json:"quantity" db:"quantity"`
	UnitPrice     float64     `json:"unit_price" db:"unit_price"`

	FOBCost       *float64       `json:"fob_cost" db:"fob_cost"`
	ShippingCost  *float64       `json:"shipping_cost" db:"shipping_cost"`
	AccessoryCost *float64       `json:"accessory_cost" db:"accessory_cost"`
	LandingCost   *float64       `json:"landing_cost" db:"landing_cost"`
	RebateDetails []RebateDetail `json:"rebate_details" db:"-"`
	RebateApplied *float64       `json:"rebate_applied" db:"rebate_applied"`
	NetCost       *float64       `json:"net_cost" db:"net_cost"`
	UnitProfit    *float64       `json:"unit_profit" db:"unit_profit"`
	ProfitMargin  *float64       `json:"profit_margin" db:"profit_margin"`
	Status        ReconStatus    `json:"status" db:"status"`
}

// InventoryItem is the per-MTM stock and velocity view.
type InventoryItem struct {
	MTM              string     `json:"mtm" db:"mtm"`
	ModelName        string     `json:"model_name" db:"model_name"`
	ProductLine      string     `json:"product_line" db:"product_line"`
	ArrivedQty       int        `json:"arrived_qty" db:"arrived_qty"`
	ShippedQty       int        `json:"shipped_qty" db:"shipped_qty"`
	SoldQty          int        `json:"sold_qty" db:"sold_qty"`
	OnHandQty        int        `json:"on_hand_qty" db:"on_hand_qty"`
	OnTheWayQty      int        `json:"on_the_way_qty" db:"on_the_way_qty"`
	OnTheWayValue    float64    `json:"on_the_way_value" db:"on_the_way_value"`
	WeeklyRunRate    float64    `json:"weekly_run_rate" db:"weekly_run_rate"`
	WeeksOfInventory *int       `json:"weeks_of_inventory" db:"weeks_of_inventory"`
	IsNewModel       bool       `json:"is_new_model" db:"is_new_model"`
	FirstOrderDate   *time.Time `json:"first_order_date" db:"first_order_date"`
	AvgLandingCost   *float64   `json:"avg_landing_cost" db:"avg_landing_cost"`
	AvgUnitProfit    *float64   `json:"avg_unit_profit" db:"avg_unit_profit"`
	AvgProfitMargin  *float64   `json:"avg_profit_margin" db:"avg_profit_margin"`
}

// Customer is the per-buyer aggregate with tier and quadrant segmentation.
type Customer struct {
	BuyerID               string     `json:"buyer_id" db:"buyer_id"`
	BuyerName             string     `json:"buyer_name" db:"buyer_name"`
	Segment               string     `json:"segment" db:"segment"`
	TotalRevenue          float64    `json:"total_revenue" db:"total_revenue"`
	TotalUnits            int        `json:"total_units" db:"total_units"`
	InvoiceCount          int        `json:"invoice_count" db:"invoice_count"`
	TotalProfit           *float64   `json:"total_profit" db:"total_profit"`
	FirstPurchase         *time.Time `json:"first_purchase" db:"first_purchase"`
	LastPurchase          *time.Time `json:"last_purchase" db:"last_purchase"`
	DaysSinceLastPurchase *float64   `json:"days_since_last_purchase" db:"days_since_last_purchase"`
	IsNew                 bool       `json:"is_new" db:"is_new"`
	IsAtRisk              bool       `json:"is_at_risk" db:"is_at_risk"`
	Tier                  Tier       `json:"tier" db:"tier"`
	Quadrant              Quadrant   `json:"quadrant" db:"quadrant"`
}

// BackorderRecommendation prioritizes restocking an out-of-stock MTM
// that still shows recent demand.
type BackorderRecommendation struct {
	MTM                     string     `json:"mtm" db:"mtm"`
	ModelName               string     `json:"model_name" db:"model_name"`
	Priority                Priority   `json:"priority" db:"priority"`
	PriorityScore           float64    `json:"priority_score" db:"priority_score"`
	RecentSalesUnits        int        `json:"recent_sales_units" db:"recent_sales_units"`
	EstimatedBackorderValue float64    `json:"estimated_backorder_value" db:"estimated_backorder_value"`
	AffectedCustomers       int        `json:"affected_customers" db:"affected_customers"`
	SalesTrend              SalesTrend `json:"sales_trend" db:"sales_trend"`
	IsNewModel              bool       `json:"is_new_model" db:"is_new_model"`
}

// PromotionCandidate ranks an in-stock MTM for a marketing push.
type PromotionCandidate struct {
	MTM           string  `json:"mtm" db:"mtm"`
	ModelName     string  `json:"model_name" db:"model_name"`
	OnHandQty     int     `json:"on_hand_qty" db:"on_hand_qty"`
	WeeklyRunRate float64 `json:"weekly_run_rate" db:"weekly_run_rate"`
	StockAgeDays  *int    `json:"stock_age_days" db:"stock_age_days"`
	IsNewLaunch   bool    `json:"is_new_launch" db:"is_new_launch"`
	Score         int     `json:"score" db:"score"`
}

// SurplusOpportunity is one (customer, MTM) cross-sell candidate.
type SurplusOpportunity struct {
	MTM                      string     `json:"mtm" db:"mtm"`
	ModelName                string     `json:"model_name" db:"model_name"`
	InStockQty               int        `json:"in_stock_qty" db:"in_stock_qty"`
	SurplusStockValue        float64    `json:"surplus_stock_value" db:"surplus_stock_value"`
	CustomerPastUnits        int        `json:"customer_past_units" db:"customer_past_units"`
	CustomerLastPurchaseDate *time.Time `json:"customer_last_purchase_date" db:"customer_last_purchase_date"`
	Score                    int        `json:"score" db:"score"`
}

// CustomerSalesOpportunity groups a customer's surplus opportunities.
// Customers without any opportunity are not emitted at all.
type CustomerSalesOpportunity struct {
	BuyerID                  string               `json:"buyer_id" db:"buyer_id"`
	BuyerName                string               `json:"buyer_name" db:"buyer_name"`
	Tier                     Tier                 `json:"tier" db:"tier"`
	CustomerOpportunityScore int                  `json:"customer_opportunity_score" db:"customer_opportunity_score"`
	Opportunities            []SurplusOpportunity `json:"opportunities" db:"-"`
}

// ShipmentGroupItem is one order/shipment line inside a group.
type ShipmentGroupItem struct {
	SalesOrder string `json:"sales_order" db:"sales_order"`
	MTM        string `json:"mtm" db:"mtm"`
	ModelName  string `json:"model_name" db:"model_name"`
	Quantity   int    `json:"quantity" db:"quantity"`
}

// AugmentedShipmentGroup is a packing list (SG->KH) or delivery number
// (CN->SG) with progress/delay annotations for the tracking board.
type AugmentedShipmentGroup struct {
	GroupID         string              `json:"group_id" db:"group_id"`
	Leg             ShipmentLeg         `json:"leg" db:"leg"`
	Status          ShipmentStatus      `json:"status" db:"status"`
	Items           []ShipmentGroupItem `json:"items" db:"-"`
	TotalQuantity   int                 `json:"total_quantity" db:"total_quantity"`
	TotalWeightKgs  float64             `json:"total_weight_kgs" db:"total_weight_kgs"`
	ShippingCost    float64             `json:"shipping_cost" db:"shipping_cost"`
	PackingListDate *time.Time          `json:"packing_list_date" db:"packing_list_date"`
	DepartureDate   *time.Time          `json:"departure_date" db:"departure_date"`
	ETA             *time.Time          `json:"eta" db:"eta"`
	ArrivalDate     *time.Time          `json:"arrival_date" db:"arrival_date"`
	ProgressPct     *float64            `json:"progress_pct" db:"progress_pct"`
	ETAPct          *float64            `json:"eta_pct" db:"eta_pct"`
	DelayDays       *int                `json:"delay_days" db:"delay_days"`
}

// OrdersKPI is the purchase-side dashboard rollup.
type OrdersKPI struct {
	TotalOrders    int     `json:"total_orders"`
	TotalUnits     int     `json:"total_units"`
	TotalValue     float64 `json:"total_value"`
	UnitsArrived   int     `json:"units_arrived"`
	UnitsInTransit int     `json:"units_in_transit"`
}

// SalesKPI is the sell-side dashboard rollup.
type SalesKPI struct {
	TotalRevenue float64 `json:"total_revenue"`
	TotalUnits   int     `json:"total_units"`
	InvoiceCount int     `json:"invoice_count"`
	AvgUnitPrice float64 `json:"avg_unit_price"`
}

// RebateKPI summarizes the rebate program book.
type RebateKPI struct {
	ProgramCount      int     `json:"program_count"`
	ActivePrograms    int     `json:"active_programs"`
	TotalRebateEarned float64 `json:"total_rebate_earned"`
}

// ReconciliationKPI rolls up reconciliation outcomes and profitability.
type ReconciliationKPI struct {
	TotalSales         int                 `json:"total_sales"`
	CountByStatus      map[ReconStatus]int `json:"count_by_status"`
	PctMissingCost     float64             `json:"pct_missing_cost"`
	TotalRebateApplied float64             `json:"total_rebate_applied"`
	TotalProfit        float64             `json:"total_profit"`
	AvgProfitMargin    *float64            `json:"avg_profit_margin"`
}

// DashboardSummary bundles the KPI rollups for the landing dashboard.
type DashboardSummary struct {
	Orders         OrdersKPI         `json:"orders"`
	Sales          SalesKPI          `json:"sales"`
	Rebates        RebateKPI         `json:"rebates"`
	Reconciliation ReconciliationKPI `json:"reconciliation"`
}
