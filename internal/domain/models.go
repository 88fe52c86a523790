// backend-go/internal/domain/models.go
package domain

// Source entities are immutable snapshots supplied by external providers
// (sheet tabs, CSV drops, or the snapshot tables in Postgres). Date-ish
// fields stay raw strings here: scans and sheet rows arrive in mixed
// formats and parsing is the engine's job, not the transport's.

// Order is a factory purchase-order line, keyed by salesOrder + MTM.
type Order struct {
	SalesOrder     string   `json:"sales_order" db:"sales_order" csv:"salesOrder"`
	MTM            string   `json:"mtm" db:"mtm" csv:"mtm"`
	ModelName      string   `json:"model_name" db:"model_name" csv:"modelName"`
	ProductLine    string   `json:"product_line" db:"product_line" csv:"productLine"`
	Qty            int      `json:"qty" db:"qty" csv:"qty"`
	FOBUnitPrice   *float64 `json:"fob_unit_price" db:"fob_unit_price" csv:"fobUnitPrice"`
	OrderValue     *float64 `json:"order_value" db:"order_value" csv:"orderValue"`
	DateIssuePI    string   `json:"date_issue_pi" db:"date_issue_pi" csv:"dateIssuePI"`
	ETA            string   `json:"eta" db:"eta" csv:"eta"`
	ActualArrival  string   `json:"actual_arrival" db:"actual_arrival" csv:"actualArrival"`
	FactoryToSgp   string   `json:"factory_to_sgp" db:"factory_to_sgp" csv:"factoryToSgp"`
	Status         string   `json:"status" db:"status" csv:"status"`
	DeliveryNumber string   `json:"delivery_number" db:"delivery_number" csv:"deliveryNumber"`
}

// Sale is one retail invoice line.
type Sale struct {
	InvoiceNumber       string  `json:"invoice_number" db:"invoice_number" csv:"invoiceNumber"`
	InvoiceDate         string  `json:"invoice_date" db:"invoice_date" csv:"invoiceDate"`
	BuyerID             string  `json:"buyer_id" db:"buyer_id" csv:"buyerId"`
	BuyerName           string  `json:"buyer_name" db:"buyer_name" csv:"buyerName"`
	SerialNumber        string  `json:"serial_number" db:"serial_number" csv:"serialNumber"`
	LenovoProductNumber string  `json:"lenovo_product_number" db:"lenovo_product_number" csv:"lenovoProductNumber"`
	ModelName           string  `json:"model_name" db:"model_name" csv:"modelName"`
	Quantity            int     `json:"quantity" db:"quantity" csv:"quantity"`
	UnitPrice           float64 `json:"unit_price" db:"unit_price" csv:"unitPrice"`
	TotalRevenue        float64 `json:"total_revenue" db:"total_revenue" csv:"totalRevenue"`
	Segment             string  `json:"segment" db:"segment" csv:"segment"`
}

// SerializedItem maps a scanned serial number back to the order it shipped on.
type SerializedItem struct {
	SerialNumber         string `json:"serial_number" db:"serial_number" csv:"serialNumber"`
	FullSerializedString string `json:"full_serialized_string" db:"full_serialized_string" csv:"fullSerializedString"`
	SalesOrder           string `json:"sales_order" db:"sales_order" csv:"salesOrder"`
	MTM                  string `json:"mtm" db:"mtm" csv:"mtm"`
	Timestamp            string `json:"timestamp" db:"timestamp" csv:"timestamp"`
}

// Shipment is one packing-list line for the SG->KH leg.
// ShippingCost is the freight cost per unit for the salesOrder+MTM pair.
type Shipment struct {
	PackingList     string   `json:"packing_list" db:"packing_list" csv:"packingList"`
	SalesOrder      string   `json:"sales_order" db:"sales_order" csv:"salesOrder"`
	MTM             string   `json:"mtm" db:"mtm" csv:"mtm"`
	Quantity        int      `json:"quantity" db:"quantity" csv:"quantity"`
	ShippingCost    *float64 `json:"shipping_cost" db:"shipping_cost" csv:"shippingCost"`
	PackingListDate string   `json:"packing_list_date" db:"packing_list_date" csv:"packingListDate"`
	ETA             string   `json:"eta" db:"eta" csv:"eta"`
	ArrivalDate     string   `json:"arrival_date" db:"arrival_date" csv:"arrivalDate"`
	TotalKgsOnDate  float64  `json:"total_kgs_on_date" db:"total_kgs_on_date" csv:"totalKgsOnDate"`
}

// AccessoryCost carries the per-unit bundled-accessory cost for an order line.
type AccessoryCost struct {
	SO           string   `json:"so" db:"so" csv:"so"`
	MTM          string   `json:"mtm" db:"mtm" csv:"mtm"`
	BackpackCost *float64 `json:"backpack_cost" db:"backpack_cost" csv:"backpackCost"`
}

// RebateProgram is the vendor-side program master record.
type RebateProgram struct {
	Program       string   `json:"program" db:"program" csv:"program"`
	LenovoQuarter string   `json:"lenovo_quarter" db:"lenovo_quarter" csv:"lenovoQuarter"`
	StartDate     string   `json:"start_date" db:"start_date" csv:"startDate"`
	EndDate       string   `json:"end_date" db:"end_date" csv:"endDate"`
	PerUnit       *float64 `json:"per_unit" db:"per_unit" csv:"perUnit"`
	Status        string   `json:"status" db:"status" csv:"status"`
	Update        string   `json:"update" db:"update" csv:"update"`
	RebateEarned  *float64 `json:"rebate_earned" db:"rebate_earned" csv:"rebateEarned"`
	CreditNo      string   `json:"credit_no" db:"credit_no" csv:"creditNo"`
}

// RebateDetail scopes a program to an MTM with its own per-unit amount and window.
type RebateDetail struct {
	ProgramCode        string   `json:"program_code" db:"program_code" csv:"programCode"`
	MTM                string   `json:"mtm" db:"mtm" csv:"mtm"`
	PerUnit            float64  `json:"per_unit" db:"per_unit" csv:"perUnit"`
	StartDate          string   `json:"start_date" db:"start_date" csv:"startDate"`
	EndDate            string   `json:"end_date" db:"end_date" csv:"endDate"`
	ProgramMax         *float64 `json:"program_max" db:"program_max" csv:"programMax"`
	ProgramReportedLPH string   `json:"program_reported_lph" db:"program_reported_lph" csv:"programReportedLPH"`
}

// RebateSale is the vendor-reported sell-through record for a serial number.
// Its invoice date, when present, overrides the retail invoice date for
// rebate window matching.
type RebateSale struct {
	SerialNumber        string  `json:"serial_number" db:"serial_number" csv:"serialNumber"`
	MTM                 string  `json:"mtm" db:"mtm" csv:"mtm"`
	RebateInvoiceDate   string  `json:"rebate_invoice_date" db:"rebate_invoice_date" csv:"rebateInvoiceDate"`
	BuyerID             string  `json:"buyer_id" db:"buyer_id" csv:"buyerId"`
	Quantity            int     `json:"quantity" db:"quantity" csv:"quantity"`
	UnitBPReportedPrice float64 `json:"unit_bp_reported_price" db:"unit_bp_reported_price" csv:"unitBPReportedPrice"`
}
