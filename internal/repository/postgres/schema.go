package postgres

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS source_orders (
		sales_order TEXT NOT NULL DEFAULT '',
		mtm TEXT NOT NULL DEFAULT '',
		model_name TEXT NOT NULL DEFAULT '',
		product_line TEXT NOT NULL DEFAULT '',
		qty INTEGER NOT NULL DEFAULT 0,
		fob_unit_price DOUBLE PRECISION,
		order_value DOUBLE PRECISION,
		date_issue_pi TEXT NOT NULL DEFAULT '',
		eta TEXT NOT NULL DEFAULT '',
		actual_arrival TEXT NOT NULL DEFAULT '',
		factory_to_sgp TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		delivery_number TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS source_sales (
		invoice_number TEXT NOT NULL DEFAULT '',
		invoice_date TEXT NOT NULL DEFAULT '',
		buyer_id TEXT NOT NULL DEFAULT '',
		buyer_name TEXT NOT NULL DEFAULT '',
		serial_number TEXT NOT NULL DEFAULT '',
		lenovo_product_number TEXT NOT NULL DEFAULT '',
		model_name TEXT NOT NULL DEFAULT '',
		quantity INTEGER NOT NULL DEFAULT 0,
		unit_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_revenue DOUBLE PRECISION NOT NULL DEFAULT 0,
		segment TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS source_serialized_items (
		serial_number TEXT NOT NULL DEFAULT '',
		full_serialized_string TEXT NOT NULL DEFAULT '',
		sales_order TEXT NOT NULL DEFAULT '',
		mtm TEXT NOT NULL DEFAULT '',
		"timestamp" TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS source_shipments (
		packing_list TEXT NOT NULL DEFAULT '',
		sales_order TEXT NOT NULL DEFAULT '',
		mtm TEXT NOT NULL DEFAULT '',
		quantity INTEGER NOT NULL DEFAULT 0,
		shipping_cost DOUBLE PRECISION,
		packing_list_date TEXT NOT NULL DEFAULT '',
		eta TEXT NOT NULL DEFAULT '',
		arrival_date TEXT NOT NULL DEFAULT '',
		total_kgs_on_date DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS source_accessory_costs (
		so TEXT NOT NULL DEFAULT '',
		mtm TEXT NOT NULL DEFAULT '',
		backpack_cost DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS source_rebate_programs (
		program TEXT NOT NULL DEFAULT '',
		lenovo_quarter TEXT NOT NULL DEFAULT '',
		start_date TEXT NOT NULL DEFAULT '',
		end_date TEXT NOT NULL DEFAULT '',
		per_unit DOUBLE PRECISION,
		status TEXT NOT NULL DEFAULT '',
		"update" TEXT NOT NULL DEFAULT '',
		rebate_earned DOUBLE PRECISION,
		credit_no TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS source_rebate_details (
		program_code TEXT NOT NULL DEFAULT '',
		mtm TEXT NOT NULL DEFAULT '',
		per_unit DOUBLE PRECISION NOT NULL DEFAULT 0,
		start_date TEXT NOT NULL DEFAULT '',
		end_date TEXT NOT NULL DEFAULT '',
		program_max DOUBLE PRECISION,
		program_reported_lph TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS source_rebate_sales (
		serial_number TEXT NOT NULL DEFAULT '',
		mtm TEXT NOT NULL DEFAULT '',
		rebate_invoice_date TEXT NOT NULL DEFAULT '',
		buyer_id TEXT NOT NULL DEFAULT '',
		quantity INTEGER NOT NULL DEFAULT 0,
		unit_bp_reported_price DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS derived_passes (
		fingerprint TEXT PRIMARY KEY,
		computed_at TIMESTAMPTZ NOT NULL,
		payload JSONB NOT NULL
	)`,
}

// Migrate creates the snapshot and derived tables when missing.
func Migrate(ctx context.Context, db *DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
