package postgres

import (
	"context"
	"fmt"
	"reflect"

	"github.com/andresuchdata/marginsight/backend-go/internal/engine"
	"github.com/andresuchdata/marginsight/backend-go/internal/repository"
	"github.com/jmoiron/sqlx"
)

// SnapshotRepository stores each source collection in its own table,
// replaced wholesale per refresh inside one transaction.
type SnapshotRepository struct {
	db *DB
}

func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

var _ repository.SnapshotRepository = (*SnapshotRepository)(nil)

func (r *SnapshotRepository) ReplaceSnapshot(ctx context.Context, snap engine.Snapshot) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := replaceAll(ctx, tx, "source_orders", `
			INSERT INTO source_orders (
				sales_order, mtm, model_name, product_line, qty, fob_unit_price,
				order_value, date_issue_pi, eta, actual_arrival, factory_to_sgp,
				status, delivery_number
			) VALUES (
				:sales_order, :mtm, :model_name, :product_line, :qty, :fob_unit_price,
				:order_value, :date_issue_pi, :eta, :actual_arrival, :factory_to_sgp,
				:status, :delivery_number
			)`, snap.Orders); err != nil {
			return err
		}
		if err := replaceAll(ctx, tx, "source_sales", `
			INSERT INTO source_sales (
				invoice_number, invoice_date, buyer_id, buyer_name, serial_number,
				lenovo_product_number, model_name, quantity, unit_price,
				total_revenue, segment
			) VALUES (
				:invoice_number, :invoice_date, :buyer_id, :buyer_name, :serial_number,
				:lenovo_product_number, :model_name, :quantity, :unit_price,
				:total_revenue, :segment
			)`, snap.Sales); err != nil {
			return err
		}
		if err := replaceAll(ctx, tx, "source_serialized_items", `
			INSERT INTO source_serialized_items (
				serial_number, full_serialized_string, sales_order, mtm, "timestamp"
			) VALUES (
				:serial_number, :full_serialized_string, :sales_order, :mtm, :timestamp
			)`, snap.SerializedItems); err != nil {
			return err
		}
		if err := replaceAll(ctx, tx, "source_shipments", `
			INSERT INTO source_shipments (
				packing_list, sales_order, mtm, quantity, shipping_cost,
				packing_list_date, eta, arrival_date, total_kgs_on_date
			) VALUES (
				:packing_list, :sales_order, :mtm, :quantity, :shipping_cost,
				:packing_list_date, :eta, :arrival_date, :total_kgs_on_date
			)`, snap.Shipments); err != nil {
			return err
		}
		if err := replaceAll(ctx, tx, "source_accessory_costs", `
			INSERT INTO source_accessory_costs (so, mtm, backpack_cost)
			VALUES (:so, :mtm, :backpack_cost)`, snap.AccessoryCosts); err != nil {
			return err
		}
		if err := replaceAll(ctx, tx, "source_rebate_programs", `
			INSERT INTO source_rebate_programs (
				program, lenovo_quarter, start_date, end_date, per_unit,
				status, "update", rebate_earned, credit_no
			) VALUES (
				:program, :lenovo_quarter, :start_date, :end_date, :per_unit,
				:status, :update, :rebate_earned, :credit_no
			)`, snap.RebatePrograms); err != nil {
			return err
		}
		if err := replaceAll(ctx, tx, "source_rebate_details", `
			INSERT INTO source_rebate_details (
				program_code, mtm, per_unit, start_date, end_date,
				program_max, program_reported_lph
			) VALUES (
				:program_code, :mtm, :per_unit, :start_date, :end_date,
				:program_max, :program_reported_lph
			)`, snap.RebateDetails); err != nil {
			return err
		}
		return replaceAll(ctx, tx, "source_rebate_sales", `
			INSERT INTO source_rebate_sales (
				serial_number, mtm, rebate_invoice_date, buyer_id, quantity,
				unit_bp_reported_price
			) VALUES (
				:serial_number, :mtm, :rebate_invoice_date, :buyer_id, :quantity,
				:unit_bp_reported_price
			)`, snap.RebateSales)
	})
}

func (r *SnapshotRepository) LoadSnapshot(ctx context.Context) (engine.Snapshot, error) {
	var snap engine.Snapshot

	loads := []struct {
		query string
		dest  interface{}
	}{
		{"SELECT * FROM source_orders", &snap.Orders},
		{"SELECT * FROM source_sales", &snap.Sales},
		{"SELECT * FROM source_serialized_items", &snap.SerializedItems},
		{"SELECT * FROM source_shipments", &snap.Shipments},
		{"SELECT * FROM source_accessory_costs", &snap.AccessoryCosts},
		{"SELECT * FROM source_rebate_programs", &snap.RebatePrograms},
		{"SELECT * FROM source_rebate_details", &snap.RebateDetails},
		{"SELECT * FROM source_rebate_sales", &snap.RebateSales},
	}
	for _, l := range loads {
		if err := r.db.SelectContext(ctx, l.dest, l.query); err != nil {
			return engine.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
		}
	}
	return snap, nil
}

// replaceAll deletes the table's rows and batch-inserts the new slice.
// An empty slice leaves the table empty, matching the sink's semantics.
func replaceAll(ctx context.Context, tx *sqlx.Tx, table, insert string, rows interface{}) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	if isEmptySlice(rows) {
		return nil
	}
	if _, err := tx.NamedExecContext(ctx, insert, rows); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// sqlx rejects empty slices in NamedExec, so length-check first.
func isEmptySlice(rows interface{}) bool {
	v := reflect.ValueOf(rows)
	return v.Kind() == reflect.Slice && v.Len() == 0
}
