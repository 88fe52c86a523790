package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/marginsight/backend-go/internal/engine"
	"github.com/andresuchdata/marginsight/backend-go/internal/repository"
)

// DerivedRepository stores each computed pass as one row keyed by its
// content fingerprint, so the API always serves the latest pass and
// recomputes of unchanged data collapse into a no-op upsert.
type DerivedRepository struct {
	db *DB
}

func NewDerivedRepository(db *DB) *DerivedRepository {
	return &DerivedRepository{db: db}
}

var _ repository.DerivedRepository = (*DerivedRepository)(nil)

func (r *DerivedRepository) SaveDerived(ctx context.Context, d engine.Derived, computedAt time.Time) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode derived pass: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO derived_passes (fingerprint, computed_at, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (fingerprint)
		DO UPDATE SET computed_at = EXCLUDED.computed_at`,
		d.Fingerprint(), computedAt, payload)
	if err != nil {
		return fmt.Errorf("save derived pass: %w", err)
	}
	return nil
}

func (r *DerivedRepository) LoadLatest(ctx context.Context) (engine.Derived, bool, error) {
	var payload []byte
	err := r.db.GetContext(ctx, &payload,
		"SELECT payload FROM derived_passes ORDER BY computed_at DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return engine.Derived{}, false, nil
	}
	if err != nil {
		return engine.Derived{}, false, fmt.Errorf("load derived pass: %w", err)
	}

	var d engine.Derived
	if err := json.Unmarshal(payload, &d); err != nil {
		return engine.Derived{}, false, fmt.Errorf("decode derived pass: %w", err)
	}
	return d, true, nil
}
