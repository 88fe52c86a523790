// Package repository defines the persistence contracts for source
// snapshots and computed passes. Implementations live in subpackages.
package repository

import (
	"context"
	"time"

	"github.com/andresuchdata/marginsight/backend-go/internal/engine"
)

// SnapshotRepository persists the raw source collections so a pass can
// be recomputed without re-fetching every provider.
type SnapshotRepository interface {
	// ReplaceSnapshot swaps the stored snapshot for the given one in a
	// single transaction. Collections are replaced wholesale.
	ReplaceSnapshot(ctx context.Context, snap engine.Snapshot) error
	LoadSnapshot(ctx context.Context) (engine.Snapshot, error)
}

// DerivedRepository persists computed passes for the API to serve.
type DerivedRepository interface {
	// SaveDerived stores a pass under its fingerprint and marks it latest.
	SaveDerived(ctx context.Context, d engine.Derived, computedAt time.Time) error
	// LoadLatest returns the most recent pass. ok=false when none exists.
	LoadLatest(ctx context.Context) (engine.Derived, bool, error)
}
