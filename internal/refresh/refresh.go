// Package refresh drives the fetch-recompute-publish cycle: all source
// collections refresh concurrently, failures keep the previous rows
// (stale beats absent), and a pass is published only when it computed.
package refresh

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/andresuchdata/marginsight/backend-go/internal/engine"
	"github.com/andresuchdata/marginsight/backend-go/internal/source"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Listener receives each freshly computed pass. Listeners are the sink
// debouncer, the derived repository, and the archive exporter.
type Listener func(derived engine.Derived)

type Refresher struct {
	provider source.Provider
	now      func() time.Time

	mu        sync.Mutex
	snap      engine.Snapshot
	derived   engine.Derived
	computed  bool
	listeners []Listener
}

func NewRefresher(provider source.Provider) *Refresher {
	return &Refresher{
		provider: provider,
		now:      time.Now,
	}
}

// OnComputed registers a listener for future passes. Not safe to call
// concurrently with Refresh; register everything during wiring.
func (r *Refresher) OnComputed(l Listener) {
	r.listeners = append(r.listeners, l)
}

// Snapshot returns the last good source collections.
func (r *Refresher) Snapshot() engine.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

// Latest returns the last computed pass; ok=false before the first one.
func (r *Refresher) Latest() (engine.Derived, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.derived, r.computed
}

// Refresh fetches every collection concurrently, merges the successes
// over the previous snapshot, recomputes and publishes. Collections
// that failed to fetch keep their previous rows; the pass still runs.
// The returned error is non-nil only when every collection failed.
func (r *Refresher) Refresh(ctx context.Context) (engine.Derived, error) {
	type fetched struct {
		collection source.Collection
		rows       [][]string
		err        error
	}

	results := make([]fetched, len(source.All))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range source.All {
		i, c := i, c
		g.Go(func() error {
			rows, err := r.provider.Fetch(gctx, c)
			results[i] = fetched{collection: c, rows: rows, err: err}
			// Per-collection failures are tolerated, never group-fatal.
			return nil
		})
	}
	_ = g.Wait()

	r.mu.Lock()
	snap := r.snap
	failures := 0
	for _, res := range results {
		if res.err != nil {
			failures++
			log.Warn().Err(res.err).Str("collection", string(res.collection)).
				Msg("refresh: fetch failed, keeping previous rows")
			continue
		}
		source.DecodeInto(&snap, res.collection, res.rows)
	}
	r.snap = snap
	r.mu.Unlock()

	if failures == len(source.All) {
		return engine.Derived{}, errors.New("every source collection failed to refresh")
	}

	derived := engine.Compute(snap, r.now())

	r.mu.Lock()
	r.derived = derived
	r.computed = true
	listeners := r.listeners
	r.mu.Unlock()

	log.Info().
		Int("failed_collections", failures).
		Str("fingerprint", derived.Fingerprint()).
		Msg("refresh: pass computed")

	for _, l := range listeners {
		l(derived)
	}
	return derived, nil
}

// Run refreshes on the given interval until the context ends. A first
// refresh happens immediately.
func (r *Refresher) Run(ctx context.Context, interval time.Duration) {
	if _, err := r.Refresh(ctx); err != nil {
		log.Error().Err(err).Msg("refresh: initial pass failed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Refresh(ctx); err != nil {
				log.Error().Err(err).Msg("refresh: pass failed")
			}
		}
	}
}
