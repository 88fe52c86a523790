package sink

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/andresuchdata/marginsight/backend-go/internal/engine"
	"github.com/rs/zerolog/log"
)

const pushTimeout = 2 * time.Minute

// Debouncer coalesces rapid recomputes into one write-back: each
// Schedule resets a timer of delay plus a random jitter, and a content
// hash skips the push entirely when the derived output hasn't changed
// since the last successful one.
type Debouncer struct {
	sink   Sink
	delay  time.Duration
	jitter time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	pending  engine.Derived
	lastHash string
}

func NewDebouncer(sink Sink, delay, jitter time.Duration) *Debouncer {
	return &Debouncer{sink: sink, delay: delay, jitter: jitter}
}

// Schedule queues derived output for write-back after the debounce
// window. A newer pass scheduled before the window fires replaces the
// pending one and restarts the window.
func (d *Debouncer) Schedule(derived engine.Derived) {
	hash := derived.Fingerprint()

	d.mu.Lock()
	defer d.mu.Unlock()

	if hash == d.lastHash {
		log.Debug().Str("hash", hash).Msg("sink: derived output unchanged, skipping push")
		return
	}

	d.pending = derived
	wait := d.delay
	if d.jitter > 0 {
		wait += time.Duration(rand.Int63n(int64(d.jitter)))
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(wait, d.flushPending)
}

// Flush pushes the pending pass immediately, cancelling any timer.
// Used on shutdown so a computed pass is not lost to the window.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	d.flushPending()
}

func (d *Debouncer) flushPending() {
	d.mu.Lock()
	derived := d.pending
	hash := derived.Fingerprint()
	if hash == d.lastHash {
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()

	for _, tab := range Tabs(derived) {
		if err := d.sink.Push(ctx, tab); err != nil {
			log.Error().Err(err).Str("tab", tab.Title).Msg("sink: push failed")
			return
		}
		log.Debug().Str("tab", tab.Title).Int("rows", len(tab.Rows)).Msg("sink: tab pushed")
	}

	d.mu.Lock()
	d.lastHash = hash
	d.mu.Unlock()
	log.Info().Str("hash", hash).Msg("sink: derived output pushed")
}
