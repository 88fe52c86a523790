package refresh

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/andresuchdata/marginsight/backend-go/internal/engine"
	"github.com/andresuchdata/marginsight/backend-go/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu      sync.Mutex
	rows    map[source.Collection][][]string
	failing map[source.Collection]bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		rows:    make(map[source.Collection][][]string),
		failing: make(map[source.Collection]bool),
	}
}

func (p *fakeProvider) Fetch(ctx context.Context, c source.Collection) ([][]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failing[c] {
		return nil, errors.New("transport down")
	}
	return p.rows[c], nil
}

func (p *fakeProvider) set(c source.Collection, rows [][]string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rows[c] = rows
}

func (p *fakeProvider) fail(c source.Collection, failing bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failing[c] = failing
}

func salesRows(invoice string) [][]string {
	return [][]string{
		{"Invoice Number", "Invoice Date", "Buyer ID", "Quantity", "Total Revenue"},
		{invoice, "2024-05-01", "B1", "1", "500"},
	}
}

func TestRefresher_ComputesAndNotifies(t *testing.T) {
	p := newFakeProvider()
	p.set(source.CollectionSales, salesRows("INV-1"))

	r := NewRefresher(p)
	var published []engine.Derived
	r.OnComputed(func(d engine.Derived) { published = append(published, d) })

	derived, err := r.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, derived.ReconciledSales, 1)
	assert.Equal(t, "INV-1", derived.ReconciledSales[0].InvoiceNumber)
	require.Len(t, published, 1)

	latest, ok := r.Latest()
	require.True(t, ok)
	assert.Equal(t, derived.Fingerprint(), latest.Fingerprint())
}

func TestRefresher_KeepsStaleRowsOnFailure(t *testing.T) {
	p := newFakeProvider()
	p.set(source.CollectionSales, salesRows("INV-1"))

	r := NewRefresher(p)
	_, err := r.Refresh(context.Background())
	require.NoError(t, err)

	// The sales source goes down: the previous rows must survive.
	p.fail(source.CollectionSales, true)
	derived, err := r.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, derived.ReconciledSales, 1)
	assert.Equal(t, "INV-1", derived.ReconciledSales[0].InvoiceNumber)
}

func TestRefresher_SuccessfulEmptyFetchClears(t *testing.T) {
	p := newFakeProvider()
	p.set(source.CollectionSales, salesRows("INV-1"))

	r := NewRefresher(p)
	_, err := r.Refresh(context.Background())
	require.NoError(t, err)

	// The tab was genuinely emptied, not unreachable.
	p.set(source.CollectionSales, [][]string{{"Invoice Number"}})
	derived, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Empty(t, derived.ReconciledSales)
}

func TestRefresher_AllSourcesDownIsAnError(t *testing.T) {
	p := newFakeProvider()
	for _, c := range source.All {
		p.fail(c, true)
	}

	r := NewRefresher(p)
	_, err := r.Refresh(context.Background())
	assert.Error(t, err)
	_, ok := r.Latest()
	assert.False(t, ok)
}

func TestRefresher_DeterministicAcrossRefreshes(t *testing.T) {
	p := newFakeProvider()
	p.set(source.CollectionSales, salesRows("INV-1"))

	r := NewRefresher(p)
	r.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	first, err := r.Refresh(context.Background())
	require.NoError(t, err)
	second, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Fingerprint(), second.Fingerprint())
}
