package sink

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/andresuchdata/marginsight/backend-go/internal/domain"
	"github.com/andresuchdata/marginsight/backend-go/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	pushes []Tab
}

func (r *recordingSink) Push(ctx context.Context, tab Tab) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushes = append(r.pushes, tab)
	return nil
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pushes)
}

func sampleDerived(revenue float64) engine.Derived {
	return engine.Derived{
		Summary: domain.DashboardSummary{
			Sales: domain.SalesKPI{TotalRevenue: revenue},
		},
	}
}

func TestDebouncer_CoalescesRapidSchedules(t *testing.T) {
	rec := &recordingSink{}
	d := NewDebouncer(rec, 20*time.Millisecond, 0)

	d.Schedule(sampleDerived(100))
	d.Schedule(sampleDerived(200))
	d.Schedule(sampleDerived(300))

	assert.Eventually(t, func() bool { return rec.count() > 0 }, time.Second, 5*time.Millisecond)
	// one full push of all tabs, carrying the latest pass only
	assert.Equal(t, len(Tabs(sampleDerived(300))), rec.count())
}

func TestDebouncer_SkipsUnchangedOutput(t *testing.T) {
	rec := &recordingSink{}
	d := NewDebouncer(rec, time.Millisecond, 0)

	d.Schedule(sampleDerived(100))
	assert.Eventually(t, func() bool { return rec.count() > 0 }, time.Second, time.Millisecond)
	pushed := rec.count()

	d.Schedule(sampleDerived(100))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, pushed, rec.count(), "identical pass must not push again")
}

func TestDebouncer_Flush(t *testing.T) {
	rec := &recordingSink{}
	d := NewDebouncer(rec, time.Hour, 0)

	d.Schedule(sampleDerived(100))
	assert.Zero(t, rec.count())
	d.Flush()
	assert.NotZero(t, rec.count())
}

func TestTabs_FlattensOpportunities(t *testing.T) {
	d := engine.Derived{Opportunities: []domain.CustomerSalesOpportunity{{
		BuyerID: "B1",
		Opportunities: []domain.SurplusOpportunity{
			{MTM: "M1"}, {MTM: "M2"},
		},
	}}}

	tabs := Tabs(d)
	var opps *Tab
	for i := range tabs {
		if tabs[i].Title == "Opportunities" {
			opps = &tabs[i]
		}
	}
	require.NotNil(t, opps)
	assert.Len(t, opps.Rows, 2, "one row per (customer, MTM) pair")
}

func TestTabs_NilPointerCellsRenderEmpty(t *testing.T) {
	d := engine.Derived{ReconciledSales: []domain.ReconciledSale{{
		SerialNumber: "S1",
		Status:       domain.StatusNoOrderMatch,
	}}}

	tabs := Tabs(d)
	require.NotEmpty(t, tabs)
	row := tabs[0].Rows[0]
	// FOB cost column is nil on a no-order-match row
	assert.Equal(t, "", row[10])
}
