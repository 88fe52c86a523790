// backend-go/internal/engine/rebates.go
package engine

import (
	"time"

	"github.com/andresuchdata/marginsight/backend-go/internal/domain"
)

type rebateWindow struct {
	detail   domain.RebateDetail
	start    time.Time
	end      time.Time
	hasStart bool
	hasEnd   bool
}

// RebateMatcher answers "which programs pay out for this MTM on this
// date". Detail windows are parsed once and grouped by MTM, so matching
// a sale touches only the details for its MTM.
type RebateMatcher struct {
	byMTM map[string][]rebateWindow
}

// NewRebateMatcher builds the per-MTM window index. A bound that is
// absent or unparseable leaves that side of the window open; a detail
// with neither bound can never match and is dropped here.
func NewRebateMatcher(details []domain.RebateDetail) *RebateMatcher {
	byMTM := make(map[string][]rebateWindow)
	for _, d := range details {
		w := rebateWindow{detail: d}
		w.start, w.hasStart = ParseDate(d.StartDate)
		w.end, w.hasEnd = ParseDate(d.EndDate)
		if !w.hasStart && !w.hasEnd {
			continue
		}
		byMTM[d.MTM] = append(byMTM[d.MTM], w)
	}
	return &RebateMatcher{byMTM: byMTM}
}

// Eligible returns every detail for the MTM whose window contains the
// reference date, bounds inclusive. All matches stack when summing the
// per-unit rebate.
func (m *RebateMatcher) Eligible(mtm string, reference time.Time) []domain.RebateDetail {
	var matches []domain.RebateDetail
	for _, w := range m.byMTM[mtm] {
		if w.hasStart && reference.Before(w.start) {
			continue
		}
		if w.hasEnd && reference.After(w.end) {
			continue
		}
		matches = append(matches, w.detail)
	}
	return matches
}

// PerUnitTotal sums the stacked per-unit amounts of the matched details.
func PerUnitTotal(details []domain.RebateDetail) float64 {
	total := 0.0
	for _, d := range details {
		total += d.PerUnit
	}
	return total
}
