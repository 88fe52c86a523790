package engine

import (
	"testing"
	"time"

	"github.com/andresuchdata/marginsight/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRebateMatcher_InclusiveBounds(t *testing.T) {
	matcher := NewRebateMatcher([]domain.RebateDetail{
		{ProgramCode: "Q1-PROMO", MTM: "21AH00", PerUnit: 15, StartDate: "2024-01-01", EndDate: "2024-06-30"},
	})

	assert.Len(t, matcher.Eligible("21AH00", date(2024, 1, 1)), 1, "start date itself is eligible")
	assert.Len(t, matcher.Eligible("21AH00", date(2024, 6, 30)), 1, "end date itself is eligible")
	assert.Len(t, matcher.Eligible("21AH00", date(2024, 3, 15)), 1)
	assert.Empty(t, matcher.Eligible("21AH00", date(2023, 12, 31)), "start minus one day is excluded")
	assert.Empty(t, matcher.Eligible("21AH00", date(2024, 7, 1)))
}

func TestRebateMatcher_MTMScoping(t *testing.T) {
	matcher := NewRebateMatcher([]domain.RebateDetail{
		{ProgramCode: "P1", MTM: "21AH00", PerUnit: 15, StartDate: "2024-01-01", EndDate: "2024-12-31"},
	})
	assert.Empty(t, matcher.Eligible("OTHER", date(2024, 3, 15)))
}

func TestRebateMatcher_OpenEndedWindows(t *testing.T) {
	matcher := NewRebateMatcher([]domain.RebateDetail{
		{ProgramCode: "OPEN-END", MTM: "M1", PerUnit: 5, StartDate: "2024-01-01"},
		{ProgramCode: "OPEN-START", MTM: "M2", PerUnit: 7, EndDate: "2024-06-30"},
	})

	assert.Len(t, matcher.Eligible("M1", date(2030, 1, 1)), 1)
	assert.Empty(t, matcher.Eligible("M1", date(2023, 12, 31)))

	assert.Len(t, matcher.Eligible("M2", date(2020, 1, 1)), 1)
	assert.Empty(t, matcher.Eligible("M2", date(2024, 7, 1)))
}

func TestRebateMatcher_NoBoundsNeverEligible(t *testing.T) {
	matcher := NewRebateMatcher([]domain.RebateDetail{
		{ProgramCode: "NO-WINDOW", MTM: "M1", PerUnit: 5},
		{ProgramCode: "BAD-DATES", MTM: "M1", PerUnit: 5, StartDate: "bogus", EndDate: "2024-02-30"},
	})
	assert.Empty(t, matcher.Eligible("M1", date(2024, 3, 15)))
}

func TestRebateMatcher_ConcurrentProgramsStack(t *testing.T) {
	matcher := NewRebateMatcher([]domain.RebateDetail{
		{ProgramCode: "P1", MTM: "M1", PerUnit: 15, StartDate: "2024-01-01", EndDate: "2024-06-30"},
		{ProgramCode: "P2", MTM: "M1", PerUnit: 10, StartDate: "2024-03-01", EndDate: "2024-03-31"},
		{ProgramCode: "P3", MTM: "M1", PerUnit: 99, StartDate: "2024-05-01", EndDate: "2024-05-31"},
	})

	matches := matcher.Eligible("M1", date(2024, 3, 15))
	require.Len(t, matches, 2)
	assert.Equal(t, 25.0, PerUnitTotal(matches))
}

func TestRebateMatcher_UnparseableBoundLeavesSideOpen(t *testing.T) {
	matcher := NewRebateMatcher([]domain.RebateDetail{
		{ProgramCode: "P1", MTM: "M1", PerUnit: 5, StartDate: "garbage", EndDate: "2024-06-30"},
	})
	// Start is unusable so only the end bound constrains the window.
	assert.Len(t, matcher.Eligible("M1", date(2020, 1, 1)), 1)
	assert.Empty(t, matcher.Eligible("M1", date(2024, 7, 1)))
}
