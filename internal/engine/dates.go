// backend-go/internal/engine/dates.go
package engine

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// The three textual date formats the source sheets use. Anything else is
// rejected rather than handed to a permissive parser, so locale and
// timezone ambiguity cannot leak into interval matching.
var monthAbbrevs = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseDate parses YYYY-MM-DD, MM/DD/YYYY or DD-Mon-YYYY (month
// case-insensitive) into a UTC-midnight date. The second return is false
// for empty input, an unrecognized layout, or a non-round-tripping
// calendar date such as 2024-02-30. Unparseable non-empty input is
// logged at warn level and never raises an error.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if t, ok := parseExact(s); ok {
		return t, true
	}

	log.Warn().Str("value", raw).Msg("unparseable date, treating as missing")
	return time.Time{}, false
}

func parseExact(s string) (time.Time, bool) {
	if strings.Contains(s, "/") {
		return parseNumeric(s, "/", false)
	}

	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	if _, ok := monthAbbrevs[strings.ToLower(parts[1])]; ok {
		return parseMonAbbrev(parts)
	}
	return parseNumeric(s, "-", true)
}

// parseNumeric handles YYYY-MM-DD (yearFirst) and MM/DD/YYYY, with the
// calendar round-trip check that rejects overflow dates.
func parseNumeric(s, sep string, yearFirst bool) (time.Time, bool) {
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return time.Time{}, false
	}

	var y, m, d int
	var ok bool
	if yearFirst {
		if y, ok = atoiStrict(parts[0]); !ok {
			return time.Time{}, false
		}
		if m, ok = atoiStrict(parts[1]); !ok {
			return time.Time{}, false
		}
		if d, ok = atoiStrict(parts[2]); !ok {
			return time.Time{}, false
		}
	} else {
		if m, ok = atoiStrict(parts[0]); !ok {
			return time.Time{}, false
		}
		if d, ok = atoiStrict(parts[1]); !ok {
			return time.Time{}, false
		}
		if y, ok = atoiStrict(parts[2]); !ok {
			return time.Time{}, false
		}
	}

	return buildDate(y, time.Month(m), d)
}

func parseMonAbbrev(parts []string) (time.Time, bool) {
	d, ok := atoiStrict(parts[0])
	if !ok {
		return time.Time{}, false
	}
	month, ok := monthAbbrevs[strings.ToLower(parts[1])]
	if !ok {
		return time.Time{}, false
	}
	y, ok := atoiStrict(parts[2])
	if !ok {
		return time.Time{}, false
	}
	return buildDate(y, month, d)
}

// buildDate constructs the UTC-midnight date and verifies that
// year/month/day survive unchanged, catching e.g. Feb 30 rolling over.
func buildDate(y int, m time.Month, d int) (time.Time, bool) {
	if y < 1000 || y > 9999 || m < time.January || m > time.December || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || t.Month() != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func atoiStrict(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 4 {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

// Midnight truncates t to UTC midnight. All relative-date computations
// take "today" through this once per pass.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns whole days from a to b (negative when b precedes a).
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
