package util

import (
	"time"
)

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

// ParseDate parses YYYY-MM-DD into UTC midnight. Returns (t, true) if it worked.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseDateDefault parses a date or returns def if empty/invalid.
func ParseDateDefault(s string, def time.Time) time.Time {
	if t, ok := ParseDate(s); ok {
		return t
	}
	return def
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// SplitYears cuts [from, to) into consecutive windows of at most years years.
// years <= 0 returns the whole range as one window.
func SplitYears(from, to time.Time, years int) [][2]time.Time {
	if !from.Before(to) {
		return nil
	}
	if years <= 0 {
		return [][2]time.Time{{from, to}}
	}
	var out [][2]time.Time
	for cur := from; cur.Before(to); {
		next := cur.AddDate(years, 0, 0)
		if next.After(to) {
			next = to
		}
		out = append(out, [2]time.Time{cur, next})
		cur = next
	}
	return out
}
