package util

import (
	"strconv"
	"time"
)

// ParseTime tries RFC3339, RFC3339Nano, date-only, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ForwardDates returns n strictly increasing calendar dates starting one day
// after last. Weekends and holidays are not skipped.
func ForwardDates(last time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	d := Day(last)
	for i := 0; i < n; i++ {
		d = d.AddDate(0, 0, 1)
		out[i] = d
	}
	return out
}
