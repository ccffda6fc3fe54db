package util

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for entry dates
const DateLayout = "2006-01-02"

// Today returns the current UTC date truncated to midnight
func Today() time.Time {
	return TruncateDate(time.Now().UTC())
}

// TruncateDate drops the time of day, keeping the calendar date in UTC
func TruncateDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseEntryDate parses a YYYY-MM-DD date. An empty string yields today.
func ParseEntryDate(s string) (time.Time, error) {
	if s == "" {
		return Today(), nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate renders a date in DateLayout
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
