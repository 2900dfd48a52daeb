package model

import (
	"fmt"
	"time"
)

// DateLayout is the only date representation used on the wire and in CSV names.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return t, nil
}

// FormatDate renders t as a YYYY-MM-DD calendar date in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// DaysBetween counts whole calendar days from start to end.
func DaysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// DateRange lists every calendar day in [start, end], oldest first.
// It returns nil when start is after end.
func DateRange(start, end time.Time) []string {
	if start.After(end) {
		return nil
	}
	dates := make([]string, 0, DaysBetween(start, end)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, FormatDate(d))
	}
	return dates
}

// DefaultDateRange is the last 30 days ending today.
func DefaultDateRange(now time.Time) (string, string) {
	end := now.UTC()
	return FormatDate(end.AddDate(0, 0, -30)), FormatDate(end)
}
