// Package timeline holds the date axis of the widget: the calendar-day
// sequence, the scroll window that grows it in both directions, lane packing
// for overlapping events, and the clipping of event bars against visible rows.
package timeline

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the identifier format of a calendar day.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string as local midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate returns the YYYY-MM-DD identifier of t.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Midnight truncates t to the start of its local calendar day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays shifts a date identifier by n calendar days.
func AddDays(id string, n int) (string, error) {
	t, err := ParseDate(id)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	a, b = Midnight(a), Midnight(b)
	// Round to absorb DST transitions.
	return int(math.Round(b.Sub(a).Hours() / 24))
}
