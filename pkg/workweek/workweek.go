// Package workweek holds the calendar arithmetic shared by booking and scheduling code.
// All dates are civil dates normalised to midnight UTC.
package workweek

import (
	"fmt"
	"time"
)

// Layout is the YYYY-MM-DD date format used on the wire.
const Layout = "2006-01-02"

// Date truncates t to midnight UTC of its own calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Parse reads a YYYY-MM-DD date.
func Parse(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return t, nil
}

// ParseMonday reads a YYYY-MM-DD date and requires it to be a Monday.
func ParseMonday(raw string) (time.Time, error) {
	t, err := Parse(raw)
	if err != nil {
		return time.Time{}, err
	}
	if t.Weekday() != time.Monday {
		return time.Time{}, fmt.Errorf("date %s is a %s, expected a Monday", raw, t.Weekday())
	}
	return t, nil
}

// StartOf returns the Monday of the ISO week containing t.
func StartOf(t time.Time) time.Time {
	day := Date(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// NextMonday returns the first Monday strictly after t.
func NextMonday(t time.Time) time.Time {
	return StartOf(t).AddDate(0, 0, 7)
}

// Weekdays returns Monday through Friday of the week starting at monday.
func Weekdays(monday time.Time) []time.Time {
	start := Date(monday)
	days := make([]time.Time, 0, 5)
	for i := 0; i < 5; i++ {
		days = append(days, start.AddDate(0, 0, i))
	}
	return days
}

// Upcoming returns n consecutive Mondays starting with the Monday after now.
func Upcoming(now time.Time, n int) []time.Time {
	if n <= 0 {
		n = 1
	}
	first := NextMonday(now)
	weeks := make([]time.Time, n)
	for i := range weeks {
		weeks[i] = first.AddDate(0, 0, 7*i)
	}
	return weeks
}

// ISOWeek returns the ISO 8601 week number of t.
func ISOWeek(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// Format renders t as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}
