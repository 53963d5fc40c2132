package shared

import (
	"fmt"
	"time"
)

// MonthKey returns the YYYY-MM bucket key for a timestamp.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// SameMonth reports whether two timestamps fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// IsCurrentMonth reports whether t falls in the same month as now.
func IsCurrentMonth(t, now time.Time) bool {
	return SameMonth(t, now)
}

// IsPreviousMonth reports whether t falls in the calendar month before now.
// Stepping back from the first of the month avoids AddDate's day
// normalization (Mar 31 minus one month would land in March again).
func IsPreviousMonth(t, now time.Time) bool {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return SameMonth(t, first.AddDate(0, -1, 0))
}

// WeekStart returns the Monday 00:00:00 that starts the week containing t,
// in t's location.
func WeekStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week started the previous Monday
	}
	day := t.AddDate(0, 0, -(weekday - 1))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, t.Location())
}

// WeekKey returns the ISO-style bucket key (year and week number) for t.
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// InRange reports whether t falls within [from, to]. Zero bounds are open.
func InRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && t.After(to) {
		return false
	}
	return true
}
