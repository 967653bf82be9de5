package calendar

import (
	"errors"
	"time"
)

// ErrInvalidRange is returned when the end of a span precedes its start.
var ErrInvalidRange = errors.New("end date is before start date")

// DayStart truncates t to midnight in t's location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// InclusiveDaySpan returns the number of calendar days covered by [a, b],
// counting both endpoints. A span within a single day is 1.
func InclusiveDaySpan(a, b time.Time) (int, error) {
	start := DayStart(a)
	end := DayStart(b)
	if end.Before(start) {
		return 0, ErrInvalidRange
	}

	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return days, nil
}

// WorkingDaysBetween counts the days in [a, b] whose weekday is not
// Saturday or Sunday.
func WorkingDaysBetween(a, b time.Time) (int, error) {
	start := DayStart(a)
	end := DayStart(b)
	if end.Before(start) {
		return 0, ErrInvalidRange
	}

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count, nil
}

// MonthBounds returns the first and last day of the given month, both at
// midnight in loc.
func MonthBounds(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// DaysInMonth returns the number of calendar days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
