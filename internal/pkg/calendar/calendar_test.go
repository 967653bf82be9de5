package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayStart(t *testing.T) {
	in := time.Date(2025, time.March, 10, 17, 45, 12, 999, time.UTC)
	got := DayStart(in)
	want := date(2025, time.March, 10)
	if !got.Equal(want) {
		t.Errorf("DayStart(%v) = %v, want %v", in, got, want)
	}
}

func TestInclusiveDaySpan(t *testing.T) {
	cases := []struct {
		name    string
		a, b    time.Time
		want    int
		wantErr bool
	}{
		{"same day", date(2025, time.March, 10), date(2025, time.March, 10), 1, false},
		{"three days", date(2025, time.March, 10), date(2025, time.March, 12), 3, false},
		{"ignores time of day", time.Date(2025, time.March, 10, 23, 0, 0, 0, time.UTC), time.Date(2025, time.March, 12, 1, 0, 0, 0, time.UTC), 3, false},
		{"full month", date(2025, time.June, 1), date(2025, time.June, 30), 30, false},
		{"reversed", date(2025, time.March, 12), date(2025, time.March, 10), 0, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := InclusiveDaySpan(c.a, c.b)
			if c.wantErr {
				if err != ErrInvalidRange {
					t.Fatalf("expected ErrInvalidRange, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != c.want {
				t.Errorf("InclusiveDaySpan = %d, want %d", got, c.want)
			}
		})
	}
}

func TestWorkingDaysBetween(t *testing.T) {
	cases := []struct {
		name string
		a, b time.Time
		want int
	}{
		// June 2025 has 30 days: 21 weekdays, 9 weekend days.
		{"june 2025", date(2025, time.June, 1), date(2025, time.June, 30), 21},
		// September 2025: 30 days, 8 weekend days.
		{"september 2025", date(2025, time.September, 1), date(2025, time.September, 30), 22},
		{"single weekday", date(2025, time.March, 10), date(2025, time.March, 10), 1},
		{"single saturday", date(2025, time.March, 8), date(2025, time.March, 8), 0},
		{"mon to fri", date(2025, time.March, 10), date(2025, time.March, 14), 5},
		{"full week", date(2025, time.March, 10), date(2025, time.March, 16), 5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := WorkingDaysBetween(c.a, c.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != c.want {
				t.Errorf("WorkingDaysBetween = %d, want %d", got, c.want)
			}
		})
	}

	if _, err := WorkingDaysBetween(date(2025, time.March, 12), date(2025, time.March, 10)); err != ErrInvalidRange {
		t.Errorf("expected ErrInvalidRange for reversed range, got %v", err)
	}
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(2025, time.February, time.UTC)
	if !first.Equal(date(2025, time.February, 1)) {
		t.Errorf("first = %v", first)
	}
	if !last.Equal(date(2025, time.February, 28)) {
		t.Errorf("last = %v", last)
	}

	first, last = MonthBounds(2024, time.February, time.UTC)
	if !last.Equal(date(2024, time.February, 29)) {
		t.Errorf("leap year last = %v", last)
	}
	_ = first
}

func TestDaysInMonth(t *testing.T) {
	if got := DaysInMonth(2025, time.June); got != 30 {
		t.Errorf("DaysInMonth(2025, June) = %d", got)
	}
	if got := DaysInMonth(2024, time.February); got != 29 {
		t.Errorf("DaysInMonth(2024, February) = %d", got)
	}
}

func TestFixedClock(t *testing.T) {
	at := date(2025, time.March, 10)
	c := FixedClock{T: at}
	if !c.Now().Equal(at) {
		t.Errorf("FixedClock.Now() = %v, want %v", c.Now(), at)
	}
}
