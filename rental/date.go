package rental

import "time"

// =============================================================================
// CALENDAR-DAY ARITHMETIC - Midnight-UTC normalized
// =============================================================================
// All reporting math is day-granular. Every timestamp is normalized to
// midnight UTC before subtraction so daylight-saving transitions and
// time-of-day noise can never skew a night count.

// DayOf returns the calendar day of t at midnight UTC.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewDate builds a calendar day at midnight UTC.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CalendarDays returns the number of calendar days from 'from' to 'to'.
// Negative when 'to' is before 'from'. UTC has no DST so hour division
// is exact after normalization.
func CalendarDays(from, to time.Time) int {
	return int(DayOf(to).Sub(DayOf(from)).Hours() / 24)
}

// Today returns the current calendar day at midnight UTC.
func Today() time.Time {
	return DayOf(time.Now().UTC())
}

// MonthOf returns the year and month containing t.
func MonthOf(t time.Time) (int, time.Month) {
	return t.Year(), t.Month()
}

// StartOfMonth returns the first day of the month containing t.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// EndOfMonth returns the last day of the month containing t.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// WeekStart returns the most recent 'start' weekday at or before t.
func WeekStart(t time.Time, start time.Weekday) time.Time {
	d := DayOf(t)
	offset := (int(d.Weekday()) - int(start) + 7) % 7
	return d.AddDate(0, 0, -offset)
}
