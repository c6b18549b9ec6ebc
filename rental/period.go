package rental

import "time"

// =============================================================================
// PERIOD - Inclusive reporting interval
// =============================================================================

// Period is a closed reporting interval: both Start and End are inclusive
// calendar days. Callers construct them day-normalized (e.g. first and last
// day of a month); the engine derives the exclusive upper bound itself.
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod builds a validated period from inclusive bounds.
func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{Start: DayOf(start), End: DayOf(end)}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// MonthPeriod returns the period covering a whole calendar month.
func MonthPeriod(year int, month time.Month) Period {
	start := NewDate(year, month, 1)
	return Period{Start: start, End: EndOfMonth(start)}
}

// Validate rejects periods whose end precedes their start. The inclusive
// convention makes a single-day period (Start == End) valid.
func (p Period) Validate() error {
	if DayOf(p.End).Before(DayOf(p.Start)) {
		return ErrInvalidPeriod
	}
	return nil
}

// ExclusiveEnd returns the first day after the period, the exclusive upper
// bound used for night clamping.
func (p Period) ExclusiveEnd() time.Time {
	return DayOf(p.End).AddDate(0, 0, 1)
}

// Days returns the inclusive day count of the period, never below 1.
func (p Period) Days() int {
	days := CalendarDays(p.Start, p.ExclusiveEnd())
	if days < 1 {
		return 1
	}
	return days
}

// Contains reports whether day t falls within [Start, End].
func (p Period) Contains(t time.Time) bool {
	d := DayOf(t)
	return !d.Before(DayOf(p.Start)) && !d.After(DayOf(p.End))
}

// Previous returns the equal-length period immediately before this one.
// Used for change-over-period comparisons on the dashboard.
func (p Period) Previous() Period {
	length := p.Days()
	end := DayOf(p.Start).AddDate(0, 0, -1)
	return Period{Start: end.AddDate(0, 0, -(length - 1)), End: end}
}

func (p Period) String() string {
	return "[" + DayOf(p.Start).Format("2006-01-02") + ", " + DayOf(p.End).Format("2006-01-02") + "]"
}
