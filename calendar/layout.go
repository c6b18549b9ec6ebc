/*
Package calendar computes the visual layout of bookings on a month-grid
calendar: which bookings touch a given week, where each booking's bar sits
horizontally across the seven day columns, and how overlapping bars stack
into the minimum number of rows.

PURPOSE:
  The calendar view renders each week as seven equal-width columns with
  absolutely-positioned booking bars on top. Two things must be decided
  per week:
  1. Bar geometry - left offset and width as percentages, plus whether the
     bar shows an arrival cap (stay begins this week) or a departure cap
     (stay ends at or before this week's end)
  2. Row packing - overlapping bookings go in different rows so bars never
     visually collide; non-overlapping bookings share a row

ROW PACKING:
  Greedy first-fit interval coloring, the classic calendar/Gantt approach:
  sort by check-in (stable), place each booking in the first row whose last
  occupant checked out at or before this booking's check-in, else open a
  new row. Deterministic, stable, and minimal for the orderings a calendar
  actually sees.

BOUNDARY SEMANTICS:
  Check-out day is exclusive: a booking checking out exactly on the week
  start does NOT belong to that week, and a booking checking out exactly
  on another's check-in does NOT overlap it (same-day turnover shares a
  row).

PURITY:
  Pure functions over snapshots; nothing is mutated, nothing is logged.

SEE ALSO:
  - ../rental/date.go: Calendar-day arithmetic used throughout
*/
package calendar

import (
	"sort"
	"time"

	"github.com/hostfolio/rental-engine/rental"
)

// =============================================================================
// WEEK WINDOW - Seven consecutive calendar days
// =============================================================================

// Week is a 7-day window [Start, End], both inclusive.
type Week struct {
	Start time.Time
	End   time.Time
}

// WeekOf returns the week containing day, starting on the given weekday.
func WeekOf(day time.Time, weekStart time.Weekday) Week {
	start := rental.WeekStart(day, weekStart)
	return Week{Start: start, End: start.AddDate(0, 0, 6)}
}

// MonthWeeks returns the week windows covering the month grid: from the
// week containing the 1st through the week containing the last day.
func MonthWeeks(year int, month time.Month, weekStart time.Weekday) []Week {
	first := rental.NewDate(year, month, 1)
	last := rental.EndOfMonth(first)

	var weeks []Week
	for w := WeekOf(first, weekStart); !w.Start.After(last); w = WeekOf(w.Start.AddDate(0, 0, 7), weekStart) {
		weeks = append(weeks, w)
	}
	return weeks
}

// =============================================================================
// WEEK FILTER - Which bookings touch this week
// =============================================================================

// OverlappingWeek filters bookings that occupy at least one night of the
// week: CheckIn <= week end AND CheckOut > week start. The asymmetry is
// deliberate - a booking checking out exactly on the week start spends no
// night in it, while one checking in exactly on the week end does.
func OverlappingWeek(bookings []rental.Booking, w Week) []rental.Booking {
	var out []rental.Booking
	for _, b := range bookings {
		checkIn := rental.DayOf(b.CheckIn)
		checkOut := rental.DayOf(b.CheckOut)
		if !checkIn.After(rental.DayOf(w.End)) && checkOut.After(rental.DayOf(w.Start)) {
			out = append(out, b)
		}
	}
	return out
}

// =============================================================================
// BAR GEOMETRY - Horizontal placement across seven columns
// =============================================================================

// Bar describes a booking's horizontal bar within one week, in percent of
// the week's width. IsStart marks the arrival cap (and guest label);
// IsEnd marks the departure cap.
type Bar struct {
	LeftPercent  float64
	WidthPercent float64
	IsStart      bool
	IsEnd        bool
}

// BarGeometry clamps the booking to the week and maps it onto the seven
// equal day columns.
func BarGeometry(b rental.Booking, w Week) Bar {
	weekStart := rental.DayOf(w.Start)
	weekEndExcl := rental.DayOf(w.End).AddDate(0, 0, 1)
	checkIn := rental.DayOf(b.CheckIn)
	checkOut := rental.DayOf(b.CheckOut)

	barStart := checkIn
	if barStart.Before(weekStart) {
		barStart = weekStart
	}
	barEnd := checkOut
	if barEnd.After(weekEndExcl) {
		barEnd = weekEndExcl
	}

	startCol := rental.CalendarDays(weekStart, barStart) // 0..6
	duration := rental.CalendarDays(barStart, barEnd)    // 1..7

	return Bar{
		LeftPercent:  float64(startCol) / 7 * 100,
		WidthPercent: float64(duration) / 7 * 100,
		IsStart:      barStart.Equal(checkIn),
		IsEnd:        barEnd.Equal(checkOut) || rental.CalendarDays(barEnd, checkOut) <= 0,
	}
}

// =============================================================================
// ROW PACKING - Greedy first-fit interval coloring
// =============================================================================

// PackIntoRows assigns the week's bookings to stacked rows so that no two
// bookings in a row overlap in time. Greedy first-fit over bookings sorted
// by check-in; ties keep their original order.
func PackIntoRows(weekBookings []rental.Booking) [][]rental.Booking {
	sorted := make([]rental.Booking, len(weekBookings))
	copy(sorted, weekBookings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rental.DayOf(sorted[i].CheckIn).Before(rental.DayOf(sorted[j].CheckIn))
	})

	var rows [][]rental.Booking
	for _, b := range sorted {
		placed := false
		for i, row := range rows {
			last := row[len(row)-1]
			// No overlap when the row's most recent occupant checks out
			// at or before this booking's check-in.
			if !rental.DayOf(last.CheckOut).After(rental.DayOf(b.CheckIn)) {
				rows[i] = append(rows[i], b)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, []rental.Booking{b})
		}
	}
	return rows
}

// =============================================================================
// WEEK LAYOUT - Filter + geometry + packing in one call
// =============================================================================

// Placement pairs a booking with its bar geometry for one week.
type Placement struct {
	Booking rental.Booking
	Bar     Bar
}

// LayoutWeek produces the renderer-ready rows for one week: bookings
// touching the week, packed into rows, each with its bar geometry.
func LayoutWeek(bookings []rental.Booking, w Week) [][]Placement {
	packed := PackIntoRows(OverlappingWeek(bookings, w))

	rows := make([][]Placement, len(packed))
	for i, row := range packed {
		rows[i] = make([]Placement, len(row))
		for j, b := range row {
			rows[i][j] = Placement{Booking: b, Bar: BarGeometry(b, w)}
		}
	}
	return rows
}
