/*
Package metrics is the period accounting engine: pure functions that turn
booking, property, and expense snapshots into money and occupancy figures
for an arbitrary reporting period.

PURPOSE:
  Bookings rarely line up with reporting periods. A stay that starts on
  Jan 29 and ends on Feb 4 must contribute exactly its January nights to
  January's revenue and its February nights to February's. This package
  apportions revenue and occupancy by night count, linearly, so that the
  pieces of a split booking always sum back to its full total.

KEY CONCEPTS:
  - Night clamping: a booking's nights are clamped to [periodStart,
    periodEnd+1day) before counting
  - Linear proration: revenue contributed = total * nightsInPeriod/totalNights,
    applied identically to both currency sides
  - Tolerance: cancelled and malformed bookings contribute zero, silently

ROUNDING:
  Each booking's prorated contribution is rounded to 2 decimal places
  BEFORE summation (per-booking rounding). This is a deliberate, documented
  choice; it is consistent within every call.

PURITY:
  No I/O, no logging, no shared state. Same inputs, same outputs. Safe to
  call concurrently; inputs are never mutated.

SEE ALSO:
  - occupancy.go: Available-night denominators and the 100% cap
  - kpi.go: Derived ratios (ADR, RevPAR, net profit, ...)
  - summary.go: Dashboard snapshot composing everything here
*/
package metrics

import (
	"github.com/hostfolio/rental-engine/rental"
)

// =============================================================================
// NIGHT CLAMPING - The shared building block
// =============================================================================

// nightsWithin returns the number of b's nights that fall inside p, along
// with b's total night span. Returns (0, _) for cancelled bookings,
// malformed spans, and bookings that don't overlap the period.
func nightsWithin(b rental.Booking, p rental.Period) (nights, total int) {
	if b.Status == rental.StatusCancelled {
		return 0, 0
	}
	total = b.Nights()
	if total <= 0 {
		return 0, 0
	}

	checkIn := rental.DayOf(b.CheckIn)
	checkOut := rental.DayOf(b.CheckOut)
	start := rental.DayOf(p.Start)

	// A booking checking out exactly on the period start spends no nights
	// inside it; one checking in after the period end is entirely beyond.
	if !checkOut.After(start) || checkIn.After(rental.DayOf(p.End)) {
		return 0, total
	}

	overlapStart := checkIn
	if overlapStart.Before(start) {
		overlapStart = start
	}
	overlapEnd := checkOut
	if exclusive := p.ExclusiveEnd(); overlapEnd.After(exclusive) {
		overlapEnd = exclusive
	}

	nights = rental.CalendarDays(overlapStart, overlapEnd)
	if nights < 0 {
		nights = 0
	}
	return nights, total
}

// =============================================================================
// REVENUE
// =============================================================================

// TotalRevenue sums the nightly-prorated revenue of all non-cancelled
// bookings overlapping the period. Each booking contributes
// total * nightsInPeriod/totalNights, rounded per booking.
func TotalRevenue(bookings []rental.Booking, p rental.Period) (rental.Money, error) {
	if err := p.Validate(); err != nil {
		return rental.Money{}, err
	}
	sum := rental.MoneyZero()
	for _, b := range bookings {
		nights, total := nightsWithin(b, p)
		if nights <= 0 {
			continue
		}
		sum = sum.Add(b.Total.Prorate(int64(nights), int64(total)))
	}
	return sum, nil
}

// LifetimeRevenue sums the full, unprorated totals of all non-cancelled
// bookings (whole-history mode, no period).
func LifetimeRevenue(bookings []rental.Booking) rental.Money {
	sum := rental.MoneyZero()
	for _, b := range bookings {
		if !b.Countable() {
			continue
		}
		sum = sum.Add(b.Total)
	}
	return sum.Round2()
}

// =============================================================================
// NIGHTS
// =============================================================================

// NightsBooked sums the clamped night counts of all non-cancelled bookings
// overlapping the period.
func NightsBooked(bookings []rental.Booking, p rental.Period) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	sum := 0
	for _, b := range bookings {
		nights, _ := nightsWithin(b, p)
		if nights > 0 {
			sum += nights
		}
	}
	return sum, nil
}

// LifetimeNights sums the full night spans of all non-cancelled bookings.
func LifetimeNights(bookings []rental.Booking) int {
	sum := 0
	for _, b := range bookings {
		if b.Countable() {
			sum += b.Nights()
		}
	}
	return sum
}

// =============================================================================
// NIGHTLY RATE
// =============================================================================

// AverageNightlyRate is period revenue divided by period nights, {0,0}
// when no nights were booked.
func AverageNightlyRate(bookings []rental.Booking, p rental.Period) (rental.Money, error) {
	revenue, err := TotalRevenue(bookings, p)
	if err != nil {
		return rental.Money{}, err
	}
	nights, err := NightsBooked(bookings, p)
	if err != nil {
		return rental.Money{}, err
	}
	if nights == 0 {
		return rental.MoneyZero(), nil
	}
	return revenue.DivInt(int64(nights)), nil
}
