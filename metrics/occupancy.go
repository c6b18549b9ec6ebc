package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/hostfolio/rental-engine/rental"
)

// =============================================================================
// OCCUPANCY - Nights booked over nights available
// =============================================================================

var hundred = decimal.NewFromInt(100)

// AvailableNights returns the capacity denominator for a period: period
// days times active property count. Both factors are floored at 1 so the
// denominator can never be zero.
func AvailableNights(properties []rental.Property, p rental.Period) int {
	active := rental.ActiveCount(properties)
	if active < 1 {
		active = 1
	}
	return p.Days() * active
}

// OccupancyRate returns booked nights over available nights as a percent
// in [0, 100]. The result is HARD-CAPPED at 100: inconsistent input
// (overlapping stays on one property) is accepted as noise, never allowed
// to report more than full capacity.
func OccupancyRate(bookings []rental.Booking, properties []rental.Property, p rental.Period) (decimal.Decimal, error) {
	nights, err := NightsBooked(bookings, p)
	if err != nil {
		return decimal.Zero, err
	}
	available := AvailableNights(properties, p)

	rate := hundred.
		Mul(decimal.NewFromInt(int64(nights))).
		Div(decimal.NewFromInt(int64(available))).
		Round(2)
	if rate.GreaterThan(hundred) {
		return hundred, nil
	}
	return rate, nil
}
