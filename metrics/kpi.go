package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/hostfolio/rental-engine/rental"
)

// =============================================================================
// DERIVED KPIs - Pure compositions of the base aggregates
// =============================================================================

// PercentChange returns the percent change from previous to current, sign
// preserved (negative = decrease). Division by zero is guarded: with a
// zero previous value the change is 100 when current is positive, else 0.
func PercentChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred).Round(2)
}

// NetProfit is revenue minus expenses, same currency pair.
func NetProfit(revenue, expenses rental.Money) rental.Money {
	return revenue.Sub(expenses)
}

// ExpenseRatio is expenses over revenue as a percent, 0 when revenue is
// zero. The ratio is computed on the major-currency side; both sides move
// in lockstep so the minor side carries no extra information.
func ExpenseRatio(expenses, revenue rental.Money) decimal.Decimal {
	if revenue.Major.IsZero() {
		return decimal.Zero
	}
	return expenses.Major.Div(revenue.Major).Mul(hundred).Round(2)
}

// ADR is the all-time average daily rate: lifetime revenue over lifetime
// nights, unbounded by any period. {0,0} when no nights exist.
func ADR(bookings []rental.Booking) rental.Money {
	nights := LifetimeNights(bookings)
	if nights == 0 {
		return rental.MoneyZero()
	}
	return LifetimeRevenue(bookings).DivInt(int64(nights))
}

// RevPAR is revenue per available room-night: lifetime revenue over the
// period's available nights (period days * active properties, floored).
func RevPAR(bookings []rental.Booking, properties []rental.Property, p rental.Period) (rental.Money, error) {
	if err := p.Validate(); err != nil {
		return rental.Money{}, err
	}
	available := AvailableNights(properties, p)
	return LifetimeRevenue(bookings).DivInt(int64(available)), nil
}

// AverageStayLength is total nights over booking count across non-cancelled
// bookings, each stay counting at least 1 night. Zero with no bookings.
func AverageStayLength(bookings []rental.Booking) decimal.Decimal {
	nights, count := 0, 0
	for _, b := range bookings {
		if b.Status == rental.StatusCancelled {
			continue
		}
		n := b.Nights()
		if n < 1 {
			n = 1
		}
		nights += n
		count++
	}
	if count == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(nights)).Div(decimal.NewFromInt(int64(count))).Round(2)
}

// CancellationRate is cancelled bookings over all bookings as a percent,
// 0 when there are no bookings at all.
func CancellationRate(bookings []rental.Booking) decimal.Decimal {
	if len(bookings) == 0 {
		return decimal.Zero
	}
	cancelled := 0
	for _, b := range bookings {
		if b.Status == rental.StatusCancelled {
			cancelled++
		}
	}
	return decimal.NewFromInt(int64(cancelled)).
		Div(decimal.NewFromInt(int64(len(bookings)))).
		Mul(hundred).Round(2)
}
