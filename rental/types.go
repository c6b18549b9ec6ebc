/*
Package rental provides the core domain model for the property-management
back office.

PURPOSE:
  This package contains the read-only records the reporting engines operate
  on (bookings, properties, expenses) plus the shared value types they are
  built from: dual-currency Money and day-granularity date arithmetic.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: A dual-currency amount pair (major + minor currency)
  - Booking: A guest stay spanning [CheckIn, CheckOut) nights
  - Property: A rentable unit; only active units count as capacity
  - Expense: A point-in-time cost (never prorated)

DESIGN PRINCIPLES:
  1. Snapshots: The engines never create, mutate, or destroy these records
  2. Precision: Uses decimal.Decimal to avoid floating-point money errors
  3. Tolerance: Malformed records (zero/negative night spans) are skipped
     by aggregates, never turned into errors or negative output

SEE ALSO:
  - date.go: Calendar-day arithmetic (midnight-UTC normalized)
  - period.go: Inclusive reporting periods
  - ../metrics: Period accounting engine consuming these types
  - ../calendar: Week layout engine consuming these types
*/
package rental

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Dual-currency amount pair
// =============================================================================

// Money is an amount tracked in two currencies at once: the major currency
// the business reports in and the minor local currency guests pay in.
// Every operation is applied identically to both sides so the pair never
// drifts apart.
type Money struct {
	Major decimal.Decimal
	Minor decimal.Decimal
}

func NewMoney(major, minor float64) Money {
	return Money{Major: decimal.NewFromFloat(major), Minor: decimal.NewFromFloat(minor)}
}

func MoneyZero() Money {
	return Money{Major: decimal.Zero, Minor: decimal.Zero}
}

func (m Money) Add(o Money) Money { return Money{Major: m.Major.Add(o.Major), Minor: m.Minor.Add(o.Minor)} }
func (m Money) Sub(o Money) Money { return Money{Major: m.Major.Sub(o.Major), Minor: m.Minor.Sub(o.Minor)} }
func (m Money) Neg() Money        { return Money{Major: m.Major.Neg(), Minor: m.Minor.Neg()} }
func (m Money) IsZero() bool      { return m.Major.IsZero() && m.Minor.IsZero() }
func (m Money) IsNegative() bool  { return m.Major.IsNegative() || m.Minor.IsNegative() }

// Round2 rounds both sides to 2 decimal places.
func (m Money) Round2() Money {
	return Money{Major: m.Major.Round(2), Minor: m.Minor.Round(2)}
}

// Prorate returns m * num/den rounded to 2 decimal places.
// den must be positive; a non-positive den yields zero.
func (m Money) Prorate(num, den int64) Money {
	if den <= 0 {
		return MoneyZero()
	}
	ratio := decimal.NewFromInt(num).Div(decimal.NewFromInt(den))
	return Money{Major: m.Major.Mul(ratio).Round(2), Minor: m.Minor.Mul(ratio).Round(2)}
}

// DivInt returns m / n rounded to 2 decimal places, zero when n is zero.
func (m Money) DivInt(n int64) Money {
	if n == 0 {
		return MoneyZero()
	}
	d := decimal.NewFromInt(n)
	return Money{Major: m.Major.Div(d).Round(2), Minor: m.Minor.Div(d).Round(2)}
}

// =============================================================================
// BOOKING - A guest stay
// =============================================================================

type BookingStatus string

const (
	StatusInquiry    BookingStatus = "inquiry"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusCheckedIn  BookingStatus = "checked_in"
	StatusCheckedOut BookingStatus = "checked_out"
	StatusCancelled  BookingStatus = "cancelled"
)

// Booking records a stay. CheckIn and CheckOut are calendar days; the stay
// occupies the nights [CheckIn, CheckOut), so CheckOut must be strictly
// after CheckIn for the booking to be countable.
type Booking struct {
	ID         string
	PropertyID string
	GuestName  string
	CheckIn    time.Time
	CheckOut   time.Time
	Total      Money
	Status     BookingStatus
}

// Nights returns the total night span of the booking. Zero or negative
// means the record is malformed and must be skipped by aggregates.
func (b Booking) Nights() int {
	return CalendarDays(b.CheckIn, b.CheckOut)
}

// Countable reports whether the booking participates in revenue and
// occupancy aggregates.
func (b Booking) Countable() bool {
	return b.Status != StatusCancelled && b.Nights() > 0
}

// =============================================================================
// PROPERTY - A rentable unit
// =============================================================================

type PropertyStatus string

const (
	PropertyActive      PropertyStatus = "active"
	PropertyInactive    PropertyStatus = "inactive"
	PropertyMaintenance PropertyStatus = "maintenance"
)

type Property struct {
	ID     string
	Name   string
	Status PropertyStatus
}

// ActiveCount returns the number of active properties in the slice.
func ActiveCount(properties []Property) int {
	n := 0
	for _, p := range properties {
		if p.Status == PropertyActive {
			n++
		}
	}
	return n
}

// =============================================================================
// EXPENSE - A point-in-time cost
// =============================================================================

type Expense struct {
	ID         string
	PropertyID string
	Date       time.Time
	Amount     Money
	Category   string
	Note       string
}
