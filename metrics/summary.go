package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/hostfolio/rental-engine/rental"
)

// =============================================================================
// SUMMARY - The dashboard snapshot for one period
// =============================================================================

// Summary bundles every KPI the dashboard renders for a single period.
// It is a plain value: computing it twice from the same snapshots yields
// identical results.
type Summary struct {
	Period rental.Period

	Revenue      rental.Money
	Expenses     rental.Money
	NetProfit    rental.Money
	NightsBooked int
	NightlyRate  rental.Money
	Occupancy    decimal.Decimal
	ExpenseRatio decimal.Decimal

	// All-time figures (not bounded by Period)
	ADR              rental.Money
	RevPAR           rental.Money
	AvgStayLength    decimal.Decimal
	CancellationRate decimal.Decimal
}

// Summarize computes the full dashboard snapshot for a period.
func Summarize(
	bookings []rental.Booking,
	properties []rental.Property,
	expenses []rental.Expense,
	p rental.Period,
) (Summary, error) {
	if err := p.Validate(); err != nil {
		return Summary{}, err
	}

	revenue, err := TotalRevenue(bookings, p)
	if err != nil {
		return Summary{}, err
	}
	spent, err := TotalExpenses(expenses, p)
	if err != nil {
		return Summary{}, err
	}
	nights, err := NightsBooked(bookings, p)
	if err != nil {
		return Summary{}, err
	}
	rate, err := AverageNightlyRate(bookings, p)
	if err != nil {
		return Summary{}, err
	}
	occupancy, err := OccupancyRate(bookings, properties, p)
	if err != nil {
		return Summary{}, err
	}
	revpar, err := RevPAR(bookings, properties, p)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Period:           p,
		Revenue:          revenue,
		Expenses:         spent,
		NetProfit:        NetProfit(revenue, spent),
		NightsBooked:     nights,
		NightlyRate:      rate,
		Occupancy:        occupancy,
		ExpenseRatio:     ExpenseRatio(spent, revenue),
		ADR:              ADR(bookings),
		RevPAR:           revpar,
		AvgStayLength:    AverageStayLength(bookings),
		CancellationRate: CancellationRate(bookings),
	}, nil
}

// =============================================================================
// COMPARISON - Change vs the previous period
// =============================================================================

// Changes holds percent deltas between two summaries, one per dashboard
// change chip.
type Changes struct {
	Revenue   decimal.Decimal
	Expenses  decimal.Decimal
	NetProfit decimal.Decimal
	Nights    decimal.Decimal
	Occupancy decimal.Decimal
}

// Compare returns the percent change of each headline figure from the
// previous period's summary to the current one. Money deltas are computed
// on the major-currency side.
func Compare(current, previous Summary) Changes {
	return Changes{
		Revenue:   PercentChange(current.Revenue.Major, previous.Revenue.Major),
		Expenses:  PercentChange(current.Expenses.Major, previous.Expenses.Major),
		NetProfit: PercentChange(current.NetProfit.Major, previous.NetProfit.Major),
		Nights:    PercentChange(decimal.NewFromInt(int64(current.NightsBooked)), decimal.NewFromInt(int64(previous.NightsBooked))),
		Occupancy: PercentChange(current.Occupancy, previous.Occupancy),
	}
}
