package metrics

import (
	"github.com/hostfolio/rental-engine/rental"
)

// =============================================================================
// EXPENSES - Inclusive filter-and-sum, never prorated
// =============================================================================
// Expenses are point-in-time costs, not spans. They belong wholly to the
// period containing their date; there is nothing to prorate.

// TotalExpenses sums expenses whose date falls within [p.Start, p.End].
func TotalExpenses(expenses []rental.Expense, p rental.Period) (rental.Money, error) {
	if err := p.Validate(); err != nil {
		return rental.Money{}, err
	}
	sum := rental.MoneyZero()
	for _, e := range expenses {
		if p.Contains(e.Date) {
			sum = sum.Add(e.Amount)
		}
	}
	return sum.Round2(), nil
}

// LifetimeExpenses sums all expenses regardless of date.
func LifetimeExpenses(expenses []rental.Expense) rental.Money {
	sum := rental.MoneyZero()
	for _, e := range expenses {
		sum = sum.Add(e.Amount)
	}
	return sum.Round2()
}
