package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BudgetProgress is the share of a budget limit consumed so far. Percent and
// Label always come from the same computation.
type BudgetProgress struct {
	Percent   float64
	Label     string
	Overspent bool
}

// Progress returns spending as a percentage of limit, clamped to [0, 100].
// A limit that is not positive yields 0.
func Progress(spending, limit decimal.Decimal) float64 {
	if !limit.IsPositive() {
		return 0
	}
	pct := spending.Div(limit).Mul(hundred)
	switch {
	case pct.IsNegative():
		return 0
	case pct.GreaterThan(hundred):
		return 100
	}
	f, _ := pct.Float64()
	return f
}

// FormatProgress renders a percentage with one decimal place.
func FormatProgress(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// NewBudgetProgress computes progress for display.
func NewBudgetProgress(spending, limit decimal.Decimal) BudgetProgress {
	pct := Progress(spending, limit)
	return BudgetProgress{
		Percent:   pct,
		Label:     FormatProgress(pct),
		Overspent: limit.IsPositive() && spending.GreaterThan(limit),
	}
}

// ProgressOf is a shorthand for a budget's own spending and limit.
func ProgressOf(b Budget) BudgetProgress {
	return NewBudgetProgress(b.CurrentSpending, b.Limit)
}
