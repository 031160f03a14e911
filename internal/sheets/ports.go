// Package sheets exports dashboard snapshots to spreadsheets.
package sheets

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

// Snapshot is one row of the export: the day's totals and how many budgets
// have passed their limit.
type Snapshot struct {
	Date         time.Time
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Net          decimal.Decimal
	OverLimit    int
}

// Header names the columns of a snapshot row.
var Header = []any{"Date", "Income", "Expense", "Net", "Budgets over limit"}

func NewSnapshot(date time.Time, s core.Summary, budgets []core.Budget) Snapshot {
	over := 0
	for _, b := range budgets {
		if b.Overspent() {
			over++
		}
	}
	return Snapshot{
		Date:         date,
		TotalIncome:  s.TotalIncome,
		TotalExpense: s.TotalExpense,
		Net:          s.Net,
		OverLimit:    over,
	}
}

// Row renders the snapshot as spreadsheet cells.
func (s Snapshot) Row() []any {
	return []any{
		s.Date.Format(time.DateOnly),
		core.FormatAmount(s.TotalIncome),
		core.FormatAmount(s.TotalExpense),
		core.FormatAmount(s.Net),
		s.OverLimit,
	}
}

// Ports for outbound adapters.
type (
	SnapshotWriter interface {
		AppendSnapshot(ctx context.Context, s Snapshot) error
	}
)
