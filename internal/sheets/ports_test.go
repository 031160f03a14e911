package sheets

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

func TestNewSnapshot(t *testing.T) {
	summary := core.Summarize([]core.Transaction{
		{Type: core.Income, Amount: decimal.NewFromInt(500)},
		{Type: core.Expense, Amount: decimal.RequireFromString("60.5")},
	})
	budgets := []core.Budget{
		{Limit: decimal.NewFromInt(150), CurrentSpending: decimal.NewFromInt(160)},
		{Limit: decimal.NewFromInt(150), CurrentSpending: decimal.NewFromInt(150)},
		{Limit: decimal.Zero, CurrentSpending: decimal.NewFromInt(10)},
	}

	snap := NewSnapshot(time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC), summary, budgets)

	if snap.OverLimit != 1 {
		t.Errorf("OverLimit = %d, want 1", snap.OverLimit)
	}
	want := []any{"2024-03-05", "500.00", "60.50", "439.50", 1}
	got := snap.Row()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Row()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
