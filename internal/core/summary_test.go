package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s := Summarize([]Transaction{
		{Type: Income, Amount: d("100")},
		{Type: Expense, Amount: d("40")},
		{Type: Expense, Amount: d("10")},
	})
	assert.True(t, s.TotalIncome.Equal(d("100")), "income %s", s.TotalIncome)
	assert.True(t, s.TotalExpense.Equal(d("50")), "expense %s", s.TotalExpense)
	assert.True(t, s.Net.Equal(d("50")), "net %s", s.Net)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.True(t, s.TotalIncome.IsZero())
	assert.True(t, s.TotalExpense.IsZero())
	assert.True(t, s.Net.IsZero())
}

func TestSummarize_KeepsDecimalPrecision(t *testing.T) {
	s := Summarize([]Transaction{
		{Type: Income, Amount: d("0.1")},
		{Type: Income, Amount: d("0.2")},
		{Type: Expense, Amount: d("0.3")},
	})
	assert.True(t, s.TotalIncome.Equal(d("0.3")))
	assert.True(t, s.Net.IsZero())
}

func TestExpensesByCategory(t *testing.T) {
	cats := []Category{{ID: "c1", Name: "Food"}, {ID: "c2", Name: "Rent"}, {ID: "c3", Name: "Fun"}}
	rows := ExpensesByCategory([]Transaction{
		{Type: Expense, Amount: d("10"), Category: RefID("c1")},
		{Type: Expense, Amount: d("5"), Category: RefNamed("c1", "Food")},
		{Type: Expense, Amount: d("700"), Category: RefID("c2")},
		{Type: Expense, Amount: d("3"), Category: RefID("missing")},
		{Type: Expense, Amount: d("2")},
		{Type: Income, Amount: d("999"), Category: RefID("c3")},
	}, cats)

	require.Len(t, rows, 4)
	assert.Equal(t, "Food", rows[0].Name)
	assert.True(t, rows[0].Amount.Equal(d("15")))
	assert.True(t, rows[1].Amount.Equal(d("700")))
	assert.True(t, rows[2].Amount.IsZero())
	assert.Equal(t, Uncategorized, rows[3].Name)
	assert.True(t, rows[3].Amount.Equal(d("5")))
}

func TestExpensesByCategory_NoUncategorizedRowWhenUnused(t *testing.T) {
	rows := ExpensesByCategory(nil, []Category{{ID: "c1", Name: "Food"}})
	require.Len(t, rows, 1)
	assert.Equal(t, "c1", rows[0].CategoryID)
}
