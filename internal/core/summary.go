package core

import "github.com/shopspring/decimal"

// Summary holds income and expense totals over a set of transactions.
type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Net          decimal.Decimal
}

// CategoryAmount is the expense total attributed to one category.
type CategoryAmount struct {
	CategoryID string
	Name       string
	Amount     decimal.Decimal
}

// Summarize totals incomes and expenses. Transactions of any other type
// are ignored.
func Summarize(txs []Transaction) Summary {
	var s Summary
	for _, t := range txs {
		switch t.Type {
		case Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case Expense:
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
		}
	}
	s.Net = s.TotalIncome.Sub(s.TotalExpense)
	return s
}

// ExpensesByCategory sums expense amounts per category, one row per category
// in the given order. Spend on absent or unknown categories is collected in
// a trailing Uncategorized row, which is omitted when empty.
func ExpensesByCategory(expenses []Transaction, categories []Category) []CategoryAmount {
	rows := make([]CategoryAmount, len(categories))
	index := make(map[string]int, len(categories))
	for i, c := range categories {
		rows[i] = CategoryAmount{CategoryID: c.ID, Name: c.Name}
		index[c.ID] = i
	}

	var other decimal.Decimal
	for _, t := range expenses {
		if t.Type != Expense {
			continue
		}
		if i, ok := index[t.Category.ID()]; ok && !t.Category.IsZero() {
			rows[i].Amount = rows[i].Amount.Add(t.Amount)
			continue
		}
		other = other.Add(t.Amount)
	}

	if !other.IsZero() {
		rows = append(rows, CategoryAmount{Name: Uncategorized, Amount: other})
	}
	return rows
}
