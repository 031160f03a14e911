package core

import (
	"sort"
	"time"
)

// FeedSize is the maximum number of entries in the activity feed.
const FeedSize = 10

const (
	ActivityExpense ActivityKind = "expense"
	ActivityIncome  ActivityKind = "income"
	ActivityBudget  ActivityKind = "budget"
)

type ActivityKind string

// Activity is one entry of the recent activity feed. Exactly one of
// Transaction and Budget is set, according to Kind.
type Activity struct {
	Kind        ActivityKind
	Transaction *Transaction
	Budget      *Budget
	Timestamp   time.Time
	// TimestampMissing is set when the record had no creation time and
	// Timestamp holds the merge instant instead.
	TimestampMissing bool
}

// Title returns the label shown for the entry.
func (a Activity) Title() string {
	switch {
	case a.Transaction != nil:
		return a.Transaction.Title
	case a.Budget != nil:
		if a.Budget.Name == "" {
			return UnnamedBudget
		}
		return a.Budget.Name
	}
	return ""
}

// ID returns the identifier of the underlying record.
func (a Activity) ID() string {
	switch {
	case a.Transaction != nil:
		return a.Transaction.ID
	case a.Budget != nil:
		return a.Budget.ID
	}
	return ""
}

// MergeActivities tags expenses, incomes and budgets, orders them newest
// first and keeps the first FeedSize entries. Entries with equal timestamps
// keep their input order: expenses, then incomes, then budgets.
func MergeActivities(expenses, incomes []Transaction, budgets []Budget, now time.Time) []Activity {
	all := make([]Activity, 0, len(expenses)+len(incomes)+len(budgets))

	for i := range expenses {
		all = append(all, transactionActivity(ActivityExpense, expenses[i], now))
	}
	for i := range incomes {
		all = append(all, transactionActivity(ActivityIncome, incomes[i], now))
	}
	for i := range budgets {
		b := budgets[i]
		a := Activity{Kind: ActivityBudget, Budget: &b, Timestamp: b.CreatedAt}
		if a.Timestamp.IsZero() {
			a.Timestamp, a.TimestampMissing = now, true
		}
		all = append(all, a)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.After(all[j].Timestamp)
	})

	if len(all) > FeedSize {
		all = all[:FeedSize]
	}
	return all
}

func transactionActivity(kind ActivityKind, t Transaction, now time.Time) Activity {
	a := Activity{Kind: kind, Transaction: &t, Timestamp: t.CreatedAt}
	if a.Timestamp.IsZero() {
		a.Timestamp, a.TimestampMissing = now, true
	}
	return a
}
