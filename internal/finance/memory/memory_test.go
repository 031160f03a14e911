package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/internal/core"
	"finboard/internal/finance"
)

func fixedClock() func() time.Time {
	t := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func newStore(t *testing.T) (*Store, core.Account, core.Category) {
	t.Helper()
	ctx := context.Background()
	s := New(WithClock(fixedClock()))
	acc, err := s.CreateAccount(ctx, core.AccountInput{Name: "Wallet", Type: core.AccountCash, Balance: decimal.NewFromInt(500)})
	require.NoError(t, err)
	cat, err := s.CreateCategory(ctx, core.CategoryInput{Name: "Groceries", Type: core.CategoryExpense})
	require.NoError(t, err)
	return s, acc, cat
}

func budgetInput(accountID, categoryID string) core.BudgetInput {
	return core.BudgetInput{
		Name:       "Food",
		Amount:     decimal.NewFromInt(200),
		Limit:      decimal.NewFromInt(150),
		AccountID:  accountID,
		CategoryID: categoryID,
		StartDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		IsActive:   true,
	}
}

func TestStore_ExpenseAgainstBudget(t *testing.T) {
	ctx := context.Background()
	s, acc, cat := newStore(t)

	b, err := s.CreateBudget(ctx, budgetInput(acc.ID, cat.ID))
	require.NoError(t, err)

	exp, err := s.CreateExpense(ctx, core.TransactionInput{
		Title: "Weekly shop", Amount: decimal.NewFromInt(60), CategoryID: cat.ID, BudgetID: b.ID, AccountID: acc.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, core.Expense, exp.Type)

	budgets, err := s.ListBudgets(ctx)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, "40.0%", core.ProgressOf(budgets[0]).Label)

	accounts, err := s.ListAccounts(ctx)
	require.NoError(t, err)
	assert.True(t, accounts[0].Balance.Equal(decimal.NewFromInt(440)), "balance %s", accounts[0].Balance)

	require.NoError(t, s.DeleteExpense(ctx, exp.ID))
	budgets, _ = s.ListBudgets(ctx)
	assert.Equal(t, "0.0%", core.ProgressOf(budgets[0]).Label)
	accounts, _ = s.ListAccounts(ctx)
	assert.True(t, accounts[0].Balance.Equal(decimal.NewFromInt(500)))
}

func TestStore_IncomeAdjustsBalance(t *testing.T) {
	ctx := context.Background()
	s, acc, cat := newStore(t)

	in, err := s.CreateIncome(ctx, core.TransactionInput{Title: "Salary", Amount: decimal.NewFromInt(100), CategoryID: cat.ID, AccountID: acc.ID})
	require.NoError(t, err)
	accounts, _ := s.ListAccounts(ctx)
	assert.True(t, accounts[0].Balance.Equal(decimal.NewFromInt(600)))

	require.NoError(t, s.DeleteIncome(ctx, in.ID))
	accounts, _ = s.ListAccounts(ctx)
	assert.True(t, accounts[0].Balance.Equal(decimal.NewFromInt(500)))
}

func TestStore_ListBudgetsPopulatesReferences(t *testing.T) {
	ctx := context.Background()
	s, acc, cat := newStore(t)
	_, err := s.CreateBudget(ctx, budgetInput(acc.ID, cat.ID))
	require.NoError(t, err)

	budgets, err := s.ListBudgets(ctx)
	require.NoError(t, err)

	name, ok := budgets[0].Account.Populated()
	assert.True(t, ok)
	assert.Equal(t, "Wallet", name)
	name, ok = budgets[0].Category.Populated()
	assert.True(t, ok)
	assert.Equal(t, "Groceries", name)
}

func TestStore_ValidationRunsBeforeWrite(t *testing.T) {
	ctx := context.Background()
	s, acc, _ := newStore(t)

	in := budgetInput(acc.ID, "")
	in.Limit = decimal.NewFromInt(250)
	_, err := s.CreateBudget(ctx, in)

	var verr *core.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "limit", verr.Field)

	budgets, _ := s.ListBudgets(ctx)
	assert.Empty(t, budgets)
}

func TestStore_MissingRecordsAreNotFound(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newStore(t)

	assert.ErrorIs(t, s.DeleteAccount(ctx, "nope"), core.ErrNotFound)
	assert.ErrorIs(t, s.DeleteCategory(ctx, "nope"), core.ErrNotFound)
	assert.ErrorIs(t, s.DeleteBudget(ctx, "nope"), core.ErrNotFound)
	assert.ErrorIs(t, s.DeleteExpense(ctx, "nope"), core.ErrNotFound)
	assert.ErrorIs(t, s.DeleteIncome(ctx, "nope"), core.ErrNotFound)
	assert.ErrorIs(t, s.MarkBudgetNotified(ctx, "nope"), core.ErrNotFound)

	_, err := s.UpdateAccount(ctx, "nope", core.AccountInput{Name: "x", Type: core.AccountCash})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestStore_UpdateReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	s, acc, _ := newStore(t)
	second, err := s.CreateAccount(ctx, core.AccountInput{Name: "Bank", Type: core.AccountBank})
	require.NoError(t, err)

	_, err = s.UpdateAccount(ctx, acc.ID, core.AccountInput{Name: "Pocket", Type: core.AccountCash, Balance: decimal.NewFromInt(10)})
	require.NoError(t, err)

	accounts, _ := s.ListAccounts(ctx)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Pocket", accounts[0].Name)
	assert.Equal(t, second.ID, accounts[1].ID)
}

func TestStore_MarkBudgetNotified(t *testing.T) {
	ctx := context.Background()
	s, acc, _ := newStore(t)
	b, err := s.CreateBudget(ctx, budgetInput(acc.ID, ""))
	require.NoError(t, err)

	require.NoError(t, s.MarkBudgetNotified(ctx, b.ID))
	budgets, _ := s.ListBudgets(ctx)
	assert.True(t, budgets[0].NotificationsSent)
}

func TestStore_ListExpensesPaginatesNewestFirst(t *testing.T) {
	ctx := context.Background()
	s, _, cat := newStore(t)
	for _, title := range []string{"one", "two", "three"} {
		_, err := s.CreateExpense(ctx, core.TransactionInput{Title: title, Amount: decimal.NewFromInt(1), CategoryID: cat.ID})
		require.NoError(t, err)
	}

	page, err := s.ListExpenses(ctx, finance.ListParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, core.Pagination{Total: 3, Pages: 2, CurrentPage: 1, PerPage: 2}, page.Pagination)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "three", page.Items[0].Title)
	assert.Equal(t, "two", page.Items[1].Title)

	page, err = s.ListExpenses(ctx, finance.ListParams{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "one", page.Items[0].Title)

	page, err = s.ListExpenses(ctx, finance.ListParams{Page: 5, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestStore_ListFiltersByCategory(t *testing.T) {
	ctx := context.Background()
	s, _, cat := newStore(t)
	other, err := s.CreateCategory(ctx, core.CategoryInput{Name: "Fun"})
	require.NoError(t, err)
	_, err = s.CreateExpense(ctx, core.TransactionInput{Title: "food", Amount: decimal.NewFromInt(1), CategoryID: cat.ID})
	require.NoError(t, err)
	_, err = s.CreateExpense(ctx, core.TransactionInput{Title: "cinema", Amount: decimal.NewFromInt(1), CategoryID: other.ID})
	require.NoError(t, err)

	page, err := s.ListExpenses(ctx, finance.ListParams{CategoryID: other.ID})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "cinema", page.Items[0].Title)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	s := New(WithClock(fixedClock()))
	require.NoError(t, Seed(ctx, s))

	budgets, err := s.ListBudgets(ctx)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, "40.0%", core.ProgressOf(budgets[0]).Label)

	page, err := s.ListExpenses(ctx, finance.Recent(10))
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}
