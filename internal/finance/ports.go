// Package finance declares the ports through which finboard talks to the
// finance API that owns accounts, categories, budgets and transactions.
package finance

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"finboard/internal/core"
)

// ListParams narrows a paged expense or income listing. Zero values are
// omitted from the request.
type ListParams struct {
	Page       int
	Limit      int
	StartDate  time.Time
	EndDate    time.Time
	CategoryID string
}

// Recent returns params for the newest n records.
func Recent(n int) ListParams {
	return ListParams{Page: 1, Limit: n}
}

// Values encodes the params as query parameters.
func (p ListParams) Values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if !p.StartDate.IsZero() {
		v.Set("startDate", p.StartDate.Format(time.DateOnly))
	}
	if !p.EndDate.IsZero() {
		v.Set("endDate", p.EndDate.Format(time.DateOnly))
	}
	if p.CategoryID != "" {
		v.Set("category", p.CategoryID)
	}
	return v
}

// Page is one page of transactions.
type Page struct {
	Items      []core.Transaction
	Pagination core.Pagination
}

// Ports for outbound adapters.
type (
	AccountStore interface {
		ListAccounts(ctx context.Context) ([]core.Account, error)
		CreateAccount(ctx context.Context, in core.AccountInput) (core.Account, error)
		UpdateAccount(ctx context.Context, id string, in core.AccountInput) (core.Account, error)
		DeleteAccount(ctx context.Context, id string) error
	}

	CategoryStore interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
		CreateCategory(ctx context.Context, in core.CategoryInput) (core.Category, error)
		UpdateCategory(ctx context.Context, id string, in core.CategoryInput) (core.Category, error)
		DeleteCategory(ctx context.Context, id string) error
	}

	BudgetStore interface {
		ListBudgets(ctx context.Context) ([]core.Budget, error)
		CreateBudget(ctx context.Context, in core.BudgetInput) (core.Budget, error)
		UpdateBudget(ctx context.Context, id string, in core.BudgetInput) (core.Budget, error)
		// MarkBudgetNotified records that the over-limit alert went out.
		MarkBudgetNotified(ctx context.Context, id string) error
		DeleteBudget(ctx context.Context, id string) error
	}

	TransactionStore interface {
		ListExpenses(ctx context.Context, p ListParams) (Page, error)
		ListIncomes(ctx context.Context, p ListParams) (Page, error)
		CreateExpense(ctx context.Context, in core.TransactionInput) (core.Transaction, error)
		CreateIncome(ctx context.Context, in core.TransactionInput) (core.Transaction, error)
		DeleteExpense(ctx context.Context, id string) error
		DeleteIncome(ctx context.Context, id string) error
	}

	// Backend is the full finance API surface.
	Backend interface {
		AccountStore
		CategoryStore
		BudgetStore
		TransactionStore
	}
)
