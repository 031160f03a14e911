package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
	"finboard/internal/finance"
)

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func pathID(prefix, id string) string {
	return prefix + id
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Accounts

func (c *Client) ListAccounts(ctx context.Context) ([]core.Account, error) {
	var out []core.Account
	if err := c.do(ctx, "list accounts", http.MethodGet, "/get-accounts", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func accountBody(in core.AccountInput) map[string]any {
	return map[string]any{
		"name":    in.Name,
		"type":    in.Type,
		"balance": number(in.Balance),
	}
}

func (c *Client) CreateAccount(ctx context.Context, in core.AccountInput) (core.Account, error) {
	var out core.Account
	err := c.do(ctx, "create account", http.MethodPost, "/add-account", nil, accountBody(in), &out)
	return out, err
}

func (c *Client) UpdateAccount(ctx context.Context, id string, in core.AccountInput) (core.Account, error) {
	var out core.Account
	err := c.do(ctx, "update account", http.MethodPut, pathID("/update-account/", id), nil, accountBody(in), &out)
	return out, err
}

func (c *Client) DeleteAccount(ctx context.Context, id string) error {
	return c.do(ctx, "delete account", http.MethodDelete, pathID("/delete-account/", id), nil, nil, nil)
}

// Categories

func (c *Client) ListCategories(ctx context.Context) ([]core.Category, error) {
	var out []core.Category
	if err := c.do(ctx, "list categories", http.MethodGet, "/get-categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func categoryBody(in core.CategoryInput) map[string]any {
	body := map[string]any{
		"name":           in.Name,
		"parentCategory": optional(in.ParentID),
		"isActive":       in.IsActive,
	}
	if in.Type != "" {
		body["type"] = in.Type
	}
	return body
}

func (c *Client) CreateCategory(ctx context.Context, in core.CategoryInput) (core.Category, error) {
	var out core.Category
	err := c.do(ctx, "create category", http.MethodPost, "/add-category", nil, categoryBody(in), &out)
	return out, err
}

func (c *Client) UpdateCategory(ctx context.Context, id string, in core.CategoryInput) (core.Category, error) {
	var out core.Category
	err := c.do(ctx, "update category", http.MethodPut, pathID("/update-categories/", id), nil, categoryBody(in), &out)
	return out, err
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, "delete category", http.MethodDelete, pathID("/delete-categories/", id), nil, nil, nil)
}

// Budgets

func (c *Client) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	var out []core.Budget
	if err := c.do(ctx, "list budgets", http.MethodGet, "/get-budgets", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func budgetBody(in core.BudgetInput) map[string]any {
	return map[string]any{
		"name":        in.Name,
		"amount":      number(in.Amount),
		"limit":       number(in.Limit),
		"description": in.Description,
		"account":     in.AccountID,
		"category":    optional(in.CategoryID),
		"startDate":   in.StartDate.UTC().Format(time.RFC3339),
		"endDate":     in.EndDate.UTC().Format(time.RFC3339),
		"isActive":    in.IsActive,
	}
}

func (c *Client) CreateBudget(ctx context.Context, in core.BudgetInput) (core.Budget, error) {
	var out core.Budget
	err := c.do(ctx, "create budget", http.MethodPost, "/add-budget", nil, budgetBody(in), &out)
	return out, err
}

func (c *Client) UpdateBudget(ctx context.Context, id string, in core.BudgetInput) (core.Budget, error) {
	var out core.Budget
	err := c.do(ctx, "update budget", http.MethodPut, pathID("/update-budget/", id), nil, budgetBody(in), &out)
	return out, err
}

func (c *Client) MarkBudgetNotified(ctx context.Context, id string) error {
	body := map[string]any{"notificationsSent": true}
	return c.do(ctx, "mark budget notified", http.MethodPut, pathID("/update-budget/", id), nil, body, nil)
}

func (c *Client) DeleteBudget(ctx context.Context, id string) error {
	return c.do(ctx, "delete budget", http.MethodDelete, pathID("/delete-budget/", id), nil, nil, nil)
}

// Transactions

type expensePage struct {
	Expenses   []core.Transaction `json:"expenses"`
	Pagination core.Pagination    `json:"pagination"`
}

type incomePage struct {
	Incomes    []core.Transaction `json:"incomes"`
	Pagination core.Pagination    `json:"pagination"`
}

func (c *Client) ListExpenses(ctx context.Context, p finance.ListParams) (finance.Page, error) {
	var out expensePage
	if err := c.do(ctx, "list expenses", http.MethodGet, "/get-expenses", p.Values(), nil, &out); err != nil {
		return finance.Page{}, err
	}
	return finance.Page{Items: withType(out.Expenses, core.Expense), Pagination: out.Pagination}, nil
}

func (c *Client) ListIncomes(ctx context.Context, p finance.ListParams) (finance.Page, error) {
	var out incomePage
	if err := c.do(ctx, "list incomes", http.MethodGet, "/get-incomes", p.Values(), nil, &out); err != nil {
		return finance.Page{}, err
	}
	return finance.Page{Items: withType(out.Incomes, core.Income), Pagination: out.Pagination}, nil
}

// withType fills in the transaction type, which the typed endpoints may omit.
func withType(txs []core.Transaction, t core.TransactionType) []core.Transaction {
	for i := range txs {
		if txs[i].Type == "" {
			txs[i].Type = t
		}
	}
	return txs
}

func transactionBody(in core.TransactionInput) map[string]any {
	body := map[string]any{
		"title":       in.Title,
		"amount":      number(in.Amount),
		"type":        in.Type,
		"category":    in.CategoryID,
		"budget":      optional(in.BudgetID),
		"account":     optional(in.AccountID),
		"description": in.Description,
	}
	if !in.Date.IsZero() {
		body["date"] = in.Date.UTC().Format(time.RFC3339)
	}
	return body
}

func (c *Client) CreateExpense(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	in.Type = core.Expense
	var out core.Transaction
	if err := c.do(ctx, "create expense", http.MethodPost, "/add-expense", nil, transactionBody(in), &out); err != nil {
		return core.Transaction{}, err
	}
	if out.Type == "" {
		out.Type = core.Expense
	}
	return out, nil
}

func (c *Client) CreateIncome(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	in.Type = core.Income
	var out core.Transaction
	if err := c.do(ctx, "create income", http.MethodPost, "/add-income", nil, transactionBody(in), &out); err != nil {
		return core.Transaction{}, err
	}
	if out.Type == "" {
		out.Type = core.Income
	}
	return out, nil
}

func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	return c.do(ctx, "delete expense", http.MethodDelete, pathID("/delete-expense/", id), nil, nil, nil)
}

func (c *Client) DeleteIncome(ctx context.Context, id string) error {
	return c.do(ctx, "delete income", http.MethodDelete, pathID("/delete-income/", id), nil, nil, nil)
}
