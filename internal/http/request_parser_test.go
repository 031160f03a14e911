package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/internal/core"
)

func TestRequestBodyParser(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		key, want   string
	}{
		{"form", "title=Lunch&amount=12%2C50", "application/x-www-form-urlencoded", "amount", "12,50"},
		{"json", `{"title":"Lunch","amount":12.5}`, "application/json", "amount", "12.5"},
		{"json bool", `{"isActive":true}`, "application/json", "isActive", "true"},
		{"control characters stripped", "title=Lu%00nch", "application/x-www-form-urlencoded", "title", "Lunch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)

			p := NewRequestBodyParser(req)
			require.NoError(t, p.Parse())
			assert.Equal(t, tt.want, p.Values().Get(tt.key))
		})
	}
}

func TestRequestBodyParser_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(`{"title":`))
	req.Header.Set("Content-Type", "application/json")

	assert.Error(t, NewRequestBodyParser(req).Parse())
}

func TestParseTransactionForm(t *testing.T) {
	form := url.Values{
		"title":    {"Weekly shop"},
		"amount":   {"60,00"},
		"category": {"c1"},
		"budget":   {"b1"},
		"date":     {"2024-03-05"},
	}

	in, err := ParseTransactionForm(form, core.Expense)
	require.NoError(t, err)
	assert.True(t, in.Amount.Equal(decimal.NewFromInt(60)), "amount = %s", in.Amount)
	assert.Equal(t, "b1", in.BudgetID)
	assert.Equal(t, core.Expense, in.Type)
	assert.True(t, in.Date.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)), "date = %v", in.Date)

	income, err := ParseTransactionForm(form, core.Income)
	require.NoError(t, err)
	assert.Empty(t, income.BudgetID, "incomes never carry a budget")
}

func TestParseForms_FieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		parse func() error
		field string
	}{
		{"transaction amount", func() error {
			_, err := ParseTransactionForm(url.Values{"amount": {"abc"}}, core.Expense)
			return err
		}, "amount"},
		{"transaction date", func() error {
			_, err := ParseTransactionForm(url.Values{"amount": {"1"}, "date": {"05/03/2024"}}, core.Expense)
			return err
		}, "date"},
		{"budget limit", func() error {
			_, err := ParseBudgetForm(url.Values{"amount": {"200"}, "limit": {""}})
			return err
		}, "limit"},
		{"account balance", func() error {
			_, err := ParseAccountForm(url.Values{"balance": {"1.2.3"}})
			return err
		}, "balance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *core.ValidationError
			require.ErrorAs(t, tt.parse(), &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestParseAccountForm_EmptyBalanceIsZero(t *testing.T) {
	in, err := ParseAccountForm(url.Values{"name": {"Wallet"}, "type": {"cash"}})
	require.NoError(t, err)
	assert.True(t, in.Balance.IsZero(), "balance = %s", in.Balance)
}

func TestParseCategoryForm_DefaultsActive(t *testing.T) {
	assert.True(t, ParseCategoryForm(url.Values{"name": {"Food"}}).IsActive)
	assert.False(t, ParseCategoryForm(url.Values{"name": {"Food"}, "isActive": {"false"}}).IsActive)
}

func TestParseListParams(t *testing.T) {
	p := ParseListParams(url.Values{
		"page":      {"3"},
		"limit":     {"10000"},
		"startDate": {"2024-01-01"},
		"endDate":   {"not-a-date"},
		"category":  {" c1 "},
	}, 20)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, maxPageSize, p.Limit)
	assert.False(t, p.StartDate.IsZero())
	assert.True(t, p.EndDate.IsZero())
	assert.Equal(t, "c1", p.CategoryID)

	d := ParseListParams(url.Values{"page": {"-1"}}, 20)
	assert.Equal(t, 1, d.Page)
	assert.Equal(t, 20, d.Limit)
}

func TestParseBudgetForm_CheckboxAfterHiddenFallback(t *testing.T) {
	form := url.Values{
		"name": {"Food"}, "amount": {"200"}, "limit": {"150"},
		"isActive": {"false", "true"},
	}
	in, err := ParseBudgetForm(form)
	require.NoError(t, err)
	assert.True(t, in.IsActive, "checked box should win over the hidden fallback")

	form["isActive"] = []string{"false"}
	in, err = ParseBudgetForm(form)
	require.NoError(t, err)
	assert.False(t, in.IsActive, "unchecked box should leave the budget inactive")
}
