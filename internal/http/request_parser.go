// Package http provides HTTP server and handler implementations.
//
// This file turns request bodies and query strings into finance inputs.
// Parse failures come back as *core.ValidationError so the handlers answer
// them the same way as rule violations.

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
	"finboard/internal/finance"
)

const (
	maxBodyBytes = 64 << 10
	maxPageSize  = 500
)

// RequestBodyParser reads a form-encoded or JSON object body.
type RequestBodyParser struct {
	body        []byte
	contentType string
	values      url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the body once, bounded by maxBodyBytes.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{contentType: r.Header.Get("Content-Type")}
	if r.Body == nil {
		return p
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse decodes the body. JSON objects are flattened into form values.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true
	if p.err != nil {
		return p.err
	}

	p.values = url.Values{}
	if len(p.body) == 0 {
		return nil
	}
	if strings.HasPrefix(p.contentType, "application/json") || p.body[0] == '{' {
		var obj map[string]any
		if err := json.Unmarshal(p.body, &obj); err != nil {
			p.err = err
			return err
		}
		for k, v := range obj {
			p.values.Set(k, stringValue(v))
		}
		return nil
	}

	p.values, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Values returns the sanitized body values. Parse must succeed first.
func (p *RequestBodyParser) Values() url.Values {
	out := url.Values{}
	for k, vs := range p.values {
		for _, v := range vs {
			out.Add(k, sanitizeInput(v))
		}
	}
	return out
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

func fieldError(field, msg string) error {
	return &core.ValidationError{Field: field, Message: msg}
}

func parseAmountField(form url.Values, field string, required bool) (decimal.Decimal, error) {
	raw := form.Get(field)
	if raw == "" && !required {
		return decimal.Zero, nil
	}
	d, err := core.ParseAmount(raw)
	if errors.Is(err, core.ErrInvalidAmount) {
		return decimal.Zero, fieldError(field, "Enter a valid amount")
	}
	return d, err
}

func parseDateField(form url.Values, field string) (time.Time, error) {
	raw := form.Get(field)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fieldError(field, "Use the YYYY-MM-DD format")
	}
	return t, nil
}

// parseBool accepts checkbox values. Any truthy value wins, so a hidden
// "false" fallback may precede the checkbox.
func parseBool(form url.Values, field string) bool {
	for _, v := range form[field] {
		switch strings.ToLower(v) {
		case "on", "true", "1", "yes":
			return true
		}
	}
	return false
}

// ParseAccountForm builds an account from form values.
func ParseAccountForm(form url.Values) (core.AccountInput, error) {
	balance, err := parseAmountField(form, "balance", false)
	if err != nil {
		return core.AccountInput{}, err
	}
	return core.AccountInput{
		Name:    form.Get("name"),
		Type:    core.AccountType(form.Get("type")),
		Balance: balance,
	}, nil
}

// ParseCategoryForm builds a category from form values. New categories are
// active unless the form says otherwise.
func ParseCategoryForm(form url.Values) core.CategoryInput {
	active := true
	if form.Has("isActive") {
		active = parseBool(form, "isActive")
	}
	return core.CategoryInput{
		Name:     form.Get("name"),
		Type:     core.CategoryType(form.Get("type")),
		ParentID: form.Get("parentCategory"),
		IsActive: active,
	}
}

func ParseBudgetForm(form url.Values) (core.BudgetInput, error) {
	amount, err := parseAmountField(form, "amount", true)
	if err != nil {
		return core.BudgetInput{}, err
	}
	limit, err := parseAmountField(form, "limit", true)
	if err != nil {
		return core.BudgetInput{}, err
	}
	start, err := parseDateField(form, "startDate")
	if err != nil {
		return core.BudgetInput{}, err
	}
	end, err := parseDateField(form, "endDate")
	if err != nil {
		return core.BudgetInput{}, err
	}
	active := true
	if form.Has("isActive") {
		active = parseBool(form, "isActive")
	}
	return core.BudgetInput{
		Name:        form.Get("name"),
		Amount:      amount,
		Limit:       limit,
		Description: form.Get("description"),
		AccountID:   form.Get("account"),
		CategoryID:  form.Get("category"),
		StartDate:   start,
		EndDate:     end,
		IsActive:    active,
	}, nil
}

// ParseTransactionForm builds an expense or income. The route decides the
// type; a budget is only kept for expenses.
func ParseTransactionForm(form url.Values, typ core.TransactionType) (core.TransactionInput, error) {
	amount, err := parseAmountField(form, "amount", true)
	if err != nil {
		return core.TransactionInput{}, err
	}
	date, err := parseDateField(form, "date")
	if err != nil {
		return core.TransactionInput{}, err
	}
	in := core.TransactionInput{
		Title:       form.Get("title"),
		Amount:      amount,
		Type:        typ,
		CategoryID:  form.Get("category"),
		AccountID:   form.Get("account"),
		Description: form.Get("description"),
		Date:        date,
	}
	if typ == core.Expense {
		in.BudgetID = form.Get("budget")
	}
	return in, nil
}

// ParseListParams reads page, limit, date range and category from a query
// string. Malformed values fall back to the defaults.
func ParseListParams(q url.Values, defaultLimit int) finance.ListParams {
	p := finance.ListParams{Page: 1, Limit: defaultLimit, CategoryID: strings.TrimSpace(q.Get("category"))}

	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		p.Limit = min(v, maxPageSize)
	}
	if t, err := time.Parse(time.DateOnly, q.Get("startDate")); err == nil {
		p.StartDate = t
	}
	if t, err := time.Parse(time.DateOnly, q.Get("endDate")); err == nil {
		p.EndDate = t
	}
	return p
}
