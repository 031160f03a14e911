package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ValidationError rejects user input before it reaches the finance API.
// Field names the offending form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

type (
	AccountInput struct {
		Name    string          `json:"name"`
		Type    AccountType     `json:"type"`
		Balance decimal.Decimal `json:"balance"`
	}

	CategoryInput struct {
		Name     string       `json:"name"`
		Type     CategoryType `json:"type,omitempty"`
		ParentID string       `json:"parentCategory,omitempty"`
		IsActive bool         `json:"isActive"`
	}

	BudgetInput struct {
		Name        string          `json:"name"`
		Amount      decimal.Decimal `json:"amount"`
		Limit       decimal.Decimal `json:"limit"`
		Description string          `json:"description,omitempty"`
		AccountID   string          `json:"account"`
		CategoryID  string          `json:"category,omitempty"`
		StartDate   time.Time       `json:"startDate"`
		EndDate     time.Time       `json:"endDate"`
		IsActive    bool            `json:"isActive"`
	}

	TransactionInput struct {
		Title       string          `json:"title"`
		Amount      decimal.Decimal `json:"amount"`
		Type        TransactionType `json:"type"`
		CategoryID  string          `json:"category"`
		BudgetID    string          `json:"budget,omitempty"`
		AccountID   string          `json:"account,omitempty"`
		Description string          `json:"description,omitempty"`
		Date        time.Time       `json:"date"`
	}
)

func (in AccountInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "Account name is required")
	}
	if !in.Type.IsValid() {
		return invalid("type", "Select an account type")
	}
	if in.Balance.IsNegative() {
		return invalid("balance", "Balance cannot be negative")
	}
	return nil
}

// Validate checks the category. selfID is the identifier of the category
// being edited, empty on create.
func (in CategoryInput) Validate(selfID string) error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "Category name is required")
	}
	if in.Type != "" && !in.Type.IsValid() {
		return invalid("type", "Select a category type")
	}
	if selfID != "" && in.ParentID == selfID {
		return invalid("parentCategory", "A category cannot be its own parent")
	}
	return nil
}

func (in BudgetInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return invalid("name", "Budget name is required")
	case !in.Amount.IsPositive():
		return invalid("amount", "Amount must be greater than zero")
	case !in.Limit.IsPositive():
		return invalid("limit", "Limit must be greater than zero")
	case in.Limit.GreaterThan(in.Amount):
		return invalid("limit", "Limit cannot exceed budget amount")
	case strings.TrimSpace(in.AccountID) == "":
		return invalid("account", "Account is required")
	case in.StartDate.IsZero():
		return invalid("startDate", "Start date is required")
	case in.EndDate.IsZero():
		return invalid("endDate", "End date is required")
	case in.EndDate.Before(in.StartDate):
		return invalid("endDate", "End date must be after start date")
	}
	return nil
}

func (in TransactionInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return invalid("title", "Title is required")
	case !in.Amount.IsPositive():
		return invalid("amount", "Amount must be greater than zero")
	case !in.Type.IsValid():
		return invalid("type", "Type must be income or expense")
	case strings.TrimSpace(in.CategoryID) == "":
		return invalid("category", "Category is required")
	case in.BudgetID != "" && in.Type != Expense:
		return invalid("budget", "Only expenses can be assigned to a budget")
	}
	return nil
}
