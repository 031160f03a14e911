package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	AccountCash       AccountType = "cash"
	AccountBank       AccountType = "bank"
	AccountMomo       AccountType = "momo"
	AccountCredit     AccountType = "credit"
	AccountDebit      AccountType = "debit"
	AccountInvestment AccountType = "investment"
	AccountOther      AccountType = "other"
)

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
	CategoryBoth    CategoryType = "both"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	AccountType     string
	CategoryType    string
	TransactionType string

	// Account is a money-holding container owned by the signed-in user.
	Account struct {
		ID        string          `json:"_id"`
		Name      string          `json:"name"`
		Type      AccountType     `json:"type"`
		Balance   decimal.Decimal `json:"balance"`
		UserID    string          `json:"userId,omitempty"`
		CreatedAt time.Time       `json:"createdAt,omitempty"`
		UpdatedAt time.Time       `json:"updatedAt,omitempty"`
	}

	Category struct {
		ID        string       `json:"_id"`
		Name      string       `json:"name"`
		Parent    Ref          `json:"parentCategory"`
		Type      CategoryType `json:"type,omitempty"`
		IsActive  bool         `json:"isActive"`
		UserID    string       `json:"userId,omitempty"`
		CreatedAt time.Time    `json:"createdAt,omitempty"`
		UpdatedAt time.Time    `json:"updatedAt,omitempty"`
	}

	// Transaction is either an income or an expense. Expenses may be
	// attributed to a budget.
	Transaction struct {
		ID          string          `json:"_id"`
		Title       string          `json:"title"`
		Amount      decimal.Decimal `json:"amount"`
		Type        TransactionType `json:"type"`
		Category    Ref             `json:"category"`
		Budget      Ref             `json:"budget"`
		Account     Ref             `json:"account"`
		Description string          `json:"description,omitempty"`
		Date        time.Time       `json:"date,omitempty"`
		CreatedAt   time.Time       `json:"createdAt,omitempty"`
		UpdatedAt   time.Time       `json:"updatedAt,omitempty"`
	}

	// Budget is a spending plan over a date range. CurrentSpending is
	// maintained by the finance API from the expenses attributed to it.
	Budget struct {
		ID                string          `json:"_id"`
		Name              string          `json:"name"`
		Amount            decimal.Decimal `json:"amount"`
		Limit             decimal.Decimal `json:"limit"`
		Description       string          `json:"description,omitempty"`
		Account           Ref             `json:"account"`
		Category          Ref             `json:"category"`
		StartDate         time.Time       `json:"startDate"`
		EndDate           time.Time       `json:"endDate"`
		CurrentSpending   decimal.Decimal `json:"currentSpending"`
		NotificationsSent bool            `json:"notificationsSent"`
		IsActive          bool            `json:"isActive"`
		CreatedAt         time.Time       `json:"createdAt,omitempty"`
		UpdatedAt         time.Time       `json:"updatedAt,omitempty"`
	}

	// Pagination mirrors the paging envelope of list endpoints.
	Pagination struct {
		Total       int `json:"total"`
		Pages       int `json:"pages"`
		CurrentPage int `json:"currentPage"`
		PerPage     int `json:"perPage"`
	}
)

var (
	ErrNotFound = errors.New("not found")
)

var accountTypes = []AccountType{AccountCash, AccountBank, AccountMomo, AccountCredit, AccountDebit, AccountInvestment, AccountOther}

// AccountTypes lists the account types in display order.
func AccountTypes() []AccountType {
	return append([]AccountType(nil), accountTypes...)
}

func (t AccountType) IsValid() bool {
	for _, at := range accountTypes {
		if t == at {
			return true
		}
	}
	return false
}

func (t CategoryType) IsValid() bool {
	switch t {
	case CategoryIncome, CategoryExpense, CategoryBoth:
		return true
	}
	return false
}

func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// Overspent reports whether spending has passed a positive limit.
func (b Budget) Overspent() bool {
	return b.Limit.IsPositive() && b.CurrentSpending.GreaterThan(b.Limit)
}

// Identifier accessors used by the generic list helpers and lookups.

func (a Account) Key() string     { return a.ID }
func (c Category) Key() string    { return c.ID }
func (t Transaction) Key() string { return t.ID }
func (b Budget) Key() string      { return b.ID }

func (a Account) DisplayName() string  { return a.Name }
func (c Category) DisplayName() string { return c.Name }
func (b Budget) DisplayName() string   { return b.Name }
