// Package memory is an in-process finance backend. It keeps the same
// bookkeeping the finance API does (budget spending, account balances) so the
// dashboard can run without a remote service.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finboard/internal/core"
	"finboard/internal/finance"
)

const defaultPageSize = 10

type Store struct {
	mu         sync.Mutex
	now        func() time.Time
	accounts   []core.Account
	categories []core.Category
	budgets    []core.Budget
	expenses   []core.Transaction
	incomes    []core.Transaction
}

var _ finance.Backend = (*Store)(nil)

type Option func(*Store)

// WithClock sets the clock used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) newID() string {
	return uuid.NewString()
}

func notFound(entity, id string) error {
	return fmt.Errorf("%s %q: %w", entity, id, core.ErrNotFound)
}

// Accounts

func (s *Store) ListAccounts(_ context.Context) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Account(nil), s.accounts...), nil
}

func (s *Store) CreateAccount(_ context.Context, in core.AccountInput) (core.Account, error) {
	if err := in.Validate(); err != nil {
		return core.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	a := core.Account{ID: s.newID(), Name: in.Name, Type: in.Type, Balance: in.Balance, CreatedAt: now, UpdatedAt: now}
	s.accounts = core.AppendByID(s.accounts, a)
	return a, nil
}

func (s *Store) UpdateAccount(_ context.Context, id string, in core.AccountInput) (core.Account, error) {
	if err := in.Validate(); err != nil {
		return core.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := core.FindByID(s.accounts, id)
	if !ok {
		return core.Account{}, notFound("account", id)
	}
	a.Name, a.Type, a.Balance, a.UpdatedAt = in.Name, in.Type, in.Balance, s.now()
	s.accounts = core.ReplaceByID(s.accounts, a)
	return a, nil
}

func (s *Store) DeleteAccount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := core.FindByID(s.accounts, id); !ok {
		return notFound("account", id)
	}
	s.accounts = core.RemoveByID(s.accounts, id)
	return nil
}

// Categories

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category(nil), s.categories...), nil
}

func (s *Store) CreateCategory(_ context.Context, in core.CategoryInput) (core.Category, error) {
	if err := in.Validate(""); err != nil {
		return core.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c := core.Category{
		ID:        s.newID(),
		Name:      in.Name,
		Parent:    refOrZero(in.ParentID),
		Type:      categoryType(in.Type),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.categories = core.AppendByID(s.categories, c)
	return c, nil
}

func (s *Store) UpdateCategory(_ context.Context, id string, in core.CategoryInput) (core.Category, error) {
	if err := in.Validate(id); err != nil {
		return core.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := core.FindByID(s.categories, id)
	if !ok {
		return core.Category{}, notFound("category", id)
	}
	c.Name, c.Parent, c.Type, c.IsActive, c.UpdatedAt = in.Name, refOrZero(in.ParentID), categoryType(in.Type), in.IsActive, s.now()
	s.categories = core.ReplaceByID(s.categories, c)
	return c, nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := core.FindByID(s.categories, id); !ok {
		return notFound("category", id)
	}
	s.categories = core.RemoveByID(s.categories, id)
	return nil
}

// Budgets

// ListBudgets returns budgets with account and category populated, the way
// the finance API answers this call.
func (s *Store) ListBudgets(_ context.Context) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := core.NewLookup(s.accounts)
	categories := core.NewLookup(s.categories)
	out := make([]core.Budget, len(s.budgets))
	for i, b := range s.budgets {
		b.Account = populate(b.Account, accounts)
		b.Category = populate(b.Category, categories)
		out[i] = b
	}
	return out, nil
}

func (s *Store) CreateBudget(_ context.Context, in core.BudgetInput) (core.Budget, error) {
	if err := in.Validate(); err != nil {
		return core.Budget{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := core.FindByID(s.accounts, in.AccountID); !ok {
		return core.Budget{}, notFound("account", in.AccountID)
	}
	now := s.now()
	b := core.Budget{
		ID:          s.newID(),
		Name:        in.Name,
		Amount:      in.Amount,
		Limit:       in.Limit,
		Description: in.Description,
		Account:     core.RefID(in.AccountID),
		Category:    refOrZero(in.CategoryID),
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		IsActive:    in.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.budgets = core.AppendByID(s.budgets, b)
	return b, nil
}

func (s *Store) UpdateBudget(_ context.Context, id string, in core.BudgetInput) (core.Budget, error) {
	if err := in.Validate(); err != nil {
		return core.Budget{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := core.FindByID(s.budgets, id)
	if !ok {
		return core.Budget{}, notFound("budget", id)
	}
	b.Name, b.Amount, b.Limit, b.Description = in.Name, in.Amount, in.Limit, in.Description
	b.Account, b.Category = core.RefID(in.AccountID), refOrZero(in.CategoryID)
	b.StartDate, b.EndDate, b.IsActive, b.UpdatedAt = in.StartDate, in.EndDate, in.IsActive, s.now()
	if !b.Overspent() {
		b.NotificationsSent = false
	}
	s.budgets = core.ReplaceByID(s.budgets, b)
	return b, nil
}

func (s *Store) MarkBudgetNotified(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := core.FindByID(s.budgets, id)
	if !ok {
		return notFound("budget", id)
	}
	b.NotificationsSent = true
	s.budgets = core.ReplaceByID(s.budgets, b)
	return nil
}

func (s *Store) DeleteBudget(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := core.FindByID(s.budgets, id); !ok {
		return notFound("budget", id)
	}
	s.budgets = core.RemoveByID(s.budgets, id)
	return nil
}

// Transactions

func (s *Store) ListExpenses(_ context.Context, p finance.ListParams) (finance.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return paginate(s.expenses, p), nil
}

func (s *Store) ListIncomes(_ context.Context, p finance.ListParams) (finance.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return paginate(s.incomes, p), nil
}

func (s *Store) CreateExpense(_ context.Context, in core.TransactionInput) (core.Transaction, error) {
	in.Type = core.Expense
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.BudgetID != "" {
		if _, ok := core.FindByID(s.budgets, in.BudgetID); !ok {
			return core.Transaction{}, notFound("budget", in.BudgetID)
		}
	}
	t := s.newTransaction(in)
	s.expenses = core.AppendByID(s.expenses, t)
	s.applyExpense(t, t.Amount)
	return t, nil
}

func (s *Store) CreateIncome(_ context.Context, in core.TransactionInput) (core.Transaction, error) {
	in.Type = core.Income
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.newTransaction(in)
	s.incomes = core.AppendByID(s.incomes, t)
	s.adjustBalance(t.Account.ID(), t.Amount)
	return t, nil
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := core.FindByID(s.expenses, id)
	if !ok {
		return notFound("expense", id)
	}
	s.expenses = core.RemoveByID(s.expenses, id)
	s.applyExpense(t, t.Amount.Neg())
	return nil
}

func (s *Store) DeleteIncome(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := core.FindByID(s.incomes, id)
	if !ok {
		return notFound("income", id)
	}
	s.incomes = core.RemoveByID(s.incomes, id)
	s.adjustBalance(t.Account.ID(), t.Amount.Neg())
	return nil
}

func (s *Store) newTransaction(in core.TransactionInput) core.Transaction {
	now := s.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	return core.Transaction{
		ID:          s.newID(),
		Title:       in.Title,
		Amount:      in.Amount,
		Type:        in.Type,
		Category:    refOrZero(in.CategoryID),
		Budget:      refOrZero(in.BudgetID),
		Account:     refOrZero(in.AccountID),
		Description: in.Description,
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// applyExpense moves delta into the expense's budget spending and out of its
// account balance. Must be called with s.mu held.
func (s *Store) applyExpense(t core.Transaction, delta decimal.Decimal) {
	if id := t.Budget.ID(); id != "" {
		if b, ok := core.FindByID(s.budgets, id); ok {
			b.CurrentSpending = b.CurrentSpending.Add(delta)
			s.budgets = core.ReplaceByID(s.budgets, b)
		}
	}
	s.adjustBalance(t.Account.ID(), delta.Neg())
}

func (s *Store) adjustBalance(accountID string, delta decimal.Decimal) {
	if accountID == "" {
		return
	}
	if a, ok := core.FindByID(s.accounts, accountID); ok {
		a.Balance = a.Balance.Add(delta)
		s.accounts = core.ReplaceByID(s.accounts, a)
	}
}

func paginate(all []core.Transaction, p finance.ListParams) finance.Page {
	matched := make([]core.Transaction, 0, len(all))
	for _, t := range all {
		if p.CategoryID != "" && t.Category.ID() != p.CategoryID {
			continue
		}
		day := t.Date
		if day.IsZero() {
			day = t.CreatedAt
		}
		if !p.StartDate.IsZero() && day.Before(p.StartDate) {
			continue
		}
		if !p.EndDate.IsZero() && day.After(p.EndDate.Add(24*time.Hour-time.Nanosecond)) {
			continue
		}
		matched = append(matched, t)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	perPage := p.Limit
	if perPage <= 0 {
		perPage = defaultPageSize
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}
	total := len(matched)
	pages := (total + perPage - 1) / perPage

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return finance.Page{
		Items: append([]core.Transaction(nil), matched[start:end]...),
		Pagination: core.Pagination{
			Total:       total,
			Pages:       pages,
			CurrentPage: page,
			PerPage:     perPage,
		},
	}
}

func refOrZero(id string) core.Ref {
	if id == "" {
		return core.Ref{}
	}
	return core.RefID(id)
}

func populate(ref core.Ref, names core.Lookup) core.Ref {
	if name, ok := names.Name(ref.ID()); ok && !ref.IsZero() {
		return core.RefNamed(ref.ID(), name)
	}
	return ref
}

func categoryType(t core.CategoryType) core.CategoryType {
	if t == "" {
		return core.CategoryBoth
	}
	return t
}
