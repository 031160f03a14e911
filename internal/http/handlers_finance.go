package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"finboard/internal/core"
	"finboard/internal/finance"
	"finboard/internal/log"
)

// readForm parses a form or JSON body. A malformed body is answered here.
func readForm(w http.ResponseWriter, r *http.Request) (url.Values, bool) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Malformed request").
			TriggerErrorNotification("The form could not be read").
			Write(w)
		return nil, false
	}
	return p.Values(), true
}

// Accounts

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request, b finance.Backend) {
	s.saveAccount(w, r, b, "")
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request, b finance.Backend) {
	s.saveAccount(w, r, b, r.PathValue("id"))
}

func (s *Server) saveAccount(w http.ResponseWriter, r *http.Request, b finance.Backend, id string) {
	form, ok := readForm(w, r)
	if !ok {
		return
	}
	in, err := ParseAccountForm(form)
	if err == nil {
		err = in.Validate()
	}
	if err != nil {
		s.fail(w, r, "save the account", err)
		return
	}

	var acc core.Account
	if id == "" {
		acc, err = b.CreateAccount(r.Context(), in)
	} else {
		acc, err = b.UpdateAccount(r.Context(), id, in)
	}
	if err != nil {
		s.fail(w, r, "save the account", err)
		return
	}
	s.succeed(w, r, mutationOp(id), "account", acc.ID, "Account "+acc.Name+" saved")
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request, b finance.Backend) {
	id := r.PathValue("id")
	if err := b.DeleteAccount(r.Context(), id); err != nil {
		s.fail(w, r, "delete the account", err)
		return
	}
	s.succeed(w, r, log.OpDelete, "account", id, "Account deleted")
}

// Categories

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request, b finance.Backend) {
	s.saveCategory(w, r, b, "")
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request, b finance.Backend) {
	s.saveCategory(w, r, b, r.PathValue("id"))
}

func (s *Server) saveCategory(w http.ResponseWriter, r *http.Request, b finance.Backend, id string) {
	form, ok := readForm(w, r)
	if !ok {
		return
	}
	in := ParseCategoryForm(form)
	if err := in.Validate(id); err != nil {
		s.fail(w, r, "save the category", err)
		return
	}

	var (
		cat core.Category
		err error
	)
	if id == "" {
		cat, err = b.CreateCategory(r.Context(), in)
	} else {
		cat, err = b.UpdateCategory(r.Context(), id, in)
	}
	if err != nil {
		s.fail(w, r, "save the category", err)
		return
	}
	s.succeed(w, r, mutationOp(id), "category", cat.ID, "Category "+cat.Name+" saved")
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request, b finance.Backend) {
	id := r.PathValue("id")
	if err := b.DeleteCategory(r.Context(), id); err != nil {
		s.fail(w, r, "delete the category", err)
		return
	}
	s.succeed(w, r, log.OpDelete, "category", id, "Category deleted")
}

// Budgets

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request, b finance.Backend) {
	s.saveBudget(w, r, b, "")
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request, b finance.Backend) {
	s.saveBudget(w, r, b, r.PathValue("id"))
}

func (s *Server) saveBudget(w http.ResponseWriter, r *http.Request, b finance.Backend, id string) {
	form, ok := readForm(w, r)
	if !ok {
		return
	}
	in, err := ParseBudgetForm(form)
	if err == nil {
		err = in.Validate()
	}
	if err != nil {
		s.fail(w, r, "save the budget", err)
		return
	}

	var budget core.Budget
	if id == "" {
		budget, err = b.CreateBudget(r.Context(), in)
	} else {
		budget, err = b.UpdateBudget(r.Context(), id, in)
	}
	if err != nil {
		s.fail(w, r, "save the budget", err)
		return
	}
	s.succeed(w, r, mutationOp(id), "budget", budget.ID, "Budget "+budget.Name+" saved")
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request, b finance.Backend) {
	id := r.PathValue("id")
	if err := b.DeleteBudget(r.Context(), id); err != nil {
		s.fail(w, r, "delete the budget", err)
		return
	}
	s.succeed(w, r, log.OpDelete, "budget", id, "Budget deleted")
}

// Transactions

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request, b finance.Backend) {
	s.createTransaction(w, r, core.Expense, b.CreateExpense)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request, b finance.Backend) {
	s.createTransaction(w, r, core.Income, b.CreateIncome)
}

type createFunc func(ctx context.Context, in core.TransactionInput) (core.Transaction, error)

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request, typ core.TransactionType, create createFunc) {
	form, ok := readForm(w, r)
	if !ok {
		return
	}
	what := "save the " + string(typ)

	in, err := ParseTransactionForm(form, typ)
	if err == nil {
		if in.Date.IsZero() {
			in.Date = s.now()
		}
		err = in.Validate()
	}
	if err != nil {
		s.fail(w, r, what, err)
		return
	}

	tx, err := create(r.Context(), in)
	if err != nil {
		s.fail(w, r, what, err)
		return
	}
	s.succeed(w, r, log.OpCreate, string(typ), tx.ID,
		capitalize(string(typ))+" "+tx.Title+" saved: "+core.FormatAmount(tx.Amount))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request, b finance.Backend) {
	id := r.PathValue("id")
	if err := b.DeleteExpense(r.Context(), id); err != nil {
		s.fail(w, r, "delete the expense", err)
		return
	}
	s.succeed(w, r, log.OpDelete, string(core.Expense), id, "Expense deleted")
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request, b finance.Backend) {
	id := r.PathValue("id")
	if err := b.DeleteIncome(r.Context(), id); err != nil {
		s.fail(w, r, "delete the income", err)
		return
	}
	s.succeed(w, r, log.OpDelete, string(core.Income), id, "Income deleted")
}

func mutationOp(id string) string {
	if id == "" {
		return log.OpCreate
	}
	return log.OpUpdate
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
