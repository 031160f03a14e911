package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

// Seed fills s with a small demo household: one wallet, a few categories, a
// monthly food budget and some transactions.
func Seed(ctx context.Context, s *Store) error {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	wallet, err := s.CreateAccount(ctx, core.AccountInput{Name: "Wallet", Type: core.AccountCash, Balance: decimal.NewFromInt(500)})
	if err != nil {
		return fmt.Errorf("seed account: %w", err)
	}
	if _, err := s.CreateAccount(ctx, core.AccountInput{Name: "Current Account", Type: core.AccountBank, Balance: decimal.NewFromInt(2400)}); err != nil {
		return fmt.Errorf("seed account: %w", err)
	}

	categories := map[string]core.CategoryType{
		"Groceries": core.CategoryExpense,
		"Transport": core.CategoryExpense,
		"Salary":    core.CategoryIncome,
	}
	ids := make(map[string]string, len(categories))
	for _, name := range []string{"Groceries", "Transport", "Salary"} {
		c, err := s.CreateCategory(ctx, core.CategoryInput{Name: name, Type: categories[name], IsActive: true})
		if err != nil {
			return fmt.Errorf("seed category: %w", err)
		}
		ids[name] = c.ID
	}

	food, err := s.CreateBudget(ctx, core.BudgetInput{
		Name:       "Food",
		Amount:     decimal.NewFromInt(200),
		Limit:      decimal.NewFromInt(150),
		AccountID:  wallet.ID,
		CategoryID: ids["Groceries"],
		StartDate:  monthStart,
		EndDate:    monthStart.AddDate(0, 1, -1),
		IsActive:   true,
	})
	if err != nil {
		return fmt.Errorf("seed budget: %w", err)
	}

	if _, err := s.CreateIncome(ctx, core.TransactionInput{
		Title: "Salary", Amount: decimal.NewFromInt(1800), CategoryID: ids["Salary"], AccountID: wallet.ID, Date: monthStart,
	}); err != nil {
		return fmt.Errorf("seed income: %w", err)
	}
	expenses := []core.TransactionInput{
		{Title: "Weekly shop", Amount: decimal.NewFromInt(60), CategoryID: ids["Groceries"], BudgetID: food.ID, AccountID: wallet.ID},
		{Title: "Bus pass", Amount: decimal.NewFromInt(35), CategoryID: ids["Transport"], AccountID: wallet.ID},
	}
	for _, in := range expenses {
		if _, err := s.CreateExpense(ctx, in); err != nil {
			return fmt.Errorf("seed expense: %w", err)
		}
	}
	return nil
}
