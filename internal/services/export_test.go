package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/internal/core"
	"finboard/internal/finance/memory"
	"finboard/internal/sheets"
	sheetsmemory "finboard/internal/sheets/memory"
)

func seededStoreWithOverspentBudget(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	acc, err := store.CreateAccount(ctx, core.AccountInput{Name: "Wallet", Type: core.AccountCash, Balance: decimal.NewFromInt(500)})
	require.NoError(t, err)
	cat, err := store.CreateCategory(ctx, core.CategoryInput{Name: "Food"})
	require.NoError(t, err)
	now := time.Now()
	b, err := store.CreateBudget(ctx, core.BudgetInput{
		Name: "Food", Amount: decimal.NewFromInt(200), Limit: decimal.NewFromInt(150),
		AccountID: acc.ID, StartDate: now.AddDate(0, 0, -1), EndDate: now.AddDate(0, 1, 0), IsActive: true,
	})
	require.NoError(t, err)
	_, err = store.CreateExpense(ctx, core.TransactionInput{
		Title: "Feast", Amount: decimal.NewFromInt(160), CategoryID: cat.ID, BudgetID: b.ID, AccountID: acc.ID,
	})
	require.NoError(t, err)
	_, err = store.CreateIncome(ctx, core.TransactionInput{
		Title: "Salary", Amount: decimal.NewFromInt(1000), CategoryID: cat.ID, AccountID: acc.ID,
	})
	require.NoError(t, err)
	return store
}

func TestSnapshotExporter_Export(t *testing.T) {
	store := seededStoreWithOverspentBudget(t)
	writer := sheetsmemory.New()

	snap, err := NewSnapshotExporter(store, writer).Export(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "1000", snap.TotalIncome.String())
	assert.Equal(t, "160", snap.TotalExpense.String())
	assert.Equal(t, "840", snap.Net.String())
	assert.Equal(t, 1, snap.OverLimit)
	assert.Len(t, writer.Snapshots(), 1)
}

type failingWriter struct{}

func (failingWriter) AppendSnapshot(context.Context, sheets.Snapshot) error {
	return errors.New("quota exceeded")
}

func TestSnapshotExporter_WriterFailure(t *testing.T) {
	_, err := NewSnapshotExporter(seededStoreWithOverspentBudget(t), failingWriter{}).Export(context.Background())
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestSnapshotExporter_FetchFailure(t *testing.T) {
	writer := sheetsmemory.New()
	_, err := NewSnapshotExporter(&stubBackend{incomesErr: errUpstream}, writer).Export(context.Background())
	assert.ErrorIs(t, err, errUpstream)
	assert.Empty(t, writer.Snapshots())
}
