package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"finboard/internal/core"
	"finboard/internal/finance"
	"finboard/internal/sheets"
)

// exportPageSize bounds the transactions totalled per snapshot.
const exportPageSize = 500

// SnapshotExporter writes the period's totals to a spreadsheet.
type SnapshotExporter struct {
	backend finance.Backend
	writer  sheets.SnapshotWriter
	now     func() time.Time
}

func NewSnapshotExporter(backend finance.Backend, writer sheets.SnapshotWriter) *SnapshotExporter {
	return &SnapshotExporter{backend: backend, writer: writer, now: time.Now}
}

// Export totals the current month and appends one snapshot row.
func (e *SnapshotExporter) Export(ctx context.Context) (sheets.Snapshot, error) {
	now := e.now()
	params := finance.ListParams{
		Page:      1,
		Limit:     exportPageSize,
		StartDate: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		EndDate:   now,
	}

	var (
		expenses, incomes finance.Page
		budgets           []core.Budget
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		expenses, err = e.backend.ListExpenses(gctx, params)
		return wrap("export expenses", err)
	})
	g.Go(func() (err error) {
		incomes, err = e.backend.ListIncomes(gctx, params)
		return wrap("export incomes", err)
	})
	g.Go(func() (err error) {
		budgets, err = e.backend.ListBudgets(gctx)
		return wrap("export budgets", err)
	})
	if err := g.Wait(); err != nil {
		return sheets.Snapshot{}, err
	}

	all := append(append([]core.Transaction(nil), expenses.Items...), incomes.Items...)
	snap := sheets.NewSnapshot(now, core.Summarize(all), budgets)
	if err := e.writer.AppendSnapshot(ctx, snap); err != nil {
		return sheets.Snapshot{}, fmt.Errorf("append snapshot: %w", err)
	}
	return snap, nil
}
