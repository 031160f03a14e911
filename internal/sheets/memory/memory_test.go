package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/sheets"
)

func TestStore_AppendSnapshot(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		snap := sheets.Snapshot{Date: time.Date(2024, 3, i, 0, 0, 0, 0, time.UTC), Net: decimal.NewFromInt(int64(i))}
		if err := s.AppendSnapshot(ctx, snap); err != nil {
			t.Fatalf("AppendSnapshot() error = %v", err)
		}
	}

	rows := s.Snapshots()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Date.Day() != 1 || rows[1].Date.Day() != 2 {
		t.Errorf("rows out of order: %v", rows)
	}

	rows[0].OverLimit = 99
	if s.Snapshots()[0].OverLimit == 99 {
		t.Error("Snapshots() must return a copy")
	}
}
