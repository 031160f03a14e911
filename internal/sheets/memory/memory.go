package memory

import (
	"context"
	"sync"

	"finboard/internal/sheets"
)

// Store keeps exported snapshots in memory.
type Store struct {
	mu   sync.Mutex
	rows []sheets.Snapshot
}

var _ sheets.SnapshotWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) AppendSnapshot(_ context.Context, snap sheets.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, snap)
	return nil
}

// Snapshots returns the rows appended so far, oldest first.
func (s *Store) Snapshots() []sheets.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.Snapshot(nil), s.rows...)
}
