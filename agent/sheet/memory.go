package sheet

import (
	"context"
	"fmt"
	"sync"
)

var _ TableStore = (*MemoryTable)(nil)

// MemoryTable is an in-process TableStore.
type MemoryTable struct {
	mu   sync.RWMutex
	rows [][]string
}

// NewMemoryTable copies rows; pass the header row first.
func NewMemoryTable(rows ...[]string) *MemoryTable {
	t := &MemoryTable{rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		t.rows = append(t.rows, append([]string(nil), r...))
	}
	return t
}

func (t *MemoryTable) GetRange(_ context.Context, rng Range) ([][]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([][]string, 0, len(t.rows))
	for i, row := range t.rows {
		if !rng.hasRow(i) {
			continue
		}
		out = append(out, sliceColumns(row, rng.FirstCol, rng.LastCol))
	}
	return out, nil
}

func (t *MemoryTable) AppendRow(_ context.Context, values []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rows = append(t.rows, append([]string(nil), values...))
	return nil
}

func (t *MemoryTable) UpdateRow(_ context.Context, rowIndex int, values []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if rowIndex < 0 || rowIndex >= len(t.rows) {
		return fmt.Errorf("%w: %d", ErrRowNotFound, rowIndex)
	}
	t.rows[rowIndex] = append([]string(nil), values...)
	return nil
}

func (t *MemoryTable) DeleteRow(_ context.Context, rowIndex int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if rowIndex < 0 || rowIndex >= len(t.rows) {
		return fmt.Errorf("%w: %d", ErrRowNotFound, rowIndex)
	}
	t.rows = append(t.rows[:rowIndex], t.rows[rowIndex+1:]...)
	return nil
}

// Len reports the number of rows including the header.
func (t *MemoryTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
