package tabular

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-memory workbook.
type Memory struct {
	mu     sync.RWMutex
	sheets map[string][]Row
	closed bool
}

// NewMemory returns an empty in-memory workbook.
func NewMemory() *Memory {
	return &Memory{sheets: make(map[string][]Row)}
}

// AddSheet adds a sheet holding the given data rows. Row numbers start after
// the header rows, matching what a file-backed source reports.
func (m *Memory) AddSheet(name string, rows ...[]Cell) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Row, len(rows))
	for i, cells := range rows {
		out[i] = Row{Number: HeaderRows + i + 1, Cells: cells}
	}
	m.sheets[name] = out
	return m
}

// AddValues adds a sheet from plain Go values converted with Value.
func (m *Memory) AddValues(name string, rows ...[]any) (*Memory, error) {
	cells := make([][]Cell, len(rows))
	for i, row := range rows {
		cells[i] = make([]Cell, len(row))
		for j, v := range row {
			c, err := Value(v)
			if err != nil {
				return nil, fmt.Errorf("sheet %s row %d column %d: %w", name, i, j, err)
			}
			cells[i][j] = c
		}
	}
	return m.AddSheet(name, cells...), nil
}

// Sheet implements Workbook.
func (m *Memory) Sheet(_ context.Context, name string) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows, ok := m.sheets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	return rows, nil
}

// Close implements Workbook.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// MemorySource serves in-memory workbooks keyed by path.
type MemorySource map[string]*Memory

// Open implements Source.
func (s MemorySource) Open(_ context.Context, path string) (Workbook, error) {
	wb, ok := s[path]
	if !ok {
		return nil, fmt.Errorf("tabular: no workbook at %s", path)
	}
	return wb, nil
}
