// Package tabular defines the workbook contract data tables are loaded from.
//
// A Workbook is a set of named sheets. Each sheet yields ordered rows of
// typed cells. Concrete formats live in sub-packages and register themselves
// by file extension, the same way database/sql drivers do:
//
//	import _ "github.com/syssam/tablegen/tabular/yamlbook"
//
//	wb, err := tabular.Open(ctx, "data/item/weapon.yaml")
package tabular

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// HeaderRows is the number of leading rows of a sheet that hold column
// headers rather than data.
const HeaderRows = 2

var (
	// ErrSheetNotFound is returned when a workbook has no sheet with the requested name.
	ErrSheetNotFound = errors.New("tabular: sheet not found")
	// ErrUnsupportedFormat is returned when no source is registered for a file extension.
	ErrUnsupportedFormat = errors.New("tabular: unsupported workbook format")
)

// Row is one data row of a sheet.
type Row struct {
	// Number is the 1-based position of the row in its sheet, header rows included.
	Number int
	Cells  []Cell
}

// Len returns the number of cells in the row.
func (r Row) Len() int { return len(r.Cells) }

// Workbook is an opened tabular file.
type Workbook interface {
	// Sheet returns the data rows of the named sheet, header rows excluded.
	Sheet(ctx context.Context, name string) ([]Row, error)
	// Close releases the resources held by the workbook.
	Close() error
}

// Source opens workbooks by path.
type Source interface {
	Open(ctx context.Context, path string) (Workbook, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, path string) (Workbook, error)

// Open calls f(ctx, path).
func (f SourceFunc) Open(ctx context.Context, path string) (Workbook, error) {
	return f(ctx, path)
}

var (
	sourcesMu sync.RWMutex
	sources   = make(map[string]Source)
)

// Register makes a source available for files with the given extension.
// It panics if called twice for the same extension or if src is nil.
func Register(ext string, src Source) {
	sourcesMu.Lock()
	defer sourcesMu.Unlock()
	if src == nil {
		panic("tabular: Register source is nil")
	}
	ext = normalizeExt(ext)
	if _, dup := sources[ext]; dup {
		panic("tabular: Register called twice for extension " + ext)
	}
	sources[ext] = src
}

// Extensions returns the sorted list of registered file extensions.
func Extensions() []string {
	sourcesMu.RLock()
	defer sourcesMu.RUnlock()
	exts := make([]string, 0, len(sources))
	for ext := range sources {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Open opens the workbook at path with the source registered for its extension.
func Open(ctx context.Context, path string) (Workbook, error) {
	ext := normalizeExt(filepath.Ext(path))
	sourcesMu.RLock()
	src, ok := sources[ext]
	sourcesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (%s)", ErrUnsupportedFormat, ext, path)
	}
	return src.Open(ctx, path)
}

// Default dispatches to the registered sources by file extension.
var Default Source = SourceFunc(Open)

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Body drops the first header rows of rows. It is used by sources whose
// format stores header rows inline with the data.
func Body(rows []Row, header int) []Row {
	if header >= len(rows) {
		return nil
	}
	if header < 0 {
		header = 0
	}
	return rows[header:]
}
