// Package yamlbook reads workbooks stored as YAML documents.
//
// The document is a mapping of sheet names to row lists. The first
// tabular.HeaderRows rows of each sheet are headers:
//
//	Weapon:
//	  - [id, name, weight]
//	  - [DataID, Name, Weight]
//	  - [1, Sword, 10]
//	  - [2, Axe, 14]
//
// Importing the package registers it for the .yaml and .yml extensions.
package yamlbook

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/tablegen/tabular"
)

func init() {
	tabular.Register(".yaml", Source{})
	tabular.Register(".yml", Source{})
}

// Source opens YAML workbooks from the file system.
type Source struct {
	// Header overrides the number of header rows. Zero means tabular.HeaderRows.
	Header int
}

// Open implements tabular.Source.
func (s Source) Open(_ context.Context, path string) (tabular.Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("yamlbook: %w", err)
	}
	b, err := Parse(data, s.Header)
	if err != nil {
		return nil, fmt.Errorf("yamlbook: %s: %w", path, err)
	}
	return b, nil
}

// Book is a decoded YAML workbook.
type Book struct {
	header int
	sheets map[string][][]any
}

// Parse decodes a YAML workbook. A header of zero means tabular.HeaderRows.
func Parse(data []byte, header int) (*Book, error) {
	if header == 0 {
		header = tabular.HeaderRows
	}
	sheets := make(map[string][][]any)
	if err := yaml.Unmarshal(data, &sheets); err != nil {
		return nil, err
	}
	return &Book{header: header, sheets: sheets}, nil
}

// Sheets returns the number of sheets in the workbook.
func (b *Book) Sheets() int { return len(b.sheets) }

// Sheet implements tabular.Workbook.
func (b *Book) Sheet(_ context.Context, name string) ([]tabular.Row, error) {
	raw, ok := b.sheets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", tabular.ErrSheetNotFound, name)
	}
	rows := make([]tabular.Row, 0, len(raw))
	for i, values := range raw {
		row := tabular.Row{Number: i + 1, Cells: make([]tabular.Cell, len(values))}
		for j, v := range values {
			c, err := tabular.Value(v)
			if err != nil {
				return nil, fmt.Errorf("sheet %s row %d column %d: %w", name, i+1, j+1, err)
			}
			row.Cells[j] = c
		}
		rows = append(rows, row)
	}
	return tabular.Body(rows, b.header), nil
}

// Close implements tabular.Workbook.
func (b *Book) Close() error { return nil }
