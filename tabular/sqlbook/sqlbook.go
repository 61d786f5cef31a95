// Package sqlbook reads workbooks stored as SQLite databases. Each sheet is a
// table; its columns are the sheet columns in declaration order and its rows
// are read in rowid order. Column names take the place of header rows.
//
// Importing the package registers it for the .db and .sqlite extensions.
package sqlbook

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/syssam/tablegen/tabular"
)

// DriverName is the database/sql driver used to open workbook files.
const DriverName = "sqlite"

func init() {
	tabular.Register(".db", tabular.SourceFunc(Open))
	tabular.Register(".sqlite", tabular.SourceFunc(Open))
}

// Book is a workbook backed by a database handle.
type Book struct {
	db    *sql.DB
	owned bool
}

// New wraps an existing database handle. Close does not close db.
func New(db *sql.DB) *Book {
	return &Book{db: db}
}

// Open opens the SQLite file at path as a workbook.
func Open(ctx context.Context, path string) (tabular.Workbook, error) {
	db, err := sql.Open(DriverName, "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("sqlbook: open %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlbook: open %s: %w", path, err)
	}
	return &Book{db: db, owned: true}, nil
}

// Sheet implements tabular.Workbook.
func (b *Book) Sheet(ctx context.Context, name string) ([]tabular.Row, error) {
	rows, err := b.db.QueryContext(ctx, "SELECT * FROM "+pq.QuoteIdentifier(name)+" ORDER BY rowid")
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return nil, fmt.Errorf("%w: %s", tabular.ErrSheetNotFound, name)
		}
		return nil, fmt.Errorf("sqlbook: query sheet %s: %w", name, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlbook: sheet %s: %w", name, err)
	}
	var (
		out    []tabular.Row
		values = make([]any, len(columns))
		dest   = make([]any, len(columns))
	)
	for i := range values {
		dest[i] = &values[i]
	}
	for n := 1; rows.Next(); n++ {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("sqlbook: sheet %s row %d: %w", name, n, err)
		}
		row := tabular.Row{Number: n, Cells: make([]tabular.Cell, len(values))}
		for i, v := range values {
			c, err := tabular.Value(v)
			if err != nil {
				return nil, fmt.Errorf("sqlbook: sheet %s row %d column %s: %w", name, n, columns[i], err)
			}
			row.Cells[i] = c
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlbook: sheet %s: %w", name, err)
	}
	return out, nil
}

// Close implements tabular.Workbook.
func (b *Book) Close() error {
	if b.owned {
		return b.db.Close()
	}
	return nil
}
