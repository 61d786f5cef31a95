// Package tablegen is the runtime support library for code generated by the
// tablegen compiler.
//
// Generated packages hold one arena per table. Loading happens in two
// phases driven by a Plan:
//
//   - Load: every concrete table parses its sheet rows into records and
//     publishes them in its write-once Arena. Tables are loaded level by
//     level, concurrently within a level. Rows of tables that extend an
//     abstract table are also inserted into the ancestors' SharedArena.
//   - Init: every concrete table resolves its Link fields against the
//     already published target arenas.
//
// A successful Dataset.Load means every arena is populated and every Link
// is resolved. Any failure aborts the whole load.
package tablegen

import (
	"strconv"

	"github.com/syssam/tablegen/tabular"
)

// DataID identifies a row within a table. It is parsed from the first
// column of every sheet.
type DataID uint32

// String returns the decimal form of the id.
func (id DataID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Record is implemented by every generated row type.
type Record interface {
	GetID() DataID
}

// Linkable looks up rows of a table by id.
type Linkable[T any] interface {
	Get(id DataID) (T, bool)
}

// Loadable is implemented by every generated concrete table.
type Loadable interface {
	// Load parses the data rows of the table's sheet and publishes them.
	Load(rows []tabular.Row) error
	// Init resolves the Link fields of the loaded rows.
	Init() error
}

// Inserter accepts rows of descendant tables into an abstract table.
type Inserter[T any] interface {
	Insert(id DataID, v T) error
}
