package gen

import (
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/syssam/tablegen/compiler/load"
)

// The following types make up the resolved model handed to printers. They
// are built once by NewGraph and never modified afterwards.
type (
	// Graph holds every collected module and entity. Entities are
	// index-addressed; an index is assigned when the entity is collected and
	// stays stable for the lifetime of the graph.
	Graph struct {
		*Config
		// Modules holds the module tree. Modules[0] is the root module.
		Modules []*Module
		Tables  []*Table
		Enums   []*Enum
		Consts  []*Const
		// Hierarchy maps a table index to the indices of the tables that
		// directly extend it. Tables without children have no entry.
		Hierarchy map[int][]int
		// Levels holds every table by dependency level. A table only links to
		// tables of earlier levels. Tables are sorted by type id within a
		// level.
		Levels [][]*Table

		types map[string]typeEntry
		log   *slog.Logger
	}

	// Module is a node of the namespace tree.
	Module struct {
		Index int
		Name  Name
		// Parent is the index of the enclosing module, -1 for the root.
		Parent int
		// File is the path of the module's declaration document.
		File string
		// Dir is the directory the module's entries resolve in.
		Dir     string
		Entries []Entry
	}

	// Entry references a module child by kind and index.
	Entry struct {
		Kind  EntryKind
		Index int
	}

	// Table is a table schema.
	Table struct {
		Index  int
		Name   Name
		Module int
		File   string
		// Abstract tables have no data of their own. Their rows are the rows
		// of their concrete descendants.
		Abstract bool
		// Workbook is the slash separated path of the table's workbook
		// relative to the data root. Empty for abstract tables.
		Workbook string
		Sheet    string
		// Extend is the parent type id as written in the schema.
		Extend   string
		Parent   *Table
		Children []*Table
		// Own holds the fields declared by this table.
		Own []*Field
		// Fields holds the effective fields: the fields of every ancestor,
		// root first, followed by Own.
		Fields []*Field
	}

	// Field is a table column.
	Field struct {
		Name     string
		Target   load.Target
		Kind     *Kind
		Optional bool
		Multi    bool
		Unique   bool
		Min, Max *int64
		// Owner is the table declaring the field.
		Owner *Table
		// Column is the position of the field in the rows of every table
		// inheriting it.
		Column int
	}

	// Kind is the value type of a field or tuple component.
	Kind struct {
		Tag    KindTag
		Scalar load.ScalarType
		// Ref is the referenced type id of enum and link kinds.
		Ref   string
		Enum  *Enum
		Link  *Table
		Items []*Kind
	}

	// Enum is an enumeration schema.
	Enum struct {
		Index  int
		Name   Name
		Module int
		File   string
		Target load.Target
		// Base is the unsigned integer type holding the discriminant.
		Base load.ScalarType
		// Values holds the variant names. A variant's discriminant is its
		// position.
		Values    []string
		Protocol  bool
		Queryable bool
		GraphQL   bool
		Text      bool
		Msgpack   bool
	}

	// Const is a constant schema.
	Const struct {
		Index  int
		Name   Name
		Module int
		File   string
		Target load.Target
		Type   load.ScalarType
		// Value is an int64, uint64, float64 or string matching Type.
		Value any
	}
)

// EntryKind discriminates module entries.
type EntryKind uint8

// Entry kinds.
const (
	EntryModule EntryKind = iota
	EntryTable
	EntryEnum
	EntryConst
)

// String implements fmt.Stringer.
func (k EntryKind) String() string {
	switch k {
	case EntryModule:
		return "module"
	case EntryTable:
		return "table"
	case EntryEnum:
		return "enum"
	case EntryConst:
		return "const"
	}
	return fmt.Sprintf("EntryKind(%d)", k)
}

// KindTag discriminates field kinds.
type KindTag uint8

// Field kinds.
const (
	KindScalar KindTag = iota
	KindEnum
	KindLink
	KindTuple
)

type typeEntry struct {
	kind  EntryKind
	index int
	file  string
}

// Root returns the root module.
func (g *Graph) Root() *Module {
	return g.Modules[0]
}

// Table returns the table with the given type id.
func (g *Graph) Table(typeID string) (*Table, bool) {
	e, ok := g.types[typeID]
	if !ok || e.kind != EntryTable {
		return nil, false
	}
	return g.Tables[e.index], true
}

// Enum returns the enumeration with the given type id.
func (g *Graph) Enum(typeID string) (*Enum, bool) {
	e, ok := g.types[typeID]
	if !ok || e.kind != EntryEnum {
		return nil, false
	}
	return g.Enums[e.index], true
}

// Concrete returns the concrete tables in index order.
func (g *Graph) Concrete() []*Table {
	var tables []*Table
	for _, t := range g.Tables {
		if !t.Abstract {
			tables = append(tables, t)
		}
	}
	return tables
}

// Abstract returns the abstract tables in index order.
func (g *Graph) Abstract() []*Table {
	var tables []*Table
	for _, t := range g.Tables {
		if t.Abstract {
			tables = append(tables, t)
		}
	}
	return tables
}

// LoadLevels returns the concrete tables by dependency level, dropping
// levels made of abstract tables only.
func (g *Graph) LoadLevels() [][]*Table {
	var levels [][]*Table
	for _, level := range g.Levels {
		var tables []*Table
		for _, t := range level {
			if !t.Abstract {
				tables = append(tables, t)
			}
		}
		if len(tables) > 0 {
			levels = append(levels, tables)
		}
	}
	return levels
}

// GeneratedEnums returns the enumerations generated for the server target.
func (g *Graph) GeneratedEnums() []*Enum {
	var enums []*Enum
	for _, e := range g.Enums {
		if e.Target.Included() {
			enums = append(enums, e)
		}
	}
	return enums
}

// GeneratedConsts returns the constants generated for the server target.
func (g *Graph) GeneratedConsts() []*Const {
	var consts []*Const
	for _, c := range g.Consts {
		if c.Target.Included() {
			consts = append(consts, c)
		}
	}
	return consts
}

// Path returns the namespace of the module's entities.
func (m *Module) Path() []string {
	return m.Name.Path()
}

// IsRoot reports whether m is the root module.
func (m *Module) IsRoot() bool {
	return m.Parent < 0
}

// PackageDir returns the slash separated directory of the module's
// aggregator package, relative to the generated package.
func (m *Module) PackageDir() string {
	return path.Join(m.Path()...)
}

// PackageName returns the Go package name of the module's aggregator.
func (m *Module) PackageName() string {
	return strings.ToLower(strings.ReplaceAll(m.Name.Local, "_", ""))
}

// TypeID returns the qualified type id of the table.
func (t *Table) TypeID() string {
	return t.Name.TypeID()
}

// String implements fmt.Stringer.
func (t *Table) String() string {
	return t.TypeID()
}

// Ancestors returns the tables t extends, nearest first.
func (t *Table) Ancestors() []*Table {
	var ancestors []*Table
	for p := t.Parent; p != nil; p = p.Parent {
		ancestors = append(ancestors, p)
	}
	return ancestors
}

// Descendants returns every table extending t directly or indirectly, in
// depth first order.
func (t *Table) Descendants() []*Table {
	var out []*Table
	stack := slices.Clone(t.Children)
	slices.Reverse(stack)
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, c)
		for i := len(c.Children) - 1; i >= 0; i-- {
			stack = append(stack, c.Children[i])
		}
	}
	return out
}

// ID returns the identifier field, the first effective field.
func (t *Table) ID() *Field {
	if len(t.Fields) == 0 {
		return nil
	}
	return t.Fields[0]
}

// GeneratedFields returns the effective fields generated for the server
// target.
func (t *Table) GeneratedFields() []*Field {
	var fields []*Field
	for _, f := range t.Fields {
		if f.Generated() {
			fields = append(fields, f)
		}
	}
	return fields
}

// HasLinks reports whether any generated field holds a link.
func (t *Table) HasLinks() bool {
	for _, f := range t.GeneratedFields() {
		if len(f.Kind.Links()) > 0 {
			return true
		}
	}
	return false
}

// Dependencies returns the distinct tables t links to through any of its
// effective fields, in index order. A link from t to itself is not a
// dependency: it resolves in t's own init step.
func (t *Table) Dependencies() []*Table {
	seen := make(map[int]bool)
	var deps []*Table
	for _, f := range t.Fields {
		for _, l := range f.Kind.Links() {
			if l == t || seen[l.Index] {
				continue
			}
			seen[l.Index] = true
			deps = append(deps, l)
		}
	}
	slices.SortFunc(deps, func(a, b *Table) int { return a.Index - b.Index })
	return deps
}

// Generated reports whether the field is generated for the server target.
// Fields that are not generated still occupy their column.
func (f *Field) Generated() bool {
	return f.Target.Included()
}

// GoName returns the exported Go name of the field.
func (f *Field) GoName() string {
	return Pascal(f.Name)
}

// Getter returns the name of the accessor abstract tables expose for the
// field, or "" if the field has none. Only generated fields declared by
// abstract tables have accessors; the identifier is covered by GetID.
func (f *Field) Getter() string {
	if !f.Owner.Abstract || !f.Generated() || f.GoName() == "ID" {
		return ""
	}
	return "Get" + f.GoName()
}

// HasConstraints reports whether the field carries any constraint.
func (f *Field) HasConstraints() bool {
	return f.Unique || f.Min != nil || f.Max != nil
}

// String returns a readable form of the kind: "uint16", "link item.Weapon",
// "(enum character.Race, int32)".
func (k *Kind) String() string {
	switch k.Tag {
	case KindScalar:
		return string(k.Scalar)
	case KindEnum:
		return "enum " + k.Ref
	case KindLink:
		return "link " + k.Ref
	}
	items := make([]string, len(k.Items))
	for i, item := range k.Items {
		items[i] = item.String()
	}
	return "(" + strings.Join(items, ", ") + ")"
}

// Links returns the tables the kind links to, descending one level into
// tuples.
func (k *Kind) Links() []*Table {
	switch k.Tag {
	case KindLink:
		if k.Link != nil {
			return []*Table{k.Link}
		}
	case KindTuple:
		var links []*Table
		for _, item := range k.Items {
			if item.Tag == KindLink && item.Link != nil {
				links = append(links, item.Link)
			}
		}
		return links
	}
	return nil
}

// TypeID returns the qualified type id of the enumeration.
func (e *Enum) TypeID() string {
	return e.Name.TypeID()
}

// TypeID returns the qualified type id of the constant.
func (c *Const) TypeID() string {
	return c.Name.TypeID()
}
