package gen

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"path"
	"strconv"
	"strings"

	"github.com/syssam/tablegen/compiler/load"
)

// collector walks the declaration documents of a schema tree and fills the
// module tree and the entity registries of a graph.
type collector struct {
	g       *Graph
	loader  *load.Loader
	log     *slog.Logger
	modules map[string]string // module path -> declaration file
	goNames map[string]string // generated Go identifier -> declaration file
}

// work pairs a module with the declaration document still to be read.
type work struct {
	module *Module
	file   string
}

// collect reads the schema tree rooted at the declaration document root.
// Modules are visited breadth first from an explicit queue.
func (c *collector) collect(root string) error {
	if _, err := schemaBase(path.Base(root), "mod"); err != nil {
		return err
	}
	rootModule := &Module{Index: 0, Parent: -1, File: root, Dir: path.Dir(root)}
	c.g.Modules = append(c.g.Modules, rootModule)

	queue := []work{{module: rootModule, file: root}}
	for len(queue) > 0 {
		w := queue[0]
		queue = queue[1:]
		children, err := c.collectModule(w.module, w.file)
		if err != nil {
			return err
		}
		queue = append(queue, children...)
	}
	return nil
}

func (c *collector) collectModule(m *Module, file string) ([]work, error) {
	c.log.Debug("collecting module", "module", m.Name.String(), "file", file)
	decl, err := c.loader.Declaration(file)
	if err != nil {
		return nil, err
	}
	var children []work
	for _, e := range decl {
		var err error
		switch {
		case e.Mod != "":
			var child *Module
			if child, err = c.collectSubmodule(m, e.Mod); err == nil {
				children = append(children, work{module: child, file: child.File})
			}
		case e.Schema != "":
			err = c.collectTable(m, e.Table, e.Schema)
		case e.Enum != "":
			err = c.collectEnum(m, e.Enum)
		case e.Const != "":
			err = c.collectConst(m, e.Const)
		default:
			err = NewDeclarationError(m.File, "empty declaration entry", nil)
		}
		if err != nil {
			return nil, err
		}
	}
	return children, nil
}

func (c *collector) collectSubmodule(parent *Module, file string) (*Module, error) {
	base, err := schemaBase(file, "mod")
	if err != nil {
		return nil, err
	}
	m := &Module{
		Index:  len(c.g.Modules),
		Name:   parent.Name.Child(base),
		Parent: parent.Index,
		File:   path.Join(parent.Dir, file),
		Dir:    path.Join(parent.Dir, base),
	}
	key := strings.Join(m.Path(), ".")
	if prev, ok := c.modules[key]; ok {
		return nil, &CollisionError{Name: "module " + key, File: fmt.Sprintf("%s (first declared in %s)", m.File, prev)}
	}
	c.modules[key] = m.File
	c.g.Modules = append(c.g.Modules, m)
	parent.Entries = append(parent.Entries, Entry{Kind: EntryModule, Index: m.Index})
	return m, nil
}

func (c *collector) collectTable(m *Module, dataFile, schemaFile string) error {
	base, err := schemaBase(schemaFile, "table")
	if err != nil {
		return err
	}
	file := path.Join(m.Dir, schemaFile)
	if dataFile != "" {
		if strings.Contains(dataFile, "/") {
			return NewDeclarationError(dataFile, "data file must be in the module directory", nil)
		}
		dataBase, ext, ok := strings.Cut(dataFile, ".")
		if !ok || ext == "" || dataBase != base {
			return NewDeclarationError(dataFile, fmt.Sprintf("data file and schema %s must share the base name %q", schemaFile, base), nil)
		}
	}
	doc, err := c.loader.Table(file)
	if err != nil {
		return err
	}
	if err := checkDocName(file, doc.Name, base); err != nil {
		return err
	}
	abstract := doc.Kind == load.TableAbstract
	switch {
	case abstract && dataFile != "":
		return NewDeclarationError(file, "abstract table cannot have a data file", nil)
	case !abstract && dataFile == "":
		return NewDeclarationError(file, "concrete table requires a data file", nil)
	}

	t := &Table{
		Index:    len(c.g.Tables),
		Name:     m.Name.Child(base),
		Module:   m.Index,
		File:     file,
		Abstract: abstract,
		Sheet:    doc.Sheet,
		Extend:   doc.Extend,
	}
	if !abstract {
		t.Workbook = path.Join(append(m.Path(), dataFile)...)
	}
	for _, fd := range doc.Fields {
		f, err := newField(t, fd)
		if err != nil {
			return err
		}
		t.Own = append(t.Own, f)
	}
	if err := c.register(t.Name, EntryTable, t.Index, file); err != nil {
		return err
	}
	if err := c.registerDerived(file, t.Name.GoName()+"ByID", t.Name.GoName()+"All"); err != nil {
		return err
	}
	c.g.Tables = append(c.g.Tables, t)
	m.Entries = append(m.Entries, Entry{Kind: EntryTable, Index: t.Index})
	c.log.Debug("collected table", "table", t.TypeID(), "abstract", abstract)
	return nil
}

func newField(t *Table, fd *load.Field) (*Field, error) {
	f := &Field{
		Name:     fd.Name,
		Target:   fd.Target,
		Kind:     newKind(fd.FieldKind),
		Optional: fd.Optional,
		Multi:    fd.Multi,
		Owner:    t,
	}
	for _, c := range fd.Constraints {
		switch {
		case c.Unique:
			f.Unique = true
		case c.Min != nil:
			if f.Min != nil {
				return nil, NewAttributeError(t.TypeID(), f.Name, "min declared twice")
			}
			f.Min = c.Min
		case c.Max != nil:
			if f.Max != nil {
				return nil, NewAttributeError(t.TypeID(), f.Name, "max declared twice")
			}
			f.Max = c.Max
		}
	}
	return f, nil
}

func newKind(fk load.FieldKind) *Kind {
	k := &Kind{}
	switch fk.Tag {
	case load.KindScalar:
		k.Tag, k.Scalar = KindScalar, load.ScalarType(fk.Type)
	case load.KindEnum:
		k.Tag, k.Ref = KindEnum, fk.Type
	case load.KindLink:
		k.Tag, k.Ref = KindLink, fk.Type
	case load.KindTuple:
		k.Tag = KindTuple
		for _, item := range fk.Types {
			k.Items = append(k.Items, newKind(item))
		}
	}
	return k
}

func (c *collector) collectEnum(m *Module, file string) error {
	base, err := schemaBase(file, "enum")
	if err != nil {
		return err
	}
	file = path.Join(m.Dir, file)
	doc, err := c.loader.Enum(file)
	if err != nil {
		return err
	}
	if err := checkDocName(file, doc.Name, base); err != nil {
		return err
	}
	e := &Enum{
		Index:     len(c.g.Enums),
		Name:      m.Name.Child(base),
		Module:    m.Index,
		File:      file,
		Target:    doc.Target,
		Base:      doc.Base,
		Values:    doc.Enums,
		Protocol:  doc.Protocol,
		Queryable: doc.Queryable,
		GraphQL:   doc.GraphQL,
	}
	for _, a := range doc.Attributes {
		if !a.Target.Included() {
			continue
		}
		switch a.Attribute {
		case load.AttributeText:
			e.Text = true
		case load.AttributeMsgpack:
			e.Msgpack = true
		}
	}
	if err := c.register(e.Name, EntryEnum, e.Index, file); err != nil {
		return err
	}
	goName := e.Name.GoName()
	derived := []string{"Parse" + goName, goName + "Values", goName + "FromProto"}
	seen := make(map[string]bool, len(e.Values))
	for _, v := range e.Values {
		// Duplicate variants are reported by checkEnum.
		if id := goName + Pascal(v); !seen[id] {
			seen[id] = true
			derived = append(derived, id)
		}
	}
	if err := c.registerDerived(file, derived...); err != nil {
		return err
	}
	c.g.Enums = append(c.g.Enums, e)
	m.Entries = append(m.Entries, Entry{Kind: EntryEnum, Index: e.Index})
	return nil
}

func (c *collector) collectConst(m *Module, file string) error {
	base, err := schemaBase(file, "const")
	if err != nil {
		return err
	}
	file = path.Join(m.Dir, file)
	doc, err := c.loader.Const(file)
	if err != nil {
		return err
	}
	if err := checkDocName(file, doc.Name, base); err != nil {
		return err
	}
	k := &Const{
		Index:  len(c.g.Consts),
		Name:   m.Name.Child(base),
		Module: m.Index,
		File:   file,
		Target: doc.Target,
		Type:   doc.ScalarType,
	}
	if k.Value, err = constValue(doc.ScalarType, doc.Value); err != nil {
		return NewAttributeError(k.TypeID(), "value", err.Error())
	}
	if err := c.register(k.Name, EntryConst, k.Index, file); err != nil {
		return err
	}
	c.g.Consts = append(c.g.Consts, k)
	m.Entries = append(m.Entries, Entry{Kind: EntryConst, Index: k.Index})
	return nil
}

// constValue parses a constant literal and checks it fits its type.
func constValue(typ load.ScalarType, raw json.RawMessage) (any, error) {
	if typ == load.ScalarString {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return s, nil
	}
	lit := strings.TrimSpace(string(raw))
	switch {
	case typ.Signed():
		v, err := strconv.ParseInt(lit, 10, typ.Bits())
		if err != nil {
			return nil, fmt.Errorf("%s is not a valid %s", lit, typ)
		}
		return v, nil
	case typ.Unsigned():
		v, err := strconv.ParseUint(lit, 10, typ.Bits())
		if err != nil {
			return nil, fmt.Errorf("%s is not a valid %s", lit, typ)
		}
		return v, nil
	case typ.Float():
		v, err := strconv.ParseFloat(lit, typ.Bits())
		if err != nil || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%s is not a valid %s", lit, typ)
		}
		return v, nil
	}
	return nil, fmt.Errorf("unsupported constant type %s", typ)
}

// register records the type id of a new entity and fails on a collision.
func (c *collector) register(name Name, kind EntryKind, index int, file string) error {
	id := name.TypeID()
	if _, ok := c.g.types[id]; ok {
		return &CollisionError{Name: id, File: file}
	}
	if err := c.registerGo(name.GoName(), file); err != nil {
		return err
	}
	c.g.types[id] = typeEntry{kind: kind, index: index, file: file}
	return nil
}

// registerGo records an identifier of the flat generated package. Distinct
// type ids can still map to one identifier, as "item_box" in the root and
// "box" in module item do.
func (c *collector) registerGo(ident, file string) error {
	if prev, ok := c.goNames[ident]; ok {
		return &CollisionError{Name: ident, File: fmt.Sprintf("%s (first declared in %s)", file, prev)}
	}
	c.goNames[ident] = file
	return nil
}

// registerDerived records the identifiers generated alongside an entity.
func (c *collector) registerDerived(file string, idents ...string) error {
	for _, ident := range idents {
		if err := c.registerGo(ident, file); err != nil {
			return err
		}
	}
	return nil
}

// schemaBase validates a schema file name of the form <base>.<kind>.json and
// returns its base.
func schemaBase(file, kind string) (string, error) {
	if strings.Contains(file, "/") {
		return "", NewDeclarationError(file, "schema files must be in the module directory", nil)
	}
	parts := strings.Split(file, ".")
	if len(parts) != 3 || parts[1] != kind || parts[2] != "json" || !validIdent(parts[0]) {
		return "", NewDeclarationError(file, fmt.Sprintf("expected <name>.%s.json", kind), nil)
	}
	return parts[0], nil
}

func checkDocName(file, name, base string) error {
	if name != base {
		return NewDeclarationError(file, fmt.Sprintf("name %q does not match file name %q", name, base), nil)
	}
	return nil
}
