// Package load reads tablegen schema documents.
//
// Every document is JSON. It is first checked against the embedded CUE
// definitions in schema.cue, which report shape errors with a path into the
// document, and then decoded into the types of this package.
package load

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed schema.cue
var schemaSource []byte

// Definitions in schema.cue.
const (
	defDeclaration = "#Declaration"
	defTable       = "#Table"
	defEnum        = "#Enum"
	defConst       = "#Const"
)

// Loader reads schema documents from a file system. It is safe for
// concurrent use.
type Loader struct {
	fsys fs.FS

	mu     sync.Mutex
	ctx    *cue.Context
	schema cue.Value
}

// New returns a Loader reading from fsys.
func New(fsys fs.FS) (*Loader, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("load: compile schema: %w", err)
	}
	return &Loader{fsys: fsys, ctx: ctx, schema: schema}, nil
}

// Declaration reads the declaration document at path.
func (l *Loader) Declaration(path string) (Declaration, error) {
	var d Declaration
	if err := l.decode(path, defDeclaration, &d); err != nil {
		return nil, err
	}
	return d, nil
}

// Table reads the table schema document at path.
func (l *Loader) Table(path string) (*Table, error) {
	t := &Table{}
	if err := l.decode(path, defTable, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Enum reads the enumeration schema document at path.
func (l *Loader) Enum(path string) (*Enum, error) {
	e := &Enum{}
	if err := l.decode(path, defEnum, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Const reads the constant schema document at path.
func (l *Loader) Const(path string) (*Const, error) {
	c := &Const{}
	if err := l.decode(path, defConst, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (l *Loader) decode(path, def string, v any) error {
	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		return &DocumentError{File: path, Err: err}
	}
	if err := l.validate(path, def, data); err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &DocumentError{File: path, Err: err}
	}
	return nil
}

func (l *Loader) validate(path, def string, data []byte) error {
	expr, err := cuejson.Extract(path, data)
	if err != nil {
		return &DocumentError{File: path, Err: err}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	root, err := l.definition(def)
	if err != nil {
		return err
	}
	doc := l.ctx.BuildExpr(expr, cue.Filename(path))
	if err := doc.Err(); err != nil {
		return formatError(path, err)
	}
	if err := root.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return formatError(path, err)
	}
	return nil
}

// definition looks up def in the embedded schema. Definitions holding
// comprehensions over open disjunctions are incomplete until unified with a
// document, so only their presence is checked here.
func (l *Loader) definition(def string) (cue.Value, error) {
	v := l.schema.LookupPath(cue.ParsePath(def))
	if !v.Exists() {
		return cue.Value{}, fmt.Errorf("load: schema definition %s not found", def)
	}
	return v, nil
}

// DocumentError reports a schema document that could not be read or does not
// match its definition.
type DocumentError struct {
	File string
	// Paths holds one entry per CUE error, as "path: message".
	Paths []string
	Err   error
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	var b strings.Builder
	b.WriteString("load: ")
	b.WriteString(e.File)
	switch {
	case len(e.Paths) == 1:
		b.WriteString(": ")
		b.WriteString(e.Paths[0])
	case len(e.Paths) > 1:
		b.WriteString(": invalid document:\n  ")
		b.WriteString(strings.Join(e.Paths, "\n  "))
	case e.Err != nil:
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *DocumentError) Unwrap() error {
	return e.Err
}

func formatError(file string, err error) error {
	de := &DocumentError{File: file, Err: err}
	for _, e := range cueerrors.Errors(err) {
		msg := e.Error()
		path := formatPath(cueerrors.Path(e))
		if path == "" {
			de.Paths = append(de.Paths, msg)
			continue
		}
		msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
		de.Paths = append(de.Paths, path+": "+msg)
	}
	return de
}

// formatPath renders a CUE path as "fields[0].name".
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		if isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
