// Package graphql renders GraphQL enum definitions for enumerations flagged
// graphql, for services exposing game data over a GraphQL API.
package graphql

import (
	"bytes"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/tablegen/compiler/gen"
)

// Printer implements gen.ArtifactPrinter.
type Printer struct{}

// NewPrinter returns a GraphQL printer.
func NewPrinter() *Printer {
	return &Printer{}
}

// Name implements gen.ArtifactPrinter.
func (*Printer) Name() string {
	return "graphql"
}

// Artifacts returns a single schema file holding one enum definition per
// generated enumeration flagged graphql.
func (p *Printer) Artifacts(g *gen.Graph) ([]gen.Artifact, error) {
	if g.GraphQL == nil {
		return nil, nil
	}
	upper := cases.Upper(language.Und)
	doc := &ast.SchemaDocument{}
	for _, e := range g.GeneratedEnums() {
		if e.GraphQL {
			doc.Definitions = append(doc.Definitions, Definition(e, upper))
		}
	}
	if len(doc.Definitions) == 0 {
		return nil, nil
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", g.HeaderComment())
	formatter.NewFormatter(&buf, formatter.WithIndent("  ")).FormatSchemaDocument(doc)
	if err := verify(g.GraphQL.File, buf.String(), doc); err != nil {
		return nil, gen.NewGenerationError(p.Name(), g.GraphQL.File, "verify", err)
	}
	return []gen.Artifact{{Path: g.GraphQL.File, Data: buf.Bytes()}}, nil
}

// Definition returns the GraphQL enum definition of e. Values are the
// upper snake case variant names.
func Definition(e *gen.Enum, upper cases.Caser) *ast.Definition {
	def := &ast.Definition{
		Kind:        ast.Enum,
		Name:        e.Name.GoName(),
		Description: "Generated from " + e.TypeID() + ".",
	}
	for _, v := range e.Values {
		def.EnumValues = append(def.EnumValues, &ast.EnumValueDefinition{
			Name: upper.String(gen.Snake(v)),
		})
	}
	return def
}

// verify parses the rendered schema back and checks every definition of
// doc survived with its values.
func verify(name, input string, doc *ast.SchemaDocument) error {
	parsed, err := parser.ParseSchema(&ast.Source{Name: name, Input: input})
	if err != nil {
		return err
	}
	if len(parsed.Definitions) != len(doc.Definitions) {
		return fmt.Errorf("expect %d definitions, got %d", len(doc.Definitions), len(parsed.Definitions))
	}
	for _, want := range doc.Definitions {
		got := parsed.Definitions.ForName(want.Name)
		if got == nil || got.Kind != ast.Enum {
			return fmt.Errorf("missing enum %s", want.Name)
		}
		if len(got.EnumValues) != len(want.EnumValues) {
			return fmt.Errorf("enum %s: expect %d values, got %d", want.Name, len(want.EnumValues), len(got.EnumValues))
		}
		for i, v := range want.EnumValues {
			if got.EnumValues[i].Name != v.Name {
				return fmt.Errorf("enum %s: expect value %s at %d, got %s", want.Name, v.Name, i, got.EnumValues[i].Name)
			}
		}
	}
	return nil
}
