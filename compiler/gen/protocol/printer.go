// Package protocol renders proto3 enum fragments for enumerations flagged
// protocol. Each fragment keeps the discriminants of the generated Go enum,
// so ToProto and FromProto are plain conversions.
package protocol

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/emicklei/proto"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/tablegen/compiler/gen"
)

var fragment = template.Must(template.New("proto").Parse(`// {{ .Header }}
// Source: {{ .Source }}

syntax = "proto3";

package {{ .Package }};

enum {{ .Name }} {
{{- range .Values }}
  {{ .Name }} = {{ .Number }};
{{- end }}
}
`))

type (
	enumView struct {
		Header  string
		Source  string
		Package string
		Name    string
		Values  []valueView
	}
	valueView struct {
		Name   string
		Number int
	}
)

// Printer implements gen.ArtifactPrinter.
type Printer struct{}

// NewPrinter returns a protocol printer.
func NewPrinter() *Printer {
	return &Printer{}
}

// Name implements gen.ArtifactPrinter.
func (*Printer) Name() string {
	return "protocol"
}

// Artifacts returns one .gen.proto file per generated enumeration flagged
// protocol. It returns nothing when protocol output is not configured.
func (p *Printer) Artifacts(g *gen.Graph) ([]gen.Artifact, error) {
	if g.Protocol == nil {
		return nil, nil
	}
	upper := cases.Upper(language.Und)
	var out []gen.Artifact
	for _, e := range g.GeneratedEnums() {
		if !e.Protocol {
			continue
		}
		name := FileName(e)
		data, err := render(g, e, upper)
		if err != nil {
			return nil, gen.NewGenerationError(p.Name(), name, "render", err)
		}
		if err := verify(data, g.Protocol.Package, e); err != nil {
			return nil, gen.NewGenerationError(p.Name(), name, "verify", err)
		}
		out = append(out, gen.Artifact{Path: filepath.Join(g.Protocol.Dir, name), Data: data})
	}
	return out, nil
}

// FileName returns the fragment file name of e: "character_race.gen.proto".
func FileName(e *gen.Enum) string {
	return strings.TrimSuffix(gen.FileName(e.Name), ".go") + ".proto"
}

// ValueName returns the proto value name of variant v of e. Values are
// prefixed by the enum name since proto3 enum values share the package
// scope: CHARACTER_RACE_HUMAN.
func ValueName(e *gen.Enum, v string, upper cases.Caser) string {
	return upper.String(gen.Snake(e.Name.GoName()) + "_" + gen.Snake(v))
}

func render(g *gen.Graph, e *gen.Enum, upper cases.Caser) ([]byte, error) {
	view := enumView{
		Header:  g.HeaderComment(),
		Source:  e.TypeID(),
		Package: g.Protocol.Package,
		Name:    e.Name.GoName(),
	}
	for i, v := range e.Values {
		view.Values = append(view.Values, valueView{Name: ValueName(e, v, upper), Number: i})
	}
	var buf bytes.Buffer
	if err := fragment.Execute(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// verify parses a rendered fragment back and checks it declares e under
// pkg with the expected discriminants.
func verify(data []byte, pkg string, e *gen.Enum) error {
	def, err := proto.NewParser(bytes.NewReader(data)).Parse()
	if err != nil {
		return err
	}
	var (
		pkgs  []string
		enums []*proto.Enum
	)
	proto.Walk(def,
		proto.WithPackage(func(p *proto.Package) { pkgs = append(pkgs, p.Name) }),
		proto.WithEnum(func(e *proto.Enum) { enums = append(enums, e) }),
	)
	if len(pkgs) != 1 || pkgs[0] != pkg {
		return fmt.Errorf("expect package %s, got %v", pkg, pkgs)
	}
	if len(enums) != 1 || enums[0].Name != e.Name.GoName() {
		return fmt.Errorf("expect a single enum %s", e.Name.GoName())
	}
	var n int
	for _, el := range enums[0].Elements {
		f, ok := el.(*proto.EnumField)
		if !ok {
			continue
		}
		if f.Integer != n {
			return fmt.Errorf("value %s: expect %d, got %d", f.Name, n, f.Integer)
		}
		n++
	}
	if n != len(e.Values) {
		return fmt.Errorf("expect %d values, got %d", len(e.Values), n)
	}
	return nil
}
