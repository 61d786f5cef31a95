// Package golang renders the Go package of a schema graph for the Jennifer
// generator.
//
// Usage:
//
//	import (
//	    "github.com/syssam/tablegen/compiler/gen"
//	    "github.com/syssam/tablegen/compiler/gen/golang"
//	)
//
//	generator := gen.NewJenniferGenerator(graph)
//	generator.WithPrinter(golang.NewPrinter(generator))
//	generator.Generate(ctx)
//
// Generated code structure:
//
//	{output}/
//	├── load.go                # LoadAll, Ready and the load plan
//	├── const.go               # constants of the root module
//	├── {module}.const.go      # constants of module {module}
//	├── {entity}.gen.go        # one file per table and enumeration
//	└── {module}/
//	    └── {module}.go        # aliases of the module's entities
package golang

import (
	"unicode"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/tablegen/compiler/gen"
)

// Printer implements gen.GoPrinter.
type Printer struct {
	helper gen.GeneratorHelper
}

// NewPrinter creates a new Go printer.
// The helper parameter should be a *gen.JenniferGenerator.
func NewPrinter(helper gen.GeneratorHelper) *Printer {
	return &Printer{helper: helper}
}

// Name returns the printer name.
func (p *Printer) Name() string {
	return "golang"
}

// GenTable generates the file of a table ({entity}.gen.go).
// Includes: record type, arena, accessors and, for concrete tables, the
// loader.
func (p *Printer) GenTable(t *gen.Table) *jen.File {
	return genTable(p.helper, t)
}

// GenEnum generates the file of an enumeration ({entity}.gen.go).
func (p *Printer) GenEnum(e *gen.Enum) *jen.File {
	return genEnum(p.helper, e)
}

// GenConsts generates the constants of a module. Modules without generated
// constants have no file.
func (p *Printer) GenConsts(m *gen.Module) *jen.File {
	return genConsts(p.helper, m)
}

// GenModule generates the aggregator package of a module.
func (p *Printer) GenModule(m *gen.Module) *jen.File {
	return genModule(p.helper, m)
}

// GenLoad generates the load orchestration (load.go).
func (p *Printer) GenLoad() *jen.File {
	return genLoad(p.helper)
}

var _ gen.GoPrinter = (*Printer)(nil)

// unexported returns the unexported form of an exported Go identifier:
// "ItemWeapon" becomes "itemWeapon", "IDCard" becomes "idCard".
func unexported(s string) string {
	r := []rune(s)
	for i := range r {
		if !unicode.IsUpper(r[i]) {
			break
		}
		if i > 0 && i+1 < len(r) && unicode.IsLower(r[i+1]) {
			break
		}
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}

func arenaVar(t *gen.Table) string {
	return unexported(t.Name.GoName()) + "Arena"
}

func tableType(t *gen.Table) string {
	return unexported(t.Name.GoName()) + "Table"
}

func workbookConst(t *gen.Table) string {
	return unexported(t.Name.GoName()) + "Workbook"
}

func sheetConst(t *gen.Table) string {
	return unexported(t.Name.GoName()) + "Sheet"
}

func marker(t *gen.Table) string {
	return "is" + t.Name.GoName()
}

// notReady returns the statement guarding accessors until LoadAll succeeds.
func notReady(ret ...jen.Code) jen.Code {
	return jen.If(jen.Op("!").Id("dataset").Dot("Ready").Call()).Block(jen.Return(ret...))
}
