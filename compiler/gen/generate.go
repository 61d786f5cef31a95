package gen

import (
	"context"
	"log/slog"
	"path"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/tablegen/compiler/load"
)

// RuntimePkg is the import path of the runtime support library.
const RuntimePkg = "github.com/syssam/tablegen"

// TabularPkg is the import path of the tabular source contract.
const TabularPkg = "github.com/syssam/tablegen/tabular"

// JenniferGenerator renders a graph with a GoPrinter and any number of
// ArtifactPrinters.
//
// Every file is rendered in memory first, concurrently. Files are written only
// once all of them rendered successfully, so a failed run leaves the output
// untouched.
//
// Example:
//
//	import "github.com/syssam/tablegen/compiler/gen/golang"
//
//	g := gen.NewJenniferGenerator(graph)
//	g.WithPrinter(golang.NewPrinter(g))
//	err := g.Generate(ctx)
type JenniferGenerator struct {
	graph     *Graph
	workers   int
	outDir    string
	pkg       string
	pkgPath   string
	printer   GoPrinter
	artifacts []ArtifactPrinter
	log       *slog.Logger

	mu    sync.Mutex
	files []output
}

// NewJenniferGenerator creates a generator writing the Go package of g to
// the configured target directory.
func NewJenniferGenerator(g *Graph) *JenniferGenerator {
	workers := g.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	log := g.log
	if log == nil {
		log = g.Log()
	}
	return &JenniferGenerator{
		graph:   g,
		workers: workers,
		outDir:  g.Target,
		pkg:     packageName(g.Package),
		pkgPath: g.Package,
		log:     log,
	}
}

// WithWorkers sets the number of files rendered at once.
func (g *JenniferGenerator) WithWorkers(n int) *JenniferGenerator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// WithPackage overrides the name of the generated package.
func (g *JenniferGenerator) WithPackage(pkg string) *JenniferGenerator {
	if pkg != "" {
		g.pkg = pkg
	}
	return g
}

// WithPrinter sets the printer of the Go package.
func (g *JenniferGenerator) WithPrinter(p GoPrinter) *JenniferGenerator {
	if p != nil {
		g.printer = p
	}
	return g
}

// WithArtifacts adds printers of non-Go artifacts.
func (g *JenniferGenerator) WithArtifacts(printers ...ArtifactPrinter) *JenniferGenerator {
	for _, p := range printers {
		if p != nil {
			g.artifacts = append(g.artifacts, p)
		}
	}
	return g
}

// Generate renders every file and writes them.
func (g *JenniferGenerator) Generate(ctx context.Context) error {
	if g.printer == nil {
		return NewConfigError("Printer", nil, "no printer set: call WithPrinter() before Generate()")
	}
	if err := g.graph.Validate(); err != nil {
		return err
	}
	start := time.Now()
	g.files = g.files[:0]

	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.workers)

	goFile := func(dir, name string, gen func() *jen.File) {
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return g.renderGo(path.Join(dir, name), gen)
		})
	}
	for _, t := range g.graph.Tables {
		goFile("", FileName(t.Name), func() *jen.File { return g.printer.GenTable(t) })
	}
	for _, e := range g.graph.GeneratedEnums() {
		goFile("", FileName(e.Name), func() *jen.File { return g.printer.GenEnum(e) })
	}
	for _, m := range g.graph.Modules {
		if !m.IsRoot() {
			goFile(m.PackageDir(), m.PackageName()+".go", func() *jen.File { return g.printer.GenModule(m) })
		}
		name := "const.go"
		if !m.IsRoot() {
			name = strings.Join(m.Path(), "_") + ".const.go"
		}
		goFile("", name, func() *jen.File { return g.printer.GenConsts(m) })
	}
	goFile("", "load.go", g.printer.GenLoad)

	for _, p := range g.artifacts {
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			artifacts, err := p.Artifacts(g.graph)
			if err != nil {
				return NewGenerationError(p.Name(), "", "render artifacts", err)
			}
			g.mu.Lock()
			defer g.mu.Unlock()
			for _, a := range artifacts {
				g.files = append(g.files, output{path: a.Path, data: a.Data})
			}
			return nil
		})
	}

	if err := errg.Wait(); err != nil {
		return err
	}
	n, err := writeAll(g.files)
	if err != nil {
		return err
	}
	g.log.Info("generated",
		"printer", g.printer.Name(),
		"files", len(g.files),
		"bytes", n,
		"took", time.Since(start))
	return nil
}

// =============================================================================
// GeneratorHelper interface implementation
// =============================================================================

// NewFile creates a new Jennifer file with the configured header comment.
func (g *JenniferGenerator) NewFile(pkg string) *jen.File {
	var f *jen.File
	if pkg == g.pkg {
		f = jen.NewFilePathName(g.pkgPath, pkg)
	} else {
		f = jen.NewFile(pkg)
	}
	f.HeaderComment(g.graph.HeaderComment())
	f.ImportName(RuntimePkg, "tablegen")
	f.ImportName(TabularPkg, "tabular")
	return f
}

// NewModuleFile creates the file of a module's aggregator package.
func (g *JenniferGenerator) NewModuleFile(m *Module) *jen.File {
	f := jen.NewFilePathName(g.ModulePkgPath(m), m.PackageName())
	f.HeaderComment(g.graph.HeaderComment())
	return f
}

// Graph returns the schema graph.
func (g *JenniferGenerator) Graph() *Graph {
	return g.graph
}

// Pkg returns the name of the generated package.
func (g *JenniferGenerator) Pkg() string {
	return g.pkg
}

// PkgPath returns the import path of the generated package.
func (g *JenniferGenerator) PkgPath() string {
	return g.pkgPath
}

// RuntimePkg returns the import path of the runtime support library.
func (g *JenniferGenerator) RuntimePkg() string {
	return RuntimePkg
}

// ModulePkgPath returns the import path of a module's aggregator package.
func (g *JenniferGenerator) ModulePkgPath(m *Module) string {
	if m.IsRoot() {
		return g.pkgPath
	}
	return path.Join(g.pkgPath, m.PackageDir())
}

// GoType returns the Go type of a field: the kind's type, a pointer to it
// for optional fields or a slice of it for multi fields.
func (g *JenniferGenerator) GoType(f *Field) jen.Code {
	switch {
	case f.Optional:
		return jen.Op("*").Add(g.KindType(f.Kind))
	case f.Multi:
		return jen.Index().Add(g.KindType(f.Kind))
	}
	return g.KindType(f.Kind)
}

// KindType returns the Go type of a single value of kind k.
func (g *JenniferGenerator) KindType(k *Kind) jen.Code {
	switch k.Tag {
	case KindEnum:
		return jen.Id(k.Enum.Name.GoName())
	case KindLink:
		return jen.Qual(RuntimePkg, "Link").Types(g.RecordType(k.Link))
	case KindTuple:
		items := make([]jen.Code, len(k.Items))
		for i, item := range k.Items {
			items[i] = g.KindType(item)
		}
		return jen.Qual(RuntimePkg, "Tuple"+strconv.Itoa(len(k.Items))).Types(items...)
	}
	switch k.Scalar {
	case load.ScalarID:
		return jen.Qual(RuntimePkg, "DataID")
	case load.ScalarDatetime:
		return jen.Qual("time", "Time")
	case load.ScalarDuration:
		return jen.Qual("time", "Duration")
	}
	return jen.Id(string(k.Scalar))
}

// RecordType returns the type rows of t are held as: a pointer to the
// record struct for concrete tables, the sealed interface for abstract ones.
func (g *JenniferGenerator) RecordType(t *Table) jen.Code {
	if t.Abstract {
		return jen.Id(t.Name.GoName())
	}
	return jen.Op("*").Id(t.Name.GoName())
}

// Parser returns an expression evaluating to the runtime parser of kind k.
func (g *JenniferGenerator) Parser(k *Kind) jen.Code {
	switch k.Tag {
	case KindEnum:
		return jen.Qual(RuntimePkg, "Enum").Call(jen.Lit(k.Enum.TypeID()), jen.Id(EnumLookup(k.Enum)))
	case KindLink:
		return jen.Qual(RuntimePkg, "LinkTo").Types(g.RecordType(k.Link)).Call()
	case KindTuple:
		items := make([]jen.Code, len(k.Items))
		for i, item := range k.Items {
			items[i] = g.Parser(item)
		}
		return jen.Qual(RuntimePkg, "TupleOf"+strconv.Itoa(len(k.Items))).Call(items...)
	}
	s := k.Scalar
	switch {
	case s == load.ScalarID:
		return jen.Qual(RuntimePkg, "ID").Call()
	case s.Signed():
		return jen.Qual(RuntimePkg, "Int").Types(jen.Id(string(s))).Call()
	case s.Unsigned():
		return jen.Qual(RuntimePkg, "Uint").Types(jen.Id(string(s))).Call()
	case s.Float():
		return jen.Qual(RuntimePkg, "Float").Types(jen.Id(string(s))).Call()
	case s == load.ScalarBool:
		return jen.Qual(RuntimePkg, "Bool").Call()
	case s == load.ScalarDatetime:
		return jen.Qual(RuntimePkg, "Time").Call()
	case s == load.ScalarDuration:
		return jen.Qual(RuntimePkg, "Duration").Call()
	}
	return jen.Qual(RuntimePkg, "String").Call()
}

// FileName returns the name of the generated file holding an entity.
// The .gen.go suffix keeps entity names such as "linux" or "test" from
// turning into build constraints.
func FileName(n Name) string {
	parts := make([]string, 0, len(n.Namespace)+1)
	for _, ns := range n.Namespace {
		parts = append(parts, Snake(ns))
	}
	return strings.Join(append(parts, n.Entity()), "_") + ".gen.go"
}

// EnumLookup returns the name of the unexported variant lookup function of
// an enumeration.
func EnumLookup(e *Enum) string {
	return "lookup" + e.Name.GoName()
}

// packageName derives a package name from an import path.
func packageName(pkgPath string) string {
	name := strings.ToLower(path.Base(pkgPath))
	name = strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" {
		return "gamedata"
	}
	return name
}
