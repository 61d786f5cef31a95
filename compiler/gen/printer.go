package gen

import "github.com/dave/jennifer/jen"

// GoPrinter renders the Go package of a graph. Every method returns the
// file for one artifact; a nil file means the artifact is empty and is not
// written.
//
// All entities live in one flat package under their qualified Go names
// (item.Weapon becomes ItemWeapon). Each module additionally gets an
// aggregator package re-exporting its entities under their local names.
type GoPrinter interface {
	// Name returns the printer name used in errors and logs.
	Name() string
	// GenTable renders a table: the record type, arena, accessors and, for
	// concrete tables, the loader.
	GenTable(t *Table) *jen.File
	// GenEnum renders an enumeration generated for the server target.
	GenEnum(e *Enum) *jen.File
	// GenConsts renders the constants declared directly in m.
	GenConsts(m *Module) *jen.File
	// GenModule renders the aggregator package of a non-root module.
	GenModule(m *Module) *jen.File
	// GenLoad renders the load orchestration of the whole graph.
	GenLoad() *jen.File
}

// ArtifactPrinter renders the non-Go artifacts of a graph.
type ArtifactPrinter interface {
	Name() string
	Artifacts(g *Graph) ([]Artifact, error)
}

// Artifact is a rendered non-Go file.
type Artifact struct {
	// Path is the file path, absolute or relative to the working directory.
	Path string
	Data []byte
}

// GeneratorHelper provides helper methods for printer implementations.
// JenniferGenerator implements this interface, allowing printer packages
// to use helper methods without importing the full generator.
type GeneratorHelper interface {
	// NewFile creates a new Jennifer file with the standard header comment.
	NewFile(pkg string) *jen.File

	// NewModuleFile creates the file of a module's aggregator package.
	NewModuleFile(m *Module) *jen.File

	// Graph returns the schema graph.
	Graph() *Graph

	// Pkg returns the name of the generated package.
	Pkg() string

	// PkgPath returns the import path of the generated package.
	PkgPath() string

	// RuntimePkg returns the import path of the runtime support library.
	RuntimePkg() string

	// ModulePkgPath returns the import path of a module's aggregator package.
	ModulePkgPath(m *Module) string

	// GoType returns the Go type of a field.
	GoType(f *Field) jen.Code

	// KindType returns the Go type of a single value of a kind.
	KindType(k *Kind) jen.Code

	// RecordType returns the type rows of a table are held as.
	RecordType(t *Table) jen.Code

	// Parser returns an expression evaluating to the parser of a kind.
	Parser(k *Kind) jen.Code
}

var _ GeneratorHelper = (*JenniferGenerator)(nil)
