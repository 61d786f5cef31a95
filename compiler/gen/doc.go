// Package gen compiles tablegen schema trees into Go code.
//
// A schema tree is a set of JSON documents rooted at a declaration document
// (data.mod.json by default). Declarations list submodules, table schemas,
// enumerations and constants; submodules open a namespace of their own.
//
// # Pipeline
//
// NewGraph reads and resolves the tree in four phases:
//
//	collect    read every declaration, register type ids and Go names
//	     ↓
//	hierarchy  link extend chains, compute effective fields and columns
//	     ↓
//	resolve    bind enum and link references, check attributes
//	     ↓
//	levels     batch tables into dependency levels
//
// Every phase fails fast: the first defect aborts the build and nothing is
// generated. The resulting Graph is immutable.
//
// # Errors
//
// Failures are structured and match a sentinel with errors.Is:
//
//   - DeclarationError: ErrInvalidDeclarationFilename
//   - CollisionError: ErrNamespaceCollision
//   - ReferenceError: ErrUnknownParent, ErrUnknownLinkTarget, ErrUnknownEnum
//   - CycleError: ErrCircularDependency, ErrInheritanceCycle
//   - AttributeError: ErrInvalidAttribute
//   - ConfigError: ErrMissingConfig
//   - GenerationError: ErrGenerationFailed
//
// Schema documents that do not match their CUE definition fail with a
// load.DocumentError naming the offending path.
//
// # Configuration
//
// Configuration uses functional options or a YAML file:
//
//	cfg, err := gen.NewConfig(
//	    gen.WithSchema("./schema"),
//	    gen.WithTarget("./gamedata"),
//	    gen.WithPackage("example.com/game/gamedata"),
//	)
//
//	cfg, err := gen.LoadConfigFile("tablegen.yaml")
//
// # Generation
//
// JenniferGenerator renders a Graph with a GoPrinter and optional
// ArtifactPrinters:
//
//	generator := gen.NewJenniferGenerator(graph)
//	generator.WithPrinter(golang.NewPrinter(generator))
//	generator.WithArtifacts(protocol.NewPrinter(), relational.NewPrinter(), graphql.NewPrinter())
//	err := generator.Generate(ctx)
//
// Files are rendered concurrently and written only after all of them
// succeeded.
package gen
