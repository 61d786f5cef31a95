package golang

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/tablegen/compiler/gen"
)

// genModule generates the aggregator package of a module. It re-exports the
// module's entities under their local names with type aliases. Nothing is
// generated for modules without generated entities.
func genModule(h gen.GeneratorHelper, m *gen.Module) *jen.File {
	g := h.Graph()
	pkg := h.PkgPath()
	var types, vars, consts []jen.Code
	for _, e := range m.Entries {
		switch e.Kind {
		case gen.EntryTable:
			t := g.Tables[e.Index]
			local, flat := gen.Pascal(t.Name.Local), t.Name.GoName()
			types = append(types, jen.Id(local).Op("=").Qual(pkg, flat))
			vars = append(vars,
				jen.Id(local+"ByID").Op("=").Qual(pkg, flat+"ByID"),
				jen.Id(local+"All").Op("=").Qual(pkg, flat+"All"),
			)
		case gen.EntryEnum:
			en := g.Enums[e.Index]
			if !en.Target.Included() {
				continue
			}
			local, flat := gen.Pascal(en.Name.Local), en.Name.GoName()
			types = append(types, jen.Id(local).Op("=").Qual(pkg, flat))
			vars = append(vars,
				jen.Id("Parse"+local).Op("=").Qual(pkg, "Parse"+flat),
				jen.Id(local+"Values").Op("=").Qual(pkg, flat+"Values"),
			)
			if en.Protocol {
				vars = append(vars, jen.Id(local+"FromProto").Op("=").Qual(pkg, flat+"FromProto"))
			}
			for _, v := range en.Values {
				consts = append(consts, jen.Id(local+gen.Pascal(v)).Op("=").Qual(pkg, variant(en, v)))
			}
		case gen.EntryConst:
			c := g.Consts[e.Index]
			if c.Target.Included() {
				consts = append(consts, jen.Id(gen.Pascal(c.Name.Local)).Op("=").Qual(pkg, c.Name.GoName()))
			}
		}
	}
	if len(types) == 0 && len(consts) == 0 {
		return nil
	}

	f := h.NewModuleFile(m)
	f.PackageComment("Package " + m.PackageName() + " re-exports the entities of module " + strings.Join(m.Path(), ".") + ".")
	if len(types) > 0 {
		f.Type().Defs(types...)
	}
	if len(vars) > 0 {
		f.Var().Defs(vars...)
	}
	if len(consts) > 0 {
		f.Const().Defs(consts...)
	}
	return f
}
