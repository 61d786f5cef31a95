package golang

import (
	"strconv"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/tablegen/compiler/gen"
)

// genConsts generates the constants declared directly in a module.
func genConsts(h gen.GeneratorHelper, m *gen.Module) *jen.File {
	g := h.Graph()
	var consts []*gen.Const
	for _, e := range m.Entries {
		if e.Kind != gen.EntryConst {
			continue
		}
		if c := g.Consts[e.Index]; c.Target.Included() {
			consts = append(consts, c)
		}
	}
	if len(consts) == 0 {
		return nil
	}

	f := h.NewFile(h.Pkg())
	f.Const().DefsFunc(func(group *jen.Group) {
		for _, c := range consts {
			group.Commentf("%s is the %s constant.", c.Name.GoName(), c.TypeID())
			group.Id(c.Name.GoName()).Id(string(c.Type)).Op("=").Add(constLit(c))
		}
	})
	return f
}

func constLit(c *gen.Const) jen.Code {
	switch v := c.Value.(type) {
	case int64:
		return jen.Id(strconv.FormatInt(v, 10))
	case uint64:
		return jen.Id(strconv.FormatUint(v, 10))
	case float64:
		s := strconv.FormatFloat(v, 'g', -1, 64)
		return jen.Id(s)
	case string:
		return jen.Lit(v)
	}
	return jen.Lit(c.Value)
}
