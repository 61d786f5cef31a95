package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/tablegen/compiler/gen"
)

// genLoad generates load.go: the dataset, LoadAll, Ready and the plan
// listing abstract arenas and concrete tables by dependency level.
func genLoad(h gen.GeneratorHelper) *jen.File {
	rt := h.RuntimePkg()
	g := h.Graph()
	f := h.NewFile(h.Pkg())
	f.Anon(g.SourcePackages()...)

	f.Var().Id("dataset").Qual(rt, "Dataset")

	f.Comment("LoadAll loads every table from the workbooks under root. Accessors")
	f.Comment("return no rows until LoadAll succeeds. A package loads at most once.")
	f.Func().Id("LoadAll").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("root").String(),
		jen.Id("opts").Op("...").Qual(rt, "LoadOption"),
	).Error().Block(
		jen.Return(jen.Id("dataset").Dot("Load").Call(jen.Id("ctx"), jen.Id("root"), jen.Id("plan").Call(), jen.Id("opts").Op("..."))),
	)

	f.Comment("Ready reports whether LoadAll succeeded.")
	f.Func().Id("Ready").Params().Bool().Block(
		jen.Return(jen.Id("dataset").Dot("Ready").Call()),
	)

	abstract := make([]jen.Code, 0)
	for _, t := range g.Abstract() {
		abstract = append(abstract, jen.Id(arenaVar(t)))
	}
	levels := make([]jen.Code, 0)
	for _, level := range g.LoadLevels() {
		tasks := make([]jen.Code, 0, len(level))
		for _, t := range level {
			tasks = append(tasks, jen.Values(jen.Dict{
				jen.Id("Name"):     jen.Lit(t.TypeID()),
				jen.Id("Workbook"): jen.Id(workbookConst(t)),
				jen.Id("Sheet"):    jen.Id(sheetConst(t)),
				jen.Id("Table"):    jen.Id(tableType(t)).Values(),
			}))
		}
		levels = append(levels, jen.ValuesFunc(func(group *jen.Group) {
			for _, task := range tasks {
				group.Line().Add(task)
			}
			group.Line()
		}))
	}

	f.Func().Id("plan").Params().Qual(rt, "Plan").Block(
		jen.Return(jen.Qual(rt, "Plan").Values(jen.Dict{
			jen.Id("Abstract"): jen.Index().Qual(rt, "Resetter").Values(abstract...),
			jen.Id("Levels"): jen.Index().Index().Qual(rt, "Task").ValuesFunc(func(group *jen.Group) {
				for _, level := range levels {
					group.Line().Add(level)
				}
				group.Line()
			}),
		})),
	)
	return f
}
