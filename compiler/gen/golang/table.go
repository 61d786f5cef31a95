package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/tablegen/compiler/gen"
)

// genTable generates the file of a table ({entity}.gen.go).
func genTable(h gen.GeneratorHelper, t *gen.Table) *jen.File {
	f := h.NewFile(h.Pkg())
	if t.Abstract {
		genAbstract(h, f, t)
	} else {
		genRecord(h, f, t)
		genLoader(h, f, t)
	}
	genAccessors(h, f, t)
	return f
}

// genAbstract generates the sealed interface of an abstract table and its
// shared arena. The interface is implemented by the records of every
// concrete descendant.
func genAbstract(h gen.GeneratorHelper, f *jen.File, t *gen.Table) {
	rt := h.RuntimePkg()
	name := t.Name.GoName()
	f.Commentf("%s is a row of any table extending %s.", name, t.TypeID())
	f.Type().Id(name).InterfaceFunc(func(group *jen.Group) {
		if t.Parent != nil {
			group.Id(t.Parent.Name.GoName())
		} else {
			group.Qual(rt, "Record")
		}
		for _, field := range t.Own {
			if getter := field.Getter(); getter != "" {
				group.Id(getter).Params().Add(h.GoType(field))
			}
		}
		group.Id(marker(t)).Params()
	})

	f.Var().Id(arenaVar(t)).Op("=").Qual(rt, "NewSharedArena").Types(jen.Id(name)).Call(jen.Lit(t.TypeID()))
}

// genRecord generates the record struct of a concrete table.
func genRecord(h gen.GeneratorHelper, f *jen.File, t *gen.Table) {
	rt := h.RuntimePkg()
	name := t.Name.GoName()
	f.Commentf("%s is a row of %s.", name, t.TypeID())
	f.Type().Id(name).StructFunc(func(group *jen.Group) {
		for _, field := range t.GeneratedFields() {
			group.Id(field.GoName()).Add(h.GoType(field))
		}
	})

	recv := jen.Id("v").Op("*").Id(name)
	f.Comment("GetID returns the row id.")
	f.Func().Params(recv).Id("GetID").Params().Qual(rt, "DataID").Block(
		jen.Return(jen.Id("v").Dot(t.ID().GoName())),
	)
	for _, field := range t.GeneratedFields() {
		getter := field.Getter()
		if getter == "" {
			continue
		}
		f.Commentf("%s returns the %s field.", getter, field.Name)
		f.Func().Params(jen.Id("v").Op("*").Id(name)).Id(getter).Params().Add(h.GoType(field)).Block(
			jen.Return(jen.Id("v").Dot(field.GoName())),
		)
	}
	for _, a := range t.Ancestors() {
		f.Commentf("%s marks %s as a row of %s.", marker(a), name, a.TypeID())
		f.Func().Params(jen.Op("*").Id(name)).Id(marker(a)).Params().Block()
	}

	f.Var().Id(arenaVar(t)).Op("=").Qual(rt, "NewArena").Types(jen.Op("*").Id(name)).Call(jen.Lit(t.TypeID()))
}

// genAccessors generates the read accessors of a table. They see no rows
// until LoadAll succeeds.
func genAccessors(h gen.GeneratorHelper, f *jen.File, t *gen.Table) {
	rt := h.RuntimePkg()
	name := t.Name.GoName()
	rec := h.RecordType(t)
	zero := jen.Nil()

	f.Commentf("%sByID returns the %s row with the given id.", name, t.TypeID())
	f.Func().Id(name+"ByID").Params(jen.Id("id").Qual(rt, "DataID")).Params(rec, jen.Bool()).Block(
		notReady(zero, jen.False()),
		jen.Return(jen.Id(arenaVar(t)).Dot("Get").Call(jen.Id("id"))),
	)

	seq := jen.Qual("iter", "Seq2").Types(jen.Qual(rt, "DataID"), rec)
	f.Commentf("%sAll iterates over the %s rows.", name, t.TypeID())
	f.Func().Id(name+"All").Params().Add(seq).Block(
		notReady(jen.Func().Params(jen.Func().Params(jen.Qual(rt, "DataID"), rec).Bool()).Block()),
		jen.Return(jen.Id(arenaVar(t)).Dot("All").Call()),
	)
}

// genLoader generates the Loadable implementation of a concrete table.
func genLoader(h gen.GeneratorHelper, f *jen.File, t *gen.Table) {
	f.Const().Defs(
		jen.Id(workbookConst(t)).Op("=").Lit(t.Workbook),
		jen.Id(sheetConst(t)).Op("=").Lit(t.Sheet),
	)
	f.Type().Id(tableType(t)).Struct()
	genTableLoad(h, f, t)
	genTableInit(h, f, t)
}

func genTableLoad(h gen.GeneratorHelper, f *jen.File, t *gen.Table) {
	rt := h.RuntimePkg()
	name := t.Name.GoName()
	fields := t.GeneratedFields()

	rowErr := func(column string) jen.Code {
		d := jen.Dict{
			jen.Id("Workbook"): jen.Id(workbookConst(t)),
			jen.Id("Sheet"):    jen.Id(sheetConst(t)),
			jen.Id("Row"):      jen.Id("row").Dot("Number"),
			jen.Id("Err"):      jen.Id("err"),
		}
		if column != "" {
			d[jen.Id("Column")] = jen.Lit(column)
		}
		return jen.Return(jen.Op("&").Qual(rt, "RowError").Values(d))
	}

	var body []jen.Code
	parsers := make([]jen.Code, 0, len(fields))
	for _, field := range fields {
		parsers = append(parsers, jen.Id(parserVar(field)).Op("=").Add(h.Parser(field.Kind)))
	}
	body = append(body, jen.Var().Defs(parsers...))
	for _, field := range fields {
		if field.Unique {
			body = append(body, jen.Id(uniqueVar(field)).Op(":=").Qual(rt, "NewUniqueSet").Types(h.KindType(field.Kind)).Call())
		}
	}
	body = append(body,
		jen.Id("out").Op(":=").Make(jen.Map(jen.Qual(rt, "DataID")).Op("*").Id(name), jen.Len(jen.Id("rows"))),
		jen.Id("seen").Op(":=").Make(jen.Map(jen.Qual(rt, "DataID")).Int(), jen.Len(jen.Id("rows"))),
	)

	loop := []jen.Code{
		jen.If(jen.Err().Op(":=").Qual(rt, "CheckColumns").Call(jen.Id("row"), jen.Lit(len(t.Fields))), jen.Err().Op("!=").Nil()).Block(rowErr("")),
		jen.Id("v").Op(":=").Op("&").Id(name).Values(),
		jen.Var().Err().Error(),
	}
	for _, field := range fields {
		cell := jen.Id("row").Dot("Cells").Index(jen.Lit(field.Column))
		var parse *jen.Statement
		switch {
		case field.Optional:
			parse = jen.Qual(rt, "Optional").Call(jen.Id(parserVar(field)), cell)
		case field.Multi:
			parse = jen.Qual(rt, "Multi").Call(jen.Id(parserVar(field)), cell)
		default:
			parse = jen.Id(parserVar(field)).Dot("Parse").Call(cell)
		}
		loop = append(loop, jen.If(
			jen.List(jen.Id("v").Dot(field.GoName()), jen.Err()).Op("=").Add(parse),
			jen.Err().Op("!=").Nil(),
		).Block(rowErr(field.Name)))
	}
	for _, field := range fields {
		if !field.HasConstraints() {
			continue
		}
		var checks []jen.Code
		check := func(v jen.Code) []jen.Code {
			var out []jen.Code
			if field.Unique {
				out = append(out, jen.If(jen.Err().Op(":=").Id(uniqueVar(field)).Dot("Check").Call(v, jen.Id("row").Dot("Number")), jen.Err().Op("!=").Nil()).Block(rowErr(field.Name)))
			}
			if field.Min != nil {
				out = append(out, jen.If(jen.Err().Op(":=").Qual(rt, "CheckMin").Call(v, jen.Lit(int(*field.Min))), jen.Err().Op("!=").Nil()).Block(rowErr(field.Name)))
			}
			if field.Max != nil {
				out = append(out, jen.If(jen.Err().Op(":=").Qual(rt, "CheckMax").Call(v, jen.Lit(int(*field.Max))), jen.Err().Op("!=").Nil()).Block(rowErr(field.Name)))
			}
			return out
		}
		value := jen.Id("v").Dot(field.GoName())
		switch {
		case field.Optional:
			checks = append(checks, jen.If(jen.Id("v").Dot(field.GoName()).Op("!=").Nil()).Block(check(jen.Op("*").Add(value))...))
		case field.Multi:
			checks = append(checks, jen.For(jen.List(jen.Id("_"), jen.Id("x")).Op(":=").Range().Add(value)).Block(check(jen.Id("x"))...))
		default:
			checks = check(value)
		}
		loop = append(loop, checks...)
	}
	id := jen.Id("v").Dot(t.ID().GoName())
	loop = append(loop,
		jen.If(jen.List(jen.Id("first"), jen.Id("ok")).Op(":=").Id("seen").Index(id), jen.Id("ok")).Block(
			jen.Return(jen.Op("&").Qual(rt, "DuplicateIDError").Values(jen.Dict{
				jen.Id("Table"):    jen.Lit(t.TypeID()),
				jen.Id("ID"):       id,
				jen.Id("Row"):      jen.Id("row").Dot("Number"),
				jen.Id("FirstRow"): jen.Id("first"),
			})),
		),
		jen.Id("seen").Index(id).Op("=").Id("row").Dot("Number"),
		jen.Id("out").Index(id).Op("=").Id("v"),
	)
	body = append(body,
		jen.For(jen.List(jen.Id("_"), jen.Id("row")).Op(":=").Range().Id("rows")).Block(loop...),
		jen.If(jen.Err().Op(":=").Id(arenaVar(t)).Dot("Publish").Call(jen.Id("out")), jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
	)

	// Rows are inserted into every ancestor so polymorphic lookups see them.
	if ancestors := t.Ancestors(); len(ancestors) > 0 {
		var inserts []jen.Code
		for _, a := range ancestors {
			inserter := jen.Qual(rt, "Inserter").Types(jen.Id(a.Name.GoName())).Call(jen.Id(arenaVar(a)))
			inserts = append(inserts, jen.If(
				jen.Err().Op(":=").Add(inserter).Dot("Insert").Call(jen.Id("id"), jen.Id("v")),
				jen.Err().Op("!=").Nil(),
			).Block(jen.Return(jen.Err())))
		}
		body = append(body, jen.For(jen.List(jen.Id("id"), jen.Id("v")).Op(":=").Range().Id(arenaVar(t)).Dot("All").Call()).Block(inserts...))
	}
	body = append(body, jen.Return(jen.Nil()))

	f.Commentf("Load parses the rows of %s.", t.TypeID())
	f.Func().Params(jen.Id(tableType(t))).Id("Load").Params(jen.Id("rows").Index().Qual(gen.TabularPkg, "Row")).Error().Block(body...)
}

func genTableInit(h gen.GeneratorHelper, f *jen.File, t *gen.Table) {
	rt := h.RuntimePkg()
	var resolves []jen.Code
	for _, field := range t.GeneratedFields() {
		if len(field.Kind.Links()) == 0 {
			continue
		}
		linkErr := jen.Return(jen.Op("&").Qual(rt, "LinkError").Values(jen.Dict{
			jen.Id("Workbook"): jen.Id(workbookConst(t)),
			jen.Id("Sheet"):    jen.Id(sheetConst(t)),
			jen.Id("ID"):       jen.Id("id"),
			jen.Id("Column"):   jen.Lit(field.Name),
			jen.Id("Err"):      jen.Err(),
		}))
		resolve := func(v *jen.Statement) []jen.Code {
			var out []jen.Code
			for _, path := range linkPaths(field.Kind) {
				target := jen.Id(arenaVar(path.target))
				link := v.Clone()
				if path.item != "" {
					link = link.Dot(path.item)
				}
				out = append(out, jen.If(jen.Err().Op(":=").Add(link).Dot("Resolve").Call(target), jen.Err().Op("!=").Nil()).Block(linkErr))
			}
			return out
		}
		value := jen.Id("v").Dot(field.GoName())
		switch {
		case field.Optional:
			resolves = append(resolves, jen.If(value.Clone().Op("!=").Nil()).Block(resolve(value)...))
		case field.Multi:
			resolves = append(resolves, jen.For(jen.Id("i").Op(":=").Range().Add(value)).Block(resolve(value.Clone().Index(jen.Id("i")))...))
		default:
			resolves = append(resolves, resolve(value)...)
		}
	}

	f.Commentf("Init resolves the links of %s.", t.TypeID())
	if len(resolves) == 0 {
		f.Func().Params(jen.Id(tableType(t))).Id("Init").Params().Error().Block(jen.Return(jen.Nil()))
		return
	}
	f.Func().Params(jen.Id(tableType(t))).Id("Init").Params().Error().Block(
		jen.For(jen.List(jen.Id("id"), jen.Id("v")).Op(":=").Range().Id(arenaVar(t)).Dot("All").Call()).Block(resolves...),
		jen.Return(jen.Nil()),
	)
}

// linkPath locates one link within a field value: the value itself or one
// item of a tuple.
type linkPath struct {
	item   string
	target *gen.Table
}

var tupleItems = [...]string{"First", "Second", "Third", "Fourth"}

func linkPaths(k *gen.Kind) []linkPath {
	switch k.Tag {
	case gen.KindLink:
		return []linkPath{{target: k.Link}}
	case gen.KindTuple:
		var paths []linkPath
		for i, item := range k.Items {
			if item.Tag == gen.KindLink {
				paths = append(paths, linkPath{item: tupleItems[i], target: item.Link})
			}
		}
		return paths
	}
	return nil
}

func parserVar(f *gen.Field) string {
	return "parse" + f.GoName()
}

func uniqueVar(f *gen.Field) string {
	return unexported(f.GoName()) + "Unique"
}

