package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/tablegen/compiler/gen"
)

const msgpackPkg = "github.com/vmihailenco/msgpack/v5"

// genEnum generates the file of an enumeration. Discriminants follow
// declaration order.
func genEnum(h gen.GeneratorHelper, e *gen.Enum) *jen.File {
	rt := h.RuntimePkg()
	f := h.NewFile(h.Pkg())
	f.ImportName(msgpackPkg, "msgpack")
	name := e.Name.GoName()
	names := unexported(name) + "Names"
	values := unexported(name) + "Values"
	typeID := jen.Lit(e.TypeID())

	f.Commentf("%s is the %s enumeration.", name, e.TypeID())
	f.Type().Id(name).Id(string(e.Base))

	f.Commentf("%s variants.", name)
	f.Const().DefsFunc(func(group *jen.Group) {
		for i, v := range e.Values {
			if i == 0 {
				group.Id(variant(e, v)).Id(name).Op("=").Iota()
			} else {
				group.Id(variant(e, v))
			}
		}
	})

	f.Var().Id(names).Op("=").Index(jen.Op("...")).String().ValuesFunc(func(group *jen.Group) {
		for _, v := range e.Values {
			group.Lit(v)
		}
	})
	f.Var().Id(values).Op("=").Map(jen.String()).Id(name).Values(jen.DictFunc(func(d jen.Dict) {
		for _, v := range e.Values {
			d[jen.Lit(v)] = jen.Id(variant(e, v))
		}
	}))

	recv := jen.Id("v").Id(name)
	f.Comment("String returns the variant name.")
	f.Func().Params(recv).Id("String").Params().String().Block(
		jen.If(jen.Op("!").Id("v").Dot("IsValid").Call()).Block(
			jen.Return(jen.Lit(name+"(").Op("+").Qual("strconv", "FormatUint").Call(jen.Uint64().Call(jen.Id("v")), jen.Lit(10)).Op("+").Lit(")")),
		),
		jen.Return(jen.Id(names).Index(jen.Id("v"))),
	)

	f.Comment("IsValid reports whether v is a declared variant.")
	f.Func().Params(jen.Id("v").Id(name)).Id("IsValid").Params().Bool().Block(
		jen.Return(jen.Int().Call(jen.Id("v")).Op("<").Len(jen.Id(names))),
	)

	f.Commentf("%sValues returns every variant in declaration order.", name)
	f.Func().Id(name+"Values").Params().Index().Id(name).Block(
		jen.Return(jen.Index().Id(name).ValuesFunc(func(group *jen.Group) {
			for _, v := range e.Values {
				group.Id(variant(e, v))
			}
		})),
	)

	f.Commentf("Parse%s returns the variant with the given name.", name)
	f.Func().Id("Parse"+name).Params(jen.Id("s").String()).Params(jen.Id(name), jen.Error()).Block(
		jen.List(jen.Id("v"), jen.Id("ok")).Op(":=").Id(gen.EnumLookup(e)).Call(jen.Id("s")),
		jen.If(jen.Op("!").Id("ok")).Block(
			jen.Return(jen.Lit(0), jen.Op("&").Qual(rt, "ParseError").Values(jen.Dict{
				jen.Id("Kind"):  jen.Qual(rt, "InvalidEnumValue"),
				jen.Id("Type"):  typeID,
				jen.Id("Value"): jen.Qual("strconv", "Quote").Call(jen.Id("s")),
			})),
		),
		jen.Return(jen.Id("v"), jen.Nil()),
	)

	f.Func().Id(gen.EnumLookup(e)).Params(jen.Id("s").String()).Params(jen.Id(name), jen.Bool()).Block(
		jen.List(jen.Id("v"), jen.Id("ok")).Op(":=").Id(values).Index(jen.Id("s")),
		jen.Return(jen.Id("v"), jen.Id("ok")),
	)

	if e.Text {
		genEnumText(f, e)
	}
	if e.Msgpack {
		genEnumMsgpack(h, f, e)
	}
	if e.Queryable {
		genEnumSQL(h, f, e)
	}
	if e.Protocol {
		genEnumProto(f, e)
	}
	return f
}

func variant(e *gen.Enum, v string) string {
	return e.Name.GoName() + gen.Pascal(v)
}

func genEnumText(f *jen.File, e *gen.Enum) {
	name := e.Name.GoName()
	f.Comment("MarshalText implements encoding.TextMarshaler.")
	f.Func().Params(jen.Id("v").Id(name)).Id("MarshalText").Params().Params(jen.Index().Byte(), jen.Error()).Block(
		jen.If(jen.Op("!").Id("v").Dot("IsValid").Call()).Block(
			jen.Return(jen.Nil(), jen.Qual("fmt", "Errorf").Call(jen.Lit("invalid "+e.TypeID()+" %d"), jen.Id("v"))),
		),
		jen.Return(jen.Index().Byte().Call(jen.Id("v").Dot("String").Call()), jen.Nil()),
	)
	f.Comment("UnmarshalText implements encoding.TextUnmarshaler.")
	f.Func().Params(jen.Id("v").Op("*").Id(name)).Id("UnmarshalText").Params(jen.Id("text").Index().Byte()).Error().Block(
		jen.List(jen.Id("x"), jen.Err()).Op(":=").Id("Parse"+name).Call(jen.String().Call(jen.Id("text"))),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
		jen.Op("*").Id("v").Op("=").Id("x"),
		jen.Return(jen.Nil()),
	)
}

func genEnumMsgpack(h gen.GeneratorHelper, f *jen.File, e *gen.Enum) {
	rt := h.RuntimePkg()
	name := e.Name.GoName()
	f.Comment("EncodeMsgpack implements msgpack.CustomEncoder.")
	f.Func().Params(jen.Id("v").Id(name)).Id("EncodeMsgpack").Params(jen.Id("enc").Op("*").Qual(msgpackPkg, "Encoder")).Error().Block(
		jen.Return(jen.Qual(rt, "EncodeEnum").Call(jen.Id("enc"), jen.Id("v"))),
	)
	f.Comment("DecodeMsgpack implements msgpack.CustomDecoder.")
	f.Func().Params(jen.Id("v").Op("*").Id(name)).Id("DecodeMsgpack").Params(jen.Id("dec").Op("*").Qual(msgpackPkg, "Decoder")).Error().Block(
		jen.List(jen.Id("x"), jen.Err()).Op(":=").Qual(rt, "DecodeEnum").Call(jen.Id("dec"), jen.Lit(e.TypeID()), jen.Id(name).Dot("IsValid")),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
		jen.Op("*").Id("v").Op("=").Id("x"),
		jen.Return(jen.Nil()),
	)
}

func genEnumSQL(h gen.GeneratorHelper, f *jen.File, e *gen.Enum) {
	rt := h.RuntimePkg()
	name := e.Name.GoName()
	f.Comment("Value implements driver.Valuer. Variants are stored by name.")
	f.Func().Params(jen.Id("v").Id(name)).Id("Value").Params().Params(jen.Qual("database/sql/driver", "Value"), jen.Error()).Block(
		jen.If(jen.Op("!").Id("v").Dot("IsValid").Call()).Block(
			jen.Return(jen.Nil(), jen.Qual("fmt", "Errorf").Call(jen.Lit("invalid "+e.TypeID()+" %d"), jen.Id("v"))),
		),
		jen.Return(jen.Id("v").Dot("String").Call(), jen.Nil()),
	)
	f.Comment("Scan implements sql.Scanner.")
	f.Func().Params(jen.Id("v").Op("*").Id(name)).Id("Scan").Params(jen.Id("src").Any()).Error().Block(
		jen.List(jen.Id("x"), jen.Err()).Op(":=").Qual(rt, "ScanEnum").Call(jen.Id("src"), jen.Lit(e.TypeID()), jen.Id(gen.EnumLookup(e))),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
		jen.Op("*").Id("v").Op("=").Id("x"),
		jen.Return(jen.Nil()),
	)
}

func genEnumProto(f *jen.File, e *gen.Enum) {
	name := e.Name.GoName()
	f.Comment("ToProto returns the wire protocol value of v.")
	f.Func().Params(jen.Id("v").Id(name)).Id("ToProto").Params().Int32().Block(
		jen.Return(jen.Int32().Call(jen.Id("v"))),
	)
	f.Commentf("%sFromProto returns the variant of a wire protocol value.", name)
	f.Func().Id(name+"FromProto").Params(jen.Id("n").Int32()).Params(jen.Id(name), jen.Bool()).Block(
		jen.If(jen.Id("n").Op("<").Lit(0).Op("||").Int().Call(jen.Id("n")).Op(">=").Len(jen.Id(unexported(name)+"Names"))).Block(
			jen.Return(jen.Lit(0), jen.False()),
		),
		jen.Return(jen.Id(name).Call(jen.Id("n")), jen.True()),
	)
}
