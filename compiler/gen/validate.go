package gen

import (
	"fmt"

	"github.com/syssam/tablegen/compiler/load"
)

const (
	minTupleItems = 2
	maxTupleItems = 4
)

// resolve binds the enum and link references of every declared field and
// checks the attribute rules of fields and enumerations.
func (g *Graph) resolve() error {
	for _, e := range g.Enums {
		if err := checkEnum(e); err != nil {
			return err
		}
	}
	for _, t := range g.Tables {
		for _, f := range t.Own {
			if err := g.resolveKind(t, f, f.Kind, false); err != nil {
				return err
			}
			if err := checkField(t, f); err != nil {
				return err
			}
		}
	}
	for _, t := range g.Concrete() {
		id := t.ID()
		if id == nil || id.Kind.Tag != KindScalar || id.Kind.Scalar != load.ScalarID || id.Optional || id.Multi || !id.Generated() {
			return NewAttributeError(t.TypeID(), "", "the first field must be a required scalar of type id generated for the server")
		}
	}
	return nil
}

func (g *Graph) resolveKind(t *Table, f *Field, k *Kind, inTuple bool) error {
	switch k.Tag {
	case KindEnum:
		e, ok := g.Enum(k.Ref)
		if !ok {
			ref := &ReferenceError{Kind: RefEnum, Type: t.TypeID(), Field: f.Name, Ref: k.Ref}
			if _, isType := g.types[k.Ref]; isType {
				ref.Message = "not an enumeration"
			}
			return ref
		}
		if f.Generated() && !e.Target.Included() {
			return NewAttributeError(t.TypeID(), f.Name, fmt.Sprintf("enumeration %s is not generated for target %s", e.TypeID(), f.Target))
		}
		k.Enum = e
	case KindLink:
		l, ok := g.Table(k.Ref)
		if !ok {
			ref := &ReferenceError{Kind: RefLink, Type: t.TypeID(), Field: f.Name, Ref: k.Ref}
			if _, isType := g.types[k.Ref]; isType {
				ref.Message = "not a table"
			}
			return ref
		}
		k.Link = l
	case KindTuple:
		if inTuple {
			return NewAttributeError(t.TypeID(), f.Name, "tuples cannot be nested")
		}
		if n := len(k.Items); n < minTupleItems || n > maxTupleItems {
			return NewAttributeError(t.TypeID(), f.Name, fmt.Sprintf("tuple has %d components, want %d to %d", n, minTupleItems, maxTupleItems))
		}
		for _, item := range k.Items {
			if err := g.resolveKind(t, f, item, true); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkField(t *Table, f *Field) error {
	fail := func(msg string) error {
		return NewAttributeError(t.TypeID(), f.Name, msg)
	}
	if f.Optional && f.Multi {
		return fail("optional and multi cannot both be set")
	}
	if f.Unique && f.Multi {
		return fail("multi fields cannot be unique")
	}
	if f.Min != nil || f.Max != nil {
		if f.Kind.Tag != KindScalar || !f.Kind.Scalar.Numeric() {
			return fail("min and max require a numeric scalar")
		}
		if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
			return fail(fmt.Sprintf("min %d is greater than max %d", *f.Min, *f.Max))
		}
	}
	return nil
}

func checkEnum(e *Enum) error {
	limit := uint64(1) << e.Base.Bits()
	if uint64(len(e.Values)) > limit {
		return NewAttributeError(e.TypeID(), "", fmt.Sprintf("%d variants do not fit in %s", len(e.Values), e.Base))
	}
	seen := make(map[string]bool, len(e.Values))
	goNames := make(map[string]bool, len(e.Values))
	for _, v := range e.Values {
		if seen[v] {
			return NewAttributeError(e.TypeID(), v, "duplicate variant")
		}
		if goNames[Pascal(v)] {
			return NewAttributeError(e.TypeID(), v, "variant name conflicts with another variant")
		}
		seen[v] = true
		goNames[Pascal(v)] = true
	}
	return nil
}
