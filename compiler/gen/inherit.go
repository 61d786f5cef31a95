package gen

import (
	"fmt"
	"slices"
)

// EffectiveFields returns the fields of t and of every table it extends,
// ancestors first. It follows the extend references as written, so it can
// run before the hierarchy is built.
func (g *Graph) EffectiveFields(t *Table) ([]*Field, error) {
	chain := []*Table{t}
	visited := map[int]bool{t.Index: true}
	for cur := t; cur.Extend != ""; {
		parent, ok := g.Table(cur.Extend)
		if !ok {
			return nil, &ReferenceError{Kind: RefParent, Type: cur.TypeID(), Ref: cur.Extend}
		}
		if visited[parent.Index] {
			return nil, inheritanceCycle(append(chain, parent))
		}
		visited[parent.Index] = true
		chain = append(chain, parent)
		cur = parent
	}

	var fields []*Field
	for _, table := range slices.Backward(chain) {
		fields = append(fields, table.Own...)
	}
	return fields, nil
}

// buildHierarchy links every table to its parent, fills the hierarchy map
// and computes the effective fields of every table.
func (g *Graph) buildHierarchy() error {
	g.Hierarchy = make(map[int][]int)
	for _, t := range g.Tables {
		if t.Extend == "" {
			continue
		}
		parent, ok := g.Table(t.Extend)
		if !ok {
			ref := &ReferenceError{Kind: RefParent, Type: t.TypeID(), Ref: t.Extend}
			if _, isType := g.types[t.Extend]; isType {
				ref.Message = "not a table"
			}
			return ref
		}
		if !parent.Abstract {
			return NewAttributeError(t.TypeID(), "", fmt.Sprintf("extends concrete table %s; only abstract tables can be extended", parent.TypeID()))
		}
		t.Parent = parent
		parent.Children = append(parent.Children, t)
		g.Hierarchy[parent.Index] = append(g.Hierarchy[parent.Index], t.Index)
	}

	for _, t := range g.Tables {
		fields, err := g.EffectiveFields(t)
		if err != nil {
			return err
		}
		t.Fields = fields
		seen := make(map[string]*Field, len(fields))
		goNames := make(map[string]*Field, len(fields))
		for i, f := range fields {
			if prev, ok := seen[f.Name]; ok {
				return NewAttributeError(t.TypeID(), f.Name, fmt.Sprintf("already declared by %s", prev.Owner.TypeID()))
			}
			if prev, ok := goNames[f.GoName()]; ok {
				return NewAttributeError(t.TypeID(), f.Name, fmt.Sprintf("conflicts with field %s", prev.Name))
			}
			seen[f.Name] = f
			goNames[f.GoName()] = f
			if f.Owner == t {
				f.Column = i
			}
		}
		for _, f := range fields {
			getter := f.Getter()
			if getter == "" {
				continue
			}
			if other, ok := goNames[getter]; ok {
				return NewAttributeError(t.TypeID(), other.Name, fmt.Sprintf("conflicts with the accessor of field %s", f.Name))
			}
		}
		if f, ok := goNames["GetID"]; ok {
			return NewAttributeError(t.TypeID(), f.Name, "conflicts with the GetID accessor")
		}
	}
	return nil
}

func inheritanceCycle(chain []*Table) *CycleError {
	var names []string
	seen := make(map[string]bool)
	for _, t := range chain {
		if id := t.TypeID(); !seen[id] {
			seen[id] = true
			names = append(names, id)
		}
	}
	slices.Sort(names)
	return &CycleError{Inheritance: true, Types: names}
}
