// Package relational renders PostgreSQL enum types for enumerations flagged
// queryable. Columns of these types hold variant names, matching the
// driver.Valuer and sql.Scanner glue of the generated Go enum.
package relational

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"github.com/lib/pq"

	"github.com/syssam/tablegen/compiler/gen"
)

// Printer implements gen.ArtifactPrinter.
type Printer struct{}

// NewPrinter returns a relational printer.
func NewPrinter() *Printer {
	return &Printer{}
}

// Name implements gen.ArtifactPrinter.
func (*Printer) Name() string {
	return "relational"
}

// Artifacts returns a single DDL file creating one enum type per generated
// enumeration flagged queryable. It returns nothing when relational output
// is not configured or no enumeration is flagged.
func (p *Printer) Artifacts(g *gen.Graph) ([]gen.Artifact, error) {
	if g.Relational == nil {
		return nil, nil
	}
	ns := schema.New(g.Relational.Schema)
	var (
		buf bytes.Buffer
		n   int
	)
	fmt.Fprintf(&buf, "-- %s\n", g.HeaderComment())
	for _, e := range g.GeneratedEnums() {
		if !e.Queryable {
			continue
		}
		stmts, err := Statements(ns, e)
		if err != nil {
			return nil, gen.NewGenerationError(p.Name(), g.Relational.File, "plan "+e.TypeID(), err)
		}
		buf.WriteByte('\n')
		for _, s := range stmts {
			buf.WriteString(s)
			buf.WriteByte('\n')
		}
		n++
	}
	if n == 0 {
		return nil, nil
	}
	return []gen.Artifact{{Path: g.Relational.File, Data: buf.Bytes()}}, nil
}

// TypeName returns the relational type name of e: "character_race".
func TypeName(e *gen.Enum) string {
	var parts []string
	for _, p := range e.Name.Path() {
		parts = append(parts, gen.Snake(p))
	}
	return strings.Join(parts, "_")
}

// Statements returns the DDL statements of e inside ns, each terminated by
// a semicolon: the planned CREATE TYPE preceded by its comment line and a
// COMMENT ON TYPE naming the source type id.
func Statements(ns *schema.Schema, e *gen.Enum) ([]string, error) {
	typ := &schema.EnumType{T: TypeName(e), Values: e.Values, Schema: ns}
	plan, err := postgres.DefaultPlan.PlanChanges(context.Background(), e.TypeID(), []schema.Change{
		&schema.AddObject{O: typ},
	})
	if err != nil {
		return nil, err
	}
	if len(plan.Changes) == 0 {
		return nil, fmt.Errorf("empty plan for enum type %s", typ.T)
	}
	var stmts []string
	for _, c := range plan.Changes {
		if c.Comment != "" {
			stmts = append(stmts, "-- "+c.Comment)
		}
		stmts = append(stmts, strings.TrimSuffix(c.Cmd, ";")+";")
	}
	ident := pq.QuoteIdentifier(ns.Name) + "." + pq.QuoteIdentifier(typ.T)
	stmts = append(stmts, fmt.Sprintf("COMMENT ON TYPE %s IS %s;", ident, pq.QuoteLiteral(e.TypeID())))
	return stmts, nil
}
