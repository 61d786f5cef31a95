package gen

import (
	"path"
	"regexp"
	"strings"

	"github.com/go-openapi/inflect"
)

// Name identifies a module or entity by its local name and the path of
// modules enclosing it.
type Name struct {
	Local     string
	Namespace []string
}

// NewName returns the name local inside namespace.
func NewName(local string, namespace ...string) Name {
	return Name{Local: local, Namespace: namespace}
}

// Path returns the namespace extended by the local name. For modules it is
// the namespace of the module's entities.
func (n Name) Path() []string {
	if n.Local == "" {
		return nil
	}
	p := make([]string, 0, len(n.Namespace)+1)
	return append(append(p, n.Namespace...), n.Local)
}

// Child returns the name of an entity declared inside module n.
func (n Name) Child(local string) Name {
	return Name{Local: local, Namespace: n.Path()}
}

// TypeID returns the qualified type id, e.g. "item.RandomBox". Type ids are
// unique across a graph and are how schemas reference each other.
func (n Name) TypeID() string {
	if len(n.Namespace) == 0 {
		return Pascal(n.Local)
	}
	return strings.Join(n.Namespace, ".") + "." + Pascal(n.Local)
}

// Entity returns the snake case local name, used for file names.
func (n Name) Entity() string {
	return Snake(n.Local)
}

// GoName returns the exported Go identifier of the entity in the flat
// generated package, e.g. "ItemRandomBox".
func (n Name) GoName() string {
	var b strings.Builder
	for _, ns := range n.Namespace {
		b.WriteString(Pascal(ns))
	}
	b.WriteString(Pascal(n.Local))
	return b.String()
}

// Dir returns the slash separated namespace directory.
func (n Name) Dir() string {
	return path.Join(n.Namespace...)
}

// String implements fmt.Stringer.
func (n Name) String() string {
	if n.Local == "" {
		return "<root>"
	}
	return n.TypeID()
}

var initialisms = map[string]string{
	"id":   "ID",
	"ids":  "IDs",
	"hp":   "HP",
	"mp":   "MP",
	"url":  "URL",
	"json": "JSON",
	"sql":  "SQL",
	"ui":   "UI",
	"xp":   "XP",
}

// Pascal converts a snake or camel case name to an exported Go identifier,
// keeping common initialisms upper case: "max_hp" becomes "MaxHP".
func Pascal(s string) string {
	var b strings.Builder
	for word := range strings.SplitSeq(Snake(s), "_") {
		if word == "" {
			continue
		}
		if up, ok := initialisms[word]; ok {
			b.WriteString(up)
			continue
		}
		b.WriteString(inflect.Camelize(word))
	}
	return b.String()
}

// Snake converts a name to lower snake case: "RandomBox" becomes "random_box".
func Snake(s string) string {
	if s == "" {
		return ""
	}
	return inflect.Underscore(s)
}

var identRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validIdent reports whether s can name a module or entity.
func validIdent(s string) bool {
	return identRE.MatchString(s)
}
