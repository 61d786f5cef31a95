package load

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Target selects which build consumes a declaration.
type Target string

// Targets.
const (
	TargetClient Target = "client"
	TargetServer Target = "server"
	TargetAll    Target = "all"
	TargetNone   Target = "none"
)

// Included reports whether declarations with this target are generated.
// The generator builds the server side, so only server and all qualify.
func (t Target) Included() bool {
	return t == TargetServer || t == TargetAll
}

// Entry is one element of a declaration document. Exactly one of Mod, Schema,
// Enum and Const is set; Table names the data file of a concrete table and is
// empty for abstract tables.
type Entry struct {
	Mod    string `json:"mod,omitempty"`
	Table  string `json:"table,omitempty"`
	Schema string `json:"schema,omitempty"`
	Enum   string `json:"enum,omitempty"`
	Const  string `json:"const,omitempty"`
}

// Declaration lists the entities of one module, in declaration order.
type Declaration []Entry

// ScalarType names a built-in cell type.
type ScalarType string

// Scalar types.
const (
	ScalarID       ScalarType = "id"
	ScalarBool     ScalarType = "bool"
	ScalarInt8     ScalarType = "int8"
	ScalarInt16    ScalarType = "int16"
	ScalarInt32    ScalarType = "int32"
	ScalarInt64    ScalarType = "int64"
	ScalarUint8    ScalarType = "uint8"
	ScalarUint16   ScalarType = "uint16"
	ScalarUint32   ScalarType = "uint32"
	ScalarUint64   ScalarType = "uint64"
	ScalarFloat32  ScalarType = "float32"
	ScalarFloat64  ScalarType = "float64"
	ScalarString   ScalarType = "string"
	ScalarDatetime ScalarType = "datetime"
	ScalarDuration ScalarType = "duration"
)

// Signed reports whether t is a signed integer type.
func (t ScalarType) Signed() bool {
	switch t {
	case ScalarInt8, ScalarInt16, ScalarInt32, ScalarInt64:
		return true
	}
	return false
}

// Unsigned reports whether t is an unsigned integer type. Identifiers count
// as unsigned.
func (t ScalarType) Unsigned() bool {
	switch t {
	case ScalarID, ScalarUint8, ScalarUint16, ScalarUint32, ScalarUint64:
		return true
	}
	return false
}

// Float reports whether t is a floating point type.
func (t ScalarType) Float() bool {
	return t == ScalarFloat32 || t == ScalarFloat64
}

// Numeric reports whether values of t can be compared against min and max
// constraints.
func (t ScalarType) Numeric() bool {
	return t.Signed() || t.Unsigned() || t.Float()
}

// Bits returns the size of an integer or float type.
func (t ScalarType) Bits() int {
	switch t {
	case ScalarInt8, ScalarUint8:
		return 8
	case ScalarInt16, ScalarUint16:
		return 16
	case ScalarInt32, ScalarUint32, ScalarFloat32, ScalarID:
		return 32
	case ScalarInt64, ScalarUint64, ScalarFloat64:
		return 64
	}
	return 0
}

// KindTag discriminates field kinds.
type KindTag string

// Field kinds.
const (
	KindScalar KindTag = "scalar"
	KindEnum   KindTag = "enum"
	KindLink   KindTag = "link"
	KindTuple  KindTag = "tuple"
)

// FieldKind describes the value type of a field or tuple component. Type holds
// the scalar type for scalars and the referenced type id for enums and links.
type FieldKind struct {
	Tag   KindTag     `json:"kind"`
	Type  string      `json:"type,omitempty"`
	Types []FieldKind `json:"types,omitempty"`
}

// Constraint is a field constraint: "unique", {"min": n} or {"max": n}.
type Constraint struct {
	Unique bool
	Min    *int64
	Max    *int64
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Constraint) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "unique" {
			return fmt.Errorf("unknown constraint %q", s)
		}
		*c = Constraint{Unique: true}
		return nil
	}
	var bound struct {
		Min *int64 `json:"min"`
		Max *int64 `json:"max"`
	}
	if err := json.Unmarshal(data, &bound); err != nil {
		return err
	}
	if (bound.Min == nil) == (bound.Max == nil) {
		return fmt.Errorf("constraint must set exactly one of min and max: %s", data)
	}
	*c = Constraint{Min: bound.Min, Max: bound.Max}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c Constraint) MarshalJSON() ([]byte, error) {
	switch {
	case c.Unique:
		return []byte(`"unique"`), nil
	case c.Min != nil:
		return []byte(`{"min":` + strconv.FormatInt(*c.Min, 10) + `}`), nil
	case c.Max != nil:
		return []byte(`{"max":` + strconv.FormatInt(*c.Max, 10) + `}`), nil
	}
	return nil, fmt.Errorf("empty constraint")
}

// Field is a table column.
type Field struct {
	Name   string `json:"name"`
	Target Target `json:"target"`
	FieldKind
	Optional    bool         `json:"optional,omitempty"`
	Multi       bool         `json:"multi,omitempty"`
	Constraints []Constraint `json:"constraints,omitempty"`
}

// TableKind discriminates tables.
type TableKind string

// Table kinds.
const (
	TableConcrete TableKind = "concrete"
	TableAbstract TableKind = "abstract"
)

// Table is a table schema document.
type Table struct {
	Kind   TableKind `json:"kind"`
	Name   string    `json:"name"`
	Sheet  string    `json:"sheet,omitempty"`
	Fields []*Field  `json:"fields"`
	Extend string    `json:"extend,omitempty"`
}

// Attribute requests an optional capability on a generated enumeration.
type Attribute struct {
	Target    Target `json:"target"`
	Attribute string `json:"attribute"`
}

// Enumeration attributes.
const (
	AttributeText    = "text"
	AttributeMsgpack = "msgpack"
)

// Enum is an enumeration schema document.
type Enum struct {
	Name       string      `json:"name"`
	Base       ScalarType  `json:"base"`
	Enums      []string    `json:"enums"`
	Target     Target      `json:"target"`
	Protocol   bool        `json:"protocol,omitempty"`
	Queryable  bool        `json:"queryable,omitempty"`
	GraphQL    bool        `json:"graphql,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

// Const is a constant schema document. Value keeps the literal as written so
// integers wider than float64 survive decoding.
type Const struct {
	Name       string          `json:"name"`
	Target     Target          `json:"target"`
	ScalarType ScalarType      `json:"scalarType"`
	Value      json.RawMessage `json:"value"`
}
