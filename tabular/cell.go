package tabular

import (
	"fmt"
	"strconv"
	"time"
)

// Kind is the type of value held by a Cell.
type Kind uint8

// Cell kinds.
const (
	KindEmpty Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Cell is a single typed value of a row. The zero value is an empty cell.
type Cell struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
}

// Empty returns an empty cell.
func Empty() Cell { return Cell{} }

// Int returns an integer cell.
func Int(v int64) Cell { return Cell{kind: KindInt, i: v} }

// Float returns a floating point cell.
func Float(v float64) Cell { return Cell{kind: KindFloat, f: v} }

// String returns a string cell.
func String(v string) Cell { return Cell{kind: KindString, s: v} }

// Bool returns a boolean cell.
func Bool(v bool) Cell { return Cell{kind: KindBool, b: v} }

// Value converts a decoded Go value into a cell. It accepts the value types
// produced by encoding/json, yaml.v3 and database/sql scanning.
func Value(v any) (Cell, error) {
	switch v := v.(type) {
	case nil:
		return Empty(), nil
	case Cell:
		return v, nil
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint8:
		return Int(int64(v)), nil
	case uint16:
		return Int(int64(v)), nil
	case uint32:
		return Int(int64(v)), nil
	case uint64:
		if v > 1<<63-1 {
			return Float(float64(v)), nil
		}
		return Int(int64(v)), nil
	case float32:
		return Float(float64(v)), nil
	case float64:
		return Float(v), nil
	case string:
		return String(v), nil
	case []byte:
		return String(string(v)), nil
	case bool:
		return Bool(v), nil
	case time.Time:
		return String(v.Format(time.RFC3339)), nil
	default:
		return Cell{}, fmt.Errorf("tabular: unsupported cell value %T", v)
	}
}

// Kind returns the kind of value held by the cell.
func (c Cell) Kind() Kind { return c.kind }

// IsEmpty reports whether the cell holds no value. A string cell holding
// only the empty string is also treated as empty.
func (c Cell) IsEmpty() bool {
	return c.kind == KindEmpty || (c.kind == KindString && c.s == "")
}

// Int returns the integer value of the cell. Float cells holding a whole
// number are accepted, since spreadsheet formats often store numbers as floats.
func (c Cell) Int() (int64, bool) {
	switch c.kind {
	case KindInt:
		return c.i, true
	case KindFloat:
		if c.f == float64(int64(c.f)) {
			return int64(c.f), true
		}
	}
	return 0, false
}

// Float returns the numeric value of the cell.
func (c Cell) Float() (float64, bool) {
	switch c.kind {
	case KindFloat:
		return c.f, true
	case KindInt:
		return float64(c.i), true
	}
	return 0, false
}

// Text returns the value of a string cell.
func (c Cell) Text() (string, bool) {
	if c.kind == KindString {
		return c.s, true
	}
	return "", false
}

// Bool returns the value of a boolean cell.
func (c Cell) Bool() (bool, bool) {
	if c.kind == KindBool {
		return c.b, true
	}
	return false, false
}

// String formats the cell value for error messages.
func (c Cell) String() string {
	switch c.kind {
	case KindInt:
		return strconv.FormatInt(c.i, 10)
	case KindFloat:
		return strconv.FormatFloat(c.f, 'g', -1, 64)
	case KindString:
		return strconv.Quote(c.s)
	case KindBool:
		return strconv.FormatBool(c.b)
	default:
		return "<empty>"
	}
}
