package tablegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/exp/constraints"

	"github.com/syssam/tablegen/tabular"
)

// Parser converts cells, and the items of list and tuple cells, into values
// of one field type. Generated row parsers pick one Parser per field kind.
type Parser[T any] struct {
	// Type names the target type in error messages.
	Type string
	// Cell converts a whole cell.
	Cell func(tabular.Cell) (T, error)
	// Text converts one item of a list or tuple cell.
	Text func(string) (T, error)
}

// Parse converts a whole cell.
func (p Parser[T]) Parse(c tabular.Cell) (T, error) {
	return p.Cell(c)
}

// Optional converts a cell that may be empty. An empty cell yields nil.
func Optional[T any](p Parser[T], c tabular.Cell) (*T, error) {
	if c.IsEmpty() {
		return nil, nil
	}
	v, err := p.Cell(c)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Multi converts a list cell such as "[1, 2, 3]" or "[(1, a), (2, b)]".
// The brackets are optional, an empty cell yields an empty list, and a
// non-text cell is read as a single item.
func Multi[T any](p Parser[T], c tabular.Cell) ([]T, error) {
	if c.IsEmpty() {
		return nil, nil
	}
	s, ok := c.Text()
	if !ok {
		v, err := p.Cell(c)
		if err != nil {
			return nil, err
		}
		return []T{v}, nil
	}
	items, err := SplitList(s)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		v, err := p.Text(item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// SplitList splits a list cell at top-level commas. Commas nested inside
// parentheses or brackets belong to the item.
func SplitList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		if len(s) < 2 || !strings.HasSuffix(s, "]") {
			return nil, &ParseError{Kind: InvalidFormat, Type: "list", Expected: "[...]", Value: strconv.Quote(s)}
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if s == "" {
		return nil, nil
	}
	var (
		items []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth < 0 {
				return nil, &ParseError{Kind: InvalidFormat, Type: "list", Expected: "balanced brackets", Value: strconv.Quote(s)}
			}
		case ',':
			if depth == 0 {
				items = append(items, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, &ParseError{Kind: InvalidFormat, Type: "list", Expected: "balanced brackets", Value: strconv.Quote(s)}
	}
	return append(items, strings.TrimSpace(s[start:])), nil
}

// SplitTuple splits a tuple item such as "(1, a)" into exactly n parts.
func SplitTuple(s string, n int) ([]string, error) {
	s = strings.TrimSpace(s)
	typ := "tuple" + strconv.Itoa(n)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return nil, &ParseError{Kind: InvalidFormat, Type: typ, Expected: "(...)", Value: strconv.Quote(s)}
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != n {
		return nil, &ParseError{Kind: ItemCount, Type: typ, Want: n, Got: len(parts)}
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

func invalid(typ, expected, value string) *ParseError {
	return &ParseError{Kind: InvalidFormat, Type: typ, Expected: expected, Value: value}
}

// textCell adapts a Text conversion to string cells.
func textCell[T any](typ string, text func(string) (T, error)) func(tabular.Cell) (T, error) {
	return func(c tabular.Cell) (T, error) {
		s, ok := c.Text()
		if !ok {
			var zero T
			return zero, invalid(typ, "string", c.String())
		}
		return text(strings.TrimSpace(s))
	}
}

func bitSize[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero)) * 8
}

func typeName[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

// Int returns the parser of a signed integer type. Values outside the range
// of T fail with an OutOfRange error.
func Int[T constraints.Signed]() Parser[T] {
	typ := typeName[T]()
	bits := bitSize[T]()
	hi := int64(math.MaxInt64 >> (64 - bits))
	lo := -hi - 1
	check := func(v int64, display string) (T, error) {
		if v < lo || v > hi {
			return 0, &ParseError{Kind: OutOfRange, Type: typ, Value: display,
				Min: strconv.FormatInt(lo, 10), Max: strconv.FormatInt(hi, 10)}
		}
		return T(v), nil
	}
	text := func(s string) (T, error) {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, invalid(typ, "integer", strconv.Quote(s))
		}
		return check(v, s)
	}
	return Parser[T]{
		Type: typ,
		Cell: func(c tabular.Cell) (T, error) {
			if v, ok := c.Int(); ok {
				return check(v, c.String())
			}
			if s, ok := c.Text(); ok {
				return text(strings.TrimSpace(s))
			}
			return 0, invalid(typ, "integer", c.String())
		},
		Text: text,
	}
}

// Uint returns the parser of an unsigned integer type. Negative values and
// values above the range of T fail with an OutOfRange error.
func Uint[T constraints.Unsigned]() Parser[T] {
	typ := typeName[T]()
	bits := bitSize[T]()
	hi := uint64(math.MaxUint64 >> (64 - bits))
	outOfRange := func(display string) error {
		return &ParseError{Kind: OutOfRange, Type: typ, Value: display,
			Min: "0", Max: strconv.FormatUint(hi, 10)}
	}
	check := func(v int64, display string) (T, error) {
		if v < 0 || uint64(v) > hi {
			return 0, outOfRange(display)
		}
		return T(v), nil
	}
	text := func(s string) (T, error) {
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			if v > hi {
				return 0, outOfRange(s)
			}
			return T(v), nil
		}
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			return 0, outOfRange(s)
		}
		return 0, invalid(typ, "integer", strconv.Quote(s))
	}
	return Parser[T]{
		Type: typ,
		Cell: func(c tabular.Cell) (T, error) {
			if v, ok := c.Int(); ok {
				return check(v, c.String())
			}
			if s, ok := c.Text(); ok {
				return text(strings.TrimSpace(s))
			}
			return 0, invalid(typ, "integer", c.String())
		},
		Text: text,
	}
}

// Float returns the parser of a floating point type.
func Float[T constraints.Float]() Parser[T] {
	typ := typeName[T]()
	bits := bitSize[T]()
	text := func(s string) (T, error) {
		v, err := strconv.ParseFloat(s, bits)
		if err != nil {
			return 0, invalid(typ, "float", strconv.Quote(s))
		}
		return T(v), nil
	}
	return Parser[T]{
		Type: typ,
		Cell: func(c tabular.Cell) (T, error) {
			if v, ok := c.Float(); ok {
				if bits == 32 && math.Abs(v) > math.MaxFloat32 && !math.IsInf(v, 0) {
					return 0, &ParseError{Kind: OutOfRange, Type: typ, Value: c.String(),
						Min: strconv.FormatFloat(-math.MaxFloat32, 'g', -1, 64),
						Max: strconv.FormatFloat(math.MaxFloat32, 'g', -1, 64)}
				}
				return T(v), nil
			}
			if s, ok := c.Text(); ok {
				return text(strings.TrimSpace(s))
			}
			return 0, invalid(typ, "float", c.String())
		},
		Text: text,
	}
}

// ID returns the parser of row identifiers.
func ID() Parser[DataID] {
	p := Uint[DataID]()
	p.Type = "id"
	return p
}

// Bool returns the parser of boolean fields.
func Bool() Parser[bool] {
	text := func(s string) (bool, error) {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return false, invalid("bool", "bool", strconv.Quote(s))
		}
		return v, nil
	}
	return Parser[bool]{
		Type: "bool",
		Cell: func(c tabular.Cell) (bool, error) {
			if v, ok := c.Bool(); ok {
				return v, nil
			}
			if s, ok := c.Text(); ok {
				return text(strings.TrimSpace(s))
			}
			return false, invalid("bool", "bool", c.String())
		},
		Text: text,
	}
}

// String returns the parser of string fields. Whole cells are trimmed; an
// empty cell is the empty string.
func String() Parser[string] {
	return Parser[string]{
		Type: "string",
		Cell: func(c tabular.Cell) (string, error) {
			if c.Kind() == tabular.KindEmpty {
				return "", nil
			}
			s, ok := c.Text()
			if !ok {
				return "", invalid("string", "string", c.String())
			}
			return strings.TrimSpace(s), nil
		},
		Text: func(s string) (string, error) { return s, nil },
	}
}

// Time returns the parser of datetime fields, written as RFC 3339 or
// "2006-01-02 15:04:05" text in UTC.
func Time() Parser[time.Time] {
	text := func(s string) (time.Time, error) {
		for _, layout := range []string{time.RFC3339, time.DateTime, time.DateOnly} {
			if v, err := time.Parse(layout, s); err == nil {
				return v, nil
			}
		}
		return time.Time{}, invalid("datetime", "RFC 3339 time", strconv.Quote(s))
	}
	return Parser[time.Time]{Type: "datetime", Cell: textCell("datetime", text), Text: text}
}

// Duration returns the parser of duration fields, written as Go duration
// text ("1h30m") or a number of seconds.
func Duration() Parser[time.Duration] {
	text := func(s string) (time.Duration, error) {
		if v, err := time.ParseDuration(s); err == nil {
			return v, nil
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return time.Duration(v * float64(time.Second)), nil
		}
		return 0, invalid("duration", "duration", strconv.Quote(s))
	}
	return Parser[time.Duration]{
		Type: "duration",
		Cell: func(c tabular.Cell) (time.Duration, error) {
			if v, ok := c.Float(); ok {
				return time.Duration(v * float64(time.Second)), nil
			}
			if s, ok := c.Text(); ok {
				return text(strings.TrimSpace(s))
			}
			return 0, invalid("duration", "duration", c.String())
		},
		Text: text,
	}
}

// Enum returns the parser of an enumeration. Cells must hold the exact
// variant name; lookup reports whether a name is a variant.
func Enum[T any](typ string, lookup func(string) (T, bool)) Parser[T] {
	text := func(s string) (T, error) {
		v, ok := lookup(s)
		if !ok {
			return v, &ParseError{Kind: InvalidEnumValue, Type: typ, Value: strconv.Quote(s)}
		}
		return v, nil
	}
	return Parser[T]{Type: typ, Cell: textCell(typ, text), Text: text}
}

// LinkTo returns the parser of links to rows of type T. The parsed links are
// unresolved.
func LinkTo[T any]() Parser[Link[T]] {
	id := ID()
	return Parser[Link[T]]{
		Type: "link",
		Cell: func(c tabular.Cell) (Link[T], error) {
			v, err := id.Cell(c)
			if err != nil {
				return Link[T]{}, err
			}
			return NewLink[T](v), nil
		},
		Text: func(s string) (Link[T], error) {
			v, err := id.Text(s)
			if err != nil {
				return Link[T]{}, err
			}
			return NewLink[T](v), nil
		},
	}
}

// CheckColumns fails with a ColumnCount error when row has fewer than n cells.
func CheckColumns(row tabular.Row, n int) error {
	if row.Len() < n {
		return &ParseError{Kind: ColumnCount, Want: n, Got: row.Len()}
	}
	return nil
}
