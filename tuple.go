package tablegen

import (
	"fmt"
	"strings"
)

// Tuple2 is the value of a two-item tuple field.
type Tuple2[A, B any] struct {
	First  A
	Second B
}

// Tuple3 is the value of a three-item tuple field.
type Tuple3[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Tuple4 is the value of a four-item tuple field.
type Tuple4[A, B, C, D any] struct {
	First  A
	Second B
	Third  C
	Fourth D
}

func tupleType(types ...string) string {
	return "(" + strings.Join(types, ", ") + ")"
}

func tupleParser[T any](typ string, n int, build func(parts []string) (T, error)) Parser[T] {
	text := func(s string) (T, error) {
		parts, err := SplitTuple(s, n)
		if err != nil {
			var zero T
			return zero, err
		}
		return build(parts)
	}
	return Parser[T]{Type: typ, Cell: textCell(typ, text), Text: text}
}

// TupleOf2 returns the parser of "(a, b)" cells.
func TupleOf2[A, B any](a Parser[A], b Parser[B]) Parser[Tuple2[A, B]] {
	return tupleParser(tupleType(a.Type, b.Type), 2, func(parts []string) (t Tuple2[A, B], err error) {
		if t.First, err = a.Text(parts[0]); err != nil {
			return t, fmt.Errorf("item 1: %w", err)
		}
		if t.Second, err = b.Text(parts[1]); err != nil {
			return t, fmt.Errorf("item 2: %w", err)
		}
		return t, nil
	})
}

// TupleOf3 returns the parser of "(a, b, c)" cells.
func TupleOf3[A, B, C any](a Parser[A], b Parser[B], c Parser[C]) Parser[Tuple3[A, B, C]] {
	return tupleParser(tupleType(a.Type, b.Type, c.Type), 3, func(parts []string) (t Tuple3[A, B, C], err error) {
		if t.First, err = a.Text(parts[0]); err != nil {
			return t, fmt.Errorf("item 1: %w", err)
		}
		if t.Second, err = b.Text(parts[1]); err != nil {
			return t, fmt.Errorf("item 2: %w", err)
		}
		if t.Third, err = c.Text(parts[2]); err != nil {
			return t, fmt.Errorf("item 3: %w", err)
		}
		return t, nil
	})
}

// TupleOf4 returns the parser of "(a, b, c, d)" cells.
func TupleOf4[A, B, C, D any](a Parser[A], b Parser[B], c Parser[C], d Parser[D]) Parser[Tuple4[A, B, C, D]] {
	return tupleParser(tupleType(a.Type, b.Type, c.Type, d.Type), 4, func(parts []string) (t Tuple4[A, B, C, D], err error) {
		if t.First, err = a.Text(parts[0]); err != nil {
			return t, fmt.Errorf("item 1: %w", err)
		}
		if t.Second, err = b.Text(parts[1]); err != nil {
			return t, fmt.Errorf("item 2: %w", err)
		}
		if t.Third, err = c.Text(parts[2]); err != nil {
			return t, fmt.Errorf("item 3: %w", err)
		}
		if t.Fourth, err = d.Text(parts[3]); err != nil {
			return t, fmt.Errorf("item 4: %w", err)
		}
		return t, nil
	})
}

