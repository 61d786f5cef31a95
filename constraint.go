package tablegen

import (
	"cmp"
	"fmt"

	"golang.org/x/exp/constraints"
)

// Number is the set of field types min and max constraints apply to.
type Number interface {
	constraints.Integer | constraints.Float
}

// UniqueSet records the values of a unique field during one load pass.
type UniqueSet[K comparable] struct {
	seen map[K]int
}

// NewUniqueSet returns an empty set.
func NewUniqueSet[K comparable]() *UniqueSet[K] {
	return &UniqueSet[K]{seen: make(map[K]int)}
}

// Check records v as seen at row. It fails if an earlier row holds v.
func (u *UniqueSet[K]) Check(v K, row int) error {
	if first, ok := u.seen[v]; ok {
		return &ConstraintError{Kind: Unique, Value: fmt.Sprint(v), FirstRow: first}
	}
	u.seen[v] = row
	return nil
}

// CheckMin fails if v is below bound.
func CheckMin[T Number](v T, bound int64) error {
	if compareBound(v, bound) < 0 {
		return &ConstraintError{Kind: Min, Value: fmt.Sprint(v), Bound: bound}
	}
	return nil
}

// CheckMax fails if v is above bound.
func CheckMax[T Number](v T, bound int64) error {
	if compareBound(v, bound) > 0 {
		return &ConstraintError{Kind: Max, Value: fmt.Sprint(v), Bound: bound}
	}
	return nil
}

// compareBound compares v with bound. Integers are compared exactly; only
// floating point values go through float64.
func compareBound[T Number](v T, bound int64) int {
	var zero, one T = 0, 1
	switch {
	case one/2 != zero:
		return cmp.Compare(float64(v), float64(bound))
	case zero-one < zero:
		return cmp.Compare(int64(v), bound)
	case bound < 0:
		return 1
	}
	return cmp.Compare(uint64(v), uint64(bound))
}
