package tablegen

import "fmt"

// Link is a reference to a row of another table.
//
// A Link is created unresolved, holding only the target id. It becomes
// resolved during the init phase, after which Get returns the target row.
// The zero value is an unresolved link to id 0.
type Link[T any] struct {
	id       DataID
	resolved bool
	target   T
}

// NewLink returns an unresolved link to id.
func NewLink[T any](id DataID) Link[T] {
	return Link[T]{id: id}
}

// ID returns the id of the target row.
func (l Link[T]) ID() DataID {
	return l.id
}

// Resolved reports whether the link was resolved.
func (l Link[T]) Resolved() bool {
	return l.resolved
}

// Get returns the target row. It reports false while the link is unresolved.
func (l Link[T]) Get() (T, bool) {
	if !l.resolved {
		var zero T
		return zero, false
	}
	return l.target, true
}

// MustGet returns the target row. It panics if the link is unresolved, which
// cannot happen once the dataset it belongs to has loaded successfully.
func (l Link[T]) MustGet() T {
	if !l.resolved {
		panic(fmt.Errorf("%w: id %d", ErrUnresolvedLink, l.id))
	}
	return l.target
}

// Resolve looks the link id up in src and stores the found row.
// Resolving an already resolved link is a no-op.
func (l *Link[T]) Resolve(src Linkable[T]) error {
	if l.resolved {
		return nil
	}
	v, ok := src.Get(l.id)
	if !ok {
		return &MissingLinkError{Target: targetName(src), ID: l.id}
	}
	l.target = v
	l.resolved = true
	return nil
}

// String formats the link for debugging.
func (l Link[T]) String() string {
	if l.resolved {
		return fmt.Sprintf("Link(%d)", l.id)
	}
	return fmt.Sprintf("Link(%d, unresolved)", l.id)
}

func targetName(v any) string {
	if n, ok := v.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", v)
}
