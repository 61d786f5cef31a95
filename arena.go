package tablegen

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
)

const (
	arenaEmpty uint32 = iota
	arenaPublishing
	arenaPublished
)

// Arena is the write-once store of a concrete table's rows.
//
// It is empty until Publish is called once, and read-only afterwards. Reads
// before publication find nothing.
type Arena[T any] struct {
	name  string
	state atomic.Uint32
	rows  map[DataID]T
	ids   []DataID
}

// NewArena returns an empty arena for the named table.
func NewArena[T any](name string) *Arena[T] {
	return &Arena[T]{name: name}
}

// Name returns the qualified name of the table.
func (a *Arena[T]) Name() string { return a.name }

// Publish stores rows in the arena. The arena takes ownership of the map.
// It fails with ErrAlreadyLoaded if the arena was already published.
func (a *Arena[T]) Publish(rows map[DataID]T) error {
	if !a.state.CompareAndSwap(arenaEmpty, arenaPublishing) {
		return fmt.Errorf("%w: %s", ErrAlreadyLoaded, a.name)
	}
	ids := slices.Sorted(maps.Keys(rows))
	a.rows, a.ids = rows, ids
	a.state.Store(arenaPublished)
	return nil
}

// Loaded reports whether the arena was published.
func (a *Arena[T]) Loaded() bool {
	return a.state.Load() == arenaPublished
}

// Get implements Linkable.
func (a *Arena[T]) Get(id DataID) (T, bool) {
	if !a.Loaded() {
		var zero T
		return zero, false
	}
	v, ok := a.rows[id]
	return v, ok
}

// Len returns the number of rows in the arena.
func (a *Arena[T]) Len() int {
	if !a.Loaded() {
		return 0
	}
	return len(a.rows)
}

// All iterates over the rows in ascending id order.
func (a *Arena[T]) All() iter.Seq2[DataID, T] {
	return func(yield func(DataID, T) bool) {
		if !a.Loaded() {
			return
		}
		for _, id := range a.ids {
			if !yield(id, a.rows[id]) {
				return
			}
		}
	}
}

// SharedArena is the store of an abstract table. It is filled incrementally
// by the concurrent loads of its descendant tables, so every insert is a
// guarded check-then-insert.
type SharedArena[T any] struct {
	name string
	mu   sync.RWMutex
	rows map[DataID]T
}

// NewSharedArena returns an uninitialized shared arena for the named table.
func NewSharedArena[T any](name string) *SharedArena[T] {
	return &SharedArena[T]{name: name}
}

// Name returns the qualified name of the table.
func (a *SharedArena[T]) Name() string { return a.name }

// Reset initializes the arena to empty. It must run before any descendant loads.
func (a *SharedArena[T]) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rows = make(map[DataID]T)
}

// Insert implements Inserter. An id already present in the arena, whichever
// descendant inserted it, fails with a DuplicateIDError.
func (a *SharedArena[T]) Insert(id DataID, v T) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.rows == nil {
		return fmt.Errorf("%w: %s", ErrNotLoaded, a.name)
	}
	if _, ok := a.rows[id]; ok {
		return &DuplicateIDError{Table: a.name, ID: id}
	}
	a.rows[id] = v
	return nil
}

// Get implements Linkable.
func (a *SharedArena[T]) Get(id DataID) (T, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.rows[id]
	return v, ok
}

// Len returns the number of rows in the arena.
func (a *SharedArena[T]) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.rows)
}

// All iterates over a snapshot of the rows in ascending id order.
func (a *SharedArena[T]) All() iter.Seq2[DataID, T] {
	return func(yield func(DataID, T) bool) {
		a.mu.RLock()
		ids := slices.Sorted(maps.Keys(a.rows))
		rows := make([]T, len(ids))
		for i, id := range ids {
			rows[i] = a.rows[id]
		}
		a.mu.RUnlock()
		for i, id := range ids {
			if !yield(id, rows[i]) {
				return
			}
		}
	}
}
