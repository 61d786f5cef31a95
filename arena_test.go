package tablegen

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   DataID
	Name string
}

func (r *row) GetID() DataID { return r.ID }

func TestArena(t *testing.T) {
	t.Run("Get returns every published row", func(t *testing.T) {
		const n = 50
		a := NewArena[*row]("test.Row")
		rows := make(map[DataID]*row, n)
		for i := range DataID(n) {
			rows[i] = &row{ID: i}
		}
		require.NoError(t, a.Publish(rows))

		for i := range DataID(n) {
			v, ok := a.Get(i)
			require.True(t, ok)
			assert.Equal(t, i, v.ID)
		}
		_, ok := a.Get(n)
		assert.False(t, ok)
		assert.Equal(t, n, a.Len())
	})

	t.Run("Nothing is visible before publication", func(t *testing.T) {
		a := NewArena[*row]("test.Row")
		_, ok := a.Get(0)
		assert.False(t, ok)
		assert.Zero(t, a.Len())
		assert.False(t, a.Loaded())
		for range a.All() {
			t.Fatal("unexpected row")
		}
	})

	t.Run("Publish is write once", func(t *testing.T) {
		a := NewArena[*row]("test.Row")
		require.NoError(t, a.Publish(map[DataID]*row{1: {ID: 1}}))
		err := a.Publish(map[DataID]*row{2: {ID: 2}})
		assert.True(t, errors.Is(err, ErrAlreadyLoaded))
		_, ok := a.Get(2)
		assert.False(t, ok)
	})

	t.Run("All iterates in id order", func(t *testing.T) {
		a := NewArena[*row]("test.Row")
		require.NoError(t, a.Publish(map[DataID]*row{3: {ID: 3}, 1: {ID: 1}, 2: {ID: 2}}))
		var ids []DataID
		for id := range a.All() {
			ids = append(ids, id)
		}
		assert.Equal(t, []DataID{1, 2, 3}, ids)

		ids = ids[:0]
		for id := range a.All() {
			ids = append(ids, id)
			break
		}
		assert.Equal(t, []DataID{1}, ids)
	})
}

func TestSharedArena(t *testing.T) {
	t.Run("Insert before reset fails", func(t *testing.T) {
		a := NewSharedArena[Record]("test.Item")
		err := a.Insert(1, &row{ID: 1})
		assert.True(t, errors.Is(err, ErrNotLoaded))
	})

	t.Run("Duplicate ids are rejected", func(t *testing.T) {
		a := NewSharedArena[Record]("test.Item")
		a.Reset()
		require.NoError(t, a.Insert(1, &row{ID: 1}))
		err := a.Insert(1, &row{ID: 1, Name: "other"})
		var dup *DuplicateIDError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "test.Item", dup.Table)
		assert.Equal(t, DataID(1), dup.ID)
	})

	t.Run("Concurrent inserts keep exactly one winner", func(t *testing.T) {
		a := NewSharedArena[Record]("test.Item")
		a.Reset()
		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			failures int
		)
		for i := range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for id := range DataID(100) {
					if err := a.Insert(id, &row{ID: id, Name: string(rune('a' + i))}); err != nil {
						mu.Lock()
						failures++
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 100, a.Len())
		assert.Equal(t, 15*100, failures)
	})

	t.Run("Reset clears", func(t *testing.T) {
		a := NewSharedArena[Record]("test.Item")
		a.Reset()
		require.NoError(t, a.Insert(2, &row{ID: 2}))
		require.NoError(t, a.Insert(1, &row{ID: 1}))
		var ids []DataID
		for id, v := range a.All() {
			assert.Equal(t, id, v.GetID())
			ids = append(ids, id)
		}
		assert.Equal(t, []DataID{1, 2}, ids)

		a.Reset()
		assert.Zero(t, a.Len())
	})
}

func TestLink(t *testing.T) {
	target := NewArena[*row]("test.Row")
	require.NoError(t, target.Publish(map[DataID]*row{1: {ID: 1, Name: "Sword"}}))

	t.Run("Unresolved link has no target", func(t *testing.T) {
		l := NewLink[*row](1)
		assert.Equal(t, DataID(1), l.ID())
		assert.False(t, l.Resolved())
		_, ok := l.Get()
		assert.False(t, ok)
		assert.PanicsWithError(t, "tablegen: link not resolved: id 1", func() { l.MustGet() })
		assert.Equal(t, "Link(1, unresolved)", l.String())
	})

	t.Run("Resolve finds the target row", func(t *testing.T) {
		l := NewLink[*row](1)
		require.NoError(t, l.Resolve(target))
		v, ok := l.Get()
		require.True(t, ok)
		want, _ := target.Get(1)
		assert.Same(t, want, v)
		assert.Same(t, want, l.MustGet())
		assert.Equal(t, "Link(1)", l.String())
		assert.NoError(t, l.Resolve(target))
	})

	t.Run("Resolve fails on missing id", func(t *testing.T) {
		l := NewLink[*row](2)
		err := l.Resolve(target)
		var missing *MissingLinkError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "test.Row", missing.Target)
		assert.Equal(t, DataID(2), missing.ID)
		assert.False(t, l.Resolved())
	})

	t.Run("Zero value is unresolved", func(t *testing.T) {
		var l Link[*row]
		assert.False(t, l.Resolved())
		assert.Equal(t, DataID(0), l.ID())
	})
}
