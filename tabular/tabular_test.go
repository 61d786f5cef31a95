package tabular

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell(t *testing.T) {
	t.Run("Zero value is empty", func(t *testing.T) {
		var c Cell
		assert.True(t, c.IsEmpty())
		assert.Equal(t, KindEmpty, c.Kind())
		assert.Equal(t, "<empty>", c.String())
	})

	t.Run("Empty string is empty", func(t *testing.T) {
		assert.True(t, String("").IsEmpty())
		assert.False(t, String(" ").IsEmpty())
	})

	t.Run("Whole floats read as ints", func(t *testing.T) {
		v, ok := Float(42).Int()
		require.True(t, ok)
		assert.Equal(t, int64(42), v)

		_, ok = Float(4.5).Int()
		assert.False(t, ok)
	})

	t.Run("Ints read as floats", func(t *testing.T) {
		v, ok := Int(3).Float()
		require.True(t, ok)
		assert.Equal(t, 3.0, v)
	})

	t.Run("Accessors reject other kinds", func(t *testing.T) {
		_, ok := Int(1).Text()
		assert.False(t, ok)
		_, ok = String("1").Int()
		assert.False(t, ok)
		_, ok = Int(1).Bool()
		assert.False(t, ok)
	})
}

func TestValue(t *testing.T) {
	tests := []struct {
		in   any
		kind Kind
	}{
		{nil, KindEmpty},
		{7, KindInt},
		{int64(-7), KindInt},
		{uint16(7), KindInt},
		{uint64(1 << 63), KindFloat},
		{1.5, KindFloat},
		{"x", KindString},
		{[]byte("x"), KindString},
		{true, KindBool},
		{time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), KindString},
	}
	for _, tt := range tests {
		c, err := Value(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.kind, c.Kind(), "%v", tt.in)
	}

	_, err := Value(struct{}{})
	assert.Error(t, err)
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	wb, err := NewMemory().AddValues("Weapon",
		[]any{1, "Sword"},
		[]any{2, "Axe"},
	)
	require.NoError(t, err)

	rows, err := wb.Sheet(ctx, "Weapon")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, HeaderRows+1, rows[0].Number)
	assert.Equal(t, 2, rows[1].Len())

	_, err = wb.Sheet(ctx, "Armor")
	assert.ErrorIs(t, err, ErrSheetNotFound)

	src := MemorySource{"item/weapon.mem": wb}
	opened, err := src.Open(ctx, "item/weapon.mem")
	require.NoError(t, err)
	assert.Same(t, wb, opened)
	_, err = src.Open(ctx, "missing")
	assert.Error(t, err)
	assert.NoError(t, wb.Close())
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	wb := NewMemory().AddSheet("S", []Cell{Int(1)})
	Register("test-mem", SourceFunc(func(context.Context, string) (Workbook, error) {
		return wb, nil
	}))

	assert.Contains(t, Extensions(), ".test-mem")
	opened, err := Open(ctx, "some/file.TEST-MEM")
	require.NoError(t, err)
	assert.Same(t, wb, opened)

	_, err = Default.Open(ctx, "file.unknown")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	assert.Panics(t, func() {
		Register(".test-mem", SourceFunc(func(context.Context, string) (Workbook, error) { return nil, nil }))
	})
	assert.Panics(t, func() { Register(".nil", nil) })
}

func TestBody(t *testing.T) {
	rows := []Row{{Number: 1}, {Number: 2}, {Number: 3}}
	assert.Equal(t, []Row{{Number: 3}}, Body(rows, HeaderRows))
	assert.Nil(t, Body(rows, 5))
	assert.Len(t, Body(rows, -1), 3)
}
