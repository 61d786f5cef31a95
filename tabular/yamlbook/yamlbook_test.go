package yamlbook

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/tablegen/tabular"
)

const weapons = `
Weapon:
  - [id, name, weight, tags]
  - [DataID, Name, Weight, Tags]
  - [1, Sword, 10, "[a, b]"]
  - [2, Axe, 14.5, ~]
  - [3, "", true]
`

func TestParse(t *testing.T) {
	ctx := context.Background()
	b, err := Parse([]byte(weapons), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Sheets())

	rows, err := b.Sheet(ctx, "Weapon")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	first := rows[0]
	assert.Equal(t, 3, first.Number)
	require.Equal(t, 4, first.Len())
	id, ok := first.Cells[0].Int()
	require.True(t, ok)
	assert.Equal(t, int64(1), id)
	name, ok := first.Cells[1].Text()
	require.True(t, ok)
	assert.Equal(t, "Sword", name)

	assert.Equal(t, tabular.KindFloat, rows[1].Cells[2].Kind())
	assert.True(t, rows[1].Cells[3].IsEmpty())
	assert.True(t, rows[2].Cells[1].IsEmpty())
	assert.Equal(t, tabular.KindBool, rows[2].Cells[2].Kind())

	_, err = b.Sheet(ctx, "Armor")
	assert.ErrorIs(t, err, tabular.ErrSheetNotFound)
}

func TestParseHeaderOverride(t *testing.T) {
	b, err := Parse([]byte(weapons), 1)
	require.NoError(t, err)
	rows, err := b.Sheet(context.Background(), "Weapon")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("Weapon: [1, 2"), 0)
	assert.Error(t, err)
}

func TestOpenRegistered(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weapon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(weapons), 0o644))

	wb, err := tabular.Open(context.Background(), path)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.Sheet(context.Background(), "Weapon")
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	_, err = tabular.Open(context.Background(), filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)
}
