package load

import (
	"encoding/json"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoader(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, data := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(data)}
	}
	l, err := New(fsys)
	require.NoError(t, err)
	return l
}

func TestDeclaration(t *testing.T) {
	l := newLoader(t, map[string]string{
		"data.mod.json": `[
			{"mod": "item.mod.json"},
			{"table": "weapon.yaml", "schema": "weapon.table.json"},
			{"schema": "item.table.json"},
			{"enum": "race.enum.json"},
			{"const": "max_level.const.json"}
		]`,
		"empty.mod.json": `[]`,
		"mixed.mod.json": `[{"mod": "item.mod.json", "enum": "race.enum.json"}]`,
		"object.mod.json": `{"mod": "item.mod.json"}`,
	})

	t.Run("Entries", func(t *testing.T) {
		d, err := l.Declaration("data.mod.json")
		require.NoError(t, err)
		require.Len(t, d, 5)
		assert.Equal(t, "item.mod.json", d[0].Mod)
		assert.Equal(t, Entry{Table: "weapon.yaml", Schema: "weapon.table.json"}, d[1])
		assert.Equal(t, Entry{Schema: "item.table.json"}, d[2])
		assert.Equal(t, "race.enum.json", d[3].Enum)
		assert.Equal(t, "max_level.const.json", d[4].Const)
	})

	t.Run("Empty", func(t *testing.T) {
		d, err := l.Declaration("empty.mod.json")
		require.NoError(t, err)
		assert.Empty(t, d)
	})

	t.Run("Entry with two kinds", func(t *testing.T) {
		_, err := l.Declaration("mixed.mod.json")
		var de *DocumentError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "mixed.mod.json", de.File)
	})

	t.Run("Not a list", func(t *testing.T) {
		_, err := l.Declaration("object.mod.json")
		assert.Error(t, err)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := l.Declaration("nope.mod.json")
		var de *DocumentError
		require.ErrorAs(t, err, &de)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})
}

func TestTable(t *testing.T) {
	l := newLoader(t, map[string]string{
		"weapon.table.json": `{
			"kind": "concrete",
			"name": "weapon",
			"sheet": "Weapon",
			"extend": "item.Equipment",
			"fields": [
				{"name": "damage", "target": "all", "kind": "scalar", "type": "uint16",
				 "constraints": [{"min": 1}, {"max": 100}]},
				{"name": "code", "target": "server", "kind": "scalar", "type": "string", "constraints": ["unique"]},
				{"name": "race", "target": "all", "kind": "enum", "type": "character.Race", "optional": true},
				{"name": "upgrades", "target": "server", "kind": "link", "type": "item.Weapon", "multi": true},
				{"name": "drop", "target": "client", "kind": "tuple", "types": [
					{"kind": "link", "type": "item.Item"},
					{"kind": "scalar", "type": "uint16"}
				]}
			]
		}`,
		"item.table.json": `{
			"kind": "abstract",
			"name": "item",
			"fields": [{"name": "id", "target": "all", "kind": "scalar", "type": "id"}]
		}`,
		"nosheet.table.json":   `{"kind": "concrete", "name": "nosheet", "fields": []}`,
		"sheet.table.json":     `{"kind": "abstract", "name": "sheet", "sheet": "Sheet", "fields": []}`,
		"badtype.table.json":   `{"kind": "abstract", "name": "badtype", "fields": [{"name": "x", "target": "all", "kind": "scalar", "type": "int128"}]}`,
		"badtarget.table.json": `{"kind": "abstract", "name": "badtarget", "fields": [{"name": "x", "target": "web", "kind": "scalar", "type": "bool"}]}`,
		"badjson.table.json":   `{"kind": "abstract",`,
	})

	t.Run("Concrete", func(t *testing.T) {
		tbl, err := l.Table("weapon.table.json")
		require.NoError(t, err)
		assert.Equal(t, TableConcrete, tbl.Kind)
		assert.Equal(t, "Weapon", tbl.Sheet)
		assert.Equal(t, "item.Equipment", tbl.Extend)
		require.Len(t, tbl.Fields, 5)

		damage := tbl.Fields[0]
		assert.Equal(t, KindScalar, damage.Tag)
		assert.Equal(t, "uint16", damage.Type)
		require.Len(t, damage.Constraints, 2)
		require.NotNil(t, damage.Constraints[0].Min)
		assert.Equal(t, int64(1), *damage.Constraints[0].Min)
		require.NotNil(t, damage.Constraints[1].Max)
		assert.Equal(t, int64(100), *damage.Constraints[1].Max)

		assert.True(t, tbl.Fields[1].Constraints[0].Unique)
		assert.True(t, tbl.Fields[2].Optional)
		assert.Equal(t, KindEnum, tbl.Fields[2].Tag)
		assert.True(t, tbl.Fields[3].Multi)
		assert.Equal(t, TargetClient, tbl.Fields[4].Target)
		require.Len(t, tbl.Fields[4].Types, 2)
		assert.Equal(t, FieldKind{Tag: KindLink, Type: "item.Item"}, tbl.Fields[4].Types[0])
	})

	t.Run("Abstract", func(t *testing.T) {
		tbl, err := l.Table("item.table.json")
		require.NoError(t, err)
		assert.Equal(t, TableAbstract, tbl.Kind)
		assert.Empty(t, tbl.Sheet)
		assert.Equal(t, "id", tbl.Fields[0].Type)
	})

	for _, tt := range []struct {
		file, contains string
	}{
		{"nosheet.table.json", "sheet"},
		{"sheet.table.json", "sheet"},
		{"badtype.table.json", "fields[0]"},
		{"badtarget.table.json", "fields[0]"},
		{"badjson.table.json", "badjson.table.json"},
	} {
		t.Run(tt.file, func(t *testing.T) {
			_, err := l.Table(tt.file)
			var de *DocumentError
			require.ErrorAs(t, err, &de)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestEnum(t *testing.T) {
	l := newLoader(t, map[string]string{
		"race.enum.json": `{
			"name": "race", "base": "uint8", "enums": ["Human", "Elf", "Orc"], "target": "all",
			"protocol": true, "queryable": true,
			"attributes": [{"target": "server", "attribute": "msgpack"}, {"target": "client", "attribute": "text"}]
		}`,
		"empty.enum.json": `{"name": "empty", "base": "uint8", "enums": [], "target": "all"}`,
		"wide.enum.json":  `{"name": "wide", "base": "uint64", "enums": ["A"], "target": "all"}`,
	})

	e, err := l.Enum("race.enum.json")
	require.NoError(t, err)
	assert.Equal(t, ScalarUint8, e.Base)
	assert.Equal(t, []string{"Human", "Elf", "Orc"}, e.Enums)
	assert.True(t, e.Protocol)
	assert.True(t, e.Queryable)
	assert.False(t, e.GraphQL)
	assert.Equal(t, []Attribute{
		{Target: TargetServer, Attribute: AttributeMsgpack},
		{Target: TargetClient, Attribute: AttributeText},
	}, e.Attributes)

	_, err = l.Enum("empty.enum.json")
	assert.Error(t, err)
	_, err = l.Enum("wide.enum.json")
	assert.Error(t, err)
}

func TestConst(t *testing.T) {
	l := newLoader(t, map[string]string{
		"max_level.const.json": `{"name": "max_level", "target": "all", "scalarType": "uint8", "value": 60}`,
		"big.const.json":       `{"name": "big", "target": "all", "scalarType": "uint64", "value": 18446744073709551615}`,
		"greeting.const.json":  `{"name": "greeting", "target": "server", "scalarType": "string", "value": "hello"}`,
		"mismatch.const.json":  `{"name": "mismatch", "target": "all", "scalarType": "string", "value": 1}`,
		"bool.const.json":      `{"name": "flag", "target": "all", "scalarType": "bool", "value": true}`,
	})

	c, err := l.Const("max_level.const.json")
	require.NoError(t, err)
	assert.Equal(t, ScalarUint8, c.ScalarType)
	assert.JSONEq(t, "60", string(c.Value))

	c, err = l.Const("big.const.json")
	require.NoError(t, err)
	assert.Equal(t, "18446744073709551615", string(c.Value))

	c, err = l.Const("greeting.const.json")
	require.NoError(t, err)
	var s string
	require.NoError(t, json.Unmarshal(c.Value, &s))
	assert.Equal(t, "hello", s)

	_, err = l.Const("mismatch.const.json")
	assert.Error(t, err)
	_, err = l.Const("bool.const.json")
	assert.Error(t, err)
}

func TestConstraintJSON(t *testing.T) {
	var cs []Constraint
	require.NoError(t, json.Unmarshal([]byte(`["unique", {"min": -5}, {"max": 9}]`), &cs))
	require.Len(t, cs, 3)
	assert.True(t, cs[0].Unique)
	assert.Equal(t, int64(-5), *cs[1].Min)
	assert.Equal(t, int64(9), *cs[2].Max)

	out, err := json.Marshal(cs)
	require.NoError(t, err)
	assert.JSONEq(t, `["unique", {"min": -5}, {"max": 9}]`, string(out))

	for _, bad := range []string{`"distinct"`, `{"min": 1, "max": 2}`, `{}`, `3`} {
		var c Constraint
		assert.Error(t, json.Unmarshal([]byte(bad), &c), bad)
	}
}

func TestScalarType(t *testing.T) {
	assert.True(t, ScalarInt16.Signed())
	assert.False(t, ScalarUint16.Signed())
	assert.True(t, ScalarID.Unsigned())
	assert.True(t, ScalarFloat32.Float())
	assert.True(t, ScalarFloat32.Numeric())
	assert.False(t, ScalarString.Numeric())
	assert.False(t, ScalarDuration.Numeric())
	assert.Equal(t, 8, ScalarUint8.Bits())
	assert.Equal(t, 32, ScalarID.Bits())
	assert.Equal(t, 64, ScalarFloat64.Bits())
	assert.Equal(t, 0, ScalarString.Bits())
}

func TestTargetIncluded(t *testing.T) {
	assert.True(t, TargetServer.Included())
	assert.True(t, TargetAll.Included())
	assert.False(t, TargetClient.Included())
	assert.False(t, TargetNone.Included())
}

func TestDefinition(t *testing.T) {
	l := newLoader(t, nil)
	for _, def := range []string{defDeclaration, defTable, defEnum, defConst} {
		t.Run(def, func(t *testing.T) {
			v, err := l.definition(def)
			require.NoError(t, err)
			assert.True(t, v.Exists())
		})
	}
	_, err := l.definition("#Missing")
	require.ErrorContains(t, err, "#Missing not found")
}
