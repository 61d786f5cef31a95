package golang

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/tablegen/compiler/gen"
)

const testPkg = "example.com/game/gamedata"

func newTestGenerator(t *testing.T) *gen.JenniferGenerator {
	t.Helper()
	cfg := &gen.Config{
		Target:  filepath.Join(t.TempDir(), "gamedata"),
		Package: testPkg,
		Logger:  slog.New(slog.DiscardHandler),
	}
	g, err := gen.NewGraph(cfg, os.DirFS("../testdata/game"))
	require.NoError(t, err)
	return gen.NewJenniferGenerator(g)
}

func newTestPrinter(t *testing.T) (*Printer, *gen.Graph) {
	t.Helper()
	generator := newTestGenerator(t)
	return NewPrinter(generator), generator.Graph()
}

func table(t *testing.T, g *gen.Graph, typeID string) *gen.Table {
	t.Helper()
	tbl, ok := g.Table(typeID)
	require.True(t, ok, typeID)
	return tbl
}

// assertOrder checks that the substrings appear in s in the given order.
func assertOrder(t *testing.T, s string, parts ...string) {
	t.Helper()
	last := -1
	for _, p := range parts {
		i := strings.Index(s, p)
		require.GreaterOrEqual(t, i, 0, "missing %q", p)
		assert.Greater(t, i, last, "%q out of order", p)
		last = i
	}
}

func TestPrinterName(t *testing.T) {
	p, _ := newTestPrinter(t)
	assert.Equal(t, "golang", p.Name())
}

func TestGenAbstractTable(t *testing.T) {
	p, g := newTestPrinter(t)

	t.Run("Root", func(t *testing.T) {
		src := p.GenTable(table(t, g, "item.Item")).GoString()
		assert.Contains(t, src, "package gamedata")
		assert.Contains(t, src, "type ItemItem interface {")
		assert.Contains(t, src, "tablegen.Record")
		assert.Contains(t, src, "GetName() string")
		assert.Contains(t, src, "isItemItem()")
		assert.NotContains(t, src, "GetID() tablegen.DataID", "GetID comes from tablegen.Record")
		assert.Contains(t, src, `var itemItemArena = tablegen.NewSharedArena[ItemItem]("item.Item")`)
		assert.Contains(t, src, "func ItemItemByID(id tablegen.DataID) (ItemItem, bool) {")
		assert.Contains(t, src, "func ItemItemAll() iter.Seq2[tablegen.DataID, ItemItem] {")
		assert.Contains(t, src, "if !dataset.Ready() {")
		assert.NotContains(t, src, "Load(rows")
	})

	t.Run("Child", func(t *testing.T) {
		src := p.GenTable(table(t, g, "item.Equipment")).GoString()
		assertOrder(t, src, "type ItemEquipment interface {", "ItemItem", "GetLevel() uint8", "isItemEquipment()")
		assert.NotContains(t, src, "GetName", "inherited getters come from the parent interface")
		assert.NotContains(t, src, "tablegen.Record")
	})
}

func TestGenConcreteTable(t *testing.T) {
	p, g := newTestPrinter(t)

	t.Run("Record", func(t *testing.T) {
		src := p.GenTable(table(t, g, "item.Weapon")).GoString()
		assertOrder(t, src, "type ItemWeapon struct {", "ID ", "Name ", "Level ", "Damage ", "Race ", "Upgrade ", "}")
		assert.Regexp(t, `ID\s+tablegen\.DataID`, src)
		assert.Regexp(t, `Race\s+\*CharacterRace`, src)
		assert.Regexp(t, `Upgrade\s+\*tablegen\.Link\[\*ItemWeapon\]`, src)
		assert.NotContains(t, src, "Icon", "client fields are not generated")

		assert.Contains(t, src, "func (v *ItemWeapon) GetID() tablegen.DataID {")
		assert.Contains(t, src, "// GetName returns the name field.\nfunc (v *ItemWeapon) GetName() string {")
		assert.Contains(t, src, "func (v *ItemWeapon) GetLevel() uint8 {")
		assert.NotContains(t, src, "GetDamage")
		assert.Regexp(t, `func \(\*ItemWeapon\) isItemEquipment\(\)\s+\{\}`, src)
		assert.Regexp(t, `func \(\*ItemWeapon\) isItemItem\(\)\s+\{\}`, src)
		assert.Contains(t, src, "// isItemItem marks ItemWeapon as a row of item.Item.")
		assert.Contains(t, src, `var itemWeaponArena = tablegen.NewArena[*ItemWeapon]("item.Weapon")`)
		assert.Contains(t, src, "func ItemWeaponByID(id tablegen.DataID) (*ItemWeapon, bool) {")
	})

	t.Run("Load", func(t *testing.T) {
		src := p.GenTable(table(t, g, "item.Weapon")).GoString()
		assert.Regexp(t, `itemWeaponWorkbook\s+= "item/weapon.yaml"`, src)
		assert.Regexp(t, `itemWeaponSheet\s+= "Weapon"`, src)
		assert.Contains(t, src, "type itemWeaponTable struct{}")
		assert.Contains(t, src, "func (itemWeaponTable) Load(rows []tabular.Row) error {")
		assert.Regexp(t, `parseRace\s+= tablegen\.Enum\("character\.Race", lookupCharacterRace\)`, src)
		assert.Regexp(t, `parseUpgrade\s+= tablegen\.LinkTo\[\*ItemWeapon\]\(\)`, src)
		assert.Contains(t, src, "nameUnique := tablegen.NewUniqueSet[string]()")
		assert.Contains(t, src, "tablegen.CheckColumns(row, 7)")
		assert.Contains(t, src, "v.ID, err = parseID.Parse(row.Cells[0])")
		assert.Contains(t, src, "v.Damage, err = parseDamage.Parse(row.Cells[3])")
		assert.Contains(t, src, "v.Race, err = tablegen.Optional(parseRace, row.Cells[4])")
		assert.NotContains(t, src, "row.Cells[6]", "the client column is skipped")
		assert.Contains(t, src, "nameUnique.Check(v.Name, row.Number)")
		assert.Contains(t, src, "tablegen.CheckMin(v.Level, 1)")
		assert.Contains(t, src, "tablegen.CheckMax(v.Level, 60)")
		assert.Contains(t, src, "tablegen.CheckMax(v.Damage, 1000)")
		assert.Contains(t, src, "&tablegen.DuplicateIDError{")
		assertOrder(t, src,
			"itemWeaponArena.Publish(out)",
			"for id, v := range itemWeaponArena.All() {",
			"tablegen.Inserter[ItemEquipment](itemEquipmentArena).Insert(id, v)",
			"tablegen.Inserter[ItemItem](itemItemArena).Insert(id, v)",
		)
	})

	t.Run("Init", func(t *testing.T) {
		src := p.GenTable(table(t, g, "item.Weapon")).GoString()
		assert.Contains(t, src, "func (itemWeaponTable) Init() error {")
		assertOrder(t, src, "if v.Upgrade != nil {", "v.Upgrade.Resolve(itemWeaponArena)", "&tablegen.LinkError{")
		assert.Regexp(t, `Column:\s+"upgrade"`, src)

		src = p.GenTable(table(t, g, "item.Box")).GoString()
		assert.Contains(t, src, "v.Contents, err = tablegen.Multi(parseContents, row.Cells[2])")
		assert.Contains(t, src, "tablegen.TupleOf2(tablegen.LinkTo[ItemItem](), tablegen.Uint[uint16]())")
		assertOrder(t, src, "for i := range v.Contents {", "v.Contents[i].First.Resolve(itemItemArena)")
		assert.NotContains(t, src, "Second.Resolve")
		assert.Contains(t, src, "tablegen.Inserter[ItemItem](itemItemArena).Insert(id, v)")
		assert.NotContains(t, src, "itemEquipmentArena")
	})

	t.Run("Optional constraint", func(t *testing.T) {
		src := p.GenTable(table(t, g, "shop.Shop")).GoString()
		assertOrder(t, src, "if v.Discount != nil {", "tablegen.CheckMin(*v.Discount, 0)", "tablegen.CheckMax(*v.Discount, 100)")
		assert.Contains(t, src, "v.Stock, err = tablegen.Multi(parseStock, row.Cells[2])")
		assert.Contains(t, src, "v.Keeper.Resolve(characterHeroArena)")
		assert.Contains(t, src, "v.Stock[i].Resolve(itemItemArena)")
		assert.NotContains(t, src, "Inserter")
	})

	t.Run("Scalars", func(t *testing.T) {
		src := p.GenTable(table(t, g, "character.Hero")).GoString()
		assert.Regexp(t, `Spawn\s+\*time\.Time`, src)
		assert.Regexp(t, `Cooldown\s+time\.Duration`, src)
		assert.Regexp(t, `Tags\s+\[\]string`, src)
		assert.Regexp(t, `Scale\s+float32`, src)
		assert.Regexp(t, `parseScale\s+= tablegen\.Float\[float32\]\(\)`, src)
		assert.Contains(t, src, "tablegen.CheckMin(v.Scale, 0)")
		assert.Contains(t, src, "v.Weapon.Resolve(itemWeaponArena)")
	})
}

func TestGenEnum(t *testing.T) {
	p, g := newTestPrinter(t)
	race, ok := g.Enum("character.Race")
	require.True(t, ok)

	src := p.GenEnum(race).GoString()
	assert.Contains(t, src, "type CharacterRace uint8")
	assertOrder(t, src, "CharacterRaceHuman CharacterRace = iota", "CharacterRaceElf", "CharacterRaceOrc")
	assert.Contains(t, src, `characterRaceNames = [...]string{"Human", "Elf", "Orc"}`)
	assert.Contains(t, src, "func (v CharacterRace) String() string {")
	assert.Contains(t, src, "func (v CharacterRace) IsValid() bool {")
	assert.Contains(t, src, "func CharacterRaceValues() []CharacterRace {")
	assert.Contains(t, src, "func ParseCharacterRace(s string) (CharacterRace, error) {")
	assert.Contains(t, src, "func lookupCharacterRace(s string) (CharacterRace, bool) {")
	assert.Contains(t, src, "tablegen.InvalidEnumValue")

	assert.Contains(t, src, "func (v CharacterRace) MarshalText() ([]byte, error) {")
	assert.Contains(t, src, "func (v *CharacterRace) UnmarshalText(text []byte) error {")
	assert.Contains(t, src, `"github.com/vmihailenco/msgpack/v5"`)
	assert.Contains(t, src, "func (v CharacterRace) EncodeMsgpack(enc *msgpack.Encoder) error {")
	assert.Contains(t, src, `tablegen.DecodeEnum(dec, "character.Race", CharacterRace.IsValid)`)
	assert.Contains(t, src, "func (v CharacterRace) Value() (driver.Value, error) {")
	assert.Contains(t, src, "func (v *CharacterRace) Scan(src any) error {")
	assert.Contains(t, src, "func (v CharacterRace) ToProto() int32 {")
	assert.Contains(t, src, "func CharacterRaceFromProto(n int32) (CharacterRace, bool) {")
	assert.Contains(t, src, "int(n) >= len(characterRaceNames)")
}

func TestGenEnumMinimal(t *testing.T) {
	p, g := newTestPrinter(t)
	class, ok := g.Enum("character.Class")
	require.True(t, ok)

	src := p.GenEnum(class).GoString()
	assert.Contains(t, src, "type CharacterClass uint8")
	for _, method := range []string{"MarshalText", "EncodeMsgpack", "Scan(", "ToProto", "msgpack"} {
		assert.NotContains(t, src, method)
	}
}

func TestGenConsts(t *testing.T) {
	p, g := newTestPrinter(t)

	src := p.GenConsts(g.Root()).GoString()
	assert.Regexp(t, `MaxLevel\s+uint8\s+= 60`, src)
	assert.Regexp(t, `Greeting\s+string\s+= "welcome"`, src)
	assert.Contains(t, src, "// MaxLevel is the MaxLevel constant.")

	src = p.GenConsts(g.Modules[2]).GoString()
	assert.Contains(t, src, "CharacterMaxHP int32 = 9999")

	assert.Nil(t, p.GenConsts(g.Modules[1]), "module item declares no constants")
}

func TestGenModule(t *testing.T) {
	p, g := newTestPrinter(t)

	t.Run("Tables", func(t *testing.T) {
		src := p.GenModule(g.Modules[1]).GoString()
		assert.Contains(t, src, "// Package item re-exports the entities of module item.")
		assert.Contains(t, src, "package item")
		assert.Contains(t, src, `"example.com/game/gamedata"`)
		assert.Regexp(t, `Item\s+= gamedata\.ItemItem\b`, src)
		assert.Regexp(t, `Weapon\s+= gamedata\.ItemWeapon\b`, src)
		assert.Regexp(t, `WeaponByID\s+= gamedata\.ItemWeaponByID`, src)
		assert.Regexp(t, `BoxAll\s+= gamedata\.ItemBoxAll`, src)
	})

	t.Run("Enums and constants", func(t *testing.T) {
		src := p.GenModule(g.Modules[2]).GoString()
		assert.Contains(t, src, "package character")
		assert.Regexp(t, `Race\s+= gamedata\.CharacterRace\b`, src)
		assert.Regexp(t, `ParseRace\s+= gamedata\.ParseCharacterRace`, src)
		assert.Regexp(t, `RaceFromProto\s+= gamedata\.CharacterRaceFromProto`, src)
		assert.Regexp(t, `RaceHuman\s+= gamedata\.CharacterRaceHuman`, src)
		assert.Regexp(t, `MaxHP\s+= gamedata\.CharacterMaxHP`, src)
		assert.Regexp(t, `Hero\s+= gamedata\.CharacterHero\b`, src)
		assert.NotContains(t, src, "Class", "client enumerations are not re-exported")
	})
}

func TestGenLoad(t *testing.T) {
	p, _ := newTestPrinter(t)
	src := p.GenLoad().GoString()

	assert.Contains(t, src, `_ "github.com/syssam/tablegen/tabular/yamlbook"`)
	assert.Contains(t, src, "var dataset tablegen.Dataset")
	assert.Contains(t, src, "func LoadAll(ctx context.Context, root string, opts ...tablegen.LoadOption) error {")
	assert.Contains(t, src, "return dataset.Load(ctx, root, plan(), opts...)")
	assert.Contains(t, src, "func Ready() bool {")
	assert.Contains(t, src, "Abstract: []tablegen.Resetter{itemItemArena, itemEquipmentArena}")
	assert.Regexp(t, `Table:\s+itemWeaponTable\{\}`, src)
	assert.Regexp(t, `Workbook:\s+characterHeroWorkbook`, src)
	assertOrder(t, src, `"item.Weapon"`, `"character.Hero"`, `"item.Box"`, `"shop.Shop"`)
	assert.NotContains(t, src, "itemItemTable")
}

func TestGenerate(t *testing.T) {
	generator := newTestGenerator(t)
	generator.WithPrinter(NewPrinter(generator))
	require.NoError(t, generator.Generate(context.Background()))

	out := generator.Graph().Target
	for _, name := range []string{
		"load.go",
		"const.go",
		"character.const.go",
		"item_item.gen.go",
		"item_weapon.gen.go",
		"character_race.gen.go",
		"character_hero.gen.go",
		"shop_shop.gen.go",
		"item/item.go",
		"character/character.go",
		"shop/shop.go",
	} {
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(name)))
	}
	assert.NoFileExists(t, filepath.Join(out, "character_class.gen.go"))
	assert.NoFileExists(t, filepath.Join(out, "item.const.go"))

	data, err := os.ReadFile(filepath.Join(out, "item_weapon.gen.go"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "// "+gen.DefaultHeader))
}
