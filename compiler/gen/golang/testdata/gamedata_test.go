package gamedata

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/tablegen"
)

func TestLoadAll(t *testing.T) {
	_, ok := ItemWeaponByID(1)
	require.False(t, ok, "no rows before LoadAll")
	require.False(t, Ready())

	root := os.Getenv("TABLEGEN_DATA")
	require.NotEmpty(t, root)
	require.NoError(t, LoadAll(context.Background(), root, tablegen.WithLogger(slog.New(slog.DiscardHandler))))
	require.True(t, Ready())

	t.Run("Weapon", func(t *testing.T) {
		w, ok := ItemWeaponByID(1)
		require.True(t, ok)
		assert.Equal(t, "Short Sword", w.Name)
		assert.Equal(t, uint8(1), w.Level)
		assert.Equal(t, uint16(12), w.Damage)
		require.NotNil(t, w.Race)
		assert.Equal(t, CharacterRaceHuman, *w.Race)

		require.NotNil(t, w.Upgrade)
		up, ok := w.Upgrade.Get()
		require.True(t, ok)
		assert.Equal(t, "Long Sword", up.Name)
		long, ok := ItemWeaponByID(2)
		require.True(t, ok)
		assert.Same(t, long, up)
		assert.Nil(t, long.Upgrade)
		assert.Nil(t, long.Race)

		_, ok = ItemWeaponByID(4)
		assert.False(t, ok)
	})

	t.Run("Abstract", func(t *testing.T) {
		ids := map[tablegen.DataID]bool{}
		for id := range ItemItemAll() {
			ids[id] = true
		}
		assert.Equal(t, map[tablegen.DataID]bool{1: true, 2: true, 3: true, 100: true, 101: true}, ids)

		n := 0
		for range ItemEquipmentAll() {
			n++
		}
		assert.Equal(t, 3, n)

		item, ok := ItemItemByID(3)
		require.True(t, ok)
		assert.IsType(t, &ItemWeapon{}, item)
		assert.Equal(t, "Elven Bow", item.GetName())

		item, ok = ItemItemByID(100)
		require.True(t, ok)
		box, ok := item.(*ItemBox)
		require.True(t, ok)
		require.Len(t, box.Contents, 2)
		first, ok := box.Contents[0].First.Get()
		require.True(t, ok)
		assert.IsType(t, &ItemWeapon{}, first)
		assert.Equal(t, tablegen.DataID(1), first.GetID())
		assert.Equal(t, uint16(1), box.Contents[0].Second)

		mystery, ok := ItemBoxByID(101)
		require.True(t, ok)
		require.Len(t, mystery.Contents, 1)
		inner, ok := mystery.Contents[0].First.Get()
		require.True(t, ok)
		assert.Same(t, box, inner)
		assert.Equal(t, uint16(2), mystery.Contents[0].Second)
	})

	t.Run("Hero", func(t *testing.T) {
		aria, ok := CharacterHeroByID(1)
		require.True(t, ok)
		assert.Equal(t, CharacterRaceElf, aria.Race)
		require.NotNil(t, aria.Spawn)
		assert.True(t, aria.Spawn.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
		assert.Equal(t, 90*time.Second, aria.Cooldown)
		assert.Equal(t, []string{"ranger", "scout"}, aria.Tags)
		bow, ok := aria.Weapon.Get()
		require.True(t, ok)
		assert.Equal(t, "Elven Bow", bow.Name)

		brom, ok := CharacterHeroByID(2)
		require.True(t, ok)
		assert.Nil(t, brom.Spawn)
		assert.Equal(t, 45*time.Second, brom.Cooldown)
		assert.Empty(t, brom.Tags)
	})

	t.Run("Shop", func(t *testing.T) {
		shop, ok := ShopShopByID(1)
		require.True(t, ok)
		keeper, ok := shop.Keeper.Get()
		require.True(t, ok)
		assert.Equal(t, "Brom", keeper.Name)
		require.Len(t, shop.Stock, 3)
		var names []string
		for _, l := range shop.Stock {
			item, ok := l.Get()
			require.True(t, ok)
			names = append(names, item.GetName())
		}
		assert.Equal(t, []string{"Short Sword", "Long Sword", "Starter Box"}, names)
		require.NotNil(t, shop.Discount)
		assert.InDelta(t, 10.0, *shop.Discount, 1e-9)

		other, ok := ShopShopByID(2)
		require.True(t, ok)
		assert.Nil(t, other.Discount)
	})

	t.Run("Once", func(t *testing.T) {
		err := LoadAll(context.Background(), root)
		require.ErrorIs(t, err, tablegen.ErrAlreadyLoaded)
		assert.True(t, Ready())
	})
}
