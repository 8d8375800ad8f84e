package inventory_test

import (
	"testing"

	"github.com/cory-johannsen/colonybot/internal/game/dice"
	"github.com/cory-johannsen/colonybot/internal/game/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseGearLabel(t *testing.T) {
	cases := []struct {
		label, expr, stem string
		ok                bool
	}{
		{"1d6 doses of Naproleve", "1d6", "Naproleve", true},
		{"2d6 rounds of Signal Flares", "2d6", "Signal Flares", true},
		{"1d6 Emergency Rations", "1d6", "Emergency Rations", true},
		{"M41A Pulse Rifle", "", "", false},
		{"Cutting Torch", "", "", false},
	}
	for _, tc := range cases {
		expr, stem, ok := inventory.ParseGearLabel(tc.label)
		assert.Equal(t, tc.ok, ok, tc.label)
		assert.Equal(t, tc.expr, expr, tc.label)
		assert.Equal(t, tc.stem, stem, tc.label)
	}
}

func TestRegistry_ResolveGear(t *testing.T) {
	reg := inventory.NewRegistry()
	require.NoError(t, reg.RegisterWeapon(&inventory.WeaponDef{Name: "M41A Pulse Rifle", Type: inventory.WeaponRanged, Range: "Long"}))
	require.NoError(t, reg.RegisterWearable(helmet))
	require.NoError(t, reg.RegisterItem(&inventory.ItemDef{Name: "Naproleve", Kind: inventory.KindConsumable}))
	roller := dice.NewLoggedRoller(dice.NewSeededSource(3), zap.NewNop())

	it, err := reg.ResolveGear("1d6 doses of Naproleve", roller)
	require.NoError(t, err)
	assert.Equal(t, inventory.KindConsumable, it.Kind)
	assert.Equal(t, "Naproleve", it.Name)
	assert.Equal(t, "1d6", it.Spawn)
	require.Len(t, it.Rolls, 1)
	assert.Equal(t, it.Rolls[0], it.Quantity)
	assert.True(t, it.Quantity >= 1 && it.Quantity <= 6)

	it, err = reg.ResolveGear("M41A Pulse Rifle", roller)
	require.NoError(t, err)
	assert.Equal(t, inventory.NewUnique(inventory.KindWeapon, "M41A Pulse Rifle"), it)

	it, err = reg.ResolveGear("Helmet", roller)
	require.NoError(t, err)
	assert.Equal(t, inventory.KindArmor, it.Kind)

	it, err = reg.ResolveGear("Deck of Cards", roller)
	require.NoError(t, err)
	assert.Equal(t, inventory.KindGeneric, it.Kind)
	assert.Equal(t, 1, it.Quantity)
}

func TestValidateGearLabel(t *testing.T) {
	assert.NoError(t, inventory.ValidateGearLabel("2d6 rounds of Flares"))
	assert.NoError(t, inventory.ValidateGearLabel("Motion Tracker"))
	assert.ErrorIs(t, inventory.ValidateGearLabel("0d6 doses of X"), dice.ErrInvalidExpression)
}

func TestRegistry_DuplicateNames(t *testing.T) {
	reg := inventory.NewRegistry()
	w := &inventory.WeaponDef{Name: "Knife", Type: inventory.WeaponClose, Range: "Engaged"}
	require.NoError(t, reg.RegisterWeapon(w))
	assert.Error(t, reg.RegisterWeapon(w))
	require.NoError(t, reg.RegisterWearable(vest))
	assert.Error(t, reg.RegisterWearable(vest))
	d := &inventory.ItemDef{Name: "Flashlight", Kind: inventory.KindGeneric}
	require.NoError(t, reg.RegisterItem(d))
	assert.Error(t, reg.RegisterItem(d))
}
