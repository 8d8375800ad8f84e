package inventory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cory-johannsen/colonybot/internal/game/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadWeapons(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rifles.yaml", `
- name: M41A Pulse Rifle
  type: ranged
  bonus: 1
  damage: 3
  range: Long
  weight: 1
  cost: 1200
  comment: Armor piercing
- name: Knife
  type: close
  bonus: 0
  damage: 2
  range: Engaged
`)
	writeFile(t, dir, "README.md", "ignored")

	ws, err := inventory.LoadWeapons(dir)
	require.NoError(t, err)
	require.Len(t, ws, 2)
	assert.Equal(t, "M41A Pulse Rifle", ws[0].Name)
	assert.Equal(t, inventory.Weapon{Name: "Knife", Type: inventory.WeaponClose, Damage: 2, Range: "Engaged"}, ws[1].Record())
}

func TestLoadWeapons_InvalidRange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", "- name: Spear\n  type: close\n  range: Far\n")
	_, err := inventory.LoadWeapons(dir)
	assert.ErrorContains(t, err, "range")
}

func TestLoadWearablesAndItems(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "w.yaml", `
- name: Compression Suit
  class: suit
  armor_rating: 2
  encumbrance: 1
- name: Headlamp
  class: accessory
  slots: [head]
`)
	ws, err := inventory.LoadWearables(dir)
	require.NoError(t, err)
	require.Len(t, ws, 2)
	assert.True(t, ws[0].Covers(inventory.SlotFeet))

	idir := t.TempDir()
	writeFile(t, idir, "i.yml", "- name: Naproleve\n  kind: consumable\n")
	items, err := inventory.LoadItems(idir)
	require.NoError(t, err)
	require.Len(t, items, 1)

	writeFile(t, idir, "j.yml", "- name: Rock\n  kind: junk\n")
	_, err = inventory.LoadItems(idir)
	assert.Error(t, err)
}

func TestLoadItems_MissingDir(t *testing.T) {
	_, err := inventory.LoadItems(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestMinimalWeapon(t *testing.T) {
	w := inventory.MinimalWeapon("Rusty Pipe")
	assert.True(t, w.Minimal())
	assert.Equal(t, "Rusty Pipe", w.String())
}
