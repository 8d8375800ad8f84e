package content_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cory-johannsen/colonybot/internal/game/character"
	"github.com/cory-johannsen/colonybot/internal/game/content"
	"github.com/cory-johannsen/colonybot/internal/game/inventory"
	"github.com/cory-johannsen/colonybot/internal/game/ruleset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const repoContent = "../../../content"

func TestLoad_RepositoryContent(t *testing.T) {
	c, err := content.Load(repoContent)
	require.NoError(t, err)

	careers := c.Careers()
	require.NotEmpty(t, careers)
	assert.Equal(t, "Colonial Marine", careers[0].Name, "menu entry 1")
	assert.Equal(t, character.Strength, careers[0].KeyAttribute)

	for _, career := range careers {
		for _, tal := range career.Talents {
			_, ok := c.Talent(tal)
			assert.True(t, ok, "%s talent %s", career.Name, tal)
		}
	}

	w, ok := c.Weapon("M41A Pulse Rifle")
	require.True(t, ok)
	assert.Equal(t, inventory.WeaponRanged, w.Type)
	_, ok = c.Weapon("m41a pulse rifle")
	assert.False(t, ok, "lookups are exact")

	suit, ok := c.Wearable("IRC Mk.35 Pressure Suit")
	require.True(t, ok)
	assert.Equal(t, inventory.ClassSuit, suit.Class)

	assert.Contains(t, c.FactionNames(), "Weyland-Yutani")
	_, ok = c.Skill(character.MedicalAid)
	assert.True(t, ok)

	stats := c.Stats()
	assert.Equal(t, len(careers), stats.Careers)
	assert.Equal(t, 12, stats.Skills)
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range []string{content.CareersDir, content.TalentsDir, content.SkillsDir, content.FactionsDir,
		content.WeaponsDir, content.WearablesDir, content.ItemsDir} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
	for rel, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, rel), []byte(body), 0o644))
	}
	return root
}

func copyFile(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(repoContent, rel))
	require.NoError(t, err)
	return string(data)
}

func TestLoad_UnknownTalentFailsStartup(t *testing.T) {
	root := writeTree(t, map[string]string{
		"careers/marine.yaml":  copyFile(t, "careers/colonial_marine.yaml"),
		"talents/talents.yaml": "- name: Banter\n",
		"skills/skills.yaml":   copyFile(t, "skills/skills.yaml"),
		"factions/f.yaml":      "- name: Seegson\n",
		"weapons/w.yaml":       "[]\n",
		"wearables/w.yaml":     "[]\n",
		"items/i.yaml":         "[]\n",
	})
	_, err := content.Load(root)
	require.Error(t, err)
	assert.ErrorContains(t, err, `unknown talent "Overkill"`)
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := content.Load(t.TempDir())
	assert.Error(t, err)
}

func TestNew_DuplicatesAndEmpty(t *testing.T) {
	_, err := content.New(nil, nil, nil, nil, nil, nil, nil)
	assert.ErrorContains(t, err, "no careers")

	f := &ruleset.Faction{Name: "Seegson"}
	_, err = content.New(nil, nil, nil, []*ruleset.Faction{f, f}, nil, nil, nil)
	assert.ErrorContains(t, err, "defined twice")
}
