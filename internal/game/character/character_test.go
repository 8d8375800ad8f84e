package character_test

import (
	"encoding/json"
	"testing"

	"github.com/cory-johannsen/colonybot/internal/game/character"
	"github.com/cory-johannsen/colonybot/internal/game/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var marineRules = character.Rules{
	KeyAttribute: character.Strength,
	KeySkills:    []character.Skill{character.CloseCombat, character.Stamina, character.RangedCombat},
}

func validMarine() *character.Character {
	return &character.Character{
		ID:     "c-1",
		Name:   "Jane Doe",
		Career: "Colonial Marine",
		Gender: "Female",
		Age:    34,
		Attributes: character.Attributes{
			character.Strength: 4, character.Agility: 2, character.Wits: 4, character.Empathy: 4,
		},
		Skills:        character.Skills{character.CloseCombat: 3},
		Talent:        "Banter",
		Agenda:        "Protect your squad",
		Inventory:     []inventory.Item{inventory.NewConsumable("Signal Flares", 7, "2d6", []int{3, 4})},
		SignatureItem: "Photo of home",
		Cash:          600,
		Weapons:       []inventory.Weapon{inventory.MinimalWeapon("M4A3 Service Pistol")},
	}
}

func TestCharacter_Validate_OK(t *testing.T) {
	assert.NoError(t, validMarine().Validate(marineRules))
}

func TestCharacter_Validate_Violations(t *testing.T) {
	cases := map[string]func(c *character.Character){
		"name digits":      func(c *character.Character) { c.Name = "R2D2" },
		"name too short":   func(c *character.Character) { c.Name = "J" },
		"name only dashes": func(c *character.Character) { c.Name = "--" },
		"age low":          func(c *character.Character) { c.Age = 17 },
		"age high":         func(c *character.Character) { c.Age = 121 },
		"no gender":        func(c *character.Character) { c.Gender = " " },
		"attr over cap":    func(c *character.Character) { c.Attributes[character.Agility] = 5; c.Attributes[character.Wits] = 3 },
		"attr underspent":  func(c *character.Character) { c.Attributes[character.Wits] = 3 },
		"general skill 2":  func(c *character.Character) { c.Skills[character.Piloting] = 2 },
		"skills over 10": func(c *character.Character) {
			c.Skills = character.Skills{character.CloseCombat: 3, character.Stamina: 3, character.RangedCombat: 3,
				character.Piloting: 1, character.Comtech: 1}
		},
		"negative cash": func(c *character.Character) { c.Cash = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := validMarine()
			mutate(c)
			assert.Error(t, c.Validate(marineRules))
		})
	}
}

func TestCharacter_Validate_StrengthFiveOnlyForKey(t *testing.T) {
	c := validMarine()
	c.Attributes = character.Attributes{character.Strength: 5, character.Agility: 3, character.Wits: 3, character.Empathy: 3}
	assert.NoError(t, c.Validate(marineRules))

	medic := character.Rules{KeyAttribute: character.Empathy, KeySkills: marineRules.KeySkills}
	assert.Error(t, c.Validate(medic))
}

func TestCharacter_JSONShape(t *testing.T) {
	c := validMarine()
	l := inventory.NewLoadout()
	c.Loadout = l
	data, err := json.Marshal(c)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, k := range []string{"Name", "Career", "Gender", "Age", "Attributes", "Skills", "Talent", "Agenda",
		"Inventory", "Signature Item", "Cash", "Loadout", "Weapons"} {
		assert.Contains(t, raw, k)
	}
	assert.NotContains(t, raw, "ID")
	assert.Equal(t, map[string]any{"Strength": 4.0, "Agility": 2.0, "Wits": 4.0, "Empathy": 4.0}, raw["Attributes"])
	assert.Equal(t, map[string]any{"Close Combat": 3.0}, raw["Skills"])

	var back character.Character
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, c.Attributes, back.Attributes)
	assert.Equal(t, c.Inventory, back.Inventory)
	assert.Equal(t, 0, back.Skills.Get(character.Piloting))
}

func TestCharacter_JSONNullLoadout(t *testing.T) {
	data, err := json.Marshal(validMarine())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Loadout":null`)
}

func TestParseAttribute(t *testing.T) {
	for in, want := range map[string]character.Attribute{"s": character.Strength, "AGILITY": character.Agility, " w ": character.Wits, "e": character.Empathy} {
		got, ok := character.ParseAttribute(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	_, ok := character.ParseAttribute("x")
	assert.False(t, ok)
}

func TestParseSkill(t *testing.T) {
	s, ok := character.ParseSkill("medical aid")
	require.True(t, ok)
	assert.Equal(t, character.MedicalAid, s)
	_, ok = character.ParseSkill("medical")
	assert.False(t, ok)
	assert.False(t, character.Skill("medical aid").Valid())
}

func TestSheet_ListsEverything(t *testing.T) {
	s := validMarine().Sheet()
	for _, want := range []string{"Jane Doe", "Colonial Marine", "Strength 4", "Close Combat 3", "Signal Flares x7", "M4A3 Service Pistol", "Cash: $600"} {
		assert.Contains(t, s, want)
	}
}

// Any distribution of the six points within caps validates; overspending never does.
func TestAttributes_Property_Budget(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		key := rapid.SampledFrom(character.AllAttributes).Draw(rt, "key")
		at := character.BaseAttributes()
		budget := character.AttributeBudget
		for budget > 0 {
			a := rapid.SampledFrom(character.AllAttributes).Draw(rt, "attr")
			if at[a] < character.Cap(a, key) {
				at[a]++
				budget--
			}
		}
		require.NoError(rt, at.Validate(key))
		assert.Equal(rt, character.AttributeBudget, at.Spent())

		over := at.Clone()
		for _, a := range character.AllAttributes {
			if over[a] < character.Cap(a, key) {
				over[a]++
				break
			}
		}
		assert.Error(rt, over.Validate(key))
	})
}

func TestSkills_Validate_BudgetIsCeiling(t *testing.T) {
	keys := marineRules.KeySkills
	partial := character.Skills{character.CloseCombat: 3}
	assert.NoError(t, partial.Validate(keys), "finishing early forfeits the rest")

	full := character.Skills{
		character.CloseCombat: 3, character.Stamina: 3, character.RangedCombat: 3, character.Piloting: 1,
	}
	require.Equal(t, character.SkillBudget, full.Total())
	assert.NoError(t, full.Validate(keys))

	over := character.Skills{
		character.CloseCombat: 3, character.Stamina: 3, character.RangedCombat: 3,
		character.Piloting: 1, character.Comtech: 1,
	}
	assert.Error(t, over.Validate(keys))
}
