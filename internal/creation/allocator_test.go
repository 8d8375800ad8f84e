package creation_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/colonybot/internal/creation"
	"github.com/cory-johannsen/colonybot/internal/game/character"
	"github.com/cory-johannsen/colonybot/internal/game/ruleset"
)

var marineKeys = []character.Skill{character.CloseCombat, character.Stamina, character.RangedCombat}

func TestAttributeAllocator_BatchAccepted(t *testing.T) {
	for _, in := range []string{"4,2,4,4", "4 2 4 4", "4244", " 4, 2 ,4,4 "} {
		t.Run(in, func(t *testing.T) {
			a := creation.NewAttributeAllocator(character.Strength)
			require.NoError(t, a.Apply(in))
			assert.True(t, a.Done())
			assert.Equal(t, 4, a.Values()[character.Strength])
			assert.Equal(t, 2, a.Values()[character.Agility])
		})
	}
}

func TestAttributeAllocator_RejectsOverBudgetBatch(t *testing.T) {
	a := creation.NewAttributeAllocator(character.Strength)
	err := a.Apply("5 5 5 5")
	require.Error(t, err)
	assert.ErrorIs(t, err, creation.ErrInputInvalid)
	assert.Equal(t, character.BaseAttributes(), a.Values())
	assert.Equal(t, character.AttributeBudget, a.Remaining())
}

func TestAttributeAllocator_RejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "4,2,4", "4,2,4,4,1", "1,1,1,1", "5,2,2,3", "x", "-1", "7", "Q"} {
		t.Run(in, func(t *testing.T) {
			a := creation.NewAttributeAllocator(character.Wits)
			assert.ErrorIs(t, a.Apply(in), creation.ErrInputInvalid)
			assert.Equal(t, character.BaseAttributes(), a.Values())
		})
	}
}

func TestAttributeAllocator_SingleStepsAndFocus(t *testing.T) {
	a := creation.NewAttributeAllocator(character.Strength)
	assert.Equal(t, character.Strength, a.Focus())

	require.NoError(t, a.Apply("3"))
	assert.Equal(t, 5, a.Values()[character.Strength])
	assert.Equal(t, character.Agility, a.Focus(), "focus moves on after a step")

	require.Error(t, a.Apply("3"), "agility can only take 2")
	require.NoError(t, a.Apply("W"))
	assert.Equal(t, character.Wits, a.Focus())
	require.NoError(t, a.Apply("2"))
	assert.Equal(t, 1, a.Remaining())

	require.NoError(t, a.Apply("w"))
	require.NoError(t, a.Apply("R"))
	assert.Equal(t, 2, a.Values()[character.Wits])
	assert.Equal(t, 3, a.Remaining())
	assert.Equal(t, 5, a.Values()[character.Strength], "reset only touches the focused attribute")
}

func TestAttributeAllocator_FocusSkipsCappedAttributes(t *testing.T) {
	a := creation.NewAttributeAllocator(character.Strength)
	require.NoError(t, a.Apply("A"))
	require.NoError(t, a.Apply("2"))
	assert.Equal(t, character.Wits, a.Focus())
	require.NoError(t, a.Apply("S"))
	require.NoError(t, a.Apply("3"))
	assert.Equal(t, character.Wits, a.Focus(), "capped agility is skipped")
}

func TestAttributeAllocator_Property_Budget(t *testing.T) {
	inputs := []string{"0", "1", "2", "3", "4", "S", "A", "W", "E", "R", "4,2,4,4", "3 3 3 3", "5555", "2,2,2,2", "x"}
	rapid.Check(t, func(rt *rapid.T) {
		key := rapid.SampledFrom(character.AllAttributes).Draw(rt, "key")
		a := creation.NewAttributeAllocator(key)
		steps := rapid.SliceOfN(rapid.SampledFrom(inputs), 0, 40).Draw(rt, "inputs")
		for _, in := range steps {
			_ = a.Apply(in)
			v := a.Values()
			assert.GreaterOrEqual(rt, a.Remaining(), 0)
			for _, attr := range character.AllAttributes {
				assert.GreaterOrEqual(rt, v[attr], character.AttributeBase)
				assert.LessOrEqual(rt, v[attr], character.Cap(attr, key))
			}
			if a.Done() {
				assert.NoError(rt, v.Validate(key))
			}
		}
	})
}

func TestSkillAllocator_KeyReset(t *testing.T) {
	s := creation.NewSkillAllocator(marineKeys)
	require.NoError(t, s.Apply("3,3,0"))
	assert.Equal(t, 4, s.Remaining())

	require.NoError(t, s.Apply("R"))
	assert.Equal(t, character.SkillBudget, s.Remaining())
	for _, k := range marineKeys {
		assert.Zero(t, s.Values().Get(k))
	}
}

func TestSkillAllocator_FocusByPrefix(t *testing.T) {
	s := creation.NewSkillAllocator(marineKeys)
	require.NoError(t, s.Apply("ran"))
	assert.Equal(t, character.RangedCombat, s.Focus())
	require.NoError(t, s.Apply("2"))
	assert.Equal(t, 2, s.Values().Get(character.RangedCombat))
	assert.ErrorIs(t, s.Apply("piloting"), creation.ErrInputInvalid)
	assert.ErrorIs(t, s.Apply("4"), creation.ErrInputInvalid)
}

func TestSkillAllocator_GeneralPhase(t *testing.T) {
	s := creation.NewSkillAllocator(marineKeys)
	require.NoError(t, s.Apply("333"))
	require.NoError(t, s.Apply("N"))
	assert.True(t, s.General())

	opts := s.GeneralOptions()
	require.Len(t, opts, len(character.AllSkills)-3)
	assert.Equal(t, character.HeavyMachinery, opts[0])

	assert.ErrorIs(t, s.Apply("1,2"), creation.ErrInputInvalid, "one point left")
	assert.ErrorIs(t, s.Apply("99"), creation.ErrInputInvalid)

	require.NoError(t, s.Apply("2"))
	assert.True(t, s.Done())
	assert.Equal(t, 1, s.Values().Get(character.Mobility))
	assert.NoError(t, s.Values().Validate(marineKeys))
}

func TestSkillAllocator_BackClearsGeneralPicks(t *testing.T) {
	s := creation.NewSkillAllocator(marineKeys)
	require.NoError(t, s.Apply("2,2,2"))
	require.NoError(t, s.Apply("N"))
	require.NoError(t, s.Apply("1, 3"))
	assert.Equal(t, 2, s.Remaining())

	assert.ErrorIs(t, s.Apply("2,2"), creation.ErrInputInvalid, "duplicate pick")

	require.NoError(t, s.Apply("B"))
	assert.False(t, s.General())
	assert.Equal(t, 4, s.Remaining())
	assert.Zero(t, s.Values().Get(character.HeavyMachinery))
}

func TestSkillAllocator_FinishEarlyForfeits(t *testing.T) {
	s := creation.NewSkillAllocator(marineKeys)
	require.NoError(t, s.Apply("3,0,0"))
	require.NoError(t, s.Apply("X"))
	assert.True(t, s.Done())
	assert.Equal(t, 7, s.Remaining())
	assert.Contains(t, s.Summary(), "7 unspent points will be lost")
}

func TestSkillAllocator_Property_Budget(t *testing.T) {
	inputs := []string{"0", "1", "2", "3", "R", "N", "B", "1", "2,3", "1,2,3,4", "3,3,3", "300", "close", "stam", "X"}
	rapid.Check(t, func(rt *rapid.T) {
		s := creation.NewSkillAllocator(marineKeys)
		steps := rapid.SliceOfN(rapid.SampledFrom(inputs), 0, 40).Draw(rt, "inputs")
		for _, in := range steps {
			if s.Done() {
				break
			}
			_ = s.Apply(in)
			assert.GreaterOrEqual(rt, s.Remaining(), 0)
			assert.NoError(rt, s.Values().Validate(marineKeys))
		}
	})
}

var marineGear = []string{
	"M41A Pulse Rifle", "Armat M37A2 Shotgun",
	"M3 Personnel Armor", "IRC Mk.35 Pressure Suit",
	"1d6 doses of Naproleve", "2d6 rounds of Signal Flares",
	"Motion Tracker", "M4A3 Service Pistol",
}

func TestGearSelection_PairExclusion(t *testing.T) {
	g := creation.NewGearSelection(marineGear)
	require.NoError(t, g.Pick(4))

	var numbers []int
	for _, o := range g.Options() {
		numbers = append(numbers, o.Number)
	}
	assert.Equal(t, []int{1, 2, 5, 6, 7, 8}, numbers, "original numbering is kept")
	assert.NotContains(t, numbers, 3)
	assert.NotContains(t, numbers, 4)
	assert.Contains(t, g.Render(), "M3 Personnel Armor is no longer available")

	assert.ErrorIs(t, g.Pick(3), creation.ErrInputInvalid)
	assert.ErrorIs(t, g.Pick(4), creation.ErrInputInvalid)
	assert.ErrorIs(t, g.Pick(9), creation.ErrInputInvalid)
	require.NoError(t, g.Pick(7))
	assert.True(t, g.Done())
	assert.Equal(t, []int{3, 6}, g.Picks())
	assert.ErrorIs(t, g.Pick(1), creation.ErrInputInvalid)
}

func TestGearSelection_Property_NoMates(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		g := creation.NewGearSelection(marineGear)
		for !g.Done() {
			_ = g.Pick(rapid.IntRange(0, 9).Draw(rt, "n"))
		}
		p := g.Picks()
		require.Len(rt, p, creation.GearPicks)
		assert.NotEqual(rt, p[0], p[1])
		assert.NotEqual(rt, ruleset.GearMate(p[0]), p[1], fmt.Sprintf("picks %v are mates", p))
	})
}
