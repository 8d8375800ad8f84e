package ruleset

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/colonybot/internal/game/character"
)

// Talent is a named special ability a character picks from their career list.
type Talent struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// LoadTalents reads every YAML file in dir as a list of talents.
func LoadTalents(dir string) ([]*Talent, error) {
	ts, err := loadLists[Talent](dir, "talent")
	if err != nil {
		return nil, err
	}
	for _, t := range ts {
		if t.Name == "" {
			return nil, errors.New("talent with empty name")
		}
	}
	return ts, nil
}

// SkillDef documents one of the twelve skills.
type SkillDef struct {
	Name        character.Skill     `yaml:"name"`
	Attribute   character.Attribute `yaml:"attribute"`
	Description string              `yaml:"description"`
}

// LoadSkills reads the skill table and checks it covers exactly the twelve skills.
func LoadSkills(dir string) ([]*SkillDef, error) {
	defs, err := loadLists[SkillDef](dir, "skill")
	if err != nil {
		return nil, err
	}
	seen := make(map[character.Skill]bool, len(defs))
	for _, d := range defs {
		if !d.Name.Valid() {
			return nil, fmt.Errorf("unknown skill %q", d.Name)
		}
		if !d.Attribute.Valid() {
			return nil, fmt.Errorf("skill %q: unknown attribute %q", d.Name, d.Attribute)
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("skill %q defined twice", d.Name)
		}
		seen[d.Name] = true
	}
	for _, s := range character.AllSkills {
		if !seen[s] {
			return nil, fmt.Errorf("skill %q missing from skill table", s)
		}
	}
	return defs, nil
}

// Faction is an organisation that can sponsor or control a colony.
type Faction struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// LoadFactions reads every YAML file in dir as a list of factions.
func LoadFactions(dir string) ([]*Faction, error) {
	fs, err := loadLists[Faction](dir, "faction")
	if err != nil {
		return nil, err
	}
	for _, f := range fs {
		if f.Name == "" {
			return nil, errors.New("faction with empty name")
		}
	}
	return fs, nil
}
