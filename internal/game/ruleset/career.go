package ruleset

import (
	"errors"
	"fmt"
	"os"

	"github.com/cory-johannsen/colonybot/internal/game/character"
	"github.com/cory-johannsen/colonybot/internal/game/dice"
	"github.com/cory-johannsen/colonybot/internal/game/inventory"
	"gopkg.in/yaml.v3"
)

// GearSlots is the size of every career's starting gear table: four
// mutually exclusive pairs.
const GearSlots = 8

// Career defines a playable career.
//
// Precondition: Name, KeyAttribute, KeySkills, and Cash must be set after loading.
type Career struct {
	Name            string              `yaml:"name"`
	Description     string              `yaml:"description"`
	KeyAttribute    character.Attribute `yaml:"key_attribute"`
	KeySkills       []character.Skill   `yaml:"key_skills"`
	Talents         []string            `yaml:"talents"`
	PersonalAgendas []string            `yaml:"personal_agendas"`
	StartingGear    []string            `yaml:"starting_gear"`
	SignatureItems  []string            `yaml:"signature_items"`
	Cash            string              `yaml:"cash"`
}

// Validate checks the career's own invariants. Cross-table references are
// checked by the content loader.
func (c *Career) Validate() error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !c.KeyAttribute.Valid() {
		errs = append(errs, fmt.Errorf("key_attribute %q is not an attribute", c.KeyAttribute))
	}
	if len(c.KeySkills) != 3 {
		errs = append(errs, fmt.Errorf("key_skills must list 3 skills; got %d", len(c.KeySkills)))
	}
	seen := make(map[character.Skill]bool)
	for _, s := range c.KeySkills {
		if !s.Valid() {
			errs = append(errs, fmt.Errorf("key skill %q is not a skill", s))
		}
		if seen[s] {
			errs = append(errs, fmt.Errorf("key skill %q listed twice", s))
		}
		seen[s] = true
	}
	if len(c.Talents) == 0 {
		errs = append(errs, errors.New("talents must not be empty"))
	}
	if len(c.PersonalAgendas) == 0 {
		errs = append(errs, errors.New("personal_agendas must not be empty"))
	}
	if len(c.StartingGear) != GearSlots {
		errs = append(errs, fmt.Errorf("starting_gear must list %d items; got %d", GearSlots, len(c.StartingGear)))
	}
	for _, g := range c.StartingGear {
		if err := inventory.ValidateGearLabel(g); err != nil {
			errs = append(errs, err)
		}
	}
	if len(c.SignatureItems) == 0 {
		errs = append(errs, errors.New("signature_items must not be empty"))
	}
	if _, err := dice.Parse(c.Cash); err != nil {
		errs = append(errs, fmt.Errorf("cash: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("career %q: %w", c.Name, errors.Join(errs...))
	}
	return nil
}

// Rules returns the validation facts for characters of this career.
func (c *Career) Rules() character.Rules {
	return character.Rules{KeyAttribute: c.KeyAttribute, KeySkills: c.KeySkills}
}

// IsKeySkill reports whether s is one of the career's key skills.
func (c *Career) IsKeySkill(s character.Skill) bool {
	for _, k := range c.KeySkills {
		if k == s {
			return true
		}
	}
	return false
}

// GearMate returns the 0-based index paired with gear index i.
func GearMate(i int) int {
	return i ^ 1
}

// LoadCareers reads all YAML files in dir and parses each as a Career.
//
// Postcondition: Returns all parsed and validated careers or a non-nil error.
func LoadCareers(dir string) ([]*Career, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	careers := make([]*Career, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var c Career
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parsing career file %s: %w", path, err)
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		careers = append(careers, &c)
	}
	return careers, nil
}
