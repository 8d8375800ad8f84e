// Package content loads the read-only game data corpus and cross-checks the
// references between its tables.
package content

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/cory-johannsen/colonybot/internal/game/character"
	"github.com/cory-johannsen/colonybot/internal/game/inventory"
	"github.com/cory-johannsen/colonybot/internal/game/ruleset"
)

// Subdirectories of the content root.
const (
	CareersDir   = "careers"
	TalentsDir   = "talents"
	SkillsDir    = "skills"
	FactionsDir  = "factions"
	WeaponsDir   = "weapons"
	WearablesDir = "wearables"
	ItemsDir     = "items"
)

// Corpus is the immutable set of lookup tables. All lookups are exact-key.
type Corpus struct {
	careers  map[string]*ruleset.Career
	ordered  []*ruleset.Career
	talents  map[string]*ruleset.Talent
	skills   map[character.Skill]*ruleset.SkillDef
	factions []*ruleset.Faction
	byFac    map[string]*ruleset.Faction
	items    *inventory.Registry
}

// Load reads every table under dir and validates cross-references.
//
// Postcondition: returns a fully validated Corpus, or an error naming every
// broken reference.
func Load(dir string) (*Corpus, error) {
	careers, err := ruleset.LoadCareers(filepath.Join(dir, CareersDir))
	if err != nil {
		return nil, fmt.Errorf("content: loading careers: %w", err)
	}
	talents, err := ruleset.LoadTalents(filepath.Join(dir, TalentsDir))
	if err != nil {
		return nil, fmt.Errorf("content: loading talents: %w", err)
	}
	skills, err := ruleset.LoadSkills(filepath.Join(dir, SkillsDir))
	if err != nil {
		return nil, fmt.Errorf("content: loading skills: %w", err)
	}
	factions, err := ruleset.LoadFactions(filepath.Join(dir, FactionsDir))
	if err != nil {
		return nil, fmt.Errorf("content: loading factions: %w", err)
	}
	weapons, err := inventory.LoadWeapons(filepath.Join(dir, WeaponsDir))
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	wearables, err := inventory.LoadWearables(filepath.Join(dir, WearablesDir))
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	items, err := inventory.LoadItems(filepath.Join(dir, ItemsDir))
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	return New(careers, talents, skills, factions, weapons, wearables, items)
}

// New assembles a Corpus from already-parsed tables.
func New(
	careers []*ruleset.Career,
	talents []*ruleset.Talent,
	skills []*ruleset.SkillDef,
	factions []*ruleset.Faction,
	weapons []*inventory.WeaponDef,
	wearables []*inventory.WearableDef,
	items []*inventory.ItemDef,
) (*Corpus, error) {
	c := &Corpus{
		careers: make(map[string]*ruleset.Career, len(careers)),
		talents: make(map[string]*ruleset.Talent, len(talents)),
		skills:  make(map[character.Skill]*ruleset.SkillDef, len(skills)),
		byFac:   make(map[string]*ruleset.Faction, len(factions)),
		items:   inventory.NewRegistry(),
	}
	var errs []error
	for _, t := range talents {
		if _, dup := c.talents[t.Name]; dup {
			errs = append(errs, fmt.Errorf("talent %q defined twice", t.Name))
		}
		c.talents[t.Name] = t
	}
	for _, s := range skills {
		c.skills[s.Name] = s
	}
	for _, f := range factions {
		if _, dup := c.byFac[f.Name]; dup {
			errs = append(errs, fmt.Errorf("faction %q defined twice", f.Name))
		}
		c.byFac[f.Name] = f
		c.factions = append(c.factions, f)
	}
	for _, w := range weapons {
		if err := c.items.RegisterWeapon(w); err != nil {
			errs = append(errs, err)
		}
	}
	for _, w := range wearables {
		if err := c.items.RegisterWearable(w); err != nil {
			errs = append(errs, err)
		}
	}
	for _, it := range items {
		if err := c.items.RegisterItem(it); err != nil {
			errs = append(errs, err)
		}
	}
	for _, career := range careers {
		if _, dup := c.careers[career.Name]; dup {
			errs = append(errs, fmt.Errorf("career %q defined twice", career.Name))
			continue
		}
		c.careers[career.Name] = career
		c.ordered = append(c.ordered, career)
		for _, t := range career.Talents {
			if _, ok := c.talents[t]; !ok {
				errs = append(errs, fmt.Errorf("career %q: unknown talent %q", career.Name, t))
			}
		}
		for _, s := range career.KeySkills {
			if _, ok := c.skills[s]; !ok && len(skills) > 0 {
				errs = append(errs, fmt.Errorf("career %q: key skill %q missing from skill table", career.Name, s))
			}
		}
	}
	if len(c.ordered) == 0 {
		errs = append(errs, errors.New("no careers defined"))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("content: %w", errors.Join(errs...))
	}
	sort.Slice(c.ordered, func(i, j int) bool { return c.ordered[i].Name < c.ordered[j].Name })
	return c, nil
}

// Careers returns the careers in menu order (sorted by name).
func (c *Corpus) Careers() []*ruleset.Career {
	return c.ordered
}

// Career returns the career named name.
func (c *Corpus) Career(name string) (*ruleset.Career, bool) {
	v, ok := c.careers[name]
	return v, ok
}

// Talent returns the talent named name.
func (c *Corpus) Talent(name string) (*ruleset.Talent, bool) {
	v, ok := c.talents[name]
	return v, ok
}

// Skill returns the description of s.
func (c *Corpus) Skill(s character.Skill) (*ruleset.SkillDef, bool) {
	v, ok := c.skills[s]
	return v, ok
}

// Faction returns the faction named name.
func (c *Corpus) Faction(name string) (*ruleset.Faction, bool) {
	v, ok := c.byFac[name]
	return v, ok
}

// FactionNames returns every faction name in load order.
func (c *Corpus) FactionNames() []string {
	out := make([]string, len(c.factions))
	for i, f := range c.factions {
		out[i] = f.Name
	}
	return out
}

// Items returns the weapon, wearable, and item registry.
func (c *Corpus) Items() *inventory.Registry {
	return c.items
}

// Weapon returns the weapon named name.
func (c *Corpus) Weapon(name string) (*inventory.WeaponDef, bool) {
	return c.items.Weapon(name)
}

// Wearable returns the wearable named name.
func (c *Corpus) Wearable(name string) (*inventory.WearableDef, bool) {
	return c.items.Wearable(name)
}

// Stats summarises table sizes for startup logging.
type Stats struct {
	Careers, Talents, Skills, Factions, Weapons, Wearables int
}

// Stats returns the table sizes.
func (c *Corpus) Stats() Stats {
	return Stats{
		Careers:   len(c.ordered),
		Talents:   len(c.talents),
		Skills:    len(c.skills),
		Factions:  len(c.factions),
		Weapons:   len(c.items.AllWeapons()),
		Wearables: len(c.items.AllWearables()),
	}
}
