package inventory

import (
	"errors"
	"fmt"
)

// WeaponType classifies a weapon for display and range rules.
type WeaponType string

const (
	// WeaponRanged covers pistols, rifles, and launchers.
	WeaponRanged WeaponType = "ranged"
	// WeaponClose covers knives, batons, and improvised melee weapons.
	WeaponClose WeaponType = "close"
	// WeaponHeavy covers crew-served and vehicle weapons.
	WeaponHeavy WeaponType = "heavy"
)

var validRanges = map[string]bool{
	"Engaged": true, "Short": true, "Medium": true, "Long": true, "Extreme": true,
}

// WeaponDef defines the static properties of a weapon loaded from YAML.
type WeaponDef struct {
	Name    string     `yaml:"name"`
	Type    WeaponType `yaml:"type"`
	Bonus   int        `yaml:"bonus"`
	Damage  int        `yaml:"damage"`
	Range   string     `yaml:"range"`
	Weight  float64    `yaml:"weight"`
	Cost    int        `yaml:"cost"`
	Comment string     `yaml:"comment"`
}

// Validate reports an error if the WeaponDef is missing required fields or contains illegal values.
func (w *WeaponDef) Validate() error {
	var errs []error
	if w.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	switch w.Type {
	case WeaponRanged, WeaponClose, WeaponHeavy:
	default:
		errs = append(errs, fmt.Errorf("type must be ranged, close, or heavy; got %q", w.Type))
	}
	if !validRanges[w.Range] {
		errs = append(errs, fmt.Errorf("range %q is not a valid range band", w.Range))
	}
	if w.Damage < 0 {
		errs = append(errs, errors.New("damage must be >= 0"))
	}
	if w.Weight < 0 || w.Cost < 0 {
		errs = append(errs, errors.New("weight and cost must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon validation failed: %v", errs)
	}
	return nil
}

// Record returns the canonical weapon record stored on a character.
func (w *WeaponDef) Record() Weapon {
	return Weapon{
		Name:    w.Name,
		Type:    w.Type,
		Bonus:   w.Bonus,
		Damage:  w.Damage,
		Range:   w.Range,
		Weight:  w.Weight,
		Cost:    w.Cost,
		Comment: w.Comment,
	}
}

// Weapon is the weapon record carried by a character. A minimal record has
// only Name set.
type Weapon struct {
	Name    string     `json:"name"`
	Type    WeaponType `json:"type,omitempty"`
	Bonus   int        `json:"bonus,omitempty"`
	Damage  int        `json:"damage,omitempty"`
	Range   string     `json:"range,omitempty"`
	Weight  float64    `json:"weight,omitempty"`
	Cost    int        `json:"cost,omitempty"`
	Comment string     `json:"comment,omitempty"`
}

// MinimalWeapon returns a weapon record carrying only a name.
func MinimalWeapon(name string) Weapon {
	return Weapon{Name: name}
}

// Minimal reports whether no canonical record backed this weapon.
func (w Weapon) Minimal() bool {
	return w.Type == ""
}

// String renders the weapon for character sheets.
func (w Weapon) String() string {
	if w.Minimal() {
		return w.Name
	}
	return fmt.Sprintf("%s (%s, bonus %+d, damage %d, %s)", w.Name, w.Type, w.Bonus, w.Damage, w.Range)
}

// LoadWeapons reads every YAML file in dir as a list of WeaponDefs and validates each.
func LoadWeapons(dir string) ([]*WeaponDef, error) {
	return loadDefs[WeaponDef](dir, "LoadWeapons")
}
