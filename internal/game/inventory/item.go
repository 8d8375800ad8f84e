package inventory

import (
	"errors"
	"fmt"
)

// Kind tags an Item with its variant.
type Kind string

// Item variants.
const (
	KindClothing   Kind = "clothing"
	KindArmor      Kind = "armor"
	KindSuit       Kind = "suit"
	KindAccessory  Kind = "accessory"
	KindWeapon     Kind = "weapon"
	KindConsumable Kind = "consumable"
	KindGeneric    Kind = "generic"
)

// Item is a single inventory entry. Consumables stack by Quantity and may
// carry the dice expression their quantity was rolled from; every other kind
// is unique with Quantity 1.
type Item struct {
	Kind     Kind   `json:"kind"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Spawn    string `json:"spawn,omitempty"`
	Rolls    []int  `json:"rolls,omitempty"`
}

// NewUnique returns a unique item of the given kind.
func NewUnique(kind Kind, name string) Item {
	return Item{Kind: kind, Name: name, Quantity: 1}
}

// NewConsumable returns a stackable consumable rolled from spawn.
func NewConsumable(name string, quantity int, spawn string, rolls []int) Item {
	return Item{Kind: KindConsumable, Name: name, Quantity: quantity, Spawn: spawn, Rolls: rolls}
}

// Stackable reports whether the item carries a meaningful quantity.
func (i Item) Stackable() bool { return i.Kind == KindConsumable }

// Wearable reports whether the item can go on a Loadout.
func (i Item) Wearable() bool {
	switch i.Kind {
	case KindClothing, KindArmor, KindSuit, KindAccessory:
		return true
	}
	return false
}

// String renders the item for inventory listings.
func (i Item) String() string {
	if i.Stackable() {
		return fmt.Sprintf("%s x%d", i.Name, i.Quantity)
	}
	return i.Name
}

// ItemDef describes a consumable or general gear item in the content corpus.
type ItemDef struct {
	Name        string  `yaml:"name"`
	Kind        Kind    `yaml:"kind"`
	Description string  `yaml:"description"`
	Weight      float64 `yaml:"weight"`
}

// Validate checks that the ItemDef satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if d.Kind != KindConsumable && d.Kind != KindGeneric {
		errs = append(errs, fmt.Errorf("kind must be consumable or generic; got %q", d.Kind))
	}
	if d.Weight < 0 {
		errs = append(errs, errors.New("weight must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %v", errs)
	}
	return nil
}

// LoadItems reads every YAML file in dir as a list of ItemDefs and validates each.
func LoadItems(dir string) ([]*ItemDef, error) {
	return loadDefs[ItemDef](dir, "LoadItems")
}
