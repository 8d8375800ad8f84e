package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Equip rejections. Callers match with errors.Is.
var (
	ErrSuitWorn          = errors.New("a suit is worn")
	ErrSuitBlocked       = errors.New("clothing or armor prevents wearing a suit")
	ErrSlotOccupied      = errors.New("slot already occupied")
	ErrSuitIncompatible  = errors.New("accessory cannot be worn with a suit")
	ErrUnresolvedLoadout = errors.New("loadout has unresolved wearables")
)

// Loadout is the exclusive-zone equipment aggregate.
//
// Invariants: a worn Suit excludes Clothing and Armor; Armor pieces never share
// a slot; at most one Accessory per slot; no suit-incompatible Accessory while a
// Suit is worn.
type Loadout struct {
	Clothing    *WearableDef
	Armor       []*WearableDef
	Suit        *WearableDef
	Accessories []*WearableDef
}

// NewLoadout returns an empty Loadout.
func NewLoadout() *Loadout {
	return &Loadout{}
}

// Empty reports whether nothing is worn.
func (l *Loadout) Empty() bool {
	return l.Clothing == nil && l.Suit == nil && len(l.Armor) == 0 && len(l.Accessories) == 0
}

// Equip puts d on, enforcing the exclusivity rules. On error the loadout is unchanged.
func (l *Loadout) Equip(d *WearableDef) error {
	switch d.Class {
	case ClassSuit:
		if l.Suit != nil {
			return fmt.Errorf("equip %q: %w", d.Name, ErrSuitWorn)
		}
		if l.Clothing != nil || len(l.Armor) > 0 {
			return fmt.Errorf("equip %q: %w", d.Name, ErrSuitBlocked)
		}
		for _, a := range l.Accessories {
			if a.SuitIncompatible {
				return fmt.Errorf("equip %q with %q: %w", d.Name, a.Name, ErrSuitIncompatible)
			}
		}
		l.Suit = d
	case ClassClothing:
		if l.Suit != nil {
			return fmt.Errorf("equip %q: %w", d.Name, ErrSuitWorn)
		}
		if l.Clothing != nil {
			return fmt.Errorf("equip %q over %q: %w", d.Name, l.Clothing.Name, ErrSlotOccupied)
		}
		l.Clothing = d
	case ClassArmor:
		if l.Suit != nil {
			return fmt.Errorf("equip %q: %w", d.Name, ErrSuitWorn)
		}
		for _, worn := range l.Armor {
			for _, s := range d.Slots {
				if worn.Covers(s) {
					return fmt.Errorf("equip %q: %s covered by %q: %w", d.Name, SlotDisplayName(s), worn.Name, ErrSlotOccupied)
				}
			}
		}
		l.Armor = append(l.Armor, d)
	case ClassAccessory:
		if l.Suit != nil && d.SuitIncompatible {
			return fmt.Errorf("equip %q: %w", d.Name, ErrSuitIncompatible)
		}
		for _, worn := range l.Accessories {
			if worn.Slots[0] == d.Slots[0] {
				return fmt.Errorf("equip %q: %s holds %q: %w", d.Name, SlotDisplayName(d.Slots[0]), worn.Name, ErrSlotOccupied)
			}
		}
		l.Accessories = append(l.Accessories, d)
	default:
		return fmt.Errorf("equip %q: unknown class %q", d.Name, d.Class)
	}
	return nil
}

// Unequip removes the worn piece named name. Returns false if nothing by that name is worn.
func (l *Loadout) Unequip(name string) bool {
	switch {
	case l.Suit != nil && l.Suit.Name == name:
		l.Suit = nil
		return true
	case l.Clothing != nil && l.Clothing.Name == name:
		l.Clothing = nil
		return true
	}
	if i := indexByName(l.Armor, name); i >= 0 {
		l.Armor = append(l.Armor[:i], l.Armor[i+1:]...)
		return true
	}
	if i := indexByName(l.Accessories, name); i >= 0 {
		l.Accessories = append(l.Accessories[:i], l.Accessories[i+1:]...)
		return true
	}
	return false
}

func indexByName(defs []*WearableDef, name string) int {
	for i, d := range defs {
		if d.Name == name {
			return i
		}
	}
	return -1
}

// Worn returns every worn piece: suit or clothing first, then armor, then accessories.
func (l *Loadout) Worn() []*WearableDef {
	var out []*WearableDef
	if l.Suit != nil {
		out = append(out, l.Suit)
	}
	if l.Clothing != nil {
		out = append(out, l.Clothing)
	}
	out = append(out, l.Armor...)
	return append(out, l.Accessories...)
}

// ArmorRating returns the protection on slot s. A suit supplies its rating to
// every slot; otherwise clothing and the armor piece covering s add together,
// plus any accessory worn on s.
func (l *Loadout) ArmorRating(s Slot) int {
	total := 0
	if l.Suit != nil {
		total += l.Suit.ArmorRating
	}
	if l.Clothing != nil && l.Clothing.Covers(s) {
		total += l.Clothing.ArmorRating
	}
	for _, a := range l.Armor {
		if a.Covers(s) {
			total += a.ArmorRating
		}
	}
	for _, a := range l.Accessories {
		if a.Covers(s) {
			total += a.ArmorRating
		}
	}
	return total
}

// ArmorRatings returns ArmorRating for every slot.
func (l *Loadout) ArmorRatings() map[Slot]int {
	out := make(map[Slot]int, len(AllSlots))
	for _, s := range AllSlots {
		out[s] = l.ArmorRating(s)
	}
	return out
}

// Encumbrance returns the sum of worn encumbrances.
func (l *Loadout) Encumbrance() float64 {
	total := 0.0
	for _, d := range l.Worn() {
		total += d.Encumbrance
	}
	return total
}

// Validate re-checks every invariant, e.g. after loading from storage.
func (l *Loadout) Validate() error {
	fresh := NewLoadout()
	for _, d := range l.Worn() {
		if d.Class != ClassSuit && len(d.Slots) == 0 {
			return fmt.Errorf("%q: %w", d.Name, ErrUnresolvedLoadout)
		}
		if err := fresh.Equip(d); err != nil {
			return err
		}
	}
	return nil
}

// Resolve replaces name-only wearables (as decoded from JSON) with their
// canonical definitions from lookup.
func (l *Loadout) Resolve(lookup func(name string) (*WearableDef, bool)) error {
	resolve := func(d *WearableDef) (*WearableDef, error) {
		def, ok := lookup(d.Name)
		if !ok {
			return nil, fmt.Errorf("inventory: Loadout.Resolve: unknown wearable %q", d.Name)
		}
		if def.Class != d.Class {
			return nil, fmt.Errorf("inventory: Loadout.Resolve: %q is %s, stored as %s", d.Name, def.Class, d.Class)
		}
		return def, nil
	}
	var err error
	if l.Suit != nil {
		if l.Suit, err = resolve(l.Suit); err != nil {
			return err
		}
	}
	if l.Clothing != nil {
		if l.Clothing, err = resolve(l.Clothing); err != nil {
			return err
		}
	}
	for i := range l.Armor {
		if l.Armor[i], err = resolve(l.Armor[i]); err != nil {
			return err
		}
	}
	for i := range l.Accessories {
		if l.Accessories[i], err = resolve(l.Accessories[i]); err != nil {
			return err
		}
	}
	return l.Validate()
}

type loadoutJSON struct {
	Clothing    *string  `json:"clothing"`
	Armor       []string `json:"armor"`
	Suit        *string  `json:"suit"`
	Accessories []string `json:"accessories"`
}

// MarshalJSON stores wearables by name.
func (l *Loadout) MarshalJSON() ([]byte, error) {
	out := loadoutJSON{Armor: []string{}, Accessories: []string{}}
	if l.Clothing != nil {
		out.Clothing = &l.Clothing.Name
	}
	if l.Suit != nil {
		out.Suit = &l.Suit.Name
	}
	for _, a := range l.Armor {
		out.Armor = append(out.Armor, a.Name)
	}
	for _, a := range l.Accessories {
		out.Accessories = append(out.Accessories, a.Name)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes name-only wearables; call Resolve to restore full definitions.
func (l *Loadout) UnmarshalJSON(data []byte) error {
	var in loadoutJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*l = Loadout{}
	if in.Clothing != nil {
		l.Clothing = &WearableDef{Name: *in.Clothing, Class: ClassClothing}
	}
	if in.Suit != nil {
		l.Suit = &WearableDef{Name: *in.Suit, Class: ClassSuit}
	}
	for _, n := range in.Armor {
		l.Armor = append(l.Armor, &WearableDef{Name: n, Class: ClassArmor})
	}
	for _, n := range in.Accessories {
		l.Accessories = append(l.Accessories, &WearableDef{Name: n, Class: ClassAccessory})
	}
	return nil
}
