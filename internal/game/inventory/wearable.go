package inventory

import (
	"errors"
	"fmt"
)

// Slot identifies a body slot a wearable can cover.
type Slot string

const (
	// SlotHead is the head slot.
	SlotHead Slot = "head"
	// SlotTorso is the torso slot.
	SlotTorso Slot = "torso"
	// SlotArms covers both arms.
	SlotArms Slot = "arms"
	// SlotHands covers both hands.
	SlotHands Slot = "hands"
	// SlotLegs covers both legs.
	SlotLegs Slot = "legs"
	// SlotFeet is the feet slot.
	SlotFeet Slot = "feet"
)

// AllSlots lists every body slot in display order.
var AllSlots = []Slot{SlotHead, SlotTorso, SlotArms, SlotHands, SlotLegs, SlotFeet}

var validSlots = map[Slot]bool{
	SlotHead: true, SlotTorso: true, SlotArms: true, SlotHands: true, SlotLegs: true, SlotFeet: true,
}

var slotDisplayNames = map[Slot]string{
	SlotHead:  "Head",
	SlotTorso: "Torso",
	SlotArms:  "Arms",
	SlotHands: "Hands",
	SlotLegs:  "Legs",
	SlotFeet:  "Feet",
}

// SlotDisplayName returns the human-readable label for a slot, or the slot itself if unknown.
func SlotDisplayName(s Slot) string {
	if label, ok := slotDisplayNames[s]; ok {
		return label
	}
	return string(s)
}

// WearableClass is one of the four exclusive-zone equipment classes.
type WearableClass string

const (
	// ClassClothing is everyday wear; at most one piece, layered under armor.
	ClassClothing WearableClass = "clothing"
	// ClassArmor is protective wear; pieces never share a slot.
	ClassArmor WearableClass = "armor"
	// ClassSuit is a full-body suit covering every slot.
	ClassSuit WearableClass = "suit"
	// ClassAccessory occupies exactly one slot.
	ClassAccessory WearableClass = "accessory"
)

// WearableDef defines a wearable piece loaded from YAML.
type WearableDef struct {
	Name             string        `yaml:"name"`
	Class            WearableClass `yaml:"class"`
	Slots            []Slot        `yaml:"slots"`
	ArmorRating      int           `yaml:"armor_rating"`
	Encumbrance      float64       `yaml:"encumbrance"`
	SuitIncompatible bool          `yaml:"suit_incompatible"`
	Description      string        `yaml:"description"`
}

// Validate reports an error if the WearableDef is malformed.
func (d *WearableDef) Validate() error {
	var errs []error
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	switch d.Class {
	case ClassClothing, ClassArmor:
		if len(d.Slots) == 0 {
			errs = append(errs, fmt.Errorf("%s must cover at least one slot", d.Class))
		}
	case ClassSuit:
		if len(d.Slots) != 0 {
			errs = append(errs, errors.New("suit covers every slot; slots must be omitted"))
		}
	case ClassAccessory:
		if len(d.Slots) != 1 {
			errs = append(errs, fmt.Errorf("accessory must occupy exactly one slot; got %d", len(d.Slots)))
		}
	default:
		errs = append(errs, fmt.Errorf("class must be clothing, armor, suit, or accessory; got %q", d.Class))
	}
	seen := make(map[Slot]bool, len(d.Slots))
	for _, s := range d.Slots {
		if !validSlots[s] {
			errs = append(errs, fmt.Errorf("slot %q is not a valid body slot", s))
		}
		if seen[s] {
			errs = append(errs, fmt.Errorf("slot %q listed twice", s))
		}
		seen[s] = true
	}
	if d.SuitIncompatible && d.Class != ClassAccessory {
		errs = append(errs, errors.New("suit_incompatible applies to accessories only"))
	}
	if d.ArmorRating < 0 {
		errs = append(errs, errors.New("armor_rating must be >= 0"))
	}
	if d.Encumbrance < 0 {
		errs = append(errs, errors.New("encumbrance must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("wearable validation failed: %v", errs)
	}
	return nil
}

// Covers reports whether the piece covers slot s. A suit covers every slot.
func (d *WearableDef) Covers(s Slot) bool {
	if d.Class == ClassSuit {
		return true
	}
	for _, own := range d.Slots {
		if own == s {
			return true
		}
	}
	return false
}

// ItemKind maps the wearable class onto the Item variant tag.
func (d *WearableDef) ItemKind() Kind {
	switch d.Class {
	case ClassClothing:
		return KindClothing
	case ClassArmor:
		return KindArmor
	case ClassSuit:
		return KindSuit
	default:
		return KindAccessory
	}
}

// LoadWearables reads every YAML file in dir as a list of WearableDefs and validates each.
func LoadWearables(dir string) ([]*WearableDef, error) {
	return loadDefs[WearableDef](dir, "LoadWearables")
}
