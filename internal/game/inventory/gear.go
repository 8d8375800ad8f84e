package inventory

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cory-johannsen/colonybot/internal/game/dice"
)

var quantityPattern = regexp.MustCompile(`^(\d+d\d+)\s+(doses of|rounds of)?\s*(.+)$`)

// ParseGearLabel splits a gear table label such as "1d6 doses of Naproleve"
// into its dice expression and stem name. ok is false for labels without a
// quantity prefix.
func ParseGearLabel(label string) (expr, stem string, ok bool) {
	m := quantityPattern.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[3]), true
}

// Roller rolls a dice expression; *dice.Roller satisfies it.
type Roller interface {
	RollExpr(expr string) (dice.RollResult, error)
}

// ResolveGear turns a gear label into an inventory Item. Quantity labels are
// rolled into a consumable; anything else becomes a unique item typed by
// registry lookup.
func (r *Registry) ResolveGear(label string, roller Roller) (Item, error) {
	expr, stem, ok := ParseGearLabel(label)
	if !ok {
		name := strings.TrimSpace(label)
		return NewUnique(r.Classify(name), name), nil
	}
	res, err := roller.RollExpr(expr)
	if err != nil {
		return Item{}, fmt.Errorf("inventory: ResolveGear %q: %w", label, err)
	}
	return NewConsumable(stem, res.Total(), expr, res.Dice), nil
}

// ValidateGearLabel checks the quantity expression of label, if any.
func ValidateGearLabel(label string) error {
	expr, _, ok := ParseGearLabel(label)
	if !ok {
		return nil
	}
	if _, err := dice.Parse(expr); err != nil {
		return fmt.Errorf("gear %q: %w", label, err)
	}
	return nil
}
