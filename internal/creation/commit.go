package creation

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/colonybot/internal/game/character"
	"github.com/cory-johannsen/colonybot/internal/game/content"
	"github.com/cory-johannsen/colonybot/internal/game/inventory"
	"github.com/cory-johannsen/colonybot/internal/game/session"
)

// Assemble builds the committed character from a finished draft. Weapons move
// out of the inventory into combat records. Wearables stay in the inventory
// and are put on a loadout when it accepts them.
//
// Precondition: d has reached review.
// Postcondition: no item of the returned Inventory is a weapon.
func Assemble(d *session.Draft, corpus *content.Corpus, logger *zap.Logger) (*character.Character, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if d.Cash == nil {
		return nil, invalid("cash has not been rolled")
	}
	ch := &character.Character{
		ID:            d.ID,
		Name:          d.Name,
		Career:        d.Career,
		Gender:        d.Gender,
		Age:           d.Age,
		Attributes:    d.Attributes.Clone(),
		Skills:        d.Skills.Compact(),
		Talent:        d.Talent,
		Agenda:        d.Agenda,
		Inventory:     []inventory.Item{},
		SignatureItem: d.SignatureItem,
		Cash:          *d.Cash,
		Weapons:       []inventory.Weapon{},
	}
	loadout := inventory.NewLoadout()
	for _, it := range d.Inventory {
		if def, ok := corpus.Weapon(it.Name); ok {
			ch.Weapons = append(ch.Weapons, def.Record())
			continue
		}
		if it.Kind == inventory.KindWeapon {
			ch.Weapons = append(ch.Weapons, inventory.MinimalWeapon(it.Name))
			continue
		}
		ch.Inventory = append(ch.Inventory, it)
		if !it.Wearable() {
			continue
		}
		def, ok := corpus.Wearable(it.Name)
		if !ok {
			return nil, corpusMissing("assemble", "wearable", it.Name)
		}
		if err := loadout.Equip(def); err != nil {
			// Still carried, just not worn.
			logger.Debug("wearable left unworn",
				zap.String("draft_id", d.ID),
				zap.String("item", it.Name),
				zap.Error(err),
			)
		}
	}
	if !loadout.Empty() {
		ch.Loadout = loadout
	}
	return ch, nil
}
