package inventory

import (
	"fmt"
	"sort"
)

// Registry holds all loaded weapon, wearable, and item definitions indexed by exact name.
type Registry struct {
	weapons   map[string]*WeaponDef
	wearables map[string]*WearableDef
	items     map[string]*ItemDef
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		weapons:   make(map[string]*WeaponDef),
		wearables: make(map[string]*WearableDef),
		items:     make(map[string]*ItemDef),
	}
}

// RegisterWeapon adds w to the registry.
//
// Postcondition: Weapon(w.Name) returns w; returns error if the name is already registered.
func (r *Registry) RegisterWeapon(w *WeaponDef) error {
	if _, exists := r.weapons[w.Name]; exists {
		return fmt.Errorf("inventory: Registry.RegisterWeapon: weapon %q already registered", w.Name)
	}
	r.weapons[w.Name] = w
	return nil
}

// RegisterWearable adds d to the registry.
func (r *Registry) RegisterWearable(d *WearableDef) error {
	if _, exists := r.wearables[d.Name]; exists {
		return fmt.Errorf("inventory: Registry.RegisterWearable: wearable %q already registered", d.Name)
	}
	r.wearables[d.Name] = d
	return nil
}

// RegisterItem adds d to the registry.
func (r *Registry) RegisterItem(d *ItemDef) error {
	if _, exists := r.items[d.Name]; exists {
		return fmt.Errorf("inventory: Registry.RegisterItem: item %q already registered", d.Name)
	}
	r.items[d.Name] = d
	return nil
}

// Weapon returns the WeaponDef registered under name.
func (r *Registry) Weapon(name string) (*WeaponDef, bool) {
	d, ok := r.weapons[name]
	return d, ok
}

// Wearable returns the WearableDef registered under name.
func (r *Registry) Wearable(name string) (*WearableDef, bool) {
	d, ok := r.wearables[name]
	return d, ok
}

// Item returns the ItemDef registered under name.
func (r *Registry) Item(name string) (*ItemDef, bool) {
	d, ok := r.items[name]
	return d, ok
}

// AllWeapons returns all registered weapons sorted by name.
func (r *Registry) AllWeapons() []*WeaponDef {
	out := make([]*WeaponDef, 0, len(r.weapons))
	for _, w := range r.weapons {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AllWearables returns all registered wearables sorted by name.
func (r *Registry) AllWearables() []*WearableDef {
	out := make([]*WearableDef, 0, len(r.wearables))
	for _, d := range r.wearables {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Classify returns the Item variant for a unique item named name. Weapons win
// over wearables; unknown names are generic.
func (r *Registry) Classify(name string) Kind {
	if _, ok := r.weapons[name]; ok {
		return KindWeapon
	}
	if d, ok := r.wearables[name]; ok {
		return d.ItemKind()
	}
	if d, ok := r.items[name]; ok {
		return d.Kind
	}
	return KindGeneric
}
