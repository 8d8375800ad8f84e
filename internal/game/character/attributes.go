// Package character defines the character domain model: attributes, skills,
// and the committed character record.
package character

import (
	"fmt"
	"strings"
)

// Attribute names one of the four character attributes.
type Attribute string

// The four attributes, in sheet order.
const (
	Strength Attribute = "Strength"
	Agility  Attribute = "Agility"
	Wits     Attribute = "Wits"
	Empathy  Attribute = "Empathy"
)

// AllAttributes lists the attributes in sheet order.
var AllAttributes = []Attribute{Strength, Agility, Wits, Empathy}

const (
	// AttributeBase is the starting value of every attribute.
	AttributeBase = 2
	// AttributeBudget is the number of points distributed above the base.
	AttributeBudget = 6
	// KeyAttributeCap is the creation cap of the career's key attribute.
	KeyAttributeCap = 5
	// AttributeCap is the creation cap of every other attribute.
	AttributeCap = 4
)

// ParseAttribute resolves a full attribute name or its initial letter, case-insensitively.
func ParseAttribute(s string) (Attribute, bool) {
	s = strings.TrimSpace(s)
	for _, a := range AllAttributes {
		if strings.EqualFold(s, string(a)) || strings.EqualFold(s, string(a)[:1]) {
			return a, true
		}
	}
	return "", false
}

// Cap returns the creation cap of a when key is the career's key attribute.
func Cap(a, key Attribute) int {
	if a == key {
		return KeyAttributeCap
	}
	return AttributeCap
}

// Attributes maps each attribute to its value.
type Attributes map[Attribute]int

// BaseAttributes returns every attribute at AttributeBase.
func BaseAttributes() Attributes {
	out := make(Attributes, len(AllAttributes))
	for _, a := range AllAttributes {
		out[a] = AttributeBase
	}
	return out
}

// Get returns the value of a, or AttributeBase when unset.
func (at Attributes) Get(a Attribute) int {
	if v, ok := at[a]; ok {
		return v
	}
	return AttributeBase
}

// Spent returns Σ(value − base) across the four attributes.
func (at Attributes) Spent() int {
	total := 0
	for _, a := range AllAttributes {
		total += at.Get(a) - AttributeBase
	}
	return total
}

// Clone returns an independent copy.
func (at Attributes) Clone() Attributes {
	out := make(Attributes, len(at))
	for k, v := range at {
		out[k] = v
	}
	return out
}

// Validate enforces the committed-character attribute rules for a career
// whose key attribute is key.
func (at Attributes) Validate(key Attribute) error {
	for a := range at {
		if !a.Valid() {
			return fmt.Errorf("unknown attribute %q", a)
		}
	}
	for _, a := range AllAttributes {
		v := at.Get(a)
		if v < AttributeBase || v > Cap(a, key) {
			return fmt.Errorf("%s %d outside [%d,%d]", a, v, AttributeBase, Cap(a, key))
		}
	}
	if spent := at.Spent(); spent != AttributeBudget {
		return fmt.Errorf("attribute points spent %d, want %d", spent, AttributeBudget)
	}
	return nil
}

// Valid reports whether a is one of the four attributes.
func (a Attribute) Valid() bool {
	for _, x := range AllAttributes {
		if a == x {
			return true
		}
	}
	return false
}
