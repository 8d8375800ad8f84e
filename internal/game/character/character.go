package character

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/cory-johannsen/colonybot/internal/game/inventory"
)

const (
	// MinAge is the youngest playable age.
	MinAge = 18
	// MaxAge is the oldest playable age.
	MaxAge = 120
)

// Genders lists the gender menu in display order; any other non-empty text is accepted as free text.
var Genders = []string{"Male", "Female", "Non-binary", "Prefer not to specify"}

var namePattern = regexp.MustCompile(`^[A-Za-z\- ]{2,}$`)

// ValidName reports whether name is at least two letters, spaces, or hyphens
// and contains at least one letter.
func ValidName(name string) bool {
	return namePattern.MatchString(name) && strings.ContainsAny(strings.ToLower(name), "abcdefghijklmnopqrstuvwxyz")
}

// ValidAge reports whether age is within [MinAge, MaxAge].
func ValidAge(age int) bool {
	return age >= MinAge && age <= MaxAge
}

// Character is a committed character sheet. The JSON field names are the
// on-disk store format.
type Character struct {
	ID            string             `json:"-"`
	Name          string             `json:"Name"`
	Career        string             `json:"Career"`
	Gender        string             `json:"Gender"`
	Age           int                `json:"Age"`
	Attributes    Attributes         `json:"Attributes"`
	Skills        Skills             `json:"Skills"`
	Talent        string             `json:"Talent"`
	Agenda        string             `json:"Agenda"`
	Inventory     []inventory.Item   `json:"Inventory"`
	SignatureItem string             `json:"Signature Item"`
	Cash          int                `json:"Cash"`
	Loadout       *inventory.Loadout `json:"Loadout"`
	Weapons       []inventory.Weapon `json:"Weapons"`
}

// Rules carries the career facts a character is validated against.
type Rules struct {
	KeyAttribute Attribute
	KeySkills    []Skill
}

// Validate enforces the commit invariants.
//
// Postcondition: returns nil iff every invariant holds; otherwise the error
// lists every violation.
func (c *Character) Validate(r Rules) error {
	var errs []error
	if !ValidName(c.Name) {
		errs = append(errs, fmt.Errorf("name %q must be letters, spaces, or hyphens", c.Name))
	}
	if strings.TrimSpace(c.Gender) == "" {
		errs = append(errs, errors.New("gender must not be empty"))
	}
	if !ValidAge(c.Age) {
		errs = append(errs, fmt.Errorf("age %d outside [%d,%d]", c.Age, MinAge, MaxAge))
	}
	if c.Career == "" {
		errs = append(errs, errors.New("career must not be empty"))
	}
	if err := c.Attributes.Validate(r.KeyAttribute); err != nil {
		errs = append(errs, err)
	}
	if err := c.Skills.Validate(r.KeySkills); err != nil {
		errs = append(errs, err)
	}
	if c.Cash < 0 {
		errs = append(errs, errors.New("cash must be >= 0"))
	}
	for _, it := range c.Inventory {
		if it.Quantity < 0 {
			errs = append(errs, fmt.Errorf("item %q has negative quantity", it.Name))
		}
	}
	if c.Loadout != nil {
		if err := c.Loadout.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("loadout: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Sheet renders the character as a monospace text frame.
func (c *Character) Sheet() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s, %d) - %s\n", c.Name, c.Gender, c.Age, c.Career)
	b.WriteString("Attributes:")
	for _, a := range AllAttributes {
		fmt.Fprintf(&b, " %s %d", a, c.Attributes.Get(a))
	}
	var skills []string
	for _, s := range AllSkills {
		if v := c.Skills.Get(s); v > 0 {
			skills = append(skills, fmt.Sprintf("%s %d", s, v))
		}
	}
	if len(skills) == 0 {
		skills = []string{"none"}
	}
	fmt.Fprintf(&b, "\nSkills: %s", strings.Join(skills, ", "))
	fmt.Fprintf(&b, "\nTalent: %s\nAgenda: %s\n", c.Talent, c.Agenda)
	b.WriteString("Gear:")
	if len(c.Inventory) == 0 {
		b.WriteString(" none")
	}
	for _, it := range c.Inventory {
		fmt.Fprintf(&b, "\n  - %s", it)
	}
	b.WriteString("\nWeapons:")
	if len(c.Weapons) == 0 {
		b.WriteString(" none")
	}
	for _, w := range c.Weapons {
		fmt.Fprintf(&b, "\n  - %s", w)
	}
	if c.Loadout != nil && !c.Loadout.Empty() {
		b.WriteString("\nWorn:")
		for _, d := range c.Loadout.Worn() {
			fmt.Fprintf(&b, "\n  - %s (%s)", d.Name, d.Class)
		}
	}
	fmt.Fprintf(&b, "\nSignature Item: %s\nCash: %s", c.SignatureItem, inventory.FormatCash(c.Cash))
	return b.String()
}
