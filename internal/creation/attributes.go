package creation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/colonybot/internal/game/character"
	"github.com/cory-johannsen/colonybot/internal/game/session"
)

// AttributeAllocator distributes the attribute budget over the four
// attributes, one focused attribute at a time.
//
// Invariant: every value stays within [AttributeBase, Cap] and Remaining never
// goes negative.
type AttributeAllocator struct {
	key    character.Attribute
	values character.Attributes
	focus  int
}

// NewAttributeAllocator starts every attribute at the base with Strength focused.
func NewAttributeAllocator(key character.Attribute) *AttributeAllocator {
	return &AttributeAllocator{key: key, values: character.BaseAttributes()}
}

// Remaining returns the unspent points.
func (a *AttributeAllocator) Remaining() int {
	return character.AttributeBudget - a.values.Spent()
}

// Done reports whether the whole budget is spent.
func (a *AttributeAllocator) Done() bool {
	return a.Remaining() == 0
}

// Focus returns the attribute a single number is added to.
func (a *AttributeAllocator) Focus() character.Attribute {
	return character.AllAttributes[a.focus]
}

// Values returns a copy of the current allocation.
func (a *AttributeAllocator) Values() character.Attributes {
	return a.values.Clone()
}

// Reset returns every attribute to the base.
func (a *AttributeAllocator) Reset() {
	a.values = character.BaseAttributes()
	a.focus = 0
}

// Apply interprets one reply. Rejected input leaves the allocation unchanged
// and returns a KindInputInvalid error.
func (a *AttributeAllocator) Apply(in string) error {
	in = strings.TrimSpace(in)
	if strings.EqualFold(in, "R") {
		a.values[a.Focus()] = character.AttributeBase
		return nil
	}
	if attr, ok := character.ParseAttribute(in); ok {
		a.setFocus(attr)
		return nil
	}
	vals, isBatch, err := batch(in, len(character.AllAttributes))
	if err != nil {
		return err
	}
	if isBatch {
		return a.applyBatch(vals)
	}
	p, convErr := strconv.Atoi(in)
	if convErr != nil {
		return invalid("enter points for %s, four values, or S/A/W/E/R", a.Focus())
	}
	return a.add(p)
}

func (a *AttributeAllocator) add(p int) error {
	attr := a.Focus()
	room := character.Cap(attr, a.key) - a.values.Get(attr)
	limit := min(a.Remaining(), room)
	if p < 0 || p > limit {
		return invalid("%s can take 0 to %d more points", attr, limit)
	}
	a.values[attr] += p
	a.advance()
	return nil
}

func (a *AttributeAllocator) applyBatch(vals []int) error {
	next := make(character.Attributes, len(vals))
	for i, attr := range character.AllAttributes {
		limit := character.Cap(attr, a.key)
		if vals[i] < character.AttributeBase || vals[i] > limit {
			return invalid("%s must be between %d and %d", attr, character.AttributeBase, limit)
		}
		next[attr] = vals[i]
	}
	if spent := next.Spent(); spent > character.AttributeBudget {
		return invalid("that spends %d points; only %d are available", spent, character.AttributeBudget)
	}
	a.values = next
	return nil
}

// advance moves focus to the next attribute still below its cap.
func (a *AttributeAllocator) advance() {
	n := len(character.AllAttributes)
	for step := 1; step <= n; step++ {
		i := (a.focus + step) % n
		attr := character.AllAttributes[i]
		if a.values.Get(attr) < character.Cap(attr, a.key) {
			a.focus = i
			return
		}
	}
}

func (a *AttributeAllocator) setFocus(attr character.Attribute) {
	for i, x := range character.AllAttributes {
		if x == attr {
			a.focus = i
		}
	}
}

// Render draws the allocation with the focused attribute marked.
func (a *AttributeAllocator) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Attributes (%d points left, key attribute %s):", a.Remaining(), a.key)
	for i, attr := range character.AllAttributes {
		marker := " "
		if i == a.focus {
			marker = ">"
		}
		fmt.Fprintf(&b, "\n%s %-8s %d (max %d)", marker, attr, a.values.Get(attr), character.Cap(attr, a.key))
	}
	return b.String()
}

const attributeHelp = "\nType points to add to the marked attribute, four values such as 4,2,4,4, " +
	"S/A/W/E to move the marker, or R to reset the marked attribute."

// stepAttributes runs the attribute allocator (S2).
func stepAttributes(r *run) (session.Step, error) {
	d, err := r.draft()
	if err != nil {
		return 0, err
	}
	c, err := r.career(d)
	if err != nil {
		return 0, err
	}
	alloc := NewAttributeAllocator(c.KeyAttribute)
	for {
		if alloc.Done() {
			ok, err := r.confirm(alloc.Render() + "\nKeep these attributes? (Y/N)")
			if err != nil {
				return 0, err
			}
			if ok {
				d.Attributes = alloc.Values()
				return r.done(d, session.StepAttributes), nil
			}
			alloc.Reset()
			continue
		}
		in, err := r.ask(alloc.Render() + attributeHelp)
		if err != nil {
			return 0, err
		}
		if err := alloc.Apply(in); err != nil {
			if err := r.reject(err); err != nil {
				return 0, err
			}
		}
	}
}
