package creation

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/colonybot/internal/game/inventory"
	"github.com/cory-johannsen/colonybot/internal/game/ruleset"
	"github.com/cory-johannsen/colonybot/internal/game/session"
)

// GearPicks is the number of starting gear selections.
const GearPicks = 2

// GearOption is one visible line of the gear menu. Number keeps the
// original 1-based table position.
type GearOption struct {
	Number int
	Label  string
}

// GearSelection enforces paired exclusion over a career's gear table.
type GearSelection struct {
	labels []string
	picks  []int
}

// NewGearSelection starts a selection over labels.
func NewGearSelection(labels []string) *GearSelection {
	return &GearSelection{labels: labels}
}

// Options returns the menu lines still selectable: every item that is
// neither picked nor the mate of a pick.
func (g *GearSelection) Options() []GearOption {
	var out []GearOption
	for i, l := range g.labels {
		if g.blocked(i) == "" {
			out = append(out, GearOption{Number: i + 1, Label: l})
		}
	}
	return out
}

func (g *GearSelection) blocked(i int) string {
	for _, p := range g.picks {
		switch i {
		case p:
			return "already picked"
		case ruleset.GearMate(p):
			return fmt.Sprintf("excluded by %s", g.labels[p])
		}
	}
	return ""
}

// Pick selects the item at 1-based number.
func (g *GearSelection) Pick(number int) error {
	if g.Done() {
		return invalid("both gear items are already chosen")
	}
	i := number - 1
	if i < 0 || i >= len(g.labels) {
		return invalid("%d is not between 1 and %d", number, len(g.labels))
	}
	if why := g.blocked(i); why != "" {
		return invalid("%s is %s", g.labels[i], why)
	}
	g.picks = append(g.picks, i)
	return nil
}

// Picks returns the chosen 0-based indices in pick order.
func (g *GearSelection) Picks() []int {
	return append([]int(nil), g.picks...)
}

// Done reports whether every selection is made.
func (g *GearSelection) Done() bool {
	return len(g.picks) >= GearPicks
}

// Reset discards every pick.
func (g *GearSelection) Reset() {
	g.picks = nil
}

// Render draws the remaining menu. After the first pick a notice names the
// mate that pick excluded.
func (g *GearSelection) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Choose starting gear (%d of %d):", len(g.picks)+1, GearPicks)
	if len(g.picks) > 0 {
		last := g.picks[len(g.picks)-1]
		fmt.Fprintf(&b, "\nYou took %s, so %s is no longer available.",
			g.labels[last], g.labels[ruleset.GearMate(last)])
	}
	for _, o := range g.Options() {
		fmt.Fprintf(&b, "\n%d. %s", o.Number, o.Label)
	}
	return b.String()
}

// stepGear runs the paired gear selection (S6). Quantity labels are rolled as
// soon as they are picked.
func stepGear(r *run) (session.Step, error) {
	d, err := r.draft()
	if err != nil {
		return 0, err
	}
	c, err := r.career(d)
	if err != nil {
		return 0, err
	}
	sel := NewGearSelection(c.StartingGear)
	var items []inventory.Item
	for {
		if sel.Done() {
			lines := make([]string, len(items))
			for i, it := range items {
				lines[i] = "  - " + it.String()
			}
			ok, err := r.confirm("Your gear:\n" + strings.Join(lines, "\n") + "\nKeep this gear? (Y/N)")
			if err != nil {
				return 0, err
			}
			if ok {
				d.Inventory = items
				d.GearPicks = sel.Picks()
				return r.done(d, session.StepGear), nil
			}
			sel.Reset()
			items = nil
			continue
		}
		in, err := r.ask(sel.Render())
		if err != nil {
			return 0, err
		}
		n, perr := parseIndex(in, len(c.StartingGear))
		if perr == nil {
			perr = sel.Pick(n + 1)
		}
		if perr != nil {
			if err := r.reject(perr); err != nil {
				return 0, err
			}
			continue
		}
		label := c.StartingGear[n]
		it, err := r.w.corpus.Items().ResolveGear(label, r.w.roller)
		if err != nil {
			return 0, wrap(KindDice, "gear", err)
		}
		if it.Stackable() {
			if err := r.say(fmt.Sprintf("Rolled %s: %d %s", it.Spawn, it.Quantity, it.Name)); err != nil {
				return 0, err
			}
		}
		items = append(items, it)
	}
}
