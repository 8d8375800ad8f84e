package creation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/colonybot/internal/game/ruleset"
	"github.com/cory-johannsen/colonybot/internal/game/session"
)

// stepCareer lets the user inspect careers and pick one (S1).
func stepCareer(r *run) (session.Step, error) {
	d, err := r.draft()
	if err != nil {
		return 0, err
	}
	careers := r.w.corpus.Careers()
	names := make([]string, len(careers))
	for i, c := range careers {
		names[i] = c.Name
	}
	menu := "Choose a career:\n" + numbered(names) +
		"\nType a number to pick, d<number> for a description, or p<number> for a profile."

	for {
		in, err := r.ask(menu)
		if err != nil {
			return 0, err
		}
		cmd, idx, perr := parseCareerInput(in, len(careers))
		if perr != nil {
			if err := r.reject(perr); err != nil {
				return 0, err
			}
			continue
		}
		c := careers[idx]
		switch cmd {
		case 'd':
			if err := r.say(c.Name + "\n" + strings.TrimSpace(c.Description)); err != nil {
				return 0, err
			}
			continue
		case 'p':
			if err := r.say(CareerProfile(c)); err != nil {
				return 0, err
			}
			continue
		}
		ok, err := r.confirm(CareerProfile(c) + "\nBecome a " + c.Name + "? (Y/N)")
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		return r.pickCareer(d, c), nil
	}
}

// pickCareer records c. Switching careers drops every career-derived field
// and continues linearly from attributes, even when editing from review.
func (r *run) pickCareer(d *session.Draft, c *ruleset.Career) session.Step {
	if d.Career == c.Name {
		return r.done(d, session.StepCareer)
	}
	changed := d.Career != ""
	d.Career = c.Name
	d.ClearCareerDependents()
	if changed {
		r.w.logger.Info("career changed; dependent choices cleared")
		r.editing = false
		d.Cursor = session.StepAttributes
		return session.StepAttributes
	}
	return r.done(d, session.StepCareer)
}

// parseCareerInput accepts N, dN, or pN and returns the command byte (0 for a
// plain pick) and the 0-based career index.
func parseCareerInput(in string, n int) (byte, int, error) {
	in = strings.ToLower(strings.TrimSpace(in))
	var cmd byte
	if in != "" && (in[0] == 'd' || in[0] == 'p') {
		cmd, in = in[0], in[1:]
	}
	if _, err := strconv.Atoi(in); err != nil {
		return 0, 0, invalid("enter a career number, d<number>, or p<number>")
	}
	i, err := parseIndex(in, n)
	if err != nil {
		return 0, 0, err
	}
	return cmd, i, nil
}

// CareerProfile renders the mechanical profile of a career.
func CareerProfile(c *ruleset.Career) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", c.Name)
	fmt.Fprintf(&b, "Key attribute: %s\n", c.KeyAttribute)
	keys := make([]string, len(c.KeySkills))
	for i, s := range c.KeySkills {
		keys[i] = string(s)
	}
	fmt.Fprintf(&b, "Key skills: %s\n", strings.Join(keys, ", "))
	fmt.Fprintf(&b, "Talents: %s\n", strings.Join(c.Talents, ", "))
	b.WriteString("Personal agendas:")
	for _, a := range c.PersonalAgendas {
		fmt.Fprintf(&b, "\n  - %s", a)
	}
	b.WriteString("\nStarting gear (pick one of each pair):")
	for i := 0; i+1 < len(c.StartingGear); i += 2 {
		fmt.Fprintf(&b, "\n  - %s / %s", c.StartingGear[i], c.StartingGear[i+1])
	}
	fmt.Fprintf(&b, "\nSignature items: %s", strings.Join(c.SignatureItems, ", "))
	fmt.Fprintf(&b, "\nCash: %s", c.Cash)
	return b.String()
}
