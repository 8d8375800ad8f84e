package creation

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/colonybot/internal/game/character"
	"github.com/cory-johannsen/colonybot/internal/game/inventory"
	"github.com/cory-johannsen/colonybot/internal/game/session"
)

// reviewLetters maps review edit letters to the step they re-enter.
const reviewLetters = "ABCDEFGH"

// stepReview shows the draft and waits for confirm, restart, or an edit (S9).
func stepReview(r *run) (session.Step, error) {
	for {
		d, err := r.draft()
		if err != nil {
			return 0, err
		}
		in, err := r.ask(Review(d))
		if err != nil {
			return 0, err
		}
		in = strings.ToUpper(in)
		switch {
		case in == "1":
			next, err := r.commit(d)
			if err != nil {
				return 0, err
			}
			if next == session.StepDone {
				return next, nil
			}
		case in == "0":
			ok, err := r.confirm("Discard everything except your personal details and start over? (Y/N)")
			if err != nil {
				return 0, err
			}
			if ok {
				return r.restart(d)
			}
		case len(in) == 1 && strings.Contains(reviewLetters, in):
			r.editing = true
			return session.Step(in[0] - 'A'), nil
		default:
			if err := r.reject(invalid("type 1 to confirm, 0 to restart, or a letter A-H to edit")); err != nil {
				return 0, err
			}
		}
	}
}

// restart replaces the draft with a fresh one that keeps only the personal details.
func (r *run) restart(d *session.Draft) (session.Step, error) {
	next, err := r.w.sessions.Create(r.userID, d.CarryPersonal())
	if err != nil {
		return 0, wrap(KindDraftMissing, "restart", err)
	}
	r.w.sessions.Delete(r.userID, d.ID)
	r.w.logger.Info("character draft restarted",
		zap.String("user_id", r.userID),
		zap.String("old_draft_id", d.ID),
		zap.String("draft_id", next.ID),
	)
	r.draftID = next.ID
	r.editing = false
	return next.Cursor, nil
}

// commit assembles, validates, and stores the character. Validation and store
// failures keep the draft and return to review.
func (r *run) commit(d *session.Draft) (session.Step, error) {
	c, err := r.career(d)
	if err != nil {
		return 0, err
	}
	ch, err := Assemble(d, r.w.corpus, r.w.logger)
	if err != nil {
		return 0, err
	}
	if err := ch.Validate(c.Rules()); err != nil {
		return session.StepReview, r.reject(invalid("%s", err))
	}
	primary, err := r.w.store.Insert(r.ctx, r.userID, d.ID, ch)
	if err != nil {
		serr := wrap(KindStore, "commit", err)
		r.w.logger.Error("storing character", zap.String("user_id", r.userID), zap.String("draft_id", d.ID), zap.Error(serr))
		return session.StepReview, r.say("Saving your character failed; your draft is kept. Type 1 to try again.")
	}
	r.w.sessions.Delete(r.userID, d.ID)
	r.w.logger.Info("character committed",
		zap.String("user_id", r.userID),
		zap.String("character_id", d.ID),
		zap.String("name", ch.Name),
		zap.Bool("primary", primary),
	)
	msg := fmt.Sprintf("%s has joined the colony.\n%s", ch.Name, ch.Sheet())
	if primary {
		msg += "\nThis is now your primary character."
	}
	if err := r.say(msg); err != nil {
		return 0, err
	}
	return session.StepDone, nil
}

// Review renders the draft with the edit letters of each section.
func Review(d *session.Draft) string {
	var b strings.Builder
	b.WriteString("Review your character:\n")
	fmt.Fprintf(&b, "A. %s (%s, %d)\n", d.Name, d.Gender, d.Age)
	fmt.Fprintf(&b, "B. Career: %s\n", d.Career)
	b.WriteString("C. Attributes:")
	for _, a := range character.AllAttributes {
		fmt.Fprintf(&b, " %s %d", a, d.Attributes.Get(a))
	}
	var skills []string
	for _, s := range character.AllSkills {
		if v := d.Skills.Get(s); v > 0 {
			skills = append(skills, fmt.Sprintf("%s %d", s, v))
		}
	}
	if len(skills) == 0 {
		skills = []string{"none"}
	}
	fmt.Fprintf(&b, "\nD. Skills: %s\n", strings.Join(skills, ", "))
	fmt.Fprintf(&b, "E. Talent: %s\n", d.Talent)
	fmt.Fprintf(&b, "F. Agenda: %s\n", d.Agenda)
	gear := make([]string, len(d.Inventory))
	for i, it := range d.Inventory {
		gear[i] = it.String()
	}
	fmt.Fprintf(&b, "G. Gear: %s\n", strings.Join(gear, ", "))
	fmt.Fprintf(&b, "H. Signature item: %s\n", d.SignatureItem)
	if d.Cash != nil {
		fmt.Fprintf(&b, "Cash: %s\n", inventory.FormatCash(*d.Cash))
	}
	b.WriteString("Type 1 to confirm, 0 to restart, or A-H to edit a section.")
	return b.String()
}
