package creation

import (
	"fmt"

	"github.com/cory-johannsen/colonybot/internal/game/session"
)

// stepTalent picks one of the career's talents (S4).
func stepTalent(r *run) (session.Step, error) {
	d, err := r.draft()
	if err != nil {
		return 0, err
	}
	c, err := r.career(d)
	if err != nil {
		return 0, err
	}
	options := make([]string, len(c.Talents))
	for i, name := range c.Talents {
		t, ok := r.w.corpus.Talent(name)
		if !ok {
			return 0, corpusMissing("talent", "talent", name)
		}
		options[i] = name
		if t.Description != "" {
			options[i] = fmt.Sprintf("%s: %s", name, t.Description)
		}
	}
	i, err := r.choose("Choose a talent:", options)
	if err != nil {
		return 0, err
	}
	d.Talent = c.Talents[i]
	return r.done(d, session.StepTalent), nil
}

// stepAgenda picks one of the career's personal agendas (S5).
func stepAgenda(r *run) (session.Step, error) {
	d, err := r.draft()
	if err != nil {
		return 0, err
	}
	c, err := r.career(d)
	if err != nil {
		return 0, err
	}
	i, err := r.choose("Choose a personal agenda:", c.PersonalAgendas)
	if err != nil {
		return 0, err
	}
	d.Agenda = c.PersonalAgendas[i]
	return r.done(d, session.StepAgenda), nil
}

// stepSignature picks the signature item (S7).
func stepSignature(r *run) (session.Step, error) {
	d, err := r.draft()
	if err != nil {
		return 0, err
	}
	c, err := r.career(d)
	if err != nil {
		return 0, err
	}
	i, err := r.choose("Choose a signature item:", c.SignatureItems)
	if err != nil {
		return 0, err
	}
	d.SignatureItem = c.SignatureItems[i]
	return r.done(d, session.StepSignature), nil
}

// stepCash rolls starting cash (S8). The roll is kept across edits and only
// redone after a career change clears it.
func stepCash(r *run) (session.Step, error) {
	d, err := r.draft()
	if err != nil {
		return 0, err
	}
	if d.Cash == nil {
		c, err := r.career(d)
		if err != nil {
			return 0, err
		}
		res, err := r.w.roller.RollExpr(c.Cash)
		if err != nil {
			return 0, wrap(KindDice, "cash", err)
		}
		cash := res.Total()
		d.Cash = &cash
		if err := r.say(fmt.Sprintf("Starting cash: %s", res)); err != nil {
			return 0, err
		}
	}
	return r.done(d, session.StepCash), nil
}
