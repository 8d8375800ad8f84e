// Package session holds in-progress character drafts while a creation dialog runs.
package session

import (
	"time"

	"github.com/cory-johannsen/colonybot/internal/game/character"
	"github.com/cory-johannsen/colonybot/internal/game/inventory"
)

// Step identifies a creation step. Steps are ordered; a draft's Cursor is the
// furthest step reached.
type Step int

// Creation steps in dialog order.
const (
	StepPersonal Step = iota
	StepCareer
	StepAttributes
	StepSkills
	StepTalent
	StepAgenda
	StepGear
	StepSignature
	StepCash
	StepReview
	StepDone
)

var stepNames = [...]string{
	"personal", "career", "attributes", "skills", "talent", "agenda",
	"gear", "signature", "cash", "review", "done",
}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return "unknown"
	}
	return stepNames[s]
}

// Draft is an in-progress character. Zero values mean "not yet chosen".
// A draft is written only by the dialog of the user that owns it.
type Draft struct {
	ID     string
	UserID string

	Name   string
	Gender string
	Age    int

	Career        string
	Attributes    character.Attributes
	Skills        character.Skills
	Talent        string
	Agenda        string
	Inventory     []inventory.Item
	GearPicks     []int
	SignatureItem string
	Cash          *int

	Cursor    Step
	CreatedAt time.Time
}

// Advance moves the cursor forward to s; it never moves backwards.
func (d *Draft) Advance(s Step) {
	if s > d.Cursor {
		d.Cursor = s
	}
}

// ClearCareer drops the career and every field derived from it and rewinds
// the cursor to career selection.
func (d *Draft) ClearCareer() {
	d.Career = ""
	d.ClearCareerDependents()
	d.Cursor = StepCareer
}

// ClearCareerDependents drops every field chosen from the career's tables.
func (d *Draft) ClearCareerDependents() {
	d.Attributes = nil
	d.Skills = nil
	d.Talent = ""
	d.Agenda = ""
	d.Inventory = nil
	d.GearPicks = nil
	d.SignatureItem = ""
	d.Cash = nil
}

// HasPersonal reports whether S0 has been completed.
func (d *Draft) HasPersonal() bool {
	return d.Name != "" && d.Gender != "" && d.Age != 0
}

// CarryPersonal returns a fresh draft keeping only the personal details,
// positioned at career selection.
func (d *Draft) CarryPersonal() *Draft {
	next := &Draft{UserID: d.UserID, Name: d.Name, Gender: d.Gender, Age: d.Age}
	if next.HasPersonal() {
		next.Cursor = StepCareer
	}
	return next
}
