package character

import (
	"fmt"
	"strings"
)

// Skill names one of the twelve skills.
type Skill string

// The twelve skills, in sheet order.
const (
	HeavyMachinery Skill = "Heavy Machinery"
	Stamina        Skill = "Stamina"
	CloseCombat    Skill = "Close Combat"
	Mobility       Skill = "Mobility"
	Piloting       Skill = "Piloting"
	RangedCombat   Skill = "Ranged Combat"
	Observation    Skill = "Observation"
	Comtech        Skill = "Comtech"
	Survival       Skill = "Survival"
	Manipulation   Skill = "Manipulation"
	Command        Skill = "Command"
	MedicalAid     Skill = "Medical Aid"
)

// AllSkills lists the skills in sheet order.
var AllSkills = []Skill{
	HeavyMachinery, Stamina, CloseCombat, Mobility,
	Piloting, RangedCombat, Observation, Comtech,
	Survival, Manipulation, Command, MedicalAid,
}

const (
	// SkillBudget is the number of skill points distributed at creation.
	SkillBudget = 10
	// KeySkillCap caps a career key skill at creation.
	KeySkillCap = 3
	// GeneralSkillCap caps every other skill at creation.
	GeneralSkillCap = 1
	// SkillMax is the absolute skill maximum.
	SkillMax = 3
)

// ParseSkill resolves a skill by exact name, case-insensitively.
func ParseSkill(s string) (Skill, bool) {
	s = strings.TrimSpace(s)
	for _, sk := range AllSkills {
		if strings.EqualFold(s, string(sk)) {
			return sk, true
		}
	}
	return "", false
}

// Valid reports whether s is one of the twelve skills.
func (s Skill) Valid() bool {
	for _, x := range AllSkills {
		if s == x {
			return true
		}
	}
	return false
}

// Skills maps skills to values; missing skills read as 0.
type Skills map[Skill]int

// Get returns the value of s, 0 when unset.
func (sk Skills) Get(s Skill) int {
	return sk[s]
}

// Total returns the sum of all skill values.
func (sk Skills) Total() int {
	total := 0
	for _, v := range sk {
		total += v
	}
	return total
}

// Clone returns an independent copy.
func (sk Skills) Clone() Skills {
	out := make(Skills, len(sk))
	for k, v := range sk {
		out[k] = v
	}
	return out
}

// Compact drops zero-valued entries.
func (sk Skills) Compact() Skills {
	out := make(Skills, len(sk))
	for k, v := range sk {
		if v != 0 {
			out[k] = v
		}
	}
	return out
}

// Validate enforces the creation skill rules: key skills in [0,3], others in
// [0,1], and no more than SkillBudget points in total.
func (sk Skills) Validate(keys []Skill) error {
	isKey := make(map[Skill]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}
	for s, v := range sk {
		if !s.Valid() {
			return fmt.Errorf("unknown skill %q", s)
		}
		limit := GeneralSkillCap
		if isKey[s] {
			limit = KeySkillCap
		}
		if v < 0 || v > limit {
			return fmt.Errorf("%s %d outside [0,%d]", s, v, limit)
		}
	}
	// The budget is a ceiling, not a quota: finishing allocation early with X
	// forfeits the rest, so a sheet spending fewer points is still valid.
	if total := sk.Total(); total > SkillBudget {
		return fmt.Errorf("skill points spent %d exceed budget %d", total, SkillBudget)
	}
	return nil
}
