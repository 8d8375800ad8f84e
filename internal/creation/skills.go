package creation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/colonybot/internal/game/character"
	"github.com/cory-johannsen/colonybot/internal/game/session"
)

// SkillAllocator spends the skill budget in two phases: points on the
// career's key skills, then single points on any skill still at zero.
//
// Invariant: key skills stay within [0, KeySkillCap], other skills within
// [0, GeneralSkillCap], and the total never exceeds SkillBudget.
type SkillAllocator struct {
	keys     []character.Skill
	values   character.Skills
	focus    int
	general  bool
	finished bool
}

// NewSkillAllocator starts in the key phase with every skill at zero.
func NewSkillAllocator(keys []character.Skill) *SkillAllocator {
	return &SkillAllocator{keys: keys, values: make(character.Skills)}
}

// Remaining returns the unspent points.
func (s *SkillAllocator) Remaining() int {
	return character.SkillBudget - s.values.Total()
}

// Done reports whether the budget is spent or the user finished early.
// Points left when finishing early are forfeited.
func (s *SkillAllocator) Done() bool {
	return s.finished || s.Remaining() == 0
}

// General reports whether the allocator is in the general phase.
func (s *SkillAllocator) General() bool {
	return s.general
}

// Focus returns the key skill a single number is added to.
func (s *SkillAllocator) Focus() character.Skill {
	return s.keys[s.focus]
}

// Values returns a copy of the current allocation.
func (s *SkillAllocator) Values() character.Skills {
	return s.values.Clone()
}

// Reset clears every skill and returns to the key phase.
func (s *SkillAllocator) Reset() {
	s.values = make(character.Skills)
	s.focus = 0
	s.general = false
	s.finished = false
}

// GeneralOptions lists, in sheet order, the skills a general pick may raise.
func (s *SkillAllocator) GeneralOptions() []character.Skill {
	var out []character.Skill
	for _, sk := range character.AllSkills {
		if s.values.Get(sk) == 0 {
			out = append(out, sk)
		}
	}
	return out
}

// Apply interprets one reply. Rejected input leaves the allocation unchanged
// and returns a KindInputInvalid error.
func (s *SkillAllocator) Apply(in string) error {
	in = strings.TrimSpace(in)
	if strings.EqualFold(in, "X") {
		s.finished = true
		return nil
	}
	if s.general {
		return s.applyGeneral(in)
	}
	return s.applyKey(in)
}

func (s *SkillAllocator) applyKey(in string) error {
	switch strings.ToUpper(in) {
	case "R":
		for _, k := range s.keys {
			delete(s.values, k)
		}
		s.focus = 0
		return nil
	case "N":
		s.general = true
		return nil
	case "":
		return invalid("enter points for %s", s.Focus())
	}
	vals, isBatch, err := batch(in, len(s.keys))
	if err != nil {
		return err
	}
	if isBatch {
		return s.applyBatch(vals)
	}
	if p, convErr := strconv.Atoi(in); convErr == nil {
		return s.add(p)
	}
	for i, k := range s.keys {
		if strings.HasPrefix(strings.ToLower(string(k)), strings.ToLower(in)) {
			s.focus = i
			return nil
		}
	}
	return invalid("%q is not a key skill", in)
}

func (s *SkillAllocator) add(p int) error {
	sk := s.Focus()
	limit := min(s.Remaining(), character.KeySkillCap-s.values.Get(sk))
	if p < 0 || p > limit {
		return invalid("%s can take 0 to %d more points", sk, limit)
	}
	if p > 0 {
		s.values[sk] += p
	}
	s.advance()
	return nil
}

func (s *SkillAllocator) applyBatch(vals []int) error {
	next := s.values.Clone()
	for i, k := range s.keys {
		if vals[i] < 0 || vals[i] > character.KeySkillCap {
			return invalid("%s must be between 0 and %d", k, character.KeySkillCap)
		}
		next[k] = vals[i]
	}
	if total := next.Total(); total > character.SkillBudget {
		return invalid("that spends %d points; only %d are available", total, character.SkillBudget)
	}
	s.values = next.Compact()
	return nil
}

func (s *SkillAllocator) advance() {
	n := len(s.keys)
	for step := 1; step <= n; step++ {
		i := (s.focus + step) % n
		if s.values.Get(s.keys[i]) < character.KeySkillCap {
			s.focus = i
			return
		}
	}
}

func (s *SkillAllocator) applyGeneral(in string) error {
	if strings.EqualFold(in, "B") {
		isKey := make(map[character.Skill]bool, len(s.keys))
		for _, k := range s.keys {
			isKey[k] = true
		}
		for sk := range s.values {
			if !isKey[sk] {
				delete(s.values, sk)
			}
		}
		s.general = false
		return nil
	}
	options := s.GeneralOptions()
	parts := fields(in)
	if len(parts) == 0 {
		return invalid("pick skills by number, X to finish, or B to go back")
	}
	if len(parts) > s.Remaining() {
		return invalid("only %d points left", s.Remaining())
	}
	picked := make(map[int]bool, len(parts))
	for _, p := range parts {
		i, err := parseIndex(p, len(options))
		if err != nil {
			return err
		}
		if picked[i] {
			return invalid("%s picked twice", options[i])
		}
		picked[i] = true
	}
	for i := range picked {
		s.values[options[i]] = character.GeneralSkillCap
	}
	return nil
}

// Render draws the current phase.
func (s *SkillAllocator) Render() string {
	var b strings.Builder
	if !s.general {
		fmt.Fprintf(&b, "Key skills (%d points left):", s.Remaining())
		for i, k := range s.keys {
			marker := " "
			if i == s.focus {
				marker = ">"
			}
			fmt.Fprintf(&b, "\n%s %s %d (max %d)", marker, k, s.values.Get(k), character.KeySkillCap)
		}
		b.WriteString("\nType points for the marked skill, three values such as 3,2,1, a skill name to move the marker, " +
			"R to reset, N for general skills, or X to finish.")
		return b.String()
	}
	fmt.Fprintf(&b, "General skills (%d points left, one point each):", s.Remaining())
	for i, sk := range s.GeneralOptions() {
		fmt.Fprintf(&b, "\n%d. %s", i+1, sk)
	}
	b.WriteString("\nPick one or more numbers separated by commas, B to go back, or X to finish.")
	return b.String()
}

// Summary lists the non-zero skills.
func (s *SkillAllocator) Summary() string {
	var parts []string
	for _, sk := range character.AllSkills {
		if v := s.values.Get(sk); v > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", sk, v))
		}
	}
	if len(parts) == 0 {
		parts = []string{"none"}
	}
	msg := "Skills: " + strings.Join(parts, ", ")
	if r := s.Remaining(); r > 0 {
		msg += fmt.Sprintf("\n%d unspent points will be lost.", r)
	}
	return msg
}

// stepSkills runs the skill allocator (S3).
func stepSkills(r *run) (session.Step, error) {
	d, err := r.draft()
	if err != nil {
		return 0, err
	}
	c, err := r.career(d)
	if err != nil {
		return 0, err
	}
	alloc := NewSkillAllocator(c.KeySkills)
	for {
		if alloc.Done() {
			ok, err := r.confirm(alloc.Summary() + "\nKeep these skills? (Y/N)")
			if err != nil {
				return 0, err
			}
			if ok {
				d.Skills = alloc.Values().Compact()
				return r.done(d, session.StepSkills), nil
			}
			alloc.Reset()
			continue
		}
		in, err := r.ask(alloc.Render())
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
