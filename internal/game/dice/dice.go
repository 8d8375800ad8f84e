// Package dice parses and samples the corpus dice expressions ("2d6", "2d6 x 100").
package dice

import (
	"errors"
	"fmt"
)

// ErrInvalidExpression is wrapped by every parse failure.
var ErrInvalidExpression = errors.New("dice: invalid expression")

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) * Multiplier.
type RollResult struct {
	Expression string // original expression string, e.g. "2d6 x 100"
	Dice       []int  // individual die results before the multiplier
	Multiplier int    // constant factor applied to the sum, 1 when absent
}

// Sum returns the sum of the individual die results.
func (r RollResult) Sum() int {
	sum := 0
	for _, d := range r.Dice {
		sum += d
	}
	return sum
}

// Total returns the sum of all die results times the multiplier.
//
// Postcondition: return value == sum(r.Dice) * r.Multiplier.
func (r RollResult) Total() int {
	return r.Sum() * r.Multiplier
}

// String returns a human-readable audit string in the format:
//
//	"2d6 x 100 → [4 5] x100 = 900"
//
// The multiplier segment is omitted when it is 1.
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	if r.Multiplier == 1 {
		return fmt.Sprintf("%s → %v = %d", r.Expression, r.Dice, r.Total())
	}
	return fmt.Sprintf("%s → %v x%d = %d", r.Expression, r.Dice, r.Multiplier, r.Total())
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
