package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// MaxCount bounds the number of dice in one expression.
	MaxCount = 100
	// MaxSides bounds the faces of a single die.
	MaxSides = 1000
)

var exprPattern = regexp.MustCompile(`^(\d+)d(\d+)(?:\s*x\s*(\d+))?$`)

// Expression represents a parsed dice expression ready to be rolled.
// Precondition: Count >= 1, Sides >= 1, Multiplier >= 1 after successful Parse.
type Expression struct {
	Raw        string // original input string
	Count      int    // number of dice
	Sides      int    // faces per die
	Multiplier int    // constant factor, 1 when the "x K" suffix is absent
}

// Min returns the smallest total the expression can produce.
func (e Expression) Min() int { return e.Count * e.Multiplier }

// Max returns the largest total the expression can produce.
func (e Expression) Max() int { return e.Count * e.Sides * e.Multiplier }

// Parse parses a dice expression string into an Expression.
// Supported forms: "2d6", "1d10", "2d6 x 100", "5d6x10".
// Input is trimmed and lower-cased before matching.
// Postcondition: Returns a valid Expression or an error wrapping ErrInvalidExpression.
func Parse(expr string) (Expression, error) {
	raw := strings.TrimSpace(expr)
	m := exprPattern.FindStringSubmatch(strings.ToLower(raw))
	if m == nil {
		return Expression{}, fmt.Errorf("%w: %q does not match NdM or NdM x K", ErrInvalidExpression, expr)
	}

	count, err := strconv.Atoi(m[1])
	if err != nil || count < 1 || count > MaxCount {
		return Expression{}, fmt.Errorf("%w: die count in %q must be in [1,%d]", ErrInvalidExpression, raw, MaxCount)
	}
	sides, err := strconv.Atoi(m[2])
	if err != nil || sides < 1 || sides > MaxSides {
		return Expression{}, fmt.Errorf("%w: die sides in %q must be in [1,%d]", ErrInvalidExpression, raw, MaxSides)
	}
	mult := 1
	if m[3] != "" {
		mult, err = strconv.Atoi(m[3])
		if err != nil || mult < 1 {
			return Expression{}, fmt.Errorf("%w: multiplier in %q must be >= 1", ErrInvalidExpression, raw)
		}
	}

	return Expression{Raw: raw, Count: count, Sides: sides, Multiplier: mult}, nil
}

// Valid reports whether expr parses.
func Valid(expr string) bool {
	_, err := Parse(expr)
	return err == nil
}
