package creation

import (
	"fmt"
	"strconv"
	"strings"
)

// numbered renders options as a 1-based menu.
func numbered(options []string) string {
	var b strings.Builder
	for i, o := range options {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, o)
	}
	return b.String()
}

// parseIndex parses a 1-based menu choice and returns it 0-based.
func parseIndex(in string, n int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(in))
	if err != nil {
		return 0, invalid("enter a number between 1 and %d", n)
	}
	if v < 1 || v > n {
		return 0, invalid("%d is not between 1 and %d", v, n)
	}
	return v - 1, nil
}

// fields splits a batch reply on commas and whitespace.
func fields(in string) []string {
	return strings.FieldsFunc(in, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// batch returns the numbers of a batch reply of exactly want values, given
// either as separate fields or as one run of want digits. ok is false when
// in is not shaped like a batch at all.
func batch(in string, want int) (vals []int, ok bool, err error) {
	parts := fields(in)
	switch {
	case len(parts) > 1:
	case len(parts) == 1 && len(parts[0]) == want && isDigits(parts[0]):
		parts = strings.Split(parts[0], "")
	default:
		return nil, false, nil
	}
	if len(parts) != want {
		return nil, true, invalid("enter exactly %d values; got %d", want, len(parts))
	}
	vals = make([]int, len(parts))
	for i, p := range parts {
		v, convErr := strconv.Atoi(p)
		if convErr != nil {
			return nil, true, invalid("%q is not a number", p)
		}
		vals[i] = v
	}
	return vals, true, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
