package inventory

import (
	"strconv"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestCurrency_Decompose_Small(t *testing.T) {
	got := DecomposeCash(900)
	if len(got) != 1 || got[0] != 900 {
		t.Fatalf("expected [900] got %v", got)
	}
}

func TestCurrency_Decompose_Mixed(t *testing.T) {
	got := DecomposeCash(1042007)
	if len(got) != 3 || got[0] != 1 || got[1] != 42 || got[2] != 7 {
		t.Fatalf("expected [1 42 7] got %v", got)
	}
}

func TestCurrency_FormatCash(t *testing.T) {
	cases := map[int]string{
		0:       "$0",
		200:     "$200",
		1200:    "$1,200",
		1000000: "$1,000,000",
		1042007: "$1,042,007",
		-500:    "-$500",
	}
	for in, want := range cases {
		if got := FormatCash(in); got != want {
			t.Fatalf("FormatCash(%d): expected %q got %q", in, want, got)
		}
	}
}

func TestCurrency_Property_RoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		total := rapid.IntRange(0, 1_000_000_000).Draw(rt, "total")
		groups := DecomposeCash(total)
		folded := 0
		for i, g := range groups {
			if i > 0 && (g < 0 || g >= CashGroup) {
				rt.Fatalf("group %d out of range: %d", i, g)
			}
			folded = folded*CashGroup + g
		}
		if folded != total {
			rt.Fatalf("fold of %v = %d, expected %d", groups, folded, total)
		}

		s := FormatCash(total)
		n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimPrefix(s, "$"), ",", ""))
		if err != nil || n != total {
			rt.Fatalf("FormatCash(%d) = %q does not parse back", total, s)
		}
	})
}
