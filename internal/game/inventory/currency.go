package inventory

import (
	"strconv"
	"strings"
)

// CashGroup is the digit grouping used when displaying cash.
const CashGroup = 1000

// DecomposeCash splits a dollar amount into thousands groups, most
// significant first.
//
// Precondition: total >= 0.
// Postcondition: folding the groups back with g*1000+next reproduces total;
// every group after the first is in [0, 999].
func DecomposeCash(total int) []int {
	if total < CashGroup {
		return []int{total}
	}
	return append(DecomposeCash(total/CashGroup), total%CashGroup)
}

// FormatCash renders a dollar amount as "$1,200". Negative amounts keep
// their sign in front of the dollar mark.
func FormatCash(total int) string {
	sign := ""
	if total < 0 {
		sign, total = "-", -total
	}
	groups := DecomposeCash(total)
	parts := make([]string, len(groups))
	for i, g := range groups {
		if i == 0 {
			parts[i] = strconv.Itoa(g)
			continue
		}
		parts[i] = padGroup(g)
	}
	return sign + "$" + strings.Join(parts, ",")
}

func padGroup(g int) string {
	s := strconv.Itoa(g)
	return strings.Repeat("0", 3-len(s)) + s
}
