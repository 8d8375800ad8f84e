// Package creation implements the interactive character creation dialog.
//
// The dialog is an iterative step machine driven by the draft's cursor:
//
//	S0 personal details  name, gender, age
//	S1 career            index, dN / pN to inspect, Y/N to confirm
//	S2 attributes        six points over a base of 2, key attribute cap 5
//	S3 skills            ten points: key skills up to 3, then general skills at 1
//	S4 talent            index from the career's talents
//	S5 agenda            index from the career's personal agendas
//	S6 gear              two picks from four mutually exclusive pairs
//	S7 signature item    index from the career's signature items
//	S8 cash              rolled from the career's cash expression
//	S9 review            1 commit, 0 restart, A-H re-enter S0-S7
//
// Each step returns the next step; back-edits and restarts are transitions of
// the driver loop. Only the user who owns a draft writes to it.
package creation
