// Package telnet serves the colony bot's line-oriented terminal: TCP
// acceptor, Telnet connection handling, signed-in caller roster, and ANSI styling.
package telnet

import "fmt"

// ANSI escape codes used by the terminal.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"

	Red         = "\033[31m"
	Green       = "\033[32m"
	Yellow      = "\033[33m"
	Cyan        = "\033[36m"
	BrightGreen = "\033[92m"
	BrightWhite = "\033[97m"
)

// Terminal roles. Session code styles by role so the palette lives in one place.
const (
	// Notice marks session status lines such as sign-in and goodbye.
	Notice = Cyan
	// Alert marks rejected input.
	Alert = Red
	// Warning marks shutdown notices.
	Warning = Yellow
	// Prompt marks the text before a caller types.
	Prompt = BrightWhite
)

// Colorize wraps text with the given ANSI color code and a reset suffix.
//
// Precondition: color must be a valid ANSI escape sequence.
// Postcondition: Returns text wrapped with the color code and Reset.
func Colorize(color, text string) string {
	return color + text + Reset
}

// Colorf wraps a formatted string with the given ANSI color code.
func Colorf(color, format string, args ...any) string {
	return color + fmt.Sprintf(format, args...) + Reset
}
