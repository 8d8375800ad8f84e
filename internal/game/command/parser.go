package command

import "strings"

// Prefix marks a line as a command rather than a dialog reply.
const Prefix = "/"

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased, without the
	// leading slash or any @botname suffix.
	Command string
	// Args are the remaining words after the command.
	Args []string
	// RawArgs is the raw text after the command (preserving spacing for prompts).
	RawArgs string
}

// IsCommand reports whether line is addressed to the command dispatcher.
func IsCommand(line string) bool {
	line = strings.TrimSpace(line)
	return len(line) > len(Prefix) && strings.HasPrefix(line, Prefix)
}

// Parse splits a text line into a command and arguments.
//
// Precondition: line should be trimmed of leading/trailing whitespace.
// Postcondition: Returns a ParseResult. If line is empty, Command is empty.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return ParseResult{}
	}

	word, rest, _ := strings.Cut(line, " ")
	word = strings.TrimPrefix(word, Prefix)
	// Group chats address bots as /roll@botname.
	if at := strings.IndexByte(word, '@'); at >= 0 {
		word = word[:at]
	}
	rest = strings.TrimSpace(rest)

	var args []string
	if rest != "" {
		args = strings.Fields(rest)
	}

	return ParseResult{
		Command: strings.ToLower(word),
		Args:    args,
		RawArgs: rest,
	}
}
