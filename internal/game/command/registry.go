package command

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownCommand is returned by Resolve when nothing matches.
var ErrUnknownCommand = errors.New("unknown command")

// AmbiguousError is returned by Resolve when an abbreviation matches more
// than one command.
type AmbiguousError struct {
	Input string
	// Candidates are the canonical names that match, sorted.
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("/%s could mean /%s", e.Input, strings.Join(e.Candidates, " or /"))
}

// Section is one category of commands as /help shows it.
type Section struct {
	Category string
	Commands []*Command
}

// Registry resolves what a user typed after the slash to a Command. A word
// resolves by exact name or alias first, then as an abbreviation of exactly
// one command.
type Registry struct {
	byWord   map[string]*Command
	words    []string
	order    []*Command
	sections []Section
}

// NewRegistry indexes cmds. Sections follow the order in which each
// category first appears.
//
// Precondition: names and aliases are lowercase single words, unique across
// all commands; every command has a handler.
// Postcondition: Returns a Registry or an error naming the first violation.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{byWord: make(map[string]*Command)}
	section := make(map[string]int)
	for i := range cmds {
		cmd := &cmds[i]
		if cmd.Handler == "" {
			return nil, fmt.Errorf("command: NewRegistry: /%s has no handler", cmd.Name)
		}
		for _, w := range append([]string{cmd.Name}, cmd.Aliases...) {
			if w == "" || w != strings.ToLower(w) || strings.ContainsAny(w, " \t@") {
				return nil, fmt.Errorf("command: NewRegistry: /%s: bad word %q", cmd.Name, w)
			}
			if prev, exists := r.byWord[w]; exists {
				return nil, fmt.Errorf("command: NewRegistry: %q is claimed by /%s and /%s", w, prev.Name, cmd.Name)
			}
			r.byWord[w] = cmd
			r.words = append(r.words, w)
		}
		r.order = append(r.order, cmd)
		idx, ok := section[cmd.Category]
		if !ok {
			idx = len(r.sections)
			section[cmd.Category] = idx
			r.sections = append(r.sections, Section{Category: cmd.Category})
		}
		r.sections[idx].Commands = append(r.sections[idx].Commands, cmd)
	}
	sort.Strings(r.words)
	return r, nil
}

// DefaultRegistry indexes BuiltinCommands.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve looks up a parsed command word.
//
// Postcondition: Returns the command, ErrUnknownCommand, or an *AmbiguousError.
func (r *Registry) Resolve(word string) (*Command, error) {
	word = strings.ToLower(word)
	if cmd, ok := r.byWord[word]; ok {
		return cmd, nil
	}
	if word == "" {
		return nil, ErrUnknownCommand
	}
	var hit *Command
	var names []string
	i := sort.SearchStrings(r.words, word)
	for ; i < len(r.words) && strings.HasPrefix(r.words[i], word); i++ {
		cmd := r.byWord[r.words[i]]
		if contains(names, cmd.Name) {
			continue
		}
		hit = cmd
		names = append(names, cmd.Name)
	}
	switch len(names) {
	case 0:
		return nil, ErrUnknownCommand
	case 1:
		return hit, nil
	}
	sort.Strings(names)
	return nil, &AmbiguousError{Input: word, Candidates: names}
}

// Commands returns the commands in registration order.
func (r *Registry) Commands() []*Command {
	return append([]*Command(nil), r.order...)
}

// Sections returns the commands grouped by category.
func (r *Registry) Sections() []Section {
	out := make([]Section, len(r.sections))
	for i, s := range r.sections {
		out[i] = Section{Category: s.Category, Commands: append([]*Command(nil), s.Commands...)}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
