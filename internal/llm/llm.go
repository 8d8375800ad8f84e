// Package llm provides the chat-completion backends behind /claude and /gpt.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyResponse is returned when a provider answers without text.
var ErrEmptyResponse = errors.New("llm: empty response")

// Completer answers a single prompt.
type Completer interface {
	// Name identifies the provider in logs and replies.
	Name() string
	// Complete answers prompt. cards are character sheets given as context.
	Complete(ctx context.Context, prompt string, cards []string) (string, error)
}

// systemPrompt frames every request.
const systemPrompt = "You are the ship's computer aboard a colony vessel in a gritty science-fiction " +
	"role-playing game. Answer in character, briefly, and never break the fiction."

// buildPrompt prefixes the character cards to prompt.
func buildPrompt(prompt string, cards []string) string {
	if len(cards) == 0 {
		return prompt
	}
	var b strings.Builder
	b.WriteString("--- CREW FILES ---\n")
	for i, card := range cards {
		fmt.Fprintf(&b, "Crew member %d:\n%s\n\n", i+1, card)
	}
	b.WriteString("--- END CREW FILES ---\n\n")
	b.WriteString(prompt)
	return b.String()
}
