package handlers_test

import (
	"testing"

	"github.com/cory-johannsen/colonybot/internal/frontend/handlers"
	"github.com/cory-johannsen/colonybot/internal/game/command"
)

// TestAllCommandHandlersAreWired asserts that every Handler constant
// registered in BuiltinCommands has a corresponding entry in the command
// dispatch map.
//
// Precondition: none.
// Postcondition: every cmd.Handler in BuiltinCommands() is a key in CommandHandlers().
func TestAllCommandHandlersAreWired(t *testing.T) {
	registered := handlers.CommandHandlers()
	for _, cmd := range command.BuiltinCommands() {
		if _, ok := registered[cmd.Handler]; !ok {
			t.Errorf("handler %q is in BuiltinCommands() but missing from CommandHandlers(); add it to commands.go", cmd.Handler)
		}
	}
}
