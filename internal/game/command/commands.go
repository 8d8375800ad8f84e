// Package command provides the chat command registry, parser, and built-in
// command definitions.
package command

// Categories for organizing commands in /help.
const (
	CategoryCharacter = "character"
	CategoryTools     = "tools"
	CategoryComputer  = "ship computer"
	CategorySystem    = "system"
)

// Handler identifiers mapping commands to dispatcher functions.
const (
	HandlerCreate     = "createcharacter"
	HandlerResume     = "resume"
	HandlerAbort      = "abort"
	HandlerCharacters = "characters"
	HandlerPrimary    = "primary"
	HandlerSystem     = "system"
	HandlerRoll       = "roll"
	HandlerClaude     = "claude"
	HandlerGPT        = "gpt"
	HandlerHelp       = "help"
)

// Command defines a user-invocable chat command.
type Command struct {
	// Name is the canonical command name, without the leading slash.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument syntax, if any.
	Usage string
	// Help is the short help text displayed to users.
	Help string
	// Category groups the command in /help.
	Category string
	// Handler maps to the dispatcher function.
	Handler string
}

// BuiltinCommands returns all built-in chat commands.
func BuiltinCommands() []Command {
	return []Command{
		// Character commands
		{Name: "createcharacter", Aliases: []string{"create", "new"}, Help: "Start creating a new character", Category: CategoryCharacter, Handler: HandlerCreate},
		{Name: "resume", Help: "Continue your most recent unfinished character", Category: CategoryCharacter, Handler: HandlerResume},
		{Name: "abort", Aliases: []string{"cancel"}, Help: "Abandon character creation and discard your drafts", Category: CategoryCharacter, Handler: HandlerAbort},
		{Name: "characters", Aliases: []string{"chars", "list"}, Help: "List your characters", Category: CategoryCharacter, Handler: HandlerCharacters},
		{Name: "primary", Usage: "<id>", Help: "Make a character your primary", Category: CategoryCharacter, Handler: HandlerPrimary},

		// Tools
		{Name: "system", Aliases: []string{"worldgen"}, Usage: "[seed]", Help: "Generate a star system", Category: CategoryTools, Handler: HandlerSystem},
		{Name: "roll", Aliases: []string{"r"}, Usage: "<NdM [x K]>", Help: "Roll dice, e.g. /roll 2d6 x 100", Category: CategoryTools, Handler: HandlerRoll},

		// Ship computer
		{Name: "claude", Usage: "<prompt>", Help: "Ask the ship's computer (Claude)", Category: CategoryComputer, Handler: HandlerClaude},
		{Name: "gpt", Usage: "<prompt>", Help: "Ask the ship's computer (GPT)", Category: CategoryComputer, Handler: HandlerGPT},

		// System commands
		{Name: "help", Aliases: []string{"start", "?"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
	}
}
