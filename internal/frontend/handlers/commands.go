package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/colonybot/internal/game/character"
	"github.com/cory-johannsen/colonybot/internal/game/command"
	"github.com/cory-johannsen/colonybot/internal/game/dice"
	"github.com/cory-johannsen/colonybot/internal/game/worldgen"
)

// commandContext carries all inputs a command handler needs.
type commandContext struct {
	ctx    context.Context
	userID string
	cmd    *command.Command
	parsed command.ParseResult
}

// commandFunc is the signature for all command dispatch functions.
type commandFunc func(b *Bot, cc *commandContext) error

// CommandHandlers returns the map from Handler constant to dispatch function.
// Exported so TestAllCommandHandlersAreWired can verify completeness.
func CommandHandlers() map[string]commandFunc {
	return commandHandlerMap
}

// commandHandlerMap is the single source of truth for command dispatch.
// To add a new command: add a Handler constant to commands.go AND add an entry here.
var commandHandlerMap = map[string]commandFunc{
	command.HandlerCreate:     (*Bot).createCharacter,
	command.HandlerResume:     (*Bot).resume,
	command.HandlerAbort:      (*Bot).abort,
	command.HandlerCharacters: (*Bot).characters,
	command.HandlerPrimary:    (*Bot).primary,
	command.HandlerSystem:     (*Bot).system,
	command.HandlerRoll:       (*Bot).roll,
	command.HandlerClaude:     (*Bot).ask,
	command.HandlerGPT:        (*Bot).ask,
	command.HandlerHelp:       (*Bot).help,
}

func (b *Bot) usage(cc *commandContext) error {
	return b.reply(cc.ctx, cc.userID, fmt.Sprintf("Usage: /%s %s", cc.cmd.Name, cc.cmd.Usage))
}

func (b *Bot) createCharacter(cc *commandContext) error {
	draftID, err := b.wizard.Begin(cc.userID)
	if err != nil {
		b.logger.Error("opening draft", zap.String("user_id", cc.userID), zap.Error(err))
		return b.reply(cc.ctx, cc.userID, "Could not start character creation. Please try again.")
	}
	b.startDialog(cc.userID, draftID)
	return nil
}

func (b *Bot) resume(cc *commandContext) error {
	if b.Active(cc.userID) {
		return b.reply(cc.ctx, cc.userID, "Character creation is already in progress. Answer the last question, or type /abort.")
	}
	d, ok := b.sessions.Latest(cc.userID)
	if !ok {
		return b.reply(cc.ctx, cc.userID, "You have no unfinished character. Type /createcharacter to start one.")
	}
	if err := b.reply(cc.ctx, cc.userID, fmt.Sprintf("Resuming your draft at the %s step.", d.Cursor)); err != nil {
		return err
	}
	b.startDialog(cc.userID, d.ID)
	return nil
}

func (b *Bot) abort(cc *commandContext) error {
	stopped := b.stopDialog(cc.userID)
	drafts := b.sessions.Drafts(cc.userID)
	for _, d := range drafts {
		b.sessions.Delete(cc.userID, d.ID)
	}
	if !stopped && len(drafts) == 0 {
		return b.reply(cc.ctx, cc.userID, "There is no character creation to abort.")
	}
	b.logger.Info("character creation aborted",
		zap.String("user_id", cc.userID),
		zap.Int("drafts", len(drafts)),
	)
	return b.reply(cc.ctx, cc.userID, "Character creation aborted. Your drafts were discarded.")
}

func (b *Bot) characters(cc *commandContext) error {
	list, err := b.store.Characters(cc.ctx, cc.userID)
	if err != nil {
		b.logger.Error("listing characters", zap.String("user_id", cc.userID), zap.Error(err))
		return b.reply(cc.ctx, cc.userID, "Could not load your characters right now.")
	}
	if len(list) == 0 {
		return b.reply(cc.ctx, cc.userID, "You have no characters yet. Type /createcharacter to make one.")
	}
	primaryID := ""
	if p, err := b.store.Primary(cc.ctx, cc.userID); err == nil {
		primaryID = p.ID
	} else if !isNotFound(err) {
		b.logger.Warn("loading primary character", zap.String("user_id", cc.userID), zap.Error(err))
	}
	return b.reply(cc.ctx, cc.userID, FormatCharacterList(list, primaryID))
}

// FormatCharacterList renders a user's characters with the primary marked.
func FormatCharacterList(list []*character.Character, primaryID string) string {
	var sb strings.Builder
	sb.WriteString("Your characters:")
	for _, c := range list {
		marker := " "
		if c.ID == primaryID {
			marker = "*"
		}
		fmt.Fprintf(&sb, "\n%s %s  %s (%s)", marker, c.ID, c.Name, c.Career)
	}
	sb.WriteString("\n* marks your primary character. Use /primary <id> to change it.")
	return sb.String()
}

func (b *Bot) primary(cc *commandContext) error {
	if len(cc.parsed.Args) != 1 {
		return b.usage(cc)
	}
	list, err := b.store.Characters(cc.ctx, cc.userID)
	if err != nil {
		b.logger.Error("listing characters", zap.String("user_id", cc.userID), zap.Error(err))
		return b.reply(cc.ctx, cc.userID, "Could not load your characters right now.")
	}
	target, ok := matchCharacter(list, cc.parsed.Args[0])
	if !ok {
		return b.reply(cc.ctx, cc.userID, fmt.Sprintf("No single character matches %q. Type /characters to see your IDs.", cc.parsed.Args[0]))
	}
	if err := b.store.SetPrimary(cc.ctx, cc.userID, target.ID); err != nil {
		if isNotFound(err) {
			return b.reply(cc.ctx, cc.userID, fmt.Sprintf("No character with ID %s.", target.ID))
		}
		b.logger.Error("setting primary character", zap.String("user_id", cc.userID), zap.Error(err))
		return b.reply(cc.ctx, cc.userID, "Could not change your primary character right now.")
	}
	return b.reply(cc.ctx, cc.userID, fmt.Sprintf("%s is now your primary character.", target.Name))
}

// matchCharacter finds the character whose ID equals arg, or failing that
// the only one whose ID starts with it.
func matchCharacter(list []*character.Character, arg string) (*character.Character, bool) {
	var found *character.Character
	for _, c := range list {
		if c.ID == arg {
			return c, true
		}
		if strings.HasPrefix(c.ID, arg) {
			if found != nil {
				return nil, false
			}
			found = c
		}
	}
	return found, found != nil
}

func (b *Bot) system(cc *commandContext) error {
	var seed int64
	switch len(cc.parsed.Args) {
	case 0:
		seed = int64(dice.NewCryptoSource().Intn(1 << 31))
	case 1:
		n, err := strconv.ParseInt(cc.parsed.Args[0], 10, 64)
		if err != nil {
			return b.reply(cc.ctx, cc.userID, "The seed must be a whole number.")
		}
		seed = n
	default:
		return b.usage(cc)
	}
	gen := worldgen.New(dice.NewSeededSource(seed), b.corpus.FactionNames(), b.logger)
	sys := gen.Generate()
	return b.reply(cc.ctx, cc.userID, fmt.Sprintf("%s\nSeed: %d", worldgen.Render(sys), seed))
}

func (b *Bot) roll(cc *commandContext) error {
	if cc.parsed.RawArgs == "" {
		return b.usage(cc)
	}
	r, err := b.roller.RollExpr(cc.parsed.RawArgs)
	if err != nil {
		return b.reply(cc.ctx, cc.userID, fmt.Sprintf("Cannot roll %q. Use NdM or NdM x K, e.g. 2d6 x 100.", cc.parsed.RawArgs))
	}
	return b.reply(cc.ctx, cc.userID, r.String())
}

// ask forwards a prompt to the provider behind the command. The answer is
// sent when it arrives so slow providers do not hold up the transport.
func (b *Bot) ask(cc *commandContext) error {
	completer, ok := b.completers[cc.cmd.Handler]
	if !ok || completer == nil {
		return b.reply(cc.ctx, cc.userID, fmt.Sprintf("The ship's computer (%s) is offline.", cc.cmd.Name))
	}
	prompt := cc.parsed.RawArgs
	if prompt == "" {
		return b.usage(cc)
	}
	var cards []string
	if p, err := b.store.Primary(cc.ctx, cc.userID); err == nil {
		cards = append(cards, p.Sheet())
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		answer, err := completer.Complete(b.base, prompt, cards)
		if err != nil {
			b.logger.Warn("completion failed",
				zap.String("user_id", cc.userID),
				zap.String("provider", completer.Name()),
				zap.Error(err),
			)
			answer = "The ship's computer did not answer. Try again later."
		}
		if err := b.reply(b.base, cc.userID, answer); err != nil {
			b.logger.Warn("sending completion", zap.String("user_id", cc.userID), zap.Error(err))
		}
	}()
	return nil
}

func (b *Bot) help(cc *commandContext) error {
	return b.reply(cc.ctx, cc.userID, FormatHelp(b.registry))
}

// FormatHelp lists every command grouped by category.
func FormatHelp(registry *command.Registry) string {
	var sb strings.Builder
	sb.WriteString("Commands:")
	for _, sec := range registry.Sections() {
		cat := sec.Category
		fmt.Fprintf(&sb, "\n\n%s%s", strings.ToUpper(cat[:1]), cat[1:])
		for _, cmd := range sec.Commands {
			usage := "/" + cmd.Name
			if cmd.Usage != "" {
				usage += " " + cmd.Usage
			}
			fmt.Fprintf(&sb, "\n  %-22s %s", usage, cmd.Help)
		}
	}
	return sb.String()
}
