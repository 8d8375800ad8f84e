// Package handlers routes chat input from any front-end to slash commands
// and running character creation dialogs.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/colonybot/internal/creation"
	"github.com/cory-johannsen/colonybot/internal/dialog"
	"github.com/cory-johannsen/colonybot/internal/game/character"
	"github.com/cory-johannsen/colonybot/internal/game/command"
	"github.com/cory-johannsen/colonybot/internal/game/content"
	"github.com/cory-johannsen/colonybot/internal/game/session"
	"github.com/cory-johannsen/colonybot/internal/llm"
	"github.com/cory-johannsen/colonybot/internal/storage/jsonfile"
	"github.com/cory-johannsen/colonybot/internal/storage/postgres"
)

// CharacterStore defines the character persistence operations required by Bot.
// Both the JSON file store and the Postgres repository satisfy it.
type CharacterStore interface {
	creation.Store
	Characters(ctx context.Context, userID string) ([]*character.Character, error)
	Primary(ctx context.Context, userID string) (*character.Character, error)
	SetPrimary(ctx context.Context, userID, characterID string) error
}

// Deps are the collaborators a Bot needs.
type Deps struct {
	Wizard   *creation.Wizard
	Hub      *dialog.Hub
	Sessions *session.Registry
	Store    CharacterStore
	Corpus   *content.Corpus
	Roller   creation.Roller
	// Completers maps command.HandlerClaude and command.HandlerGPT to a
	// configured provider. Missing entries report the provider offline.
	Completers map[string]llm.Completer
	Logger     *zap.Logger
}

// Bot dispatches chat lines. Lines starting with a slash are commands; any
// other line is a reply to the user's running creation dialog.
type Bot struct {
	wizard     *creation.Wizard
	hub        *dialog.Hub
	sessions   *session.Registry
	store      CharacterStore
	corpus     *content.Corpus
	roller     creation.Roller
	completers map[string]llm.Completer
	registry   *command.Registry
	logger     *zap.Logger

	base context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu     sync.Mutex
	active map[string]*activeDialog
}

// activeDialog is a creation dialog goroutine owned by one user.
type activeDialog struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// stop cancels the dialog and blocks until its goroutine has returned.
func (d *activeDialog) stop() {
	d.cancel()
	<-d.done
}

// NewBot creates a Bot.
//
// Precondition: every field of deps except Completers and Logger must be non-nil.
// Postcondition: Returns a Bot ready to Handle lines, or an error when deps are incomplete.
func NewBot(deps Deps) (*Bot, error) {
	if deps.Wizard == nil || deps.Hub == nil || deps.Sessions == nil || deps.Store == nil ||
		deps.Corpus == nil || deps.Roller == nil {
		return nil, errors.New("handlers: NewBot: wizard, hub, sessions, store, corpus, and roller are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	base, stop := context.WithCancel(context.Background())
	return &Bot{
		wizard:     deps.Wizard,
		hub:        deps.Hub,
		sessions:   deps.Sessions,
		store:      deps.Store,
		corpus:     deps.Corpus,
		roller:     deps.Roller,
		completers: deps.Completers,
		registry:   command.DefaultRegistry(),
		logger:     logger,
		base:       base,
		stop:       stop,
		active:     make(map[string]*activeDialog),
	}, nil
}

// Handle processes one line from userID.
//
// Postcondition: Returns nil once the line is dispatched, or an error when a
// reply could not be sent.
func (b *Bot) Handle(ctx context.Context, userID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if !command.IsCommand(text) {
		return b.deliver(ctx, userID, text)
	}

	parsed := command.Parse(text)
	cmd, err := b.registry.Resolve(parsed.Command)
	var amb *command.AmbiguousError
	switch {
	case errors.As(err, &amb):
		return b.reply(ctx, userID, amb.Error()+". Type more of the name.")
	case err != nil:
		return b.reply(ctx, userID, fmt.Sprintf("Unknown command /%s. Type /help for available commands.", parsed.Command))
	}
	fn, ok := commandHandlerMap[cmd.Handler]
	if !ok {
		return fmt.Errorf("handlers: no dispatcher for handler %q", cmd.Handler)
	}
	b.logger.Debug("command",
		zap.String("user_id", userID),
		zap.String("command", cmd.Name),
	)
	return fn(b, &commandContext{ctx: ctx, userID: userID, cmd: cmd, parsed: parsed})
}

// deliver forwards a dialog reply to the user's running dialog.
func (b *Bot) deliver(ctx context.Context, userID, text string) error {
	if !b.Active(userID) {
		return b.reply(ctx, userID, "Type /help to see what I can do.")
	}
	if err := b.hub.Deliver(userID, text); err != nil {
		b.logger.Warn("dropping dialog input", zap.String("user_id", userID), zap.Error(err))
		if !b.hub.IsOpen(userID) {
			return b.reply(ctx, userID, "Type /help to see what I can do.")
		}
		return b.reply(ctx, userID, "Still working through your earlier answers; please wait a moment.")
	}
	return nil
}

// reply sends one frame outside of a dialog.
func (b *Bot) reply(ctx context.Context, userID, text string) error {
	if err := b.hub.Send(ctx, userID, text); err != nil {
		return fmt.Errorf("handlers: replying to %s: %w", userID, err)
	}
	return nil
}

// Active reports whether userID has a running creation dialog.
func (b *Bot) Active(userID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.active[userID]
	return ok
}

// startDialog runs the wizard for draftID in its own goroutine, replacing
// any dialog the user already has running. The previous dialog has exited
// before the new one opens its inbox, so one goroutine at a time writes to
// the user's drafts.
func (b *Bot) startDialog(userID, draftID string) {
	ctx, cancel := context.WithCancel(b.base)
	d := &activeDialog{cancel: cancel, done: make(chan struct{})}

	var ch *dialog.Channel
	for {
		b.mu.Lock()
		old, ok := b.active[userID]
		if !ok {
			b.active[userID] = d
			ch = b.hub.Open(userID)
			b.mu.Unlock()
			break
		}
		delete(b.active, userID)
		b.mu.Unlock()
		old.stop()
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(d.done)
		defer cancel()
		defer ch.Close()

		err := b.wizard.RunOn(ctx, ch, userID, draftID)

		b.mu.Lock()
		if b.active[userID] == d {
			delete(b.active, userID)
		}
		b.mu.Unlock()

		if err != nil && !errors.Is(err, context.Canceled) {
			b.logger.Debug("creation dialog ended with error",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
	}()
}

// stopDialog cancels the user's running dialog, if any, waits for it to
// exit, and reports whether there was one. The dialog's draft is kept.
func (b *Bot) stopDialog(userID string) bool {
	b.mu.Lock()
	d, ok := b.active[userID]
	if ok {
		delete(b.active, userID)
		b.hub.Close(userID)
	}
	b.mu.Unlock()
	if ok {
		d.stop()
	}
	return ok
}

// Disconnect ends the user's dialog when their transport goes away. The
// draft stays in the registry so /resume can pick it up.
func (b *Bot) Disconnect(userID string) {
	if b.stopDialog(userID) {
		b.logger.Info("creation dialog suspended", zap.String("user_id", userID))
	}
}

// SweepIdle drops drafts idle for longer than idle. A user whose running
// dialog lost its last draft is told and the dialog is stopped.
func (b *Bot) SweepIdle(idle time.Duration) []session.Key {
	dropped := b.sessions.Sweep(idle)
	users := make(map[string]bool)
	for _, k := range dropped {
		users[k.UserID] = true
		b.logger.Info("idle draft dropped",
			zap.String("user_id", k.UserID),
			zap.String("draft_id", k.DraftID),
		)
	}
	for userID := range users {
		if len(b.sessions.Drafts(userID)) > 0 || !b.stopDialog(userID) {
			continue
		}
		msg := fmt.Sprintf("Your character draft expired after %s without a reply. Type /createcharacter to start again.", idle)
		if err := b.reply(b.base, userID, msg); err != nil {
			b.logger.Warn("sending expiry notice", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return dropped
}

// Close cancels every running dialog and background request and waits for
// them to finish.
func (b *Bot) Close() {
	b.stop()
	b.wg.Wait()
}

// isNotFound reports whether err means a character does not exist in
// either store backend.
func isNotFound(err error) bool {
	return errors.Is(err, jsonfile.ErrNotFound) || errors.Is(err, postgres.ErrCharacterNotFound)
}
