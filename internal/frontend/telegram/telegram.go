// Package telegram connects the bot to Telegram through long polling.
package telegram

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
	"sync"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/cory-johannsen/colonybot/internal/config"
	"github.com/cory-johannsen/colonybot/internal/dialog"
)

// Scheme prefixes the user IDs of Telegram chats.
const Scheme = "telegram"

// maxMessageLen is Telegram's limit on message text, in UTF-16 code units.
const maxMessageLen = 4096

const (
	preOpen  = "<pre>"
	preClose = "</pre>"
)

// Handler receives one line from a user.
type Handler interface {
	Handle(ctx context.Context, userID, text string) error
}

// Transport polls Telegram for messages and sends frames back. It
// implements dialog.Sender for user IDs of the form "telegram:<chat id>".
type Transport struct {
	api         *tgbotapi.BotAPI
	handler     Handler
	pollTimeout int
	logger      *zap.Logger

	stopOnce sync.Once
	done     chan struct{}
}

// Option configures a Transport.
type Option func(*options)

type options struct {
	endpoint string
}

// WithEndpoint overrides the Bot API endpoint, a format string taking the
// token and method name.
func WithEndpoint(endpoint string) Option {
	return func(o *options) { o.endpoint = endpoint }
}

// New authorizes the bot token and returns a Transport.
//
// Precondition: cfg.Token must be set; handler and logger must be non-nil.
// Postcondition: Returns a Transport ready to Start, or an error when the token is rejected.
func New(cfg config.TelegramConfig, handler Handler, logger *zap.Logger, opts ...Option) (*Transport, error) {
	o := options{endpoint: tgbotapi.APIEndpoint}
	for _, opt := range opts {
		opt(&o)
	}
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(cfg.Token, o.endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram: authorizing bot: %w", err)
	}
	api.Debug = cfg.Debug
	logger.Info("telegram bot authorized", zap.String("username", api.Self.UserName))
	return &Transport{
		api:         api,
		handler:     handler,
		pollTimeout: cfg.PollTimeout,
		logger:      logger,
		done:        make(chan struct{}),
	}, nil
}

// Start polls for updates until Stop is called. Messages from one chat are
// handled in arrival order.
func (t *Transport) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = t.pollTimeout
	updates := t.api.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	for {
		select {
		case <-t.done:
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			t.handleUpdate(ctx, update)
		}
	}
}

// Stop ends polling.
func (t *Transport) Stop() {
	t.stopOnce.Do(func() {
		t.api.StopReceivingUpdates()
		close(t.done)
	})
}

func (t *Transport) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Text == "" || msg.Chat == nil {
		return
	}
	userID := dialog.UserID(Scheme, strconv.FormatInt(msg.Chat.ID, 10))
	if err := t.handler.Handle(ctx, userID, msg.Text); err != nil {
		t.logger.Warn("handling message", zap.String("user_id", userID), zap.Error(err))
	}
}

// Send delivers text to the chat named by userID as preformatted text,
// split into several messages when it is too long for one.
func (t *Transport) Send(ctx context.Context, userID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	chatID, err := ChatID(userID)
	if err != nil {
		return err
	}
	escaped := html.EscapeString(text)
	for _, part := range split(escaped, maxMessageLen-len(preOpen)-len(preClose)) {
		m := tgbotapi.NewMessage(chatID, preOpen+part+preClose)
		m.ParseMode = tgbotapi.ModeHTML
		if _, err := t.api.Send(m); err != nil {
			return fmt.Errorf("telegram: sending to %d: %w", chatID, err)
		}
	}
	return nil
}

// ChatID extracts the chat ID from a "telegram:<id>" user ID.
func ChatID(userID string) (int64, error) {
	raw, ok := strings.CutPrefix(userID, Scheme+":")
	if !ok {
		return 0, fmt.Errorf("telegram: %q is not a telegram user id", userID)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("telegram: bad chat id in %q: %w", userID, err)
	}
	return id, nil
}

// split breaks escaped HTML text into chunks of at most limit UTF-16 code
// units, preferring line boundaries. Chunks never end inside a rune or an
// entity such as "&amp;".
func split(text string, limit int) []string {
	var parts []string
	for utf16Len(text) > limit {
		cut := cutPoint(text, limit)
		parts = append(parts, text[:cut])
		text = strings.TrimPrefix(text[cut:], "\n")
	}
	return append(parts, text)
}

// cutPoint returns the byte offset at which to end the next chunk.
//
// Precondition: utf16Len(text) > limit.
func cutPoint(text string, limit int) int {
	units, safe, line := 0, 0, 0
	inEntity := false
	for i, r := range text {
		if !inEntity {
			safe = i
			if r == '\n' && i > 0 {
				line = i
			}
		}
		n := utf16.RuneLen(r)
		if units+n > limit {
			break
		}
		units += n
		switch r {
		case '&':
			inEntity = true
		case ';':
			inEntity = false
		}
	}
	switch {
	case line > 0:
		return line
	case safe > 0:
		return safe
	}
	// The limit is smaller than the first rune or entity; emit it whole.
	inEntity = false
	for i, r := range text {
		if i > 0 && !inEntity {
			return i
		}
		inEntity = r == '&' || (inEntity && r != ';')
	}
	return len(text)
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
