package handlers

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/colonybot/internal/dialog"
	"github.com/cory-johannsen/colonybot/internal/frontend/telnet"
)

// TelnetScheme prefixes the user IDs of Telnet callers.
const TelnetScheme = "telnet"

var callsignPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{1,19}$`)

const welcomeBanner = `
` + telnet.Bold + telnet.BrightGreen + `  C O L O N Y   B O T` + telnet.Reset + `
` + telnet.Green + `  Colonial registry terminal. Unauthorised access is logged.` + telnet.Reset + `

  Enter your callsign to sign in. Type ` + telnet.Green + `quit` + telnet.Reset + ` to disconnect.
`

// TelnetSession implements telnet.SessionHandler. A caller signs in with a
// callsign and every following line goes to the Bot.
type TelnetSession struct {
	bot    *Bot
	roster *telnet.Roster
	logger *zap.Logger
}

// NewTelnetSession creates a TelnetSession.
//
// Precondition: bot, roster, and logger must be non-nil.
func NewTelnetSession(bot *Bot, roster *telnet.Roster, logger *zap.Logger) *TelnetSession {
	return &TelnetSession{bot: bot, roster: roster, logger: logger}
}

// HandleSession signs the caller in and forwards lines until they quit or
// the connection drops.
//
// Postcondition: Returns nil on clean quit, or an error if the session ended abnormally.
func (s *TelnetSession) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	start := time.Now()
	addr := conn.RemoteAddr().String()

	if err := conn.WriteFrame(welcomeBanner); err != nil {
		return fmt.Errorf("sending welcome: %w", err)
	}

	userID, err := s.signIn(ctx, conn)
	if err != nil || userID == "" {
		return err
	}
	defer func() {
		s.bot.Disconnect(userID)
		s.roster.Leave(userID, conn)
	}()
	s.logger.Info("caller signed in",
		zap.String("remote_addr", addr),
		zap.String("user_id", userID),
	)
	_ = conn.WriteLine(telnet.Colorize(telnet.Notice, "Signed in. Type /help for commands."))

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteLine(telnet.Colorize(telnet.Warning, "Server shutting down. Goodbye!"))
			return ctx.Err()
		default:
		}

		line, err := conn.ReadLine()
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isQuit(line) {
			_ = conn.WriteLine(telnet.Colorize(telnet.Notice, "Goodbye!"))
			s.logger.Info("caller quit",
				zap.String("user_id", userID),
				zap.Duration("session_duration", time.Since(start)),
			)
			return nil
		}
		if err := s.bot.Handle(ctx, userID, line); err != nil {
			s.logger.Warn("handling line", zap.String("user_id", userID), zap.Error(err))
		}
	}
}

// signIn prompts for a callsign until one is free. Returns an empty user ID
// when the caller quits.
func (s *TelnetSession) signIn(ctx context.Context, conn *telnet.Conn) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := conn.WritePrompt(telnet.Colorize(telnet.Prompt, "Callsign: ")); err != nil {
			return "", fmt.Errorf("writing prompt: %w", err)
		}
		line, err := conn.ReadLine()
		if err != nil {
			return "", fmt.Errorf("reading callsign: %w", err)
		}
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case isQuit(line):
			_ = conn.WriteLine(telnet.Colorize(telnet.Notice, "Goodbye!"))
			return "", nil
		case !callsignPattern.MatchString(line):
			_ = conn.WriteLine(telnet.Colorize(telnet.Alert, "Callsigns are 2-20 letters, digits, '-' or '_', starting with a letter."))
			continue
		}
		userID := dialog.UserID(TelnetScheme, strings.ToLower(line))
		if err := s.roster.Join(userID, conn); err != nil {
			_ = conn.WriteLine(telnet.Colorf(telnet.Alert, "Callsign %s is already signed in.", line))
			continue
		}
		return userID, nil
	}
}

func isQuit(line string) bool {
	switch strings.ToLower(line) {
	case "quit", "exit", "/quit":
		return true
	}
	return false
}
