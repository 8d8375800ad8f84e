// Package dialog is the transport-neutral conversation port: send text to a
// user and receive the next text that user addressed to the bot.
package dialog

import (
	"context"
	"errors"
)

// ErrClosed is returned by Receive once the user's inbox has been closed.
var ErrClosed = errors.New("dialog: inbox closed")

// Port is the channel pair a dialog is written against.
type Port interface {
	// Send delivers text to userID. Frames from one dialog arrive in call order.
	Send(ctx context.Context, userID, text string) error
	// Receive blocks until the next message from userID arrives, the inbox
	// closes, or ctx is done.
	Receive(ctx context.Context, userID string) (string, error)
}

// Sender is the outbound half a chat transport provides.
type Sender interface {
	Send(ctx context.Context, userID, text string) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, userID, text string) error

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, userID, text string) error {
	return f(ctx, userID, text)
}
