package dialog

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Hub implements Port on top of a transport Sender. Transports feed inbound
// text with Deliver; dialogs read it through the Channel returned by Open.
type Hub struct {
	out        Sender
	bufferSize int

	mu      sync.Mutex
	inboxes map[string]*inbox
}

// NewHub returns a Hub that sends through out and buffers up to bufferSize
// unread messages per user.
//
// Precondition: out must be non-nil.
func NewHub(out Sender, bufferSize int) *Hub {
	return &Hub{out: out, bufferSize: bufferSize, inboxes: make(map[string]*inbox)}
}

// Open creates the user's inbox, replacing (and closing) any previous one,
// and returns a Channel bound to the new inbox.
//
// Postcondition: Deliver(userID, ...) feeds only the returned Channel until
// the next Open or Close for userID.
func (h *Hub) Open(userID string) *Channel {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.inboxes[userID]; ok {
		old.close()
	}
	b := newInbox(userID, h.bufferSize)
	h.inboxes[userID] = b
	return &Channel{hub: h, inbox: b}
}

// Close closes the user's inbox; a pending Receive returns ErrClosed.
func (h *Hub) Close(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if b, ok := h.inboxes[userID]; ok {
		b.close()
		delete(h.inboxes, userID)
	}
}

// IsOpen reports whether userID has an open inbox.
func (h *Hub) IsOpen(userID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.inboxes[userID]
	return ok
}

// Deliver queues text from userID. Returns an error when the user has no open
// inbox or the inbox is full.
func (h *Hub) Deliver(userID, text string) error {
	h.mu.Lock()
	b, ok := h.inboxes[userID]
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("dialog: no open dialog for %s", userID)
	}
	return b.push(text)
}

// Send forwards to the transport.
func (h *Hub) Send(ctx context.Context, userID, text string) error {
	return h.out.Send(ctx, userID, text)
}

// Receive returns the next trimmed message from userID's current inbox.
// Dialogs that must not outlive their inbox read from a Channel instead.
func (h *Hub) Receive(ctx context.Context, userID string) (string, error) {
	h.mu.Lock()
	b, ok := h.inboxes[userID]
	h.mu.Unlock()
	if !ok {
		return "", ErrClosed
	}
	return b.receive(ctx)
}

// Channel is a Port bound to one inbox generation. Once its inbox is
// replaced or closed, Receive returns ErrClosed even if the user has a
// newer inbox.
type Channel struct {
	hub   *Hub
	inbox *inbox
}

// Send forwards to the hub's transport.
func (c *Channel) Send(ctx context.Context, userID, text string) error {
	return c.hub.Send(ctx, userID, text)
}

// Receive returns the next trimmed message from the bound inbox. userID is
// ignored; the inbox already belongs to one user.
func (c *Channel) Receive(ctx context.Context, _ string) (string, error) {
	return c.inbox.receive(ctx)
}

// Close closes the bound inbox and unregisters it if it is still current.
func (c *Channel) Close() {
	c.hub.mu.Lock()
	defer c.hub.mu.Unlock()
	c.inbox.close()
	if c.hub.inboxes[c.inbox.uid] == c.inbox {
		delete(c.hub.inboxes, c.inbox.uid)
	}
}

// receive waits for the next message. A done ctx always wins over a
// queued message.
func (b *inbox) receive(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case text, ok := <-b.msgs:
		if !ok {
			return "", ErrClosed
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return strings.TrimSpace(text), nil
	}
}
