package dialog

import (
	"context"
	"strings"
	"sync"
)

// Script is an in-memory Port that replays canned replies and records every
// frame sent. It backs tests and the offline CLI.
type Script struct {
	mu      sync.Mutex
	replies []string
	sent    []string
	// SendErr, when set, is returned by every Send.
	SendErr error
}

// NewScript returns a Script that answers Receive with replies in order.
func NewScript(replies ...string) *Script {
	return &Script{replies: replies}
}

// Send records text.
func (s *Script) Send(_ context.Context, _ string, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SendErr != nil {
		return s.SendErr
	}
	s.sent = append(s.sent, text)
	return nil
}

// Receive pops the next reply, or returns ErrClosed when the script is exhausted.
func (s *Script) Receive(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.replies) == 0 {
		return "", ErrClosed
	}
	next := s.replies[0]
	s.replies = s.replies[1:]
	return strings.TrimSpace(next), nil
}

// Push appends more replies.
func (s *Script) Push(replies ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, replies...)
}

// Sent returns a copy of every frame sent so far.
func (s *Script) Sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

// Last returns the most recent frame, or "".
func (s *Script) Last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return ""
	}
	return s.sent[len(s.sent)-1]
}

// Remaining returns the number of unread replies.
func (s *Script) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.replies)
}
