package telnet

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotConnected is returned when sending to a user with no live connection.
var ErrNotConnected = errors.New("telnet: user not connected")

// Roster tracks which connection belongs to which user and delivers
// outbound frames to it. It implements dialog.Sender.
type Roster struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

// NewRoster returns an empty Roster.
func NewRoster() *Roster {
	return &Roster{conns: make(map[string]*Conn)}
}

// Join binds userID to conn.
//
// Postcondition: returns an error if userID is already bound to another connection.
func (r *Roster) Join(userID string, conn *Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.conns[userID]; exists {
		return fmt.Errorf("telnet: Roster.Join: %s is already connected", userID)
	}
	r.conns[userID] = conn
	return nil
}

// Leave unbinds userID if it is still bound to conn.
func (r *Roster) Leave(userID string, conn *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conns[userID] == conn {
		delete(r.conns, userID)
	}
}

// Online reports whether userID has a live connection.
func (r *Roster) Online(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[userID]
	return ok
}

// Send writes text to the user's connection as one frame.
func (r *Roster) Send(ctx context.Context, userID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.RLock()
	conn, ok := r.conns[userID]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotConnected, userID)
	}
	return conn.WriteFrame(text)
}
