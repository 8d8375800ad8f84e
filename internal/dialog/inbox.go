package dialog

import (
	"fmt"
	"sync"
)

// inbox buffers messages from one user until the dialog reads them.
type inbox struct {
	uid    string
	msgs   chan string
	mu     sync.Mutex
	closed bool
}

func newInbox(uid string, bufferSize int) *inbox {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &inbox{uid: uid, msgs: make(chan string, bufferSize)}
}

// push enqueues text without blocking.
//
// Postcondition: text is enqueued, or an error if the inbox is closed or full.
func (b *inbox) push(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("inbox %s is closed", b.uid)
	}
	select {
	case b.msgs <- text:
		return nil
	default:
		return fmt.Errorf("inbox %s buffer full", b.uid)
	}
}

// close closes the channel. Safe to call more than once.
func (b *inbox) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.msgs)
	}
}
