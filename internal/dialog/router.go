package dialog

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Router is a Sender that picks a transport by the user ID's scheme, the
// part before the first colon ("telnet:ripley", "telegram:42").
type Router struct {
	mu     sync.RWMutex
	routes map[string]Sender
}

// NewRouter returns a Router with no routes.
func NewRouter() *Router {
	return &Router{routes: make(map[string]Sender)}
}

// Route sends user IDs with the given scheme through s.
func (r *Router) Route(scheme string, s Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[scheme] = s
}

// UserID builds a routable user ID.
func UserID(scheme, id string) string {
	return scheme + ":" + id
}

// Send forwards to the transport registered for userID's scheme.
func (r *Router) Send(ctx context.Context, userID, text string) error {
	scheme, _, ok := strings.Cut(userID, ":")
	if !ok {
		return fmt.Errorf("dialog: user id %q has no transport scheme", userID)
	}
	r.mu.RLock()
	s, ok := r.routes[scheme]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("dialog: no transport for scheme %q", scheme)
	}
	return s.Send(ctx, userID, text)
}
