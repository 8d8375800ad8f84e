package session

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Key addresses one draft.
type Key struct {
	UserID  string
	DraftID string
}

type entry struct {
	draft   *Draft
	touched time.Time
}

// Registry tracks in-progress drafts per user.
// All methods are safe for concurrent use; a Draft itself is owned by one dialog.
type Registry struct {
	mu     sync.RWMutex
	drafts map[string]map[string]*entry // userID → draftID → entry
	now    func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the time source used for idle tracking.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		drafts: make(map[string]map[string]*entry),
		now:    time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Create stores seed (or an empty draft when seed is nil) under a fresh draft ID.
//
// Precondition: userID must be non-empty.
// Postcondition: the returned draft has a unique ID and UserID == userID.
func (r *Registry) Create(userID string, seed *Draft) (*Draft, error) {
	if userID == "" {
		return nil, fmt.Errorf("session: Registry.Create: empty user id")
	}
	d := seed
	if d == nil {
		d = &Draft{}
	}
	d.ID = uuid.NewString()
	d.UserID = userID

	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	d.CreatedAt = now
	user, ok := r.drafts[userID]
	if !ok {
		user = make(map[string]*entry)
		r.drafts[userID] = user
	}
	user[d.ID] = &entry{draft: d, touched: now}
	return d, nil
}

// Get returns the draft for (userID, draftID).
func (r *Registry) Get(userID, draftID string) (*Draft, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.drafts[userID][draftID]
	if !ok {
		return nil, false
	}
	return e.draft, true
}

// Touch records activity on a draft. Returns false if the draft is gone.
func (r *Registry) Touch(userID, draftID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.drafts[userID][draftID]
	if ok {
		e.touched = r.now()
	}
	return ok
}

// Delete drops a draft. Returns false if it did not exist.
func (r *Registry) Delete(userID, draftID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deleteLocked(userID, draftID)
}

func (r *Registry) deleteLocked(userID, draftID string) bool {
	user, ok := r.drafts[userID]
	if !ok {
		return false
	}
	if _, ok := user[draftID]; !ok {
		return false
	}
	delete(user, draftID)
	if len(user) == 0 {
		delete(r.drafts, userID)
	}
	return true
}

// Latest returns the user's most recently active draft.
func (r *Registry) Latest(userID string) (*Draft, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var best *entry
	for _, e := range r.drafts[userID] {
		if best == nil || e.touched.After(best.touched) {
			best = e
		}
	}
	if best == nil {
		return nil, false
	}
	return best.draft, true
}

// Drafts returns the user's drafts ordered by creation time.
func (r *Registry) Drafts(userID string) []*Draft {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Draft, 0, len(r.drafts[userID]))
	for _, e := range r.drafts[userID] {
		out = append(out, e.draft)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Count returns the total number of drafts across all users.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, user := range r.drafts {
		n += len(user)
	}
	return n
}

// Sweep drops every draft idle for longer than idle and returns their keys.
func (r *Registry) Sweep(idle time.Duration) []Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-idle)
	var dropped []Key
	for userID, user := range r.drafts {
		for draftID, e := range user {
			if e.touched.Before(cutoff) {
				dropped = append(dropped, Key{UserID: userID, DraftID: draftID})
			}
		}
	}
	for _, k := range dropped {
		r.deleteLocked(k.UserID, k.DraftID)
	}
	return dropped
}
