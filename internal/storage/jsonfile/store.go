// Package jsonfile persists committed characters in a single JSON document.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/colonybot/internal/game/character"
	"github.com/cory-johannsen/colonybot/internal/game/inventory"
)

// PrimaryKey is the reserved top-level key holding the primary-character map.
const PrimaryKey = "_primary"

var (
	// ErrNotFound is returned when a user or character does not exist.
	ErrNotFound = errors.New("jsonfile: character not found")
	// ErrReservedUser is returned for user IDs that collide with reserved keys.
	ErrReservedUser = errors.New("jsonfile: reserved user id")
	// ErrExists is returned when inserting over an existing character ID.
	ErrExists = errors.New("jsonfile: character already exists")
)

type state struct {
	chars   map[string]map[string]*character.Character
	primary map[string]string
}

func emptyState() *state {
	return &state{
		chars:   make(map[string]map[string]*character.Character),
		primary: make(map[string]string),
	}
}

// clone copies the maps so a pending write never touches the live state.
func (s *state) clone() *state {
	out := emptyState()
	for u, chars := range s.chars {
		m := make(map[string]*character.Character, len(chars))
		for id, c := range chars {
			m[id] = c
		}
		out.chars[u] = m
	}
	for u, id := range s.primary {
		out.primary[u] = id
	}
	return out
}

// Store is a file-backed character store. Writers are serialized; each write
// replaces the file atomically and the in-memory state is swapped only after
// the file is in place.
type Store struct {
	path      string
	logger    *zap.Logger
	wearables func(string) (*inventory.WearableDef, bool)

	mu  sync.RWMutex
	cur *state
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithWearables resolves stored loadouts against lookup on open.
func WithWearables(lookup func(string) (*inventory.WearableDef, bool)) Option {
	return func(s *Store) { s.wearables = lookup }
}

// Open loads the store at path. A missing file is an empty store.
//
// Postcondition: Returns a usable Store or a non-nil error for an unreadable
// or malformed file.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{path: path, logger: zap.NewNop(), cur: emptyState()}
	for _, o := range opts {
		o(s)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("jsonfile: Open: reading %s: %w", path, err)
	}
	st, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("jsonfile: Open: %s: %w", path, err)
	}
	if s.wearables != nil {
		for u, chars := range st.chars {
			for id, c := range chars {
				if c.Loadout == nil {
					continue
				}
				if err := c.Loadout.Resolve(s.wearables); err != nil {
					s.logger.Warn("stored loadout does not resolve",
						zap.String("user_id", u), zap.String("character_id", id), zap.Error(err))
				}
			}
		}
	}
	s.cur = st
	return s, nil
}

func decode(data []byte) (*state, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	st := emptyState()
	for key, msg := range raw {
		if key == PrimaryKey {
			if err := json.Unmarshal(msg, &st.primary); err != nil {
				return nil, fmt.Errorf("%s: %w", PrimaryKey, err)
			}
			continue
		}
		chars := make(map[string]*character.Character)
		if err := json.Unmarshal(msg, &chars); err != nil {
			return nil, fmt.Errorf("user %s: %w", key, err)
		}
		for id, c := range chars {
			c.ID = id
		}
		st.chars[key] = chars
	}
	for u, id := range st.primary {
		if _, ok := st.chars[u][id]; !ok {
			return nil, fmt.Errorf("primary %s for user %s does not exist", id, u)
		}
	}
	return st, nil
}

func encode(st *state) ([]byte, error) {
	doc := make(map[string]any, len(st.chars)+1)
	for u, chars := range st.chars {
		doc[u] = chars
	}
	doc[PrimaryKey] = st.primary
	return json.MarshalIndent(doc, "", "  ")
}

// write persists st via a temp file and rename in the store's directory.
func (s *Store) write(st *state) error {
	data, err := encode(st)
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	name := tmp.Name()
	defer os.Remove(name)
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", name, err)
	}
	if err := os.Rename(name, s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

// update applies fn to a copy of the state, persists it, and swaps it in.
func (s *Store) update(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cur.clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.write(next); err != nil {
		return err
	}
	s.cur = next
	return nil
}

func checkUser(userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: empty", ErrReservedUser)
	}
	if userID == PrimaryKey {
		return fmt.Errorf("%w: %q", ErrReservedUser, userID)
	}
	return nil
}

// Insert stores c as characterID for userID and makes it primary when the
// user has none.
//
// Postcondition: on error the store and its file are unchanged.
func (s *Store) Insert(ctx context.Context, userID, characterID string, c *character.Character) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := checkUser(userID); err != nil {
		return false, err
	}
	var primary bool
	err := s.update(func(st *state) error {
		chars, ok := st.chars[userID]
		if !ok {
			chars = make(map[string]*character.Character)
			st.chars[userID] = chars
		}
		if _, exists := chars[characterID]; exists {
			return fmt.Errorf("%w: %s", ErrExists, characterID)
		}
		stored := *c
		stored.ID = characterID
		chars[characterID] = &stored
		if _, has := st.primary[userID]; !has {
			st.primary[userID] = characterID
			primary = true
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("jsonfile: Insert: %w", err)
	}
	s.logger.Debug("character stored",
		zap.String("user_id", userID), zap.String("character_id", characterID), zap.Bool("primary", primary))
	return primary, nil
}

// Characters returns the user's characters ordered by name, then ID.
func (s *Store) Characters(ctx context.Context, userID string) ([]*character.Character, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*character.Character, 0, len(s.cur.chars[userID]))
	for _, c := range s.cur.chars[userID] {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Character returns one character or ErrNotFound.
func (s *Store) Character(ctx context.Context, userID, characterID string) (*character.Character, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cur.chars[userID][characterID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, characterID)
	}
	cp := *c
	return &cp, nil
}

// Primary returns the user's primary character or ErrNotFound.
func (s *Store) Primary(ctx context.Context, userID string) (*character.Character, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	id, ok := s.cur.primary[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no primary for %s", ErrNotFound, userID)
	}
	return s.Character(ctx, userID, id)
}

// SetPrimary points the user's primary at an existing character.
func (s *Store) SetPrimary(ctx context.Context, userID, characterID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.update(func(st *state) error {
		if _, ok := st.chars[userID][characterID]; !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, characterID)
		}
		st.primary[userID] = characterID
		return nil
	})
	if err != nil {
		return fmt.Errorf("jsonfile: SetPrimary: %w", err)
	}
	return nil
}

// Delete removes a character. When it was primary, the primary moves to the
// user's lowest remaining character ID in byte order, or is cleared.
func (s *Store) Delete(ctx context.Context, userID, characterID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.update(func(st *state) error {
		chars := st.chars[userID]
		if _, ok := chars[characterID]; !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, characterID)
		}
		delete(chars, characterID)
		if len(chars) == 0 {
			delete(st.chars, userID)
		}
		if st.primary[userID] != characterID {
			return nil
		}
		delete(st.primary, userID)
		ids := make([]string, 0, len(chars))
		for id := range chars {
			ids = append(ids, id)
		}
		if len(ids) > 0 {
			sort.Strings(ids)
			st.primary[userID] = ids[0]
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("jsonfile: Delete: %w", err)
	}
	return nil
}

// Count returns the number of stored characters.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, chars := range s.cur.chars {
		n += len(chars)
	}
	return n
}
