package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/colonybot/internal/game/character"
	"github.com/cory-johannsen/colonybot/internal/game/inventory"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterExists is returned when inserting over an existing character ID.
var ErrCharacterExists = errors.New("character already exists")

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	db        *pgxpool.Pool
	wearables func(string) (*inventory.WearableDef, bool)
}

// Option configures a CharacterRepository.
type Option func(*CharacterRepository)

// WithWearables resolves loaded loadouts against lookup.
func WithWearables(lookup func(string) (*inventory.WearableDef, bool)) Option {
	return func(r *CharacterRepository) { r.wearables = lookup }
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool, opts ...Option) *CharacterRepository {
	r := &CharacterRepository{db: db}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Insert stores c and makes it the user's primary character when they have
// none, in one transaction.
//
// Postcondition: Returns whether c became primary, or ErrCharacterExists on a
// duplicate ID. On error nothing is written.
func (r *CharacterRepository) Insert(ctx context.Context, userID, characterID string, c *character.Character) (bool, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return false, fmt.Errorf("encoding character: %w", err)
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO characters (user_id, character_id, name, data)
		VALUES ($1, $2, $3, $4)`,
		userID, characterID, c.Name, data,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return false, ErrCharacterExists
		}
		return false, fmt.Errorf("inserting character: %w", err)
	}
	tag, err := tx.Exec(ctx, `
		INSERT INTO primary_characters (user_id, character_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING`,
		userID, characterID,
	)
	if err != nil {
		return false, fmt.Errorf("setting primary character: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("committing character: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Characters returns the user's characters ordered by name, then ID.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) Characters(ctx context.Context, userID string) ([]*character.Character, error) {
	rows, err := r.db.Query(ctx, `
		SELECT character_id, data FROM characters
		WHERE user_id = $1 ORDER BY name ASC, character_id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	chars := make([]*character.Character, 0)
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		c, err := r.decode(id, data)
		if err != nil {
			return nil, err
		}
		chars = append(chars, c)
	}
	return chars, rows.Err()
}

// Character retrieves one character.
//
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) Character(ctx context.Context, userID, characterID string) (*character.Character, error) {
	var data []byte
	err := r.db.QueryRow(ctx, `
		SELECT data FROM characters WHERE user_id = $1 AND character_id = $2`,
		userID, characterID,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return r.decode(characterID, data)
}

// Primary retrieves the user's primary character.
//
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) Primary(ctx context.Context, userID string) (*character.Character, error) {
	var (
		id   string
		data []byte
	)
	err := r.db.QueryRow(ctx, `
		SELECT c.character_id, c.data
		FROM primary_characters p
		JOIN characters c ON c.user_id = p.user_id AND c.character_id = p.character_id
		WHERE p.user_id = $1`,
		userID,
	).Scan(&id, &data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying primary character: %w", err)
	}
	return r.decode(id, data)
}

// SetPrimary points the user's primary at an existing character.
//
// Postcondition: Returns ErrCharacterNotFound if the character does not exist.
func (r *CharacterRepository) SetPrimary(ctx context.Context, userID, characterID string) error {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO primary_characters (user_id, character_id)
		SELECT user_id, character_id FROM characters
		WHERE user_id = $1 AND character_id = $2
		ON CONFLICT (user_id) DO UPDATE SET character_id = EXCLUDED.character_id`,
		userID, characterID,
	)
	if err != nil {
		return fmt.Errorf("setting primary character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// Delete removes a character. A deleted primary moves to the user's lowest
// remaining character ID in byte order, or is cleared.
//
// Postcondition: Returns ErrCharacterNotFound if the character does not exist.
func (r *CharacterRepository) Delete(ctx context.Context, userID, characterID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var primary string
	err = tx.QueryRow(ctx, `
		SELECT character_id FROM primary_characters WHERE user_id = $1 FOR UPDATE`,
		userID,
	).Scan(&primary)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("locking primary character: %w", err)
	}

	// The primary row goes with the character through ON DELETE CASCADE.
	tag, err := tx.Exec(ctx, `
		DELETE FROM characters WHERE user_id = $1 AND character_id = $2`,
		userID, characterID,
	)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	if primary == characterID {
		_, err = tx.Exec(ctx, `
			INSERT INTO primary_characters (user_id, character_id)
			SELECT user_id, character_id FROM characters
			WHERE user_id = $1
			ORDER BY character_id COLLATE "C"
			LIMIT 1`,
			userID,
		)
		if err != nil {
			return fmt.Errorf("reassigning primary character: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *CharacterRepository) decode(id string, data []byte) (*character.Character, error) {
	var c character.Character
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding character %s: %w", id, err)
	}
	c.ID = id
	if c.Loadout != nil && r.wearables != nil {
		if err := c.Loadout.Resolve(r.wearables); err != nil {
			return nil, fmt.Errorf("character %s: %w", id, err)
		}
	}
	return &c, nil
}

func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
