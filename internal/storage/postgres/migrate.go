package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"github.com/cory-johannsen/colonybot/internal/config"
	"github.com/cory-johannsen/colonybot/migrations"
)

// SchemaVersion is the migration state of the character store.
type SchemaVersion struct {
	Version uint
	Dirty   bool
}

func (v SchemaVersion) String() string {
	if v.Dirty {
		return fmt.Sprintf("%d (dirty)", v.Version)
	}
	return fmt.Sprintf("%d", v.Version)
}

// Migrator applies the embedded character store schema.
type Migrator struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

// NewMigrator connects a migrator to the database in cfg.
//
// Postcondition: Returns a Migrator that must be closed, or an error.
func NewMigrator(cfg config.DatabaseConfig, logger *zap.Logger) (*Migrator, error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("postgres: NewMigrator: reading migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: NewMigrator: %w", err)
	}
	m.Log = migrateLog{logger.Sugar()}
	return &Migrator{m: m, logger: logger}, nil
}

// Up applies pending migrations, all of them when steps is zero.
//
// Postcondition: An already current schema is not an error.
func (g *Migrator) Up(steps int) (SchemaVersion, error) {
	if steps < 0 {
		return SchemaVersion{}, fmt.Errorf("postgres: Migrator.Up: negative steps %d", steps)
	}
	var err error
	if steps == 0 {
		err = g.m.Up()
	} else {
		err = g.m.Steps(steps)
	}
	return g.finish("up", err)
}

// Down reverts steps migrations, or every migration when all is set.
//
// Precondition: steps > 0 unless all is set.
func (g *Migrator) Down(steps int, all bool) (SchemaVersion, error) {
	var err error
	switch {
	case all:
		err = g.m.Down()
	case steps > 0:
		err = g.m.Steps(-steps)
	default:
		return SchemaVersion{}, errors.New("postgres: Migrator.Down: give a step count or all")
	}
	return g.finish("down", err)
}

// Force records version as applied and clears the dirty flag, after a
// failed migration was repaired by hand.
func (g *Migrator) Force(version int) error {
	if err := g.m.Force(version); err != nil {
		return fmt.Errorf("postgres: Migrator.Force: %w", err)
	}
	g.logger.Warn("schema version forced", zap.Int("version", version))
	return nil
}

// Version returns the current schema version. A fresh database is version 0.
func (g *Migrator) Version() (SchemaVersion, error) {
	v, dirty, err := g.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return SchemaVersion{}, nil
	}
	if err != nil {
		return SchemaVersion{}, fmt.Errorf("postgres: Migrator.Version: %w", err)
	}
	return SchemaVersion{Version: v, Dirty: dirty}, nil
}

// Close releases the migrator's connections.
func (g *Migrator) Close() error {
	srcErr, dbErr := g.m.Close()
	return errors.Join(srcErr, dbErr)
}

func (g *Migrator) finish(direction string, err error) (SchemaVersion, error) {
	changed := true
	if errors.Is(err, migrate.ErrNoChange) {
		changed, err = false, nil
	}
	if err != nil {
		return SchemaVersion{}, fmt.Errorf("postgres: migrating %s: %w", direction, err)
	}
	v, err := g.Version()
	if err != nil {
		return SchemaVersion{}, err
	}
	g.logger.Info("schema migrated",
		zap.String("direction", direction),
		zap.Stringer("version", v),
		zap.Bool("changed", changed),
	)
	return v, nil
}

// migrateLog routes golang-migrate's progress lines to zap at debug.
type migrateLog struct {
	s *zap.SugaredLogger
}

func (l migrateLog) Printf(format string, v ...any) { l.s.Debugf(format, v...) }

func (l migrateLog) Verbose() bool { return false }
