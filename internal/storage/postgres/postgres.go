// Package postgres keeps committed characters in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cory-johannsen/colonybot/internal/config"
)

const (
	firstRetry = 250 * time.Millisecond
	maxRetry   = 5 * time.Second
)

// Pool is the connection pool behind the character store.
type Pool struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// Connect opens a pool for cfg and waits until the server answers. A
// database started alongside the bot is often a few seconds behind it, so
// failed pings are retried with a growing pause until cfg.ConnectTimeout
// (or ctx) runs out.
//
// Postcondition: Returns a Pool that answered a ping, or an error.
func Connect(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: Connect: parsing config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "colonybot"

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: Connect: creating pool: %w", err)
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	wait := firstRetry
	for attempt := 1; ; attempt++ {
		err := pool.Ping(ctx)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres: Connect: gave up after %d attempts: %w", attempt, err)
		}
		logger.Warn("database not ready",
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", wait),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
		case <-time.After(wait):
		}
		wait = min(2*wait, maxRetry)
	}
	return &Pool{pool: pool, logger: logger}, nil
}

// Characters returns a repository on this pool.
func (p *Pool) Characters(opts ...Option) *CharacterRepository {
	return NewCharacterRepository(p.pool, opts...)
}

// Check pings the server within timeout and logs pool usage at debug.
func (p *Pool) Check(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: Check: %w", err)
	}
	st := p.pool.Stat()
	p.logger.Debug("database pool",
		zap.Int32("total", st.TotalConns()),
		zap.Int32("acquired", st.AcquiredConns()),
		zap.Int32("idle", st.IdleConns()),
		zap.Int64("empty_acquires", st.EmptyAcquireCount()),
	)
	return nil
}

// Close releases every connection.
func (p *Pool) Close() {
	p.pool.Close()
}
