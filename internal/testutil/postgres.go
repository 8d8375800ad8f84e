// Package testutil provides a PostgreSQL test container and a scripted
// Telnet caller for integration tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/colonybot/internal/config"
	"github.com/cory-johannsen/colonybot/internal/storage/postgres"
)

// PostgresConfig starts a throwaway PostgreSQL container and returns the
// settings that reach it. The schema is not applied.
//
// Precondition: Docker must be available; the test is skipped otherwise.
func PostgresConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()
	start := time.Now()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "colony",
				"POSTGRES_PASSWORD": "colony",
				"POSTGRES_DB":       "colony_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting postgres container: %v [%s]", err, time.Since(start))
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	t.Logf("postgres container started [%s]", time.Since(start))

	return config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "colony",
		Password:        "colony",
		Name:            "colony_test",
		SSLMode:         "disable",
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
		ConnectTimeout:  10 * time.Second,
	}
}

// NewPool starts a container, applies every migration, and returns a
// connected Pool that is closed when the test ends.
func NewPool(t *testing.T) *postgres.Pool {
	t.Helper()
	cfg := PostgresConfig(t)
	logger := zaptest.NewLogger(t)

	m, err := postgres.NewMigrator(cfg, logger)
	if err != nil {
		t.Fatalf("opening migrator: %v", err)
	}
	if _, err := m.Up(0); err != nil {
		t.Fatalf("applying migrations: %v", err)
	}
	_ = m.Close()

	pool, err := postgres.Connect(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("connecting to test postgres: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}
