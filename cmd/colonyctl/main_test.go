package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/colonybot/internal/game/character"
	"github.com/cory-johannsen/colonybot/internal/storage/jsonfile"
	"github.com/cory-johannsen/colonybot/internal/testutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestWorldgen_SeedIsRepeatable(t *testing.T) {
	a, err := execute(t, "worldgen", "--seed", "7", "--content", "../../content")
	require.NoError(t, err)
	b, err := execute(t, "worldgen", "--seed", "7", "--content", "../../content")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "System "))
	assert.Contains(t, a, "Seed: 7")
}

func TestRoll(t *testing.T) {
	out, err := execute(t, "roll", "2d6", "x", "100", "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "2d6 x 100 → [")

	_, err = execute(t, "roll", "lots")
	assert.Error(t, err)
}

func TestCharacters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "characters.json")
	store, err := jsonfile.Open(path)
	require.NoError(t, err)
	_, err = store.Insert(context.Background(), "telnet:ripley", "abc", &character.Character{Name: "Ripley", Career: "Roughneck"})
	require.NoError(t, err)

	out, err := execute(t, "characters", "telnet:ripley", "--store", path)
	require.NoError(t, err)
	assert.Contains(t, out, "* abc  Ripley (Roughneck)")

	out, err = execute(t, "characters", "telnet:nobody", "--store", path)
	require.NoError(t, err)
	assert.Contains(t, out, "no characters for telnet:nobody")
}

func TestContentValidate(t *testing.T) {
	out, err := execute(t, "content", "validate", "../../content")
	require.NoError(t, err)
	assert.Contains(t, out, "5 careers")

	_, err = execute(t, "content", "validate", t.TempDir())
	assert.Error(t, err)
}

func TestMigrate_FlagChecks(t *testing.T) {
	_, err := execute(t, "migrate", "down", "--config", "does-not-exist.yaml")
	assert.ErrorContains(t, err, "--steps N or --all")

	_, err = execute(t, "migrate", "down", "--steps", "1", "--all")
	assert.ErrorContains(t, err, "--steps N or --all")

	_, err = execute(t, "migrate", "force", "minus-one")
	assert.ErrorContains(t, err, "non-negative integer")

	_, err = execute(t, "migrate", "version", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMigrate_AgainstPostgres(t *testing.T) {
	db := testutil.PostgresConfig(t)
	path := filepath.Join(t.TempDir(), "colony.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(`
logging:
  level: warn
  format: console
database:
  host: %s
  port: %d
  user: %s
  password: %s
  name: %s
  sslmode: disable
`, db.Host, db.Port, db.User, db.Password, db.Name)), 0o644))

	out, err := execute(t, "migrate", "version", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 0")

	out, err = execute(t, "migrate", "up", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 1")

	out, err = execute(t, "migrate", "down", "--all", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 0")
}
