// Package migrations holds the character store schema for PostgreSQL.
package migrations

import "embed"

// FS holds the numbered up and down migrations.
//
//go:embed *.sql
var FS embed.FS
