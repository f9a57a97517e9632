// Package migrations embeds goose migrations, one directory per dialect.
package migrations

import "embed"

// FS holds postgres/*.sql and sqlite/*.sql.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// Directories inside FS.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)
