// Package migrations embeds the schema for the SQL document stores.
package migrations

import "embed"

// SQLite holds the SQLite schema files.
//
//go:embed sqlite/*.sql
var SQLite embed.FS

// Postgres holds the PostgreSQL schema files.
//
//go:embed postgres/*.sql
var Postgres embed.FS
