// Package sqlite opens a db.Store backed by an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/kailas-cloud/wikisearch/internal/db"
	"github.com/kailas-cloud/wikisearch/internal/db/sqlstore"
)

// DefaultPath is used when no DSN is configured.
const DefaultPath = "data/wikisearch.db"

// NewStore opens (creating if needed) the database at dsn and migrates it.
// ":memory:" gives a private in-memory database.
func NewStore(ctx context.Context, dsn string) (*sqlstore.Store, error) {
	if dsn == "" {
		dsn = DefaultPath
	}

	if !strings.HasPrefix(dsn, ":memory:") && !strings.HasPrefix(dsn, "file:") {
		if dir := filepath.Dir(dsn); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
		}
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &db.Error{Op: db.OpOpen, Err: err}
	}
	// one writer at a time; also keeps ":memory:" on a single connection
	sqlDB.SetMaxOpenConns(1)

	s, err := sqlstore.New(ctx, sqlDB, sqlstore.SQLite)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return s, nil
}
