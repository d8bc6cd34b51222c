// Package postgres opens a db.Store backed by PostgreSQL through pgx.
package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver

	"github.com/kailas-cloud/wikisearch/internal/db"
	"github.com/kailas-cloud/wikisearch/internal/db/sqlstore"
)

// NewStore connects to dsn, verifies the connection and migrates the schema.
func NewStore(ctx context.Context, dsn string) (*sqlstore.Store, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, &db.Error{Op: db.OpOpen, Err: err}
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, &db.Error{Op: db.OpPing, Err: err}
	}

	s, err := sqlstore.New(ctx, sqlDB, sqlstore.Postgres)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return s, nil
}
