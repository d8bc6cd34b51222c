// Package driver selects and opens a db.Store implementation from config.
package driver

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/wikisearch/internal/db"
	"github.com/kailas-cloud/wikisearch/internal/db/postgres"
	"github.com/kailas-cloud/wikisearch/internal/db/redis"
	"github.com/kailas-cloud/wikisearch/internal/db/sqlite"
)

// Supported driver names.
const (
	Redis    = "redis"
	Valkey   = "valkey"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// Config selects and parameterizes a store.
type Config struct {
	Driver    string
	Addrs     []string
	Password  string
	DSN       string
	KeyPrefix string
}

// Open creates the configured store. An empty driver is inferred from the
// DSN: postgres:// URLs pick postgres, anything else sqlite.
func Open(ctx context.Context, cfg Config) (db.Store, error) {
	name := cfg.Driver
	if name == "" {
		name = infer(cfg.DSN)
	}

	switch name {
	case Redis, Valkey:
		s, err := redis.NewStore(redis.Config{
			Addrs:     cfg.Addrs,
			Password:  cfg.Password,
			KeyPrefix: cfg.KeyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		return s, nil
	case SQLite:
		s, err := sqlite.NewStore(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		return s, nil
	case Postgres:
		s, err := postgres.NewStore(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", db.ErrUnknownDriver, name)
	}
}

func infer(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return Postgres
	}
	return SQLite
}
