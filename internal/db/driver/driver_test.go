package driver

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/wikisearch/internal/db"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"", SQLite},
		{"data/app.db", SQLite},
		{":memory:", SQLite},
		{"postgres://u:p@localhost/db", Postgres},
		{"postgresql://localhost/db", Postgres},
	}
	for _, tc := range tests {
		if got := infer(tc.dsn); got != tc.want {
			t.Errorf("infer(%q) = %q, want %q", tc.dsn, got, tc.want)
		}
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "mongo"})
	if !errors.Is(err, db.ErrUnknownDriver) {
		t.Fatalf("expected ErrUnknownDriver, got %v", err)
	}
}

func TestOpen_RedisRequiresAddrs(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: Redis})
	if !errors.Is(err, db.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestOpen_SQLiteInMemory(t *testing.T) {
	s, err := Open(context.Background(), Config{Driver: SQLite, DSN: ":memory:"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
