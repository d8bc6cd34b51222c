// Package sqlstore implements db.Store on database/sql. The sqlite and
// postgres drivers differ only in their Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"time"

	"github.com/kailas-cloud/wikisearch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store is a SQL-backed document and key-value store.
type Store struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// New wraps an open database and applies the dialect's migrations.
func New(ctx context.Context, sqlDB *sql.DB, d Dialect) (*Store, error) {
	s := &Store{db: sqlDB, dialect: d, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	files, err := fs.Glob(s.dialect.Migrations, s.dialect.Dir+"/*.sql")
	if err != nil {
		return &db.Error{Op: db.OpMigrate, Err: err}
	}
	sort.Strings(files)

	for _, f := range files {
		data, err := fs.ReadFile(s.dialect.Migrations, f)
		if err != nil {
			return &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("read %s: %w", f, err)}
		}
		if _, err := s.db.ExecContext(ctx, string(data)); err != nil {
			return &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("exec %s: %w", f, err)}
		}
	}
	return nil
}

func (s *Store) q(query string) string { return s.dialect.rebind(query) }

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	_ = s.db.Close()
}

// WaitForReady polls Ping until the database responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.PollReady(ctx, timeout, 100*time.Millisecond, s.Ping)
}

// --- documents ---

// PutDocument inserts or replaces a document, keeping its original position.
func (s *Store) PutDocument(ctx context.Context, collection, id string, data []byte) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, &db.Error{Op: db.OpPut, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	err = tx.QueryRowContext(ctx,
		s.q(`SELECT 1 FROM documents WHERE collection = ? AND id = ?`), collection, id,
	).Scan(&one)
	created := errors.Is(err, sql.ErrNoRows)
	if err != nil && !created {
		return false, &db.Error{Op: db.OpPut, Err: err}
	}

	_, err = tx.ExecContext(ctx, s.q(`
		INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data`),
		collection, id, string(data),
	)
	if err != nil {
		return false, &db.Error{Op: db.OpPut, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return false, &db.Error{Op: db.OpPut, Err: err}
	}
	return created, nil
}

// GetDocument returns the stored payload or db.ErrKeyNotFound.
func (s *Store) GetDocument(ctx context.Context, collection, id string) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		s.q(`SELECT data FROM documents WHERE collection = ? AND id = ?`), collection, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, db.ErrKeyNotFound
	}
	if err != nil {
		return nil, &db.Error{Op: db.OpGetDoc, Err: err}
	}
	return []byte(data), nil
}

// DeleteDocument removes a document or returns db.ErrKeyNotFound.
func (s *Store) DeleteDocument(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		s.q(`DELETE FROM documents WHERE collection = ? AND id = ?`), collection, id)
	if err != nil {
		return &db.Error{Op: db.OpDelDoc, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &db.Error{Op: db.OpDelDoc, Err: err}
	}
	if n == 0 {
		return db.ErrKeyNotFound
	}
	return nil
}

// ListDocuments returns a collection in insertion order.
func (s *Store) ListDocuments(ctx context.Context, collection string) ([]db.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		s.q(`SELECT id, data FROM documents WHERE collection = ? ORDER BY seq`), collection)
	if err != nil {
		return nil, &db.Error{Op: db.OpList, Err: err}
	}
	defer rows.Close()

	docs := []db.Document{}
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, &db.Error{Op: db.OpList, Err: err}
		}
		docs = append(docs, db.Document{ID: id, Data: []byte(data)})
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpList, Err: err}
	}
	return docs, nil
}

// --- key-value ---

// Get returns a live value or db.ErrKeyNotFound. Expired rows read as missing.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var (
		value     string
		expiresAt sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		s.q(`SELECT value, expires_at FROM kv WHERE key = ?`), key,
	).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, db.ErrKeyNotFound
	}
	if err != nil {
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	if expiresAt.Valid && expiresAt.Int64 <= s.now().UnixMilli() {
		_, _ = s.db.ExecContext(ctx, s.q(`DELETE FROM kv WHERE key = ? AND expires_at <= ?`), key, expiresAt.Int64)
		return nil, db.ErrKeyNotFound
	}
	return []byte(value), nil
}

// Set stores a value without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.set(ctx, key, value, sql.NullInt64{})
}

// SetWithTTL stores a value that expires after ttl. ttl <= 0 never expires.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return s.Set(ctx, key, value)
	}
	return s.set(ctx, key, value, sql.NullInt64{Int64: s.now().Add(ttl).UnixMilli(), Valid: true})
}

func (s *Store) set(ctx context.Context, key string, value []byte, expiresAt sql.NullInt64) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO kv (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`),
		key, string(value), expiresAt,
	)
	if err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// IncrBy adds val to an integer counter, creating it at val.
func (s *Store) IncrBy(ctx context.Context, key string, val int64) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO kv (key, value, expires_at) VALUES (?, ?, NULL)
		ON CONFLICT (key) DO UPDATE SET value = `+s.dialect.IncrExpr),
		key, strconv.FormatInt(val, 10),
	)
	if err != nil {
		return &db.Error{Op: db.OpIncrBy, Err: err}
	}
	return nil
}

// Expire sets a TTL on an existing key. With nx, keys that already expire are left alone.
func (s *Store) Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error {
	query := `UPDATE kv SET expires_at = ? WHERE key = ?`
	if nx {
		query += ` AND expires_at IS NULL`
	}
	if _, err := s.db.ExecContext(ctx, s.q(query), s.now().Add(ttl).UnixMilli(), key); err != nil {
		return &db.Error{Op: db.OpExpire, Err: err}
	}
	return nil
}
