package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
type Store interface {
	Pinger
	DocumentStore
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Document is a stored JSON payload keyed by ID within a collection.
type Document struct {
	ID   string
	Data []byte
}

// DocumentStore keeps opaque JSON documents grouped by collection.
// ListDocuments returns documents in first-insertion order; replacing a
// document keeps its position.
type DocumentStore interface {
	PutDocument(ctx context.Context, collection, id string, data []byte) (created bool, err error)
	GetDocument(ctx context.Context, collection, id string) ([]byte, error)
	DeleteDocument(ctx context.Context, collection, id string) error
	ListDocuments(ctx context.Context, collection string) ([]Document, error)
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// PollReady calls ping every interval until it succeeds or timeout expires.
func PollReady(ctx context.Context, timeout, interval time.Duration, ping func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := ping(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return &Error{Op: OpPing, Err: ctx.Err()}
		case <-ticker.C:
		}
	}
}
