package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/wikisearch/internal/db"
)

// Documents live in plain string keys; a sorted set per collection scored by
// a monotonic sequence keeps first-insertion order.

func (s *Store) docKey(collection, id string) string {
	return s.prefix + "doc:" + collection + ":" + id
}

func (s *Store) orderKey(collection string) string {
	return s.prefix + "order:" + collection
}

func (s *Store) seqKey(collection string) string {
	return s.prefix + "seq:" + collection
}

// PutDocument stores data under id. created is false when id already existed.
func (s *Store) PutDocument(ctx context.Context, collection, id string, data []byte) (bool, error) {
	seq, err := s.do(ctx, s.b().Incr().Key(s.seqKey(collection)).Build()).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpPut, Err: err}
	}

	results := s.client.DoMulti(ctx,
		s.b().Set().Key(s.docKey(collection, id)).Value(rueidis.BinaryString(data)).Build(),
		s.b().Zadd().Key(s.orderKey(collection)).Nx().ScoreMember().ScoreMember(float64(seq), id).Build(),
	)
	if err := results[0].Error(); err != nil {
		return false, &db.Error{Op: db.OpPut, Err: fmt.Errorf("set %s: %w", id, err)}
	}
	added, err := results[1].AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpPut, Err: fmt.Errorf("order %s: %w", id, err)}
	}
	return added == 1, nil
}

// GetDocument returns the stored payload or db.ErrKeyNotFound.
func (s *Store) GetDocument(ctx context.Context, collection, id string) ([]byte, error) {
	data, err := s.do(ctx, s.b().Get().Key(s.docKey(collection, id)).Build()).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGetDoc, Err: err}
	}
	return data, nil
}

// DeleteDocument removes a document and its order entry.
func (s *Store) DeleteDocument(ctx context.Context, collection, id string) error {
	results := s.client.DoMulti(ctx,
		s.b().Del().Key(s.docKey(collection, id)).Build(),
		s.b().Zrem().Key(s.orderKey(collection)).Member(id).Build(),
	)
	n, err := results[0].AsInt64()
	if err != nil {
		return &db.Error{Op: db.OpDelDoc, Err: err}
	}
	if err := results[1].Error(); err != nil {
		return &db.Error{Op: db.OpDelDoc, Err: err}
	}
	if n == 0 {
		return db.ErrKeyNotFound
	}
	return nil
}

// ListDocuments returns every document of a collection in insertion order.
func (s *Store) ListDocuments(ctx context.Context, collection string) ([]db.Document, error) {
	ids, err := s.do(ctx, s.b().Zrange().Key(s.orderKey(collection)).Min("0").Max("-1").Build()).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpList, Err: err}
	}
	if len(ids) == 0 {
		return []db.Document{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.docKey(collection, id)
	}

	values, err := s.do(ctx, s.b().Mget().Key(keys...).Build()).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpList, Err: err}
	}

	docs := make([]db.Document, 0, len(ids))
	for i, v := range values {
		raw, err := v.ToString()
		if err != nil {
			if rueidis.IsRedisNil(err) {
				// deleted between ZRANGE and MGET
				continue
			}
			return nil, &db.Error{Op: db.OpList, Err: fmt.Errorf("key %s: %w", keys[i], err)}
		}
		docs = append(docs, db.Document{ID: ids[i], Data: []byte(raw)})
	}
	return docs, nil
}
