package budget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/wikisearch/internal/db"
)

type expireCall struct {
	key string
	ttl time.Duration
	nx  bool
}

type mockKV struct {
	values    map[string][]byte
	incrErr   error
	expireErr error
	getErr    error
	expires   []expireCall
}

func (m *mockKV) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKV) IncrBy(_ context.Context, key string, _ int64) error {
	return m.incrErr
}

func (m *mockKV) Expire(_ context.Context, key string, ttl time.Duration, nx bool) error {
	m.expires = append(m.expires, expireCall{key, ttl, nx})
	return m.expireErr
}

func TestIncrBy_SetsPeriodTTL(t *testing.T) {
	kv := &mockKV{}
	s := New(kv, time.Hour, 2*time.Hour)
	ctx := context.Background()

	if err := s.IncrBy(ctx, "wikisearch:budget:openai:daily:2026-07-04", 10); err != nil {
		t.Fatal(err)
	}
	if err := s.IncrBy(ctx, "wikisearch:budget:openai:monthly:2026-07", 10); err != nil {
		t.Fatal(err)
	}

	if len(kv.expires) != 2 {
		t.Fatalf("expected 2 expire calls, got %d", len(kv.expires))
	}
	if kv.expires[0].ttl != time.Hour || !kv.expires[0].nx {
		t.Errorf("daily expire = %+v", kv.expires[0])
	}
	if kv.expires[1].ttl != 2*time.Hour || !kv.expires[1].nx {
		t.Errorf("monthly expire = %+v", kv.expires[1])
	}
}

func TestNew_DefaultTTLs(t *testing.T) {
	kv := &mockKV{}
	s := New(kv, 0, -1)
	_ = s.IncrBy(context.Background(), "p:budget:x:daily:d", 1)
	_ = s.IncrBy(context.Background(), "p:budget:x:monthly:m", 1)
	if kv.expires[0].ttl != DefaultDailyTTL || kv.expires[1].ttl != DefaultMonthlyTTL {
		t.Errorf("unexpected ttls: %+v", kv.expires)
	}
}

func TestIncrBy_Errors(t *testing.T) {
	kv := &mockKV{incrErr: errors.New("down")}
	if err := New(kv, 0, 0).IncrBy(context.Background(), "k", 1); err == nil {
		t.Fatal("expected incr error")
	}
	if len(kv.expires) != 0 {
		t.Error("expire must not run after failed incr")
	}

	kv = &mockKV{expireErr: errors.New("down")}
	if err := New(kv, 0, 0).IncrBy(context.Background(), "k", 1); err == nil {
		t.Fatal("expected expire error")
	}
}

func TestGet(t *testing.T) {
	kv := &mockKV{values: map[string][]byte{"k": []byte("1234"), "bad": []byte("x1")}}
	s := New(kv, 0, 0)
	ctx := context.Background()

	v, err := s.Get(ctx, "k")
	if err != nil || v != 1234 {
		t.Errorf("Get(k) = %d, %v", v, err)
	}

	v, err = s.Get(ctx, "missing")
	if err != nil || v != 0 {
		t.Errorf("Get(missing) = %d, %v; want 0, nil", v, err)
	}

	if _, err := s.Get(ctx, "bad"); err == nil {
		t.Error("expected parse error")
	}

	kv.getErr = errors.New("down")
	if _, err := s.Get(ctx, "k"); err == nil {
		t.Error("expected store error")
	}
}
