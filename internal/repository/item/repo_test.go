package item

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/wikisearch/internal/db"
	"github.com/kailas-cloud/wikisearch/internal/domain"
	domitem "github.com/kailas-cloud/wikisearch/internal/domain/item"
	"github.com/kailas-cloud/wikisearch/internal/domain/vector"
)

// memStore is an insertion-ordered in-memory document store.
type memStore struct {
	order []string
	docs  map[string][]byte
	err   error
}

func newMemStore() *memStore { return &memStore{docs: map[string][]byte{}} }

func (m *memStore) PutDocument(_ context.Context, c, id string, data []byte) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	k := c + "/" + id
	_, ok := m.docs[k]
	if !ok {
		m.order = append(m.order, k)
	}
	m.docs[k] = data
	return !ok, nil
}

func (m *memStore) GetDocument(_ context.Context, c, id string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	d, ok := m.docs[c+"/"+id]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return d, nil
}

func (m *memStore) DeleteDocument(_ context.Context, c, id string) error {
	k := c + "/" + id
	if _, ok := m.docs[k]; !ok {
		return &db.Error{Op: db.OpDelDoc, Err: db.ErrKeyNotFound}
	}
	delete(m.docs, k)
	for i, o := range m.order {
		if o == k {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memStore) ListDocuments(_ context.Context, c string) ([]db.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []db.Document{}
	for _, k := range m.order {
		if len(k) > len(c) && k[:len(c)+1] == c+"/" {
			out = append(out, db.Document{ID: k[len(c)+1:], Data: m.docs[k]})
		}
	}
	return out, nil
}

func mustItem(t *testing.T, id, slug string) domitem.Item {
	t.Helper()
	it, err := domitem.New(id, domitem.Fields{
		Slug:       slug,
		Title:      "Title " + id,
		Category:   "Guides",
		Attributes: map[string]string{"main": "design"},
	})
	if err != nil {
		t.Fatalf("new item: %v", err)
	}
	return it
}

func TestPutGet_RoundTrip(t *testing.T) {
	r := New(newMemStore())
	ctx := context.Background()

	it := mustItem(t, "g1", "first-guide").
		WithEmbedding(vector.Vector{0.5, 0.25}).
		WithTimestamps(100, 200)

	created, err := r.Put(ctx, "guides", it)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if !created {
		t.Error("expected created=true")
	}

	got, err := r.Get(ctx, "guides", "g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Slug() != "first-guide" || got.Category() != "Guides" {
		t.Errorf("fields lost: %+v", got.Fields())
	}
	if got.Attributes()["main"] != "design" {
		t.Errorf("attributes lost: %v", got.Attributes())
	}
	if got.Embedding().Dim() != 2 || got.Embedding()[1] != 0.25 {
		t.Errorf("embedding lost: %v", got.Embedding())
	}
	if got.CreatedAt() != 100 || got.UpdatedAt() != 200 {
		t.Errorf("timestamps = %d/%d", got.CreatedAt(), got.UpdatedAt())
	}

	created, err = r.Put(ctx, "guides", it)
	if err != nil {
		t.Fatalf("second put: %v", err)
	}
	if created {
		t.Error("expected created=false on replace")
	}
}

func TestGet_WithoutEmbedding(t *testing.T) {
	r := New(newMemStore())
	ctx := context.Background()
	if _, err := r.Put(ctx, "c", mustItem(t, "p1", "project")); err != nil {
		t.Fatal(err)
	}
	got, err := r.Get(ctx, "c", "p1")
	if err != nil {
		t.Fatal(err)
	}
	if got.HasEmbedding() {
		t.Error("expected no embedding")
	}
}

func TestGet_NotFound(t *testing.T) {
	_, err := New(newMemStore()).Get(context.Background(), "c", "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_StoreError(t *testing.T) {
	s := newMemStore()
	s.err = errors.New("conn refused")
	_, err := New(s).Get(context.Background(), "c", "x")
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected raw store error, got %v", err)
	}
}

func TestGet_CorruptDocument(t *testing.T) {
	s := newMemStore()
	s.docs["c/x"] = []byte("{not json")
	s.order = []string{"c/x"}
	if _, err := New(s).Get(context.Background(), "c", "x"); err == nil {
		t.Fatal("expected unmarshal error")
	}
}

func TestList_InsertionOrder(t *testing.T) {
	r := New(newMemStore())
	ctx := context.Background()
	for _, id := range []string{"b", "a", "c"} {
		if _, err := r.Put(ctx, "c", mustItem(t, id, "slug-"+id)); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := r.Put(ctx, "other", mustItem(t, "z", "slug-z")); err != nil {
		t.Fatal(err)
	}

	items, err := r.List(ctx, "c")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, want := range []string{"b", "a", "c"} {
		if items[i].ID() != want {
			t.Errorf("items[%d] = %s, want %s", i, items[i].ID(), want)
		}
	}
}

func TestList_Empty(t *testing.T) {
	items, err := New(newMemStore()).List(context.Background(), "none")
	if err != nil {
		t.Fatal(err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", items)
	}
}

func TestFindBySlug(t *testing.T) {
	r := New(newMemStore())
	ctx := context.Background()
	_, _ = r.Put(ctx, "c", mustItem(t, "a", "alpha"))
	_, _ = r.Put(ctx, "c", mustItem(t, "b", "beta"))

	got, err := r.FindBySlug(ctx, "c", "beta")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID() != "b" {
		t.Errorf("got %s, want b", got.ID())
	}

	if _, err := r.FindBySlug(ctx, "c", "gamma"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	r := New(newMemStore())
	ctx := context.Background()
	_, _ = r.Put(ctx, "c", mustItem(t, "a", "alpha"))

	if err := r.Delete(ctx, "c", "a"); err != nil {
		t.Fatal(err)
	}
	if err := r.Delete(ctx, "c", "a"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
