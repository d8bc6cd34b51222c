package item

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/wikisearch/internal/db"
	"github.com/kailas-cloud/wikisearch/internal/domain"
	domitem "github.com/kailas-cloud/wikisearch/internal/domain/item"
	"github.com/kailas-cloud/wikisearch/internal/domain/vector"
)

// store is the consumer interface for item documents (ISP).
type store interface {
	PutDocument(ctx context.Context, collection, id string, data []byte) (bool, error)
	GetDocument(ctx context.Context, collection, id string) ([]byte, error)
	DeleteDocument(ctx context.Context, collection, id string) error
	ListDocuments(ctx context.Context, collection string) ([]db.Document, error)
}

// Repo implements usecase/item.Repository and usecase/search.CorpusReader.
type Repo struct {
	store store
}

// New creates an item repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Put creates or replaces an item. Returns true if created.
func (r *Repo) Put(ctx context.Context, collection string, it domitem.Item) (bool, error) {
	data, err := json.Marshal(toJSON(it))
	if err != nil {
		return false, fmt.Errorf("marshal item: %w", err)
	}
	created, err := r.store.PutDocument(ctx, collection, it.ID(), data)
	if err != nil {
		return false, fmt.Errorf("put item %s/%s: %w", collection, it.ID(), err)
	}
	return created, nil
}

// Get returns an item by ID.
func (r *Repo) Get(ctx context.Context, collection, id string) (domitem.Item, error) {
	raw, err := r.store.GetDocument(ctx, collection, id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domitem.Item{}, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
		}
		return domitem.Item{}, fmt.Errorf("get item %s/%s: %w", collection, id, err)
	}
	return decode(id, raw)
}

// FindBySlug scans the collection for an item with the given slug.
func (r *Repo) FindBySlug(ctx context.Context, collection, slug string) (domitem.Item, error) {
	items, err := r.List(ctx, collection)
	if err != nil {
		return domitem.Item{}, err
	}
	for _, it := range items {
		if it.Slug() == slug {
			return it, nil
		}
	}
	return domitem.Item{}, fmt.Errorf("slug %s: %w", slug, domain.ErrNotFound)
}

// List returns every item of a collection in insertion order.
func (r *Repo) List(ctx context.Context, collection string) ([]domitem.Item, error) {
	docs, err := r.store.ListDocuments(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("list items %s: %w", collection, err)
	}
	items := make([]domitem.Item, 0, len(docs))
	for _, d := range docs {
		it, err := decode(d.ID, d.Data)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// Delete removes an item.
func (r *Repo) Delete(ctx context.Context, collection, id string) error {
	if err := r.store.DeleteDocument(ctx, collection, id); err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("delete item %s/%s: %w", collection, id, err)
	}
	return nil
}

type jsonItem struct {
	ID          string            `json:"id"`
	Slug        string            `json:"slug"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Category    string            `json:"category,omitempty"`
	Content     string            `json:"content,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Embedding   []float32         `json:"embedding,omitempty"`
	CreatedAt   int64             `json:"created_at"`
	UpdatedAt   int64             `json:"updated_at"`
}

func toJSON(it domitem.Item) jsonItem {
	f := it.Fields()
	return jsonItem{
		ID:          it.ID(),
		Slug:        f.Slug,
		Title:       f.Title,
		Description: f.Description,
		Category:    f.Category,
		Content:     f.Content,
		Attributes:  f.Attributes,
		Embedding:   it.Embedding(),
		CreatedAt:   it.CreatedAt(),
		UpdatedAt:   it.UpdatedAt(),
	}
}

func decode(id string, raw []byte) (domitem.Item, error) {
	var j jsonItem
	if err := json.Unmarshal(raw, &j); err != nil {
		return domitem.Item{}, fmt.Errorf("unmarshal item %s: %w", id, err)
	}
	if j.ID == "" {
		j.ID = id
	}
	f := domitem.Fields{
		Slug:        j.Slug,
		Title:       j.Title,
		Description: j.Description,
		Category:    j.Category,
		Content:     j.Content,
		Attributes:  j.Attributes,
	}
	return domitem.Reconstruct(j.ID, f, vector.New(j.Embedding), j.CreatedAt, j.UpdatedAt), nil
}
