package wikisearch

import (
	"context"
	"fmt"
	"time"

	domitem "github.com/kailas-cloud/wikisearch/internal/domain/item"
)

// ItemService manages the items of one collection.
type ItemService struct {
	collection string
	svc        itemUseCase
	obs        *observer
}

// Create embeds and stores a new item. Slugs are unique per collection.
func (s *ItemService) Create(ctx context.Context, it Item) (_ Item, err error) {
	start := time.Now()
	defer func() { s.obs.observe("item.create", start, err) }()

	d, err := it.toDomain()
	if err != nil {
		return Item{}, err
	}
	created, err := s.svc.Create(ctx, s.collection, d)
	if err != nil {
		return Item{}, fmt.Errorf("create item %s: %w", d.ID(), err)
	}
	return itemFromDomain(created), nil
}

// Update replaces the authored fields of an item and re-embeds it.
func (s *ItemService) Update(ctx context.Context, id string, it Item) (_ Item, err error) {
	start := time.Now()
	defer func() { s.obs.observe("item.update", start, err) }()

	updated, err := s.svc.Update(ctx, s.collection, id, it.fields())
	if err != nil {
		return Item{}, fmt.Errorf("update item %s: %w", id, err)
	}
	return itemFromDomain(updated), nil
}

// Get returns an item by ID.
func (s *ItemService) Get(ctx context.Context, id string) (_ Item, err error) {
	start := time.Now()
	defer func() { s.obs.observe("item.get", start, err) }()

	d, err := s.svc.Get(ctx, s.collection, id)
	if err != nil {
		return Item{}, fmt.Errorf("get item %s: %w", id, err)
	}
	return itemFromDomain(d), nil
}

// GetBySlug returns an item by slug.
func (s *ItemService) GetBySlug(ctx context.Context, slug string) (_ Item, err error) {
	start := time.Now()
	defer func() { s.obs.observe("item.get_by_slug", start, err) }()

	d, err := s.svc.GetBySlug(ctx, s.collection, slug)
	if err != nil {
		return Item{}, fmt.Errorf("get item by slug %s: %w", slug, err)
	}
	return itemFromDomain(d), nil
}

// List returns every item in insertion order.
func (s *ItemService) List(ctx context.Context) (_ []Item, err error) {
	start := time.Now()
	defer func() { s.obs.observe("item.list", start, err) }()

	ds, err := s.svc.List(ctx, s.collection)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return itemsFromDomain(ds), nil
}

// Default returns the first n items in insertion order, the list shown
// before the user has typed a query.
func (s *ItemService) Default(ctx context.Context, n int) (_ []Item, err error) {
	start := time.Now()
	defer func() { s.obs.observe("item.default", start, err) }()

	ds, err := s.svc.Default(ctx, s.collection, n)
	if err != nil {
		return nil, fmt.Errorf("default items: %w", err)
	}
	return itemsFromDomain(ds), nil
}

// Delete removes an item by ID.
func (s *ItemService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("item.delete", start, err) }()

	if err = s.svc.Delete(ctx, s.collection, id); err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	return nil
}

// Seed creates every item whose slug is not taken yet and skips the rest.
// Invalid items abort the run before anything is written.
func (s *ItemService) Seed(ctx context.Context, items []Item) (_ SeedReport, err error) {
	start := time.Now()
	defer func() { s.obs.observe("item.seed", start, err) }()

	ds := make([]domitem.Item, 0, len(items))
	for i, it := range items {
		d, err := it.toDomain()
		if err != nil {
			return SeedReport{}, fmt.Errorf("item %d (%s): %w", i, it.Slug, err)
		}
		ds = append(ds, d)
	}

	rep, err := s.svc.Seed(ctx, s.collection, ds)
	out := SeedReport{Created: rep.Created, Skipped: rep.Skipped}
	if err != nil {
		return out, fmt.Errorf("seed: %w", err)
	}
	return out, nil
}
