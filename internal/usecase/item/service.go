package item

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/wikisearch/internal/domain"
	domitem "github.com/kailas-cloud/wikisearch/internal/domain/item"
)

// Service handles item CRUD with automatic vectorization.
type Service struct {
	repo   Repository
	embed  Embedder
	logger *zap.Logger
	now    func() time.Time
}

// New creates an item service.
func New(repo Repository, embed Embedder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, embed: embed, logger: logger, now: time.Now}
}

// Create embeds and stores a new item. The ID and the slug must both be
// unused within the collection.
func (s *Service) Create(ctx context.Context, collection string, it domitem.Item) (domitem.Item, error) {
	if _, err := s.repo.Get(ctx, collection, it.ID()); err == nil {
		return domitem.Item{}, fmt.Errorf("item %s: %w", it.ID(), domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domitem.Item{}, fmt.Errorf("get item: %w", err)
	}

	if err := s.checkSlug(ctx, collection, it.Slug(), it.ID()); err != nil {
		return domitem.Item{}, err
	}

	vec, err := s.vectorize(ctx, it)
	if err != nil {
		return domitem.Item{}, err
	}

	ts := s.now().UnixMilli()
	stored := it.WithEmbedding(vec).WithTimestamps(ts, ts)
	if _, err := s.repo.Put(ctx, collection, stored); err != nil {
		return domitem.Item{}, fmt.Errorf("put item: %w", err)
	}
	return stored, nil
}

// Update replaces the authored fields of an existing item. The embedding is
// recomputed only when the embedded text changed.
func (s *Service) Update(ctx context.Context, collection, id string, f domitem.Fields) (domitem.Item, error) {
	existing, err := s.repo.Get(ctx, collection, id)
	if err != nil {
		return domitem.Item{}, fmt.Errorf("get item: %w", err)
	}

	next, err := domitem.New(id, f)
	if err != nil {
		return domitem.Item{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	if next.Slug() != existing.Slug() {
		if err := s.checkSlug(ctx, collection, next.Slug(), id); err != nil {
			return domitem.Item{}, err
		}
	}

	vec := []float32(existing.Embedding())
	if !existing.HasEmbedding() || next.EmbeddingText() != existing.EmbeddingText() {
		vec, err = s.vectorize(ctx, next)
		if err != nil {
			return domitem.Item{}, err
		}
	}

	stored := next.WithEmbedding(vec).WithTimestamps(existing.CreatedAt(), s.now().UnixMilli())
	if _, err := s.repo.Put(ctx, collection, stored); err != nil {
		return domitem.Item{}, fmt.Errorf("put item: %w", err)
	}
	return stored, nil
}

// Get retrieves an item by ID.
func (s *Service) Get(ctx context.Context, collection, id string) (domitem.Item, error) {
	it, err := s.repo.Get(ctx, collection, id)
	if err != nil {
		return domitem.Item{}, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// GetBySlug retrieves an item by its URL slug.
func (s *Service) GetBySlug(ctx context.Context, collection, slug string) (domitem.Item, error) {
	it, err := s.repo.FindBySlug(ctx, collection, slug)
	if err != nil {
		return domitem.Item{}, fmt.Errorf("find by slug: %w", err)
	}
	return it, nil
}

// List returns all items of a collection in insertion order.
func (s *Service) List(ctx context.Context, collection string) ([]domitem.Item, error) {
	items, err := s.repo.List(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Default returns the first n items in insertion order, embedded or not.
// Serves listings shown when there is no query.
func (s *Service) Default(ctx context.Context, collection string, n int) ([]domitem.Item, error) {
	if n < 0 {
		return nil, fmt.Errorf("list size must be >= 0: %w", domain.ErrInvalidInput)
	}
	items, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	if len(items) > n {
		items = items[:n]
	}
	return items, nil
}

// Delete removes an item.
func (s *Service) Delete(ctx context.Context, collection, id string) error {
	if err := s.repo.Delete(ctx, collection, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// SeedReport summarizes a Seed run.
type SeedReport struct {
	Created int
	Skipped int
}

// Seed creates every item whose slug is not yet taken. Existing slugs are
// skipped with a warning; the first other failure stops the run.
func (s *Service) Seed(ctx context.Context, collection string, items []domitem.Item) (SeedReport, error) {
	var rep SeedReport
	for _, it := range items {
		_, err := s.repo.FindBySlug(ctx, collection, it.Slug())
		switch {
		case err == nil:
			s.logger.Warn("Item already exists, skipping",
				zap.String("collection", collection),
				zap.String("slug", it.Slug()),
			)
			rep.Skipped++
			continue
		case !errors.Is(err, domain.ErrNotFound):
			return rep, fmt.Errorf("find by slug %s: %w", it.Slug(), err)
		}

		if _, err := s.Create(ctx, collection, it); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				s.logger.Warn("Item ID taken, skipping", zap.String("id", it.ID()))
				rep.Skipped++
				continue
			}
			return rep, fmt.Errorf("seed %s: %w", it.Slug(), err)
		}
		s.logger.Info("Item seeded",
			zap.String("collection", collection),
			zap.String("slug", it.Slug()),
		)
		rep.Created++
	}
	return rep, nil
}

func (s *Service) checkSlug(ctx context.Context, collection, slug, id string) error {
	other, err := s.repo.FindBySlug(ctx, collection, slug)
	switch {
	case err == nil && other.ID() != id:
		return fmt.Errorf("slug %s: %w", slug, domain.ErrAlreadyExists)
	case err == nil, errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("find by slug: %w", err)
	}
}

func (s *Service) vectorize(ctx context.Context, it domitem.Item) ([]float32, error) {
	res, err := s.embed.Embed(ctx, it.EmbeddingText())
	if err != nil {
		return nil, fmt.Errorf("vectorize item: %w: %w", domain.ErrEmbeddingProviderError, err)
	}
	if len(res.Embedding) == 0 {
		return nil, fmt.Errorf("vectorize item: empty embedding: %w", domain.ErrEmbeddingProviderError)
	}
	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)
	return res.Embedding, nil
}
