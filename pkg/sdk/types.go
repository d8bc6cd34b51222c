package wikisearch

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/wikisearch/internal/domain"
	domitem "github.com/kailas-cloud/wikisearch/internal/domain/item"
	"github.com/kailas-cloud/wikisearch/internal/domain/search/result"
)

// Item is a searchable corpus record.
// ID defaults to Slug on create. Embedding state and timestamps are
// maintained by the client and ignored on input.
type Item struct {
	ID          string
	Slug        string
	Title       string
	Description string
	Category    string
	Content     string
	Attributes  map[string]string

	HasEmbedding bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SearchResult is a single ranked hit.
type SearchResult struct {
	Item       Item
	Similarity float64
}

// SeedReport summarizes a bulk load.
type SeedReport struct {
	Created int
	Skipped int
}

func (it Item) fields() domitem.Fields {
	return domitem.Fields{
		Slug:        it.Slug,
		Title:       it.Title,
		Description: it.Description,
		Category:    it.Category,
		Content:     it.Content,
		Attributes:  it.Attributes,
	}
}

func (it Item) toDomain() (domitem.Item, error) {
	id := it.ID
	if id == "" {
		id = it.Slug
	}
	d, err := domitem.New(id, it.fields())
	if err != nil {
		return domitem.Item{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return d, nil
}

func itemFromDomain(d domitem.Item) Item {
	it := Item{
		ID:           d.ID(),
		Slug:         d.Slug(),
		Title:        d.Title(),
		Description:  d.Description(),
		Category:     d.Category(),
		Content:      d.Content(),
		Attributes:   d.Attributes(),
		HasEmbedding: d.HasEmbedding(),
	}
	if d.CreatedAt() > 0 {
		it.CreatedAt = time.UnixMilli(d.CreatedAt()).UTC()
	}
	if d.UpdatedAt() > 0 {
		it.UpdatedAt = time.UnixMilli(d.UpdatedAt()).UTC()
	}
	return it
}

func itemsFromDomain(ds []domitem.Item) []Item {
	out := make([]Item, 0, len(ds))
	for _, d := range ds {
		out = append(out, itemFromDomain(d))
	}
	return out
}

func resultsFromDomain(rs []result.Result) []SearchResult {
	out := make([]SearchResult, 0, len(rs))
	for _, r := range rs {
		out = append(out, SearchResult{Item: itemFromDomain(r.Item()), Similarity: r.Similarity()})
	}
	return out
}
