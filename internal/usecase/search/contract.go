package search

import (
	"context"

	"github.com/kailas-cloud/wikisearch/internal/domain"
	"github.com/kailas-cloud/wikisearch/internal/domain/item"
)

// CorpusReader supplies read-only snapshots of a collection.
type CorpusReader interface {
	List(ctx context.Context, collection string) ([]item.Item, error)
	Get(ctx context.Context, collection, id string) (item.Item, error)
}

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
