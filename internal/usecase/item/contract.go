package item

import (
	"context"

	"github.com/kailas-cloud/wikisearch/internal/domain"
	domitem "github.com/kailas-cloud/wikisearch/internal/domain/item"
)

// Repository defines the storage contract for corpus items.
type Repository interface {
	Put(ctx context.Context, collection string, it domitem.Item) (created bool, err error)
	Get(ctx context.Context, collection, id string) (domitem.Item, error)
	FindBySlug(ctx context.Context, collection, slug string) (domitem.Item, error)
	List(ctx context.Context, collection string) ([]domitem.Item, error)
	Delete(ctx context.Context, collection, id string) error
}

// Embedder vectorizes item text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
