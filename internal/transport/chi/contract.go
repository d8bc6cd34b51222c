package chi

import (
	"context"

	"github.com/kailas-cloud/wikisearch/internal/domain"
	domitem "github.com/kailas-cloud/wikisearch/internal/domain/item"
	"github.com/kailas-cloud/wikisearch/internal/domain/search/request"
	"github.com/kailas-cloud/wikisearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/wikisearch/internal/usecase/health"
	usageuc "github.com/kailas-cloud/wikisearch/internal/usecase/usage"
)

// SearchService ranks collection items against a query or an anchor item.
type SearchService interface {
	Search(ctx context.Context, collection string, req request.Request) ([]result.Result, error)
	Similar(ctx context.Context, collection string, req request.SimilarRequest) ([]result.Result, error)
}

// ItemService manages corpus items.
type ItemService interface {
	Create(ctx context.Context, collection string, it domitem.Item) (domitem.Item, error)
	Update(ctx context.Context, collection, id string, f domitem.Fields) (domitem.Item, error)
	Get(ctx context.Context, collection, id string) (domitem.Item, error)
	GetBySlug(ctx context.Context, collection, slug string) (domitem.Item, error)
	List(ctx context.Context, collection string) ([]domitem.Item, error)
	Default(ctx context.Context, collection string, n int) ([]domitem.Item, error)
	Delete(ctx context.Context, collection, id string) error
}

// Embedder backs the raw embedding endpoint.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// HealthService aggregates dependency probes.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// UsageService reports embedding token consumption.
type UsageService interface {
	GetReport(ctx context.Context, period usageuc.Period) usageuc.Report
}
