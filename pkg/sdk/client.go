package wikisearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/wikisearch/internal/app"
	"github.com/kailas-cloud/wikisearch/internal/db"
	"github.com/kailas-cloud/wikisearch/internal/domain"
	domitem "github.com/kailas-cloud/wikisearch/internal/domain/item"
	"github.com/kailas-cloud/wikisearch/internal/domain/search/request"
	"github.com/kailas-cloud/wikisearch/internal/domain/search/result"
	itemuc "github.com/kailas-cloud/wikisearch/internal/usecase/item"
)

// Internal interfaces, swapped for mocks in tests.
type itemUseCase interface {
	Create(ctx context.Context, collection string, it domitem.Item) (domitem.Item, error)
	Update(ctx context.Context, collection, id string, f domitem.Fields) (domitem.Item, error)
	Get(ctx context.Context, collection, id string) (domitem.Item, error)
	GetBySlug(ctx context.Context, collection, slug string) (domitem.Item, error)
	List(ctx context.Context, collection string) ([]domitem.Item, error)
	Default(ctx context.Context, collection string, n int) ([]domitem.Item, error)
	Delete(ctx context.Context, collection, id string) error
	Seed(ctx context.Context, collection string, items []domitem.Item) (itemuc.SeedReport, error)
}

type searchUseCase interface {
	Search(ctx context.Context, collection string, req request.Request) ([]result.Result, error)
	Similar(ctx context.Context, collection string, req request.SimilarRequest) ([]result.Result, error)
}

// Client is the wikisearch SDK entry point.
type Client struct {
	store     db.Store
	itemSvc   itemUseCase
	searchSvc searchUseCase
	healthSvc healthUseCase
	usageSvc  usageUseCase
	obs       *observer
}

// New creates a Client, opens the configured store and waits until it answers.
// The provided context bounds the readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	if !cfg.storeSet {
		return nil, errors.New("wikisearch: storage required (use WithSQLite, WithPostgres, WithRedis or WithValkey)")
	}

	cfg.app.ApplyDefaults()
	if err := cfg.app.Validate(); err != nil {
		return nil, fmt.Errorf("wikisearch: %w", err)
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := app.Open(ctx, cfg.app, logger)
	if err != nil {
		return nil, fmt.Errorf("wikisearch: %w", err)
	}

	a := app.New(ctx, cfg.app, store, baseEmbedder(cfg), logger)
	return &Client{
		store:     store,
		itemSvc:   a.Items,
		searchSvc: a.Search,
		healthSvc: a.Health,
		usageSvc:  a.Usage,
		obs:       obs,
	}, nil
}

// baseEmbedder picks the provider handed to the app. nil selects the
// OpenAI-compatible client configured by WithOpenAI.
func baseEmbedder(cfg *clientConfig) domain.Embedder {
	switch {
	case cfg.embedder != nil:
		return &embedderAdapter{inner: cfg.embedder}
	case cfg.openai:
		return nil
	default:
		return noopEmbedder{}
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Items returns the item service for a collection.
func (c *Client) Items(collection string) *ItemService {
	return &ItemService{collection: collection, svc: c.itemSvc, obs: c.obs}
}

// Search returns the search service for a collection.
func (c *Client) Search(collection string) *SearchService {
	return &SearchService{collection: collection, svc: c.searchSvc, obs: c.obs}
}
