// Package app wires configuration into stores, embedders and services.
// Both the API server and the seed command build on it.
package app

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/wikisearch/internal/config"
	"github.com/kailas-cloud/wikisearch/internal/db"
	"github.com/kailas-cloud/wikisearch/internal/db/driver"
	"github.com/kailas-cloud/wikisearch/internal/domain"
	"github.com/kailas-cloud/wikisearch/internal/metrics"
	budgetrepo "github.com/kailas-cloud/wikisearch/internal/repository/budget"
	"github.com/kailas-cloud/wikisearch/internal/repository/embcache"
	itemrepo "github.com/kailas-cloud/wikisearch/internal/repository/item"
	chiTransport "github.com/kailas-cloud/wikisearch/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/wikisearch/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/wikisearch/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/wikisearch/internal/usecase/health"
	itemuc "github.com/kailas-cloud/wikisearch/internal/usecase/item"
	searchuc "github.com/kailas-cloud/wikisearch/internal/usecase/search"
	usageuc "github.com/kailas-cloud/wikisearch/internal/usecase/usage"
)

// App holds the wired services.
type App struct {
	Store         db.Store
	Items         *itemuc.Service
	Search        *searchuc.Service
	Health        *healthuc.Service
	Usage         *usageuc.Service
	DocEmbedder   domain.Embedder
	QueryEmbedder domain.Embedder
	Budget        *embeddinguc.BudgetTracker
}

// Open connects to the configured store and waits until it answers.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (db.Store, error) {
	store, err := driver.Open(ctx, driver.Config{
		Driver:    cfg.Database.Driver,
		Addrs:     cfg.Database.Addrs,
		Password:  cfg.Database.Password,
		DSN:       cfg.Database.DSN,
		KeyPrefix: cfg.Database.KeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
	return store, nil
}

// New builds services on top of an open store. base overrides the embedding
// provider; nil means the OpenAI-compatible client from cfg.
func New(ctx context.Context, cfg config.Config, store db.Store, base domain.Embedder, logger *zap.Logger) *App {
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	emb := cfg.Embedding
	if base == nil {
		base = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     emb.APIKey,
			BaseURL:    emb.BaseURL,
			Model:      emb.Model,
			Dimensions: emb.Dimensions,
			Provider:   emb.Provider,
			Timeout:    emb.Timeout(),
			Logger:     logger,
		})
	}

	// Single tracker shared by both embedder chains.
	var budget *embeddinguc.BudgetTracker
	if emb.Budget.Enabled() {
		action := embeddinguc.BudgetActionWarn
		if emb.Budget.Action == string(embeddinguc.BudgetActionReject) {
			action = embeddinguc.BudgetActionReject
		}
		budget = embeddinguc.NewBudgetTracker(embeddinguc.BudgetConfig{
			Provider:     emb.Provider,
			DailyLimit:   emb.Budget.DailyTokenLimit,
			MonthlyLimit: emb.Budget.MonthlyTokenLimit,
			Action:       action,
			KeyPrefix:    cfg.Database.KeyPrefix,
		}, logger)
		budget.WithStore(ctx, budgetrepo.New(store, budgetrepo.DefaultDailyTTL, budgetrepo.DefaultMonthlyTTL))
	}

	// A typed nil pointer inside the interface would pass the != nil check.
	var budgetChecker embeddinguc.BudgetChecker
	var budgetReader usageuc.BudgetReader
	if budget != nil {
		budgetChecker = budget
		budgetReader = budget
	}

	docEmbedder := buildEmbedder(cfg, base, emb.DocumentInstruction, store, budgetChecker, logger)
	queryEmbedder := buildEmbedder(cfg, base, emb.QueryInstruction, store, budgetChecker, logger)
	logger.Info("Embedders created",
		zap.String("provider", emb.Provider),
		zap.String("model", emb.Model),
		zap.Int("dimensions", emb.Dimensions),
		zap.Bool("cache", emb.CacheEnabled()),
		zap.Bool("budget", budget != nil),
	)

	items := itemrepo.New(store)

	workers := cfg.Search.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &App{
		Store:         store,
		Items:         itemuc.New(items, docEmbedder, logger),
		Search:        searchuc.New(items, queryEmbedder, logger).WithParallelism(cfg.Search.ParallelThreshold, workers),
		Health:        healthuc.New(store, newEmbeddingHealthChecker(docEmbedder)),
		Usage:         usageuc.New(budgetReader),
		DocEmbedder:   docEmbedder,
		QueryEmbedder: queryEmbedder,
		Budget:        budget,
	}
}

// Server builds the HTTP API over the app services.
func (a *App) Server(cfg config.Config, logger *zap.Logger) *chiTransport.Server {
	return chiTransport.NewServer(a.Search, a.Items, a.DocEmbedder, a.Health, chiTransport.Options{
		DefaultCollection: cfg.Search.DefaultCollection,
		DefaultK:          cfg.Search.DefaultK,
		DefaultListSize:   cfg.Search.DefaultListSize,
		MaxQueryLength:    cfg.Search.MaxQueryLength,
		APIKeys:           cfg.Auth.APIKeys,
	}, logger).WithUsage(a.Usage)
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// buildEmbedder assembles the decorator chain: provider -> cache -> instrumented -> instruction.
// The instruction is outermost so it takes part in the cache key.
func buildEmbedder(
	cfg config.Config,
	base domain.Embedder,
	instruction string,
	store db.Store,
	budget embeddinguc.BudgetChecker,
	logger *zap.Logger,
) domain.Embedder {
	emb := cfg.Embedding

	embedder := base
	if store != nil && emb.CacheEnabled() {
		embedder = embcache.New(base, store, embcache.Options{
			KeyPrefix: cfg.Database.KeyPrefix,
			Model:     emb.Model,
			TTL:       emb.CacheTTL(),
		}, metrics.EmbeddingCacheTotal, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, emb.Provider, emb.Model, budget, logger)

	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}
	return embedder
}
