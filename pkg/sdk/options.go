package wikisearch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/wikisearch/internal/config"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	app config.Config

	storeSet bool
	openai   bool
	embedder Embedder

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

func (c *clientConfig) store(driver string, addrs []string, password, dsn string) {
	c.storeSet = true
	c.app.Database.Driver = driver
	c.app.Database.Addrs = addrs
	c.app.Database.Password = password
	c.app.Database.DSN = dsn
}

// WithSQLite stores items in an embedded SQLite database at path.
// ":memory:" keeps everything in process memory.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.store("sqlite", nil, "", path)
	})
}

// WithPostgres stores items in PostgreSQL.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.store("postgres", nil, "", dsn)
	})
}

// WithRedis stores items in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.store("redis", []string{addr}, password, "")
	})
}

// WithValkey stores items in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.store("valkey", []string{addr}, password, "")
	})
}

// WithKeyPrefix namespaces every key the client writes. Default: "wikisearch:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.app.Database.KeyPrefix = prefix
	})
}

// WithEmbedder sets the text embedding provider.
// Without an embedder items can be read but not created or searched.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithOpenAI embeds through an OpenAI-compatible API.
// Empty baseURL and model keep the provider defaults.
func WithOpenAI(apiKey, baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openai = true
		c.app.Embedding.APIKey = apiKey
		c.app.Embedding.BaseURL = baseURL
		c.app.Embedding.Model = model
	})
}

// WithInstructions prefixes document and query texts before embedding.
func WithInstructions(document, query string) Option {
	return optionFunc(func(c *clientConfig) {
		c.app.Embedding.DocumentInstruction = document
		c.app.Embedding.QueryInstruction = query
	})
}

// WithEmbeddingCache caches embeddings in the store for ttl.
// Zero means entries never expire; a negative ttl disables the cache.
func WithEmbeddingCache(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		if ttl < 0 {
			c.app.Embedding.CacheTTLSec = -1
			return
		}
		c.app.Embedding.CacheTTLSec = int(ttl / time.Second)
	})
}

// WithTokenBudget limits embedding tokens per UTC day and month.
// Zero limits are unlimited. reject=false only logs when over budget.
func WithTokenBudget(daily, monthly int64, reject bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.app.Embedding.Budget.DailyTokenLimit = daily
		c.app.Embedding.Budget.MonthlyTokenLimit = monthly
		c.app.Embedding.Budget.Action = "warn"
		if reject {
			c.app.Embedding.Budget.Action = "reject"
		}
	})
}

// WithParallelism scores corpora of at least threshold items on workers
// goroutines. Default: 2048 items, GOMAXPROCS workers.
func WithParallelism(threshold, workers int) Option {
	return optionFunc(func(c *clientConfig) {
		c.app.Search.ParallelThreshold = threshold
		c.app.Search.Workers = workers
	})
}

// WithLogger enables structured logging for SDK operations and the
// services underneath. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
