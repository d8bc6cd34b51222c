package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Embedding provider, cache and budget metrics. Provider and model labels
// come from configuration, never from request input.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wikisearch",
			Subsystem: "embedding",
			Name:      "requests_total",
			Help:      "Provider embedding calls by outcome.",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wikisearch",
			Subsystem: "embedding",
			Name:      "request_duration_seconds",
			Help:      "Provider embedding call latency.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"provider", "model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wikisearch",
			Subsystem: "embedding",
			Name:      "tokens_total",
			Help:      "Tokens billed by the provider, split into prompt and total.",
		},
		[]string{"provider", "model", "type"},
	)

	EmbeddingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wikisearch",
			Subsystem: "embedding",
			Name:      "errors_total",
			Help:      "Failed provider calls by reason (timeout, api_error).",
		},
		[]string{"provider", "model", "error_type"},
	)

	EmbeddingBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "wikisearch",
			Subsystem: "embedding",
			Name:      "budget_tokens_remaining",
			Help:      "Tokens left in the current daily or monthly budget window.",
		},
		[]string{"provider", "period"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wikisearch",
			Subsystem: "embedding",
			Name:      "cache_total",
			Help:      "Embedding cache lookups by result (hit, miss).",
		},
		[]string{"result"},
	)

	embeddingOnce sync.Once
)

// RegisterEmbeddingMetrics registers the embedding collectors on the
// default registry. Later calls are no-ops.
func RegisterEmbeddingMetrics() {
	embeddingOnce.Do(func() {
		prometheus.MustRegister(
			EmbeddingRequestsTotal,
			EmbeddingRequestDuration,
			EmbeddingTokensTotal,
			EmbeddingErrorsTotal,
			EmbeddingBudgetTokensRemaining,
			EmbeddingCacheTotal,
		)
	})
}
