package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wikisearch",
			Name:      "search_requests_total",
			Help:      "Total number of semantic search requests",
		},
		[]string{"status"}, // "ok" / "invalid" / "embedding_error" / "error"
	)

	SearchItemsSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wikisearch",
			Name:      "search_items_skipped_total",
			Help:      "Corpus items left out of scoring",
		},
		[]string{"reason"},
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "wikisearch",
			Name:      "search_duration_seconds",
			Help:      "Semantic search duration in seconds, embedding included",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	SearchCorpusSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "wikisearch",
			Name:      "search_corpus_items",
			Help:      "Number of corpus items considered per search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		},
	)
)

var searchOnce sync.Once

// RegisterSearchMetrics registers the search collectors on the default
// registry. Later calls are no-ops.
func RegisterSearchMetrics() {
	searchOnce.Do(func() {
		prometheus.MustRegister(SearchRequestsTotal, SearchItemsSkippedTotal, SearchDuration, SearchCorpusSize)
	})
}
