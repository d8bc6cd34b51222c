package search

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/wikisearch/internal/domain"
	"github.com/kailas-cloud/wikisearch/internal/domain/item"
	"github.com/kailas-cloud/wikisearch/internal/domain/search/request"
	"github.com/kailas-cloud/wikisearch/internal/domain/search/result"
	"github.com/kailas-cloud/wikisearch/internal/domain/vector"
	"github.com/kailas-cloud/wikisearch/internal/metrics"
)

// DefaultParallelThreshold is the corpus size from which scoring fans out.
const DefaultParallelThreshold = 2048

// Service answers semantic searches over a collection.
type Service struct {
	corpus    CorpusReader
	embed     Embedder
	logger    *zap.Logger
	threshold int
	workers   int
}

// New creates a search service.
func New(corpus CorpusReader, embed Embedder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		corpus:    corpus,
		embed:     embed,
		logger:    logger,
		threshold: DefaultParallelThreshold,
		workers:   runtime.GOMAXPROCS(0),
	}
}

// WithParallelism overrides when and how wide scoring fans out.
// threshold <= 0 or workers <= 1 keeps scoring sequential.
func (s *Service) WithParallelism(threshold, workers int) *Service {
	s.threshold = threshold
	s.workers = workers
	return s
}

// Search embeds the query and ranks the current snapshot of the collection.
func (s *Service) Search(ctx context.Context, collection string, req request.Request) ([]result.Result, error) {
	start := time.Now()
	defer func() { metrics.SearchDuration.Observe(time.Since(start).Seconds()) }()

	corpus, err := s.corpus.List(ctx, collection)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load corpus %s: %w", collection, err)
	}

	results, err := s.Rank(ctx, req.Query(), corpus, req.K())
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Search completed",
		zap.String("collection", collection),
		zap.Int("corpus", len(corpus)),
		zap.Int("k", req.K()),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// Rank scores the given corpus against the query text and returns the top k.
// k == 0 falls back to the default. The corpus is not modified.
func (s *Service) Rank(ctx context.Context, query string, corpus []item.Item, k int) ([]result.Result, error) {
	req, err := request.New(query, k)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	emb, err := s.embed.Embed(ctx, req.Query())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("embedding_error").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingProviderError, err)
	}
	if u := domain.UsageFromContext(ctx); u != nil {
		u.AddTokens(emb.TotalTokens)
	}

	qv := vector.New(emb.Embedding)
	if qv.Dim() == 0 {
		metrics.SearchRequestsTotal.WithLabelValues("embedding_error").Inc()
		return nil, fmt.Errorf("%w: empty query embedding", domain.ErrEmbeddingProviderError)
	}

	results := s.rankVector(qv, corpus, req.K(), "")
	metrics.SearchRequestsTotal.WithLabelValues("ok").Inc()
	return results, nil
}

// Similar ranks a collection against the embedding of one of its items.
// The anchor item itself is excluded from the results.
func (s *Service) Similar(ctx context.Context, collection string, req request.SimilarRequest) ([]result.Result, error) {
	anchor, err := s.corpus.Get(ctx, collection, req.ItemID())
	if err != nil {
		return nil, fmt.Errorf("get anchor item: %w", err)
	}
	if !anchor.HasEmbedding() {
		return nil, fmt.Errorf("item %s has no embedding: %w", req.ItemID(), domain.ErrInvalidInput)
	}

	corpus, err := s.corpus.List(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("load corpus %s: %w", collection, err)
	}

	return s.rankVector(anchor.Embedding(), corpus, req.K(), anchor.ID()), nil
}

func (s *Service) rankVector(qv vector.Vector, corpus []item.Item, k int, excludeID string) []result.Result {
	metrics.SearchCorpusSize.Observe(float64(len(corpus)))

	scores := scoreCorpus(qv, corpus, s.workers, s.threshold)
	for i := range scores {
		if excludeID != "" && corpus[i].ID() == excludeID {
			scores[i] = scored{skip: skipAnchor}
			continue
		}
		if scores[i].skip == skipNone {
			continue
		}
		metrics.SearchItemsSkippedTotal.WithLabelValues(string(scores[i].skip)).Inc()
		s.logger.Debug("Item skipped",
			zap.String("id", corpus[i].ID()),
			zap.String("reason", string(scores[i].skip)),
		)
	}

	return rankScored(corpus, scores, k)
}
