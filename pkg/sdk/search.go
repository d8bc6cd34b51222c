package wikisearch

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/wikisearch/internal/domain/search/request"
)

// SearchService ranks the items of one collection.
type SearchService struct {
	collection string
	svc        searchUseCase
	obs        *observer
}

// Query returns up to k items ordered by descending cosine similarity to
// the query text. k == 0 means the default of 5.
func (s *SearchService) Query(ctx context.Context, query string, k int) (_ []SearchResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search.query", start, err) }()

	req, err := request.New(query, k)
	if err != nil {
		return nil, err
	}
	rs, err := s.svc.Search(ctx, s.collection, req)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.collection, err)
	}
	return resultsFromDomain(rs), nil
}

// Similar returns up to k items closest to the stored item id, excluding it.
func (s *SearchService) Similar(ctx context.Context, id string, k int) (_ []SearchResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search.similar", start, err) }()

	req, err := request.NewSimilar(id, k)
	if err != nil {
		return nil, err
	}
	rs, err := s.svc.Similar(ctx, s.collection, req)
	if err != nil {
		return nil, fmt.Errorf("similar to %s: %w", id, err)
	}
	return resultsFromDomain(rs), nil
}
