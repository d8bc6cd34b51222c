package search

import (
	"errors"
	"sort"
	"sync"

	"github.com/kailas-cloud/wikisearch/internal/domain/item"
	"github.com/kailas-cloud/wikisearch/internal/domain/search/result"
	"github.com/kailas-cloud/wikisearch/internal/domain/vector"
)

// skipReason explains why a corpus item was left out of scoring.
type skipReason string

const (
	skipNone         skipReason = ""
	skipNoEmbedding  skipReason = "no_embedding"
	skipDimension    skipReason = "dimension_mismatch"
	skipDegenerate   skipReason = "degenerate_vector"
	skipAnchor       skipReason = "anchor"
	minParallelChunk            = 256
)

// scored is the outcome of scoring a single corpus position.
type scored struct {
	similarity float64
	skip       skipReason
}

// scoreOne applies the data-quality filters and the scorer to one item.
func scoreOne(query vector.Vector, it item.Item) scored {
	if !it.HasEmbedding() {
		return scored{skip: skipNoEmbedding}
	}
	emb := it.Embedding()
	if emb.Dim() != query.Dim() {
		return scored{skip: skipDimension}
	}
	sim, err := vector.Cosine(query, emb)
	if err != nil {
		if errors.Is(err, vector.ErrDegenerateVector) {
			return scored{skip: skipDegenerate}
		}
		// dimensions were checked above, so this is unreachable in practice
		return scored{skip: skipDimension}
	}
	return scored{similarity: sim}
}

// scoreCorpus scores every item. Each index is written by exactly one goroutine,
// so the parallel path needs no locking beyond the WaitGroup.
func scoreCorpus(query vector.Vector, corpus []item.Item, workers, threshold int) []scored {
	out := make([]scored, len(corpus))

	if workers <= 1 || threshold <= 0 || len(corpus) < threshold {
		for i := range corpus {
			out[i] = scoreOne(query, corpus[i])
		}
		return out
	}

	chunk := (len(corpus) + workers - 1) / workers
	if chunk < minParallelChunk {
		chunk = minParallelChunk
	}

	var wg sync.WaitGroup
	for start := 0; start < len(corpus); start += chunk {
		end := start + chunk
		if end > len(corpus) {
			end = len(corpus)
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				out[i] = scoreOne(query, corpus[i])
			}
		}(start, end)
	}
	wg.Wait()

	return out
}

// rankScored orders scorable items by similarity descending, keeping corpus
// order for ties, and keeps at most k.
func rankScored(corpus []item.Item, scores []scored, k int) []result.Result {
	ranked := make([]result.Result, 0, len(corpus))
	for i := range corpus {
		if scores[i].skip != skipNone {
			continue
		}
		ranked = append(ranked, result.New(corpus[i], scores[i].similarity))
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Similarity() > ranked[b].Similarity()
	})

	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
