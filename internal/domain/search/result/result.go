package result

import "github.com/kailas-cloud/wikisearch/internal/domain/item"

// Result is a corpus item paired with its similarity to the query.
// Results are computed per request and never persisted.
type Result struct {
	item       item.Item
	similarity float64
}

// New creates a scored item.
func New(it item.Item, similarity float64) Result {
	return Result{item: it, similarity: similarity}
}

// Item returns the scored corpus item with all of its fields.
func (r Result) Item() item.Item { return r.item }

// Similarity returns the cosine similarity in [-1, 1].
func (r Result) Similarity() float64 { return r.similarity }
