package request

import (
	"fmt"

	"github.com/kailas-cloud/wikisearch/internal/domain"
)

// SimilarRequest is a validated "more like this item" query.
type SimilarRequest struct {
	itemID string
	k      int
}

// NewSimilar validates parameters for a similar-items lookup.
func NewSimilar(itemID string, k int) (SimilarRequest, error) {
	if itemID == "" {
		return SimilarRequest{}, fmt.Errorf("%w: item id is required", domain.ErrInvalidInput)
	}
	if k < 0 {
		return SimilarRequest{}, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}
	if k == 0 {
		k = DefaultK
	}
	return SimilarRequest{itemID: itemID, k: k}, nil
}

// ItemID returns the anchor item.
func (r SimilarRequest) ItemID() string { return r.itemID }

// K returns the maximum number of results.
func (r SimilarRequest) K() int { return r.k }
