package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/wikisearch/internal/domain"
)

// Search parameter limits.
const (
	// DefaultK is the number of results returned when the caller does not ask for a specific count.
	DefaultK = 5
	// MaxQueryLength is the maximum accepted query length in bytes.
	MaxQueryLength = 4096
)

// Request is a validated semantic search query.
type Request struct {
	query string
	k     int
}

// New validates search parameters. k == 0 means DefaultK; k has no upper bound.
func New(query string, k int) (Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, domain.ErrMissingQuery
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d bytes)", domain.ErrInvalidInput, MaxQueryLength)
	}
	if k < 0 {
		return Request{}, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}
	if k == 0 {
		k = DefaultK
	}
	return Request{query: query, k: k}, nil
}

// Query returns the trimmed query text.
func (r Request) Query() string { return r.query }

// K returns the maximum number of results.
func (r Request) K() int { return r.k }
