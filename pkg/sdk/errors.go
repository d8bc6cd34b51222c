package wikisearch

import "github.com/kailas-cloud/wikisearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound               = domain.ErrNotFound
	ErrAlreadyExists          = domain.ErrAlreadyExists
	ErrInvalidInput           = domain.ErrInvalidInput
	ErrMissingQuery           = domain.ErrMissingQuery
	ErrEmbeddingQuotaExceeded = domain.ErrEmbeddingQuotaExceeded
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)
