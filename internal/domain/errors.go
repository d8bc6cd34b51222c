package domain

import "errors"

var (
	// ErrNotFound signals a missing item or collection entry.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate slug within a collection.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput signals malformed caller input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMissingQuery signals an empty or whitespace-only search query.
	ErrMissingQuery = errors.New("missing query")

	// ErrEmbeddingQuotaExceeded signals an exhausted embedding budget.
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
	// ErrEmbeddingProviderError signals an embedding provider failure or timeout.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
