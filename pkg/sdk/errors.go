package kbsearch

import "github.com/kailas-cloud/kbsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrConfiguration        = domain.ErrConfiguration
	ErrInvalidRequest       = domain.ErrInvalidRequest
	ErrCanceled             = domain.ErrCanceled
	ErrKeywordQuery         = domain.ErrKeywordQuery
	ErrEmbeddingUnavailable = domain.ErrEmbeddingUnavailable
)
