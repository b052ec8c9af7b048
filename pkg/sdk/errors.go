package itemsearch

import "github.com/kailas-cloud/itemsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRequest         = domain.ErrInvalidRequest
	ErrEngineUnavailable      = domain.ErrEngineUnavailable
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)
