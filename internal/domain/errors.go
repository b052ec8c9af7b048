package domain

import (
	"errors"
)

var (
	// ErrItemNotFound signals a missing or hidden item.
	ErrItemNotFound = errors.New("item not found")
	// ErrInvalidRequest signals malformed request parameters.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrEngineUnavailable signals a failed search engine call.
	ErrEngineUnavailable = errors.New("search engine unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrSemanticDisabled signals a semantic operation without a configured model.
	ErrSemanticDisabled = errors.New("semantic search disabled")
)
