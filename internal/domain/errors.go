package domain

import "errors"

var (
	// ErrEmptyInput signals an empty or whitespace-only query.
	ErrEmptyInput = errors.New("empty input")
	// ErrCollectionNotFound signals a missing vector collection.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrCollectionExists signals a duplicate collection creation.
	ErrCollectionExists = errors.New("collection already exists")
	// ErrBackendUnavailable signals an unreachable retrieval backend.
	ErrBackendUnavailable = errors.New("retrieval backend unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationProviderError signals a generation provider failure.
	ErrGenerationProviderError = errors.New("generation provider error")
	// ErrResourceExhausted signals provider resource exhaustion (quota, OOM).
	// The orchestrator maps it to a user-safe degraded message.
	ErrResourceExhausted = errors.New("generation resources exhausted")
)
