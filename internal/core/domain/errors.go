package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyInput indicates ingestion text is missing or below the
	// minimum useful length. The document is rejected outright.
	ErrEmptyInput = errors.New("input text too short")

	// ErrInvalidQuery indicates an empty or whitespace-only question.
	// No retrieval is attempted.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrEmbedding indicates an upstream embedding call failed
	// (timeout, malformed response, rate limit). Retryable by the
	// caller; never silently substituted with zero vectors.
	ErrEmbedding = errors.New("embedding service failure")

	// ErrRetrieval indicates an index or embedding failure during a
	// query. The orchestrator converts it into a degraded answer
	// rather than surfacing it to the transport layer.
	ErrRetrieval = errors.New("retrieval failure")

	// ErrIngestion indicates a failure while ingesting a document.
	// The whole document is rolled back; no partial chunks remain.
	ErrIngestion = errors.New("ingestion failure")

	// ErrDimensionMismatch indicates a vector's dimensionality does
	// not match the index. Fatal to the ingestion that produced it.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Neither ingestion nor retrieval can proceed.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates no LLM service is configured.
	// Answer synthesis falls back to the template strategy.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
