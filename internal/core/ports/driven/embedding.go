package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// It is the gateway to the external embedding model; retrieval and
// ingestion are both disabled without it.
//
// Guarantees required of implementations: output order matches input
// order, and every vector has the same fixed dimensionality. Upstream
// failures are returned as errors - never as substitute zero vectors,
// which would corrupt similarity search.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
//   - Local models via inference servers
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	// Used on the query path, one call per question.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// Used at ingestion to amortise per-call overhead across chunks.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 768, 1536).
	// This is determined by the model and must match the index contents.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
