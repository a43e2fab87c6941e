package domain

import (
	"fmt"
	"time"
)

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// EmbeddingSettings configures the embedding gateway.
type EmbeddingSettings struct {
	// Provider selects the embedding backend.
	Provider AIProvider

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// APIKey authenticates cloud providers.
	APIKey string

	// Model is the embedding model name.
	Model string

	// Dimensions is the embedding vector size. Zero means the
	// provider's model default.
	Dimensions int

	// Timeout bounds each embedding call.
	Timeout time.Duration
}

// Validate checks the embedding settings for consistency.
func (s *EmbeddingSettings) Validate() error {
	if !s.Provider.IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q", ErrEmbeddingUnavailable, s.Provider)
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return fmt.Errorf("%w: provider %s requires an API key", ErrEmbeddingUnavailable, s.Provider)
	}
	return nil
}

// LLMSettings configures the optional generative answer strategy.
// An empty Provider disables the LLM path; synthesis then uses the
// template strategy.
type LLMSettings struct {
	// Provider selects the LLM backend, empty to disable.
	Provider AIProvider

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// APIKey authenticates cloud providers.
	APIKey string

	// Model is the LLM model name.
	Model string

	// Timeout bounds each generation call.
	Timeout time.Duration
}

// Enabled returns true if a generative strategy is configured.
func (s *LLMSettings) Enabled() bool {
	return s.Provider != ""
}

// Default pipeline tuning values.
const (
	// DefaultChunkSize is the target chunk budget in characters.
	DefaultChunkSize = 600

	// DefaultChunkOverlap is the trailing slice repeated across
	// chunk boundaries, in characters.
	DefaultChunkOverlap = 90

	// DefaultTopK is the number of candidates fetched per query.
	DefaultTopK = 5

	// DefaultMinDocumentLength is the minimum useful ingestion text.
	DefaultMinDocumentLength = 20

	// DefaultScanInterval is how often the watch directory is rescanned.
	DefaultScanInterval = 5 * time.Minute
)

// Settings aggregates the tunable pipeline configuration.
type Settings struct {
	// ChunkSize is the chunk character budget.
	ChunkSize int

	// ChunkOverlap is the cross-boundary overlap in characters.
	ChunkOverlap int

	// TopK is the retrieval candidate count per query.
	TopK int

	// MinDocumentLength rejects trivially short ingestion text.
	MinDocumentLength int

	// ScanInterval is the watch directory rescan period.
	ScanInterval time.Duration

	// Embedding configures the embedding gateway.
	Embedding EmbeddingSettings

	// LLM configures the optional generative synthesis strategy.
	LLM LLMSettings
}

// DefaultSettings returns settings with all defaults applied.
// Embedding defaults to a local Ollama instance so a fresh install
// works without cloud credentials.
func DefaultSettings() Settings {
	return Settings{
		ChunkSize:         DefaultChunkSize,
		ChunkOverlap:      DefaultChunkOverlap,
		TopK:              DefaultTopK,
		MinDocumentLength: DefaultMinDocumentLength,
		ScanInterval:      DefaultScanInterval,
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
		},
	}
}

// Validate checks the settings for consistency, normalising
// recoverable problems to defaults.
func (s *Settings) Validate() error {
	if s.ChunkSize <= 0 {
		s.ChunkSize = DefaultChunkSize
	}
	if s.ChunkOverlap < 0 {
		s.ChunkOverlap = DefaultChunkOverlap
	}
	if s.ChunkOverlap >= s.ChunkSize {
		s.ChunkOverlap = s.ChunkSize / 4
	}
	if s.TopK <= 0 {
		s.TopK = DefaultTopK
	}
	if s.MinDocumentLength <= 0 {
		s.MinDocumentLength = DefaultMinDocumentLength
	}
	if s.ScanInterval <= 0 {
		s.ScanInterval = DefaultScanInterval
	}
	if err := s.Embedding.Validate(); err != nil {
		return err
	}
	if s.LLM.Enabled() && !s.LLM.Provider.IsValid() {
		return fmt.Errorf("%w: unknown LLM provider %q", ErrLLMUnavailable, s.LLM.Provider)
	}
	return nil
}
