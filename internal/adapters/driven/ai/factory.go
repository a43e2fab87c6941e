// Package ai creates and validates the embedding and LLM service
// adapters from settings.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/docqa-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/docqa-cli/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/custodia-labs/docqa-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/docqa-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult carries the AI services wired from settings.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	Warnings         []string // Non-fatal issues that caused fallback.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Initialize creates both AI services from settings. The embedding
// service is required: a creation or connectivity failure is an
// error. The LLM is optional: failures degrade to template synthesis
// with a warning.
func Initialize(settings domain.Settings) (*InitResult, error) {
	result := &InitResult{}

	embedding, err := CreateAndValidateEmbeddingService(settings.Embedding)
	if err != nil {
		return nil, err
	}
	result.EmbeddingService = embedding

	if settings.LLM.Enabled() {
		llm, err := CreateAndValidateLLMService(settings.LLM)
		if err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("LLM unavailable, falling back to template answers: %v", err))
		} else {
			result.LLMService = llm
		}
	}

	return result, nil
}

// CreateAndValidateEmbeddingService creates an embedding service and
// validates connectivity.
func CreateAndValidateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Check 'docqa settings show'",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates
// connectivity.
func CreateAndValidateLLMService(settings domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Check 'docqa settings show'",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// CreateEmbeddingService creates the embedding service for the
// configured provider.
func CreateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(settings), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(settings)

	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider %q",
			domain.ErrEmbeddingUnavailable, settings.Provider)
	}
}

// CreateLLMService creates the LLM service for the configured
// provider. Returns nil if no provider is configured.
func CreateLLMService(settings domain.LLMSettings) (driven.LLMService, error) {
	if !settings.Enabled() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(settings), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(settings)

	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider %q",
			domain.ErrLLMUnavailable, settings.Provider)
	}
}
