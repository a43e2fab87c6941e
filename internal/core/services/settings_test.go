package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

func TestSettingsService_GetReturnsDefaultsOnEmptyStore(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestSettingsService_GetReadsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("chunking.size", 800))
	require.NoError(t, store.Set("retrieval.top_k", 10))
	require.NoError(t, store.Set("watch.interval_seconds", 60))
	require.NoError(t, store.Set("embedding.provider", "openai"))
	require.NoError(t, store.Set("embedding.api_key", "sk-test"))
	require.NoError(t, store.Set("embedding.model", "text-embedding-3-small"))

	svc := NewSettingsService(store)
	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, 800, settings.ChunkSize)
	assert.Equal(t, 10, settings.TopK)
	assert.Equal(t, time.Minute, settings.ScanInterval)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-small", settings.Embedding.Model)
	// Unset keys keep their defaults
	assert.Equal(t, domain.DefaultChunkOverlap, settings.ChunkOverlap)
}

func TestSettingsService_GetIgnoresUnknownProvider(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("embedding.provider", "cohere"))

	svc := NewSettingsService(store)
	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
}

func TestSettingsService_SaveRoundTrips(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store)

	in := domain.DefaultSettings()
	in.ChunkSize = 500
	in.TopK = 3
	in.ScanInterval = 2 * time.Minute
	in.LLM = domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "llama3"}
	require.NoError(t, svc.Save(in))

	out, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, 500, out.ChunkSize)
	assert.Equal(t, 3, out.TopK)
	assert.Equal(t, 2*time.Minute, out.ScanInterval)
	assert.Equal(t, domain.AIProviderOllama, out.LLM.Provider)
	assert.Equal(t, "llama3", out.LLM.Model)
}

func TestSettingsService_SaveRejectsInvalidSettings(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	in := domain.DefaultSettings()
	in.Embedding.Provider = "cohere"

	assert.ErrorIs(t, svc.Save(in), domain.ErrEmbeddingUnavailable)
}

func TestSettingsService_SaveSkipsEmptyCredentials(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store)

	require.NoError(t, svc.Save(domain.DefaultSettings()))

	_, ok := store.Get("embedding.api_key")
	assert.False(t, ok)
	_, ok = store.Get("llm.api_key")
	assert.False(t, ok)
}
