package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyChunkSize     = "chunking.size"
	keyChunkOverlap  = "chunking.overlap"
	keyTopK          = "retrieval.top_k"
	keyMinDocLength  = "ingestion.min_length"
	keyScanInterval  = "watch.interval_seconds"
	keyEmbedProvider = "embedding.provider"
	keyEmbedModel    = "embedding.model"
	keyEmbedBaseURL  = "embedding.base_url"
	keyEmbedAPIKey   = "embedding.api_key"
	keyEmbedDims     = "embedding.dimensions"
	keyLLMProvider   = "llm.provider"
	keyLLMModel      = "llm.model"
	keyLLMBaseURL    = "llm.base_url"
	keyLLMAPIKey     = "llm.api_key"
)

// SettingsService reads and writes pipeline settings through a
// ConfigStore, applying domain defaults for missing keys.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves the current settings.
func (s *SettingsService) Get() (domain.Settings, error) {
	settings := domain.DefaultSettings()

	settings.ChunkSize = s.getInt(keyChunkSize, settings.ChunkSize)
	settings.ChunkOverlap = s.getInt(keyChunkOverlap, settings.ChunkOverlap)
	settings.TopK = s.getInt(keyTopK, settings.TopK)
	settings.MinDocumentLength = s.getInt(keyMinDocLength, settings.MinDocumentLength)
	if secs := s.configStore.GetInt(keyScanInterval); secs > 0 {
		settings.ScanInterval = time.Duration(secs) * time.Second
	}

	settings.Embedding.Provider = s.getProvider(keyEmbedProvider, settings.Embedding.Provider)
	settings.Embedding.Model = s.getString(keyEmbedModel, settings.Embedding.Model)
	settings.Embedding.BaseURL = s.configStore.GetString(keyEmbedBaseURL) // No default - empty is valid for cloud providers
	settings.Embedding.APIKey = s.configStore.GetString(keyEmbedAPIKey)
	settings.Embedding.Dimensions = s.configStore.GetInt(keyEmbedDims)

	settings.LLM.Provider = domain.AIProvider(s.configStore.GetString(keyLLMProvider))
	settings.LLM.Model = s.configStore.GetString(keyLLMModel)
	settings.LLM.BaseURL = s.configStore.GetString(keyLLMBaseURL)
	settings.LLM.APIKey = s.configStore.GetString(keyLLMAPIKey)

	if err := settings.Validate(); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

// Save persists the settings.
func (s *SettingsService) Save(settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	pairs := []struct {
		key   string
		value any
	}{
		{keyChunkSize, settings.ChunkSize},
		{keyChunkOverlap, settings.ChunkOverlap},
		{keyTopK, settings.TopK},
		{keyMinDocLength, settings.MinDocumentLength},
		{keyScanInterval, int(settings.ScanInterval / time.Second)},
		{keyEmbedProvider, string(settings.Embedding.Provider)},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, string(settings.LLM.Provider)},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
	}
	for _, p := range pairs {
		if err := s.configStore.Set(p.key, p.value); err != nil {
			return fmt.Errorf("save %s: %w", p.key, err)
		}
	}

	// API keys are written only when set so the config file does not
	// accumulate empty credential keys.
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyEmbedAPIKey, err)
		}
	}
	if settings.Embedding.Dimensions > 0 {
		if err := s.configStore.Set(keyEmbedDims, settings.Embedding.Dimensions); err != nil {
			return fmt.Errorf("save %s: %w", keyEmbedDims, err)
		}
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyLLMAPIKey, err)
		}
	}

	return s.configStore.Save()
}

func (s *SettingsService) getString(key, fallback string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return fallback
}

func (s *SettingsService) getInt(key string, fallback int) int {
	if v := s.configStore.GetInt(key); v > 0 {
		return v
	}
	return fallback
}

func (s *SettingsService) getProvider(key string, fallback domain.AIProvider) domain.AIProvider {
	if v := domain.AIProvider(s.configStore.GetString(key)); v.IsValid() {
		return v
	}
	return fallback
}
