package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyEmbedBatchSize    = "embedding.batch_size"
	keyGenProvider       = "generation.provider"
	keyGenModel          = "generation.model"
	keyGenBaseURL        = "generation.base_url"
	keyGenAPIKey         = "generation.api_key"
	keyGenTemperature    = "generation.temperature"
	keyGenMaxTokens      = "generation.max_tokens"
	keyGenTopP           = "generation.top_p"
	keyGenTopK           = "generation.top_k"
	keyRetrievalTopK     = "retrieval.top_k"
	keyRetrievalFloor    = "retrieval.similarity_floor"
	keyRetryAttempts     = "retry.attempts"
	keyRetryBackoff      = "retry.backoff"
	keyRetryTimeout      = "retry.timeout"
	keyVectorBaseURL     = "vector.base_url"
	keyDefaultCollection = "ingest.default_collection"
	keyConversationSize  = "chat.conversation_window"
	keyMaxIngests        = "ingest.max_concurrent"
	keyPromptTemplate    = "prompt.template"
)

// SettingsService manages pipeline settings backed by the config store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings, falling back to defaults for unset keys.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:  s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:     s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:   s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:    s.configStore.GetString(keyEmbedAPIKey),
			BatchSize: s.getInt(keyEmbedBatchSize, defaults.Embedding.BatchSize),
		},
		Generation: domain.GenerationSettings{
			Provider: s.getProvider(keyGenProvider, defaults.Generation.Provider),
			Model:    s.getString(keyGenModel, defaults.Generation.Model),
			BaseURL:  s.configStore.GetString(keyGenBaseURL),
			APIKey:   s.configStore.GetString(keyGenAPIKey),
			Options: domain.GenerateOptions{
				Temperature: s.getFloat(keyGenTemperature, defaults.Generation.Options.Temperature),
				MaxTokens:   s.getInt(keyGenMaxTokens, defaults.Generation.Options.MaxTokens),
				TopP:        s.getFloat(keyGenTopP, defaults.Generation.Options.TopP),
				TopK:        s.getInt(keyGenTopK, defaults.Generation.Options.TopK),
			},
		},
		Retrieval: domain.RetrievalSettings{
			TopK:            s.getInt(keyRetrievalTopK, defaults.Retrieval.TopK),
			SimilarityFloor: s.getFloat(keyRetrievalFloor, defaults.Retrieval.SimilarityFloor),
		},
		Retry: domain.RetrySettings{
			Attempts: s.getInt(keyRetryAttempts, defaults.Retry.Attempts),
			Backoff:  s.getDuration(keyRetryBackoff, defaults.Retry.Backoff),
			Timeout:  s.getDuration(keyRetryTimeout, defaults.Retry.Timeout),
		},
		VectorBaseURL:        s.getString(keyVectorBaseURL, defaults.VectorBaseURL),
		DefaultCollection:    s.getString(keyDefaultCollection, defaults.DefaultCollection),
		ConversationWindow:   s.getInt(keyConversationSize, defaults.ConversationWindow),
		MaxConcurrentIngests: s.getInt(keyMaxIngests, defaults.MaxConcurrentIngests),
		PromptTemplate:       s.configStore.GetString(keyPromptTemplate),
	}

	return settings, nil
}

// Save persists settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	pairs := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedBatchSize, settings.Embedding.BatchSize},
		{keyGenProvider, settings.Generation.Provider.String()},
		{keyGenModel, settings.Generation.Model},
		{keyGenBaseURL, settings.Generation.BaseURL},
		{keyGenTemperature, settings.Generation.Options.Temperature},
		{keyGenMaxTokens, settings.Generation.Options.MaxTokens},
		{keyGenTopP, settings.Generation.Options.TopP},
		{keyGenTopK, settings.Generation.Options.TopK},
		{keyRetrievalTopK, settings.Retrieval.TopK},
		{keyRetrievalFloor, settings.Retrieval.SimilarityFloor},
		{keyRetryAttempts, settings.Retry.Attempts},
		{keyRetryBackoff, settings.Retry.Backoff.String()},
		{keyRetryTimeout, settings.Retry.Timeout.String()},
		{keyVectorBaseURL, settings.VectorBaseURL},
		{keyDefaultCollection, settings.DefaultCollection},
		{keyConversationSize, settings.ConversationWindow},
		{keyMaxIngests, settings.MaxConcurrentIngests},
		{keyPromptTemplate, settings.PromptTemplate},
	}
	for _, p := range pairs {
		if err := s.configStore.Set(p.key, p.value); err != nil {
			return fmt.Errorf("save %s: %w", p.key, err)
		}
	}

	// API keys are only written when set, so a partial update cannot wipe them.
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyEmbedAPIKey, err)
		}
	}
	if settings.Generation.APIKey != "" {
		if err := s.configStore.Set(keyGenAPIKey, settings.Generation.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyGenAPIKey, err)
		}
	}
	return nil
}

// SetEmbeddingProvider configures the embedding provider. An empty model
// selects the provider default.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidConfig, provider)
	}
	if provider == domain.AIProviderGemini || provider == domain.AIProviderAnthropic {
		return fmt.Errorf("%w: provider %s offers no embedding API here; use ollama or openai", domain.ErrInvalidConfig, provider)
	}
	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}
	if provider.RequiresAPIKey() && apiKey == "" && s.configStore.GetString(keyEmbedAPIKey) == "" {
		return fmt.Errorf("%w: provider %s requires an API key", domain.ErrInvalidConfig, provider)
	}

	if err := s.configStore.Set(keyEmbedProvider, provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if apiKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, apiKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	return nil
}

// SetGenerationProvider configures the generation backend. An empty model
// selects the provider default.
func (s *SettingsService) SetGenerationProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidConfig, provider)
	}
	if model == "" {
		model = domain.DefaultGenerationModels()[provider]
	}
	if provider.RequiresAPIKey() && apiKey == "" && s.configStore.GetString(keyGenAPIKey) == "" {
		return fmt.Errorf("%w: provider %s requires an API key", domain.ErrInvalidConfig, provider)
	}

	if err := s.configStore.Set(keyGenProvider, provider.String()); err != nil {
		return fmt.Errorf("save generation provider: %w", err)
	}
	if err := s.configStore.Set(keyGenModel, model); err != nil {
		return fmt.Errorf("save generation model: %w", err)
	}
	if apiKey != "" {
		if err := s.configStore.Set(keyGenAPIKey, apiKey); err != nil {
			return fmt.Errorf("save generation api_key: %w", err)
		}
	}
	return nil
}

// Validate checks that the configured providers are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider not configured", domain.ErrInvalidConfig)
	}
	if !settings.Generation.IsConfigured() {
		return fmt.Errorf("%w: generation backend not configured", domain.ErrInvalidConfig)
	}
	return nil
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if val := s.configStore.GetInt(key); val != 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if val := s.configStore.GetFloat(key); val != 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	str := s.configStore.GetString(key)
	if str == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(str)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	str := s.configStore.GetString(key)
	if str == "" {
		return defaultVal
	}
	provider := domain.AIProvider(str)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
