package driving

import (
	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

// SettingsService manages pipeline configuration.
type SettingsService interface {
	// Get retrieves the current settings, defaults applied.
	Get() (*domain.AppSettings, error)

	// Save persists settings.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetGenerationProvider configures the generation backend.
	SetGenerationProvider(provider domain.AIProvider, model, apiKey string) error

	// Validate checks that the configured providers are usable.
	Validate() error
}
