package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderGemini is the Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderGemini, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderGemini || p == AIProviderAnthropic
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderGemini:
		return "Gemini (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible APIs).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// BatchSize bounds how many chunk texts are embedded per backend call.
	BatchSize int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// GenerationSettings holds generation backend configuration.
type GenerationSettings struct {
	// Provider is the generation backend provider.
	Provider AIProvider

	// Model is the generation model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible APIs).
	BaseURL string

	// APIKey is the API key (for OpenAI/Gemini).
	APIKey string

	// Options are the default generation options.
	Options GenerateOptions
}

// IsConfigured returns true if the generation backend is set up.
func (g GenerationSettings) IsConfigured() bool {
	if !g.Provider.IsValid() {
		return false
	}
	if g.Provider.RequiresAPIKey() && g.APIKey == "" {
		return false
	}
	return true
}

// RetrievalSettings holds context retrieval configuration.
type RetrievalSettings struct {
	// TopK is the nearest-neighbour candidate count requested before
	// filtering.
	TopK int

	// SimilarityFloor is the minimum similarity score a match must reach to
	// be used as context.
	SimilarityFloor float64
}

// RetrySettings holds the bounded retry policy for upstream calls.
type RetrySettings struct {
	// Attempts is the total number of tries (first call included).
	Attempts int

	// Backoff is the base delay between tries, doubled after each failure.
	Backoff time.Duration

	// Timeout bounds each individual upstream call.
	Timeout time.Duration
}

// AppSettings holds all pipeline configuration. It is assembled once at
// startup and threaded through constructors; nothing mutates it afterwards.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// Generation holds generation backend settings.
	Generation GenerationSettings

	// Retrieval holds top-K and similarity floor settings.
	Retrieval RetrievalSettings

	// Retry holds the upstream retry policy.
	Retry RetrySettings

	// VectorBaseURL is the vector index endpoint.
	VectorBaseURL string

	// DefaultCollection is the collection used when a request names none.
	DefaultCollection string

	// ConversationWindow is the number of prior user turns kept per session.
	ConversationWindow int

	// MaxConcurrentIngests caps in-flight ingestions across one process.
	MaxConcurrentIngests int

	// PromptTemplate overrides the built-in prompt template when non-empty.
	PromptTemplate string
}

// DefaultAppSettings returns settings with sensible defaults.
// AI providers are left unconfigured; users set them up via `ragpipe settings`.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			BatchSize: 32,
		},
		Generation: GenerationSettings{
			Options: GenerateOptions{
				Temperature: 0.7,
				MaxTokens:   1024,
				TopP:        0.95,
				TopK:        40,
			},
		},
		Retrieval: RetrievalSettings{
			TopK:            5,
			SimilarityFloor: 0.45,
		},
		Retry: RetrySettings{
			Attempts: 3,
			Backoff:  500 * time.Millisecond,
			Timeout:  30 * time.Second,
		},
		VectorBaseURL:        "http://localhost:6333",
		DefaultCollection:    "documents",
		ConversationWindow:   DefaultConversationWindow,
		MaxConcurrentIngests: 4,
	}
}

// AllEmbeddingProviders returns the providers usable for embeddings, in
// display order. Gemini and Anthropic are excluded; they are generation-only
// here.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI}
}

// AllGenerationProviders returns the providers usable for generation, in
// display order.
func AllGenerationProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderGemini, AIProviderAnthropic}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultGenerationModels returns default models for each generation provider.
func DefaultGenerationModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderGemini:    "gemini-2.0-flash",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}
