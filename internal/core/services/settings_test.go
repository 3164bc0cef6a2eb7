package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragpipe/internal/adapters/driven/config/memory"
	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

func TestSettingsService_GetDefaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, 32, settings.Embedding.BatchSize)
	assert.Equal(t, 5, settings.Retrieval.TopK)
	assert.Equal(t, 0.45, settings.Retrieval.SimilarityFloor)
	assert.Equal(t, 3, settings.Retry.Attempts)
	assert.Equal(t, 30*time.Second, settings.Retry.Timeout)
	assert.Equal(t, "documents", settings.DefaultCollection)
	assert.Equal(t, 4, settings.ConversationWindow)
	assert.Empty(t, settings.PromptTemplate)
}

func TestSettingsService_GetOverrides(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("retrieval.similarity_floor", 0.7))
	require.NoError(t, store.Set("retrieval.top_k", int64(10)))
	require.NoError(t, store.Set("retry.timeout", "5s"))
	require.NoError(t, store.Set("prompt.template", "Q={query}"))
	svc := NewSettingsService(store)

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, 0.7, settings.Retrieval.SimilarityFloor)
	assert.Equal(t, 10, settings.Retrieval.TopK)
	assert.Equal(t, 5*time.Second, settings.Retry.Timeout)
	assert.Equal(t, "Q={query}", settings.PromptTemplate)
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store)

	require.NoError(t, svc.SetEmbeddingProvider(domain.AIProviderOllama, "", ""))

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
}

func TestSettingsService_SetEmbeddingProvider_RequiresKey(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	err := svc.SetEmbeddingProvider(domain.AIProviderOpenAI, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	require.NoError(t, svc.SetEmbeddingProvider(domain.AIProviderOpenAI, "", "sk-test"))
	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", settings.Embedding.APIKey)
	assert.Equal(t, "text-embedding-3-small", settings.Embedding.Model)
}

func TestSettingsService_SetEmbeddingProvider_RejectsGenerationOnly(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	err := svc.SetEmbeddingProvider(domain.AIProviderGemini, "", "key")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	err = svc.SetEmbeddingProvider(domain.AIProviderAnthropic, "", "key")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestSettingsService_SetGenerationProvider(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	require.NoError(t, svc.SetGenerationProvider(domain.AIProviderGemini, "", "g-key"))

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderGemini, settings.Generation.Provider)
	assert.Equal(t, "gemini-2.0-flash", settings.Generation.Model)
	assert.Equal(t, "g-key", settings.Generation.APIKey)
}

func TestSettingsService_Validate(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	// Nothing configured yet.
	assert.ErrorIs(t, svc.Validate(), domain.ErrInvalidConfig)

	require.NoError(t, svc.SetEmbeddingProvider(domain.AIProviderOllama, "", ""))
	assert.ErrorIs(t, svc.Validate(), domain.ErrInvalidConfig)

	require.NoError(t, svc.SetGenerationProvider(domain.AIProviderOllama, "", ""))
	assert.NoError(t, svc.Validate())
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store)

	settings, err := svc.Get()
	require.NoError(t, err)
	settings.Embedding.Provider = domain.AIProviderOllama
	settings.Embedding.Model = "all-minilm"
	settings.Generation.Provider = domain.AIProviderOllama
	settings.Generation.Model = "llama3.2"
	settings.Retrieval.SimilarityFloor = 0.6
	settings.Retry.Backoff = 250 * time.Millisecond
	require.NoError(t, svc.Save(settings))

	got, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "all-minilm", got.Embedding.Model)
	assert.Equal(t, 0.6, got.Retrieval.SimilarityFloor)
	assert.Equal(t, 250*time.Millisecond, got.Retry.Backoff)
}
