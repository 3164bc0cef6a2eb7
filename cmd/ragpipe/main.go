// Package main is the ragpipe CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/ragpipe/internal/adapters/driven/blob/filesystem"
	"github.com/custodia-labs/ragpipe/internal/adapters/driven/config/file"
	ollamaembed "github.com/custodia-labs/ragpipe/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/ragpipe/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/ragpipe/internal/adapters/driven/llm/anthropic"
	"github.com/custodia-labs/ragpipe/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/ragpipe/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/ragpipe/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/ragpipe/internal/adapters/driven/registry/sqlite"
	"github.com/custodia-labs/ragpipe/internal/adapters/driven/vector/qdrant"
	"github.com/custodia-labs/ragpipe/internal/adapters/driving/cli"
	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ragpipe/internal/core/services"
	"github.com/custodia-labs/ragpipe/internal/logger"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	settingsSvc := services.NewSettingsService(configStore)
	settings, err := settingsSvc.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	registry, err := sqlite.NewRegistry("")
	if err != nil {
		return fmt.Errorf("opening document registry: %w", err)
	}
	defer registry.Close() //nolint:errcheck

	index := qdrant.NewIndex(qdrant.Config{BaseURL: settings.VectorBaseURL})
	defer index.Close() //nolint:errcheck

	// Documents are addressed relative to the working directory.
	docRoot, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}
	blobs := filesystem.NewBlobStore(docRoot)

	wired := &cli.Services{Settings: settingsSvc}

	// Provider-backed services are wired only when their providers are
	// configured; commands that need them report that otherwise.
	embedder, err := buildEmbedder(settings)
	if err != nil {
		logger.Warn("embedding provider unavailable: %v", err)
	}
	backend, err := buildBackend(settings)
	if err != nil {
		logger.Warn("generation backend unavailable: %v", err)
	}

	if embedder != nil {
		defer embedder.Close() //nolint:errcheck

		gateway := services.NewEmbeddingGateway(embedder, index, settings.Embedding.BatchSize, settings.Retry)
		tracker := services.NewDocumentTracker(registry)
		wired.Ingest = services.NewIngestionOrchestrator(blobs, tracker, gateway, *settings)

		if backend != nil {
			retriever := services.NewContextRetriever(index, settings.Retrieval.TopK, settings.Retrieval.SimilarityFloor)
			prompts := services.NewPromptBuilder(resolveTemplate(settings))
			generator := services.NewResponseGenerator(backend, settings.Retry, settings.Generation.Options)
			wired.Rag = services.NewQueryOrchestrator(gateway, retriever, prompts, generator, settings.DefaultCollection)
		}
	}
	if embedder != nil && backend != nil {
		wired.Admin = services.NewAdminOrchestrator(embedder, index, backend, registry)
	}

	cli.SetServices(wired)
	cli.SetDocumentRoot(docRoot)
	cli.SetVersion(version)
	return cli.Execute()
}

// resolveTemplate picks the prompt template: an explicit settings override
// wins, otherwise the user-editable prompt file, otherwise the built-in.
func resolveTemplate(settings *domain.AppSettings) string {
	if settings.PromptTemplate != "" {
		return settings.PromptTemplate
	}
	store, err := file.NewPromptStore("")
	if err != nil {
		return ""
	}
	template, err := store.Load(driven.PromptRagAnswer)
	if err != nil {
		return ""
	}
	return template
}

func buildEmbedder(settings *domain.AppSettings) (driven.EmbeddingService, error) {
	cfg := settings.Embedding
	switch cfg.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil
	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	default:
		return nil, fmt.Errorf("no embedding provider configured; run 'ragpipe settings embedding'")
	}
}

func buildBackend(settings *domain.AppSettings) (driven.GenerationBackend, error) {
	cfg := settings.Generation
	switch cfg.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewBackend(ollamallm.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil
	case domain.AIProviderOpenAI:
		return openaillm.NewBackend(openaillm.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case domain.AIProviderGemini:
		return gemini.NewBackend(gemini.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case domain.AIProviderAnthropic:
		return anthropic.NewBackend(anthropic.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	default:
		return nil, fmt.Errorf("no generation backend configured; run 'ragpipe settings generation'")
	}
}
