package driven

import (
	"context"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

// GenerationBackend invokes a text-generation model.
//
// Implementations may include:
//   - OpenAI (GPT-4o family)
//   - Google Gemini
//   - Anthropic (Claude family)
//   - Ollama (local models)
//
// Implementations classify failures with the domain sentinels: timeouts wrap
// domain.ErrUpstreamTimeout, 5xx-class responses wrap
// domain.ErrUpstreamUnavailable, everything else is non-transient.
type GenerationBackend interface {
	// Generate produces a completion for the prompt.
	Generate(ctx context.Context, prompt string, opts domain.GenerateOptions) (*domain.GenerationResult, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
