package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ragpipe/internal/logger"
	"github.com/custodia-labs/ragpipe/internal/retry"
)

// ResponseGenerator invokes the generation backend under a per-call timeout
// and a bounded retry policy. Only transient failures are retried; malformed
// requests and auth failures propagate immediately.
type ResponseGenerator struct {
	backend     driven.GenerationBackend
	policy      *retry.Policy
	callTimeout time.Duration
	options     domain.GenerateOptions
}

// NewResponseGenerator creates a generator with the given retry settings and
// default generation options.
func NewResponseGenerator(backend driven.GenerationBackend, settings domain.RetrySettings, options domain.GenerateOptions, retryOpts ...retry.Option) *ResponseGenerator {
	return &ResponseGenerator{
		backend:     backend,
		policy:      retry.New(settings.Attempts, settings.Backoff, retryOpts...),
		callTimeout: settings.Timeout,
		options:     options,
	}
}

// Generate produces a completion for the prompt. opts overrides the
// configured generation options when non-nil.
func (g *ResponseGenerator) Generate(ctx context.Context, prompt string, opts *domain.GenerateOptions) (*domain.GenerationResult, error) {
	options := g.options
	if opts != nil {
		options = *opts
	}

	var result *domain.GenerationResult
	err := g.policy.Do(ctx, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
		defer cancel()

		out, err := g.backend.Generate(callCtx, prompt, options)
		if err != nil {
			if callCtx.Err() == context.DeadlineExceeded {
				return fmt.Errorf("%w: generation exceeded %s", domain.ErrUpstreamTimeout, g.callTimeout)
			}
			return err
		}
		result = out
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("generate with %s: %w", g.backend.ModelName(), err)
	}

	logger.Debug("Generated %d tokens (%s)", result.Usage.CompletionTokens, result.FinishReason)
	return result, nil
}

// ModelName reports the backend model.
func (g *ResponseGenerator) ModelName() string {
	return g.backend.ModelName()
}
