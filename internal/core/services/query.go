package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driving"
	"github.com/custodia-labs/ragpipe/internal/logger"
)

// QueryOrchestrator sequences embed, retrieve, prompt build and generate for
// one query, walking the query state machine. Retrieval never fails the
// pipeline; only embedding and generation can.
type QueryOrchestrator struct {
	gateway        *EmbeddingGateway
	retriever      *ContextRetriever
	prompts        *PromptBuilder
	generator      *ResponseGenerator
	defaultCollect string
}

var _ driving.RagService = (*QueryOrchestrator)(nil)

// NewQueryOrchestrator wires the query pipeline. defaultCollection is used
// when a request names no collection.
func NewQueryOrchestrator(
	gateway *EmbeddingGateway,
	retriever *ContextRetriever,
	prompts *PromptBuilder,
	generator *ResponseGenerator,
	defaultCollection string,
) *QueryOrchestrator {
	return &QueryOrchestrator{
		gateway:        gateway,
		retriever:      retriever,
		prompts:        prompts,
		generator:      generator,
		defaultCollect: defaultCollection,
	}
}

// Query runs the full pipeline for one request.
func (o *QueryOrchestrator) Query(ctx context.Context, req domain.QueryRequest) (*domain.RagResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if req.CollectionName == "" {
		req.CollectionName = o.defaultCollect
	}
	if req.CollectionName == "" {
		return nil, fmt.Errorf("%w: missing collection name", domain.ErrInvalidInput)
	}

	requestID := uuid.NewString()
	logger.Section("Query %s", requestID)
	state := domain.QueryReceived

	state = domain.NextQueryState(state, false)
	logger.Debug("[%s] %s", requestID, state)
	vector, err := o.gateway.EmbedQuery(ctx, NormalizeQuery(req.Query))
	if err != nil {
		state = domain.NextQueryState(state, true)
		logger.Warn("[%s] %s: %v", requestID, state, err)
		return nil, err
	}

	state = domain.NextQueryState(state, false)
	logger.Debug("[%s] %s", requestID, state)
	retrieval, err := o.retriever.Retrieve(ctx, req.CollectionName, vector, req.TopK)
	if err != nil {
		return nil, err
	}

	state = domain.NextQueryState(state, false)
	logger.Debug("[%s] %s (%d chunks)", requestID, state, len(retrieval.Chunks))
	prompt := o.prompts.Build(req.Query, retrieval, req.PriorTurns)

	state = domain.NextQueryState(state, false)
	logger.Debug("[%s] %s", requestID, state)
	generated, err := o.generator.Generate(ctx, prompt, req.Options)
	if err != nil {
		state = domain.NextQueryState(state, true)
		logger.Warn("[%s] %s: %v", requestID, state, err)
		return nil, err
	}

	state = domain.NextQueryState(state, false)
	logger.Debug("[%s] %s", requestID, state)
	return &domain.RagResponse{
		Text:         generated.Text,
		Model:        generated.Model,
		Usage:        generated.Usage,
		FinishReason: generated.FinishReason,
		Retrieval:    retrieval,
	}, nil
}

// NormalizeQuery canonicalises a query for embedding: lower-cased, punctuation
// stripped, whitespace runs collapsed. The original text is what goes in the
// prompt; only the embedding input is normalised.
func NormalizeQuery(query string) string {
	var sb strings.Builder
	sb.Grow(len(query))
	space := false
	for _, r := range strings.ToLower(query) {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsPunct(r):
			// dropped
		default:
			if space && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			space = false
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
