package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ragpipe/internal/logger"
	"github.com/custodia-labs/ragpipe/internal/retry"
)

// EmbeddingGateway batches chunk embedding and commits vectors to the index
// as a single unit. Either every chunk of a document ends up stored or none
// does, so a half-embedded document can never satisfy a dedup check.
// Transient embedding failures are retried under the bounded policy.
type EmbeddingGateway struct {
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	batchSize int
	policy    *retry.Policy
}

// NewEmbeddingGateway creates a gateway with the given batch size and retry
// settings. A batchSize below 1 falls back to the default.
func NewEmbeddingGateway(
	embedder driven.EmbeddingService, index driven.VectorIndex, batchSize int,
	settings domain.RetrySettings, retryOpts ...retry.Option,
) *EmbeddingGateway {
	if batchSize < 1 {
		batchSize = domain.DefaultAppSettings().Embedding.BatchSize
	}
	return &EmbeddingGateway{
		embedder:  embedder,
		index:     index,
		batchSize: batchSize,
		policy:    retry.New(settings.Attempts, settings.Backoff, retryOpts...),
	}
}

// ModelName reports the embedding model behind the gateway.
func (g *EmbeddingGateway) ModelName() string {
	return g.embedder.ModelName()
}

// EmbedAndStore embeds all chunks in batches and upserts the vectors into
// the collection in one call. Vectors from completed batches are held in
// memory until every batch has succeeded; any failure discards them all.
func (g *EmbeddingGateway) EmbedAndStore(
	ctx context.Context, collection string, chunks []domain.Chunk, metadata map[string]any,
) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	if err := g.index.EnsureCollection(ctx, collection, g.embedder.Dimensions()); err != nil {
		return 0, fmt.Errorf("ensure collection %s: %w", collection, err)
	}

	items := make([]driven.VectorItem, 0, len(chunks))
	for start := 0; start < len(chunks); start += g.batchSize {
		end := start + g.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Content
		}

		var vectors [][]float32
		err := g.policy.Do(ctx, func(ctx context.Context) error {
			var embedErr error
			vectors, embedErr = g.embedder.EmbedBatch(ctx, texts)
			return embedErr
		})
		if err != nil {
			return 0, fmt.Errorf("embed batch %d-%d: %w", start, end, err)
		}
		if len(vectors) != len(batch) {
			return 0, fmt.Errorf("%w: embed batch returned %d vectors for %d texts",
				domain.ErrUpstreamFailure, len(vectors), len(batch))
		}

		for i, chunk := range batch {
			items = append(items, driven.VectorItem{
				ID:       chunk.ID,
				Vector:   vectors[i],
				Text:     chunk.Content,
				Metadata: payloadFor(chunk, metadata),
			})
		}
		logger.Debug("Embedded batch %d-%d of %d chunks", start, end, len(chunks))
	}

	stored, err := g.index.Upsert(ctx, collection, items)
	if err != nil {
		return 0, fmt.Errorf("store %d vectors in %s: %w", len(items), collection, err)
	}
	return stored, nil
}

// EmbedQuery embeds a single query string, retrying transient failures.
func (g *EmbeddingGateway) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	var vector []float32
	err := g.policy.Do(ctx, func(ctx context.Context) error {
		var embedErr error
		vector, embedErr = g.embedder.Embed(ctx, query)
		return embedErr
	})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return vector, nil
}

func payloadFor(chunk domain.Chunk, metadata map[string]any) map[string]any {
	payload := map[string]any{
		"document_id": chunk.DocumentID,
		"seq":         chunk.Seq,
	}
	for k, v := range chunk.Metadata {
		payload[k] = v
	}
	for k, v := range metadata {
		payload[k] = v
	}
	return payload
}
