package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ragpipe/internal/logger"
)

// ContextRetriever fetches nearest-neighbour chunks for a query vector and
// filters them to the similarity floor. Retrieval is best-effort: a timed-out
// or unreachable index degrades to an empty result so the query can still be
// answered without context.
type ContextRetriever struct {
	index driven.VectorIndex
	topK  int
	floor float64
}

// NewContextRetriever creates a retriever with the given defaults.
func NewContextRetriever(index driven.VectorIndex, topK int, floor float64) *ContextRetriever {
	defaults := domain.DefaultAppSettings().Retrieval
	if topK < 1 {
		topK = defaults.TopK
	}
	if floor < 0 || floor > 1 {
		floor = defaults.SimilarityFloor
	}
	return &ContextRetriever{
		index: index,
		topK:  topK,
		floor: floor,
	}
}

// Retrieve returns the chunks scoring at or above the floor, ranked by
// descending similarity. topK overrides the configured candidate count when
// positive. Transient index failures return an empty result, never an error;
// only non-transient failures propagate.
func (r *ContextRetriever) Retrieve(
	ctx context.Context, collection string, vector []float32, topK int,
) (domain.RetrievalResult, error) {
	if topK < 1 {
		topK = r.topK
	}
	result := domain.RetrievalResult{Floor: r.floor}

	hits, err := r.index.Query(ctx, collection, vector, topK)
	if err != nil {
		if domain.Transient(err) || errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("Retrieval degraded, continuing without context: %v", err)
			return result, nil
		}
		return result, fmt.Errorf("query collection %s: %w", collection, err)
	}

	for _, hit := range hits {
		if hit.Score < r.floor {
			continue
		}
		result.Chunks = append(result.Chunks, domain.RetrievedChunk{
			ChunkID:  hit.ChunkID,
			Text:     hit.Text,
			Score:    hit.Score,
			Metadata: hit.Metadata,
		})
	}

	// The index already ranks results, but the contract is ours to keep.
	sort.SliceStable(result.Chunks, func(i, j int) bool {
		return result.Chunks[i].Score > result.Chunks[j].Score
	})

	logger.Debug("Retrieved %d/%d chunks above floor %.2f", len(result.Chunks), len(hits), r.floor)
	return result, nil
}
