package driven

import "context"

// VectorItem is one vector plus payload to store in the index.
type VectorItem struct {
	// ID is the chunk identifier.
	ID string

	// Vector is the embedding.
	Vector []float32

	// Text is the chunk content stored alongside the vector.
	Text string

	// Metadata is source document metadata stored alongside the vector.
	Metadata map[string]any
}

// VectorHit is one similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Score is the similarity score (higher is better).
	Score float64

	// Text is the stored chunk content.
	Text string

	// Metadata is the stored payload.
	Metadata map[string]any
}

// VectorIndex provides similarity search over named collections.
// Backed by Qdrant over REST; treated as opaque.
type VectorIndex interface {
	// EnsureCollection creates the collection if it does not exist.
	// Dimensions must match the embedding model; vectors are never mixed
	// across models within one collection.
	EnsureCollection(ctx context.Context, collection string, dimensions int) error

	// Upsert stores vectors with payloads, returning the count stored.
	Upsert(ctx context.Context, collection string, items []VectorItem) (int, error)

	// Query returns the k nearest neighbours to the query vector, ranked by
	// descending similarity.
	Query(ctx context.Context, collection string, vector []float32, k int) ([]VectorHit, error)

	// Collections lists the existing collection names.
	Collections(ctx context.Context) ([]string, error)

	// Ping validates the index is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
