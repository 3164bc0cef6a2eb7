package driving

import (
	"context"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

// RagService answers natural-language queries with retrieved context.
type RagService interface {
	// Query runs the full pipeline: embed the query, retrieve context, build
	// the prompt and generate an answer. An empty retrieval is not an error;
	// the answer then references the no-context marker.
	Query(ctx context.Context, req domain.QueryRequest) (*domain.RagResponse, error)
}

// IngestService ingests documents into a vector collection.
type IngestService interface {
	// Ingest processes one document: extract, dedup-check, chunk, embed,
	// record. Returns Skipped when the content fingerprint is unchanged.
	Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error)

	// IngestPrefix ingests every blob under a path prefix, tolerating
	// per-document failures. Extensions filters by file extension when
	// non-empty (e.g. ".txt", ".md").
	IngestPrefix(ctx context.Context, prefix string, template domain.IngestRequest, extensions []string) (*BatchResult, error)
}

// BatchResult summarises a multi-document ingestion.
type BatchResult struct {
	// Processed is the number of documents chunked and embedded.
	Processed int

	// Skipped is the number of documents short-circuited by dedup.
	Skipped int

	// Failed is the number of documents whose ingestion failed.
	Failed int

	// Errors holds the per-document failures, keyed by document ID.
	Errors map[string]error
}

// AdminService exposes operational queries about the pipeline.
type AdminService interface {
	// ListCollections returns the vector collections available for querying.
	ListCollections(ctx context.Context) ([]string, error)

	// ListProcessed returns the dedup ledger: the latest processed record of
	// every tracked document.
	ListProcessed(ctx context.Context) ([]domain.ProcessedRecord, error)

	// Health probes every configured collaborator.
	Health(ctx context.Context) *domain.HealthReport
}
