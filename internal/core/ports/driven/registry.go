package driven

import (
	"context"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

// DocumentRegistry persists the processed-document ledger used for
// deduplication. Records are append-only per document version; Get returns
// the latest version. Backed by SQLite.
type DocumentRegistry interface {
	// Get retrieves the latest record for a document, or domain.ErrNotFound.
	Get(ctx context.Context, documentID string) (*domain.ProcessedRecord, error)

	// Put appends a record version. The caller sets Version; Put never
	// mutates an existing record in place.
	Put(ctx context.Context, record *domain.ProcessedRecord) error

	// List returns the latest record of every tracked document.
	List(ctx context.Context) ([]domain.ProcessedRecord, error)

	// Close releases resources.
	Close() error
}
