package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ragpipe/internal/logger"
)

// DocumentTracker maintains the content-hash dedup ledger over the registry.
type DocumentTracker struct {
	registry driven.DocumentRegistry
	now      func() time.Time
}

// NewDocumentTracker creates a tracker over the given registry.
func NewDocumentTracker(registry driven.DocumentRegistry) *DocumentTracker {
	return &DocumentTracker{
		registry: registry,
		now:      time.Now,
	}
}

// CheckProcessed looks up the latest record for a document and compares
// fingerprints. It returns the record and true when the content is unchanged
// and ingestion should short-circuit. A prior record with a different
// fingerprint is returned with false: the caller ingests a new version.
func (t *DocumentTracker) CheckProcessed(
	ctx context.Context, documentID string, fingerprint domain.Fingerprint,
) (*domain.ProcessedRecord, bool, error) {
	record, err := t.registry.Get(ctx, documentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: read record for %s: %v", domain.ErrPersistence, documentID, err)
	}

	if record.Fingerprint == fingerprint {
		logger.Debug("Document %s unchanged (fingerprint %.12s)", documentID, fingerprint)
		return record, true, nil
	}

	logger.Debug("Document %s changed: version %d superseded", documentID, record.Version)
	return record, false, nil
}

// RecordProcessed appends a record for a freshly ingested document version.
// prior may be nil for a first ingestion. The prior version's chunks and
// vectors are left in place; purging them is a separate admin operation.
func (t *DocumentTracker) RecordProcessed(
	ctx context.Context, record *domain.ProcessedRecord, prior *domain.ProcessedRecord,
) error {
	record.Version = 1
	if prior != nil {
		record.Version = prior.Version + 1
	}
	record.ProcessedAt = t.now()

	if err := t.registry.Put(ctx, record); err != nil {
		return fmt.Errorf("%w: write record for %s: %v", domain.ErrPersistence, record.DocumentID, err)
	}

	logger.Info("Recorded %s v%d: %d chunks", record.DocumentID, record.Version, record.ChunkCount())
	return nil
}
