// Package memory provides an in-memory document registry, used in tests and
// for throwaway runs where no ledger persistence is wanted.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.DocumentRegistry = (*Registry)(nil)

// Registry is an in-memory implementation of driven.DocumentRegistry.
// Versions are append-only per document; Get and List see the latest.
type Registry struct {
	mu      sync.RWMutex
	records map[string][]domain.ProcessedRecord
}

// NewRegistry creates a new in-memory registry.
func NewRegistry() *Registry {
	return &Registry{
		records: make(map[string][]domain.ProcessedRecord),
	}
}

// Get retrieves the latest record for a document.
func (r *Registry) Get(_ context.Context, documentID string) (*domain.ProcessedRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	versions, ok := r.records[documentID]
	if !ok || len(versions) == 0 {
		return nil, domain.ErrNotFound
	}
	latest := versions[len(versions)-1]
	return &latest, nil
}

// Put appends a record version.
func (r *Registry) Put(_ context.Context, record *domain.ProcessedRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.DocumentID] = append(r.records[record.DocumentID], *record)
	return nil
}

// List returns the latest record of every tracked document, ordered by ID.
func (r *Registry) List(_ context.Context) ([]domain.ProcessedRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.ProcessedRecord, 0, len(r.records))
	for _, versions := range r.records {
		result = append(result, versions[len(versions)-1])
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DocumentID < result[j].DocumentID
	})
	return result, nil
}

// Versions returns every stored version of a document, oldest first.
func (r *Registry) Versions(_ context.Context, documentID string) []domain.ProcessedRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.ProcessedRecord(nil), r.records[documentID]...)
}

// Close releases resources.
func (r *Registry) Close() error {
	return nil
}
