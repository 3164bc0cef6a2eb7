package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driving"
)

// AdminOrchestrator answers operational queries: collection listing, the
// processed-document ledger and collaborator health.
type AdminOrchestrator struct {
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	generator driven.GenerationBackend
	registry  driven.DocumentRegistry
}

var _ driving.AdminService = (*AdminOrchestrator)(nil)

// NewAdminOrchestrator wires the admin surface.
func NewAdminOrchestrator(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	generator driven.GenerationBackend,
	registry driven.DocumentRegistry,
) *AdminOrchestrator {
	return &AdminOrchestrator{
		embedder:  embedder,
		index:     index,
		generator: generator,
		registry:  registry,
	}
}

// ListCollections returns the vector collections available for querying.
func (a *AdminOrchestrator) ListCollections(ctx context.Context) ([]string, error) {
	names, err := a.index.Collections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return names, nil
}

// ListProcessed returns the latest record of every tracked document.
func (a *AdminOrchestrator) ListProcessed(ctx context.Context) ([]domain.ProcessedRecord, error) {
	records, err := a.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list records: %v", domain.ErrPersistence, err)
	}
	return records, nil
}

// Health pings every collaborator and aggregates the outcomes.
func (a *AdminOrchestrator) Health(ctx context.Context) *domain.HealthReport {
	report := &domain.HealthReport{
		Status: domain.HealthOK,
		Detail: make(map[string]string),
	}

	probes := []struct {
		name string
		ping func(context.Context) error
	}{
		{"embedding", a.embedder.Ping},
		{"vector_index", a.index.Ping},
		{"generation", a.generator.Ping},
		{"registry", func(ctx context.Context) error {
			_, err := a.registry.List(ctx)
			return err
		}},
	}

	for _, probe := range probes {
		if err := probe.ping(ctx); err != nil {
			report.Status = domain.HealthDegraded
			report.Detail[probe.name] = err.Error()
			continue
		}
		report.Detail[probe.name] = "ok"
	}
	return report
}
