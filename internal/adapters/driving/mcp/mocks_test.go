package mcp

import (
	"context"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driving"
)

// mockRagService is a mock implementation of driving.RagService.
type mockRagService struct {
	resp *domain.RagResponse
	err  error
}

func (m *mockRagService) Query(_ context.Context, _ domain.QueryRequest) (*domain.RagResponse, error) {
	return m.resp, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	result *domain.IngestResult
	batch  *driving.BatchResult
	err    error
}

func (m *mockIngestService) Ingest(_ context.Context, _ domain.IngestRequest) (*domain.IngestResult, error) {
	return m.result, m.err
}

func (m *mockIngestService) IngestPrefix(_ context.Context, _ string, _ domain.IngestRequest, _ []string) (*driving.BatchResult, error) {
	return m.batch, m.err
}

// mockAdminService is a mock implementation of driving.AdminService.
type mockAdminService struct {
	collections []string
	records     []domain.ProcessedRecord
	report      *domain.HealthReport
	err         error
}

func (m *mockAdminService) ListCollections(_ context.Context) ([]string, error) {
	return m.collections, m.err
}

func (m *mockAdminService) ListProcessed(_ context.Context) ([]domain.ProcessedRecord, error) {
	return m.records, m.err
}

func (m *mockAdminService) Health(_ context.Context) *domain.HealthReport {
	return m.report
}
