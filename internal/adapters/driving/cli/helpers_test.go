package cli

import (
	"context"
	"time"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driving"
)

// Mock services for command tests.

type mockRagService struct {
	resp    *domain.RagResponse
	err     error
	lastReq domain.QueryRequest
}

func (m *mockRagService) Query(_ context.Context, req domain.QueryRequest) (*domain.RagResponse, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

type mockIngestService struct {
	result     *domain.IngestResult
	batch      *driving.BatchResult
	err        error
	lastReq    domain.IngestRequest
	lastPrefix string
	lastExts   []string
}

func (m *mockIngestService) Ingest(_ context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockIngestService) IngestPrefix(_ context.Context, prefix string, template domain.IngestRequest, extensions []string) (*driving.BatchResult, error) {
	m.lastPrefix = prefix
	m.lastReq = template
	m.lastExts = extensions
	if m.err != nil {
		return nil, m.err
	}
	return m.batch, nil
}

type mockAdminService struct {
	collections []string
	records     []domain.ProcessedRecord
	report      *domain.HealthReport
	err         error
}

func (m *mockAdminService) ListCollections(_ context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.collections, nil
}

func (m *mockAdminService) ListProcessed(_ context.Context) ([]domain.ProcessedRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

func (m *mockAdminService) Health(_ context.Context) *domain.HealthReport {
	return m.report
}

type mockSettingsService struct {
	settings    *domain.AppSettings
	saveErr     error
	validateErr error

	lastProvider domain.AIProvider
	lastModel    string
	lastKey      string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.settings != nil {
		return m.settings, nil
	}
	defaults := domain.DefaultAppSettings()
	return &defaults, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error {
	return m.saveErr
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.lastProvider = provider
	m.lastModel = model
	m.lastKey = apiKey
	return m.saveErr
}

func (m *mockSettingsService) SetGenerationProvider(provider domain.AIProvider, model, apiKey string) error {
	m.lastProvider = provider
	m.lastModel = model
	m.lastKey = apiKey
	return m.saveErr
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

// setupTestServices wires mock services with workable defaults and returns a
// cleanup that restores the previous wiring and flag state. Tests needing
// specific behaviour overwrite the package service vars after calling it.
func setupTestServices() func() {
	prevRag := ragService
	prevIngest := ingestService
	prevAdmin := adminService
	prevSettings := settingsService

	ragService = &mockRagService{
		resp: &domain.RagResponse{
			Text:  "The answer.",
			Model: "llama3.2",
			Retrieval: domain.RetrievalResult{
				Chunks: []domain.RetrievedChunk{
					{ChunkID: "doc-1:0", Text: "chunk text", Score: 0.91},
				},
				Floor: 0.30,
			},
		},
	}
	ingestService = &mockIngestService{
		result: &domain.IngestResult{Status: domain.IngestProcessed, ChunkCount: 3},
		batch:  &driving.BatchResult{Processed: 2, Skipped: 1},
	}
	adminService = &mockAdminService{
		collections: []string{"documents"},
		records: []domain.ProcessedRecord{
			{
				DocumentID:     "docs/notes.txt",
				Fingerprint:    domain.Fingerprint("a1b2c3d4e5f6a7b8c9d0"),
				Version:        1,
				CollectionName: "documents",
				Strategy:       "fixed_size",
				ChunkIDs:       []string{"docs/notes.txt:0", "docs/notes.txt:1"},
				ProcessedAt:    time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			},
		},
		report: &domain.HealthReport{
			Status: domain.HealthOK,
			Detail: map[string]string{"embedder": "ok", "index": "ok"},
		},
	}
	settingsService = &mockSettingsService{}

	return func() {
		ragService = prevRag
		ingestService = prevIngest
		adminService = prevAdmin
		settingsService = prevSettings

		queryCollection = ""
		queryTopK = 0
		queryJSON = false
		querySources = false
		ingestCollection = ""
		ingestStrategy = ""
		ingestChunkSize = 0
		ingestOverlap = 0
		ingestID = ""
		ingestExtensions = nil
	}
}
