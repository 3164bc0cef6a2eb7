package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/custodia-labs/ragpipe/internal/chunking"
	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driving"
	"github.com/custodia-labs/ragpipe/internal/logger"
)

// IngestionOrchestrator sequences extraction, dedup check, chunking,
// embedding and tracker update for one document, walking the ingestion state
// machine. The embed step commits all chunks or none, so a failed ingestion
// never leaves a record behind.
type IngestionOrchestrator struct {
	blobs          driven.BlobStore
	tracker        *DocumentTracker
	gateway        *EmbeddingGateway
	maxConcurrent  int
	defaultStrat   string
	defaultCollect string
}

var _ driving.IngestService = (*IngestionOrchestrator)(nil)

// NewIngestionOrchestrator wires the ingestion pipeline. maxConcurrent caps
// parallel document ingestions in IngestPrefix.
func NewIngestionOrchestrator(
	blobs driven.BlobStore,
	tracker *DocumentTracker,
	gateway *EmbeddingGateway,
	settings domain.AppSettings,
) *IngestionOrchestrator {
	maxConcurrent := settings.MaxConcurrentIngests
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &IngestionOrchestrator{
		blobs:          blobs,
		tracker:        tracker,
		gateway:        gateway,
		maxConcurrent:  maxConcurrent,
		defaultStrat:   chunking.StrategyFixedSize,
		defaultCollect: settings.DefaultCollection,
	}
}

// Ingest processes one document through the pipeline.
func (o *IngestionOrchestrator) Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	if req.DocumentID == "" {
		return nil, fmt.Errorf("%w: missing document ID", domain.ErrInvalidInput)
	}
	if req.SourcePath == "" {
		req.SourcePath = req.DocumentID
	}
	if req.Strategy == "" {
		req.Strategy = o.defaultStrat
	}
	if req.CollectionName == "" {
		req.CollectionName = o.defaultCollect
	}

	strategy, err := chunking.New(req.Strategy, req.StrategyParams)
	if err != nil {
		return nil, err
	}

	logger.Section("Ingest %s", req.DocumentID)
	state := domain.IngestExtractText
	logger.Debug("[%s] %s", req.DocumentID, state)

	text, err := o.blobs.ReadText(ctx, req.SourcePath)
	if err != nil {
		state = domain.NextIngestState(state, false, true)
		logger.Warn("[%s] %s: %v", req.DocumentID, state, err)
		return nil, fmt.Errorf("read %s: %w", req.SourcePath, err)
	}

	state = domain.NextIngestState(state, false, false)
	logger.Debug("[%s] %s", req.DocumentID, state)
	fingerprint := domain.FingerprintText(text)
	prior, unchanged, err := o.tracker.CheckProcessed(ctx, req.DocumentID, fingerprint)
	if err != nil {
		return nil, err
	}
	if unchanged {
		state = domain.NextIngestState(state, true, false)
		logger.Info("[%s] %s: skipped, unchanged", req.DocumentID, state)
		return &domain.IngestResult{
			Status:      domain.IngestSkipped,
			ChunkCount:  prior.ChunkCount(),
			Fingerprint: fingerprint,
		}, nil
	}

	state = domain.NextIngestState(state, false, false)
	logger.Debug("[%s] %s (%s)", req.DocumentID, state, strategy.Name())
	chunks, err := strategy.Chunk(req.DocumentID, text)
	if err != nil {
		state = domain.NextIngestState(state, false, true)
		logger.Warn("[%s] %s: %v", req.DocumentID, state, err)
		return nil, fmt.Errorf("chunk %s: %w", req.DocumentID, err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: document %s has no chunkable content", domain.ErrInvalidInput, req.DocumentID)
	}

	state = domain.NextIngestState(state, false, false)
	logger.Debug("[%s] %s (%d chunks)", req.DocumentID, state, len(chunks))
	metadata := withSource(req.Metadata, req.SourcePath)
	stored, err := o.gateway.EmbedAndStore(ctx, req.CollectionName, chunks, metadata)
	if err != nil {
		state = domain.NextIngestState(state, false, true)
		logger.Warn("[%s] %s: %v", req.DocumentID, state, err)
		return nil, err
	}

	state = domain.NextIngestState(state, false, false)
	logger.Debug("[%s] %s", req.DocumentID, state)
	chunkIDs := make([]string, len(chunks))
	for i, chunk := range chunks {
		chunkIDs[i] = chunk.ID
	}
	record := &domain.ProcessedRecord{
		DocumentID:     req.DocumentID,
		Fingerprint:    fingerprint,
		CollectionName: req.CollectionName,
		Strategy:       strategy.Name(),
		StrategyParams: strategy.Params(),
		EmbeddingModel: o.gateway.ModelName(),
		ChunkIDs:       chunkIDs,
	}
	if err := o.tracker.RecordProcessed(ctx, record, prior); err != nil {
		state = domain.NextIngestState(state, false, true)
		logger.Warn("[%s] %s: %v", req.DocumentID, state, err)
		return nil, err
	}

	state = domain.NextIngestState(state, false, false)
	logger.Info("[%s] %s: %d chunks stored", req.DocumentID, state, stored)
	return &domain.IngestResult{
		Status:      domain.IngestProcessed,
		ChunkCount:  stored,
		Fingerprint: fingerprint,
	}, nil
}

// IngestPrefix ingests every blob under prefix, at most maxConcurrent
// documents in flight. One document failing does not stop the others.
func (o *IngestionOrchestrator) IngestPrefix(
	ctx context.Context, prefix string, template domain.IngestRequest, extensions []string,
) (*driving.BatchResult, error) {
	paths, err := o.blobs.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}

	var selected []string
	for _, p := range paths {
		if matchesExtension(p, extensions) {
			selected = append(selected, p)
		}
	}
	logger.Info("Ingesting %d of %d documents under %s", len(selected), len(paths), prefix)

	result := &driving.BatchResult{Errors: make(map[string]error)}
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, o.maxConcurrent)

	for _, p := range selected {
		wg.Add(1)
		go func(sourcePath string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			req := template
			req.DocumentID = sourcePath
			req.SourcePath = sourcePath

			out, err := o.Ingest(ctx, req)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.Failed++
				result.Errors[sourcePath] = err
			case out.Status == domain.IngestSkipped:
				result.Skipped++
			default:
				result.Processed++
			}
		}(p)
	}
	wg.Wait()

	return result, nil
}

func matchesExtension(p string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.ToLower(path.Ext(p))
	for _, want := range extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

func withSource(metadata map[string]any, sourcePath string) map[string]any {
	out := make(map[string]any, len(metadata)+1)
	for k, v := range metadata {
		out[k] = v
	}
	if _, ok := out["source"]; !ok {
		out["source"] = sourcePath
	}
	return out
}
