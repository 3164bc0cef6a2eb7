package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragpipe/internal/adapters/driven/registry/memory"
	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

type ingestFixture struct {
	blobs    *mockBlobStore
	registry *memory.Registry
	embedder *mockEmbedder
	index    *mockIndex
	orch     *IngestionOrchestrator
}

func newIngestFixture() *ingestFixture {
	f := &ingestFixture{
		blobs:    newMockBlobStore(),
		registry: memory.NewRegistry(),
		embedder: newMockEmbedder(),
		index:    newMockIndex(),
	}
	settings := domain.DefaultAppSettings()
	settings.MaxConcurrentIngests = 2
	f.orch = NewIngestionOrchestrator(
		f.blobs,
		NewDocumentTracker(f.registry),
		NewEmbeddingGateway(f.embedder, f.index, 3, testRetrySettings(1)),
		settings,
	)
	return f
}

func TestIngestionOrchestrator_ProcessesDocument(t *testing.T) {
	f := newIngestFixture()
	// 2600 words of one rune each would not chunk realistically; use a text
	// long enough for three fixed-size windows.
	f.blobs.docs["doc.txt"] = strings.Repeat("abcdefghi ", 260)

	result, err := f.orch.Ingest(context.Background(), domain.IngestRequest{
		DocumentID: "doc.txt",
		Strategy:   "fixed_size",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.IngestProcessed, result.Status)
	assert.Equal(t, 3, result.ChunkCount)

	record, err := f.registry.Get(context.Background(), "doc.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, record.Version)
	assert.Len(t, record.ChunkIDs, 3)
	assert.Equal(t, "fixed_size", record.Strategy)
	assert.Equal(t, "mock-embed", record.EmbeddingModel)
	assert.Len(t, f.index.stored("documents"), 3)
}

func TestIngestionOrchestrator_SkipsUnchanged(t *testing.T) {
	f := newIngestFixture()
	f.blobs.docs["doc.txt"] = strings.Repeat("stable content ", 100)
	ctx := context.Background()
	req := domain.IngestRequest{DocumentID: "doc.txt"}

	first, err := f.orch.Ingest(ctx, req)
	require.NoError(t, err)
	require.Equal(t, domain.IngestProcessed, first.Status)
	batchesAfterFirst := f.embedder.batchCalls

	second, err := f.orch.Ingest(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.IngestSkipped, second.Status)
	assert.Equal(t, first.ChunkCount, second.ChunkCount)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)

	// No re-embedding and no new record version.
	assert.Equal(t, batchesAfterFirst, f.embedder.batchCalls)
	assert.Len(t, f.registry.Versions(ctx, "doc.txt"), 1)
}

func TestIngestionOrchestrator_ReingestsChangedContent(t *testing.T) {
	f := newIngestFixture()
	f.blobs.docs["doc.txt"] = strings.Repeat("version one ", 100)
	ctx := context.Background()
	req := domain.IngestRequest{DocumentID: "doc.txt"}

	_, err := f.orch.Ingest(ctx, req)
	require.NoError(t, err)

	f.blobs.docs["doc.txt"] = strings.Repeat("version two ", 100)
	result, err := f.orch.Ingest(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.IngestProcessed, result.Status)

	record, err := f.registry.Get(ctx, "doc.txt")
	require.NoError(t, err)
	assert.Equal(t, 2, record.Version)
	assert.Len(t, f.registry.Versions(ctx, "doc.txt"), 2)
}

func TestIngestionOrchestrator_AllOrNothingOnEmbedFailure(t *testing.T) {
	f := newIngestFixture()
	f.blobs.docs["doc.txt"] = strings.Repeat("abcdefghi ", 260)
	f.embedder.failBatch = 1
	f.embedder.failWith = domain.ErrUpstreamUnavailable

	_, err := f.orch.Ingest(context.Background(), domain.IngestRequest{DocumentID: "doc.txt"})
	require.Error(t, err)

	// Nothing stored, nothing recorded: the next ingest starts clean.
	assert.Empty(t, f.index.stored("documents"))
	_, getErr := f.registry.Get(context.Background(), "doc.txt")
	assert.ErrorIs(t, getErr, domain.ErrNotFound)
}

func TestIngestionOrchestrator_EmptyDocumentRejected(t *testing.T) {
	f := newIngestFixture()
	f.blobs.docs["empty.txt"] = "   \n\n  "

	_, err := f.orch.Ingest(context.Background(), domain.IngestRequest{DocumentID: "empty.txt"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestionOrchestrator_MissingDocument(t *testing.T) {
	f := newIngestFixture()

	_, err := f.orch.Ingest(context.Background(), domain.IngestRequest{DocumentID: "absent.txt"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestionOrchestrator_UnknownStrategy(t *testing.T) {
	f := newIngestFixture()
	f.blobs.docs["doc.txt"] = "content"

	_, err := f.orch.Ingest(context.Background(), domain.IngestRequest{
		DocumentID: "doc.txt",
		Strategy:   "recursive",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestIngestionOrchestrator_IngestPrefix(t *testing.T) {
	f := newIngestFixture()
	f.blobs.docs["notes/a.txt"] = strings.Repeat("alpha content ", 50)
	f.blobs.docs["notes/b.txt"] = strings.Repeat("beta content ", 50)
	f.blobs.docs["notes/c.md"] = strings.Repeat("gamma content ", 50)
	f.blobs.docs["other/d.txt"] = strings.Repeat("delta content ", 50)

	result, err := f.orch.IngestPrefix(context.Background(), "notes/", domain.IngestRequest{}, []string{".txt"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Zero(t, result.Skipped)
	assert.Zero(t, result.Failed)

	// The .md file and the out-of-prefix file were not ingested.
	_, err = f.registry.Get(context.Background(), "notes/c.md")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.registry.Get(context.Background(), "other/d.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestionOrchestrator_IngestPrefixToleratesFailures(t *testing.T) {
	f := newIngestFixture()
	f.blobs.docs["docs/good.txt"] = strings.Repeat("fine content ", 50)
	f.blobs.docs["docs/empty.txt"] = "  "

	result, err := f.orch.IngestPrefix(context.Background(), "docs/", domain.IngestRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Failed)
	require.Contains(t, result.Errors, "docs/empty.txt")
	assert.ErrorIs(t, result.Errors["docs/empty.txt"], domain.ErrInvalidInput)
}
