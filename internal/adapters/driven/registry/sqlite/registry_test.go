package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	registry, err := NewRegistry(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = registry.Close() })
	return registry
}

func sampleRecord(documentID string, version int) *domain.ProcessedRecord {
	return &domain.ProcessedRecord{
		DocumentID:     documentID,
		Fingerprint:    domain.FingerprintText(documentID + "content"),
		Version:        version,
		CollectionName: "documents",
		Strategy:       "fixed_size",
		StrategyParams: map[string]any{"chunk_size": float64(1000), "overlap": float64(200)},
		EmbeddingModel: "nomic-embed-text",
		ChunkIDs:       []string{documentID + ":0", documentID + ":1"},
		ProcessedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestRegistry_GetNotFound(t *testing.T) {
	registry := newTestRegistry(t)

	_, err := registry.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistry_PutAndGet(t *testing.T) {
	registry := newTestRegistry(t)
	ctx := context.Background()

	want := sampleRecord("doc-1", 1)
	require.NoError(t, registry.Put(ctx, want))

	got, err := registry.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, want.DocumentID, got.DocumentID)
	assert.Equal(t, want.Fingerprint, got.Fingerprint)
	assert.Equal(t, want.Version, got.Version)
	assert.Equal(t, want.CollectionName, got.CollectionName)
	assert.Equal(t, want.Strategy, got.Strategy)
	assert.Equal(t, want.StrategyParams, got.StrategyParams)
	assert.Equal(t, want.EmbeddingModel, got.EmbeddingModel)
	assert.Equal(t, want.ChunkIDs, got.ChunkIDs)
	assert.True(t, want.ProcessedAt.Equal(got.ProcessedAt))
}

func TestRegistry_GetReturnsLatestVersion(t *testing.T) {
	registry := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.Put(ctx, sampleRecord("doc-1", 1)))
	v2 := sampleRecord("doc-1", 2)
	v2.Fingerprint = domain.FingerprintText("changed")
	require.NoError(t, registry.Put(ctx, v2))

	got, err := registry.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
	assert.Equal(t, v2.Fingerprint, got.Fingerprint)
}

func TestRegistry_DuplicateVersionRejected(t *testing.T) {
	registry := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.Put(ctx, sampleRecord("doc-1", 1)))
	err := registry.Put(ctx, sampleRecord("doc-1", 1))
	assert.Error(t, err)
}

func TestRegistry_ListLatestPerDocument(t *testing.T) {
	registry := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.Put(ctx, sampleRecord("b.txt", 1)))
	require.NoError(t, registry.Put(ctx, sampleRecord("b.txt", 2)))
	require.NoError(t, registry.Put(ctx, sampleRecord("a.txt", 1)))

	records, err := registry.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a.txt", records[0].DocumentID)
	assert.Equal(t, 1, records[0].Version)
	assert.Equal(t, "b.txt", records[1].DocumentID)
	assert.Equal(t, 2, records[1].Version)
}

func TestRegistry_ReopenPersists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	registry, err := NewRegistry(dir)
	require.NoError(t, err)
	require.NoError(t, registry.Put(ctx, sampleRecord("doc-1", 1)))
	require.NoError(t, registry.Close())

	reopened, err := NewRegistry(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
}
