package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uri},
	}
}

func TestServer_handleCollectionsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns collections as JSON", func(t *testing.T) {
		admin := &mockAdminService{collections: []string{"documents", "notes"}}

		server, err := NewServer(&Ports{Rag: &mockRagService{}, Admin: admin})
		require.NoError(t, err)

		result, err := server.handleCollectionsResource(ctx, readRequest(uriScheme+"collections"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, "documents")
		assert.Contains(t, result.Contents[0].Text, "notes")
	})

	t.Run("degrades to empty list without admin service", func(t *testing.T) {
		server, err := NewServer(&Ports{Rag: &mockRagService{}})
		require.NoError(t, err)

		result, err := server.handleCollectionsResource(ctx, readRequest(uriScheme+"collections"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	admin := &mockAdminService{
		records: []domain.ProcessedRecord{{
			DocumentID:     "doc-1",
			Version:        2,
			CollectionName: "documents",
			Strategy:       "fixed_size",
			ChunkIDs:       []string{"doc-1:0", "doc-1:1"},
			ProcessedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		}},
	}

	server, err := NewServer(&Ports{Rag: &mockRagService{}, Admin: admin})
	require.NoError(t, err)

	result, err := server.handleDocumentsResource(ctx, readRequest(uriScheme+"documents"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Contains(t, result.Contents[0].Text, `"doc-1"`)
	assert.Contains(t, result.Contents[0].Text, `"version": 2`)
	assert.Contains(t, result.Contents[0].Text, `"chunk_count": 2`)
}
