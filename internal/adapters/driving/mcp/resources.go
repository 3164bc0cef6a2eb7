package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for ragpipe resources.
	uriScheme = "ragpipe://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing vector collections.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "collections",
		Name:        "collections",
		Description: "List of vector collections available for querying",
		MIMEType:    "application/json",
	}, s.handleCollectionsResource)

	// Static resource for the processed-document ledger.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "Latest processed version of every ingested document",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)
}

// handleCollectionsResource returns the available vector collections.
func (s *Server) handleCollectionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Admin == nil {
		return jsonResource(req.Params.URI, "[]"), nil
	}

	collections, err := s.ports.Admin.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	if collections == nil {
		collections = []string{}
	}

	data, err := json.MarshalIndent(collections, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling collections: %w", err)
	}

	return jsonResource(req.Params.URI, string(data)), nil
}

// handleDocumentsResource returns the processed-document ledger.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Admin == nil {
		return jsonResource(req.Params.URI, "[]"), nil
	}

	records, err := s.ports.Admin.ListProcessed(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	// Build simplified record list.
	type recordInfo struct {
		DocumentID  string    `json:"document_id"`
		Version     int       `json:"version"`
		Collection  string    `json:"collection"`
		Strategy    string    `json:"strategy"`
		ChunkCount  int       `json:"chunk_count"`
		ProcessedAt time.Time `json:"processed_at"`
	}

	infos := make([]recordInfo, len(records))
	for i := range records {
		infos[i] = recordInfo{
			DocumentID:  records[i].DocumentID,
			Version:     records[i].Version,
			Collection:  records[i].CollectionName,
			Strategy:    records[i].Strategy,
			ChunkCount:  records[i].ChunkCount(),
			ProcessedAt: records[i].ProcessedAt,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return jsonResource(req.Params.URI, string(data)), nil
}

func jsonResource(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}
