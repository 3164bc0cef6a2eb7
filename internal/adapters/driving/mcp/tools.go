package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

// QueryInput is the input schema for the rag_query tool.
type QueryInput struct {
	Query      string `json:"query" jsonschema:"the question to answer from ingested documents"`
	Collection string `json:"collection,omitempty" jsonschema:"vector collection to query (default from settings)"`
	TopK       int    `json:"top_k,omitempty" jsonschema:"number of context chunks to retrieve (default from settings)"`
}

// QueryOutput is the output schema for the rag_query tool.
type QueryOutput struct {
	Answer  string        `json:"answer"`
	Model   string        `json:"model"`
	Context []ChunkOutput `json:"context,omitempty"`
}

// ChunkOutput is one retrieved context chunk.
type ChunkOutput struct {
	ChunkID string  `json:"chunk_id"`
	Text    string  `json:"text"`
	Score   float64 `json:"score"`
}

// IngestInput is the input schema for the ingest_document tool.
type IngestInput struct {
	Path       string `json:"path" jsonschema:"path of the document to ingest"`
	DocumentID string `json:"document_id,omitempty" jsonschema:"stable document ID (default: the path)"`
	Collection string `json:"collection,omitempty" jsonschema:"target vector collection (default from settings)"`
	Strategy   string `json:"strategy,omitempty" jsonschema:"chunking strategy: fixed_size or semantic"`
}

// IngestOutput is the output schema for the ingest_document tool.
type IngestOutput struct {
	Status     string `json:"status"`
	ChunkCount int    `json:"chunk_count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rag_query",
		Description: "Answer a question using retrieved context from ingested documents",
	}, s.handleQuery)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest_document",
			Description: "Ingest a document into the vector index",
		}, s.handleIngest)
	}
}

// handleQuery handles the rag_query tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	req := domain.QueryRequest{
		Query:          input.Query,
		CollectionName: input.Collection,
		TopK:           input.TopK,
	}

	resp, err := s.ports.Rag.Query(ctx, req)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	output := QueryOutput{
		Answer:  resp.Text,
		Model:   resp.Model,
		Context: make([]ChunkOutput, len(resp.Retrieval.Chunks)),
	}
	for i, chunk := range resp.Retrieval.Chunks {
		output.Context[i] = ChunkOutput{
			ChunkID: chunk.ChunkID,
			Text:    chunk.Text,
			Score:   chunk.Score,
		}
	}

	return nil, output, nil
}

// handleIngest handles the ingest_document tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if s.ports.Ingest == nil {
		return nil, IngestOutput{}, errors.New("ingest service not available")
	}

	docID := input.DocumentID
	if docID == "" {
		docID = input.Path
	}

	req := domain.IngestRequest{
		DocumentID:     docID,
		SourcePath:     input.Path,
		Strategy:       input.Strategy,
		CollectionName: input.Collection,
	}

	result, err := s.ports.Ingest.Ingest(ctx, req)
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		Status:     string(result.Status),
		ChunkCount: result.ChunkCount,
	}, nil
}
