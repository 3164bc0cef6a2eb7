package mcp

import (
	"github.com/custodia-labs/ragpipe/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Rag answers retrieval-augmented queries.
	Rag driving.RagService

	// Ingest ingests documents into the vector index.
	Ingest driving.IngestService

	// Admin exposes collections and the processed-document ledger.
	Admin driving.AdminService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Rag == nil {
		return ErrMissingRagService
	}
	// Ingest and Admin are optional; their tools and resources degrade.
	return nil
}
