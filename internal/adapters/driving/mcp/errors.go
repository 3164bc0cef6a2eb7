// Package mcp provides an MCP (Model Context Protocol) server adapter for ragpipe.
// It lets AI assistants query and ingest documents through the local pipeline.
package mcp

import "errors"

// ErrMissingRagService is returned when the rag service is not provided.
var ErrMissingRagService = errors.New("mcp: rag service is required")
