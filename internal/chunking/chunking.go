// Package chunking splits extracted document text into retrievable chunks.
// Two strategies are available: fixed-size windows with overlap, and semantic
// splitting on paragraph/sentence boundaries. Chunking is a pure function of
// (text, strategy, parameters): no randomness, no clock, no traversal-order
// dependence.
package chunking

import (
	"fmt"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

// Strategy names.
const (
	StrategyFixedSize = "fixed_size"
	StrategySemantic  = "semantic"
)

// Strategy splits document text into an ordered chunk sequence.
type Strategy interface {
	// Chunk splits text into chunks owned by documentID. An empty or
	// whitespace-only text yields zero chunks, not an error.
	Chunk(documentID, text string) ([]domain.Chunk, error)

	// Name returns the strategy name.
	Name() string

	// Params returns the effective parameters, for the processed record.
	Params() map[string]any
}

// New selects a strategy by name. An unsupported name or invalid parameters
// fail with domain.ErrInvalidConfig before any processing begins.
func New(name string, params map[string]any) (Strategy, error) {
	switch name {
	case StrategyFixedSize:
		return newFixedSize(params)
	case StrategySemantic:
		return newSemantic(params)
	default:
		return nil, fmt.Errorf("%w: unsupported chunking strategy %q", domain.ErrInvalidConfig, name)
	}
}

// paramInt reads an integer parameter, tolerating the numeric types that
// JSON and TOML decoding produce.
func paramInt(params map[string]any, key string, fallback int) int {
	v, ok := params[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return fallback
	}
}
