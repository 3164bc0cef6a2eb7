package chunking

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

// Default fixed-size parameters, in runes.
const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200
)

// fixedSize produces windows of exactly chunkSize runes (the final chunk may
// be shorter), consecutive windows sharing overlap runes.
type fixedSize struct {
	chunkSize int
	overlap   int
}

func newFixedSize(params map[string]any) (*fixedSize, error) {
	f := &fixedSize{
		chunkSize: paramInt(params, "chunk_size", DefaultChunkSize),
		overlap:   paramInt(params, "overlap", DefaultOverlap),
	}

	if f.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk_size must be positive, got %d", domain.ErrInvalidConfig, f.chunkSize)
	}
	if f.overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must be non-negative, got %d", domain.ErrInvalidConfig, f.overlap)
	}
	if f.overlap >= f.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be less than chunk_size %d",
			domain.ErrInvalidConfig, f.overlap, f.chunkSize)
	}

	return f, nil
}

// Name returns the strategy name.
func (f *fixedSize) Name() string {
	return StrategyFixedSize
}

// Params returns the effective parameters.
func (f *fixedSize) Params() map[string]any {
	return map[string]any{
		"chunk_size": f.chunkSize,
		"overlap":    f.overlap,
	}
}

// Chunk walks the text in steps of chunkSize-overlap runes.
func (f *fixedSize) Chunk(documentID, text string) ([]domain.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	runes := []rune(text)
	step := f.chunkSize - f.overlap

	chunks := make([]domain.Chunk, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := start + f.chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		content := string(runes[start:end])
		if strings.TrimSpace(content) == "" {
			continue
		}

		seq := len(chunks)
		overlap := 0
		if seq > 0 {
			overlap = f.overlap
		}
		chunks = append(chunks, domain.Chunk{
			ID:         domain.ChunkID(documentID, seq),
			DocumentID: documentID,
			Content:    content,
			Seq:        seq,
			Start:      start,
			End:        end,
			Overlap:    overlap,
		})

		if end == len(runes) {
			break
		}
	}

	return chunks, nil
}
