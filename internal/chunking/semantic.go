package chunking

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

// DefaultMaxChunkSize is the default semantic target size, in runes.
const DefaultMaxChunkSize = 1500

// semantic splits on paragraph boundaries, breaking oversized paragraphs on
// sentence boundaries, then greedily merges adjacent segments until adding
// the next one would exceed the target size. A single segment that alone
// exceeds the target is kept intact.
type semantic struct {
	maxChunkSize int
}

func newSemantic(params map[string]any) (*semantic, error) {
	s := &semantic{
		maxChunkSize: paramInt(params, "max_chunk_size", DefaultMaxChunkSize),
	}

	if s.maxChunkSize <= 0 {
		return nil, fmt.Errorf("%w: max_chunk_size must be positive, got %d",
			domain.ErrInvalidConfig, s.maxChunkSize)
	}

	return s, nil
}

// Name returns the strategy name.
func (s *semantic) Name() string {
	return StrategySemantic
}

// Params returns the effective parameters.
func (s *semantic) Params() map[string]any {
	return map[string]any{
		"max_chunk_size": s.maxChunkSize,
	}
}

// segment is a structural unit of the source text, in rune offsets.
type segment struct {
	start int
	end   int
}

func (g segment) size() int {
	return g.end - g.start
}

// Chunk splits text on structural boundaries and merges greedily.
func (s *semantic) Chunk(documentID, text string) ([]domain.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	runes := []rune(text)

	var segments []segment
	for _, p := range splitParagraphs(runes) {
		if p.size() > s.maxChunkSize {
			segments = append(segments, splitSentences(runes, p)...)
			continue
		}
		segments = append(segments, p)
	}

	var chunks []domain.Chunk
	emit := func(start, end int) {
		seq := len(chunks)
		chunks = append(chunks, domain.Chunk{
			ID:         domain.ChunkID(documentID, seq),
			DocumentID: documentID,
			Content:    string(runes[start:end]),
			Seq:        seq,
			Start:      start,
			End:        end,
		})
	}

	// Greedy merge: a chunk spans from the first to the last merged segment,
	// separators included, so offsets stay honest against the source text.
	cur := segment{start: -1}
	for _, seg := range segments {
		if cur.start < 0 {
			cur = seg
			continue
		}
		if seg.end-cur.start > s.maxChunkSize {
			emit(cur.start, cur.end)
			cur = seg
			continue
		}
		cur.end = seg.end
	}
	if cur.start >= 0 {
		emit(cur.start, cur.end)
	}

	return chunks, nil
}

// splitParagraphs returns the maximal non-blank runs separated by blank
// lines, trimmed of surrounding whitespace.
func splitParagraphs(runes []rune) []segment {
	var out []segment
	i := 0
	for i < len(runes) {
		// Skip whitespace between paragraphs.
		for i < len(runes) && unicode.IsSpace(runes[i]) {
			i++
		}
		if i >= len(runes) {
			break
		}
		start := i
		// A paragraph ends at a newline followed (after optional spaces) by
		// another newline, or at end of text.
		end := len(runes)
		for j := i; j < len(runes); j++ {
			if runes[j] != '\n' {
				continue
			}
			k := j + 1
			for k < len(runes) && runes[k] != '\n' && unicode.IsSpace(runes[k]) {
				k++
			}
			if k < len(runes) && runes[k] == '\n' {
				end = j
				break
			}
		}
		end = trimRight(runes, start, end)
		if end > start {
			out = append(out, segment{start: start, end: end})
		}
		i = end
		if end < len(runes) {
			i = end + 1
		}
	}
	return out
}

// splitSentences splits one paragraph segment on sentence terminators
// followed by whitespace. A trailing fragment with no terminator is its own
// sentence.
func splitSentences(runes []rune, p segment) []segment {
	var out []segment
	start := p.start
	for i := p.start; i < p.end; i++ {
		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}
		if i+1 < p.end && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		end := trimRight(runes, start, i+1)
		if end > start {
			out = append(out, segment{start: start, end: end})
		}
		start = i + 1
		for start < p.end && unicode.IsSpace(runes[start]) {
			start++
		}
		i = start - 1
	}
	if start < p.end {
		end := trimRight(runes, start, p.end)
		if end > start {
			out = append(out, segment{start: start, end: end})
		}
	}
	return out
}

func trimRight(runes []rune, start, end int) int {
	for end > start && unicode.IsSpace(runes[end-1]) {
		end--
	}
	return end
}
