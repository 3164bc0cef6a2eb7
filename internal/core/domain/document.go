package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Document represents a source document prior to chunking.
// It is immutable once ingested; re-ingesting changed content produces a new
// ProcessedRecord version rather than mutating an existing one.
type Document struct {
	// ID is the stable identifier (path or logical name) for the document.
	ID string

	// SourcePath is where the raw bytes live in the blob store.
	SourcePath string

	// Format is the declared document format ("text", "pdf", "docx").
	Format string

	// Content is the extracted text content.
	Content string

	// Metadata contains arbitrary key-value pairs carried into chunks.
	Metadata map[string]any
}

// Chunk is a contiguous span of a document's text treated as one retrievable
// unit. Chunk identity is deterministic: "<documentID>:<seq>".
type Chunk struct {
	// ID is the deterministic chunk identifier.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Content is the text span.
	Content string

	// Seq is the ordinal position within the document.
	Seq int

	// Start and End are rune offsets of the span in the source text.
	Start int
	End   int

	// Overlap is the number of units shared with the previous chunk.
	Overlap int

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// ChunkID derives the deterministic identifier for a chunk of a document.
func ChunkID(documentID string, seq int) string {
	return fmt.Sprintf("%s:%d", documentID, seq)
}

// Fingerprint is a deterministic content hash used for deduplication.
// Two documents with equal fingerprints are treated as identical content
// regardless of path.
type Fingerprint string

// FingerprintText computes the fingerprint of extracted document text.
//
// Normalisation rule: runs of Unicode whitespace are
// collapsed to a single space and leading/trailing whitespace is trimmed
// before hashing with SHA-256. Cosmetic whitespace edits therefore do not
// change the fingerprint; any visible character change does.
func FingerprintText(text string) Fingerprint {
	var b strings.Builder
	b.Grow(len(text))
	inSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteRune(r)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return Fingerprint(hex.EncodeToString(sum[:]))
}

// ProcessedRecord is the persisted ledger entry for one successful ingestion
// of a document version. Records are append-only: a changed fingerprint for
// the same document ID produces a new record with an incremented Version.
type ProcessedRecord struct {
	// DocumentID is the stable document identifier.
	DocumentID string

	// Fingerprint identifies the ingested content version.
	Fingerprint Fingerprint

	// Version counts record versions for this document, starting at 1.
	Version int

	// CollectionName is the vector collection the chunks were stored in.
	CollectionName string

	// Strategy is the chunking strategy name used ("fixed_size", "semantic").
	Strategy string

	// StrategyParams holds the chunking parameters used.
	StrategyParams map[string]any

	// EmbeddingModel is the embedding model identifier used.
	EmbeddingModel string

	// ChunkIDs is the ordered list of produced chunk identifiers.
	ChunkIDs []string

	// ProcessedAt is when the ingestion committed.
	ProcessedAt time.Time
}

// ChunkCount returns the number of chunks the record committed.
func (r *ProcessedRecord) ChunkCount() int {
	return len(r.ChunkIDs)
}
