package driven

import "context"

// BlobStore reads source documents. Extraction of binary formats (PDF/DOCX)
// to text happens upstream of this port; ReadText always yields text.
type BlobStore interface {
	// ReadText streams the document at path and returns its text content.
	ReadText(ctx context.Context, path string) (string, error)

	// List returns the paths under prefix, lexically ordered.
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists reports whether a document is present at path.
	Exists(ctx context.Context, path string) (bool, error)
}
