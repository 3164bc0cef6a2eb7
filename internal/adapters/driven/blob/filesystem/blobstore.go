// Package filesystem provides a blob store adapter reading documents from a
// local directory tree.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
)

// Ensure BlobStore implements the interface.
var _ driven.BlobStore = (*BlobStore)(nil)

// BlobStore reads documents from a root directory. Paths are slash-separated
// and relative to the root; absolute paths and parent traversal are rejected.
type BlobStore struct {
	root string
}

// NewBlobStore creates a blob store rooted at dir. An empty dir means the
// current working directory.
func NewBlobStore(dir string) *BlobStore {
	if dir == "" {
		dir = "."
	}
	return &BlobStore{root: dir}
}

// ReadText returns the text content of the document at path.
func (s *BlobStore) ReadText(_ context.Context, path string) (string, error) {
	full, err := s.resolve(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// List returns the file paths under prefix, lexically ordered. Prefix is
// matched against the slash-separated relative path, so "notes/" selects the
// notes subtree.
func (s *BlobStore) List(_ context.Context, prefix string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if strings.HasPrefix(rel, prefix) {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Exists reports whether a document is present at path.
func (s *BlobStore) Exists(_ context.Context, path string) (bool, error) {
	full, err := s.resolve(path)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return !info.IsDir(), nil
}

func (s *BlobStore) resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", domain.ErrInvalidInput)
	}
	if filepath.IsAbs(path) || strings.Contains(path, "..") {
		return "", fmt.Errorf("%w: path %q escapes the store root", domain.ErrInvalidInput, path)
	}
	return filepath.Join(s.root, filepath.FromSlash(path)), nil
}
