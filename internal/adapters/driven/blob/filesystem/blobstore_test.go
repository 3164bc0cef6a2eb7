package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

func newTestStore(t *testing.T, files map[string]string) *BlobStore {
	t.Helper()
	dir := t.TempDir()
	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return NewBlobStore(dir)
}

func TestBlobStore_ReadText(t *testing.T) {
	store := newTestStore(t, map[string]string{"notes/a.txt": "hello"})

	text, err := store.ReadText(context.Background(), "notes/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestBlobStore_ReadText_NotFound(t *testing.T) {
	store := newTestStore(t, nil)

	_, err := store.ReadText(context.Background(), "missing.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBlobStore_ReadText_RejectsTraversal(t *testing.T) {
	store := newTestStore(t, nil)

	_, err := store.ReadText(context.Background(), "../escape.txt")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBlobStore_List(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"notes/b.txt": "b",
		"notes/a.txt": "a",
		"other/c.txt": "c",
		"notes/sub/d": "d",
	})

	paths, err := store.List(context.Background(), "notes/")
	require.NoError(t, err)
	assert.Equal(t, []string{"notes/a.txt", "notes/b.txt", "notes/sub/d"}, paths)
}

func TestBlobStore_Exists(t *testing.T) {
	store := newTestStore(t, map[string]string{"a.txt": "x"})
	ctx := context.Background()

	ok, err := store.Exists(ctx, "a.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Exists(ctx, "b.txt")
	require.NoError(t, err)
	assert.False(t, ok)
}
