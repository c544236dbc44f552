package local

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/docmind/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreFetch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.txt"), []byte("hello from the report"), 0644))

	store, err := NewStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	docID := DocID("report.txt")

	info, err := store.FetchMetadata(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, "report.txt", info.Name)
	assert.Equal(t, int64(len("hello from the report")), info.SizeBytes)
	assert.Contains(t, info.Mimetype, "text/plain")

	content, err := store.FetchContent(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello from the report"), content)
}

func TestStoreNotFound(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	_, err = store.FetchMetadata(ctx, DocID("missing.txt"))
	assert.True(t, errors.Is(err, source.ErrFileNotFound))

	_, err = store.FetchContent(ctx, DocID("missing.txt"))
	assert.True(t, errors.Is(err, source.ErrFileNotFound))
}

func TestStoreRefresh(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "late.txt"), []byte("added later"), 0644))

	_, err = store.FetchMetadata(context.Background(), DocID("late.txt"))
	assert.True(t, errors.Is(err, source.ErrFileNotFound))

	require.NoError(t, store.Refresh())

	info, err := store.FetchMetadata(context.Background(), DocID("late.txt"))
	require.NoError(t, err)
	assert.Equal(t, "late.txt", info.Name)
}
