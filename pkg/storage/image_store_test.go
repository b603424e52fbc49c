package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimal valid PNG header so DetectContentType sniffs image/png
func pngBytes(size int) []byte {
	header := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	if size < len(header) {
		return header
	}
	return append(header, bytes.Repeat([]byte{0}, size-len(header))...)
}

func TestImageStoreStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewImageStore(dir, "http://localhost:8080/uploads/", 1024)
	require.NoError(t, err)

	url, err := store.Store(pngBytes(100), "events")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/events/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	entries, err := os.ReadDir(filepath.Join(dir, "events"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestImageStoreRejectsNonImage(t *testing.T) {
	store, err := NewImageStore(t.TempDir(), "http://localhost/uploads", 1024)
	require.NoError(t, err)

	_, err = store.Store([]byte("definitely not an image payload"), "events")
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestImageStoreRejectsOversized(t *testing.T) {
	store, err := NewImageStore(t.TempDir(), "http://localhost/uploads", 64)
	require.NoError(t, err)

	_, err = store.Store(pngBytes(128), "events")
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestImageStoreDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewImageStore(dir, "http://localhost/uploads", 1024)
	require.NoError(t, err)

	url, err := store.Store(pngBytes(64), "profiles")
	require.NoError(t, err)
	require.NoError(t, store.Delete(url))

	entries, err := os.ReadDir(filepath.Join(dir, "profiles"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
