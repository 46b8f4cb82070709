package storage

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagerCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "downloads")
	manager, err := NewManager(dir, false)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dir, manager.OutputDir())
	assert.Zero(t, manager.StoredCount())
}

func TestNewManagerIndexesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old_1.jpg"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old_2.mp4"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	manager, err := NewManager(dir, false)
	require.NoError(t, err)

	assert.Equal(t, 2, manager.StoredCount(), "directories are not indexed")
	assert.True(t, manager.IsStored("old_1.jpg"))
	assert.True(t, manager.IsStored("old_2.mp4"))
	assert.False(t, manager.IsStored("subdir"))
	assert.False(t, manager.IsStored("new.jpg"))
}

func TestIsStoredOverwriteBypass(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "existing.jpg"), []byte("x"), 0o644))

	manager, err := NewManager(dir, true)
	require.NoError(t, err)

	assert.False(t, manager.IsStored("existing.jpg"), "overwrite mode ignores existing files")
}

func TestIsStoredPicksUpFilesWrittenBehindItsBack(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir, false)
	require.NoError(t, err)

	require.False(t, manager.IsStored("late.jpg"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "late.jpg"), []byte("x"), 0o644))
	assert.True(t, manager.IsStored("late.jpg"))
}

func TestSaveAsset(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir, false)
	require.NoError(t, err)

	payload := "fake video bytes"
	require.NoError(t, manager.SaveAsset(strings.NewReader(payload), "clip_1.mp4"))

	data, err := os.ReadFile(filepath.Join(dir, "clip_1.mp4"))
	require.NoError(t, err)
	assert.Equal(t, payload, string(data))

	assert.True(t, manager.IsStored("clip_1.mp4"))
	assert.Equal(t, 1, manager.StoredCount())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no leftover temporary files")
}

func TestSaveAssetFailedReadLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir, false)
	require.NoError(t, err)

	err = manager.SaveAsset(failingReader{}, "broken.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write asset data")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.False(t, manager.IsStored("broken.jpg"))
}

func TestSaveAssetConcurrent(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir, false)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			name := "asset_" + string(rune('a'+n)) + ".jpg"
			_ = manager.SaveAsset(strings.NewReader("data"), name)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, manager.StoredCount())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, os.ErrClosed
}
