package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestConfigStore_GetMissingKey(t *testing.T) {
	store := newTestStore(t)

	_, ok := store.Get("reader.books_dir")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("reader.books_dir"))
	assert.False(t, store.GetBool("reader.verbose"))
}

func TestConfigStore_SetPersistsImmediately(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("reader.books_dir", "/media/books"))
	require.NoError(t, store.Set("reader.verbose", true))

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "/media/books", reloaded.GetString("reader.books_dir"))
	assert.True(t, reloaded.GetBool("reader.verbose"))
}

func TestConfigStore_DotKeysBecomeTables(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("reader.highlight_color", "blue"))

	raw, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[reader]")
	assert.Contains(t, string(raw), "highlight_color = 'blue'")
}

func TestConfigStore_WrongTypeReadsZeroValue(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("reader.verbose", "yes"))
	assert.False(t, store.GetBool("reader.verbose"))

	require.NoError(t, store.Set("reader.books_dir", 42))
	assert.Empty(t, store.GetString("reader.books_dir"))
}

func TestConfigStore_LoadMissingFileStartsEmpty(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Load())

	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_Path(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}
