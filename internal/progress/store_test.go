package progress

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ReadMissingDefaultsToFirstPage(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "progress.txt"))

	page, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, DefaultPage, page)
	assert.False(t, s.Exists())
}

func TestStore_WriteThenRead(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "progress.txt"))

	require.NoError(t, s.Write(41))
	require.NoError(t, s.Write(42))

	page, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, 42, page)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "42", string(data))
}

func TestStore_WriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "progress.txt"))

	for i := 1; i <= 5; i++ {
		require.NoError(t, s.Write(i))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "progress.txt", entries[0].Name())
}

func TestStore_ReadToleratesWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.txt")
	require.NoError(t, os.WriteFile(path, []byte(" 5\n"), 0644))

	page, err := NewStore(path).Read()
	require.NoError(t, err)
	assert.Equal(t, 5, page)
}

func TestStore_ReadCorrupt(t *testing.T) {
	for _, content := range []string{"", "abc", "0", "-3", "12abc"} {
		t.Run(content, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "progress.txt")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))

			_, err := NewStore(path).Read()
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestStore_WriteRejectsInvalidPage(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "progress.txt"))
	assert.Error(t, s.Write(0))
	assert.False(t, s.Exists())
}

func TestStore_Reset(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "progress.txt"))
	require.NoError(t, s.Reset())

	require.NoError(t, s.Write(9))
	require.NoError(t, s.Reset())
	assert.False(t, s.Exists())

	page, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, DefaultPage, page)
}
