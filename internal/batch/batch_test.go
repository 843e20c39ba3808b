package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/law-makers/partscrape/internal/sheet"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexFor(t *testing.T) {
	cases := []struct {
		page, perBatch, want int
	}{
		{1, 2000, 1},
		{2000, 2000, 1},
		{2001, 2000, 2},
		{4000, 2000, 2},
		{4001, 2000, 3},
		{1, 1, 1},
		{7, 1, 7},
		{5, 3, 2},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IndexFor(c.page, c.perBatch), "page=%d perBatch=%d", c.page, c.perBatch)
	}
}

func TestIndexFor_MonotonicStepEveryBatch(t *testing.T) {
	for _, perBatch := range []int{1, 2, 3, 7, 50} {
		prev := IndexFor(1, perBatch)
		require.Equal(t, 1, prev)
		for page := 2; page <= 500; page++ {
			got := IndexFor(page, perBatch)
			if (page-1)%perBatch == 0 {
				require.Equal(t, prev+1, got, "page=%d perBatch=%d", page, perBatch)
			} else {
				require.Equal(t, prev, got, "page=%d perBatch=%d", page, perBatch)
			}
			prev = got
		}
	}
}

func TestRollover(t *testing.T) {
	assert.False(t, Rollover(1, 1, 2000), "first page of a fresh run")
	assert.False(t, Rollover(2000, 1, 2000))
	assert.True(t, Rollover(2001, 1, 2000))
	assert.True(t, Rollover(2001, 2000, 2000))
	assert.False(t, Rollover(2001, 2001, 2000), "resume exactly on a batch boundary")
	assert.True(t, Rollover(3, 1, 2))
	assert.False(t, Rollover(4, 1, 2))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "scraped_data_batch_1.xlsx", FileName(1))
	assert.Equal(t, "scraped_data_batch_12.xlsx", FileName(12))
	assert.NotEqual(t, FileName(1), FileName(11))
}

func TestLoadOrCreate_New(t *testing.T) {
	m := NewManager(t.TempDir(), zerolog.Nop())

	b, err := m.LoadOrCreate(1)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, 1, b.Index)
	assert.Equal(t, 2, b.NextRow)
	assert.False(t, b.Reloaded)

	next, err := b.Append("P-1", "Bolt", "3")
	require.NoError(t, err)
	assert.Equal(t, 3, next)
	assert.True(t, b.Seen("P-1"))
	assert.Equal(t, 1, b.Written())

	require.NoError(t, m.Save(b))

	rows := readRows(t, m.Path(1))
	assert.Equal(t, [][]string{
		{"Part No", "Description", "Quantity"},
		{"P-1", "Bolt", "3"},
	}, rows)
}

func TestLoadOrCreate_ReloadAppendsAfterHighestRow(t *testing.T) {
	m := NewManager(t.TempDir(), zerolog.Nop())

	b, err := m.LoadOrCreate(3)
	require.NoError(t, err)
	_, err = b.Append("P-1", "Bolt", "3")
	require.NoError(t, err)
	_, err = b.Append("P-2", "Nut", "4")
	require.NoError(t, err)
	require.NoError(t, m.Save(b))
	require.NoError(t, b.Close())

	reloaded, err := m.LoadOrCreate(3)
	require.NoError(t, err)
	defer reloaded.Close()

	assert.True(t, reloaded.Reloaded)
	assert.Equal(t, 4, reloaded.NextRow)
	assert.False(t, reloaded.Seen("P-1"), "seen keys are not rebuilt from disk")

	_, err = reloaded.Append("P-3", "Washer", "5")
	require.NoError(t, err)
	require.NoError(t, m.Save(reloaded))

	rows := readRows(t, m.Path(3))
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"P-3", "Washer", "5"}, rows[3])
}

func TestLoadOrCreate_ReloadForeignSheetName(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, zerolog.Nop())

	book, err := sheet.Create("Sheet1")
	require.NoError(t, err)
	require.NoError(t, book.SetRow(1, "Part No", "Description", "Quantity"))
	require.NoError(t, book.SetRow(2, "P-1", "Bolt", "3"))
	require.NoError(t, book.Save(m.Path(4)))
	require.NoError(t, book.Close())

	b, err := m.LoadOrCreate(4)
	require.NoError(t, err)
	defer b.Close()
	assert.True(t, b.Reloaded)
	assert.Equal(t, 3, b.NextRow)
}

func TestLoadOrCreate_BatchesAreIndependent(t *testing.T) {
	m := NewManager(t.TempDir(), zerolog.Nop())

	first, err := m.LoadOrCreate(1)
	require.NoError(t, err)
	defer first.Close()
	_, err = first.Append("A1", "x", "1")
	require.NoError(t, err)
	require.NoError(t, m.Save(first))

	second, err := m.LoadOrCreate(2)
	require.NoError(t, err)
	defer second.Close()

	assert.Equal(t, 2, second.NextRow)
	assert.False(t, second.Seen("A1"))
}

func TestList_AndRemove(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, zerolog.Nop())

	for _, idx := range []int{10, 2} {
		b, err := m.LoadOrCreate(idx)
		require.NoError(t, err)
		for i := 0; i < idx; i++ {
			_, err := b.Append(string(rune('A'+i)), "d", "1")
			require.NoError(t, err)
		}
		require.NoError(t, m.Save(b))
		require.NoError(t, b.Close())
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.xlsx"), []byte("x"), 0644))

	infos, err := m.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, 2, infos[0].Index)
	assert.Equal(t, 2, infos[0].Rows)
	assert.Equal(t, 10, infos[1].Index)
	assert.Equal(t, 10, infos[1].Rows)

	n, err := m.Remove()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	infos, err = m.List()
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestList_MissingDir(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing"), zerolog.Nop())
	infos, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	wb, err := sheet.Open(path)
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.Rows()
	require.NoError(t, err)
	return rows
}
