package sheet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_NamesSheet(t *testing.T) {
	wb, err := Create("Scraped Data")
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, "Scraped Data", wb.SheetName())

	n, err := wb.HighestRow()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSaveAndOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "book.xlsx")

	wb, err := Create("Scraped Data")
	require.NoError(t, err)
	require.NoError(t, wb.SetCell("A1", "Part No"))
	require.NoError(t, wb.SetRow(2, "P-1", "Bolt", "7"))
	require.NoError(t, wb.SetRow(3, "P-2", "Nut", "12"))
	require.NoError(t, wb.Save(path))
	require.NoError(t, wb.Close())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, "Scraped Data", reopened.SheetName())

	n, err := reopened.HighestRow()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, err := reopened.Rows()
	require.NoError(t, err)
	assert.Equal(t, []string{"P-2", "Nut", "12"}, rows[2])
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}
