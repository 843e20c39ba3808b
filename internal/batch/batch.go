// Package batch groups consecutive catalog pages into numbered xlsx files and
// tracks the next writable row of the file that is currently open.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/law-makers/partscrape/internal/dedup"
	"github.com/law-makers/partscrape/internal/sheet"
	"github.com/rs/zerolog"
)

const (
	// SheetTitle is the name of the single sheet in every batch file
	SheetTitle = "Scraped Data"
	// HeaderRow holds the column titles; data starts on the row after it
	HeaderRow = 1
)

// Header lists the output columns in order
var Header = []string{"Part No", "Description", "Quantity"}

var fileNamePattern = regexp.MustCompile(`^scraped_data_batch_(\d+)\.xlsx$`)

// IndexFor maps a 1-based page number to its 1-based batch index
func IndexFor(page, pagesPerBatch int) int {
	return (page-1)/pagesPerBatch + 1
}

// Rollover reports whether page opens a new batch during a run that started at startPage.
// The first page of a run never rolls over; its batch is opened at startup.
func Rollover(page, startPage, pagesPerBatch int) bool {
	return (page-1)%pagesPerBatch == 0 && page > startPage
}

// FileName returns the file name for a batch index
func FileName(index int) string {
	return fmt.Sprintf("scraped_data_batch_%d.xlsx", index)
}

// Batch is one open batch file plus the state of the current session on it.
type Batch struct {
	Index    int
	NextRow  int
	Reloaded bool

	book    *sheet.Workbook
	seen    *dedup.Set
	written int
}

// Seen reports whether key has been appended during this session
func (b *Batch) Seen(key string) bool {
	return b.seen.Seen(key)
}

// Append writes one row at the cursor, marks key as seen, and returns the next cursor.
func (b *Batch) Append(key, description, quantity string) (int, error) {
	if err := b.book.SetRow(b.NextRow, key, description, quantity); err != nil {
		return b.NextRow, err
	}
	b.seen.MarkSeen(key)
	b.NextRow++
	b.written++
	return b.NextRow, nil
}

// Written returns how many rows this session appended
func (b *Batch) Written() int {
	return b.written
}

// Close releases the underlying workbook
func (b *Batch) Close() error {
	return b.book.Close()
}

// Info describes a batch file found on disk
type Info struct {
	Index int    `json:"index"`
	Path  string `json:"path"`
	Rows  int    `json:"rows"`
}

// Manager opens, creates and saves batch files inside one directory
type Manager struct {
	dir    string
	logger zerolog.Logger
}

// NewManager creates a manager rooted at dir
func NewManager(dir string, logger zerolog.Logger) *Manager {
	if dir == "" {
		dir = "."
	}
	return &Manager{dir: dir, logger: logger}
}

// Path returns the full path of the batch file for index
func (m *Manager) Path(index int) string {
	return filepath.Join(m.dir, FileName(index))
}

// LoadOrCreate opens the batch file for index if it exists, positioning the
// cursor after its last row, or creates a new file with a header row.
// The returned batch always starts with an empty seen-key set.
func (m *Manager) LoadOrCreate(index int) (*Batch, error) {
	path := m.Path(index)

	if _, err := os.Stat(path); err == nil {
		book, err := sheet.Open(path)
		if err != nil {
			return nil, err
		}
		highest, err := book.HighestRow()
		if err != nil {
			book.Close()
			return nil, err
		}
		if highest < HeaderRow {
			highest = HeaderRow
		}
		if name := book.SheetName(); name != SheetTitle {
			m.logger.Warn().Str("file", path).Str("sheet", name).Msg("Batch file has an unexpected sheet name, appending to it anyway")
		}

		m.logger.Info().Str("file", path).Int("next_row", highest+1).Msg("Loading existing batch file")
		return &Batch{
			Index:    index,
			NextRow:  highest + 1,
			Reloaded: true,
			book:     book,
			seen:     dedup.New(),
		}, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat batch file %s: %w", path, err)
	}

	book, err := sheet.Create(SheetTitle)
	if err != nil {
		return nil, err
	}
	for i, h := range Header {
		if err := book.SetCell(fmt.Sprintf("%c%d", 'A'+i, HeaderRow), h); err != nil {
			book.Close()
			return nil, err
		}
	}

	m.logger.Info().Str("file", path).Msg("Creating new batch file")
	return &Batch{
		Index:   index,
		NextRow: HeaderRow + 1,
		book:    book,
		seen:    dedup.New(),
	}, nil
}

// Save persists b to its deterministic file name
func (m *Manager) Save(b *Batch) error {
	path := m.Path(b.Index)
	if err := b.book.Save(path); err != nil {
		return fmt.Errorf("failed to save batch %d: %w", b.Index, err)
	}
	m.logger.Debug().Str("file", path).Int("next_row", b.NextRow).Msg("Batch saved")
	return nil
}

// List returns the batch files present in the directory ordered by index
func (m *Manager) List() ([]Info, error) {
	infos, err := m.scan()
	if err != nil {
		return nil, err
	}
	for i := range infos {
		book, err := sheet.Open(infos[i].Path)
		if err != nil {
			return nil, err
		}
		highest, err := book.HighestRow()
		book.Close()
		if err != nil {
			return nil, err
		}
		if highest > HeaderRow {
			infos[i].Rows = highest - HeaderRow
		}
	}
	return infos, nil
}

// Remove deletes every batch file in the directory and returns how many were removed
func (m *Manager) Remove() (int, error) {
	infos, err := m.scan()
	if err != nil {
		return 0, err
	}
	for i, info := range infos {
		if err := os.Remove(info.Path); err != nil {
			return i, fmt.Errorf("failed to remove %s: %w", info.Path, err)
		}
	}
	return len(infos), nil
}

// scan finds batch files by name without opening them
func (m *Manager) scan() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", m.dir, err)
	}

	var infos []Info
	for _, e := range entries {
		match := fileNamePattern.FindStringSubmatch(e.Name())
		if e.IsDir() || match == nil {
			continue
		}
		index, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		infos = append(infos, Info{Index: index, Path: filepath.Join(m.dir, e.Name())})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Index < infos[j].Index })
	return infos, nil
}
