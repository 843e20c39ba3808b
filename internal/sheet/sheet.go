// Package sheet wraps excelize behind the small workbook surface the batch
// writer needs: open, create, set cells, find the last used row, save.
package sheet

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Workbook is a single-sheet view of an xlsx file. All reads and writes go to
// the active sheet.
type Workbook struct {
	file  *excelize.File
	sheet string
}

// Create returns a new in-memory workbook whose only sheet is named title
func Create(title string) (*Workbook, error) {
	f := excelize.NewFile()
	current := f.GetSheetName(f.GetActiveSheetIndex())
	if title != "" && title != current {
		if err := f.SetSheetName(current, title); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to name sheet %q: %w", title, err)
		}
		current = title
	}
	return &Workbook{file: f, sheet: current}, nil
}

// Open loads an existing workbook from path
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return &Workbook{file: f, sheet: f.GetSheetName(f.GetActiveSheetIndex())}, nil
}

// SheetName returns the name of the active sheet
func (w *Workbook) SheetName() string {
	return w.sheet
}

// SetCell writes value at an A1-style address
func (w *Workbook) SetCell(addr string, value any) error {
	if err := w.file.SetCellValue(w.sheet, addr, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", addr, err)
	}
	return nil
}

// SetRow writes values into consecutive columns of row, starting at column A
func (w *Workbook) SetRow(row int, values ...any) error {
	addr, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := w.file.SetSheetRow(w.sheet, addr, &values); err != nil {
		return fmt.Errorf("failed to set row %d: %w", row, err)
	}
	return nil
}

// HighestRow returns the number of the last row holding data, or 0 for an empty sheet
func (w *Workbook) HighestRow() (int, error) {
	rows, err := w.file.GetRows(w.sheet)
	if err != nil {
		return 0, fmt.Errorf("failed to read rows: %w", err)
	}
	return len(rows), nil
}

// Rows returns every populated row as strings
func (w *Workbook) Rows() ([][]string, error) {
	return w.file.GetRows(w.sheet)
}

// Save writes the workbook to path through a temporary file in the same
// directory, then renames it over the destination.
func (w *Workbook) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary workbook: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := w.file.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close workbook: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace workbook %s: %w", path, err)
	}
	return nil
}

// Close releases resources held by excelize
func (w *Workbook) Close() error {
	return w.file.Close()
}
