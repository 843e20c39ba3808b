package models

import "time"

// MinCells is the number of cells a table row needs before it counts as a product row.
const MinCells = 4

// Record holds the raw cell texts of one extracted table row, in document order.
type Record struct {
	Cells []string `json:"cells"`
}

// Valid reports whether the record carries enough cells to be written.
func (r Record) Valid() bool {
	return len(r.Cells) >= MinCells
}

// PartNo is the deduplication key (first cell).
func (r Record) PartNo() string { return r.cell(0) }

// Description is the second cell.
func (r Record) Description() string { return r.cell(1) }

// Quantity is the fourth cell. The third cell is not exported.
func (r Record) Quantity() string { return r.cell(3) }

func (r Record) cell(i int) string {
	if i < len(r.Cells) {
		return r.Cells[i]
	}
	return ""
}

// Summary describes the outcome of one scrape run
type Summary struct {
	RunID          string        `json:"run_id"`
	StartPage      int           `json:"start_page"`
	LastPage       int           `json:"last_page"`
	TotalPages     int           `json:"total_pages"`
	Batches        []int         `json:"batches"`
	RowsWritten    int           `json:"rows_written"`
	Duplicates     int           `json:"duplicates"`
	ShortRows      int           `json:"short_rows"`
	SkippedRows    int           `json:"skipped_rows"`
	BlankKeys      int           `json:"blank_keys"`
	Consent        string        `json:"consent"`
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration_ns"`
	CompletedPages int           `json:"completed_pages"`
}

// PageProgress is reported after every completed page
type PageProgress struct {
	Page  int
	Start int
	Total int
	Rows  int
}
