package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/law-makers/partscrape/internal/batch"
	"github.com/law-makers/partscrape/internal/ui"
	"github.com/law-makers/partscrape/pkg/models"
)

// writeSummary prints the outcome of a scrape run
func writeSummary(w io.Writer, sum *models.Summary, asJSON bool, runErr error) error {
	if asJSON {
		out := struct {
			*models.Summary
			Error string `json:"error,omitempty"`
		}{Summary: sum}
		if runErr != nil {
			out.Error = runErr.Error()
		}
		return json.NewEncoder(w).Encode(out)
	}

	fmt.Fprintf(w, "\n%s\n", ui.Bold("Scrape summary"))
	if sum.CompletedPages > 0 {
		fmt.Fprintln(w, ui.Field("Pages", fmt.Sprintf("%d-%d of %d", sum.StartPage, sum.LastPage, sum.TotalPages)))
	} else {
		fmt.Fprintln(w, ui.Field("Pages", fmt.Sprintf("none completed (started at %d of %d)", sum.StartPage, sum.TotalPages)))
	}
	fmt.Fprintln(w, ui.Field("Batches", joinInts(sum.Batches)))
	fmt.Fprintln(w, ui.Field("Rows written", sum.RowsWritten))
	fmt.Fprintln(w, ui.Field("Duplicates", sum.Duplicates))
	fmt.Fprintln(w, ui.Field("Short rows", sum.ShortRows))
	if sum.SkippedRows > 0 {
		fmt.Fprintln(w, ui.Field("Skipped rows", ui.Warn(strconv.Itoa(sum.SkippedRows))))
	}
	if sum.BlankKeys > 0 {
		fmt.Fprintln(w, ui.Field("Blank keys", ui.Warn(strconv.Itoa(sum.BlankKeys))))
	}
	if sum.Consent != "" {
		fmt.Fprintln(w, ui.Field("Consent", sum.Consent))
	}
	fmt.Fprintln(w, ui.Field("Duration", sum.Duration.Round(time.Millisecond)))
	if sum.RunID != "" {
		fmt.Fprintln(w, ui.Field("Run", ui.Info(sum.RunID)))
	}

	if runErr != nil {
		fmt.Fprintf(w, "  %s\n\n", ui.Error("Stopped: "+runErr.Error()))
	} else {
		fmt.Fprintf(w, "  %s\n\n", ui.Success("Scraping complete. Data saved to batch files."))
	}
	return nil
}

// statusReport describes the checkpoint and batch files on disk
type statusReport struct {
	ProgressFile  string       `json:"progress_file"`
	HasCheckpoint bool         `json:"has_checkpoint"`
	NextPage      int          `json:"next_page"`
	NextBatch     int          `json:"next_batch"`
	OutputDir     string       `json:"output_dir"`
	Batches       []batch.Info `json:"batches"`
	TotalRows     int          `json:"total_rows"`
}

func writeStatus(w io.Writer, r statusReport, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(r)
	}

	fmt.Fprintf(w, "\n%s\n", ui.Bold("Checkpoint"))
	if r.HasCheckpoint {
		fmt.Fprintf(w, "  %s resumes at page %d (batch %d)\n", r.ProgressFile, r.NextPage, r.NextBatch)
	} else {
		fmt.Fprintf(w, "  %s\n", ui.Info("no checkpoint, next run starts at page 1"))
	}

	fmt.Fprintf(w, "\n%s\n", ui.Bold("Batch files"))
	if len(r.Batches) == 0 {
		fmt.Fprintf(w, "  %s\n\n", ui.Info("none in "+r.OutputDir))
		return nil
	}
	for _, b := range r.Batches {
		fmt.Fprintf(w, "  %-4d %-40s %d rows\n", b.Index, b.Path, b.Rows)
	}
	fmt.Fprintf(w, "  %s\n\n", ui.Success(fmt.Sprintf("%d rows in %d files", r.TotalRows, len(r.Batches))))
	return nil
}

func joinInts(values []int) string {
	if len(values) == 0 {
		return "-"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
