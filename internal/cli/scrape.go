package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/law-makers/partscrape/pkg/models"
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape the catalog, resuming from the last checkpoint",
	Long: `Walks the catalog listing from the checkpointed page to the last page the
site reports. Each page's rows are appended to the batch file that owns the
page, skipping part numbers already written to that batch in this run.

The checkpoint is advanced only after a page's rows are saved. Rerun the
command after a failure or interrupt to continue.`,
	Example: `  # Scrape with a local headless Chrome
  partscrape scrape

  # Use a browser that is already running
  partscrape scrape --remote-url http://localhost:9222

  # Use playwright, smaller batches and a progress bar
  partscrape scrape --driver playwright --pages-per-batch 500 --progress`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().Bool("progress", false, "Show a page progress bar on stderr")
}

func runScrape(cmd *cobra.Command, args []string) error {
	a := GetApp(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}
	defer a.Close(context.Background())

	var bar *progressbar.ProgressBar
	onPage := func(p models.PageProgress) {
		if !a.Config.ShowProgress {
			return
		}
		if bar == nil {
			bar = newPageBar(cmd.ErrOrStderr(), p.Total-p.Start+1)
		}
		_ = bar.Add(1)
	}

	runner, err := a.NewRunner(cmd.Context(), onPage)
	if err != nil {
		return fmt.Errorf("failed to start scrape: %w", err)
	}

	sum, runErr := runner.Run(cmd.Context())
	if bar != nil {
		_ = bar.Finish()
	}
	if sum != nil {
		if err := writeSummary(cmd.OutOrStdout(), sum, a.Config.JSONLog, runErr); err != nil {
			return err
		}
	}
	return runErr
}

func newPageBar(w io.Writer, pages int) *progressbar.ProgressBar {
	return progressbar.NewOptions(pages,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("pages"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)
}
