package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/law-makers/partscrape/internal/batch"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the checkpoint and the batch files written so far",
	Example: `  partscrape status
  partscrape status --json --output-dir ./out`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a := GetApp(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	page, err := a.Progress.Read()
	if err != nil {
		return err
	}
	infos, err := a.Batches.List()
	if err != nil {
		return err
	}

	report := statusReport{
		ProgressFile:  a.Progress.Path(),
		HasCheckpoint: a.Progress.Exists(),
		NextPage:      page,
		NextBatch:     batch.IndexFor(page, a.Config.PagesPerBatch),
		OutputDir:     a.Config.OutputDir,
		Batches:       infos,
	}
	if report.Batches == nil {
		report.Batches = []batch.Info{}
	}
	for _, info := range infos {
		report.TotalRows += info.Rows
	}
	return writeStatus(cmd.OutOrStdout(), report, a.Config.JSONLog)
}
