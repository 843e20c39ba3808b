package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/law-makers/partscrape/internal/ui"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the checkpoint so the next run starts at page 1",
	Example: `  # Forget progress but keep the spreadsheets
  partscrape reset

  # Start over completely
  partscrape reset --all`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().Bool("all", false, "Also delete every batch file in the output directory")
}

func runReset(cmd *cobra.Command, args []string) error {
	a := GetApp(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}
	all, _ := cmd.Flags().GetBool("all")

	if err := a.Progress.Reset(); err != nil {
		return err
	}
	a.Logger.Info().Str("file", a.Progress.Path()).Msg("Checkpoint removed")
	fmt.Fprintln(cmd.OutOrStdout(), ui.Success("Checkpoint cleared"))

	if !all {
		return nil
	}
	n, err := a.Batches.Remove()
	if err != nil {
		return err
	}
	a.Logger.Info().Int("files", n).Str("dir", a.Config.OutputDir).Msg("Batch files removed")
	fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Removed %d batch files", n)))
	return nil
}
