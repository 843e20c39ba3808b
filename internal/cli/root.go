package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/partscrape/internal/app"
	"github.com/law-makers/partscrape/internal/config"
	"github.com/law-makers/partscrape/internal/ui"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "partscrape",
	Short: "Resumable catalog scraper that writes batched spreadsheets",
	Long: `Partscrape drives a browser through a paginated parts catalog, extracts the
product table on every page and appends unseen part numbers to numbered xlsx
batch files.

Progress is checkpointed after every page, so an interrupted run picks up
where it stopped when started again.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with ctx and exits non-zero on failure.
// This is called by main.main().
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Msg("Interrupted, progress is saved up to the last completed page")
		} else {
			log.Error().Err(err).Msg("An error occurred")
		}
		os.Exit(1)
	}
}

func init() {
	// Initialize the application before running commands (skipped for -h/help)
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}
		if cfg.JSONLog {
			ui.SetEnabled(false)
		}

		a, err := app.New(cmd.Context(), cfg, logOutput(cmd, cfg))
		if err != nil {
			return err
		}
		SetApp(cmd, a)
		return nil
	}

	// Ensure app is closed after command runs
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		a := GetApp(cmd)
		if a == nil {
			return nil
		}
		return a.Close(context.Background())
	}
}

// logOutput sends JSON logs to stderr so stdout carries only the command's JSON result
func logOutput(cmd *cobra.Command, cfg *config.Config) io.Writer {
	if cfg.JSONLog {
		return cmd.ErrOrStderr()
	}
	return cmd.OutOrStdout()
}

func init() {
	// Register centralized flags
	config.RegisterFlags(rootCmd)

	rootCmd.Flags().BoolP("help", "h", false, "Help for partscrape")
	rootCmd.Flags().Bool("version", false, "Version for partscrape")

	// Disable the default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpFunc(customHelpFunc)
}
