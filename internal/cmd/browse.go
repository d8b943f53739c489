package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/petrarca/techstack-lens/internal/browser"
	"github.com/petrarca/techstack-lens/internal/nav"
	"github.com/petrarca/techstack-lens/internal/presenter"
	"github.com/spf13/cobra"
)

var browseExportDir string
var browseStart string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the dataset interactively",
	Long: `Start a line-mode browser over the dataset. Navigate between the home,
category and technology views, search everything, collapse sections and
export technology records. Type "help" inside the browser for commands.

Examples:
  techstack-lens browse
  techstack-lens browse --start /category/Databases/tech/Redis
  techstack-lens browse --indexed --export-dir /tmp`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
	browseCmd.Flags().StringVar(&browseExportDir, "export-dir", ".", "Directory the export command writes to")
	browseCmd.Flags().StringVar(&browseStart, "start", nav.Home().Location(), "Location to open first")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}

	session := browser.NewSession(ds, newSearcher(ds.Categories()))
	if err := session.Open(browseStart); err != nil {
		return err
	}
	if session.Current() != nav.Home() {
		reporter.Info("Opening " + session.Current().Location())
	}

	out := cmd.OutOrStdout()
	shell := browser.NewShell(session, presenter.New(presenter.NewStyles(out)), logger)
	shell.SetExportDir(browseExportDir)
	shell.SetProgress(reporter)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("Browser started", "start", browseStart, "searcher", searcherName())
	err = shell.Run(ctx, cmd.InOrStdin(), out)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
