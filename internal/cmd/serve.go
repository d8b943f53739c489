package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/petrarca/techstack-lens/internal/config"
	"github.com/petrarca/techstack-lens/internal/metrics"
	"github.com/petrarca/techstack-lens/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dataset as a read-only JSON API",
	Long: `Serve categories, technology records, exports and search over HTTP.

Endpoints:
  GET /api/categories
  GET /api/categories/{category}
  GET /api/categories/{category}/techs/{tech}
  GET /api/categories/{category}/techs/{tech}/export
  GET /api/search?q=<query>
  GET /healthz
  GET /metrics

The server stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: $"+config.EnvPrefix+"ADDR or "+config.DefaultAddr+")")
}

func runServe(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}

	addr := settings.Addr
	if cmd.Flags().Changed("addr") {
		addr = serveAddr
	}

	searcher := metrics.InstrumentSearcher(newSearcher(ds.Categories()), searcherName())
	srv := server.New(ds, searcher, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "Serving %s on http://%s\n", ds.Source(), addr)
	return srv.Run(ctx, addr)
}
