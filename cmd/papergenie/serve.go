package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/papergenie/internal/observability"
	"github.com/pdiddy/papergenie/internal/server"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pipeline over HTTP",
	Long: `Serve starts an HTTP API:

  POST /api/v1/summaries   {"query": "...", "count": 3}  runs the pipeline
  GET  /api/v1/report      downloads the last report
  GET  /healthz            liveness
  GET  /metrics            Prometheus metrics

Runs are processed one at a time. The server stops gracefully on SIGINT or
SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := observability.NewLogger(cfg.Log, cmd.ErrOrStderr())

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	srv := server.New(cfg.Server, a.pipeline, a.metrics, a.registry, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	printer.Info("Listening on %s (report: %s)", cfg.Server.Addr, a.report.Path())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-errCh
}
