package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/api"
	"github.com/pable/go-football-metrics/internal/logger"
	"github.com/pable/go-football-metrics/internal/metrics"
)

var (
	serveAddr      string
	serveNoMetrics bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored runs over a read-only JSON API",
	Long: `Start an HTTP server over the metrics database.

Endpoints:
  GET /health
  GET /metrics                            Prometheus exposition
  GET /api/v1/runs
  GET /api/v1/players?run=&view=&team=&limit=
  GET /api/v1/players/{name}?run=
  GET /api/v1/leaders/{metric}?run=&n=&min_passes=
  GET /api/v1/summary?run=&n=
  GET /api/v1/teams?run=
  GET /api/v1/similar/{name}?run=&role=&n=&min_matches=

run is a run ID prefix; the latest run is used when it is omitted.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default addr from config)")
	serveCmd.Flags().BoolVar(&serveNoMetrics, "no-metrics", false, "do not expose /metrics")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.Named("serve")

	addr := serveAddr
	if addr == "" {
		addr = cfg.Addr
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	opts := api.Options{
		AllowedOrigins: cfg.Origins(),
		Defaults: api.Defaults{
			TopN:        cfg.TopN,
			SummaryTopN: cfg.SummaryTopN,
			MinPasses:   cfg.MinPassesForAccuracy,
		},
	}
	if !serveNoMetrics {
		opts.Metrics = metrics.NewManager()
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(db, opts),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "server starting", logger.String("addr", addr), logger.String("db", dbPath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info(context.Background(), "server stopped")
	return nil
}
