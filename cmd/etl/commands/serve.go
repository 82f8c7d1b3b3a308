package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"commerce-etl-lab/internal/queryservice"
	pgstore "commerce-etl-lab/internal/warehouse/postgres"
)

// serveCmd starts the read-only query service over the warehouse.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analytics query API",
	Long: `Start the HTTP query service over the loaded star schema.

Endpoints:
  GET /health              - liveness and database reachability
  GET /metrics             - Prometheus metrics
  GET /api/orders          - processed orders (limit query param)
  GET /api/orders/{id}     - single order by ID
  GET /api/customers/top   - customers ranked by revenue
  GET /api/summary         - dataset totals

Example:
  etl serve --addr :8080`,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides HTTP_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	log := newLogger(cfg)
	ctx := cmd.Context()

	if serveAddr != "" {
		cfg.HTTPAddr = serveAddr
	}
	if cfg.PostgresDSN == "" {
		return fmt.Errorf("postgres DSN required: set POSTGRES_DSN")
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	svc := queryservice.NewServer(pool, log)
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      svc.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("query service listening")
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}

	return nil
}
