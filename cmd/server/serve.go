package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/warp/wage-engine/api"
	"github.com/warp/wage-engine/config"
	"github.com/warp/wage-engine/drafts"
	"github.com/warp/wage-engine/metrics"
	"github.com/warp/wage-engine/store/redis"
	"github.com/warp/wage-engine/store/sqlite"
)

func newServeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "HTTP listen address")
	cmd.Flags().StringVar(&opts.draftBackend, "drafts", config.DraftBackendSQLite, "Draft backend: sqlite, redis or memory")
	return cmd
}

// serve runs the server until SIGINT or SIGTERM.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new connections
//  2. Wait for active requests to complete (30s timeout)
//  3. Stop the draft janitor, close Redis and the database
func serve(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := config.NewLogger(os.Stdout, cfg.LogLevel)

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer store.Close()

	table, err := loadRates(ctx, store, cfg.RatesFile, logger)
	if err != nil {
		return err
	}

	// Draft backend
	var draftStore drafts.Store
	switch cfg.DraftBackend {
	case config.DraftBackendRedis:
		client, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		draftStore = redis.NewDraftStore(client.Client, cfg.DraftTTL)
	case config.DraftBackendMemory:
		draftStore = drafts.NewMemory()
	default:
		draftStore = store
		janitor := api.NewDraftJanitor(store, cfg.DraftTTL, logger)
		janitor.Start()
		defer janitor.Stop()
	}

	handler := api.NewHandler(table, store, draftStore, metrics.New(prometheus.DefaultRegisterer), logger)
	router := api.NewRouter(handler, prometheus.DefaultGatherer, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"addr", cfg.Addr,
			"db", cfg.DBPath,
			"drafts", cfg.DraftBackend,
			"rates_versions", len(table.Versions()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
