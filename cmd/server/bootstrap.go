package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/warp/wage-engine/config"
	"github.com/warp/wage-engine/statute"
	"github.com/warp/wage-engine/store/sqlite"
)

// loadConfig reads the environment and applies the flag overrides.
func loadConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if err := opts.apply(cmd, &cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// loadRates stores the versions of the optional rates file, then returns the
// built-in table overlaid with everything stored.
func loadRates(ctx context.Context, store *sqlite.Store, ratesFile string, logger *slog.Logger) (*statute.Table, error) {
	if ratesFile != "" {
		data, err := os.ReadFile(ratesFile)
		if err != nil {
			return nil, fmt.Errorf("read rates file: %w", err)
		}
		extra, err := statute.ParseTable(data)
		if err != nil {
			return nil, fmt.Errorf("rates file %s: %w", ratesFile, err)
		}
		for _, r := range extra.Versions() {
			if err := store.SaveRates(ctx, r); err != nil {
				return nil, fmt.Errorf("store rates %s: %w", r.Version, err)
			}
		}
		logger.Info("rates file loaded", "path", ratesFile, "versions", len(extra.Versions()))
	}

	return store.Table(ctx)
}
