package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"contentgw/internal/config"
	"contentgw/internal/contentstore"
	"contentgw/internal/contentsync"
	"contentgw/internal/markdown"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull every published post from the gateway into the local content store",
	RunE:  runSync,
}

var syncCmdFlags struct {
	output string
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVarP(&syncCmdFlags.output, "output", "o", "",
		"snapshot file to write (defaults to SYNC_OUTPUT)")
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg := app.cfg.Sync
	if syncCmdFlags.output != "" {
		cfg.OutputPath = syncCmdFlags.output
	}
	report, err := syncOnce(cmd.Context(), cfg, app.log)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d of %d posts written to %s\n",
		report.State, report.Loaded, report.Listed, cfg.OutputPath)
	return nil
}

// syncOnce runs one pipeline under the output lock and persists the result.
func syncOnce(ctx context.Context, cfg config.SyncConfig, log *zap.Logger) (*contentsync.Report, error) {
	unlock, err := contentstore.Lock(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", cfg.OutputPath, err)
	}
	defer unlock()

	var fetcher contentsync.Fetcher
	if cfg.GatewayURL != "" {
		fetcher = contentsync.NewClient(cfg, log)
	}
	store := contentstore.New()
	report, err := contentsync.NewPipeline(fetcher, markdown.New(), store, cfg, log).Run(ctx)
	if err != nil {
		return report, fmt.Errorf("sync failed: %w", err)
	}
	if err := store.Persist(cfg.OutputPath, time.Now()); err != nil {
		return report, err
	}
	return report, nil
}
