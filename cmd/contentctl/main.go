package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"contentgw/internal/config"
	"contentgw/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "contentctl",
	Short:         "Build-time tooling for the content gateway",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// app carries what every subcommand needs; it is filled in before RunE.
var app struct {
	cfg *config.AppConfig
	log *zap.Logger
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		app.cfg = config.Load()
		log, err := logging.New(app.cfg.Log)
		if err != nil {
			return err
		}
		app.log = log
		return nil
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if app.log != nil {
		_ = app.log.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
