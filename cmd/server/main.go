package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/driftroom/driftroom-server/internal/app"
	"github.com/driftroom/driftroom-server/internal/config"
	"github.com/driftroom/driftroom-server/internal/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		flagConfig   string
		flagAddr     string
		flagLogLevel string
	)

	root := &cobra.Command{
		Use:           "driftroom-server",
		Short:         "Ephemeral key-coded chat room server",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(flagLogLevel)

			cfg, path, err := config.Load(logger, flagConfig)
			if err != nil {
				return err
			}
			if flagAddr != "" {
				cfg.Addr = flagAddr
			}
			if flagLogLevel == "" && cfg.LogLevel != "" {
				logger = log.New(cfg.LogLevel)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application := app.New(&cfg, logger)

			logger.Info().Str("addr", cfg.Addr).Str("config", path).Msg("starting driftroom server")
			if err := application.Run(ctx); err != nil {
				logger.Error().Err(err).Msg("server exited with error")
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	root.Flags().StringVarP(&flagConfig, "config", "c", "", "path to config file")
	root.Flags().StringVarP(&flagAddr, "addr", "a", "", "HTTP listen address (overrides config)")
	root.Flags().StringVarP(&flagLogLevel, "log-level", "l", "", "log level: debug, info, warn, error")

	return root
}
