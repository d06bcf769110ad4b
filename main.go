package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tupyy/fleet-agent/cmd"
	"github.com/tupyy/fleet-agent/internal/config"
	"github.com/tupyy/fleet-agent/pkg/logger"
)

func main() {
	// default configuration
	cfg := config.NewConfigurationWithOptionsAndDefaults(
		config.WithLogFormat(logger.FormatConsole),
		config.WithLogLevel("info"),
	)

	var undo func()
	rootCmd := &cobra.Command{
		Use:           "fleet-agent",
		Short:         "Keeps a fleet of logged-in browser sessions running the agent extension",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Validate(cfg.LogFormat, cfg.LogLevel); err != nil {
				return err
			}
			l, err := logger.Init(cfg.LogFormat, cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			undo = zap.ReplaceGlobals(l)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
			if undo != nil {
				undo()
			}
		},
	}
	registerLoggingFlags(rootCmd, cfg)

	rootCmd.AddCommand(cmd.NewRunCommand(cfg))
	rootCmd.AddCommand(cmd.NewLoginCommand(cfg))
	rootCmd.AddCommand(cmd.NewUpdateCommand(cfg))

	if err := rootCmd.Execute(); err != nil {
		zap.S().Errorw("fleet-agent failed", "error", err)
		_ = zap.L().Sync()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func registerLoggingFlags(cmd *cobra.Command, config *config.Configuration) {
	cmd.PersistentFlags().StringVar(&config.LogFormat, "log-format", config.LogFormat, "format of the logs: console or json")
	cmd.PersistentFlags().StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")
}
