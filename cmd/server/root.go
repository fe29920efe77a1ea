package main

import (
	"github.com/spf13/cobra"

	"inventory/internal/config"
	"inventory/internal/logger"
)

// Global flags available to all subcommands.
var (
	logLevel  string
	logPretty bool
)

// NewRootCmd creates the root command for the inventory CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Inventory API server",
		Long: `Inventory serves user registration, sessions, profile management
and password reset for the inventory application.

Configuration is read from the environment; flags override it.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")
	cmd.PersistentFlags().BoolVar(&logPretty, "log-pretty", false, "human readable console logs; overrides LOG_PRETTY")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewPurgeCmd())

	return cmd
}

// loadConfig reads the environment, applies global flag overrides, validates and initialises logging.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Load()
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("log-pretty") {
		cfg.LogPretty = logPretty
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
