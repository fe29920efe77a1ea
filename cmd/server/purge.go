package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"inventory/internal/jobs"
)

// NewPurgeCmd creates the purge-reset-tokens subcommand.
func NewPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge-reset-tokens",
		Short: "Delete expired password reset tokens once and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			purger, err := jobs.NewResetTokenPurger(a.resetRepo, cfg.ResetPurgeSchedule)
			if err != nil {
				return err
			}
			n, err := purger.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			log.Info().Int64("deleted", n).Msg("expired reset tokens purged")
			return nil
		},
	}
}
