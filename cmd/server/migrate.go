package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"inventory/internal/db"
	"inventory/internal/model"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			gormDB, err := db.NewMySQL(cfg.MySQLDSN)
			if err != nil {
				return err
			}

			if reset {
				log.Warn().Msg("dropping all tables")
				for _, table := range []interface{}{&model.ResetToken{}, &model.User{}} {
					if err := gormDB.Migrator().DropTable(table); err != nil {
						log.Warn().Err(err).Msg("failed to drop table (may not exist)")
					}
				}
			}

			if err := db.Migrate(gormDB); err != nil {
				return err
			}
			log.Info().Msg("database migrations completed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "drop all tables before migrating")
	return cmd
}
