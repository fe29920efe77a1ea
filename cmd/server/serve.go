package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"inventory/docs" // swagger docs
	"inventory/internal/db"
	"inventory/internal/jobs"
	"inventory/internal/router"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var (
		port        string
		skipMigrate bool
		noPurge     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server. Tables are migrated on startup and expired
reset tokens are purged in the background on RESET_PURGE_SCHEDULE.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.ServerPort = port
			}

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if !skipMigrate {
				if err := db.Migrate(a.db); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := a.cache.Ping(ctx); err != nil {
				log.Warn().Err(err).Msg("redis unavailable, profile cache disabled until it recovers")
			}

			if !noPurge {
				purger, err := jobs.NewResetTokenPurger(a.resetRepo, cfg.ResetPurgeSchedule)
				if err != nil {
					return err
				}
				purger.Start()
				defer purger.Stop()
			}

			if cfg.SwaggerHost != "" {
				docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
			}

			e := echo.New()
			authHandler, userHandler, contactHandler := a.handlers()
			router.Register(e, cfg, a.jwt, authHandler, userHandler, contactHandler)

			return run(ctx, e, ":"+cfg.ServerPort)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port; overrides SERVER_PORT")
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not migrate tables on startup")
	cmd.Flags().BoolVar(&noPurge, "no-purge", false, "do not run the reset token purger")

	return cmd
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
