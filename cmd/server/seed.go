package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	apperrors "inventory/internal/errors"
	"inventory/internal/service"
)

// SeedUserData is one user entry in a seed file.
type SeedUserData struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Register users from a JSON file or URL",
		Long: `Register every user listed in a JSON array of {"name","email","password"}
objects. Users whose email is already registered are skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			users, err := loadSeedUsers(cmd.Context(), source)
			if err != nil {
				return err
			}
			log.Info().Int("count", len(users)).Str("source", source).Msg("loaded seed users")

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			created, skipped, err := seedUsers(cmd.Context(), a.authService, users)
			if err != nil {
				return err
			}
			log.Info().Int("created", created).Int("skipped", skipped).Msg("seed completed")
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "path or http(s) URL of the seed JSON")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

// seedUsers registers users, skipping existing and invalid entries.
func seedUsers(ctx context.Context, auth service.AuthService, users []SeedUserData) (created, skipped int, err error) {
	for _, u := range users {
		_, err := auth.Register(ctx, service.RegisterInput{Name: u.Name, Email: u.Email, Password: u.Password})
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrValidation):
			log.Warn().Str("email", u.Email).Str("reason", err.Error()).Msg("skipping seed user")
			skipped++
		default:
			return created, skipped, fmt.Errorf("seed %s: %w", u.Email, err)
		}
	}
	return created, skipped, nil
}

func loadSeedUsers(ctx context.Context, source string) ([]SeedUserData, error) {
	var (
		body []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		body, err = fetchSeed(ctx, source)
	} else {
		body, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("read seed source: %w", err)
	}

	var users []SeedUserData
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("decode seed users: %w", err)
	}
	return users, nil
}

func fetchSeed(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
