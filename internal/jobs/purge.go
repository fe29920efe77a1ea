package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"inventory/internal/repository"
)

// DefaultPurgeSchedule runs the purge every quarter hour.
const DefaultPurgeSchedule = "@every 15m"

// ResetTokenPurger removes expired password reset tokens on a cron schedule.
type ResetTokenPurger struct {
	tokens  repository.ResetTokenRepository
	cron    *cron.Cron
	timeout time.Duration
	now     func() time.Time
}

// NewResetTokenPurger registers the purge on schedule. It does not start the scheduler.
func NewResetTokenPurger(tokens repository.ResetTokenRepository, schedule string) (*ResetTokenPurger, error) {
	if schedule == "" {
		schedule = DefaultPurgeSchedule
	}
	p := &ResetTokenPurger{
		tokens:  tokens,
		cron:    cron.New(),
		timeout: 30 * time.Second,
		now:     time.Now,
	}
	if _, err := p.cron.AddFunc(schedule, p.run); err != nil {
		return nil, fmt.Errorf("invalid purge schedule %q: %w", schedule, err)
	}
	return p, nil
}

// Start begins running the purge in the background.
func (p *ResetTokenPurger) Start() {
	log.Info().Msg("starting reset token purger")
	p.cron.Start()
}

// Stop halts the scheduler and waits for a running purge to finish.
func (p *ResetTokenPurger) Stop() {
	<-p.cron.Stop().Done()
	log.Info().Msg("reset token purger stopped")
}

// RunOnce deletes every token that has expired and returns how many were removed.
func (p *ResetTokenPurger) RunOnce(ctx context.Context) (int64, error) {
	n, err := p.tokens.DeleteExpired(ctx, p.now())
	if err != nil {
		return 0, fmt.Errorf("purge expired reset tokens: %w", err)
	}
	return n, nil
}

func (p *ResetTokenPurger) run() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	n, err := p.RunOnce(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reset token purge failed")
		return
	}
	log.Debug().Int64("deleted", n).Msg("expired reset tokens purged")
}
