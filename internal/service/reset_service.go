package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/oops"
	"gorm.io/gorm"

	"inventory/internal/auth"
	apperrors "inventory/internal/errors"
	"inventory/internal/model"
	"inventory/internal/repository"
)

// ResetTokenExpiry is the default lifetime of a password reset token.
const ResetTokenExpiry = 30 * time.Minute

// ResetService issues and redeems single-use password reset tokens.
type ResetService interface {
	// RequestReset replaces any reset token of userID and returns the new plaintext secret.
	RequestReset(ctx context.Context, userID uuid.UUID) (string, error)
	// ConsumeReset sets a new password if secret names a live token, then invalidates it.
	ConsumeReset(ctx context.Context, secret, newPassword string) error
}

// ResetOption customises a ResetService.
type ResetOption func(*resetService)

// WithClock overrides the time source used for issuing and checking expiry.
func WithClock(now func() time.Time) ResetOption {
	return func(s *resetService) {
		s.now = now
	}
}

type resetService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.ResetTokenRepository
	ttl       time.Duration
	now       func() time.Time
}

// NewResetService creates a reset service. A non-positive ttl falls back to ResetTokenExpiry.
func NewResetService(userRepo repository.UserRepository, tokenRepo repository.ResetTokenRepository, ttl time.Duration, opts ...ResetOption) ResetService {
	if ttl <= 0 {
		ttl = ResetTokenExpiry
	}
	s := &resetService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		ttl:       ttl,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func errInvalidResetToken() error {
	return apperrors.InvalidToken("INVALID_RESET_TOKEN", "Invalid or expired token")
}

// RequestReset generates a fresh secret and stores only its digest.
func (s *resetService) RequestReset(ctx context.Context, userID uuid.UUID) (string, error) {
	secret, digest, err := auth.GenerateResetSecret(userID)
	if err != nil {
		return "", oops.Code("RESET_REQUEST_FAILED").
			With("operation", "GenerateResetSecret").
			Wrap(err)
	}

	now := s.now()
	token := &model.ResetToken{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     digest,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.tokenRepo.Upsert(ctx, token); err != nil {
		return "", oops.Code("RESET_REQUEST_FAILED").
			With("operation", "Upsert").
			With("user_id", userID.String()).
			Wrap(err)
	}

	log.Info().Str("user_id", userID.String()).Time("expires_at", token.ExpiresAt).Msg("password reset requested")
	return secret, nil
}

// ConsumeReset redeems secret exactly once. Unknown, expired and already used
// secrets all yield the same invalid-token error.
func (s *resetService) ConsumeReset(ctx context.Context, secret, newPassword string) error {
	if secret == "" {
		return errInvalidResetToken()
	}
	if err := checkPasswordLength(newPassword); err != nil {
		return err
	}

	now := s.now()
	token, err := s.tokenRepo.FindValid(ctx, auth.DigestResetSecret(secret), now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errInvalidResetToken()
		}
		return oops.Code("RESET_CONSUME_FAILED").
			With("operation", "FindValid").
			Wrap(err)
	}
	if token.IsExpired(now) {
		return errInvalidResetToken()
	}

	// Deleting first makes the token single-use even under concurrent redemption.
	claimed, err := s.tokenRepo.Delete(ctx, token.ID)
	if err != nil {
		return oops.Code("RESET_CONSUME_FAILED").
			With("operation", "Delete").
			Wrap(err)
	}
	if !claimed {
		return errInvalidResetToken()
	}

	user, err := s.userRepo.FindByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errInvalidResetToken()
		}
		return oops.Code("RESET_CONSUME_FAILED").
			With("operation", "FindByID").
			Wrap(err)
	}

	user.Password = model.NewPassword(newPassword)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return oops.Code("RESET_CONSUME_FAILED").
			With("operation", "Update").
			With("user_id", user.ID.String()).
			Wrap(err)
	}

	log.Info().Str("user_id", user.ID.String()).Msg("password reset completed")
	return nil
}
