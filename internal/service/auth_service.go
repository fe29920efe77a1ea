package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/oops"
	"gorm.io/gorm"

	"inventory/internal/auth"
	apperrors "inventory/internal/errors"
	"inventory/internal/mailer"
	"inventory/internal/model"
	"inventory/internal/repository"
)

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is returned by successful register and login calls.
type AuthResult struct {
	Profile   *model.Profile
	Token     string
	ExpiresAt time.Time
}

// AuthSettings holds the deployment values the auth flow needs.
type AuthSettings struct {
	// FrontendURL is the base of the reset link sent by email.
	FrontendURL string
	// EmailFrom is the sender address of reset emails.
	EmailFrom string
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	LoginStatus(token string) bool
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, secret, newPassword string) error
}

type authService struct {
	userRepo   repository.UserRepository
	hasher     auth.PasswordHasher
	jwtService *auth.JWTService
	resets     ResetService
	mailer     mailer.Mailer
	settings   AuthSettings
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	hasher auth.PasswordHasher,
	jwtService *auth.JWTService,
	resets ResetService,
	mail mailer.Mailer,
	settings AuthSettings,
) AuthService {
	settings.FrontendURL = strings.TrimRight(settings.FrontendURL, "/")
	return &authService{
		userRepo:   userRepo,
		hasher:     hasher,
		jwtService: jwtService,
		resets:     resets,
		mailer:     mail,
		settings:   settings,
	}
}

// Register creates a new user and signs them in.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := model.NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, apperrors.Validation("MISSING_FIELDS", "Please fill all required fields")
	}
	if err := checkPasswordLength(in.Password); err != nil {
		return nil, err
	}
	if !model.ValidEmail(email) {
		return nil, apperrors.Validation("INVALID_EMAIL", "Please enter a valid email")
	}

	// Check if user already exists
	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, errUserExists()
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	user := model.NewUser(name, email, in.Password)
	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration may win the race past the check above.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errUserExists()
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	result, err := s.signIn(user)
	if err != nil {
		return nil, err
	}
	log.Info().Str("user_id", user.ID.String()).Msg("user registered")
	return result, nil
}

// Login verifies credentials and issues a session token.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = model.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.Validation("MISSING_CREDENTIALS", "Email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Auth("USER_NOT_FOUND", "User not found, please signup")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		log.Warn().Str("user_id", user.ID.String()).Msg("login failed: wrong password")
		return nil, apperrors.Auth("WRONG_PASSWORD", "Wrong password")
	}

	return s.signIn(user)
}

func (s *authService) signIn(user *model.User) (*AuthResult, error) {
	token, expiresAt, err := s.jwtService.Issue(user.ID)
	if err != nil {
		return nil, oops.Code("SESSION_ISSUE_FAILED").
			With("user_id", user.ID.String()).
			Wrap(err)
	}
	return &AuthResult{
		Profile:   user.Profile(),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// LoginStatus reports whether token is a live session token.
func (s *authService) LoginStatus(token string) bool {
	return s.jwtService.Valid(token)
}

// ChangePassword replaces the password of an authenticated user after checking the old one.
func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return apperrors.Validation("MISSING_PASSWORDS", "Please add old and new password")
	}
	if err := checkPasswordLength(newPassword); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("USER_NOT_FOUND", "User not found")
		}
		return fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return apperrors.Auth("WRONG_OLD_PASSWORD", "Old password is wrong")
	}

	user.Password = model.NewPassword(newPassword)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	log.Info().Str("user_id", user.ID.String()).Msg("password changed")
	return nil
}

// ForgotPassword emails a reset link when email belongs to a user.
// Unknown emails succeed silently so the endpoint does not reveal which accounts exist.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	email = model.NormalizeEmail(email)
	if email == "" {
		return apperrors.Validation("MISSING_EMAIL", "Email is required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Info().Msg("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}

	secret, err := s.resets.RequestReset(ctx, user.ID)
	if err != nil {
		return err
	}

	resetURL := s.settings.FrontendURL + "/resetpassword/" + secret
	msg := mailer.Message{
		Subject:  "Password Reset Request",
		HTMLBody: resetEmailBody(user.Name, resetURL),
		To:       user.Email,
		From:     s.settings.EmailFrom,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("reset email not sent")
		return apperrors.Dependency("EMAIL_NOT_SENT", "Password reset email not sent")
	}
	return nil
}

// ResetPassword redeems a reset secret.
func (s *authService) ResetPassword(ctx context.Context, secret, newPassword string) error {
	return s.resets.ConsumeReset(ctx, secret, newPassword)
}

func errUserExists() error {
	return apperrors.Conflict("USER_ALREADY_EXISTS", "User already exists")
}

func resetEmailBody(name, resetURL string) string {
	return fmt.Sprintf(`<h2>Hello %s</h2>
<p>Please use the url below to reset your password</p>
<p>This reset link expires in 30 minutes</p>
<a href="%s" clicktracking=off>%s</a>
<p>Regards</p>`, html.EscapeString(name), resetURL, resetURL)
}

// checkPasswordLength enforces the length bounds before anything is hashed or claimed.
func checkPasswordLength(password string) error {
	if len(password) < model.MinPasswordLength {
		return apperrors.Validation("PASSWORD_TOO_SHORT", "Password must be at least 6 characters")
	}
	if len(password) > model.MaxPasswordBytes {
		return apperrors.Validation("PASSWORD_TOO_LONG", "Password must be at most 72 bytes")
	}
	return nil
}
