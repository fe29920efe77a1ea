package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	apperrors "inventory/internal/errors"
	"inventory/internal/mailer"
	"inventory/internal/repository"
)

// ContactService forwards messages from signed-in users to the support inbox.
type ContactService interface {
	Send(ctx context.Context, userID uuid.UUID, subject, message string) error
}

type contactService struct {
	userRepo repository.UserRepository
	mailer   mailer.Mailer
	from     string
	inbox    string
}

// NewContactService creates a contact service that mails inbox from the given sender.
func NewContactService(userRepo repository.UserRepository, mail mailer.Mailer, from, inbox string) ContactService {
	return &contactService{userRepo: userRepo, mailer: mail, from: from, inbox: inbox}
}

// Send mails the message to support with Reply-To set to the sender's address.
func (s *contactService) Send(ctx context.Context, userID uuid.UUID, subject, message string) error {
	subject = strings.TrimSpace(subject)
	message = strings.TrimSpace(message)
	if subject == "" || message == "" {
		return apperrors.Validation("MISSING_FIELDS", "Please add subject and message")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("USER_NOT_FOUND", "User not found, please signup")
		}
		return fmt.Errorf("find user: %w", err)
	}

	msg := mailer.Message{
		Subject:  subject,
		HTMLBody: "<p>" + html.EscapeString(message) + "</p>",
		To:       s.inbox,
		From:     s.from,
		ReplyTo:  user.Email,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("contact email not sent")
		return apperrors.Dependency("EMAIL_NOT_SENT", "Email not sent, please try again")
	}
	return nil
}
