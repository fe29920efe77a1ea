package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResetToken is a single-use password reset grant. Only the digest of the secret is stored.
// UserID is unique so a user holds at most one token at a time.
type ResetToken struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);uniqueIndex;not null"`
	Token     string    `gorm:"size:64;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}

// BeforeCreate sets UUID before creating the record.
func (t *ResetToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// IsExpired reports whether the token is no longer usable at now.
func (t *ResetToken) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
