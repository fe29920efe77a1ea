package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inventory/internal/model"
)

// ResetTokenRepository defines persistence operations for password reset tokens.
type ResetTokenRepository interface {
	// Upsert stores token as the only reset token of its user, replacing any previous one atomically.
	Upsert(ctx context.Context, token *model.ResetToken) error
	// FindValid returns the token with the given digest that expires strictly after now.
	FindValid(ctx context.Context, digest string, now time.Time) (*model.ResetToken, error)
	// Delete removes a token by id and reports whether this call removed it.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	// DeleteExpired removes every token that expired at or before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type resetTokenRepository struct {
	db *gorm.DB
}

// NewResetTokenRepository builds a GORM-backed reset token repository.
func NewResetTokenRepository(db *gorm.DB) ResetTokenRepository {
	return &resetTokenRepository{db: db}
}

func (r *resetTokenRepository) Upsert(ctx context.Context, token *model.ResetToken) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"id", "token", "created_at", "expires_at"}),
		}).
		Create(token).Error
}

func (r *resetTokenRepository) FindValid(ctx context.Context, digest string, now time.Time) (*model.ResetToken, error) {
	var token model.ResetToken
	if err := r.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", digest, now).
		First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *resetTokenRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ResetToken{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *resetTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&model.ResetToken{})
	return res.RowsAffected, res.Error
}
