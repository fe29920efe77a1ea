package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/oops"
	"gorm.io/gorm"

	"inventory/internal/auth"
	"inventory/internal/model"
)

// UserRepository defines persistence operations for user credentials and profiles.
// Create and Update hash a pending password before writing; an unchanged password
// field leaves the stored hash untouched.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type userRepository struct {
	db     *gorm.DB
	hasher auth.PasswordHasher
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB, hasher auth.PasswordHasher) UserRepository {
	return &userRepository{db: db, hasher: hasher}
}

// Create inserts a new user. Duplicate emails fail with gorm.ErrDuplicatedKey.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := ResolvePassword(r.hasher, user); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(user).Error
}

// Update writes the mutable columns of an existing user.
// The password column is only written when a new password is pending, so a
// profile save never reverts a concurrent password change.
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	columns := []string{"Name", "Email", "Photo", "Phone", "Bio", "UpdatedAt"}
	if user.Password.IsChanged() {
		if err := ResolvePassword(r.hasher, user); err != nil {
			return err
		}
		columns = append(columns, "PasswordHash")
	}
	return r.db.WithContext(ctx).
		Model(user).
		Select(columns).
		Updates(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ResolvePassword replaces a pending plaintext password with its hash.
// It is a no-op when the password field is unchanged, so saving twice never double-hashes.
func ResolvePassword(hasher auth.PasswordHasher, user *model.User) error {
	plaintext, ok := user.Password.Pending()
	if !ok {
		return nil
	}
	hashed, err := hasher.Hash(plaintext)
	if err != nil {
		return oops.Code("PASSWORD_HASH_FAILED").
			With("user_id", user.ID.String()).
			Wrap(err)
	}
	user.PasswordHash = hashed
	user.Password = model.PasswordField{}
	return nil
}
