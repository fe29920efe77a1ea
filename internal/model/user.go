package model

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile defaults applied to newly registered users.
const (
	DefaultPhoto = "https://i.ibb.co/4pDNDk1/avatar.png"
	DefaultPhone = "+234"
	DefaultBio   = "Bio"
)

// Password length bounds applied on register, change and reset.
// MaxPasswordBytes is counted in bytes because bcrypt rejects longer input.
const (
	MinPasswordLength = 6
	MaxPasswordBytes  = 72
)

var emailPattern = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)

// User represents a registered inventory user.
type User struct {
	ID           uuid.UUID     `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string        `json:"name" gorm:"size:255;not null"`
	Email        string        `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string        `json:"-" gorm:"column:password;size:255;not null"` // Never expose in JSON
	Password     PasswordField `json:"-" gorm:"-"`
	Photo        string        `json:"photo" gorm:"size:512;not null"`
	Phone        string        `json:"phone" gorm:"size:64"`
	Bio          string        `json:"bio" gorm:"size:1024"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewUser builds a user with profile defaults and a pending password.
func NewUser(name, email, password string) *User {
	return &User{
		ID:       uuid.New(),
		Name:     name,
		Email:    NormalizeEmail(email),
		Password: NewPassword(password),
		Photo:    DefaultPhoto,
		Phone:    DefaultPhone,
		Bio:      DefaultBio,
	}
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Profile returns the fields that are safe to send to clients.
func (u *User) Profile() *Profile {
	return &Profile{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Photo: u.Photo,
		Phone: u.Phone,
		Bio:   u.Bio,
	}
}

// Profile is the public view of a user. It never carries the password hash.
type Profile struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Photo string    `json:"photo"`
	Phone string    `json:"phone"`
	Bio   string    `json:"bio"`
}

// NormalizeEmail trims surrounding whitespace.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// ValidEmail reports whether email matches the accepted address grammar.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
