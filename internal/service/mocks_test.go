package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"inventory/internal/auth"
	"inventory/internal/mailer"
	"inventory/internal/model"
	"inventory/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockResetService is a mock implementation of ResetService.
type MockResetService struct {
	mock.Mock
}

func (m *MockResetService) RequestReset(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockResetService) ConsumeReset(ctx context.Context, secret, newPassword string) error {
	args := m.Called(ctx, secret, newPassword)
	return args.Error(0)
}

// MockMailer is a mock implementation of Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg mailer.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// memUserRepo is an in-memory UserRepository with a unique email index.
type memUserRepo struct {
	mu      sync.Mutex
	hasher  auth.PasswordHasher
	byID    map[uuid.UUID]model.User
	byEmail map[string]uuid.UUID
}

var _ repository.UserRepository = (*memUserRepo)(nil)

func newMemUserRepo(hasher auth.PasswordHasher) *memUserRepo {
	return &memUserRepo{
		hasher:  hasher,
		byID:    make(map[uuid.UUID]model.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *memUserRepo) Create(_ context.Context, user *model.User) error {
	if err := repository.ResolvePassword(r.hasher, user); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[user.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *model.User) error {
	passwordChanged := user.Password.IsChanged()
	if err := repository.ResolvePassword(r.hasher, user); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[user.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	saved := *user
	if !passwordChanged {
		saved.PasswordHash = stored.PasswordHash
	}
	r.byID[user.ID] = saved
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	user := r.byID[id]
	return &user, nil
}

func (r *memUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// memResetRepo is an in-memory ResetTokenRepository keyed by user id.
type memResetRepo struct {
	mu     sync.Mutex
	byUser map[uuid.UUID]model.ResetToken
}

var _ repository.ResetTokenRepository = (*memResetRepo)(nil)

func newMemResetRepo() *memResetRepo {
	return &memResetRepo{byUser: make(map[uuid.UUID]model.ResetToken)}
}

func (r *memResetRepo) Upsert(_ context.Context, token *model.ResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[token.UserID] = *token
	return nil
}

func (r *memResetRepo) FindValid(_ context.Context, digest string, now time.Time) (*model.ResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.byUser {
		if t.Token == digest && t.ExpiresAt.After(now) {
			return &t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memResetRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, t := range r.byUser {
		if t.ID == id {
			delete(r.byUser, userID)
			return true, nil
		}
	}
	return false, nil
}

func (r *memResetRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for userID, t := range r.byUser {
		if !t.ExpiresAt.After(now) {
			delete(r.byUser, userID)
			n++
		}
	}
	return n, nil
}

func (r *memResetRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byUser)
}

// stubMailer records every message it is asked to send.
type stubMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *stubMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *stubMailer) last() mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return mailer.Message{}
	}
	return m.sent[len(m.sent)-1]
}
