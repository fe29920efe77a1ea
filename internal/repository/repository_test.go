package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"inventory/internal/model"
)

// countingHasher is a deterministic PasswordHasher that records how often it hashes.
type countingHasher struct {
	calls int
	err   error
}

func (h *countingHasher) Hash(plaintext string) (string, error) {
	h.calls++
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + plaintext, nil
}

func (h *countingHasher) Verify(plaintext, hash string) bool {
	return hash == "hashed:"+plaintext
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	return newMockDBWithMatcher(t, sqlmock.QueryMatcherRegexp)
}

// untouchedColumn matches like the default regexp matcher but fails any
// UPDATE statement that assigns column.
func untouchedColumn(column string) sqlmock.QueryMatcher {
	return sqlmock.QueryMatcherFunc(func(expectedSQL, actualSQL string) error {
		if err := sqlmock.QueryMatcherRegexp.Match(expectedSQL, actualSQL); err != nil {
			return err
		}
		if strings.HasPrefix(actualSQL, "UPDATE") && strings.Contains(actualSQL, "`"+column+"`=") {
			return fmt.Errorf("statement assigns %s: %s", column, actualSQL)
		}
		return nil
	})
}

func newMockDBWithMatcher(t *testing.T, matcher sqlmock.QueryMatcher) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(matcher))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	require.NoError(t, err)
	return gdb, mock
}

var userColumns = []string{"id", "name", "email", "password", "photo", "phone", "bio", "created_at", "updated_at"}

func TestUserRepository_CreateHashesPendingPassword(t *testing.T) {
	gdb, mock := newMockDB(t)
	hasher := &countingHasher{}
	repo := NewUserRepository(gdb, hasher)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	user := model.NewUser("Alice", "alice@x.com", "secret1")
	require.NoError(t, repo.Create(context.Background(), user))

	assert.Equal(t, "hashed:secret1", user.PasswordHash)
	assert.False(t, user.Password.IsChanged())
	assert.Equal(t, 1, hasher.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewUserRepository(gdb, &countingHasher{})

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice@x.com' for key 'idx_users_email'"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), model.NewUser("Alice", "alice@x.com", "secret1"))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateHashFailure(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewUserRepository(gdb, &countingHasher{err: errors.New("entropy exhausted")})

	err := repo.Create(context.Background(), model.NewUser("Alice", "alice@x.com", "secret1"))
	require.Error(t, err)

	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, "PASSWORD_HASH_FAILED", oopsErr.Code())
	assert.NoError(t, mock.ExpectationsWereMet(), "nothing may be written when hashing fails")
}

func TestUserRepository_UpdateWithoutPasswordChangeKeepsHash(t *testing.T) {
	gdb, mock := newMockDBWithMatcher(t, untouchedColumn("password"))
	hasher := &countingHasher{}
	repo := NewUserRepository(gdb, hasher)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET .*`bio`=").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	user := &model.User{ID: uuid.New(), Name: "Alice", Email: "alice@x.com", PasswordHash: "$2a$10$existinghash"}
	before := user.PasswordHash
	user.Bio = "Inventory lead"

	require.NoError(t, repo.Update(context.Background(), user))
	assert.Equal(t, before, user.PasswordHash)
	assert.Zero(t, hasher.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A profile save holding a stale hash must not overwrite a password that
// was changed after the record was loaded.
func TestUserRepository_ProfileSaveDoesNotRevertPassword(t *testing.T) {
	gdb, mock := newMockDBWithMatcher(t, untouchedColumn("password"))
	repo := NewUserRepository(gdb, &countingHasher{})

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET").
		WithArgs("Alice", "alice@x.com", model.DefaultPhoto, model.DefaultPhone, "New bio", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	stale := &model.User{
		ID:           uuid.New(),
		Name:         "Alice",
		Email:        "alice@x.com",
		PasswordHash: "hashed:before-reset",
		Photo:        model.DefaultPhoto,
		Phone:        model.DefaultPhone,
		Bio:          "New bio",
	}
	require.NoError(t, repo.Update(context.Background(), stale))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateWithNewPassword(t *testing.T) {
	gdb, mock := newMockDB(t)
	hasher := &countingHasher{}
	repo := NewUserRepository(gdb, hasher)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET .*`password`=").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	user := &model.User{ID: uuid.New(), Name: "Alice", Email: "alice@x.com", PasswordHash: "hashed:old"}
	user.Password = model.NewPassword("brandnew")

	require.NoError(t, repo.Update(context.Background(), user))
	assert.Equal(t, "hashed:brandnew", user.PasswordHash)

	// A second save of the same record must not hash the hash.
	require.NoError(t, repo.Update(context.Background(), user))
	assert.Equal(t, "hashed:brandnew", user.PasswordHash)
	assert.Equal(t, 1, hasher.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewUserRepository(gdb, &countingHasher{})
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE email = \\?").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(id.String(), "Alice", "alice@x.com", "hashed:secret1", model.DefaultPhoto, model.DefaultPhone, model.DefaultBio, now, now))

	user, err := repo.FindByEmail(context.Background(), "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "hashed:secret1", user.PasswordHash)
	assert.False(t, user.Password.IsChanged())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByIDNotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewUserRepository(gdb, &countingHasher{})

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetTokenRepository_UpsertIsSingleStatement(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewResetTokenRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `reset_tokens` .* ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	now := time.Now()
	err := repo.Upsert(context.Background(), &model.ResetToken{
		UserID:    uuid.New(),
		Token:     "digest",
		CreatedAt: now,
		ExpiresAt: now.Add(30 * time.Minute),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetTokenRepository_FindValid(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewResetTokenRepository(gdb)
	now := time.Now()
	id, userID := uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT \\* FROM `reset_tokens` WHERE token = \\? AND expires_at > \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "created_at", "expires_at"}).
			AddRow(id.String(), userID.String(), "digest", now, now.Add(time.Minute)))

	token, err := repo.FindValid(context.Background(), "digest", now)
	require.NoError(t, err)
	assert.Equal(t, userID, token.UserID)

	mock.ExpectQuery("SELECT \\* FROM `reset_tokens` WHERE token = \\? AND expires_at > \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "created_at", "expires_at"}))

	_, err = repo.FindValid(context.Background(), "other", now)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetTokenRepository_DeleteReportsClaim(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewResetTokenRepository(gdb)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `reset_tokens` WHERE id = \\?").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `reset_tokens` WHERE id = \\?").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	deleted, err := repo.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetTokenRepository_DeleteExpired(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewResetTokenRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `reset_tokens` WHERE expires_at <= \\?").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	n, err := repo.DeleteExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
