package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive-api/internal/store"
)

// plainVerifier accepts a password when the hash is "hashed:" + password,
// matching what mockUserStore writes.
type plainVerifier struct{}

func (plainVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword == "hashed:"+password {
		return nil
	}
	return ErrInvalidCredentials
}

func newUserServiceFixture(t *testing.T) (UserService, *mockUserStore, sqlmock.Sqlmock) {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := newMockUserStore()
	svc, err := NewUserService(db, users, plainVerifier{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return svc, users, dbMock
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _, dbMock := newUserServiceFixture(t)
	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	user, err := svc.Register(context.Background(), "alice@example.com", "Alice", "a-long-password")
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsStaff)
	assert.Empty(t, user.Password, "plaintext password must not survive registration")

	authed, err := svc.Authenticate(context.Background(), "alice@example.com", "a-long-password")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, dbMock := newUserServiceFixture(t)
	dbMock.ExpectBegin()
	dbMock.ExpectCommit()
	dbMock.ExpectBegin()
	dbMock.ExpectRollback()

	_, err := svc.Register(context.Background(), "alice@example.com", "Alice", "a-long-password")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "alice@example.com", "Alice Again", "a-long-password")
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestAuthenticateFailures(t *testing.T) {
	svc, users, dbMock := newUserServiceFixture(t)
	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	user, err := svc.Register(context.Background(), "alice@example.com", "Alice", "a-long-password")
	require.NoError(t, err)

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "nobody@example.com", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "alice@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		stored, err := users.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		stored.IsActive = false
		users.put(stored)

		_, err = svc.Authenticate(context.Background(), "alice@example.com", "a-long-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
