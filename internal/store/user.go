package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The user's plaintext Password is
	// hashed before storage; the stored HashedPassword is set on the passed
	// user. Returns ErrEmailExists if the email address is already registered
	// and validation errors from the domain User object if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user's details. If the user's Password field
	// is non-empty it is re-hashed, otherwise the stored hash is kept.
	// Returns ErrUserNotFound if the user does not exist and ErrEmailExists
	// if the new email address is already taken by another user.
	Update(ctx context.Context, user *domain.User) error

	// ListActive returns all users with IsActive set. Used by the daily
	// summary job to fan out recipient emails.
	ListActive(ctx context.Context) ([]*domain.User, error)

	// WithTx returns a new UserStore instance that uses the provided
	// transaction. Used to compose multiple store operations atomically.
	WithTx(tx *sql.Tx) UserStore
}
