package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/service/auth"
	"github.com/taskhive/taskhive-api/internal/store"
)

// UserService provides user registration, credential checks, and lookups.
type UserService interface {
	// Register creates a new active, non-staff user. The plaintext password
	// is hashed by the store before the row is written.
	// Returns store.ErrEmailExists when the email is already registered.
	Register(ctx context.Context, email, fullName, password string) (*domain.User, error)

	// Authenticate verifies an email/password pair. Unknown emails, wrong
	// passwords, and deactivated accounts all produce ErrInvalidCredentials
	// so callers cannot probe which of the three failed.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser retrieves a user by their ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// userServiceImpl implements the UserService interface.
type userServiceImpl struct {
	db       *sql.DB
	users    store.UserStore
	verifier auth.PasswordVerifier
	logger   *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	db *sql.DB,
	users store.UserStore,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) (UserService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if verifier == nil {
		return nil, domain.NewValidationError("verifier", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		db:       db,
		users:    users,
		verifier: verifier,
		logger:   logger.With(slog.String("component", "user_service")),
	}, nil
}

// Register implements UserService.Register.
func (s *userServiceImpl) Register(
	ctx context.Context,
	email, fullName, password string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, fullName, password)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.users.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("registration attempted with existing email",
				slog.String("email", email))
			return nil, store.ErrEmailExists
		}
		log.Error("failed to register user",
			slog.String("error", err.Error()),
			slog.String("email", email))
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("email", user.Email))
	return user, nil
}

// Authenticate implements UserService.Authenticate.
func (s *userServiceImpl) Authenticate(
	ctx context.Context,
	email, password string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user for authentication",
			slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("password mismatch during authentication",
			slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		log.Debug("authentication attempt for deactivated account",
			slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser implements UserService.GetUser.
func (s *userServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}
