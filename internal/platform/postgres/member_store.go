package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/store"
)

// PostgresMemberStore implements the store.MemberStore interface
// using a PostgreSQL database as the storage backend.
type PostgresMemberStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMemberStore creates a new PostgreSQL implementation of the
// MemberStore interface. If logger is nil, a default logger will be used.
func NewPostgresMemberStore(db store.DBTX, logger *slog.Logger) *PostgresMemberStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMemberStore{
		db:     db,
		logger: logger.With(slog.String("component", "member_store")),
	}
}

// Ensure PostgresMemberStore implements store.MemberStore interface
var _ store.MemberStore = (*PostgresMemberStore)(nil)

// Create implements store.MemberStore.Create
// Returns store.ErrMemberExists if the user is already a member of the
// project and store.ErrInvalidEntity if the project or user doesn't exist.
func (s *PostgresMemberStore) Create(ctx context.Context, member *domain.ProjectMember) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := member.Validate(); err != nil {
		log.Warn("member validation failed during create",
			slog.String("error", err.Error()),
			slog.String("member_id", member.ID.String()))
		return err
	}

	query := `
		INSERT INTO project_members (id, project_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		member.ID,
		member.ProjectID,
		member.UserID,
		member.Role,
		member.JoinedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate membership during member creation",
				slog.String("project_id", member.ProjectID.String()),
				slog.String("user_id", member.UserID.String()))
			return fmt.Errorf("%w: %v", store.ErrMemberExists, err)
		}
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during member creation",
				slog.String("project_id", member.ProjectID.String()),
				slog.String("user_id", member.UserID.String()))
			return fmt.Errorf("%w: referenced row not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create member",
			slog.String("error", err.Error()),
			slog.String("member_id", member.ID.String()))
		return MapError(err)
	}

	log.Info("member created successfully",
		slog.String("project_id", member.ProjectID.String()),
		slog.String("user_id", member.UserID.String()),
		slog.String("role", string(member.Role)))
	return nil
}

// Get implements store.MemberStore.Get
// Returns store.ErrMemberNotFound if no such membership exists.
func (s *PostgresMemberStore) Get(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, project_id, user_id, role, joined_at
		FROM project_members
		WHERE project_id = $1 AND user_id = $2
	`

	member, err := scanMember(s.db.QueryRowContext(ctx, query, projectID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("member not found",
				slog.String("project_id", projectID.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrMemberNotFound
		}
		log.Error("failed to get member",
			slog.String("error", err.Error()),
			slog.String("project_id", projectID.String()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	return member, nil
}

// ListByProject implements store.MemberStore.ListByProject
func (s *PostgresMemberStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, project_id, user_id, role, joined_at
		FROM project_members
		WHERE project_id = $1
		ORDER BY joined_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		log.Error("failed to query members",
			slog.String("error", err.Error()),
			slog.String("project_id", projectID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	members := []*domain.ProjectMember{}
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			log.Error("failed to scan member row",
				slog.String("error", err.Error()))
			return nil, err
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return members, nil
}

// Delete implements store.MemberStore.Delete
// Returns store.ErrMemberNotFound if no such membership exists.
func (s *PostgresMemberStore) Delete(ctx context.Context, projectID, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`

	result, err := s.db.ExecContext(ctx, query, projectID, userID)
	if err != nil {
		log.Error("failed to delete member",
			slog.String("error", err.Error()),
			slog.String("project_id", projectID.String()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrMemberNotFound); err != nil {
		log.Debug("member not found for delete",
			slog.String("project_id", projectID.String()),
			slog.String("user_id", userID.String()))
		return err
	}

	log.Info("member deleted successfully",
		slog.String("project_id", projectID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// WithTx implements store.MemberStore.WithTx
func (s *PostgresMemberStore) WithTx(tx *sql.Tx) store.MemberStore {
	return &PostgresMemberStore{
		db:     tx,
		logger: s.logger,
	}
}

func scanMember(row scanner) (*domain.ProjectMember, error) {
	var member domain.ProjectMember
	var role string
	err := row.Scan(
		&member.ID,
		&member.ProjectID,
		&member.UserID,
		&role,
		&member.JoinedAt,
	)
	if err != nil {
		return nil, err
	}
	member.Role = domain.MemberRole(role)
	return &member, nil
}
