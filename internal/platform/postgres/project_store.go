package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/store"
)

// PostgresProjectStore implements the store.ProjectStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProjectStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProjectStore creates a new PostgreSQL implementation of the
// ProjectStore interface. If logger is nil, a default logger will be used.
func NewPostgresProjectStore(db store.DBTX, logger *slog.Logger) *PostgresProjectStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProjectStore{
		db:     db,
		logger: logger.With(slog.String("component", "project_store")),
	}
}

// Ensure PostgresProjectStore implements store.ProjectStore interface
var _ store.ProjectStore = (*PostgresProjectStore)(nil)

// Create implements store.ProjectStore.Create
// Returns store.ErrInvalidEntity if the owner doesn't exist.
func (s *PostgresProjectStore) Create(ctx context.Context, project *domain.Project) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := project.Validate(); err != nil {
		log.Warn("project validation failed during create",
			slog.String("error", err.Error()),
			slog.String("project_id", project.ID.String()))
		return err
	}

	query := `
		INSERT INTO projects (id, name, description, owner_id, status, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		project.ID,
		project.Name,
		project.Description,
		project.OwnerID,
		project.Status,
		project.StartDate,
		project.EndDate,
		project.CreatedAt,
		project.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during project creation",
				slog.String("project_id", project.ID.String()),
				slog.String("owner_id", project.OwnerID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, project.OwnerID)
		}

		log.Error("failed to create project",
			slog.String("error", err.Error()),
			slog.String("project_id", project.ID.String()))
		return MapError(err)
	}

	log.Info("project created successfully",
		slog.String("project_id", project.ID.String()),
		slog.String("owner_id", project.OwnerID.String()))
	return nil
}

// GetByID implements store.ProjectStore.GetByID
// Returns store.ErrProjectNotFound if the project does not exist.
func (s *PostgresProjectStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, description, owner_id, status, start_date, end_date, created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	project, err := scanProject(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("project not found", slog.String("project_id", id.String()))
			return nil, store.ErrProjectNotFound
		}
		log.Error("failed to get project by ID",
			slog.String("error", err.Error()),
			slog.String("project_id", id.String()))
		return nil, err
	}

	return project, nil
}

// ListByMember implements store.ProjectStore.ListByMember
// It returns projects the user owns plus projects the user joined as a
// member, newest first.
func (s *PostgresProjectStore) ListByMember(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT DISTINCT p.id, p.name, p.description, p.owner_id, p.status, p.start_date, p.end_date, p.created_at, p.updated_at
		FROM projects p
		LEFT JOIN project_members m ON m.project_id = p.id
		WHERE p.owner_id = $1 OR m.user_id = $1
		ORDER BY p.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query projects by member",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	projects := []*domain.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			log.Error("failed to scan project row",
				slog.String("error", err.Error()))
			return nil, err
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed projects by member",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(projects)))
	return projects, nil
}

// Update implements store.ProjectStore.Update
// Returns store.ErrProjectNotFound if the project does not exist.
func (s *PostgresProjectStore) Update(ctx context.Context, project *domain.Project) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := project.Validate(); err != nil {
		log.Warn("project validation failed during update",
			slog.String("error", err.Error()),
			slog.String("project_id", project.ID.String()))
		return err
	}

	project.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE projects
		SET name = $1, description = $2, status = $3, start_date = $4, end_date = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		project.Name,
		project.Description,
		project.Status,
		project.StartDate,
		project.EndDate,
		project.UpdatedAt,
		project.ID,
	)

	if err != nil {
		log.Error("failed to update project",
			slog.String("error", err.Error()),
			slog.String("project_id", project.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrProjectNotFound); err != nil {
		log.Debug("project not found for update",
			slog.String("project_id", project.ID.String()))
		return err
	}

	log.Info("project updated successfully",
		slog.String("project_id", project.ID.String()),
		slog.String("status", string(project.Status)))
	return nil
}

// Delete implements store.ProjectStore.Delete
// Dependent rows are removed by ON DELETE CASCADE constraints.
// Returns store.ErrProjectNotFound if the project does not exist.
func (s *PostgresProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete project",
			slog.String("error", err.Error()),
			slog.String("project_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrProjectNotFound); err != nil {
		log.Debug("project not found for delete",
			slog.String("project_id", id.String()))
		return err
	}

	log.Info("project deleted successfully",
		slog.String("project_id", id.String()))
	return nil
}

// WithTx implements store.ProjectStore.WithTx
func (s *PostgresProjectStore) WithTx(tx *sql.Tx) store.ProjectStore {
	return &PostgresProjectStore{
		db:     tx,
		logger: s.logger,
	}
}

func scanProject(row scanner) (*domain.Project, error) {
	var project domain.Project
	var status string
	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.OwnerID,
		&status,
		&project.StartDate,
		&project.EndDate,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	project.Status = domain.ProjectStatus(status)
	return &project, nil
}
