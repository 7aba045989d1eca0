package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/events"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/platform/objectstore"
	"github.com/taskhive/taskhive-api/internal/store"
)

// AttachmentService provides task attachment operations backed by an object
// store.
type AttachmentService interface {
	// UploadAttachment stores the file contents and records the attachment
	// row, then notifies observers. Returns ErrAttachmentsDisabled when no
	// object store is configured.
	UploadAttachment(ctx context.Context, actingUser *domain.User, taskID uuid.UUID, fileName string, contents io.Reader, size int64, contentType string) (*domain.TaskAttachment, error)

	// ListAttachments returns the attachments on a task. Listing is scoped
	// to the project owner and staff users; others get ErrNotOwned.
	ListAttachments(ctx context.Context, actingUser *domain.User, taskID uuid.UUID) ([]*domain.TaskAttachment, error)

	// OpenAttachment opens the stored file of an attachment for reading.
	// The caller must close the returned reader.
	OpenAttachment(ctx context.Context, actingUser *domain.User, attachmentID uuid.UUID) (*domain.TaskAttachment, io.ReadCloser, error)

	// DeleteAttachment removes the attachment row and the stored file. Only
	// the uploader, the project owner, or a staff user may delete.
	DeleteAttachment(ctx context.Context, actingUser *domain.User, attachmentID uuid.UUID) error
}

// attachmentServiceImpl implements the AttachmentService interface.
type attachmentServiceImpl struct {
	attachments store.AttachmentStore
	tasks       store.TaskStore
	projects    store.ProjectStore
	files       objectstore.FileStore
	emitter     events.Emitter
	logger      *slog.Logger
}

// NewAttachmentService creates a new AttachmentService. The file store may be
// nil, which disables uploads and downloads.
func NewAttachmentService(
	attachments store.AttachmentStore,
	tasks store.TaskStore,
	projects store.ProjectStore,
	files objectstore.FileStore,
	emitter events.Emitter,
	logger *slog.Logger,
) (AttachmentService, error) {
	if attachments == nil {
		return nil, domain.NewValidationError("attachments", "cannot be nil", domain.ErrValidation)
	}
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if projects == nil {
		return nil, domain.NewValidationError("projects", "cannot be nil", domain.ErrValidation)
	}
	if emitter == nil {
		return nil, domain.NewValidationError("emitter", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &attachmentServiceImpl{
		attachments: attachments,
		tasks:       tasks,
		projects:    projects,
		files:       files,
		emitter:     emitter,
		logger:      logger.With(slog.String("component", "attachment_service")),
	}, nil
}

// UploadAttachment implements AttachmentService.UploadAttachment.
func (s *attachmentServiceImpl) UploadAttachment(
	ctx context.Context,
	actingUser *domain.User,
	taskID uuid.UUID,
	fileName string,
	contents io.Reader,
	size int64,
	contentType string,
) (*domain.TaskAttachment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.files == nil {
		return nil, ErrAttachmentsDisabled
	}

	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	// The object key carries the task prefix; BaseName recovers the
	// user-facing file name.
	key := fmt.Sprintf("tasks/%s/%s", taskID, path.Base(fileName))

	attachment, err := domain.NewTaskAttachment(taskID, actingUser.ID, key)
	if err != nil {
		return nil, err
	}

	if err := s.files.Put(ctx, key, contents, size, contentType); err != nil {
		log.Error("failed to store attachment file",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return nil, err
	}

	if err := s.attachments.Create(ctx, attachment); err != nil {
		log.Error("failed to record attachment",
			slog.String("error", err.Error()),
			slog.String("key", key))
		// Remove the orphaned object so storage matches the database.
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			log.Warn("failed to remove orphaned attachment file",
				slog.String("error", delErr.Error()),
				slog.String("key", key))
		}
		return nil, err
	}

	if err := s.emitter.EmitAttachmentCreated(ctx, events.NewAttachmentCreatedEvent(t, attachment)); err != nil {
		log.Warn("attachment creation observers failed",
			slog.String("error", err.Error()),
			slog.String("attachment_id", attachment.ID.String()))
	}

	log.Info("attachment uploaded",
		slog.String("attachment_id", attachment.ID.String()),
		slog.String("task_id", taskID.String()),
		slog.String("key", key))
	return attachment, nil
}

// ListAttachments implements AttachmentService.ListAttachments.
func (s *attachmentServiceImpl) ListAttachments(
	ctx context.Context,
	actingUser *domain.User,
	taskID uuid.UUID,
) ([]*domain.TaskAttachment, error) {
	if err := s.checkOwner(ctx, taskID, actingUser); err != nil {
		return nil, err
	}
	return s.attachments.ListByTask(ctx, taskID)
}

// OpenAttachment implements AttachmentService.OpenAttachment.
func (s *attachmentServiceImpl) OpenAttachment(
	ctx context.Context,
	actingUser *domain.User,
	attachmentID uuid.UUID,
) (*domain.TaskAttachment, io.ReadCloser, error) {
	if s.files == nil {
		return nil, nil, ErrAttachmentsDisabled
	}

	attachment, err := s.attachments.GetByID(ctx, attachmentID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.checkOwner(ctx, attachment.TaskID, actingUser); err != nil {
		return nil, nil, err
	}

	reader, err := s.files.Get(ctx, attachment.FileName)
	if err != nil {
		return nil, nil, err
	}
	return attachment, reader, nil
}

// DeleteAttachment implements AttachmentService.DeleteAttachment.
func (s *attachmentServiceImpl) DeleteAttachment(
	ctx context.Context,
	actingUser *domain.User,
	attachmentID uuid.UUID,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	attachment, err := s.attachments.GetByID(ctx, attachmentID)
	if err != nil {
		return err
	}

	if attachment.UploadedBy != actingUser.ID {
		if err := s.checkOwner(ctx, attachment.TaskID, actingUser); err != nil {
			return err
		}
	}

	if err := s.attachments.Delete(ctx, attachmentID); err != nil {
		return err
	}

	if s.files != nil {
		if err := s.files.Delete(ctx, attachment.FileName); err != nil {
			log.Warn("failed to remove attachment file",
				slog.String("error", err.Error()),
				slog.String("key", attachment.FileName))
		}
	}

	log.Info("attachment deleted",
		slog.String("attachment_id", attachmentID.String()),
		slog.String("deleted_by", actingUser.ID.String()))
	return nil
}

// checkOwner allows the owner of the task's project and staff users.
func (s *attachmentServiceImpl) checkOwner(
	ctx context.Context,
	taskID uuid.UUID,
	actingUser *domain.User,
) error {
	if actingUser.IsStaff {
		return nil
	}

	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	project, err := s.projects.GetByID(ctx, t.ProjectID)
	if err != nil {
		return err
	}
	if project.OwnerID != actingUser.ID {
		return ErrNotOwned
	}
	return nil
}
