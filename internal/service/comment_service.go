package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/events"
	"github.com/taskhive/taskhive-api/internal/platform/cache"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/platform/translate"
	"github.com/taskhive/taskhive-api/internal/store"
)

// CommentService provides comment operations with a read-through cache on
// listings.
type CommentService interface {
	// CreateComment persists a new comment authored by the acting user and
	// notifies observers after the write. Cached listings are NOT
	// invalidated; the new comment becomes visible once the cache entry
	// expires.
	CreateComment(ctx context.Context, actingUser *domain.User, taskID uuid.UUID, content string) (*domain.TaskComment, error)

	// ListComments returns the non-deleted comments on the task, newest
	// first, scoped to tasks whose project the acting user owns. Results are
	// cached per (user, task) for a fixed TTL. When lang is non-empty each
	// comment's content is translated into that language; translation
	// happens after the cache so cached entries keep the original text.
	ListComments(ctx context.Context, actingUser *domain.User, taskID uuid.UUID, lang string) ([]*domain.TaskComment, error)

	// DeleteComment soft deletes a comment. Only the author or a staff user
	// may delete; others get ErrNotOwned.
	DeleteComment(ctx context.Context, actingUser *domain.User, commentID uuid.UUID) error
}

// commentServiceImpl implements the CommentService interface.
type commentServiceImpl struct {
	comments   store.CommentStore
	tasks      store.TaskStore
	cache      cache.Cache
	cacheTTL   time.Duration
	emitter    events.Emitter
	translator translate.Translator
	logger     *slog.Logger
}

// NewCommentService creates a new CommentService. The translator may be nil,
// which disables the translation read path.
func NewCommentService(
	comments store.CommentStore,
	tasks store.TaskStore,
	commentCache cache.Cache,
	cacheTTL time.Duration,
	emitter events.Emitter,
	translator translate.Translator,
	logger *slog.Logger,
) (CommentService, error) {
	if comments == nil {
		return nil, domain.NewValidationError("comments", "cannot be nil", domain.ErrValidation)
	}
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if commentCache == nil {
		return nil, domain.NewValidationError("commentCache", "cannot be nil", domain.ErrValidation)
	}
	if cacheTTL <= 0 {
		return nil, domain.NewValidationError("cacheTTL", "must be positive", domain.ErrValidation)
	}
	if emitter == nil {
		return nil, domain.NewValidationError("emitter", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &commentServiceImpl{
		comments:   comments,
		tasks:      tasks,
		cache:      commentCache,
		cacheTTL:   cacheTTL,
		emitter:    emitter,
		translator: translator,
		logger:     logger.With(slog.String("component", "comment_service")),
	}, nil
}

// commentCacheKey derives the cache key for a (user, task) listing.
func commentCacheKey(userID, taskID uuid.UUID) string {
	return fmt.Sprintf("user_%s_task_%s_comments", userID, taskID)
}

// CreateComment implements CommentService.CreateComment.
func (s *commentServiceImpl) CreateComment(
	ctx context.Context,
	actingUser *domain.User,
	taskID uuid.UUID,
	content string,
) (*domain.TaskComment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	comment, err := domain.NewTaskComment(taskID, actingUser.ID, content)
	if err != nil {
		return nil, err
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		log.Error("failed to create comment",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, err
	}

	if err := s.emitter.EmitCommentCreated(ctx, events.NewCommentCreatedEvent(t, comment)); err != nil {
		log.Warn("comment creation observers failed",
			slog.String("error", err.Error()),
			slog.String("comment_id", comment.ID.String()))
	}

	return comment, nil
}

// ListComments implements CommentService.ListComments.
func (s *commentServiceImpl) ListComments(
	ctx context.Context,
	actingUser *domain.User,
	taskID uuid.UUID,
	lang string,
) ([]*domain.TaskComment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	key := commentCacheKey(actingUser.ID, taskID)

	var comments []*domain.TaskComment
	err := s.cache.GetJSON(ctx, key, &comments)
	switch {
	case err == nil:
		log.Debug("comment listing served from cache", slog.String("key", key))
	case errors.Is(err, cache.ErrCacheMiss):
		comments, err = s.comments.ListByTaskForOwner(ctx, taskID, actingUser.ID)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetJSON(ctx, key, comments, s.cacheTTL); err != nil {
			log.Warn("failed to cache comment listing",
				slog.String("error", err.Error()),
				slog.String("key", key))
		}
	default:
		// Cache trouble degrades to the authoritative store.
		log.Warn("comment cache read failed",
			slog.String("error", err.Error()),
			slog.String("key", key))
		comments, err = s.comments.ListByTaskForOwner(ctx, taskID, actingUser.ID)
		if err != nil {
			return nil, err
		}
	}

	if lang != "" {
		return s.translated(ctx, comments, lang)
	}
	return comments, nil
}

// translated returns copies of the comments with their content translated.
// Per-comment translation failures keep the original text.
func (s *commentServiceImpl) translated(
	ctx context.Context,
	comments []*domain.TaskComment,
	lang string,
) ([]*domain.TaskComment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.translator == nil {
		return nil, translate.ErrNotConfigured
	}

	out := make([]*domain.TaskComment, len(comments))
	for i, c := range comments {
		copied := *c
		text, err := s.translator.Translate(ctx, c.Content, lang)
		if err != nil {
			log.Warn("failed to translate comment, keeping original",
				slog.String("error", err.Error()),
				slog.String("comment_id", c.ID.String()),
				slog.String("lang", lang))
		} else {
			copied.Content = text
		}
		out[i] = &copied
	}
	return out, nil
}

// DeleteComment implements CommentService.DeleteComment.
func (s *commentServiceImpl) DeleteComment(
	ctx context.Context,
	actingUser *domain.User,
	commentID uuid.UUID,
) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != actingUser.ID && !actingUser.IsStaff {
		return ErrNotOwned
	}
	return s.comments.MarkDeleted(ctx, commentID)
}
