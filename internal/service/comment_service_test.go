package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/cache"
	"github.com/taskhive/taskhive-api/internal/platform/translate"
	"github.com/taskhive/taskhive-api/internal/store"
)

type commentServiceFixture struct {
	svc      CommentService
	comments *mockCommentStore
	tasks    *mockTaskStore
	cache    *cache.MemoryCache
	emitter  *recordingEmitter
	owner    *domain.User
	task     *domain.Task
}

func newCommentServiceFixture(t *testing.T) *commentServiceFixture {
	t.Helper()

	owner := &domain.User{
		ID:       uuid.New(),
		Email:    "owner@example.com",
		FullName: "Project Owner",
		IsActive: true,
	}

	assignee := uuid.New()
	tk, err := domain.NewTask(
		uuid.New(), owner.ID,
		"Review the quarterly report", "",
		domain.TaskPriorityLow,
		&assignee,
		time.Now().Add(24*time.Hour),
	)
	require.NoError(t, err)

	f := &commentServiceFixture{
		comments: newMockCommentStore(),
		tasks:    newMockTaskStore(),
		cache:    cache.NewMemoryCache(),
		emitter:  &recordingEmitter{},
		owner:    owner,
		task:     tk,
	}
	f.tasks.put(tk)

	svc, err := NewCommentService(
		f.comments,
		f.tasks,
		f.cache,
		10*time.Minute,
		f.emitter,
		staticTranslator{},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func TestCreateCommentEmitsEvent(t *testing.T) {
	f := newCommentServiceFixture(t)

	comment, err := f.svc.CreateComment(context.Background(), f.owner, f.task.ID, "Looks good to me")
	require.NoError(t, err)
	assert.Equal(t, f.owner.ID, comment.AuthorID)
	assert.Equal(t, f.task.ID, comment.TaskID)

	require.Len(t, f.emitter.commentEvents, 1)
	assert.Equal(t, comment.ID, f.emitter.commentEvents[0].Comment.ID)
	assert.Equal(t, f.task.ID, f.emitter.commentEvents[0].Task.ID)
}

func TestCreateCommentUnknownTask(t *testing.T) {
	f := newCommentServiceFixture(t)

	_, err := f.svc.CreateComment(context.Background(), f.owner, uuid.New(), "hello")
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.Empty(t, f.emitter.commentEvents)
}

func TestListCommentsCachesPerUserAndTask(t *testing.T) {
	f := newCommentServiceFixture(t)
	_, err := f.svc.CreateComment(context.Background(), f.owner, f.task.ID, "first")
	require.NoError(t, err)

	listed, err := f.svc.ListComments(context.Background(), f.owner, f.task.ID, "")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, 1, f.comments.listCalls)

	// Second listing is served from the cache.
	listed, err = f.svc.ListComments(context.Background(), f.owner, f.task.ID, "")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, 1, f.comments.listCalls)
}

func TestListCommentsStaleWithinTTL(t *testing.T) {
	f := newCommentServiceFixture(t)
	_, err := f.svc.CreateComment(context.Background(), f.owner, f.task.ID, "first")
	require.NoError(t, err)

	listed, err := f.svc.ListComments(context.Background(), f.owner, f.task.ID, "")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	// A new comment does not invalidate the cached listing.
	_, err = f.svc.CreateComment(context.Background(), f.owner, f.task.ID, "second")
	require.NoError(t, err)

	listed, err = f.svc.ListComments(context.Background(), f.owner, f.task.ID, "")
	require.NoError(t, err)
	assert.Len(t, listed, 1, "cached listing must not see the new comment within the TTL")

	// Once the entry expires the listing refreshes.
	f.cache.SetClock(func() time.Time { return time.Now().Add(11 * time.Minute) })
	listed, err = f.svc.ListComments(context.Background(), f.owner, f.task.ID, "")
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestListCommentsNewestFirst(t *testing.T) {
	f := newCommentServiceFixture(t)
	_, err := f.svc.CreateComment(context.Background(), f.owner, f.task.ID, "first")
	require.NoError(t, err)
	_, err = f.svc.CreateComment(context.Background(), f.owner, f.task.ID, "second")
	require.NoError(t, err)

	listed, err := f.svc.ListComments(context.Background(), f.owner, f.task.ID, "")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "second", listed[0].Content)
	assert.Equal(t, "first", listed[1].Content)
}

func TestListCommentsTranslatesAfterCache(t *testing.T) {
	f := newCommentServiceFixture(t)
	_, err := f.svc.CreateComment(context.Background(), f.owner, f.task.ID, "hello world")
	require.NoError(t, err)

	listed, err := f.svc.ListComments(context.Background(), f.owner, f.task.ID, "de")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "[de] hello world", listed[0].Content)

	// The cached entry keeps the original text.
	listed, err = f.svc.ListComments(context.Background(), f.owner, f.task.ID, "")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "hello world", listed[0].Content)
}

func TestListCommentsTranslatorNotConfigured(t *testing.T) {
	f := newCommentServiceFixture(t)

	svc, err := NewCommentService(
		f.comments, f.tasks, cache.NewMemoryCache(), 10*time.Minute, f.emitter,
		nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	require.NoError(t, err)

	_, err = svc.ListComments(context.Background(), f.owner, f.task.ID, "de")
	assert.ErrorIs(t, err, translate.ErrNotConfigured)
}

func TestDeleteCommentRequiresAuthorOrStaff(t *testing.T) {
	f := newCommentServiceFixture(t)
	comment, err := f.svc.CreateComment(context.Background(), f.owner, f.task.ID, "delete me")
	require.NoError(t, err)

	stranger := &domain.User{ID: uuid.New(), Email: "x@example.com", IsActive: true}
	err = f.svc.DeleteComment(context.Background(), stranger, comment.ID)
	assert.ErrorIs(t, err, ErrNotOwned)

	err = f.svc.DeleteComment(context.Background(), f.owner, comment.ID)
	require.NoError(t, err)

	_, err = f.comments.GetByID(context.Background(), comment.ID)
	assert.ErrorIs(t, err, store.ErrCommentNotFound)
}
