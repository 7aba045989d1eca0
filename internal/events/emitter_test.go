package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/taskhive/taskhive-api/internal/domain"
)

// recordingTaskObserver captures the task change events it receives.
type recordingTaskObserver struct {
	events []*TaskChangeEvent
	err    error
}

func (o *recordingTaskObserver) HandleTaskChange(_ context.Context, event *TaskChangeEvent) error {
	o.events = append(o.events, event)
	return o.err
}

type recordingCommentObserver struct {
	events []*CommentCreatedEvent
	err    error
}

func (o *recordingCommentObserver) HandleCommentCreated(_ context.Context, event *CommentCreatedEvent) error {
	o.events = append(o.events, event)
	return o.err
}

func newEventTask(t *testing.T) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(
		uuid.New(),
		uuid.New(),
		"Wire up the staging cluster",
		"",
		domain.TaskPriorityMedium,
		nil,
		time.Now().Add(24*time.Hour),
	)
	if err != nil {
		t.Fatalf("failed to build task: %v", err)
	}
	return task
}

func TestInMemoryEmitterTaskChange(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("no observers", func(t *testing.T) {
		emitter := NewInMemoryEmitter(logger)
		event := NewTaskCreatedEvent(newEventTask(t))

		assert.NoError(t, emitter.EmitTaskChange(context.Background(), event))
	})

	t.Run("all observers receive the event", func(t *testing.T) {
		emitter := NewInMemoryEmitter(logger)
		first := &recordingTaskObserver{}
		second := &recordingTaskObserver{}
		emitter.RegisterTaskObserver(first)
		emitter.RegisterTaskObserver(second)

		event := NewTaskCreatedEvent(newEventTask(t))
		assert.NoError(t, emitter.EmitTaskChange(context.Background(), event))

		assert.Len(t, first.events, 1)
		assert.Len(t, second.events, 1)
		assert.Equal(t, event, first.events[0])
		assert.Equal(t, event, second.events[0])
	})

	t.Run("failing observer does not block the rest", func(t *testing.T) {
		emitter := NewInMemoryEmitter(logger)
		failing := &recordingTaskObserver{err: errors.New("observer error")}
		healthy := &recordingTaskObserver{}
		emitter.RegisterTaskObserver(failing)
		emitter.RegisterTaskObserver(healthy)

		event := NewTaskCreatedEvent(newEventTask(t))
		err := emitter.EmitTaskChange(context.Background(), event)

		assert.EqualError(t, err, "observer error")
		assert.Len(t, healthy.events, 1)
	})
}

func TestInMemoryEmitterCommentCreated(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	emitter := NewInMemoryEmitter(logger)
	observer := &recordingCommentObserver{}
	emitter.RegisterCommentObserver(observer)

	task := newEventTask(t)
	comment, err := domain.NewTaskComment(task.ID, uuid.New(), "looks good")
	assert.NoError(t, err)

	event := NewCommentCreatedEvent(task, comment)
	assert.NoError(t, emitter.EmitCommentCreated(context.Background(), event))
	assert.Len(t, observer.events, 1)
	assert.Equal(t, comment, observer.events[0].Comment)
}

func TestNewTaskUpdatedEventCarriesPrev(t *testing.T) {
	task := newEventTask(t)
	prev := task.PreImage()
	task.Status = domain.TaskStatusInProgress

	event := NewTaskUpdatedEvent(task, &prev)

	assert.False(t, event.Created)
	assert.Equal(t, domain.TaskStatusTodo, event.Prev.Status)
	assert.Equal(t, domain.TaskStatusInProgress, event.Task.Status)
	assert.NotEqual(t, uuid.Nil, event.ID)
}
