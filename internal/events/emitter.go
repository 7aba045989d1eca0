package events

import (
	"context"
	"log/slog"
	"sync"
)

// InMemoryEmitter is a simple implementation of the Emitter interface that
// stores registered observers in memory and dispatches events to them
// synchronously, in registration order.
type InMemoryEmitter struct {
	taskObservers       []TaskObserver
	commentObservers    []CommentObserver
	attachmentObservers []AttachmentObserver
	mu                  sync.RWMutex
	logger              *slog.Logger
}

// NewInMemoryEmitter creates a new instance of InMemoryEmitter.
func NewInMemoryEmitter(logger *slog.Logger) *InMemoryEmitter {
	return &InMemoryEmitter{
		logger: logger.With("component", "in_memory_emitter"),
	}
}

// RegisterTaskObserver adds a new observer for task change events.
func (e *InMemoryEmitter) RegisterTaskObserver(observer TaskObserver) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.taskObservers = append(e.taskObservers, observer)
	e.logger.Debug("registered task observer", "observer_count", len(e.taskObservers))
}

// RegisterCommentObserver adds a new observer for comment created events.
func (e *InMemoryEmitter) RegisterCommentObserver(observer CommentObserver) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commentObservers = append(e.commentObservers, observer)
	e.logger.Debug("registered comment observer", "observer_count", len(e.commentObservers))
}

// RegisterAttachmentObserver adds a new observer for attachment created events.
func (e *InMemoryEmitter) RegisterAttachmentObserver(observer AttachmentObserver) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attachmentObservers = append(e.attachmentObservers, observer)
	e.logger.Debug("registered attachment observer", "observer_count", len(e.attachmentObservers))
}

// EmitTaskChange publishes the given event to all registered task observers.
// If any observer returns an error, the event is still delivered to the
// remaining observers, and the first error encountered is returned.
func (e *InMemoryEmitter) EmitTaskChange(ctx context.Context, event *TaskChangeEvent) error {
	e.mu.RLock()
	observers := make([]TaskObserver, len(e.taskObservers))
	copy(observers, e.taskObservers)
	e.mu.RUnlock()

	e.logger.Debug("emitting task change event",
		"event_id", event.ID,
		"task_id", event.Task.ID,
		"created", event.Created,
		"observer_count", len(observers))

	var firstErr error
	for i, observer := range observers {
		if err := observer.HandleTaskChange(ctx, event); err != nil {
			e.logger.Error("observer failed to process task change event",
				"error", err,
				"observer_index", i,
				"event_id", event.ID,
				"task_id", event.Task.ID)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// EmitCommentCreated publishes the given event to all registered comment
// observers, delivering to all even when some fail.
func (e *InMemoryEmitter) EmitCommentCreated(ctx context.Context, event *CommentCreatedEvent) error {
	e.mu.RLock()
	observers := make([]CommentObserver, len(e.commentObservers))
	copy(observers, e.commentObservers)
	e.mu.RUnlock()

	e.logger.Debug("emitting comment created event",
		"event_id", event.ID,
		"task_id", event.Task.ID,
		"comment_id", event.Comment.ID,
		"observer_count", len(observers))

	var firstErr error
	for i, observer := range observers {
		if err := observer.HandleCommentCreated(ctx, event); err != nil {
			e.logger.Error("observer failed to process comment created event",
				"error", err,
				"observer_index", i,
				"event_id", event.ID,
				"comment_id", event.Comment.ID)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// EmitAttachmentCreated publishes the given event to all registered
// attachment observers, delivering to all even when some fail.
func (e *InMemoryEmitter) EmitAttachmentCreated(ctx context.Context, event *AttachmentCreatedEvent) error {
	e.mu.RLock()
	observers := make([]AttachmentObserver, len(e.attachmentObservers))
	copy(observers, e.attachmentObservers)
	e.mu.RUnlock()

	e.logger.Debug("emitting attachment created event",
		"event_id", event.ID,
		"task_id", event.Task.ID,
		"attachment_id", event.Attachment.ID,
		"observer_count", len(observers))

	var firstErr error
	for i, observer := range observers {
		if err := observer.HandleAttachmentCreated(ctx, event); err != nil {
			e.logger.Error("observer failed to process attachment created event",
				"error", err,
				"observer_index", i,
				"event_id", event.ID,
				"attachment_id", event.Attachment.ID)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
