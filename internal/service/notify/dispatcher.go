// Package notify turns committed domain events into in-app notification
// rows. The dispatcher owns the message wording and the recipient rules;
// recipients are assembled in a fixed order and deduplicated, with absent
// recipients skipped.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/events"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/store"
)

// Notification message formats. The wording is part of the product surface
// and asserted by tests; change with care.
const (
	msgAssigned      = "You were assigned to task '%s'."
	msgUnassigned    = "You were unassigned from task '%s'."
	msgStatusChanged = "Task '%s' status changed from %s to %s."
	msgNewComment    = "New comment on '%s': %s"
	msgNewAttachment = "New attachment added to '%s': %s"
)

// snippetLimit bounds the comment excerpt embedded in a notification.
// Content longer than the limit is cut to snippetCut characters plus an
// ellipsis.
const (
	snippetLimit = 50
	snippetCut   = 47
)

// Dispatcher observes committed writes and persists the notifications they
// imply. It implements the observer interfaces of the events package.
type Dispatcher struct {
	notifications store.NotificationStore
	projects      store.ProjectStore
	logger        *slog.Logger
}

// NewDispatcher creates a Dispatcher writing through the given stores.
// If logger is nil, a default logger will be used.
func NewDispatcher(
	notifications store.NotificationStore,
	projects store.ProjectStore,
	logger *slog.Logger,
) *Dispatcher {
	if notifications == nil {
		panic("notification store cannot be nil")
	}
	if projects == nil {
		panic("project store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		notifications: notifications,
		projects:      projects,
		logger:        logger.With(slog.String("component", "notify_dispatcher")),
	}
}

// Ensure Dispatcher implements the observer interfaces
var (
	_ events.TaskObserver       = (*Dispatcher)(nil)
	_ events.CommentObserver    = (*Dispatcher)(nil)
	_ events.AttachmentObserver = (*Dispatcher)(nil)
)

// HandleTaskChange implements events.TaskObserver. On creation only an
// assigned task produces a notification, addressed to the assignee. On
// update, an assignment change notifies the new assignee and the previous
// one, and a status change notifies the project owner and the assignee.
// Both rules fire independently when an update changes both fields.
func (d *Dispatcher) HandleTaskChange(ctx context.Context, event *events.TaskChangeEvent) error {
	task := event.Task

	if event.Created {
		if task.AssignedTo != nil {
			return d.notify(ctx, []uuid.UUID{*task.AssignedTo},
				fmt.Sprintf(msgAssigned, task.Title))
		}
		return nil
	}

	if event.Prev == nil {
		return fmt.Errorf("task change event for %s has no prior state", task.ID)
	}
	prev := *event.Prev

	var firstErr error

	if task.AssigneeID() != prev.AssignedTo {
		if task.AssignedTo != nil {
			if err := d.notify(ctx, []uuid.UUID{*task.AssignedTo},
				fmt.Sprintf(msgAssigned, task.Title)); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		if prev.AssignedTo != uuid.Nil && prev.AssignedTo != task.AssigneeID() {
			if err := d.notify(ctx, []uuid.UUID{prev.AssignedTo},
				fmt.Sprintf(msgUnassigned, task.Title)); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}

	if prev.Status != "" && task.Status != prev.Status {
		recipients := []uuid.UUID{d.projectOwner(ctx, task.ProjectID), task.AssigneeID()}
		msg := fmt.Sprintf(msgStatusChanged, task.Title, prev.Status, task.Status)
		if err := d.notify(ctx, recipients, msg); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// HandleCommentCreated implements events.CommentObserver. The project owner
// and the task's assignee are notified with a bounded excerpt of the
// comment.
func (d *Dispatcher) HandleCommentCreated(ctx context.Context, event *events.CommentCreatedEvent) error {
	task := event.Task

	recipients := []uuid.UUID{d.projectOwner(ctx, task.ProjectID), task.AssigneeID()}
	msg := fmt.Sprintf(msgNewComment, task.Title, Snippet(event.Comment.Content))
	return d.notify(ctx, recipients, msg)
}

// HandleAttachmentCreated implements events.AttachmentObserver. The project
// owner and the task's assignee are notified with the attachment's base
// file name.
func (d *Dispatcher) HandleAttachmentCreated(ctx context.Context, event *events.AttachmentCreatedEvent) error {
	task := event.Task

	recipients := []uuid.UUID{d.projectOwner(ctx, task.ProjectID), task.AssigneeID()}
	msg := fmt.Sprintf(msgNewAttachment, task.Title, event.Attachment.BaseName())
	return d.notify(ctx, recipients, msg)
}

// notify creates one notification per unique, present recipient, preserving
// the order recipients were given in. A recipient that vanished between the
// write and the dispatch is logged and skipped, never failing the rest.
func (d *Dispatcher) notify(ctx context.Context, recipients []uuid.UUID, message string) error {
	log := logger.FromContextOrDefault(ctx, d.logger)

	seen := make(map[uuid.UUID]struct{}, len(recipients))
	var firstErr error

	for _, recipient := range recipients {
		if recipient == uuid.Nil {
			continue
		}
		if _, ok := seen[recipient]; ok {
			continue
		}
		seen[recipient] = struct{}{}

		notification, err := domain.NewNotification(recipient, message)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		if err := d.notifications.Create(ctx, notification); err != nil {
			if errors.Is(err, store.ErrInvalidEntity) {
				// Recipient was deleted since the event was captured.
				log.Warn("skipping notification for vanished recipient",
					slog.String("recipient_id", recipient.String()))
				continue
			}
			log.Error("failed to create notification",
				slog.String("error", err.Error()),
				slog.String("recipient_id", recipient.String()))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// projectOwner resolves the owner of a project, returning uuid.Nil when the
// project cannot be loaded so the caller's recipient list simply skips it.
func (d *Dispatcher) projectOwner(ctx context.Context, projectID uuid.UUID) uuid.UUID {
	project, err := d.projects.GetByID(ctx, projectID)
	if err != nil {
		d.logger.Warn("failed to resolve project owner for notification",
			slog.String("project_id", projectID.String()),
			slog.String("error", err.Error()))
		return uuid.Nil
	}
	return project.OwnerID
}

// Snippet bounds comment content for inclusion in a notification message.
// Content is trimmed, and anything longer than 50 characters is cut to the
// first 47 followed by "...".
func Snippet(content string) string {
	trimmed := []rune(strings.TrimSpace(content))
	if len(trimmed) > snippetLimit {
		return string(trimmed[:snippetCut]) + "..."
	}
	return string(trimmed)
}
