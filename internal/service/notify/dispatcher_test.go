package notify

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/events"
	"github.com/taskhive/taskhive-api/internal/store"
)

// recordingNotificationStore captures created notifications and can fail
// for chosen recipients.
type recordingNotificationStore struct {
	mu      sync.Mutex
	created []*domain.Notification
	failFor map[uuid.UUID]error
}

func (s *recordingNotificationStore) Create(_ context.Context, n *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failFor[n.RecipientID]; ok {
		return err
	}
	s.created = append(s.created, n)
	return nil
}

func (s *recordingNotificationStore) ListByRecipient(context.Context, uuid.UUID, bool) ([]*domain.Notification, error) {
	return nil, nil
}
func (s *recordingNotificationStore) MarkRead(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}
func (s *recordingNotificationStore) MarkAllRead(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}
func (s *recordingNotificationStore) WithTx(*sql.Tx) store.NotificationStore { return s }

// staticProjectStore serves a single project.
type staticProjectStore struct {
	project *domain.Project
	err     error
}

func (s *staticProjectStore) Create(context.Context, *domain.Project) error { return nil }
func (s *staticProjectStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Project, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.project, nil
}
func (s *staticProjectStore) ListByMember(context.Context, uuid.UUID) ([]*domain.Project, error) {
	return nil, nil
}
func (s *staticProjectStore) Update(context.Context, *domain.Project) error { return nil }
func (s *staticProjectStore) Delete(context.Context, uuid.UUID) error       { return nil }
func (s *staticProjectStore) WithTx(*sql.Tx) store.ProjectStore             { return s }

type dispatcherFixture struct {
	dispatcher    *Dispatcher
	notifications *recordingNotificationStore
	project       *domain.Project
	ownerID       uuid.UUID
}

func newFixture(t *testing.T) *dispatcherFixture {
	t.Helper()

	ownerID := uuid.New()
	project, err := domain.NewProject(ownerID, "Website Relaunch", "", time.Now())
	require.NoError(t, err)

	notifications := &recordingNotificationStore{}
	dispatcher := NewDispatcher(
		notifications,
		&staticProjectStore{project: project},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	return &dispatcherFixture{
		dispatcher:    dispatcher,
		notifications: notifications,
		project:       project,
		ownerID:       ownerID,
	}
}

func (f *dispatcherFixture) newTask(t *testing.T, assignee *uuid.UUID) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(
		f.project.ID,
		uuid.New(),
		"Deploy the new landing page",
		"",
		domain.TaskPriorityHigh,
		assignee,
		time.Now().Add(48*time.Hour),
	)
	require.NoError(t, err)
	return task
}

func (f *dispatcherFixture) messages() []string {
	f.notifications.mu.Lock()
	defer f.notifications.mu.Unlock()
	msgs := make([]string, len(f.notifications.created))
	for i, n := range f.notifications.created {
		msgs[i] = n.Message
	}
	return msgs
}

func (f *dispatcherFixture) recipients() []uuid.UUID {
	f.notifications.mu.Lock()
	defer f.notifications.mu.Unlock()
	ids := make([]uuid.UUID, len(f.notifications.created))
	for i, n := range f.notifications.created {
		ids[i] = n.RecipientID
	}
	return ids
}

func TestTaskCreatedWithAssigneeNotifiesExactlyOnce(t *testing.T) {
	f := newFixture(t)
	assignee := uuid.New()
	task := f.newTask(t, &assignee)

	err := f.dispatcher.HandleTaskChange(context.Background(), events.NewTaskCreatedEvent(task))
	require.NoError(t, err)

	require.Len(t, f.notifications.created, 1)
	assert.Equal(t, assignee, f.notifications.created[0].RecipientID)
	assert.Equal(t, "You were assigned to task 'Deploy the new landing page'.", f.notifications.created[0].Message)
}

func TestTaskCreatedUnassignedNotifiesNobody(t *testing.T) {
	f := newFixture(t)
	task := f.newTask(t, nil)

	err := f.dispatcher.HandleTaskChange(context.Background(), events.NewTaskCreatedEvent(task))
	require.NoError(t, err)
	assert.Empty(t, f.notifications.created)
}

func TestReassignmentNotifiesNewAndOldAssignee(t *testing.T) {
	f := newFixture(t)
	oldAssignee := uuid.New()
	task := f.newTask(t, &oldAssignee)

	prev := task.PreImage()
	newAssignee := uuid.New()
	task.AssignedTo = &newAssignee

	err := f.dispatcher.HandleTaskChange(context.Background(), events.NewTaskUpdatedEvent(task, &prev))
	require.NoError(t, err)

	require.Len(t, f.notifications.created, 2)
	assert.Equal(t, newAssignee, f.notifications.created[0].RecipientID)
	assert.Equal(t, "You were assigned to task 'Deploy the new landing page'.", f.notifications.created[0].Message)
	assert.Equal(t, oldAssignee, f.notifications.created[1].RecipientID)
	assert.Equal(t, "You were unassigned from task 'Deploy the new landing page'.", f.notifications.created[1].Message)
}

func TestUnassignmentNotifiesOnlyOldAssignee(t *testing.T) {
	f := newFixture(t)
	oldAssignee := uuid.New()
	task := f.newTask(t, &oldAssignee)

	prev := task.PreImage()
	task.AssignedTo = nil

	err := f.dispatcher.HandleTaskChange(context.Background(), events.NewTaskUpdatedEvent(task, &prev))
	require.NoError(t, err)

	require.Len(t, f.notifications.created, 1)
	assert.Equal(t, oldAssignee, f.notifications.created[0].RecipientID)
	assert.Equal(t, "You were unassigned from task 'Deploy the new landing page'.", f.notifications.created[0].Message)
}

func TestStatusChangeNotifiesOwnerAndAssignee(t *testing.T) {
	f := newFixture(t)
	assignee := uuid.New()
	task := f.newTask(t, &assignee)

	prev := task.PreImage()
	task.Status = domain.TaskStatusInProgress

	err := f.dispatcher.HandleTaskChange(context.Background(), events.NewTaskUpdatedEvent(task, &prev))
	require.NoError(t, err)

	require.Len(t, f.notifications.created, 2)
	assert.Equal(t, []uuid.UUID{f.ownerID, assignee}, f.recipients())
	for _, msg := range f.messages() {
		assert.Equal(t, "Task 'Deploy the new landing page' status changed from todo to in_progress.", msg)
	}
}

func TestStatusChangeDeduplicatesOwnerAssignee(t *testing.T) {
	f := newFixture(t)
	// Owner is also the assignee: only one row may be written.
	owner := f.ownerID
	task := f.newTask(t, &owner)

	prev := task.PreImage()
	task.Status = domain.TaskStatusCompleted

	err := f.dispatcher.HandleTaskChange(context.Background(), events.NewTaskUpdatedEvent(task, &prev))
	require.NoError(t, err)

	require.Len(t, f.notifications.created, 1)
	assert.Equal(t, owner, f.notifications.created[0].RecipientID)
}

func TestNotifyDeduplicatesAndSkipsAbsentRecipients(t *testing.T) {
	f := newFixture(t)
	a := uuid.New()
	b := uuid.New()

	cases := []struct {
		name       string
		recipients []uuid.UUID
		want       []uuid.UUID
	}{
		{"duplicate then absent then new", []uuid.UUID{a, a, uuid.Nil, b}, []uuid.UUID{a, b}},
		{"all absent", []uuid.UUID{uuid.Nil, uuid.Nil}, nil},
		{"order preserved", []uuid.UUID{b, a, b}, []uuid.UUID{b, a}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f.notifications.created = nil

			err := f.dispatcher.notify(context.Background(), tc.recipients, "Task 'Deploy' status changed.")
			require.NoError(t, err)

			got := make([]uuid.UUID, 0, len(f.notifications.created))
			for _, n := range f.notifications.created {
				got = append(got, n.RecipientID)
			}
			if tc.want == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestCombinedUpdateFiresBothRules(t *testing.T) {
	f := newFixture(t)
	oldAssignee := uuid.New()
	task := f.newTask(t, &oldAssignee)

	prev := task.PreImage()
	newAssignee := uuid.New()
	task.AssignedTo = &newAssignee
	task.Status = domain.TaskStatusInProgress

	err := f.dispatcher.HandleTaskChange(context.Background(), events.NewTaskUpdatedEvent(task, &prev))
	require.NoError(t, err)

	msgs := f.messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, "You were assigned to task 'Deploy the new landing page'.", msgs[0])
	assert.Equal(t, "You were unassigned from task 'Deploy the new landing page'.", msgs[1])
	assert.Contains(t, msgs[2], "status changed from todo to in_progress")
	assert.Contains(t, msgs[3], "status changed from todo to in_progress")
	assert.Equal(t, []uuid.UUID{newAssignee, oldAssignee, f.ownerID, newAssignee}, f.recipients())
}

func TestVanishedRecipientIsSkipped(t *testing.T) {
	f := newFixture(t)
	assignee := uuid.New()
	f.notifications.failFor = map[uuid.UUID]error{
		f.ownerID: fmt.Errorf("%w: recipient gone", store.ErrInvalidEntity),
	}

	task := f.newTask(t, &assignee)
	prev := task.PreImage()
	task.Status = domain.TaskStatusInProgress

	err := f.dispatcher.HandleTaskChange(context.Background(), events.NewTaskUpdatedEvent(task, &prev))
	require.NoError(t, err)

	// Owner insert failed with a vanished-recipient error; assignee still notified.
	require.Len(t, f.notifications.created, 1)
	assert.Equal(t, assignee, f.notifications.created[0].RecipientID)
}

func TestUnexpectedStoreErrorIsReturned(t *testing.T) {
	f := newFixture(t)
	assignee := uuid.New()
	f.notifications.failFor = map[uuid.UUID]error{
		assignee: errors.New("connection reset"),
	}

	task := f.newTask(t, &assignee)
	err := f.dispatcher.HandleTaskChange(context.Background(), events.NewTaskCreatedEvent(task))
	require.Error(t, err)
}

func TestCommentNotificationUsesSnippet(t *testing.T) {
	f := newFixture(t)
	assignee := uuid.New()
	task := f.newTask(t, &assignee)

	content := strings.Repeat("x", 60)
	comment, err := domain.NewTaskComment(task.ID, uuid.New(), content)
	require.NoError(t, err)

	err = f.dispatcher.HandleCommentCreated(context.Background(), events.NewCommentCreatedEvent(task, comment))
	require.NoError(t, err)

	require.Len(t, f.notifications.created, 2)
	want := fmt.Sprintf("New comment on 'Deploy the new landing page': %s...", strings.Repeat("x", 47))
	assert.Equal(t, want, f.notifications.created[0].Message)
	assert.Equal(t, []uuid.UUID{f.ownerID, assignee}, f.recipients())
}

func TestAttachmentNotificationUsesBaseName(t *testing.T) {
	f := newFixture(t)
	assignee := uuid.New()
	task := f.newTask(t, &assignee)

	attachment, err := domain.NewTaskAttachment(task.ID, uuid.New(), "tasks/2026/spec-final.pdf")
	require.NoError(t, err)

	err = f.dispatcher.HandleAttachmentCreated(context.Background(), events.NewAttachmentCreatedEvent(task, attachment))
	require.NoError(t, err)

	require.Len(t, f.notifications.created, 2)
	assert.Equal(t, "New attachment added to 'Deploy the new landing page': spec-final.pdf",
		f.notifications.created[0].Message)
}

func TestSnippet(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"short content unchanged", "looks good", "looks good"},
		{"exactly fifty unchanged", strings.Repeat("a", 50), strings.Repeat("a", 50)},
		{"fifty-one truncated", strings.Repeat("a", 51), strings.Repeat("a", 47) + "..."},
		{"whitespace trimmed", "  hello  ", "hello"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Snippet(tc.content))
		})
	}
}
