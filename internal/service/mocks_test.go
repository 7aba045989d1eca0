package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/events"
	"github.com/taskhive/taskhive-api/internal/store"
	"github.com/taskhive/taskhive-api/internal/task"
)

// mockTaskStore is a stateful in-memory TaskStore. WithTx returns the same
// instance so transactional paths observe the shared state.
type mockTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task

	createErr error
	updateErr error

	getForUpdateCalled bool
	updateCalled       bool
}

func newMockTaskStore() *mockTaskStore {
	return &mockTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

func (m *mockTaskStore) put(t *domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *t
	m.tasks[t.ID] = &copied
}

func (m *mockTaskStore) Create(_ context.Context, t *domain.Task) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.put(t)
	return nil
}

func (m *mockTaskStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *mockTaskStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	m.getForUpdateCalled = true
	return m.GetByID(ctx, id)
}

func (m *mockTaskStore) ListByProject(_ context.Context, projectID uuid.UUID) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Task{}
	for _, t := range m.tasks {
		if t.ProjectID == projectID {
			copied := *t
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockTaskStore) ListByAssignee(_ context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Task{}
	for _, t := range m.tasks {
		if t.AssigneeID() == userID {
			copied := *t
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockTaskStore) Update(_ context.Context, t *domain.Task) error {
	m.updateCalled = true
	if m.updateErr != nil {
		return m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[t.ID]; !ok {
		return store.ErrTaskNotFound
	}
	copied := *t
	m.tasks[t.ID] = &copied
	return nil
}

func (m *mockTaskStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *mockTaskStore) WithTx(*sql.Tx) store.TaskStore { return m }

// mockProjectStore is a stateful in-memory ProjectStore.
type mockProjectStore struct {
	mu       sync.Mutex
	projects map[uuid.UUID]*domain.Project
}

func newMockProjectStore() *mockProjectStore {
	return &mockProjectStore{projects: make(map[uuid.UUID]*domain.Project)}
}

func (m *mockProjectStore) put(p *domain.Project) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *p
	m.projects[p.ID] = &copied
}

func (m *mockProjectStore) Create(_ context.Context, p *domain.Project) error {
	m.put(p)
	return nil
}

func (m *mockProjectStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, store.ErrProjectNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockProjectStore) ListByMember(_ context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Project{}
	for _, p := range m.projects {
		if p.OwnerID == userID {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockProjectStore) Update(_ context.Context, p *domain.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[p.ID]; !ok {
		return store.ErrProjectNotFound
	}
	copied := *p
	m.projects[p.ID] = &copied
	return nil
}

func (m *mockProjectStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return store.ErrProjectNotFound
	}
	delete(m.projects, id)
	return nil
}

func (m *mockProjectStore) WithTx(*sql.Tx) store.ProjectStore { return m }

// mockUserStore is a stateful in-memory UserStore keyed by ID and email.
type mockUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User

	createErr error
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (m *mockUserStore) put(u *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *u
	m.users[u.ID] = &copied
}

func (m *mockUserStore) Create(_ context.Context, u *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			m.mu.Unlock()
			return store.ErrEmailExists
		}
	}
	m.mu.Unlock()

	// Mirror the real store: hash and clear the plaintext password.
	u.HashedPassword = "hashed:" + u.Password
	u.Password = ""
	m.put(u)
	return nil
}

func (m *mockUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) Update(_ context.Context, u *domain.User) error {
	m.put(u)
	return nil
}

func (m *mockUserStore) ListActive(_ context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.User{}
	for _, u := range m.users {
		if u.IsActive {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockUserStore) WithTx(*sql.Tx) store.UserStore { return m }

// mockCommentStore is a stateful in-memory CommentStore.
type mockCommentStore struct {
	mu       sync.Mutex
	comments []*domain.TaskComment

	listCalls int
}

func newMockCommentStore() *mockCommentStore {
	return &mockCommentStore{}
}

func (m *mockCommentStore) Create(_ context.Context, c *domain.TaskComment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *c
	// Newest first, matching the authoritative ordering.
	m.comments = append([]*domain.TaskComment{&copied}, m.comments...)
	return nil
}

func (m *mockCommentStore) GetByID(_ context.Context, id uuid.UUID) (*domain.TaskComment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.comments {
		if c.ID == id && !c.IsDeleted {
			copied := *c
			return &copied, nil
		}
	}
	return nil, store.ErrCommentNotFound
}

func (m *mockCommentStore) ListByTaskForOwner(_ context.Context, taskID, _ uuid.UUID) ([]*domain.TaskComment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	out := []*domain.TaskComment{}
	for _, c := range m.comments {
		if c.TaskID == taskID && !c.IsDeleted {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockCommentStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskComment, error) {
	return m.ListByTaskForOwner(ctx, taskID, uuid.Nil)
}

func (m *mockCommentStore) MarkDeleted(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.comments {
		if c.ID == id && !c.IsDeleted {
			c.IsDeleted = true
			return nil
		}
	}
	return store.ErrCommentNotFound
}

func (m *mockCommentStore) WithTx(*sql.Tx) store.CommentStore { return m }

// recordingEmitter records emitted events and can fail on demand.
type recordingEmitter struct {
	mu               sync.Mutex
	taskEvents       []*events.TaskChangeEvent
	commentEvents    []*events.CommentCreatedEvent
	attachmentEvents []*events.AttachmentCreatedEvent
	failErr          error
}

func (e *recordingEmitter) EmitTaskChange(_ context.Context, event *events.TaskChangeEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failErr != nil {
		return e.failErr
	}
	e.taskEvents = append(e.taskEvents, event)
	return nil
}

func (e *recordingEmitter) EmitCommentCreated(_ context.Context, event *events.CommentCreatedEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failErr != nil {
		return e.failErr
	}
	e.commentEvents = append(e.commentEvents, event)
	return nil
}

func (e *recordingEmitter) EmitAttachmentCreated(_ context.Context, event *events.AttachmentCreatedEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failErr != nil {
		return e.failErr
	}
	e.attachmentEvents = append(e.attachmentEvents, event)
	return nil
}

// stubJob is a minimal Job implementation for queue assertions.
type stubJob struct {
	id      uuid.UUID
	jobType string
	payload []byte
}

func (j *stubJob) ID() uuid.UUID              { return j.id }
func (j *stubJob) Type() string               { return j.jobType }
func (j *stubJob) Payload() []byte            { return j.payload }
func (j *stubJob) Status() task.JobStatus     { return task.JobStatusPending }
func (j *stubJob) Execute(context.Context) error { return nil }

// recordingJobSubmitter records submitted jobs.
type recordingJobSubmitter struct {
	mu   sync.Mutex
	jobs []task.Job
}

func (s *recordingJobSubmitter) Submit(_ context.Context, job task.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
	return nil
}

// stubEmailFactory builds stub assignment email jobs and records the
// recipients they were built for.
type stubEmailFactory struct {
	mu         sync.Mutex
	recipients []string
	taskIDs    []uuid.UUID
}

func (f *stubEmailFactory) CreateAssignmentEmailJob(taskID uuid.UUID, recipientEmail string) (task.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recipients = append(f.recipients, recipientEmail)
	f.taskIDs = append(f.taskIDs, taskID)
	return &stubJob{
		id:      uuid.New(),
		jobType: task.JobTypeAssignmentEmail,
		payload: []byte(fmt.Sprintf(`{"task_id":%q,"recipient_email":%q}`, taskID, recipientEmail)),
	}, nil
}

// staticTranslator prefixes the target language to the text.
type staticTranslator struct{}

func (staticTranslator) Translate(_ context.Context, text, targetLang string) (string, error) {
	return "[" + targetLang + "] " + text, nil
}
