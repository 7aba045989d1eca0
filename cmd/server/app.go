package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/taskhive/taskhive-api/internal/config"
	"github.com/taskhive/taskhive-api/internal/events"
	"github.com/taskhive/taskhive-api/internal/platform/cache"
	"github.com/taskhive/taskhive-api/internal/platform/mail"
	"github.com/taskhive/taskhive-api/internal/platform/objectstore"
	"github.com/taskhive/taskhive-api/internal/platform/postgres"
	"github.com/taskhive/taskhive-api/internal/platform/translate"
	"github.com/taskhive/taskhive-api/internal/service"
	"github.com/taskhive/taskhive-api/internal/service/auth"
	"github.com/taskhive/taskhive-api/internal/service/notify"
	"github.com/taskhive/taskhive-api/internal/store"
	"github.com/taskhive/taskhive-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore         store.UserStore
	projectStore      store.ProjectStore
	memberStore       store.MemberStore
	taskStore         store.TaskStore
	commentStore      store.CommentStore
	attachmentStore   store.AttachmentStore
	notificationStore store.NotificationStore
	jobStore          task.JobStore

	// Platform adapters
	commentCache cache.Cache
	mailer       mail.Mailer
	fileStore    objectstore.FileStore
	translator   translate.Translator

	// Service interfaces
	jwtService          auth.JWTService
	passwordVerifier    auth.PasswordVerifier
	userService         service.UserService
	projectService      service.ProjectService
	memberService       service.MemberService
	taskService         service.TaskService
	commentService      service.CommentService
	attachmentService   service.AttachmentService
	notificationService service.NotificationService

	// Event system
	eventEmitter events.Emitter

	// Background job handling
	emailFactory     *task.EmailJobFactory
	jobRunner        *task.JobRunner
	summaryScheduler *task.SummaryScheduler
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_hours", cfg.Auth.TokenLifetimeHours)

	// Initialize password verifier
	app.passwordVerifier = auth.NewBcryptVerifier()

	// Initialize stores
	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	app.projectStore = postgres.NewPostgresProjectStore(db, logger)
	app.memberStore = postgres.NewPostgresMemberStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.commentStore = postgres.NewPostgresCommentStore(db, logger)
	app.attachmentStore = postgres.NewPostgresAttachmentStore(db, logger)
	app.notificationStore = postgres.NewPostgresNotificationStore(db, logger)

	// Initialize platform adapters. The comment cache falls back to an
	// in-process cache when Redis is unreachable so the API can still serve
	// traffic, just without cross-instance cache sharing.
	redisCache, err := cache.NewRedisCache(cfg.Cache, logger)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory comment cache",
			"error", err)
		app.commentCache = cache.NewMemoryCache()
	} else {
		app.commentCache = redisCache
	}

	app.mailer = mail.NewSMTPMailer(cfg.Mail, logger)
	app.translator = translate.NewGoogleTranslator(cfg.Translate, logger)

	// The file store is optional: without an endpoint configured,
	// attachment uploads are rejected with a service unavailable error.
	if cfg.ObjectStore.Endpoint != "" {
		fileStore, err := objectstore.NewMinioFileStore(cfg.ObjectStore, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize object store: %w", err)
		}
		app.fileStore = fileStore
	} else {
		logger.Warn("no object store endpoint configured, attachment uploads disabled")
	}

	// Initialize the background job pipeline. The email factory doubles as
	// the hydrator that rebuilds persisted jobs during crash recovery, so it
	// must exist before the job store.
	app.emailFactory = task.NewEmailJobFactory(
		app.mailer,
		app.userStore,
		cfg.Worker.EmailMaxAttempts,
		cfg.Worker.EmailRetryDelay,
		logger,
	)
	app.jobStore = postgres.NewPostgresJobStore(db, app.emailFactory, logger)

	app.jobRunner, err = setupJobRunner(app)
	if err != nil {
		return nil, fmt.Errorf("failed to setup job runner: %w", err)
	}

	app.summaryScheduler = task.NewSummaryScheduler(
		app.jobRunner,
		app.emailFactory,
		cfg.Worker.DailySummaryHour,
		logger,
	)
	if err := app.summaryScheduler.Start(); err != nil {
		return nil, fmt.Errorf("failed to start summary scheduler: %w", err)
	}

	// Initialize event emitter and register the notification dispatcher so
	// committed task, comment, and attachment writes produce in-app
	// notifications.
	emitter := events.NewInMemoryEmitter(logger)
	dispatcher := notify.NewDispatcher(app.notificationStore, app.projectStore, logger)
	emitter.RegisterTaskObserver(dispatcher)
	emitter.RegisterCommentObserver(dispatcher)
	emitter.RegisterAttachmentObserver(dispatcher)
	app.eventEmitter = emitter

	// Initialize services
	app.userService, err = service.NewUserService(db, app.userStore, app.passwordVerifier, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.projectService, err = service.NewProjectService(app.projectStore, app.memberStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create project service: %w", err)
	}

	app.memberService, err = service.NewMemberService(app.memberStore, app.projectStore, app.userStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create member service: %w", err)
	}

	app.taskService, err = service.NewTaskService(
		db,
		app.taskStore,
		app.projectStore,
		app.userStore,
		app.eventEmitter,
		app.jobRunner,
		app.emailFactory,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.commentService, err = service.NewCommentService(
		app.commentStore,
		app.taskStore,
		app.commentCache,
		cfg.Cache.CommentTTL,
		app.eventEmitter,
		app.translator,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment service: %w", err)
	}

	app.attachmentService, err = service.NewAttachmentService(
		app.attachmentStore,
		app.taskStore,
		app.projectStore,
		app.fileStore,
		app.eventEmitter,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment service: %w", err)
	}

	app.notificationService, err = service.NewNotificationService(app.notificationStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	// Set up router using the application dependencies
	router := app.setupRouter()

	// Start the HTTP server
	err := app.startHTTPServer(ctx, router)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// setupJobRunner initializes and starts the background job processor.
// Start re-enqueues any jobs left behind by a previous run before the
// workers begin draining the queue.
func setupJobRunner(app *application) (*task.JobRunner, error) {
	jobRunner := task.NewJobRunner(app.jobStore, task.JobRunnerConfig{
		WorkerCount:           app.config.Worker.Count,
		QueueSize:             app.config.Worker.QueueSize,
		StuckJobAge:           app.config.Worker.StuckJobAge,
		StuckJobCheckInterval: app.config.Worker.StuckJobInterval,
	}, app.logger)

	if err := jobRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start job runner: %w", err)
	}

	return jobRunner, nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// Stop the daily summary scheduler
	if app.summaryScheduler != nil {
		app.summaryScheduler.Stop()
	}

	// Stop job runner
	if app.jobRunner != nil {
		app.jobRunner.Stop()
	}

	// Close database connection
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
