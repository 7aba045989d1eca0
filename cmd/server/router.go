package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/taskhive/taskhive-api/internal/api"
	apiMiddleware "github.com/taskhive/taskhive-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create handlers
// and register routes. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	// Create a router
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware) // Add trace IDs for improved error handling

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.config.Auth)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	projectHandler := api.NewProjectHandler(app.projectService, app.userService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.userService, app.logger)
	commentHandler := api.NewCommentHandler(app.commentService, app.userService, app.logger)
	memberHandler := api.NewMemberHandler(app.memberService, app.userService, app.logger)
	attachmentHandler := api.NewAttachmentHandler(app.attachmentService, app.userService, app.logger)
	notificationHandler := api.NewNotificationHandler(app.notificationService, app.userService, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Project endpoints
			r.Post("/projects", projectHandler.CreateProject)
			r.Get("/projects", projectHandler.ListProjects)
			r.Get("/projects/{id}", projectHandler.GetProject)
			r.Patch("/projects/{id}", projectHandler.UpdateProject)
			r.Delete("/projects/{id}", projectHandler.DeleteProject)

			// Project membership endpoints
			r.Post("/projects/{id}/members", memberHandler.AddMember)
			r.Get("/projects/{id}/members", memberHandler.ListMembers)
			r.Delete("/projects/{id}/members/{userID}", memberHandler.RemoveMember)

			// Task endpoints
			r.Post("/tasks", taskHandler.CreateTask)
			r.Get("/tasks/assigned", taskHandler.ListAssignedTasks)
			r.Get("/projects/{id}/tasks", taskHandler.ListProjectTasks)
			r.Get("/tasks/{id}", taskHandler.GetTask)
			r.Patch("/tasks/{id}", taskHandler.UpdateTask)
			r.Delete("/tasks/{id}", taskHandler.DeleteTask)

			// Comment endpoints
			r.Post("/tasks/{id}/comments", commentHandler.CreateComment)
			r.Get("/tasks/{id}/comments", commentHandler.ListComments)
			r.Delete("/comments/{id}", commentHandler.DeleteComment)

			// Attachment endpoints
			r.Post("/tasks/{id}/attachments", attachmentHandler.UploadAttachment)
			r.Get("/tasks/{id}/attachments", attachmentHandler.ListAttachments)
			r.Get("/attachments/{id}", attachmentHandler.DownloadAttachment)
			r.Delete("/attachments/{id}", attachmentHandler.DeleteAttachment)

			// Notification endpoints
			r.Get("/notifications", notificationHandler.ListNotifications)
			r.Post("/notifications/{id}/read", notificationHandler.MarkRead)
			r.Post("/notifications/read-all", notificationHandler.MarkAllRead)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
