package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/service"
)

// CommentResponse represents the response data for a task comment
type CommentResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentHandler handles comment-related HTTP requests
type CommentHandler struct {
	comments service.CommentService
	users    service.UserService
	logger   *slog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	comments service.CommentService,
	users service.UserService,
	logger *slog.Logger,
) *CommentHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CommentHandler")
	}

	return &CommentHandler{
		comments: comments,
		users:    users,
		logger:   logger.With(slog.String("component", "comment_handler")),
	}
}

// CreateComment handles POST /tasks/{id}/comments requests
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	user, ok := requireUser(w, r, h.users)
	if !ok {
		return
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req CreateCommentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	comment, err := h.comments.CreateComment(r.Context(), user, taskID, req.Content)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create comment")
		return
	}

	log.Debug("comment created",
		slog.String("comment_id", comment.ID.String()),
		slog.String("task_id", taskID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, commentToResponse(comment))
}

// ListComments handles GET /tasks/{id}/comments requests. The optional lang
// query parameter requests the comment text translated into that language.
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.users)
	if !ok {
		return
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	lang := r.URL.Query().Get("lang")

	comments, err := h.comments.ListComments(r.Context(), user, taskID, lang)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list comments")
		return
	}

	responses := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		responses = append(responses, commentToResponse(c))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// DeleteComment handles DELETE /comments/{id} requests
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.users)
	if !ok {
		return
	}

	commentID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.comments.DeleteComment(r.Context(), user, commentID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete comment")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// commentToResponse converts a domain.TaskComment to a CommentResponse
func commentToResponse(comment *domain.TaskComment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID.String(),
		TaskID:    comment.TaskID.String(),
		AuthorID:  comment.AuthorID.String(),
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}
