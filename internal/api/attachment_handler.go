package api

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/service"
)

// maxAttachmentSize caps multipart uploads at 32 MiB.
const maxAttachmentSize = 32 << 20

// AttachmentResponse represents the response data for a task attachment
type AttachmentResponse struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"task_id"`
	FileName   string    `json:"file_name"`
	UploadedBy string    `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// AttachmentHandler handles attachment-related HTTP requests
type AttachmentHandler struct {
	attachments service.AttachmentService
	users       service.UserService
	logger      *slog.Logger
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(
	attachments service.AttachmentService,
	users service.UserService,
	logger *slog.Logger,
) *AttachmentHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AttachmentHandler")
	}

	return &AttachmentHandler{
		attachments: attachments,
		users:       users,
		logger:      logger.With(slog.String("component", "attachment_handler")),
	}
}

// UploadAttachment handles POST /tasks/{id}/attachments requests. The file is
// expected as the "file" field of a multipart form.
func (h *AttachmentHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
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

	if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing file field")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Warn("failed to close uploaded file", slog.String("error", closeErr.Error()))
		}
	}()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachment, err := h.attachments.UploadAttachment(
		r.Context(), user, taskID, header.Filename, file, header.Size, contentType)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to upload attachment")
		return
	}

	log.Debug("attachment uploaded",
		slog.String("attachment_id", attachment.ID.String()),
		slog.String("task_id", taskID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, attachmentToResponse(attachment))
}

// ListAttachments handles GET /tasks/{id}/attachments requests
func (h *AttachmentHandler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.users)
	if !ok {
		return
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	attachments, err := h.attachments.ListAttachments(r.Context(), user, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list attachments")
		return
	}

	responses := make([]AttachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		responses = append(responses, attachmentToResponse(a))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// DownloadAttachment handles GET /attachments/{id} requests, streaming the
// stored file back to the client.
func (h *AttachmentHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	user, ok := requireUser(w, r, h.users)
	if !ok {
		return
	}

	attachmentID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	attachment, reader, err := h.attachments.OpenAttachment(r.Context(), user, attachmentID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to download attachment")
		return
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			log.Warn("failed to close attachment reader", slog.String("error", closeErr.Error()))
		}
	}()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+attachment.BaseName()+`"`)
	if _, err := io.Copy(w, reader); err != nil {
		log.Warn("failed to stream attachment",
			slog.String("error", err.Error()),
			slog.String("attachment_id", attachmentID.String()))
	}
}

// DeleteAttachment handles DELETE /attachments/{id} requests
func (h *AttachmentHandler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.users)
	if !ok {
		return
	}

	attachmentID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.attachments.DeleteAttachment(r.Context(), user, attachmentID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete attachment")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// attachmentToResponse converts a domain.TaskAttachment to an AttachmentResponse
func attachmentToResponse(attachment *domain.TaskAttachment) AttachmentResponse {
	return AttachmentResponse{
		ID:         attachment.ID.String(),
		TaskID:     attachment.TaskID.String(),
		FileName:   attachment.BaseName(),
		UploadedBy: attachment.UploadedBy.String(),
		UploadedAt: attachment.UploadedAt,
	}
}
