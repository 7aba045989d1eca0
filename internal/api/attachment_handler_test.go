package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/service"
)

// mockAttachmentService is a mock implementation of the AttachmentService
// interface
type mockAttachmentService struct {
	uploadFn func(ctx context.Context, actingUser *domain.User, taskID uuid.UUID, fileName string, contents io.Reader, size int64, contentType string) (*domain.TaskAttachment, error)
	listFn   func(ctx context.Context, actingUser *domain.User, taskID uuid.UUID) ([]*domain.TaskAttachment, error)
	openFn   func(ctx context.Context, actingUser *domain.User, attachmentID uuid.UUID) (*domain.TaskAttachment, io.ReadCloser, error)
	deleteFn func(ctx context.Context, actingUser *domain.User, attachmentID uuid.UUID) error
}

func (m *mockAttachmentService) UploadAttachment(ctx context.Context, actingUser *domain.User, taskID uuid.UUID, fileName string, contents io.Reader, size int64, contentType string) (*domain.TaskAttachment, error) {
	return m.uploadFn(ctx, actingUser, taskID, fileName, contents, size, contentType)
}

func (m *mockAttachmentService) ListAttachments(ctx context.Context, actingUser *domain.User, taskID uuid.UUID) ([]*domain.TaskAttachment, error) {
	return m.listFn(ctx, actingUser, taskID)
}

func (m *mockAttachmentService) OpenAttachment(ctx context.Context, actingUser *domain.User, attachmentID uuid.UUID) (*domain.TaskAttachment, io.ReadCloser, error) {
	return m.openFn(ctx, actingUser, attachmentID)
}

func (m *mockAttachmentService) DeleteAttachment(ctx context.Context, actingUser *domain.User, attachmentID uuid.UUID) error {
	return m.deleteFn(ctx, actingUser, attachmentID)
}

// multipartBody builds a multipart form with a single file field.
func multipartBody(t *testing.T, fieldName, fileName, contents string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = io.WriteString(part, contents)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestUploadAttachment(t *testing.T) {
	userID := uuid.New()
	actingUser := &domain.User{ID: userID, IsActive: true}
	taskID := uuid.New()
	attachmentID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		var gotFileName string
		var gotContents []byte

		attachments := &mockAttachmentService{
			uploadFn: func(ctx context.Context, user *domain.User, id uuid.UUID, fileName string, contents io.Reader, size int64, contentType string) (*domain.TaskAttachment, error) {
				gotFileName = fileName
				data, err := io.ReadAll(contents)
				require.NoError(t, err)
				gotContents = data
				return &domain.TaskAttachment{
					ID:         attachmentID,
					TaskID:     id,
					FileName:   "attachments/" + id.String() + "/" + fileName,
					UploadedBy: user.ID,
					UploadedAt: time.Now().UTC(),
				}, nil
			},
		}

		handler := NewAttachmentHandler(attachments, userServiceReturning(actingUser), slog.Default())

		body, contentType := multipartBody(t, "file", "design.pdf", "pdf bytes")
		req := authedRequest("POST", "/api/tasks/"+taskID.String()+"/attachments",
			body, userID, map[string]string{"id": taskID.String()})
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		handler.UploadAttachment(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "design.pdf", gotFileName)
		assert.Equal(t, "pdf bytes", string(gotContents))

		var resp AttachmentResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, attachmentID.String(), resp.ID)
		assert.Equal(t, "design.pdf", resp.FileName)
	})

	t.Run("Missing File Field", func(t *testing.T) {
		handler := NewAttachmentHandler(&mockAttachmentService{}, userServiceReturning(actingUser), slog.Default())

		body, contentType := multipartBody(t, "document", "design.pdf", "pdf bytes")
		req := authedRequest("POST", "/api/tasks/"+taskID.String()+"/attachments",
			body, userID, map[string]string{"id": taskID.String()})
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		handler.UploadAttachment(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Storage Not Configured", func(t *testing.T) {
		attachments := &mockAttachmentService{
			uploadFn: func(ctx context.Context, user *domain.User, id uuid.UUID, fileName string, contents io.Reader, size int64, contentType string) (*domain.TaskAttachment, error) {
				return nil, service.ErrAttachmentsDisabled
			},
		}

		handler := NewAttachmentHandler(attachments, userServiceReturning(actingUser), slog.Default())

		body, contentType := multipartBody(t, "file", "design.pdf", "pdf bytes")
		req := authedRequest("POST", "/api/tasks/"+taskID.String()+"/attachments",
			body, userID, map[string]string{"id": taskID.String()})
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		handler.UploadAttachment(rr, req)

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}

func TestDownloadAttachment(t *testing.T) {
	userID := uuid.New()
	actingUser := &domain.User{ID: userID, IsActive: true}
	attachmentID := uuid.New()

	attachments := &mockAttachmentService{
		openFn: func(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.TaskAttachment, io.ReadCloser, error) {
			attachment := &domain.TaskAttachment{
				ID:         id,
				TaskID:     uuid.New(),
				FileName:   "attachments/" + id.String() + "/design.pdf",
				UploadedBy: user.ID,
			}
			return attachment, io.NopCloser(strings.NewReader("pdf bytes")), nil
		},
	}

	handler := NewAttachmentHandler(attachments, userServiceReturning(actingUser), slog.Default())

	req := authedRequest("GET", "/api/attachments/"+attachmentID.String(),
		nil, userID, map[string]string{"id": attachmentID.String()})
	rr := httptest.NewRecorder()

	handler.DownloadAttachment(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pdf bytes", rr.Body.String())
	assert.Contains(t, rr.Header().Get("Content-Disposition"), `filename="design.pdf"`)
}

func TestDeleteAttachment(t *testing.T) {
	userID := uuid.New()
	actingUser := &domain.User{ID: userID, IsActive: true}
	attachmentID := uuid.New()

	tests := []struct {
		name           string
		serviceError   error
		expectedStatus int
	}{
		{
			name:           "Success",
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "Not The Uploader",
			serviceError:   service.ErrNotOwned,
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			attachments := &mockAttachmentService{
				deleteFn: func(ctx context.Context, user *domain.User, id uuid.UUID) error {
					return tc.serviceError
				},
			}

			handler := NewAttachmentHandler(attachments, userServiceReturning(actingUser), slog.Default())

			req := authedRequest("DELETE", "/api/attachments/"+attachmentID.String(),
				nil, userID, map[string]string{"id": attachmentID.String()})
			rr := httptest.NewRecorder()

			handler.DeleteAttachment(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}
