package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	tests := []struct {
		name   string
		status int
		data   interface{}
	}{
		{
			name:   "successful response",
			status: http.StatusOK,
			data: map[string]interface{}{
				"message": "success",
				"data":    123,
			},
		},
		{
			name:   "empty response",
			status: http.StatusCreated,
			data:   map[string]interface{}{},
		},
		{
			name:   "nil response",
			status: http.StatusOK,
			data:   nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/test", nil)
			w := httptest.NewRecorder()

			RespondWithJSON(w, req, tc.status, tc.data)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			if tc.name == "successful response" {
				var response map[string]interface{}
				err := json.Unmarshal(w.Body.Bytes(), &response)
				require.NoError(t, err)

				assert.Equal(t, "success", response["message"])
				assert.Equal(t, float64(123), response["data"])
			}
		})
	}
}

func TestRespondWithError(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/test", nil)

	// Put a trace ID in the context so it shows up in the response
	ctx := SetTraceID(req.Context())
	req = req.WithContext(ctx)
	traceID := GetTraceID(ctx)

	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusNotFound, "Task not found")

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Task not found", response.Error)
	assert.Equal(t, traceID, response.TraceID)

	// The Code field must never be serialized
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.NotContains(t, raw, "Code")
	assert.NotContains(t, raw, "code")
}

func TestRespondWithErrorWithoutTraceID(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusBadRequest, "Invalid request format")

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Invalid request format", response.Error)
	assert.Empty(t, response.TraceID)
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		userMessage string
		err         error
		opts        []ResponseOption
	}{
		{
			name:        "server error",
			status:      http.StatusInternalServerError,
			userMessage: "An unexpected error occurred",
			err:         errors.New("pq: connection reset by peer"),
		},
		{
			name:        "client error",
			status:      http.StatusBadRequest,
			userMessage: "Invalid Email: required field",
			err:         errors.New("validation failed on Email"),
		},
		{
			name:        "elevated client error",
			status:      http.StatusUnauthorized,
			userMessage: "Invalid credentials",
			err:         errors.New("password mismatch for user"),
			opts:        []ResponseOption{WithElevatedLogLevel()},
		},
		{
			name:        "nil error",
			status:      http.StatusServiceUnavailable,
			userMessage: "Attachment storage is not available",
			err:         nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodPost, "/test", nil)
			req = req.WithContext(SetTraceID(context.Background()))
			w := httptest.NewRecorder()

			RespondWithErrorAndLog(w, req, tc.status, tc.userMessage, tc.err, tc.opts...)

			assert.Equal(t, tc.status, w.Code)

			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

			// Only the sanitized message reaches the client
			assert.Equal(t, tc.userMessage, response.Error)
			if tc.err != nil {
				assert.NotContains(t, w.Body.String(), tc.err.Error())
			}
		})
	}
}
