package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	t.Run("successful write", func(t *testing.T) {
		w := httptest.NewRecorder()
		data := map[string]string{"message": "test"}

		err := WriteJSON(w, http.StatusOK, data)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var response map[string]string
		err = json.NewDecoder(w.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, "test", response["message"])
	})

	t.Run("nil data", func(t *testing.T) {
		w := httptest.NewRecorder()

		err := WriteJSON(w, http.StatusNoContent, nil)
		require.NoError(t, err)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestWriteOK(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteOK(w, map[string]string{"result": "success"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.Code)

	var response SuccessResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

	dataMap := response.Data.(map[string]interface{})
	assert.Equal(t, "success", dataMap["result"])
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var response ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return response
}

func TestWriteBadRequest(t *testing.T) {
	w := httptest.NewRecorder()
	details := map[string]interface{}{"field": "prompt"}

	require.NoError(t, WriteBadRequest(w, "Invalid input", details))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	response := decodeError(t, w)
	assert.Equal(t, "bad_request", response.Error)
	assert.Equal(t, "Invalid input", response.Message)
	assert.Equal(t, "prompt", response.Details["field"])
}

func TestWriteNotFound(t *testing.T) {
	t.Run("default message", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, WriteNotFound(w, ""))

		assert.Equal(t, http.StatusNotFound, w.Code)
		response := decodeError(t, w)
		assert.Equal(t, "not_found", response.Error)
		assert.Equal(t, "Resource not found", response.Message)
	})

	t.Run("custom message", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, WriteNotFound(w, "generation log not found"))
		assert.Equal(t, "generation log not found", decodeError(t, w).Message)
	})
}

func TestWriteServiceUnavailable(t *testing.T) {
	w := httptest.NewRecorder()
	require.NoError(t, WriteServiceUnavailable(w, "", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	response := decodeError(t, w)
	assert.Equal(t, "service_unavailable", response.Error)
	assert.Equal(t, "Service unavailable", response.Message)
}

func TestWriteBadGateway(t *testing.T) {
	w := httptest.NewRecorder()
	require.NoError(t, WriteBadGateway(w, "", map[string]interface{}{"attempts": 2}))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	response := decodeError(t, w)
	assert.Equal(t, "generation_failed", response.Error)
	assert.Equal(t, float64(2), response.Details["attempts"])
}

func TestWriteInternalServerError(t *testing.T) {
	w := httptest.NewRecorder()
	require.NoError(t, WriteInternalServerError(w, ""))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	response := decodeError(t, w)
	assert.Equal(t, "internal_error", response.Error)
	assert.Equal(t, "Internal server error", response.Message)
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		status    int
		errorType string
	}{
		{http.StatusBadRequest, "bad_request"},
		{http.StatusNotFound, "not_found"},
		{http.StatusRequestEntityTooLarge, "payload_too_large"},
		{http.StatusBadGateway, "generation_failed"},
		{http.StatusServiceUnavailable, "service_unavailable"},
		{http.StatusInternalServerError, "internal_error"},
		{http.StatusTeapot, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			w := httptest.NewRecorder()
			require.NoError(t, WriteError(w, tt.status, "msg", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.errorType, decodeError(t, w).Error)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Prompt string `json:"prompt"`
	}

	tests := []struct {
		name    string
		payload string
		limit   int64
		wantErr string
	}{
		{name: "valid", payload: `{"prompt":"hi"}`},
		{name: "empty body", payload: ``, wantErr: "empty"},
		{name: "malformed", payload: `{"prompt":`, wantErr: "invalid request body"},
		{name: "unknown field", payload: `{"prompt":"hi","extra":1}`, wantErr: "unknown field"},
		{name: "trailing object", payload: `{"prompt":"a"}{"prompt":"b"}`, wantErr: "single JSON object"},
		{name: "too large", payload: `{"prompt":"` + strings.Repeat("x", 64) + `"}`, limit: 16, wantErr: "exceeds 16 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.payload))
			w := httptest.NewRecorder()

			var dst body
			err := DecodeJSON(w, req, &dst, tt.limit)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "hi", dst.Prompt)
		})
	}
}
