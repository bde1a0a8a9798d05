package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/blog-ai-gateway/app"
	"github.com/upb/blog-ai-gateway/config"
	"github.com/upb/blog-ai-gateway/middleware"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			RequestTimeout: 5 * time.Second,
			AllowedOrigins: []string{"https://blog.example.com"},
		},
		Router: config.RouterConfig{Strategy: "smart", Timeout: time.Second, FallbackModel: "gemini-1.5-flash"},
		Audit:  config.AuditConfig{BufferSize: 10, Workers: 1},
	}

	deps, err := app.NewDependencies(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close(context.Background()) })

	return SetupRoutes(deps)
}

func TestSetupRoutes(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"liveness", http.MethodGet, "/healthz", "", http.StatusOK},
		{"readiness without database", http.MethodGet, "/readyz", "", http.StatusOK},
		{"status", http.MethodGet, "/api/v1/status", "", http.StatusOK},
		{"models", http.MethodGet, "/api/v1/ai/models", "", http.StatusOK},
		{"generate without backends", http.MethodPost, "/api/v1/ai/generate", `{"prompt":"hi"}`, http.StatusServiceUnavailable},
		{"titles without backends", http.MethodPost, "/api/v1/ai/titles", `{"topic":"coffee"}`, http.StatusServiceUnavailable},
		{"generate validation", http.MethodPost, "/api/v1/ai/generate", `{}`, http.StatusBadRequest},
		{"audit trail disabled", http.MethodGet, "/api/v1/ai/generations", "", http.StatusServiceUnavailable},
		{"unknown route", http.MethodGet, "/api/v1/nope", "", http.StatusNotFound},
		{"wrong method", http.MethodGet, "/api/v1/ai/generate", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestSetupRoutes_CORS(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/ai/generate", nil)
	req.Header.Set("Origin", "https://blog.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, "https://blog.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSetupRoutes_StatusBody(t *testing.T) {
	handler := newTestHandler(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	var response struct {
		Data struct {
			Environment string          `json:"environment"`
			Strategy    string          `json:"strategy"`
			Providers   map[string]bool `json:"providers"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "test", response.Data.Environment)
	assert.Equal(t, "smart", response.Data.Strategy)
	assert.Equal(t, map[string]bool{"anthropic": false, "gemini": false, "openai": false}, response.Data.Providers)
}
