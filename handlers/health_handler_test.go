package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/blog-ai-gateway/models"
	"github.com/upb/blog-ai-gateway/repositories/postgres"
	"github.com/upb/blog-ai-gateway/services/audit"
	"github.com/upb/blog-ai-gateway/services/routing"
	"go.uber.org/zap"
)

type fakeBackends map[string]bool

func (f fakeBackends) ListProviders() []string {
	out := make([]string, 0, len(f))
	for _, name := range []string{"anthropic", "gemini", "openai"} {
		if _, ok := f[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

func (f fakeBackends) IsConfigured(family string) bool { return f[family] }

type fakeRouterInfo struct{}

func (fakeRouterInfo) Strategy() routing.Strategy { return routing.StrategyCostOptimized }
func (fakeRouterInfo) FallbackModel() string      { return "gemini-1.5-flash" }

type fakeAudit struct{}

func (fakeAudit) GetStats() audit.Stats {
	return audit.Stats{BufferSize: 1000, WorkerCount: 4, Started: true, Written: 7}
}

type fakeCounter struct {
	counts map[models.GenerationStatus]int
	err    error
	since  time.Time
}

func (f *fakeCounter) CountByStatus(_ context.Context, since time.Time) (map[models.GenerationStatus]int, error) {
	f.since = since
	return f.counts, f.err
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	data, ok := response["data"].(map[string]interface{})
	require.True(t, ok, "response has no data envelope: %v", response)
	return data
}

func TestHandleHealth(t *testing.T) {
	handler := NewHealthHandler(nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	handler.HandleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, "healthy", data["status"])
	assert.NotEmpty(t, data["timestamp"])
}

func TestHandleReadiness(t *testing.T) {
	logger := zap.NewNop()

	t.Run("healthy when database is available", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectPing()
		mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

		handler := NewHealthHandler(postgres.Wrap(db, nil), logger)

		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		w := httptest.NewRecorder()

		handler.HandleReadiness(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		data := decodeData(t, w)
		assert.Equal(t, "healthy", data["status"])

		checks := data["checks"].(map[string]interface{})
		assert.Equal(t, "healthy", checks["database"])

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unhealthy when database ping fails", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectPing().WillReturnError(sql.ErrConnDone)

		handler := NewHealthHandler(postgres.Wrap(db, nil), logger)

		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		w := httptest.NewRecorder()

		handler.HandleReadiness(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		data := decodeData(t, w)
		assert.Equal(t, "unhealthy", data["status"])

		checks := data["checks"].(map[string]interface{})
		assert.Equal(t, "unhealthy", checks["database"])

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unhealthy when database query fails", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectPing()
		mock.ExpectQuery("SELECT 1").WillReturnError(sql.ErrConnDone)

		handler := NewHealthHandler(postgres.Wrap(db, nil), logger)

		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		w := httptest.NewRecorder()

		handler.HandleReadiness(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("healthy when no database configured", func(t *testing.T) {
		handler := NewHealthHandler(nil, logger).WithStatus(StatusOptions{
			Backends: fakeBackends{"gemini": false, "openai": false},
		})

		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		w := httptest.NewRecorder()

		handler.HandleReadiness(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		data := decodeData(t, w)
		assert.Equal(t, "healthy", data["status"])

		checks := data["checks"].(map[string]interface{})
		assert.Equal(t, "not_configured", checks["database"])
		assert.Equal(t, "none_configured", checks["providers"])
	})
}

func TestHandleStatus(t *testing.T) {
	counter := &fakeCounter{counts: map[models.GenerationStatus]int{
		models.GenerationSucceeded: 12,
		models.GenerationFailed:    3,
	}}
	handler := NewHealthHandler(nil, zap.NewNop()).WithStatus(StatusOptions{
		Version:     "1.2.0",
		Environment: "production",
		Backends:    fakeBackends{"gemini": true, "openai": false, "anthropic": true},
		Router:      fakeRouterInfo{},
		Audit:       fakeAudit{},
		Generations: counter,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	w := httptest.NewRecorder()

	handler.HandleStatus(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, "1.2.0", data["version"])
	assert.Equal(t, "production", data["environment"])
	assert.Equal(t, "cost-optimized", data["strategy"])
	assert.Equal(t, "gemini-1.5-flash", data["fallback_model"])

	providers := data["providers"].(map[string]interface{})
	assert.Equal(t, true, providers["gemini"])
	assert.Equal(t, false, providers["openai"])
	assert.Equal(t, true, providers["anthropic"])

	trail := data["audit_trail"].(map[string]interface{})
	assert.Equal(t, float64(7), trail["written"])

	generations := data["generations_24h"].(map[string]interface{})
	assert.Equal(t, float64(12), generations["succeeded"])
	assert.Equal(t, float64(3), generations["failed"])
	assert.WithinDuration(t, time.Now().Add(-GenerationWindow), counter.since, time.Minute)
}

func TestHandleStatusCountFailure(t *testing.T) {
	handler := NewHealthHandler(nil, zap.NewNop()).WithStatus(StatusOptions{
		Version:     "dev",
		Generations: &fakeCounter{err: errors.New("connection reset")},
	})

	w := httptest.NewRecorder()
	handler.HandleStatus(w, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.NotContains(t, data, "generations_24h")
}

func TestHandleStatusWithoutAudit(t *testing.T) {
	handler := NewHealthHandler(nil, zap.NewNop()).WithStatus(StatusOptions{Version: "dev"})

	w := httptest.NewRecorder()
	handler.HandleStatus(w, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	data := decodeData(t, w)
	assert.NotContains(t, data, "audit_trail")
	assert.NotContains(t, data, "generations_24h")
}
