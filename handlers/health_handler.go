package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/upb/blog-ai-gateway/models"
	"github.com/upb/blog-ai-gateway/services/audit"
	"github.com/upb/blog-ai-gateway/services/routing"
	"github.com/upb/blog-ai-gateway/utils"
	"go.uber.org/zap"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// StatusResponse is the body of GET /api/v1/status
type StatusResponse struct {
	Version       string          `json:"version"`
	Environment   string          `json:"environment"`
	Strategy      string          `json:"strategy"`
	FallbackModel string          `json:"fallback_model"`
	Providers     map[string]bool `json:"providers"`
	AuditTrail    *audit.Stats    `json:"audit_trail,omitempty"`

	// Generations counts audit trail rows by status over the last GenerationWindow
	Generations map[models.GenerationStatus]int `json:"generations_24h,omitempty"`
}

// GenerationWindow is the look-back of the status endpoint's generation counts
const GenerationWindow = 24 * time.Hour

// DatabaseChecker verifies database connectivity
type DatabaseChecker interface {
	HealthCheck(ctx context.Context) error
}

// GenerationCounter summarizes the audit trail
type GenerationCounter interface {
	CountByStatus(ctx context.Context, since time.Time) (map[models.GenerationStatus]int, error)
}

// BackendStatus reports which generation families hold a credential
type BackendStatus interface {
	ListProviders() []string
	IsConfigured(family string) bool
}

// RouterInfo exposes the routing settings fixed at startup
type RouterInfo interface {
	Strategy() routing.Strategy
	FallbackModel() string
}

// AuditStats exposes the audit recorder counters
type AuditStats interface {
	GetStats() audit.Stats
}

// StatusOptions carries the optional collaborators of the status endpoint
type StatusOptions struct {
	Version     string
	Environment string
	Backends    BackendStatus
	Router      RouterInfo
	Audit       AuditStats
	Generations GenerationCounter
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	db     DatabaseChecker
	logger *zap.Logger
	status StatusOptions
}

// NewHealthHandler creates a new HealthHandler. db may be nil when no database is configured.
func NewHealthHandler(db DatabaseChecker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: logger,
	}
}

// WithStatus attaches the collaborators reported by HandleStatus
func (h *HealthHandler) WithStatus(opts StatusOptions) *HealthHandler {
	h.status = opts
	return h
}

// HandleHealth handles GET /healthz
// Basic health check - always returns 200 if service is running
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	_ = utils.WriteOK(w, response)
}

// HandleReadiness handles GET /readyz
// Readiness check - validates that all dependencies are available
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	switch err := h.checkDatabase(ctx); {
	case h.db == nil:
		checks["database"] = "not_configured"
	case err != nil:
		h.logger.Warn("database health check failed", zap.Error(err))
		checks["database"] = "unhealthy"
		allHealthy = false
	default:
		checks["database"] = "healthy"
	}

	// A missing credential never fails readiness; requests report it instead
	if h.status.Backends != nil {
		checks["providers"] = "none_configured"
		for _, family := range h.status.Backends.ListProviders() {
			if h.status.Backends.IsConfigured(family) {
				checks["providers"] = "configured"
				break
			}
		}
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	if err := utils.WriteJSON(w, httpStatus, utils.SuccessResponse{Data: response}); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}

// HandleStatus handles GET /api/v1/status
func (h *HealthHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	response := StatusResponse{
		Version:     h.status.Version,
		Environment: h.status.Environment,
		Providers:   map[string]bool{},
	}

	if h.status.Router != nil {
		response.Strategy = string(h.status.Router.Strategy())
		response.FallbackModel = h.status.Router.FallbackModel()
	}
	if h.status.Backends != nil {
		for _, family := range h.status.Backends.ListProviders() {
			response.Providers[family] = h.status.Backends.IsConfigured(family)
		}
	}
	if h.status.Audit != nil {
		stats := h.status.Audit.GetStats()
		response.AuditTrail = &stats
	}
	if h.status.Generations != nil {
		counts, err := h.status.Generations.CountByStatus(r.Context(), time.Now().Add(-GenerationWindow))
		if err != nil {
			h.logger.Warn("failed to count generations", zap.Error(err))
		} else {
			response.Generations = counts
		}
	}

	if err := utils.WriteOK(w, response); err != nil {
		h.logger.Error("failed to write status response", zap.Error(err))
	}
}

// checkDatabase checks database connectivity
func (h *HealthHandler) checkDatabase(ctx context.Context) error {
	if h.db == nil {
		return nil
	}
	return h.db.HealthCheck(ctx)
}
