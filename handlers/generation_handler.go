package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/upb/blog-ai-gateway/models"
	"github.com/upb/blog-ai-gateway/repositories"
	"github.com/upb/blog-ai-gateway/services"
	"github.com/upb/blog-ai-gateway/utils"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// GenerationListResponse is a page of the audit trail
type GenerationListResponse struct {
	Generations []*models.GenerationLog `json:"generations"`
	Limit       int                     `json:"limit"`
	Offset      int                     `json:"offset"`
}

// GenerationHandler serves the generation audit trail. repo is nil when no database is configured.
type GenerationHandler struct {
	repo   repositories.GenerationLogRepository
	logger *zap.Logger
}

// NewGenerationHandler creates a new GenerationHandler
func NewGenerationHandler(repo repositories.GenerationLogRepository, logger *zap.Logger) *GenerationHandler {
	return &GenerationHandler{
		repo:   repo,
		logger: logger,
	}
}

// HandleList handles GET /api/v1/ai/generations?limit=&offset=&model=
func (h *GenerationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		HandleServiceError(w, services.ErrAuditTrailDisabled, h.logger)
		return
	}

	limit, err := queryInt(r, "limit", defaultPageSize)
	if err != nil || limit <= 0 || limit > maxPageSize {
		_ = utils.WriteBadRequest(w, "limit must be between 1 and 200", map[string]interface{}{"field": "limit"})
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		_ = utils.WriteBadRequest(w, "offset must be a non-negative integer", map[string]interface{}{"field": "offset"})
		return
	}

	var logs []*models.GenerationLog
	if model := r.URL.Query().Get("model"); model != "" {
		logs, err = h.repo.ListByModel(r.Context(), model, limit, offset)
	} else {
		logs, err = h.repo.ListRecent(r.Context(), limit, offset)
	}
	if err != nil {
		HandleServiceError(w, services.WrapInternal("failed to list generation logs", err), h.logger)
		return
	}

	response := GenerationListResponse{
		Generations: logs,
		Limit:       limit,
		Offset:      offset,
	}
	if err := utils.WriteOK(w, response); err != nil {
		h.logger.Error("failed to write generation list response", zap.Error(err))
	}
}

// HandleGet handles GET /api/v1/ai/generations/{id}
func (h *GenerationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		HandleServiceError(w, services.ErrAuditTrailDisabled, h.logger)
		return
	}

	idParam := chi.URLParam(r, "id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		_ = utils.WriteBadRequest(w, "invalid generation id", map[string]interface{}{"id": idParam})
		return
	}

	log, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if services.IsNotFoundError(err) {
			HandleServiceError(w, err, h.logger)
			return
		}
		HandleServiceError(w, services.WrapInternal("failed to get generation log", err), h.logger)
		return
	}

	if err := utils.WriteOK(w, log); err != nil {
		h.logger.Error("failed to write generation response", zap.Error(err))
	}
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
