package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/upb/blog-ai-gateway/services"
	"github.com/upb/blog-ai-gateway/services/content"
	"github.com/upb/blog-ai-gateway/services/providers"
	"github.com/upb/blog-ai-gateway/services/routing"
	"github.com/upb/blog-ai-gateway/utils"
	"go.uber.org/zap"
)

// GenerateRequest is the body of POST /api/v1/ai/generate
type GenerateRequest struct {
	Prompt       string `json:"prompt" validate:"required,max=100000"`
	SystemPrompt string `json:"system_prompt,omitempty" validate:"max=10000"`
	TaskType     string `json:"task_type,omitempty" validate:"omitempty,task_type"`
	Model        string `json:"model,omitempty" validate:"max=100"`
}

// GenerateResponse is the result of a generation
type GenerateResponse struct {
	Text         string          `json:"text"`
	Model        string          `json:"model"`
	Provider     string          `json:"provider"`
	FallbackUsed bool            `json:"fallback_used"`
	Attempts     int             `json:"attempts"`
	LatencyMs    int64           `json:"latency_ms"`
	Usage        providers.Usage `json:"usage"`
}

// TitlesRequest is the body of POST /api/v1/ai/titles
type TitlesRequest struct {
	Topic string `json:"topic" validate:"required,max=500"`
}

// SEORequest is the body of POST /api/v1/ai/seo
type SEORequest struct {
	Title    string   `json:"title" validate:"required,max=500"`
	Content  string   `json:"content" validate:"required,max=100000"`
	Keywords []string `json:"keywords,omitempty" validate:"max=20,dive,max=100"`
}

// ContentRequest is the body of POST /api/v1/ai/fact-check
type ContentRequest struct {
	Content string `json:"content" validate:"required,max=100000"`
}

// ToneRequest is the body of POST /api/v1/ai/tone
type ToneRequest struct {
	Content string `json:"content" validate:"required,max=100000"`
	Tone    string `json:"tone" validate:"required,tone"`
}

// SummarizeRequest is the body of POST /api/v1/ai/summarize
type SummarizeRequest struct {
	Content  string `json:"content" validate:"required,max=100000"`
	MaxWords int    `json:"max_words,omitempty" validate:"gte=0,lte=300"`
}

// TextResponse wraps a plain-text result
type TextResponse struct {
	Text string `json:"text"`
}

// ModelsResponse is the body of GET /api/v1/ai/models
type ModelsResponse struct {
	Strategy      string                `json:"strategy"`
	FallbackModel string                `json:"fallback_model"`
	Models        []routing.ModelStatus `json:"models"`
	RoutingTable  map[string]string     `json:"routing_table"`
}

// GenerationRouter is the router surface the AI endpoints need
type GenerationRouter interface {
	Execute(ctx context.Context, req routing.GenerationRequest) (*routing.GenerationResult, error)
	Models() []routing.ModelStatus
	Strategy() routing.Strategy
	FallbackModel() string
	RoutingTable() map[routing.TaskType]string
}

// ContentService defines the blog-specific generation operations
type ContentService interface {
	GenerateTitles(ctx context.Context, topic string) ([]content.TitleSuggestion, error)
	AnalyzeSEO(ctx context.Context, req content.SEORequest) (*content.SEOAnalysis, error)
	FactCheck(ctx context.Context, text string) (*content.FactCheckResult, error)
	ChangeTone(ctx context.Context, text, tone string) (string, error)
	Summarize(ctx context.Context, text string, maxWords int) (string, error)
}

// AIHandler handles text generation HTTP requests
type AIHandler struct {
	router  GenerationRouter
	content ContentService
	logger  *zap.Logger
}

// NewAIHandler creates a new AIHandler
func NewAIHandler(router GenerationRouter, content ContentService, logger *zap.Logger) *AIHandler {
	return &AIHandler{
		router:  router,
		content: content,
		logger:  logger,
	}
}

// decode parses and validates a request body, writing the 400 response on failure
func (h *AIHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := utils.DecodeJSON(w, r, dst, 0); err != nil {
		h.logger.Debug("invalid request body", zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return false
	}
	if err := utils.ValidateStruct(dst); err != nil {
		HandleValidationError(w, err, h.logger)
		return false
	}
	return true
}

// HandleGenerate handles POST /api/v1/ai/generate
func (h *AIHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		HandleServiceError(w, services.ErrEmptyPrompt, h.logger)
		return
	}

	res, err := h.router.Execute(r.Context(), routing.GenerationRequest{
		Prompt:       req.Prompt,
		SystemPrompt: req.SystemPrompt,
		TaskType:     routing.ParseTaskType(req.TaskType),
		Model:        strings.TrimSpace(req.Model),
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	response := GenerateResponse{
		Text:         res.Text,
		Model:        res.Model,
		Provider:     res.Provider,
		FallbackUsed: res.FallbackUsed,
		Attempts:     res.Attempts,
		LatencyMs:    res.Latency.Milliseconds(),
		Usage:        res.Usage,
	}
	if err := utils.WriteOK(w, response); err != nil {
		h.logger.Error("failed to write generate response", zap.Error(err))
	}
}

// HandleTitles handles POST /api/v1/ai/titles
func (h *AIHandler) HandleTitles(w http.ResponseWriter, r *http.Request) {
	var req TitlesRequest
	if !h.decode(w, r, &req) {
		return
	}

	titles, err := h.content.GenerateTitles(r.Context(), req.Topic)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteOK(w, titles); err != nil {
		h.logger.Error("failed to write titles response", zap.Error(err))
	}
}

// HandleSEO handles POST /api/v1/ai/seo
func (h *AIHandler) HandleSEO(w http.ResponseWriter, r *http.Request) {
	var req SEORequest
	if !h.decode(w, r, &req) {
		return
	}

	analysis, err := h.content.AnalyzeSEO(r.Context(), content.SEORequest{
		Title:    req.Title,
		Content:  req.Content,
		Keywords: req.Keywords,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteOK(w, analysis); err != nil {
		h.logger.Error("failed to write SEO response", zap.Error(err))
	}
}

// HandleFactCheck handles POST /api/v1/ai/fact-check
func (h *AIHandler) HandleFactCheck(w http.ResponseWriter, r *http.Request) {
	var req ContentRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.content.FactCheck(r.Context(), req.Content)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteOK(w, result); err != nil {
		h.logger.Error("failed to write fact-check response", zap.Error(err))
	}
}

// HandleTone handles POST /api/v1/ai/tone
func (h *AIHandler) HandleTone(w http.ResponseWriter, r *http.Request) {
	var req ToneRequest
	if !h.decode(w, r, &req) {
		return
	}

	text, err := h.content.ChangeTone(r.Context(), req.Content, req.Tone)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteOK(w, TextResponse{Text: text}); err != nil {
		h.logger.Error("failed to write tone response", zap.Error(err))
	}
}

// HandleSummarize handles POST /api/v1/ai/summarize
func (h *AIHandler) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	var req SummarizeRequest
	if !h.decode(w, r, &req) {
		return
	}

	text, err := h.content.Summarize(r.Context(), req.Content, req.MaxWords)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteOK(w, TextResponse{Text: text}); err != nil {
		h.logger.Error("failed to write summary response", zap.Error(err))
	}
}

// HandleModels handles GET /api/v1/ai/models
func (h *AIHandler) HandleModels(w http.ResponseWriter, r *http.Request) {
	table := make(map[string]string)
	for task, model := range h.router.RoutingTable() {
		table[string(task)] = model
	}

	response := ModelsResponse{
		Strategy:      string(h.router.Strategy()),
		FallbackModel: h.router.FallbackModel(),
		Models:        h.router.Models(),
		RoutingTable:  table,
	}
	if err := utils.WriteOK(w, response); err != nil {
		h.logger.Error("failed to write models response", zap.Error(err))
	}
}
