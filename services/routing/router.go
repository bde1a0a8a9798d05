package routing

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/upb/blog-ai-gateway/services"
	"github.com/upb/blog-ai-gateway/services/providers"
)

// Config holds configuration for the router
type Config struct {
	// Strategy used when a request carries no explicit model
	Strategy Strategy

	// FallbackModel is retried once after a failed primary attempt
	FallbackModel string

	// AttemptTimeout bounds each individual backend call
	AttemptTimeout time.Duration

	// MaxTokens is passed to every backend call; zero keeps provider defaults
	MaxTokens int
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() Config {
	return Config{
		Strategy:       StrategySmart,
		FallbackModel:  providers.DefaultFallbackModel,
		AttemptTimeout: 30 * time.Second,
	}
}

// GenerationRequest is one logical generation call
type GenerationRequest struct {
	Prompt       string
	SystemPrompt string
	TaskType     TaskType

	// Model overrides strategy selection when set
	Model string
}

// GenerationResult is the outcome of a successful generation
type GenerationResult struct {
	Text         string          `json:"text"`
	Model        string          `json:"model"`
	Provider     string          `json:"provider"`
	FallbackUsed bool            `json:"fallback_used"`
	Attempts     int             `json:"attempts"`
	Usage        providers.Usage `json:"usage"`
	Latency      time.Duration   `json:"latency"`
}

// AttemptRecord describes a single backend call, successful or not
type AttemptRecord struct {
	TaskType      TaskType
	Strategy      Strategy
	Model         string
	Provider      string
	Attempt       int
	Fallback      bool
	Err           error
	PromptChars   int
	ResponseChars int
	Usage         providers.Usage
	Latency       time.Duration
}

// Recorder receives one record per backend attempt. Implementations must not block.
type Recorder interface {
	Record(ctx context.Context, rec AttemptRecord)
}

// ModelStatus is a catalog entry with its availability
type ModelStatus struct {
	providers.ModelDescriptor
	Available bool `json:"available"`
}

// Option configures a Router
type Option func(*Router)

// WithRecorder attaches an attempt recorder
func WithRecorder(rec Recorder) Option {
	return func(r *Router) {
		r.recorder = rec
	}
}

// Router selects a model, dispatches to its provider and applies the single fallback retry.
// All fields are read-only after construction.
type Router struct {
	config   Config
	full     providers.Catalog
	catalog  providers.Catalog
	registry *providers.Registry
	recorder Recorder
	logger   *zap.Logger
}

// NewRouter builds a router over the families in registry that hold a credential.
// Missing credentials never make construction fail.
func NewRouter(config Config, catalog providers.Catalog, registry *providers.Registry, logger *zap.Logger, opts ...Option) *Router {
	if config.Strategy == "" {
		config.Strategy = StrategySmart
	}
	if config.FallbackModel == "" {
		config.FallbackModel = providers.DefaultFallbackModel
	}
	if config.AttemptTimeout <= 0 {
		config.AttemptTimeout = DefaultConfig().AttemptTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Router{
		config:   config,
		full:     catalog,
		catalog:  catalog.FilterProviders(registry.IsConfigured),
		registry: registry,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(r)
	}

	if len(r.catalog) == 0 {
		logger.Warn("no generation backend configured; every request will fail")
	} else if _, ok := r.catalog.Lookup(config.FallbackModel); !ok {
		logger.Warn("fallback model is not available; retries after a primary failure will fail",
			zap.String("fallback_model", config.FallbackModel))
	}

	return r
}

// Generate returns only the generated text
func (r *Router) Generate(ctx context.Context, prompt string, taskType TaskType, explicitModel string) (string, error) {
	res, err := r.Execute(ctx, GenerationRequest{Prompt: prompt, TaskType: taskType, Model: explicitModel})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Execute runs one logical generation: at most a primary attempt and one fallback attempt
func (r *Router) Execute(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	model := req.Model
	if model == "" {
		d, err := SelectModel(r.catalog, r.config.Strategy, req.TaskType)
		if err != nil {
			r.logger.Error("model selection failed",
				zap.String("task_type", string(req.TaskType)),
				zap.Error(err))
			return nil, err
		}
		model = d.ID
	}

	r.logger.Debug("model selected",
		zap.String("model", model),
		zap.String("task_type", string(req.TaskType)),
		zap.String("strategy", string(r.config.Strategy)),
		zap.Bool("explicit", req.Model != ""))

	res, err := r.attempt(ctx, req, model, 1, false)
	if err == nil {
		return res, nil
	}

	if services.IsConfigurationError(err) {
		return nil, err
	}

	fallback := r.config.FallbackModel
	if model == fallback {
		r.logger.Error("generation failed on fallback model",
			zap.String("model", model),
			zap.String("task_type", string(req.TaskType)),
			zap.Int("attempt", 1),
			zap.Error(err))
		return nil, services.NewGenerationError(model, 1, err)
	}

	if ctx.Err() != nil {
		r.logger.Warn("caller canceled, skipping fallback",
			zap.String("model", model),
			zap.String("task_type", string(req.TaskType)),
			zap.Int("attempt", 1),
			zap.NamedError("cancel_cause", ctx.Err()),
			zap.Error(err))
		return nil, services.NewGenerationError(model, 1, err)
	}

	r.logger.Warn("primary model failed, retrying with fallback",
		zap.String("model", model),
		zap.String("fallback_model", fallback),
		zap.String("task_type", string(req.TaskType)),
		zap.Bool("retryable", providers.IsRetryable(err)),
		zap.Error(err))

	res, err = r.attempt(ctx, req, fallback, 2, true)
	if err != nil {
		r.logger.Error("fallback model failed",
			zap.String("model", fallback),
			zap.String("task_type", string(req.TaskType)),
			zap.Int("attempt", 2),
			zap.Error(err))
		return nil, services.NewGenerationError(fallback, 2, err)
	}

	res.FallbackUsed = true
	return res, nil
}

func (r *Router) attempt(ctx context.Context, req GenerationRequest, model string, n int, fallback bool) (*GenerationResult, error) {
	rec := AttemptRecord{
		TaskType:    req.TaskType,
		Strategy:    r.config.Strategy,
		Model:       model,
		Attempt:     n,
		Fallback:    fallback,
		PromptChars: len(req.Prompt),
	}

	provider, err := r.registry.GetProviderForModel(model)
	if err != nil {
		rec.Err = fmt.Errorf("resolve provider for %s: %w", model, err)
		r.record(ctx, rec)
		return nil, rec.Err
	}
	rec.Provider = provider.Name()

	attemptCtx, cancel := context.WithTimeout(ctx, r.config.AttemptTimeout)
	defer cancel()

	start := time.Now()
	resp, err := provider.Generate(attemptCtx, &providers.GenerateRequest{
		Model:        model,
		Prompt:       req.Prompt,
		SystemPrompt: req.SystemPrompt,
		MaxTokens:    r.config.MaxTokens,
	})
	rec.Latency = time.Since(start)

	if err != nil {
		rec.Err = err
		r.record(ctx, rec)
		return nil, err
	}

	rec.ResponseChars = len(resp.Text)
	rec.Usage = resp.Usage
	r.record(ctx, rec)

	return &GenerationResult{
		Text:     resp.Text,
		Model:    model,
		Provider: provider.Name(),
		Attempts: n,
		Usage:    resp.Usage,
		Latency:  rec.Latency,
	}, nil
}

func (r *Router) record(ctx context.Context, rec AttemptRecord) {
	if r.recorder != nil {
		r.recorder.Record(ctx, rec)
	}
}

// Strategy returns the strategy fixed at construction
func (r *Router) Strategy() Strategy {
	return r.config.Strategy
}

// FallbackModel returns the model used for the retry attempt
func (r *Router) FallbackModel() string {
	return r.config.FallbackModel
}

// Catalog returns the descriptors whose provider holds a credential
func (r *Router) Catalog() providers.Catalog {
	return r.catalog
}

// Models returns every known descriptor flagged with availability
func (r *Router) Models() []ModelStatus {
	out := make([]ModelStatus, 0, len(r.full))
	for _, d := range r.full {
		_, ok := r.catalog.Lookup(d.ID)
		out = append(out, ModelStatus{ModelDescriptor: d, Available: ok})
	}
	return out
}

// HighestQualityModel returns the best available model, used as an explicit override
// by operations that always want the strongest backend.
func (r *Router) HighestQualityModel() (string, error) {
	d, ok := r.catalog.HighestQuality()
	if !ok {
		return "", services.ErrNoBackendConfigured
	}
	return d.ID, nil
}

// SelectModel applies the router's strategy to a task type without calling any backend
func (r *Router) SelectModel(task TaskType) (providers.ModelDescriptor, error) {
	return SelectModel(r.catalog, r.config.Strategy, task)
}

// RoutingTable returns the model each known task type currently routes to
func (r *Router) RoutingTable() map[TaskType]string {
	table := make(map[TaskType]string, len(KnownTaskTypes))
	for _, task := range KnownTaskTypes {
		if d, err := r.SelectModel(task); err == nil {
			table[task] = d.ID
		}
	}
	return table
}
