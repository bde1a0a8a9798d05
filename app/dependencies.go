package app

import (
	"context"
	"fmt"
	"time"

	"github.com/upb/blog-ai-gateway/config"
	"github.com/upb/blog-ai-gateway/repositories"
	"github.com/upb/blog-ai-gateway/repositories/postgres"
	"github.com/upb/blog-ai-gateway/services/audit"
	"github.com/upb/blog-ai-gateway/services/content"
	"github.com/upb/blog-ai-gateway/services/providers"
	"github.com/upb/blog-ai-gateway/services/providers/anthropic"
	"github.com/upb/blog-ai-gateway/services/providers/gemini"
	"github.com/upb/blog-ai-gateway/services/providers/openai"
	"github.com/upb/blog-ai-gateway/services/routing"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory; nil when no database is configured
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	GenerationLogs repositories.GenerationLogRepository

	// Generation
	Providers *providers.Registry
	Router    *routing.Router
	Content   *content.Service

	// Audit trail writer; nil when no database is configured
	Audit *audit.Service

	closed bool
}

// NewDependencies creates and wires up all application dependencies.
// Missing provider keys are not an error; a configured but unreachable database is.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if cfg.DatabaseEnabled() {
		if err := deps.initDatabase(ctx, cfg); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		deps.initRepositories()
		if err := deps.initAudit(cfg); err != nil {
			_ = deps.RepoFactory.Close()
			return nil, fmt.Errorf("failed to start audit trail: %w", err)
		}
	} else {
		logger.Warn("no database configured, generation audit trail disabled")
	}

	registry, err := NewProviderRegistry(ctx, cfg.Providers, logger)
	if err != nil {
		deps.shutdownStorage(5 * time.Second)
		return nil, fmt.Errorf("failed to initialize providers: %w", err)
	}
	deps.Providers = registry

	if err := deps.initRouter(cfg); err != nil {
		deps.shutdownStorage(5 * time.Second)
		return nil, fmt.Errorf("failed to initialize router: %w", err)
	}

	deps.Content = content.NewService(deps.Router, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL database connection and schema
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg.Database, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	if err := d.DB.InitSchema(ctx); err != nil {
		_ = factory.Close()
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	repos := d.RepoFactory.NewRepositories()
	d.GenerationLogs = repos.GenerationLogs

	d.Logger.Info("repositories initialized")
}

// initAudit starts the asynchronous generation log writer
func (d *Dependencies) initAudit(cfg *config.Config) error {
	svc := audit.NewService(d.GenerationLogs, d.Logger, audit.Config{
		BufferSize:  cfg.Audit.BufferSize,
		WorkerCount: cfg.Audit.Workers,
	})
	if err := svc.Start(); err != nil {
		return err
	}
	d.Audit = svc
	return nil
}

// initRouter builds the model router over the configured providers
func (d *Dependencies) initRouter(cfg *config.Config) error {
	strategy, err := routing.ParseStrategy(cfg.Router.Strategy)
	if err != nil {
		return err
	}

	var opts []routing.Option
	if d.Audit != nil {
		opts = append(opts, routing.WithRecorder(d.Audit))
	}

	d.Router = routing.NewRouter(routing.Config{
		Strategy:       strategy,
		FallbackModel:  cfg.Router.FallbackModel,
		AttemptTimeout: cfg.Router.Timeout,
		MaxTokens:      cfg.Router.MaxTokens,
	}, d.Providers.Catalog(), d.Providers, d.Logger, opts...)

	d.Logger.Info("router initialized",
		zap.String("strategy", string(strategy)),
		zap.String("fallback_model", d.Router.FallbackModel()),
		zap.Int("available_models", len(d.Router.Catalog())))
	return nil
}

// NewProviderRegistry registers one adapter per family, whether or not it holds a key.
// Unconfigured adapters stay registered so explicit requests for them report a configuration error.
func NewProviderRegistry(ctx context.Context, cfg config.ProvidersConfig, logger *zap.Logger) (*providers.Registry, error) {
	registry := providers.NewRegistry(providers.DefaultCatalog())

	geminiAdapter, err := gemini.NewAdapter(ctx, providerConfig(cfg.Gemini))
	if err != nil {
		return nil, err
	}

	adapters := []providers.Provider{
		geminiAdapter,
		openai.NewOpenAIAdapter(providerConfig(cfg.OpenAI)),
		anthropic.NewAdapter(providerConfig(cfg.Anthropic)),
	}
	for _, adapter := range adapters {
		if err := registry.RegisterProvider(adapter); err != nil {
			return nil, err
		}
		if adapter.Configured() {
			logger.Info("registered provider", zap.String("provider", adapter.Name()))
		} else {
			logger.Warn("provider has no API key, its models are unavailable", zap.String("provider", adapter.Name()))
		}
	}

	for prefix, family := range cfg.ModelPrefixes {
		if err := registry.RegisterModelPrefix(prefix, family); err != nil {
			return nil, fmt.Errorf("model prefix %q: %w", prefix, err)
		}
		logger.Info("registered model prefix", zap.String("prefix", prefix), zap.String("provider", family))
	}

	return registry, nil
}

func providerConfig(c config.ProviderConfig) providers.ProviderConfig {
	pc := providers.DefaultProviderConfig()
	pc.APIKey = c.APIKey
	pc.BaseURL = c.BaseURL
	if c.Timeout > 0 {
		pc.Timeout = c.Timeout
	}
	return pc
}

// shutdownStorage drains the audit writer and closes the database
func (d *Dependencies) shutdownStorage(timeout time.Duration) []error {
	var errs []error

	if d.Audit != nil {
		if err := d.Audit.Stop(timeout); err != nil {
			errs = append(errs, fmt.Errorf("failed to drain audit trail: %w", err))
		}
	}

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}
	return errs
}

// Close gracefully shuts down all dependencies. The audit buffer is drained until ctx expires.
func (d *Dependencies) Close(ctx context.Context) error {
	if d.closed {
		return nil
	}
	d.closed = true

	d.Logger.Info("shutting down dependencies")

	timeout := 10 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	errs := d.shutdownStorage(timeout)

	// Sync logger
	_ = d.Logger.Sync()

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
