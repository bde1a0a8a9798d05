package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/blog-ai-gateway/app"
	"github.com/upb/blog-ai-gateway/handlers"
	"github.com/upb/blog-ai-gateway/middleware"
	"github.com/upb/blog-ai-gateway/utils"
)

// Version is reported by /api/v1/status; overridden at build time
var Version = "dev"

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	if timeout := deps.Config.Server.RequestTimeout; timeout > 0 {
		r.Use(chimiddleware.Timeout(timeout))
	}

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.Config.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	health := newHealthHandler(deps)
	ai := handlers.NewAIHandler(deps.Router, deps.Content, deps.Logger)
	generations := handlers.NewGenerationHandler(deps.GenerationLogs, deps.Logger)

	// Health check endpoints
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", health.HandleStatus)

		r.Route("/ai", func(r chi.Router) {
			r.Post("/generate", ai.HandleGenerate)
			r.Post("/titles", ai.HandleTitles)
			r.Post("/seo", ai.HandleSEO)
			r.Post("/fact-check", ai.HandleFactCheck)
			r.Post("/tone", ai.HandleTone)
			r.Post("/summarize", ai.HandleSummarize)
			r.Get("/models", ai.HandleModels)

			r.Get("/generations", generations.HandleList)
			r.Get("/generations/{id}", generations.HandleGet)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteJSON(w, http.StatusMethodNotAllowed, utils.ErrorResponse{
			Error:   "method_not_allowed",
			Message: r.Method + " is not supported on " + r.URL.Path,
		})
	})

	return r
}

func newHealthHandler(deps *app.Dependencies) *handlers.HealthHandler {
	opts := handlers.StatusOptions{
		Version:     Version,
		Environment: deps.Config.Environment,
		Backends:    deps.Providers,
		Router:      deps.Router,
	}
	if deps.Audit != nil {
		opts.Audit = deps.Audit
	}
	if deps.GenerationLogs != nil {
		opts.Generations = deps.GenerationLogs
	}

	if deps.DB != nil {
		return handlers.NewHealthHandler(deps.DB, deps.Logger).WithStatus(opts)
	}
	return handlers.NewHealthHandler(nil, deps.Logger).WithStatus(opts)
}
