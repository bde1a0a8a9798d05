package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/upb/blog-ai-gateway/app"
	"github.com/upb/blog-ai-gateway/config"
	"github.com/upb/blog-ai-gateway/internal/observability"
	"github.com/upb/blog-ai-gateway/routes"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	listener, err := net.Listen("tcp", cfg.Server.Address())
	if err != nil {
		logger.Fatal("listen", zap.String("address", cfg.Server.Address()), zap.Error(err))
	}

	if err := run(ctx, cfg, logger, listener); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// run serves until ctx is canceled, then drains in-flight requests and the audit trail
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, listener net.Listener) error {
	deps, err := app.NewDependencies(ctx, cfg, logger)
	if err != nil {
		_ = listener.Close()
		return fmt.Errorf("wire dependencies: %w", err)
	}

	srv := newServer(cfg, routes.SetupRoutes(deps))

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("blog-ai-server listening",
			zap.String("address", listener.Addr().String()),
			zap.String("environment", cfg.Environment),
			zap.String("strategy", string(deps.Router.Strategy())))
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			_ = deps.Close(context.Background())
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		logger.Info("blog-ai-server shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := deps.Close(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func newServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       2 * cfg.Server.WriteTimeout,
	}
}
