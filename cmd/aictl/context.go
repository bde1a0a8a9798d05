package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/upb/blog-ai-gateway/app"
	"github.com/upb/blog-ai-gateway/config"
	"github.com/upb/blog-ai-gateway/internal/observability"
)

// commandContext lazily wires the same dependencies the server uses
type commandContext struct {
	verbose    *bool
	loadConfig func() (*config.Config, error)

	depsOnce sync.Once
	deps     *app.Dependencies
	depsErr  error
}

func newCommandContext(verbose *bool) *commandContext {
	return &commandContext{
		verbose:    verbose,
		loadConfig: config.New,
	}
}

func (c *commandContext) ensureDeps(ctx context.Context) (*app.Dependencies, error) {
	c.depsOnce.Do(func() {
		cfg, err := c.loadConfig()
		if err != nil {
			c.depsErr = err
			return
		}

		level := "error"
		if c.verbose != nil && *c.verbose {
			level = "debug"
		}
		logger, err := observability.NewLogger(level, "text")
		if err != nil {
			c.depsErr = err
			return
		}

		deps, err := app.NewDependencies(ctx, cfg, logger)
		if err != nil {
			c.depsErr = fmt.Errorf("wire dependencies: %w", err)
			return
		}
		c.deps = deps
	})
	return c.deps, c.depsErr
}

// withDeps runs fn with wired dependencies and shuts them down afterwards
func (c *commandContext) withDeps(ctx context.Context, fn func(*app.Dependencies) error) error {
	deps, err := c.ensureDeps(ctx)
	if err != nil {
		return err
	}
	defer c.close()
	return fn(deps)
}

// close drains the audit trail when a database is configured
func (c *commandContext) close() {
	if c.deps == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.deps.Close(ctx); err != nil {
		c.deps.Logger.Warn("shutdown", zap.Error(err))
	}
}
