package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ecosort/ecosort-backend/internal/api"
	"github.com/ecosort/ecosort-backend/internal/config"
	"github.com/ecosort/ecosort-backend/internal/service/ai"
	"github.com/ecosort/ecosort-backend/internal/service/cache"
	"github.com/ecosort/ecosort-backend/internal/service/classify"
	"github.com/ecosort/ecosort-backend/internal/service/database"
	"github.com/ecosort/ecosort-backend/internal/service/detect"
	"github.com/ecosort/ecosort-backend/internal/service/report"
	"github.com/ecosort/ecosort-backend/internal/service/suggest"
	"go.uber.org/zap"
)

// Container bundles the assembled services behind the HTTP handler.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Handler http.Handler

	closers []func()
}

// Close releases infrastructure connections in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build assembles all infrastructure services. Heavy-weight initialization
// (DB, cache, AI clients) happens here so the HTTP layer stays wiring-free.
// PostgreSQL is required; Redis and the external API keys are optional and
// degrade the relevant feature instead of blocking startup.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Database
	postgres, err := database.NewPostgresService(cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres service: %w", err)
	}
	closers = append(closers, func() {
		_ = postgres.Close()
	})

	// Cache (optional)
	var cacheSvc *cache.CacheService
	if cfg.Redis.Host != "" {
		cacheSvc, err = cache.NewCacheService(cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create cache service: %w", err)
		}
		closers = append(closers, func() {
			_ = cacheSvc.Close()
		})
	} else {
		logger.Info("REDIS_HOST not set, stats caching disabled")
	}

	// Reports
	reports := report.NewRepository(postgres.GetDB(), cacheSvc, logger)
	if err = reports.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare report schema: %w", err)
	}

	// AI pipeline
	aiClient, err := ai.NewClient(ctx, ai.ClientConfig{
		APIKey:          cfg.Gemini.APIKey,
		Model:           cfg.Gemini.Model,
		ClassifyTimeout: cfg.Pipeline.ClassifyTimeout,
		AskTimeout:      cfg.Pipeline.EnrichTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	pipeline := detect.NewPipeline(aiClient, detect.PipelineConfig{
		MaxAttempts:       cfg.Pipeline.MaxAttempts,
		RetryBaseDelay:    cfg.Pipeline.RetryBaseDelay,
		EnrichConcurrency: cfg.Pipeline.EnrichConcurrency,
	}, logger)

	classifier := classify.NewService(aiClient, logger)

	// Video suggestions
	suggester, err := suggest.NewService(ctx, cfg.YouTube.APIKey, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create suggestion service: %w", err)
	}

	var cacheChecker api.CacheChecker
	if cacheSvc != nil {
		cacheChecker = cacheSvc
	}

	handler := api.New(pipeline, suggester, classifier, reports, postgres, cacheChecker, logger)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Handler: handler,
		closers: closers,
	}, nil
}
