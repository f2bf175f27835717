package detect

import (
	"context"
	"time"

	"github.com/ecosort/ecosort-backend/internal/domain"
	"github.com/ecosort/ecosort-backend/internal/util"
	apperrors "github.com/ecosort/ecosort-backend/pkg/errors"
	"go.uber.org/zap"
)

// Upstream is the model surface the pipeline drives.
type Upstream interface {
	ClassifyImage(ctx context.Context, image []byte) (string, error)
	Ask(ctx context.Context, promptText string) (string, error)
}

// Pipeline runs the full detection flow: classify with retry, parse,
// enrich, summarize. It always produces a result; upstream degradation
// maps to a static fallback detection rather than an error, and only a
// server misconfiguration surfaces as a failed outcome.
type Pipeline struct {
	upstream Upstream
	enricher *Enricher
	policy   util.RetryPolicy
	logger   *zap.Logger
}

type PipelineConfig struct {
	MaxAttempts       int
	RetryBaseDelay    time.Duration
	EnrichConcurrency int
	// Sleep overrides the retry wait, for tests.
	Sleep func(time.Duration)
}

func NewPipeline(upstream Upstream, cfg PipelineConfig, logger *zap.Logger) *Pipeline {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	baseDelay := cfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = 2 * time.Second
	}

	return &Pipeline{
		upstream: upstream,
		enricher: NewEnricher(upstream, cfg.EnrichConcurrency, logger),
		policy: util.RetryPolicy{
			MaxAttempts: maxAttempts,
			BaseDelay:   baseDelay,
			Retryable:   apperrors.IsRetryable,
			Sleep:       cfg.Sleep,
		},
		logger: logger,
	}
}

// Detect classifies the image and returns a detection outcome. Quota
// exhaustion and retry exhaustion both degrade to the fallback detection;
// a missing API key fails outright since no amount of retrying can help.
func (p *Pipeline) Detect(ctx context.Context, image []byte) *domain.DetectionResult {
	var items []*domain.DetectedItem

	err := p.policy.Do(ctx, func() error {
		raw, err := p.upstream.ClassifyImage(ctx, image)
		if err != nil {
			return err
		}
		items, err = ParseDetections(raw)
		return err
	})

	if err != nil {
		code := apperrors.CodeOf(err)
		if code == apperrors.CodeConfiguration {
			p.logger.Error("Detection unavailable", zap.Error(err))
			return domain.FailedOutcome(err.Error())
		}

		p.logger.Warn("Classification degraded to fallback detection",
			zap.String("code", code),
			zap.Error(err),
		)
		fallback := FallbackDetection()
		return domain.DetectedOutcome(fallback)
	}

	if len(items) == 0 {
		p.logger.Info("No waste detected in image")
		return domain.EmptyOutcome()
	}

	p.enricher.Enrich(ctx, items)

	p.logger.Info("Detection complete",
		zap.Int("items", len(items)),
	)
	return domain.DetectedOutcome(items)
}
