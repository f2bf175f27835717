package detect

import (
	"context"

	"github.com/ecosort/ecosort-backend/internal/domain"
	"github.com/ecosort/ecosort-backend/internal/prompt"
	"github.com/ecosort/ecosort-backend/internal/util"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Asker is the text-generation surface the enricher needs.
type Asker interface {
	Ask(ctx context.Context, promptText string) (string, error)
}

// Enricher finalizes parsed detections: normalizes each item and replaces
// the model's inline disposal text with item-specific follow-up answers.
// Enrichment calls are never retried; a failed call degrades that one field
// to a static fallback without touching sibling items.
type Enricher struct {
	asker       Asker
	logger      *zap.Logger
	concurrency int
}

func NewEnricher(asker Asker, concurrency int, logger *zap.Logger) *Enricher {
	if concurrency <= 0 {
		concurrency = 3
	}
	return &Enricher{
		asker:       asker,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Enrich mutates items in place and assigns sequential 1-based IDs once all
// enrichment calls settle. The disposal and tips answers always overwrite
// whatever the classification pass produced.
func (e *Enricher) Enrich(ctx context.Context, items []*domain.DetectedItem) {
	p := pool.New().WithMaxGoroutines(e.concurrency)
	for _, item := range items {
		item := item
		p.Go(func() {
			e.enrichItem(ctx, item)
		})
	}
	p.Wait()

	for i, item := range items {
		item.ID = i + 1
	}
}

func (e *Enricher) enrichItem(ctx context.Context, item *domain.DetectedItem) {
	item.Name = util.Capitalize(item.Name)
	item.Confidence = util.Clamp(item.Confidence, 0, 100)

	disposal, err := e.asker.Ask(ctx, prompt.BuildDisposalPrompt(item.Name))
	if err != nil {
		e.logger.Warn("Disposal enrichment failed, using fallback",
			zap.String("item", item.Name),
			zap.Error(err),
		)
		item.BinDescription = FallbackBinDescription
	} else {
		item.BinDescription = StripFences(disposal)
	}

	tipsText, err := e.asker.Ask(ctx, prompt.BuildEcoTipsPrompt(item.Name))
	if err != nil {
		e.logger.Warn("Eco tips enrichment failed, using fallback",
			zap.String("item", item.Name),
			zap.Error(err),
		)
		item.Tips = FallbackTips()
		return
	}

	tips := ParseTips(tipsText)
	if len(tips) == 0 {
		tips = FallbackTips()
	}
	item.Tips = tips
}
