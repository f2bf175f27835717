package classify

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ecosort/ecosort-backend/internal/domain"
	"github.com/ecosort/ecosort-backend/internal/prompt"
	"github.com/ecosort/ecosort-backend/internal/service/detect"
	"go.uber.org/zap"
)

// Asker is the text-generation surface the classifier needs.
type Asker interface {
	Ask(ctx context.Context, promptText string) (string, error)
}

// Service reviews already-detected objects and splits them into actual waste
// versus still-useful items. Model failures of any kind, including a missing
// API key, degrade to a keyword heuristic so the endpoint always answers.
type Service struct {
	asker  Asker
	logger *zap.Logger
}

func NewService(asker Asker, logger *zap.Logger) *Service {
	return &Service{
		asker:  asker,
		logger: logger,
	}
}

const fallbackReasoning = "Fallback classification based on keywords"

var usefulKeywords = []string{"phone", "laptop", "computer", "book", "chair", "table", "clothing", "shoes"}

var wasteKeywords = []string{"bottle", "can", "wrapper", "packaging", "trash", "garbage", "broken", "damaged"}

// Classify returns one verdict per input item, in input order. Never fails:
// every error path falls back to the keyword heuristic.
func (s *Service) Classify(ctx context.Context, items []*domain.ClassificationInput) []*domain.ClassifiedItem {
	payload, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return s.keywordFallback(items)
	}

	raw, err := s.asker.Ask(ctx, prompt.BuildClassificationPrompt(string(payload)))
	if err != nil {
		s.logger.Warn("Classification call failed, using keyword fallback", zap.Error(err))
		return s.keywordFallback(items)
	}

	classified := parseClassifiedItems(raw)
	if len(classified) == 0 {
		s.logger.Warn("Classification response unparsable, using keyword fallback",
			zap.Int("length", len(raw)),
		)
		return s.keywordFallback(items)
	}
	return classified
}

// parseClassifiedItems pulls the outermost JSON array out of the model text,
// tolerating prose around it.
func parseClassifiedItems(raw string) []*domain.ClassifiedItem {
	cleaned := detect.StripFences(raw)
	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start == -1 || end <= start {
		return nil
	}

	var items []*domain.ClassifiedItem
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &items); err != nil {
		return nil
	}
	return items
}

// keywordFallback mirrors the model's decision with substring matching:
// waste keywords win, useful keywords acquit, ambiguity defaults to waste.
func (s *Service) keywordFallback(items []*domain.ClassificationInput) []*domain.ClassifiedItem {
	classified := make([]*domain.ClassifiedItem, 0, len(items))
	for _, item := range items {
		lower := strings.ToLower(item.Name)
		isWaste := containsAny(lower, wasteKeywords)
		isUseful := containsAny(lower, usefulKeywords)

		verdict := true
		if isUseful && !isWaste {
			verdict = false
		}

		classified = append(classified, &domain.ClassifiedItem{
			Name:       item.Name,
			Confidence: item.Confidence,
			IsWaste:    verdict,
			Reasoning:  fallbackReasoning,
		})
	}
	return classified
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
