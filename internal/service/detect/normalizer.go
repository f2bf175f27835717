package detect

import (
	"encoding/json"
	"strings"

	"github.com/ecosort/ecosort-backend/internal/domain"
	apperrors "github.com/ecosort/ecosort-backend/pkg/errors"
)

// rawDetection mirrors the JSON shape the model is prompted to return.
// Confidence arrives as a number that may carry a fraction.
type rawDetection struct {
	Name           string   `json:"name"`
	Confidence     float64  `json:"confidence"`
	BinDescription string   `json:"binDescription"`
	Tips           []string `json:"tips"`
	Location       string   `json:"location"`
	IsReusable     bool     `json:"isReusable"`
}

// StripFences removes a surrounding markdown code fence, labeled or not,
// from model output. Best-effort text repair; anything smarter belongs to
// the model prompt, not here.
func StripFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "```json"))
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "```"))
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, "```"))
	}
	return cleaned
}

// ParseDetections parses raw classification output into items. A JSON parse
// failure surfaces as a malformed-output error so the caller's retry policy
// can reattempt the classification call. An empty array is a valid outcome
// (no waste in the image), not an error. Item count is capped defensively.
func ParseDetections(raw string) ([]*domain.DetectedItem, error) {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return nil, nil
	}

	var parsed []rawDetection
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, apperrors.NewMalformedOutputError(err)
	}

	if len(parsed) > domain.MaxDetections {
		parsed = parsed[:domain.MaxDetections]
	}

	items := make([]*domain.DetectedItem, 0, len(parsed))
	for _, raw := range parsed {
		items = append(items, &domain.DetectedItem{
			Name:           raw.Name,
			Confidence:     int(raw.Confidence),
			Location:       raw.Location,
			IsReusable:     raw.IsReusable,
			BinDescription: raw.BinDescription,
			Tips:           raw.Tips,
		})
	}
	return items, nil
}

const maxTips = 3

// ParseTips extracts eco tips from an enrichment response. JSON string array
// first; a response that parses as JSON is final, even when the array is
// empty. Only non-JSON text falls back to line splitting, dropping blanks and
// fence residue, keeping at most three lines.
func ParseTips(raw string) []string {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return nil
	}

	var tips []string
	if err := json.Unmarshal([]byte(cleaned), &tips); err == nil {
		if len(tips) == 0 {
			return nil
		}
		if len(tips) > maxTips {
			tips = tips[:maxTips]
		}
		return tips
	}

	lines := strings.Split(strings.TrimSpace(raw), "\n")
	tips = tips[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "```") {
			continue
		}
		tips = append(tips, trimmed)
		if len(tips) == maxTips {
			break
		}
	}
	return tips
}
