package detect

import "github.com/ecosort/ecosort-backend/internal/domain"

// Static fallback texts for degraded enrichment. The pipeline prefers
// templated output over a visible failure.
const FallbackBinDescription = "General waste bin or local recycling facility"

func FallbackTips() []string {
	return []string{
		"Clean the item before recycling",
		"Check local recycling guidelines",
		"Separate different materials",
	}
}

// FallbackDetection is the deterministic substitute returned when the
// classification stage is over quota or exhausted its retries.
func FallbackDetection() []*domain.DetectedItem {
	return []*domain.DetectedItem{
		{
			ID:             1,
			Name:           "Waste Item (API Limited)",
			Confidence:     75,
			Location:       "center",
			IsReusable:     true,
			BinDescription: FallbackBinDescription,
			Tips: []string{
				"API quota reached - this is a fallback detection",
				"Check local recycling guidelines",
				"Rinse before recycling",
			},
		},
	}
}
