package domain

// MaxDetections is the hard upper bound on items in one detection response.
// The classification prompt already asks for at most this many; the
// normalizer enforces it again defensively.
const MaxDetections = 5

// DetectedItem is one waste item recognized in an uploaded photo. IDs are
// 1-based positions within a single response and carry no identity beyond it.
type DetectedItem struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Confidence     int      `json:"confidence"`
	Location       string   `json:"location,omitempty"`
	IsReusable     bool     `json:"isReusable"`
	BinDescription string   `json:"binDescription"`
	Tips           []string `json:"tips"`
}

type DetectionState string

const (
	// StateDetected means the pipeline produced at least one item (possibly
	// the degraded fallback item).
	StateDetected DetectionState = "detected"
	// StateEmpty means the model saw no waste in the image.
	StateEmpty DetectionState = "empty"
	// StateFailed is terminal and only reached for configuration problems.
	StateFailed DetectionState = "failed"
)

// DetectionResult is the tagged outcome of one pipeline run. Exactly one of
// the three states holds; callers switch on State instead of sniffing shapes.
type DetectionResult struct {
	State      DetectionState
	Detections []*DetectedItem
	Summary    *DetectionSummary
	Reason     string // set only for StateFailed
}

type DetectionSummary struct {
	TotalItems            int `json:"total_items"`
	HighConfidenceItems   int `json:"high_confidence_items"`
	MediumConfidenceItems int `json:"medium_confidence_items"`
	LowConfidenceItems    int `json:"low_confidence_items"`
	ReusableItems         int `json:"reusable_items"`
}

// Summarize partitions items into confidence buckets: high >= 80,
// medium [50, 80), low < 50.
func Summarize(items []*DetectedItem) *DetectionSummary {
	summary := &DetectionSummary{TotalItems: len(items)}
	for _, item := range items {
		switch {
		case item.Confidence >= 80:
			summary.HighConfidenceItems++
		case item.Confidence >= 50:
			summary.MediumConfidenceItems++
		default:
			summary.LowConfidenceItems++
		}
		if item.IsReusable {
			summary.ReusableItems++
		}
	}
	return summary
}

func DetectedOutcome(items []*DetectedItem) *DetectionResult {
	return &DetectionResult{
		State:      StateDetected,
		Detections: items,
		Summary:    Summarize(items),
	}
}

func EmptyOutcome() *DetectionResult {
	return &DetectionResult{State: StateEmpty}
}

func FailedOutcome(reason string) *DetectionResult {
	return &DetectionResult{State: StateFailed, Reason: reason}
}
