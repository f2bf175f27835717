package domain

// ClassificationInput is one detected object submitted for a waste-vs-useful
// review, typically echoing a prior detection response.
type ClassificationInput struct {
	Name       string `json:"name"`
	Confidence int    `json:"confidence"`
}

// ClassifiedItem is the verdict for one reviewed object.
type ClassifiedItem struct {
	Name       string `json:"name"`
	Confidence int    `json:"confidence"`
	IsWaste    bool   `json:"is_waste"`
	Reasoning  string `json:"reasoning"`
}
