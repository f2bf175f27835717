package domain

// VideoSuggestion is one upcycling tutorial recommendation for a detected
// item. Computed on demand per request, never cached or persisted.
type VideoSuggestion struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Duration   string `json:"duration"`
	Difficulty string `json:"difficulty"`
	Views      string `json:"views"`
	Thumbnail  string `json:"thumbnail,omitempty"`
	Channel    string `json:"channel,omitempty"`
}
