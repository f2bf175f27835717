package api

import (
	"io"
	"net/http"
	"time"

	"github.com/ecosort/ecosort-backend/internal/domain"
	"go.uber.org/zap"
)

const maxImageBytes = 16 << 20

// readImageFile pulls the "image" multipart field, returning nil bytes when
// the field is absent so handlers can shape their own 400.
func (s *Server) readImageFile(r *http.Request) []byte {
	file, _, err := r.FormFile("image")
	if err != nil {
		return nil
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		s.logger.Warn("Failed to read uploaded image", zap.Error(err))
		return nil
	}
	return data
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	image := s.readImageFile(r)
	if image == nil {
		respondError(w, http.StatusBadRequest, "No image file provided")
		return
	}

	result := s.pipeline.Detect(r.Context(), image)
	switch result.State {
	case domain.StateFailed:
		respondError(w, http.StatusInternalServerError, result.Reason)
	case domain.StateEmpty:
		respondJSON(w, http.StatusOK, map[string]string{"message": "No waste detected in the image"})
	default:
		respondJSON(w, http.StatusOK, map[string]any{
			"detections":     result.Detections,
			"total_items":    result.Summary.TotalItems,
			"reusable_items": result.Summary.ReusableItems,
			"summary":        result.Summary,
		})
	}
}

func (s *Server) handleMobileDetect(w http.ResponseWriter, r *http.Request) {
	image := s.readImageFile(r)
	if image == nil {
		respondError(w, http.StatusBadRequest, "No image file provided")
		return
	}

	result := s.pipeline.Detect(r.Context(), image)
	switch result.State {
	case domain.StateFailed:
		respondError(w, http.StatusInternalServerError, result.Reason)
	case domain.StateEmpty:
		respondJSON(w, http.StatusOK, map[string]string{"message": "No waste detected in the image"})
	default:
		respondJSON(w, http.StatusOK, map[string]any{
			"success":        true,
			"detections":     result.Detections,
			"total_items":    result.Summary.TotalItems,
			"reusable_items": result.Summary.ReusableItems,
			"timestamp":      time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func (s *Server) handleGeminiClassify(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Items []*domain.ClassificationInput `json:"items"`
	}
	if err := decodeJSON(r, &body); err != nil || len(body.Items) == 0 {
		respondError(w, http.StatusBadRequest, "No items provided")
		return
	}

	classified := s.classifier.Classify(r.Context(), body.Items)
	respondJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"classified_items": classified,
	})
}

func (s *Server) handleYouTubeSuggestions(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Items []string `json:"items"`
	}
	if err := decodeJSON(r, &body); err != nil || body.Items == nil {
		respondError(w, http.StatusBadRequest, "No items provided")
		return
	}

	suggestions := s.suggester.SuggestAll(r.Context(), body.Items)
	respondJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}
