package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ecosort/ecosort-backend/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func parseCoordinate(raw string) *float64 {
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

func fallbackLocation(location string, lat, lon *float64) string {
	if location != "" || lat == nil || lon == nil {
		return location
	}
	return fmt.Sprintf("%v, %v", *lat, *lon)
}

func (s *Server) handleReportGarbage(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No image provided")
		return
	}
	defer file.Close()

	lat := parseCoordinate(r.FormValue("latitude"))
	lon := parseCoordinate(r.FormValue("longitude"))
	if lat == nil || lon == nil {
		respondError(w, http.StatusBadRequest, "Location coordinates required")
		return
	}

	image := s.readImageFile(r)

	report, err := s.reports.Insert(r.Context(), &domain.NewReport{
		Location:    fallbackLocation(r.FormValue("location_address"), lat, lon),
		Latitude:    lat,
		Longitude:   lon,
		Description: r.FormValue("description"),
		SubmittedBy: "Anonymous User",
		ImageName:   header.Filename,
		ImageData:   image,
		Source:      "web",
	})
	if err != nil {
		s.logger.Error("Failed to store garbage report", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to process report")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Garbage report submitted successfully! Municipal authorities have been notified.",
		"report":  report,
	})
}

func (s *Server) handleMobileReportGarbage(w http.ResponseWriter, r *http.Request) {
	var description, location string
	var lat, lon *float64
	var imageName string
	var imageData []byte

	if strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, err := r.FormFile("image")
		if err != nil {
			respondError(w, http.StatusBadRequest, "No image provided")
			return
		}
		file.Close()

		description = r.FormValue("description")
		location = r.FormValue("location")
		lat = parseCoordinate(r.FormValue("latitude"))
		lon = parseCoordinate(r.FormValue("longitude"))
		imageName = header.Filename
		imageData = s.readImageFile(r)
	} else {
		var body struct {
			Description string   `json:"description"`
			Location    string   `json:"location"`
			Latitude    *float64 `json:"latitude"`
			Longitude   *float64 `json:"longitude"`
		}
		if err := decodeJSON(r, &body); err != nil {
			respondError(w, http.StatusBadRequest, "No data provided")
			return
		}
		description = body.Description
		location = body.Location
		lat = body.Latitude
		lon = body.Longitude
	}

	if strings.TrimSpace(description) == "" {
		respondError(w, http.StatusBadRequest, "Description is required")
		return
	}
	if strings.TrimSpace(location) == "" && (lat == nil || lon == nil) {
		respondError(w, http.StatusBadRequest, "Location information is required")
		return
	}

	report, err := s.reports.Insert(r.Context(), &domain.NewReport{
		Location:    fallbackLocation(location, lat, lon),
		Latitude:    lat,
		Longitude:   lon,
		Description: description,
		SubmittedBy: "Mobile App User",
		ImageName:   imageName,
		ImageData:   imageData,
		Source:      "mobile_app",
	})
	if err != nil {
		s.logger.Error("Failed to store mobile garbage report", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to submit report")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Garbage report submitted successfully!",
		"report_id": report.ID,
		"report":    report,
	})
}

func (s *Server) handleMobileUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ReportID int64  `json:"report_id"`
		Status   string `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "No data provided")
		return
	}

	status := domain.ReportStatus(body.Status)
	if !status.IsValid() {
		respondError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	found, err := s.reports.UpdateStatus(r.Context(), body.ReportID, status)
	if err != nil {
		s.logger.Error("Failed to update report status", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to update status")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Report not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   fmt.Sprintf("Report %s successfully", status),
		"report_id": body.ReportID,
		"status":    string(status),
	})
}

func (s *Server) handleMobileDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.reports.Stats(r.Context())
	if err != nil {
		s.logger.Error("Failed to fetch dashboard stats", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch dashboard data")
		return
	}

	recent, err := s.reports.List(r.Context(), 10)
	if err != nil {
		s.logger.Error("Failed to fetch recent reports", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch dashboard data")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"stats":          stats,
		"recent_reports": recent,
	})
}

func (s *Server) handleGetRequests(w http.ResponseWriter, r *http.Request) {
	reports, err := s.reports.List(r.Context(), 0)
	if err != nil {
		s.logger.Error("Failed to fetch reports", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch requests")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"requests": reports})
}

func (s *Server) handleGetRequestStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.reports.Stats(r.Context())
	if err != nil {
		s.logger.Error("Failed to fetch report stats", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleUpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "Request not found")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	status := domain.ReportStatus(body.Status)
	if !status.IsValid() {
		respondError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	found, err := s.reports.UpdateStatus(r.Context(), id, status)
	if err != nil {
		s.logger.Error("Failed to update request status", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to update request status")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Request not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Request %s successfully", status),
	})
}

func (s *Server) handleGetRequestImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "Request not found")
		return
	}

	data, filename, err := s.reports.Image(r.Context(), id)
	if err != nil {
		s.logger.Error("Failed to load report image", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch image")
		return
	}
	if len(data) == 0 {
		respondError(w, http.StatusNotFound, "No image associated with this report")
		return
	}

	w.Header().Set("Content-Type", imageContentType(filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func imageContentType(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	database := "connected"
	if s.pinger == nil || s.pinger.Ping(r.Context()) != nil {
		database = "disconnected"
	}

	cacheStatus := "disabled"
	if s.cache != nil {
		cacheStatus = "disconnected"
		if s.cache.IsConnected(r.Context()) {
			cacheStatus = "connected"
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"database":  database,
		"cache":     cacheStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
