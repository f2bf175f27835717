package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ecosort/ecosort-backend/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// DetectionPipeline runs waste detection on one uploaded photo.
type DetectionPipeline interface {
	Detect(ctx context.Context, image []byte) *domain.DetectionResult
}

// Suggester finds upcycling videos for item names.
type Suggester interface {
	SuggestAll(ctx context.Context, itemNames []string) map[string][]*domain.VideoSuggestion
}

// Classifier reviews detected objects as waste versus useful items.
type Classifier interface {
	Classify(ctx context.Context, items []*domain.ClassificationInput) []*domain.ClassifiedItem
}

// ReportStore persists and queries citizen garbage reports.
type ReportStore interface {
	Insert(ctx context.Context, req *domain.NewReport) (*domain.GarbageReport, error)
	List(ctx context.Context, limit int) ([]*domain.GarbageReport, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ReportStatus) (bool, error)
	Stats(ctx context.Context) (*domain.DashboardStats, error)
	Image(ctx context.Context, id int64) ([]byte, string, error)
}

// Pinger reports backing-store liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CacheChecker reports cache liveness for the health endpoint. A nil checker
// means no cache is configured.
type CacheChecker interface {
	IsConnected(ctx context.Context) bool
}

// Server holds the HTTP server dependencies.
type Server struct {
	pipeline   DetectionPipeline
	suggester  Suggester
	classifier Classifier
	reports    ReportStore
	pinger     Pinger
	cache      CacheChecker
	logger     *zap.Logger
	router     chi.Router
}

func New(pipeline DetectionPipeline, suggester Suggester, classifier Classifier, reports ReportStore, pinger Pinger, cacheChecker CacheChecker, logger *zap.Logger) *Server {
	s := &Server{
		pipeline:   pipeline,
		suggester:  suggester,
		classifier: classifier,
		reports:    reports,
		pinger:     pinger,
		cache:      cacheChecker,
		logger:     logger,
		router:     chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		// Detection
		r.Post("/detect", s.handleDetect)
		r.Post("/mobile/detect", s.handleMobileDetect)

		// Upcycling suggestions
		r.Post("/youtube-suggestions", s.handleYouTubeSuggestions)

		// Waste-vs-useful review of detected objects
		r.Post("/gemini-classify", s.handleGeminiClassify)

		// Garbage reports
		r.Post("/report-garbage", s.handleReportGarbage)
		r.Post("/mobile/report-garbage", s.handleMobileReportGarbage)
		r.Put("/mobile/update-status", s.handleMobileUpdateStatus)
		r.Get("/mobile/dashboard", s.handleMobileDashboard)

		// Municipal dashboard
		r.Get("/requests", s.handleGetRequests)
		r.Get("/requests/stats", s.handleGetRequestStats)
		r.Put("/requests/{id}/status", s.handleUpdateRequestStatus)
		r.Get("/requests/{id}/image", s.handleGetRequestImage)

		r.Get("/health", s.handleHealth)
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
