package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ecosort/ecosort-backend/internal/domain"
	"go.uber.org/zap"
)

type fakePipeline struct {
	result *domain.DetectionResult
}

func (f *fakePipeline) Detect(context.Context, []byte) *domain.DetectionResult {
	return f.result
}

type fakeSuggester struct{}

func (fakeSuggester) SuggestAll(_ context.Context, itemNames []string) map[string][]*domain.VideoSuggestion {
	result := make(map[string][]*domain.VideoSuggestion, len(itemNames))
	for _, name := range itemNames {
		result[name] = []*domain.VideoSuggestion{{Title: "Upcycle " + name, URL: "https://example.com"}}
	}
	return result
}

type fakeReportStore struct {
	inserted   *domain.NewReport
	reports    []*domain.GarbageReport
	stats      *domain.DashboardStats
	updated    map[int64]domain.ReportStatus
	knownIDs   map[int64]bool
	imageData  []byte
	imageName  string
	statusCall int64
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{
		stats:    &domain.DashboardStats{},
		updated:  map[int64]domain.ReportStatus{},
		knownIDs: map[int64]bool{},
	}
}

func (f *fakeReportStore) Insert(_ context.Context, req *domain.NewReport) (*domain.GarbageReport, error) {
	f.inserted = req
	return &domain.GarbageReport{
		ID:          42,
		Type:        "Garbage Report",
		Location:    req.Location,
		Description: req.Description,
		SubmittedBy: req.SubmittedBy,
		HasImage:    len(req.ImageData) > 0,
		Status:      domain.ReportStatusPending,
		Source:      req.Source,
	}, nil
}

func (f *fakeReportStore) List(context.Context, int) ([]*domain.GarbageReport, error) {
	return f.reports, nil
}

func (f *fakeReportStore) UpdateStatus(_ context.Context, id int64, status domain.ReportStatus) (bool, error) {
	f.statusCall = id
	if !f.knownIDs[id] {
		return false, nil
	}
	f.updated[id] = status
	return true, nil
}

func (f *fakeReportStore) Stats(context.Context) (*domain.DashboardStats, error) {
	return f.stats, nil
}

func (f *fakeReportStore) Image(_ context.Context, id int64) ([]byte, string, error) {
	if !f.knownIDs[id] {
		return nil, "", nil
	}
	return f.imageData, f.imageName, nil
}

type fakeClassifier struct{}

func (fakeClassifier) Classify(_ context.Context, items []*domain.ClassificationInput) []*domain.ClassifiedItem {
	classified := make([]*domain.ClassifiedItem, 0, len(items))
	for _, item := range items {
		classified = append(classified, &domain.ClassifiedItem{
			Name:       item.Name,
			Confidence: item.Confidence,
			IsWaste:    true,
			Reasoning:  "test verdict",
		})
	}
	return classified
}

type fakeCacheChecker struct {
	connected bool
}

func (f fakeCacheChecker) IsConnected(context.Context) bool {
	return f.connected
}

func newTestServer(pipeline DetectionPipeline, store ReportStore) *Server {
	return New(pipeline, fakeSuggester{}, fakeClassifier{}, store, nil, nil, zap.NewNop())
}

func multipartImage(t *testing.T, extraFields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", "photo.jpg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write([]byte("fake image bytes"))
	for key, value := range extraFields {
		writer.WriteField(key, value)
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestDetectRequiresImage(t *testing.T) {
	server := newTestServer(&fakePipeline{}, newFakeReportStore())

	req := httptest.NewRequest(http.MethodPost, "/api/detect", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if body["error"] != "No image file provided" {
		t.Fatalf("unexpected error %q", body["error"])
	}
}

func TestDetectReturnsSummary(t *testing.T) {
	items := []*domain.DetectedItem{
		{ID: 1, Name: "Plastic bottle", Confidence: 92, IsReusable: true},
	}
	server := newTestServer(&fakePipeline{result: domain.DetectedOutcome(items)}, newFakeReportStore())

	body, contentType := multipartImage(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/detect", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Detections    []*domain.DetectedItem  `json:"detections"`
		TotalItems    int                     `json:"total_items"`
		ReusableItems int                     `json:"reusable_items"`
		Summary       *domain.DetectionSummary `json:"summary"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalItems != 1 || resp.ReusableItems != 1 {
		t.Fatalf("unexpected counts %+v", resp)
	}
	if resp.Summary == nil || resp.Summary.HighConfidenceItems != 1 {
		t.Fatalf("unexpected summary %+v", resp.Summary)
	}
}

func TestDetectEmptyResult(t *testing.T) {
	server := newTestServer(&fakePipeline{result: domain.EmptyOutcome()}, newFakeReportStore())

	body, contentType := multipartImage(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/detect", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["message"] != "No waste detected in the image" {
		t.Fatalf("unexpected body %v", resp)
	}
}

func TestDetectFailureReturns500(t *testing.T) {
	server := newTestServer(&fakePipeline{result: domain.FailedOutcome("Gemini API key is not configured on the server")}, newFakeReportStore())

	body, contentType := multipartImage(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/detect", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestMobileDetectAddsEnvelope(t *testing.T) {
	items := []*domain.DetectedItem{{ID: 1, Name: "Tin can", Confidence: 80}}
	server := newTestServer(&fakePipeline{result: domain.DetectedOutcome(items)}, newFakeReportStore())

	body, contentType := multipartImage(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/mobile/detect", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	var resp map[string]any
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["success"] != true {
		t.Fatalf("expected success envelope, got %v", resp)
	}
	if resp["timestamp"] == nil {
		t.Fatal("expected timestamp in mobile response")
	}
}

func TestYouTubeSuggestions(t *testing.T) {
	server := newTestServer(&fakePipeline{}, newFakeReportStore())

	req := httptest.NewRequest(http.MethodPost, "/api/youtube-suggestions",
		strings.NewReader(`{"items":["plastic bottle"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Suggestions map[string][]*domain.VideoSuggestion `json:"suggestions"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Suggestions["plastic bottle"]) != 1 {
		t.Fatalf("unexpected suggestions %+v", resp.Suggestions)
	}
}

func TestYouTubeSuggestionsRequiresItems(t *testing.T) {
	server := newTestServer(&fakePipeline{}, newFakeReportStore())

	req := httptest.NewRequest(http.MethodPost, "/api/youtube-suggestions", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMobileReportGarbageJSON(t *testing.T) {
	store := newFakeReportStore()
	server := newTestServer(&fakePipeline{}, store)

	req := httptest.NewRequest(http.MethodPost, "/api/mobile/report-garbage",
		strings.NewReader(`{"description":"overflowing bin","location":"Main St"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if store.inserted == nil || store.inserted.Source != "mobile_app" {
		t.Fatalf("unexpected insert %+v", store.inserted)
	}
	if store.inserted.SubmittedBy != "Mobile App User" {
		t.Fatalf("unexpected submitter %q", store.inserted.SubmittedBy)
	}
}

func TestMobileReportGarbageRequiresDescription(t *testing.T) {
	server := newTestServer(&fakePipeline{}, newFakeReportStore())

	req := httptest.NewRequest(http.MethodPost, "/api/mobile/report-garbage",
		strings.NewReader(`{"location":"Main St"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["error"] != "Description is required" {
		t.Fatalf("unexpected error %q", resp["error"])
	}
}

func TestReportGarbageRequiresCoordinates(t *testing.T) {
	server := newTestServer(&fakePipeline{}, newFakeReportStore())

	body, contentType := multipartImage(t, map[string]string{"description": "trash pile"})
	req := httptest.NewRequest(http.MethodPost, "/api/report-garbage", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["error"] != "Location coordinates required" {
		t.Fatalf("unexpected error %q", resp["error"])
	}
}

func TestReportGarbageStoresCoordinateLocation(t *testing.T) {
	store := newFakeReportStore()
	server := newTestServer(&fakePipeline{}, store)

	body, contentType := multipartImage(t, map[string]string{
		"latitude":  "52.52",
		"longitude": "13.405",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/report-garbage", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if store.inserted.Location != "52.52, 13.405" {
		t.Fatalf("expected coordinate fallback location, got %q", store.inserted.Location)
	}
	if len(store.inserted.ImageData) == 0 {
		t.Fatal("expected image bytes stored")
	}
}

func TestUpdateRequestStatusRejectsInvalid(t *testing.T) {
	server := newTestServer(&fakePipeline{}, newFakeReportStore())

	req := httptest.NewRequest(http.MethodPut, "/api/requests/7/status",
		strings.NewReader(`{"status":"archived"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateRequestStatusNotFound(t *testing.T) {
	server := newTestServer(&fakePipeline{}, newFakeReportStore())

	req := httptest.NewRequest(http.MethodPut, "/api/requests/7/status",
		strings.NewReader(`{"status":"approved"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateRequestStatusApproves(t *testing.T) {
	store := newFakeReportStore()
	store.knownIDs[7] = true
	server := newTestServer(&fakePipeline{}, store)

	req := httptest.NewRequest(http.MethodPut, "/api/requests/7/status",
		strings.NewReader(`{"status":"approved"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if store.updated[7] != domain.ReportStatusApproved {
		t.Fatalf("expected status stored, got %v", store.updated)
	}
	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["message"] != "Request approved successfully" {
		t.Fatalf("unexpected message %q", resp["message"])
	}
}

func TestRequestImageContentType(t *testing.T) {
	store := newFakeReportStore()
	store.knownIDs[3] = true
	store.imageData = []byte("png bytes")
	store.imageName = "pile.PNG"
	server := newTestServer(&fakePipeline{}, store)

	req := httptest.NewRequest(http.MethodGet, "/api/requests/3/image", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("expected image/png, got %q", ct)
	}
}

func TestRequestImageMissing(t *testing.T) {
	server := newTestServer(&fakePipeline{}, newFakeReportStore())

	req := httptest.NewRequest(http.MethodGet, "/api/requests/3/image", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestMobileDashboard(t *testing.T) {
	store := newFakeReportStore()
	store.stats = &domain.DashboardStats{Total: 3, Pending: 2, Approved: 1}
	store.reports = []*domain.GarbageReport{{ID: 1}, {ID: 2}, {ID: 3}}
	server := newTestServer(&fakePipeline{}, store)

	req := httptest.NewRequest(http.MethodGet, "/api/mobile/dashboard", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Success       bool                    `json:"success"`
		Stats         *domain.DashboardStats  `json:"stats"`
		RecentReports []*domain.GarbageReport `json:"recent_reports"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Stats.Total != 3 || len(resp.RecentReports) != 3 {
		t.Fatalf("unexpected dashboard %+v", resp)
	}
}

func TestGeminiClassify(t *testing.T) {
	server := newTestServer(&fakePipeline{}, newFakeReportStore())

	req := httptest.NewRequest(http.MethodPost, "/api/gemini-classify",
		strings.NewReader(`{"items":[{"name":"plastic bottle","confidence":85}]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Success         bool                     `json:"success"`
		ClassifiedItems []*domain.ClassifiedItem `json:"classified_items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || len(resp.ClassifiedItems) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.ClassifiedItems[0].Name != "plastic bottle" || !resp.ClassifiedItems[0].IsWaste {
		t.Fatalf("unexpected verdict %+v", resp.ClassifiedItems[0])
	}
}

func TestGeminiClassifyRequiresItems(t *testing.T) {
	server := newTestServer(&fakePipeline{}, newFakeReportStore())

	for _, body := range []string{`{}`, `{"items":[]}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/gemini-classify", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rec.Code)
		}
		var resp map[string]string
		json.NewDecoder(rec.Body).Decode(&resp)
		if resp["error"] != "No items provided" {
			t.Fatalf("unexpected error %q", resp["error"])
		}
	}
}

func TestHealthWithoutDatabase(t *testing.T) {
	server := newTestServer(&fakePipeline{}, newFakeReportStore())

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["status"] != "healthy" || resp["database"] != "disconnected" {
		t.Fatalf("unexpected health %v", resp)
	}
	if resp["cache"] != "disabled" {
		t.Fatalf("expected cache disabled without checker, got %q", resp["cache"])
	}
}

func TestHealthReportsCacheStatus(t *testing.T) {
	for _, tt := range []struct {
		connected bool
		want      string
	}{
		{true, "connected"},
		{false, "disconnected"},
	} {
		server := New(&fakePipeline{}, fakeSuggester{}, fakeClassifier{}, newFakeReportStore(),
			nil, fakeCacheChecker{connected: tt.connected}, zap.NewNop())

		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)

		var resp map[string]string
		json.NewDecoder(rec.Body).Decode(&resp)
		if resp["cache"] != tt.want {
			t.Fatalf("connected=%v: expected cache %q, got %q", tt.connected, tt.want, resp["cache"])
		}
	}
}
