package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
)

func TestVettingMetricsCountsResults(t *testing.T) {
	m := NewVettingMetrics("vetting-api", prometheus.NewRegistry())

	m.ObserveVetting(domain.VettingResult{Category: domain.CategoryTaxReturn, Status: domain.VettingValid, Confidence: 85}, 20*time.Millisecond)
	m.ObserveVetting(domain.VettingResult{Category: domain.CategoryTaxReturn, Status: domain.VettingInvalid, Confidence: 40}, 10*time.Millisecond)
	m.ObserveExtractionFailure()

	if got := testutil.ToFloat64(m.resultsTotal.WithLabelValues("vetting-api", "tax_return", "valid")); got != 1 {
		t.Fatalf("expected 1 valid tax return, got %v", got)
	}
	if got := testutil.ToFloat64(m.extractionFailures.WithLabelValues("vetting-api")); got != 1 {
		t.Fatalf("expected 1 extraction failure, got %v", got)
	}
}

func TestBreakerStateGauge(t *testing.T) {
	m := NewVettingMetrics("vetting-worker", prometheus.NewRegistry())

	m.ObserveBreakerState("ocr.tesseract", "closed", "open")
	if got := testutil.ToFloat64(m.breakerState.WithLabelValues("vetting-worker", "ocr.tesseract")); got != 1 {
		t.Fatalf("expected open gauge 1, got %v", got)
	}
	m.ObserveBreakerState("ocr.tesseract", "open", "half-open")
	if got := testutil.ToFloat64(m.breakerState.WithLabelValues("vetting-worker", "ocr.tesseract")); got != 0.5 {
		t.Fatalf("expected half-open gauge 0.5, got %v", got)
	}
}

func TestMiddlewareNormalizesPaths(t *testing.T) {
	m := NewHTTPServerMetrics("vetting-api")
	handler := m.Middleware("vetting-api", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	for _, path := range []string{"/v1/documents/a", "/v1/documents/b", "/v1/applications/app-1/compliance"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.requestTotal.WithLabelValues("vetting-api", "GET", "/v1/documents/{document_id}", "404")); got != 2 {
		t.Fatalf("expected 2 document requests, got %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `path="/v1/applications/{application_id}/compliance"`) {
		t.Fatalf("expected compliance path label in exposition")
	}
}

func TestWorkerMetricsTracksOutcome(t *testing.T) {
	m := NewWorkerMetrics("vetting-worker")
	m.StartDocument()
	m.FinishDocument("vetting-worker", time.Second, nil)

	if got := testutil.ToFloat64(m.processTotal.WithLabelValues("vetting-worker", "success")); got != 1 {
		t.Fatalf("expected 1 success, got %v", got)
	}
	if got := testutil.ToFloat64(m.processInFlight); got != 0 {
		t.Fatalf("expected no in-flight documents, got %v", got)
	}
}
