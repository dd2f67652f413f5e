package bootstrap

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kirillkom/loan-document-vetting/internal/config"
	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
	"github.com/kirillkom/loan-document-vetting/internal/observability/logging"
)

func TestNewEngineVetsPlainText(t *testing.T) {
	engine := NewEngine(config.Config{SpreadsheetMaxRows: 10}, logging.Discard(), Options{})

	result := engine.Vetter.Vet(context.Background(), domain.UploadedFile{
		Filename: "business_license.txt",
		MimeType: "text/plain",
		Content:  []byte("BUSINESS LICENSE\nLicense Number: BL-1\nBusiness Name: Acme LLC"),
	})
	if result.Category != domain.CategoryBusinessLicense {
		t.Fatalf("expected business license, got %+v", result)
	}
}

func TestNewEngineWithoutOCRRejectsImages(t *testing.T) {
	engine := NewEngine(config.Config{OCREnabled: false}, logging.Discard(), Options{})

	if engine.Extractor.Supports("scan.png", "image/png") {
		t.Fatalf("images must not be supported when OCR is disabled")
	}
	if !engine.Extractor.Supports("scan.pdf", "application/pdf") {
		t.Fatalf("pdf text layer must stay supported without OCR")
	}

	result := engine.Vetter.Vet(context.Background(), domain.UploadedFile{Filename: "scan.png", MimeType: "image/png", Content: []byte{0x89, 'P', 'N', 'G'}})
	if result.Status != domain.VettingInvalid || len(result.Issues) != 1 {
		t.Fatalf("expected single-issue invalid result, got %+v", result)
	}
	if !strings.HasPrefix(strings.ToLower(result.Issues[0]), "document processing failed") {
		t.Fatalf("unexpected issue %q", result.Issues[0])
	}
}

func TestNewEngineWithOCRSupportsImages(t *testing.T) {
	engine := NewEngine(config.Config{OCREnabled: true}, logging.Discard(), Options{})
	if !engine.Extractor.Supports("scan.jpg", "") {
		t.Fatalf("expected images to be routed to OCR")
	}
}

func TestResilienceConfigAppliesOverrides(t *testing.T) {
	var calls int
	rc := resilienceConfig(config.Config{RetryMaxAttempts: 5, BreakerOpenTimeoutSeconds: 7}, logging.Discard(), Options{
		OnBreakerStateChange: func(string, string, string) { calls++ },
	})
	if rc.RetryMaxAttempts != 5 {
		t.Fatalf("expected 5 attempts, got %d", rc.RetryMaxAttempts)
	}
	if rc.BreakerOpenTimeout != 7*time.Second {
		t.Fatalf("expected 7s open timeout, got %s", rc.BreakerOpenTimeout)
	}
	if rc.OnStateChange == nil || rc.Logger == nil {
		t.Fatalf("expected hooks to be wired")
	}
	rc.OnStateChange("op", "closed", "open")
	if calls != 1 {
		t.Fatalf("expected hook to be called once, got %d", calls)
	}
}
