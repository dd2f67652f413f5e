package usecase

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kirillkom/loan-document-vetting/internal/core/classifier"
	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
	"github.com/kirillkom/loan-document-vetting/internal/core/patterns"
	"github.com/kirillkom/loan-document-vetting/internal/core/validation"
)

var vetNow = time.Date(2026, time.October, 16, 9, 30, 0, 0, time.UTC)

type textExtractorFake struct {
	text    string
	err     error
	explode bool
	block   bool
	calls   atomic.Int32
}

func (f *textExtractorFake) Extract(ctx context.Context, file domain.UploadedFile) (string, error) {
	f.calls.Add(1)
	if f.explode {
		panic("decoder exploded")
	}
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	if f.text == "" {
		return string(file.Content), nil
	}
	return f.text, nil
}

type observerFake struct {
	vettings atomic.Int32
	failures atomic.Int32
}

func (f *observerFake) ObserveVetting(domain.VettingResult, time.Duration) { f.vettings.Add(1) }
func (f *observerFake) ObserveExtractionFailure() { f.failures.Add(1) }

func newEngine(extractor *textExtractorFake, observer *observerFake, limits VettingLimits) *VettingEngine {
	lib := patterns.New()
	set := validation.NewSet(lib, validation.WithClock(func() time.Time { return vetNow }))
	return NewVettingEngine(extractor, classifier.New(lib), set, observer, nil, limits)
}

func licenseUpload(expires time.Time) domain.UploadedFile {
	text := "BUSINESS LICENSE\n" +
		"County of Lane, Oregon\n" +
		"License Number: BL-1\n" +
		"Business Name: Riverside Coffee Roasters\n" +
		"Expiration Date: " + expires.Format("01/02/2006") + "\n"
	return domain.UploadedFile{
		Filename: "business_license_current.txt",
		MimeType: "text/plain",
		Content:  []byte(text),
	}
}

func TestVetScenarioCurrentLicense(t *testing.T) {
	engine := newEngine(&textExtractorFake{}, &observerFake{}, VettingLimits{})
	result := engine.Vet(context.Background(), licenseUpload(vetNow.AddDate(1, 0, 0)))
	if result.Status != domain.VettingValid {
		t.Fatalf("expected valid, got %s %v", result.Status, result.Issues)
	}
	if result.Confidence < 70 {
		t.Fatalf("expected confidence >= 70, got %v", result.Confidence)
	}
	if len(result.Issues) != 0 {
		t.Fatalf("expected no issues, got %v", result.Issues)
	}
	if result.Category != domain.CategoryBusinessLicense {
		t.Fatalf("expected business license, got %s", result.Category)
	}
}

func TestVetScenarioExpiredLicense(t *testing.T) {
	engine := newEngine(&textExtractorFake{}, &observerFake{}, VettingLimits{})
	result := engine.Vet(context.Background(), licenseUpload(vetNow.AddDate(-2, 0, 0)))
	if result.Status != domain.VettingInvalid {
		t.Fatalf("expected invalid, got %s", result.Status)
	}
	found := false
	for _, issue := range result.Issues {
		if strings.Contains(issue, "expired") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected expired issue, got %v", result.Issues)
	}
}

func TestVetScenarioUnknownDocument(t *testing.T) {
	engine := newEngine(&textExtractorFake{}, &observerFake{}, VettingLimits{})
	result := engine.Vet(context.Background(), domain.UploadedFile{
		Filename: "random.txt",
		Content:  []byte("Meeting notes: bring snacks and chairs for Friday."),
	})
	if result.Status != domain.VettingInvalid || result.Confidence != 0 {
		t.Fatalf("expected invalid with zero confidence, got %s %v", result.Status, result.Confidence)
	}
	if len(result.Issues) != 1 || result.Issues[0] != "document type could not be identified or is not supported" {
		t.Fatalf("unexpected issues %v", result.Issues)
	}
	if result.Category != domain.CategoryUnknown {
		t.Fatalf("expected unknown category, got %s", result.Category)
	}
}

func TestVetScenarioUseOfFunds(t *testing.T) {
	engine := newEngine(&textExtractorFake{}, &observerFake{}, VettingLimits{})
	text := "Use of Funds\n" +
		"Working capital and inventory: $40,000\n" +
		"Equipment: $60,000\n" +
		"Real estate improvements and debt refinancing: $150,000\n" +
		"Total Loan Amount: $250,000\n"
	result := engine.Vet(context.Background(), domain.UploadedFile{Filename: "use_of_funds.txt", Content: []byte(text)})
	if result.Status != domain.VettingValid {
		t.Fatalf("expected valid, got %s %v (confidence %v)", result.Status, result.Issues, result.Confidence)
	}
}

func TestVetExtractionErrorBecomesInvalid(t *testing.T) {
	observer := &observerFake{}
	engine := newEngine(&textExtractorFake{err: errors.New("tesseract not installed")}, observer, VettingLimits{})
	result := engine.Vet(context.Background(), domain.UploadedFile{Filename: "scan.pdf"})
	if result.Status != domain.VettingInvalid || result.Confidence != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(result.Issues) != 1 || !strings.HasPrefix(result.Issues[0], "document processing failed: ") {
		t.Fatalf("unexpected issues %v", result.Issues)
	}
	if !strings.Contains(result.Issues[0], "tesseract not installed") {
		t.Fatalf("expected wrapped message, got %q", result.Issues[0])
	}
	if observer.failures.Load() != 1 || observer.vettings.Load() != 1 {
		t.Fatalf("expected one failure and one vetting observation, got %d/%d", observer.failures.Load(), observer.vettings.Load())
	}
}

func TestVetExtractorPanicBecomesInvalid(t *testing.T) {
	engine := newEngine(&textExtractorFake{explode: true}, &observerFake{}, VettingLimits{})
	result := engine.Vet(context.Background(), domain.UploadedFile{Filename: "scan.pdf"})
	if result.Status != domain.VettingInvalid || !strings.Contains(result.Issues[0], "decoder exploded") {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestVetEmptyTextBecomesInvalid(t *testing.T) {
	engine := newEngine(&textExtractorFake{text: "   \n\t"}, &observerFake{}, VettingLimits{})
	result := engine.Vet(context.Background(), domain.UploadedFile{Filename: "business_license.pdf"})
	if result.Status != domain.VettingInvalid || !strings.HasPrefix(result.Issues[0], "document processing failed: ") {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestVetExtractionTimeout(t *testing.T) {
	engine := newEngine(&textExtractorFake{block: true}, &observerFake{}, VettingLimits{ExtractionTimeout: 20 * time.Millisecond})
	result := engine.Vet(context.Background(), domain.UploadedFile{Filename: "scan.pdf"})
	if result.Status != domain.VettingInvalid || !strings.Contains(result.Issues[0], "deadline exceeded") {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestVetCancelledContext(t *testing.T) {
	extractor := &textExtractorFake{}
	engine := newEngine(extractor, &observerFake{}, VettingLimits{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := engine.Vet(ctx, licenseUpload(vetNow))
	if result.Status != domain.VettingInvalid || !strings.Contains(result.Issues[0], "context canceled") {
		t.Fatalf("unexpected result %+v", result)
	}
	if extractor.calls.Load() != 0 {
		t.Fatalf("extractor must not run for a cancelled context")
	}
}

func TestVetBatchKeepsOrder(t *testing.T) {
	observer := &observerFake{}
	engine := newEngine(&textExtractorFake{}, observer, VettingLimits{BatchConcurrency: 2})
	files := []domain.UploadedFile{
		licenseUpload(vetNow.AddDate(1, 0, 0)),
		{Filename: "random.txt", Content: []byte("nothing to see")},
		licenseUpload(vetNow.AddDate(-1, 0, 0)),
	}
	results := engine.VetBatch(context.Background(), files)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Status != domain.VettingValid {
		t.Fatalf("expected first valid, got %+v", results[0])
	}
	if results[1].Category != domain.CategoryUnknown {
		t.Fatalf("expected second unknown, got %+v", results[1])
	}
	if results[2].Status != domain.VettingInvalid {
		t.Fatalf("expected third invalid, got %+v", results[2])
	}
	if observer.vettings.Load() != 3 {
		t.Fatalf("expected 3 observations, got %d", observer.vettings.Load())
	}
}

func TestVetTextMatchesVet(t *testing.T) {
	engine := newEngine(&textExtractorFake{}, &observerFake{}, VettingLimits{})
	file := licenseUpload(vetNow.AddDate(1, 0, 0))
	direct := engine.VetText(file.Filename, string(file.Content))
	viaVet := engine.Vet(context.Background(), file)
	if direct.Status != viaVet.Status || direct.Confidence != viaVet.Confidence {
		t.Fatalf("VetText and Vet disagree: %+v vs %+v", direct, viaVet)
	}
}

func TestVetTextNormalizesAndIsObserved(t *testing.T) {
	observer := &observerFake{}
	engine := newEngine(&textExtractorFake{}, observer, VettingLimits{})

	// Fullwidth heading with a zero-width space inside "LICENSE".
	text := "\uff22\uff35\uff33\uff29\uff2e\uff25\uff33\uff33 LICEN\u200bSE\n" +
		"License Number: BL-1\n" +
		"Business Name: Riverside Coffee Roasters\n" +
		"Expiration Date: " + vetNow.AddDate(1, 0, 0).Format("01/02/2006") + "\n"

	result := engine.VetText("scan-0001.txt", text)
	if result.Category != domain.CategoryBusinessLicense {
		t.Fatalf("expected business license after normalization, got %+v", result)
	}
	if observer.vettings.Load() != 1 {
		t.Fatalf("expected VetText to be observed once, got %d", observer.vettings.Load())
	}

	viaVet := engine.Vet(context.Background(), domain.UploadedFile{Filename: "scan-0001.txt", Content: []byte(text)})
	if viaVet.Category != result.Category || viaVet.Confidence != result.Confidence {
		t.Fatalf("file and text paths disagree: %+v vs %+v", viaVet, result)
	}
}
