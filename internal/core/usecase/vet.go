package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
	"github.com/kirillkom/loan-document-vetting/internal/core/normalize"
	"github.com/kirillkom/loan-document-vetting/internal/core/ports"
)

// VettingLimits bounds the blocking parts of vetting. Zero values pick defaults.
type VettingLimits struct {
	ExtractionTimeout time.Duration
	BatchConcurrency  int
}

// VettingEngine ties extraction, classification and validation together. It
// holds no mutable state; one instance serves every caller.
type VettingEngine struct {
	extractor  ports.TextExtractor
	classifier ports.DocumentClassifier
	validator  ports.DocumentValidator
	observer   ports.VettingObserver
	logger     *slog.Logger
	limits     VettingLimits
}

func NewVettingEngine(
	extractor ports.TextExtractor,
	classifier ports.DocumentClassifier,
	validator ports.DocumentValidator,
	observer ports.VettingObserver,
	logger *slog.Logger,
	limits VettingLimits,
) *VettingEngine {
	if observer == nil {
		observer = noopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if limits.ExtractionTimeout <= 0 {
		limits.ExtractionTimeout = 2 * time.Minute
	}
	if limits.BatchConcurrency <= 0 {
		limits.BatchConcurrency = 4
	}
	return &VettingEngine{
		extractor:  extractor,
		classifier: classifier,
		validator:  validator,
		observer:   observer,
		logger:     logger,
		limits:     limits,
	}
}

// Vet always returns a result. Extraction problems of any kind, including
// cancellation and panics, become an invalid result with a single issue.
func (e *VettingEngine) Vet(ctx context.Context, file domain.UploadedFile) (result domain.VettingResult) {
	started := time.Now()
	defer func() {
		if recovered := recover(); recovered != nil {
			e.logger.Error("vetting_panic", "filename", file.Filename, "panic", fmt.Sprint(recovered))
			result = domain.ProcessingFailedResult(fmt.Errorf("internal error: %v", recovered))
		}
		e.finish(file, result, time.Since(started))
	}()

	text, err := e.extract(ctx, file)
	if err != nil {
		e.observer.ObserveExtractionFailure()
		e.logger.Warn("extraction_failed", "filename", file.Filename, "error", err.Error())
		return domain.ProcessingFailedResult(err)
	}
	return e.classify(file.Filename, text)
}

// VetText classifies and validates already extracted text. It is observed and
// logged like a file vetting.
func (e *VettingEngine) VetText(filename, text string) domain.VettingResult {
	started := time.Now()
	result := e.classify(filename, text)
	e.finish(domain.UploadedFile{Filename: filename, Size: int64(len(text))}, result, time.Since(started))
	return result
}

// classify normalizes text the same way for every entry point, so a file and
// its pasted text reach the same verdict.
func (e *VettingEngine) classify(filename, text string) domain.VettingResult {
	text = normalize.Text(text)
	category := e.classifier.Classify(filename, text)
	if category == domain.CategoryUnknown {
		return domain.UnsupportedResult()
	}
	return e.validator.Validate(category, text, filename)
}

// VetBatch vets files concurrently. Results are index-aligned with files.
func (e *VettingEngine) VetBatch(ctx context.Context, files []domain.UploadedFile) []domain.VettingResult {
	results := make([]domain.VettingResult, len(files))
	sem := make(chan struct{}, e.limits.BatchConcurrency)
	var wg sync.WaitGroup

	for i, file := range files {
		wg.Add(1)
		go func(idx int, file domain.UploadedFile) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[idx] = domain.ProcessingFailedResult(domain.NewExtractionError(file.Filename, ctx.Err()))
				return
			}
			results[idx] = e.Vet(ctx, file)
		}(i, file)
	}

	wg.Wait()
	return results
}

type extraction struct {
	text string
	err  error
}

func (e *VettingEngine) extract(ctx context.Context, file domain.UploadedFile) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.NewExtractionError(file.Filename, err)
	}
	ctx, cancel := context.WithTimeout(ctx, e.limits.ExtractionTimeout)
	defer cancel()

	done := make(chan extraction, 1)
	go func() {
		defer func() {
			if recovered := recover(); recovered != nil {
				done <- extraction{err: fmt.Errorf("extractor panic: %v", recovered)}
			}
		}()
		text, err := e.extractor.Extract(ctx, file)
		done <- extraction{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", domain.NewExtractionError(file.Filename, ctx.Err())
	case out := <-done:
		if out.err != nil {
			var extractionErr *domain.ExtractionError
			if errors.As(out.err, &extractionErr) {
				return "", out.err
			}
			return "", domain.NewExtractionError(file.Filename, out.err)
		}
		if strings.TrimSpace(out.text) == "" {
			return "", domain.NewExtractionError(file.Filename, errors.New("no readable text found"))
		}
		return out.text, nil
	}
}

func (e *VettingEngine) finish(file domain.UploadedFile, result domain.VettingResult, elapsed time.Duration) {
	e.observer.ObserveVetting(result, elapsed)
	e.logger.Info(
		"vetting_completed",
		"filename", file.Filename,
		"category", result.Category.String(),
		"status", string(result.Status),
		"confidence", result.Confidence,
		"issues", len(result.Issues),
		"duration_ms", elapsed.Milliseconds(),
	)
}

type noopObserver struct{}

func (noopObserver) ObserveVetting(domain.VettingResult, time.Duration) {}
func (noopObserver) ObserveExtractionFailure() {}
