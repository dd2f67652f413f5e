// Package ocr recognizes text in scanned documents with the tesseract and
// pdftoppm command line tools.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
	"github.com/kirillkom/loan-document-vetting/internal/infrastructure/resilience"
)

const operation = "ocr.tesseract"

type Config struct {
	Tesseract string // binary name or absolute path; empty -> "tesseract"
	Pdftoppm  string // binary name or absolute path; empty -> "pdftoppm"
	Lang      string // default "eng"
	DPI       int    // rasterization DPI for scanned PDFs, default 300
	MaxPages  int    // pages rendered per PDF, default 3
	TempDir   string // empty -> os.TempDir()
}

type Extractor struct {
	cfg      Config
	runner   Runner
	executor *resilience.Executor
	logger   *slog.Logger
}

func NewExtractor(cfg Config, executor *resilience.Executor, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 3
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, executor: executor, logger: logger}
}

// Extract rasterizes PDFs page by page and runs tesseract on every image.
func (e *Extractor) Extract(ctx context.Context, file domain.UploadedFile) (string, error) {
	text, err := resilience.Do(ctx, e.executor, operation, func(callCtx context.Context) (string, error) {
		return e.recognize(callCtx, file)
	}, classifyOCRError)
	if err != nil {
		return "", domain.NewExtractionError(file.Filename, wrapTemporaryIfNeeded(err))
	}
	return text, nil
}

func (e *Extractor) recognize(ctx context.Context, file domain.UploadedFile) (string, error) {
	tmpDir, err := os.MkdirTemp(e.cfg.TempDir, "vet-ocr-*")
	if err != nil {
		return "", fmt.Errorf("create ocr workdir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("ocr_cleanup_failed", "dir", tmpDir, "error", err)
		}
	}()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	input := filepath.Join(tmpDir, "input"+ext)
	if err := os.WriteFile(input, file.Content, 0o600); err != nil {
		return "", fmt.Errorf("write ocr input: %w", err)
	}

	if !isPDF(file) {
		return e.tesseract(ctx, input)
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png -f 1 -l 3 <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-r", strconv.Itoa(e.cfg.DPI), "-png", "-f", "1", "-l", strconv.Itoa(e.cfg.MaxPages), input, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm: %w: %s", err, strings.TrimSpace(string(errb)))
	}

	pages, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(pages)
	if len(pages) > e.cfg.MaxPages {
		pages = pages[:e.cfg.MaxPages]
	}
	if len(pages) == 0 {
		return "", errors.New("pdftoppm produced no pages")
	}

	var b strings.Builder
	var lastErr error
	for _, page := range pages {
		txt, err := e.tesseract(ctx, page)
		if err != nil {
			lastErr = err
			e.logger.Warn("ocr_page_failed", "filename", file.Filename, "page", filepath.Base(page), "error", err)
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(txt)
	}
	if b.Len() == 0 && lastErr != nil {
		return "", lastErr
	}
	return b.String(), nil
}

func (e *Extractor) tesseract(ctx context.Context, path string) (string, error) {
	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, path, "stdout", "-l", e.cfg.Lang)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(string(errb)))
	}
	return string(out), nil
}

func isPDF(file domain.UploadedFile) bool {
	return strings.EqualFold(file.MimeType, "application/pdf") || strings.EqualFold(filepath.Ext(file.Filename), ".pdf")
}

// classifyOCRError never retries; a non-zero exit means tesseract rejected the
// input and says nothing about the health of the tool.
var classifyOCRError = resilience.IgnoreContext(func(err error) resilience.ErrorClassification {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return resilience.ErrorClassification{}
	}
	return resilience.ErrorClassification{RecordFailure: true}
})

func wrapTemporaryIfNeeded(err error) error {
	if resilience.IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return err
}
