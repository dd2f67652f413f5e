// Package pdf reads the embedded text layer of PDF documents.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
	"github.com/kirillkom/loan-document-vetting/internal/core/ports"
)

// MinTextLength is the amount of embedded text below which a PDF is treated
// as a scan and handed to OCR.
const MinTextLength = 50

type Extractor struct {
	fallback ports.TextExtractor
	logger   *slog.Logger
}

// NewExtractor builds a PDF extractor. fallback may be nil, in which case
// scanned PDFs fail extraction.
func NewExtractor(fallback ports.TextExtractor, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{fallback: fallback, logger: logger}
}

func (e *Extractor) Extract(ctx context.Context, file domain.UploadedFile) (string, error) {
	text, err := readTextLayer(file.Content)
	if err == nil && len(strings.TrimSpace(text)) >= MinTextLength {
		return text, nil
	}
	if err != nil {
		e.logger.Warn("pdf_text_layer_failed", "filename", file.Filename, "error", err.Error())
	}

	if e.fallback == nil {
		if err == nil {
			err = errors.New("pdf has no usable text layer")
		}
		return "", domain.NewExtractionError(file.Filename, err)
	}
	e.logger.Info("pdf_ocr_fallback", "filename", file.Filename, "text_layer_chars", len(strings.TrimSpace(text)))
	return e.fallback.Extract(ctx, file)
}

// readTextLayer concatenates the plain text of every page. The pdf library
// panics on some malformed inputs; that is reported as an error.
func readTextLayer(content []byte) (text string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			text = ""
			err = fmt.Errorf("parse pdf: %v", recovered)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	return b.String(), nil
}
