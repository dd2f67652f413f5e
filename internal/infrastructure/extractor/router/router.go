// Package router dispatches uploaded files to the extractor for their format
// and normalizes whatever text comes back.
package router

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
	"github.com/kirillkom/loan-document-vetting/internal/core/ports"
	"github.com/kirillkom/loan-document-vetting/internal/core/normalize"
)

type Format string

const (
	FormatUnknown     Format = ""
	FormatText        Format = "text"
	FormatPDF         Format = "pdf"
	FormatImage       Format = "image"
	FormatSpreadsheet Format = "spreadsheet"
)

var mimeFormats = map[string]Format{
	"text/plain":      FormatText,
	"text/csv":        FormatText,
	"text/markdown":   FormatText,
	"application/pdf": FormatPDF,
	"image/jpeg":      FormatImage,
	"image/jpg":       FormatImage,
	"image/png":       FormatImage,
	"image/gif":       FormatImage,
	"image/bmp":       FormatImage,
	"image/tiff":      FormatImage,

	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": FormatSpreadsheet,
}

var extFormats = map[string]Format{
	".txt":  FormatText,
	".csv":  FormatText,
	".md":   FormatText,
	".pdf":  FormatPDF,
	".jpg":  FormatImage,
	".jpeg": FormatImage,
	".png":  FormatImage,
	".gif":  FormatImage,
	".bmp":  FormatImage,
	".tif":  FormatImage,
	".tiff": FormatImage,
	".xlsx": FormatSpreadsheet,
	".xlsm": FormatSpreadsheet,
}

// Detect trusts a known MIME type first and falls back to the extension, so
// generic uploads such as application/octet-stream still route by name.
func Detect(filename, mimeType string) Format {
	if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil {
		if format, ok := mimeFormats[strings.ToLower(mediaType)]; ok {
			return format
		}
	}
	return extFormats[strings.ToLower(filepath.Ext(filename))]
}

// Extractors holds one adapter per format. A nil entry makes that format
// unsupported.
type Extractors struct {
	Text        ports.TextExtractor
	PDF         ports.TextExtractor
	Image       ports.TextExtractor
	Spreadsheet ports.TextExtractor
}

type Router struct {
	byFormat map[Format]ports.TextExtractor
}

func New(extractors Extractors) *Router {
	byFormat := make(map[Format]ports.TextExtractor, 4)
	for format, extractor := range map[Format]ports.TextExtractor{
		FormatText:        extractors.Text,
		FormatPDF:         extractors.PDF,
		FormatImage:       extractors.Image,
		FormatSpreadsheet: extractors.Spreadsheet,
	} {
		if extractor != nil {
			byFormat[format] = extractor
		}
	}
	return &Router{byFormat: byFormat}
}

// Supports reports whether a file of this name and type can be extracted.
func (r *Router) Supports(filename, mimeType string) bool {
	_, ok := r.byFormat[Detect(filename, mimeType)]
	return ok
}

func (r *Router) Extract(ctx context.Context, file domain.UploadedFile) (string, error) {
	format := Detect(file.Filename, file.MimeType)
	extractor, ok := r.byFormat[format]
	if !ok {
		err := domain.WrapError(
			domain.ErrUnsupportedFormat,
			"select extractor",
			fmt.Errorf("file type %q is not supported; upload PDF, image, spreadsheet or text files", describe(file)),
		)
		return "", domain.NewExtractionError(file.Filename, err)
	}

	text, err := extractor.Extract(ctx, file)
	if err != nil {
		return "", err
	}
	return normalize.Text(text), nil
}

func describe(file domain.UploadedFile) string {
	if file.MimeType != "" {
		return file.MimeType
	}
	if ext := filepath.Ext(file.Filename); ext != "" {
		return ext
	}
	return "unknown"
}
