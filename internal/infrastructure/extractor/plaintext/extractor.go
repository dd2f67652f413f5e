package plaintext

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(ctx context.Context, file domain.UploadedFile) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.NewExtractionError(file.Filename, err)
	}
	if !utf8.Valid(file.Content) {
		return "", domain.NewExtractionError(file.Filename, domain.WrapError(domain.ErrUnsupportedFormat, "read text file", errors.New("content is not valid UTF-8")))
	}
	return strings.TrimSpace(string(file.Content)), nil
}
