package ports

import (
	"context"
	"io"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
)

// DocumentVetter is the single entry point of the vetting engine.
type DocumentVetter interface {
	Vet(ctx context.Context, file domain.UploadedFile) domain.VettingResult
}

// UploadRequest describes one file handed over by the upload layer.
type UploadRequest struct {
	ApplicationID string
	Filename      string
	MimeType      string
	Hint          domain.CategoryHint
	Body          io.Reader
}

// DocumentIngestor is the inbound contract for asynchronous upload and vetting.
type DocumentIngestor interface {
	Upload(ctx context.Context, req UploadRequest) (*domain.Document, error)
}

// DocumentReader is the inbound read model for document state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous vetting.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// ComplianceReporter summarises category coverage of one loan application.
type ComplianceReporter interface {
	Report(ctx context.Context, applicationID string) (domain.ComplianceReport, error)
}

// TextVetter vets text that was extracted elsewhere.
type TextVetter interface {
	VetText(filename, text string) domain.VettingResult
}
