package ports

import (
	"context"
	"io"
	"time"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
)

// DocumentRepository persists and reads document intake state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveResult(ctx context.Context, id string, result domain.VettingResult) error
	ListByApplication(ctx context.Context, applicationID string) ([]domain.Document, error)
}

// ObjectStorage stores uploaded source files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// MessageQueue publishes/consumes vetting requests.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID string) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor turns an uploaded file into plain text. Failures should be
// reported as *domain.ExtractionError.
type TextExtractor interface {
	Extract(ctx context.Context, file domain.UploadedFile) (string, error)
}

// DocumentClassifier maps a filename and extracted text to a category. It is
// total and never fails.
type DocumentClassifier interface {
	Classify(filename, text string) domain.Category
}

// DocumentValidator scores text against the rules of a category.
type DocumentValidator interface {
	Validate(category domain.Category, text, filename string) domain.VettingResult
}

// VettingObserver receives one notification per finished vetting.
type VettingObserver interface {
	ObserveVetting(result domain.VettingResult, duration time.Duration)
	ObserveExtractionFailure()
}
