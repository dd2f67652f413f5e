package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
	"github.com/kirillkom/loan-document-vetting/internal/core/ports"
)

// ProcessDocumentUseCase vets a stored document and records the verdict.
type ProcessDocumentUseCase struct {
	repo    ports.DocumentRepository
	storage ports.ObjectStorage
	vetter  ports.DocumentVetter
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	vetter ports.DocumentVetter,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		repo:    repo,
		storage: storage,
		vetter:  vetter,
	}
}

// ProcessByID returns an error only when the document could not be loaded or
// the verdict could not be stored. An unreadable file is a verdict, not an error.
func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.markStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	result, err := uc.processPipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.persistResult(ctx, documentID, result); err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	return nil
}

func (uc *ProcessDocumentUseCase) processPipeline(ctx context.Context, documentID string) (domain.VettingResult, error) {
	doc, err := uc.loadDocument(ctx, documentID)
	if err != nil {
		return domain.VettingResult{}, err
	}

	content, err := uc.readContent(ctx, doc)
	if err != nil {
		return domain.VettingResult{}, err
	}

	return uc.vetter.Vet(ctx, domain.UploadedFile{
		Filename: doc.Filename,
		MimeType: doc.MimeType,
		Size:     doc.Size,
		Hint:     doc.CategoryHint,
		Content:  content,
	}), nil
}

func (uc *ProcessDocumentUseCase) loadDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}
	return doc, nil
}

func (uc *ProcessDocumentUseCase) readContent(ctx context.Context, doc *domain.Document) ([]byte, error) {
	reader, err := uc.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open stored file: %w", err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read stored file: %w", err)
	}
	return content, nil
}

// persistResult also moves the document to vetted.
func (uc *ProcessDocumentUseCase) persistResult(ctx context.Context, documentID string, result domain.VettingResult) error {
	if err := uc.repo.SaveResult(ctx, documentID, result); err != nil {
		return fmt.Errorf("save vetting result: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *ProcessDocumentUseCase) markFailed(ctx context.Context, documentID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, documentID, domain.StatusFailed, processErr.Error())
}
