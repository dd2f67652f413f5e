package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
	"github.com/kirillkom/loan-document-vetting/internal/core/ports"
)

type ComplianceUseCase struct {
	repo ports.DocumentRepository
	now  func() time.Time
}

func NewComplianceUseCase(repo ports.DocumentRepository) *ComplianceUseCase {
	return &ComplianceUseCase{repo: repo, now: time.Now}
}

func (uc *ComplianceUseCase) Report(ctx context.Context, applicationID string) (domain.ComplianceReport, error) {
	applicationID = strings.TrimSpace(applicationID)
	if applicationID == "" {
		return domain.ComplianceReport{}, domain.WrapError(domain.ErrInvalidInput, "compliance report", errors.New("application id is required"))
	}
	docs, err := uc.repo.ListByApplication(ctx, applicationID)
	if err != nil {
		return domain.ComplianceReport{}, fmt.Errorf("list application documents: %w", err)
	}
	return domain.BuildComplianceReport(applicationID, docs, uc.now().UTC()), nil
}
