package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
)

type complianceRepoFake struct {
	processRepoFake
	docs    []domain.Document
	listErr error
	asked   string
}

func (f *complianceRepoFake) ListByApplication(_ context.Context, applicationID string) ([]domain.Document, error) {
	f.asked = applicationID
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.docs, nil
}

func TestComplianceReport(t *testing.T) {
	valid := domain.VettingResult{Status: domain.VettingValid}
	repo := &complianceRepoFake{docs: []domain.Document{
		{ID: "d1", Category: domain.CategoryBusinessLicense, Status: domain.StatusVetted, Result: &valid},
	}}
	uc := NewComplianceUseCase(repo)
	uc.now = func() time.Time { return vetNow }

	report, err := uc.Report(context.Background(), " app-7 ")
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if repo.asked != "app-7" || report.ApplicationID != "app-7" {
		t.Fatalf("expected trimmed application id, got %q", repo.asked)
	}
	if report.Overall != domain.NonCompliant {
		t.Fatalf("expected non compliant, got %s", report.Overall)
	}
	if len(report.Checks) != len(domain.Categories()) {
		t.Fatalf("expected one check per category, got %d", len(report.Checks))
	}
	if report.Checks[0].Status != domain.CheckPass || report.Checks[0].DocumentIDs[0] != "d1" {
		t.Fatalf("expected license check to pass, got %+v", report.Checks[0])
	}
	if !report.GeneratedAt.Equal(vetNow) {
		t.Fatalf("unexpected generated at %v", report.GeneratedAt)
	}
}

func TestComplianceReportValidation(t *testing.T) {
	uc := NewComplianceUseCase(&complianceRepoFake{})
	if _, err := uc.Report(context.Background(), "  "); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestComplianceReportRepoError(t *testing.T) {
	uc := NewComplianceUseCase(&complianceRepoFake{listErr: errors.New("db down")})
	if _, err := uc.Report(context.Background(), "app"); err == nil {
		t.Fatalf("expected error")
	}
}
