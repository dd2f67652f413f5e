package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*DocumentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &DocumentRepository{db: db}, mock, func() { _ = db.Close() }
}

var documentColumns = []string{
	"id", "application_id", "filename", "mime_type", "size_bytes", "category_hint", "storage_path", "status",
	"category", "vetting_status", "confidence", "issues", "extracted_data", "error_message", "created_at", "updated_at",
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, application_id, filename").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDWithoutResultIsPending(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, application_id, filename").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows(documentColumns).AddRow(
			"doc-1", "app-1", "license.pdf", "application/pdf", int64(2048), "business", "doc-1_license.pdf", "uploaded",
			nil, nil, nil, nil, nil, "", now, now,
		))

	doc, err := repo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if doc.Result != nil || doc.VettingStatus() != domain.VettingPending {
		t.Fatalf("expected pending document, got %+v", doc)
	}
	if doc.CategoryHint != domain.CategoryHint("business") || doc.Size != 2048 {
		t.Fatalf("unexpected document fields: %+v", doc)
	}
}

func TestGetByIDDecodesStoredResult(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, application_id, filename").
		WithArgs("doc-2").
		WillReturnRows(sqlmock.NewRows(documentColumns).AddRow(
			"doc-2", "app-1", "1040.pdf", "application/pdf", int64(10), "", "doc-2_1040.pdf", "vetted",
			"tax_return", "invalid", 55.0, []byte(`["tax return must be signed and dated"]`),
			[]byte(`{"document_type":"tax_return","form_type":"1040"}`), "", now, now,
		))

	doc, err := repo.GetByID(context.Background(), "doc-2")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if doc.Result == nil {
		t.Fatalf("expected decoded result")
	}
	if doc.Category != domain.CategoryTaxReturn || doc.Result.Status != domain.VettingInvalid || doc.Result.Confidence != 55 {
		t.Fatalf("unexpected result: %+v", doc.Result)
	}
	if len(doc.Result.Issues) != 1 || doc.Result.ExtractedData["form_type"] != "1040" {
		t.Fatalf("unexpected issues/data: %+v", doc.Result)
	}
}

func TestUpdateStatusReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", string(domain.StatusProcessing), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.StatusProcessing, "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveResultReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", string(domain.StatusVetted), "business_license", "valid", 90.0,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveResult(context.Background(), "missing", domain.VettingResult{
		Category:   domain.CategoryBusinessLicense,
		Status:     domain.VettingValid,
		Confidence: 90,
		Issues:     []string{},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListByApplicationReturnsRowsInOrder(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(documentColumns).
		AddRow("doc-1", "app-1", "a.pdf", "application/pdf", int64(1), "", "p1", "vetted",
			"business_license", "valid", 90.0, []byte(`[]`), nil, "", now, now).
		AddRow("doc-2", "app-1", "b.pdf", "application/pdf", int64(1), "", "p2", "processing",
			nil, nil, nil, nil, nil, "", now.Add(time.Minute), now.Add(time.Minute))
	mock.ExpectQuery("SELECT id, application_id, filename").
		WithArgs("app-1").
		WillReturnRows(rows)

	docs, err := repo.ListByApplication(context.Background(), "app-1")
	if err != nil {
		t.Fatalf("ListByApplication() error = %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "doc-1" || docs[1].ID != "doc-2" {
		t.Fatalf("unexpected documents: %+v", docs)
	}
	if !docs[0].Result.Valid() || docs[1].Result != nil {
		t.Fatalf("unexpected results: %+v / %+v", docs[0].Result, docs[1].Result)
	}
}
