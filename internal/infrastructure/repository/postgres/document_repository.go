package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026101601)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	application_id TEXT NOT NULL DEFAULT '',
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	size_bytes BIGINT NOT NULL DEFAULT 0,
	category_hint TEXT NOT NULL DEFAULT '',
	storage_path TEXT NOT NULL,
	status TEXT NOT NULL,
	category TEXT,
	vetting_status TEXT,
	confidence DOUBLE PRECISION,
	issues JSONB,
	extracted_data JSONB,
	error_message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_application ON documents(application_id, created_at);
CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO documents (
	id, application_id, filename, mime_type, size_bytes, category_hint, storage_path, status, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`,
		doc.ID, doc.ApplicationID, doc.Filename, doc.MimeType, doc.Size, string(doc.CategoryHint),
		doc.StoragePath, string(doc.Status), doc.Error, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

const selectDocument = `
SELECT id, application_id, filename, mime_type, size_bytes, category_hint, storage_path, status,
	category, vetting_status, confidence, issues, extracted_data, error_message, created_at, updated_at
FROM documents
`

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, selectDocument+`WHERE id = $1`, id)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	return doc, nil
}

func (r *DocumentRepository) ListByApplication(ctx context.Context, applicationID string) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, selectDocument+`WHERE application_id = $1 ORDER BY created_at ASC`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list application documents: %w", err)
	}
	defer rows.Close()

	docs := make([]domain.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	return requireAffected(res, "update document status", id)
}

// SaveResult stores the verdict and moves the document to vetted.
func (r *DocumentRepository) SaveResult(ctx context.Context, id string, result domain.VettingResult) error {
	issuesJSON, err := json.Marshal(result.Issues)
	if err != nil {
		return fmt.Errorf("marshal issues: %w", err)
	}
	dataJSON, err := json.Marshal(result.ExtractedData)
	if err != nil {
		return fmt.Errorf("marshal extracted data: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, category = $3, vetting_status = $4, confidence = $5, issues = $6, extracted_data = $7,
	error_message = '', updated_at = $8
WHERE id = $1
`, id, string(domain.StatusVetted), string(result.Category), string(result.Status), result.Confidence,
		issuesJSON, dataJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save vetting result: %w", err)
	}
	return requireAffected(res, "save vetting result", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var (
		doc           domain.Document
		hint          string
		status        string
		category      sql.NullString
		vettingStatus sql.NullString
		confidence    sql.NullFloat64
		issuesRaw     []byte
		dataRaw       []byte
	)
	err := row.Scan(
		&doc.ID, &doc.ApplicationID, &doc.Filename, &doc.MimeType, &doc.Size, &hint, &doc.StoragePath, &status,
		&category, &vettingStatus, &confidence, &issuesRaw, &dataRaw, &doc.Error, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.CategoryHint = domain.CategoryHint(hint)
	doc.Status = domain.DocumentStatus(status)
	if category.Valid {
		doc.Category = domain.Category(category.String)
	}
	if vettingStatus.Valid {
		result := domain.VettingResult{
			Category:   doc.Category,
			Status:     domain.VettingStatus(vettingStatus.String),
			Confidence: confidence.Float64,
			Issues:     []string{},
		}
		if len(issuesRaw) > 0 {
			if err := json.Unmarshal(issuesRaw, &result.Issues); err != nil {
				return nil, fmt.Errorf("unmarshal issues: %w", err)
			}
		}
		if len(dataRaw) > 0 {
			if err := json.Unmarshal(dataRaw, &result.ExtractedData); err != nil {
				return nil, fmt.Errorf("unmarshal extracted data: %w", err)
			}
		}
		doc.Result = &result
	}
	return &doc, nil
}

func requireAffected(res sql.Result, operation, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, operation, fmt.Errorf("id=%s", id))
	}
	return nil
}
