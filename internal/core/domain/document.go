package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusVetted     DocumentStatus = "vetted"
	StatusFailed     DocumentStatus = "failed"
)

// Document is the intake record of one uploaded loan document.
type Document struct {
	ID            string         `json:"id"`
	ApplicationID string         `json:"application_id,omitempty"`
	Filename      string         `json:"filename"`
	MimeType      string         `json:"mime_type"`
	Size          int64          `json:"size"`
	CategoryHint  CategoryHint   `json:"category_hint,omitempty"`
	StoragePath   string         `json:"storage_path"`
	Status        DocumentStatus `json:"status"`
	Category      Category       `json:"category,omitempty"`
	Result        *VettingResult `json:"result,omitempty"`
	Error         string         `json:"error,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// VettingStatus reports the verdict of a stored document, pending until a
// result has been saved.
func (d *Document) VettingStatus() VettingStatus {
	if d == nil || d.Result == nil {
		return VettingPending
	}
	return d.Result.Status
}

// UploadedFile is the input of one vetting call: the raw bytes plus what the
// upload layer declared about them.
type UploadedFile struct {
	Filename string
	MimeType string
	Size     int64
	Hint     CategoryHint
	Content  []byte
}
