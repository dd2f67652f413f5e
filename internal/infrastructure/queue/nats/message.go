package nats

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
)

// vetRequest is the payload on the vetting subject.
type vetRequest struct {
	DocumentID  string    `json:"document_id"`
	RequestedAt time.Time `json:"requested_at"`
}

func encodeVetRequest(documentID string) ([]byte, error) {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "encode vet request", errors.New("document id is required"))
	}
	return json.Marshal(vetRequest{DocumentID: documentID, RequestedAt: time.Now().UTC()})
}

// decodeVetRequest also accepts a bare document id, the format older
// publishers used.
func decodeVetRequest(data []byte) (string, error) {
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "decode vet request", errors.New("empty payload"))
	}
	if !strings.HasPrefix(raw, "{") {
		return raw, nil
	}
	var req vetRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return "", domain.WrapError(domain.ErrInvalidInput, "decode vet request", err)
	}
	if strings.TrimSpace(req.DocumentID) == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "decode vet request", errors.New("document id is required"))
	}
	return req.DocumentID, nil
}
