package nats

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
	"github.com/nats-io/nats.go"
)

func TestVetRequestRoundTrip(t *testing.T) {
	payload, err := encodeVetRequest(" doc-42 ")
	if err != nil {
		t.Fatalf("encodeVetRequest() error = %v", err)
	}
	id, err := decodeVetRequest(payload)
	if err != nil || id != "doc-42" {
		t.Fatalf("unexpected decode result %q err=%v", id, err)
	}
}

func TestDecodeVetRequestAcceptsBareID(t *testing.T) {
	id, err := decodeVetRequest([]byte("doc-7\n"))
	if err != nil || id != "doc-7" {
		t.Fatalf("unexpected decode result %q err=%v", id, err)
	}
}

func TestDecodeVetRequestRejectsGarbage(t *testing.T) {
	for _, payload := range []string{"", "{", `{"document_id":""}`} {
		if _, err := decodeVetRequest([]byte(payload)); !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("%q: expected invalid input, got %v", payload, err)
		}
	}
	if _, err := encodeVetRequest(""); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty id, got %v", err)
	}
}

func TestClassifyNATSError(t *testing.T) {
	if class := classifyNATSError(fmt.Errorf("nats publish: %w", nats.ErrNoServers)); !class.Retryable {
		t.Fatalf("no servers must be retryable")
	}
	if class := classifyNATSError(context.Canceled); class.Retryable || class.RecordFailure {
		t.Fatalf("cancellation must be ignored: %+v", class)
	}
	if class := classifyNATSError(nats.ErrBadSubject); class.Retryable {
		t.Fatalf("bad subject is permanent")
	}
}

func TestWrapTemporaryIfNeeded(t *testing.T) {
	err := wrapTemporaryIfNeeded(fmt.Errorf("nats publish: %w", nats.ErrTimeout))
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary kind, got %v", err)
	}
	permanent := errors.New("payload too large")
	if got := wrapTemporaryIfNeeded(permanent); got != permanent {
		t.Fatalf("permanent errors pass through unchanged, got %v", got)
	}
}
