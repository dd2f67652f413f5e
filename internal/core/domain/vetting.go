package domain

type VettingStatus string

const (
	VettingValid   VettingStatus = "valid"
	VettingInvalid VettingStatus = "invalid"
	// VettingPending marks a document that has not been vetted yet. The
	// engine never produces it.
	VettingPending VettingStatus = "pending"
)

const (
	MinConfidence = 0.0
	MaxConfidence = 100.0
)

// Issue texts produced by the engine itself rather than by a validator.
const (
	IssueUnsupportedDocument = "document type could not be identified or is not supported"
	issueProcessingFailed    = "document processing failed: "
)

// VettingResult is the verdict for one document. It is built once per vetting
// call and handed to the caller; nothing keeps a reference to it.
type VettingResult struct {
	Category      Category       `json:"category"`
	Status        VettingStatus  `json:"status"`
	Confidence    float64        `json:"confidence"`
	Issues        []string       `json:"issues"`
	ExtractedData map[string]any `json:"extracted_data,omitempty"`
}

func (r VettingResult) Valid() bool {
	return r.Status == VettingValid
}

// ClampConfidence bounds a raw score to [MinConfidence, MaxConfidence].
func ClampConfidence(v float64) float64 {
	switch {
	case v < MinConfidence:
		return MinConfidence
	case v > MaxConfidence:
		return MaxConfidence
	default:
		return v
	}
}

// UnsupportedResult is the terminal verdict for text no category claims.
func UnsupportedResult() VettingResult {
	return VettingResult{
		Category:      CategoryUnknown,
		Status:        VettingInvalid,
		Confidence:    0,
		Issues:        []string{IssueUnsupportedDocument},
		ExtractedData: map[string]any{"document_type": string(CategoryUnknown)},
	}
}

// ProcessingFailedResult is the terminal verdict when no text could be obtained.
func ProcessingFailedResult(err error) VettingResult {
	message := "unknown error"
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	return VettingResult{
		Category:   CategoryUnknown,
		Status:     VettingInvalid,
		Confidence: 0,
		Issues:     []string{issueProcessingFailed + message},
	}
}
