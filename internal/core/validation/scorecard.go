package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
	"github.com/kirillkom/loan-document-vetting/internal/core/patterns"
)

// scorecard accumulates one validation run. It is created per call and
// turned into a result exactly once.
type scorecard struct {
	rule       patterns.Rule
	confidence float64
	issues     []string
	data       map[string]any
}

func newScorecard(rule patterns.Rule) *scorecard {
	return &scorecard{
		rule:   rule,
		issues: []string{},
		data:   map[string]any{"document_type": string(rule.Category)},
	}
}

func (s *scorecard) award(points float64) {
	s.confidence += points
}

func (s *scorecard) penalize(points float64, issue string) {
	s.confidence -= points
	s.flag(issue)
}

// flag reports an issue without moving the score.
func (s *scorecard) flag(issue string) {
	if issue != "" {
		s.issues = append(s.issues, issue)
	}
}

// check awards gain when ok holds and otherwise penalizes loss with issue.
func (s *scorecard) check(ok bool, gain, loss float64, issue string) bool {
	if ok {
		s.award(gain)
	} else {
		s.penalize(loss, issue)
	}
	return ok
}

// coverage awards up to weight points in proportion to the required fields
// present and returns the names found.
func (s *scorecard) coverage(text string, weight float64) []string {
	found := s.rule.Covered(text)
	if total := len(s.rule.RequiredFields); total > 0 {
		s.award(weight * float64(len(found)) / float64(total))
	}
	s.record("fields_found", found)
	s.record("fields_required", len(s.rule.RequiredFields))
	return found
}

func (s *scorecard) record(key string, value any) {
	s.data[key] = value
}

func (s *scorecard) result() domain.VettingResult {
	confidence := domain.ClampConfidence(s.confidence)
	status := domain.VettingInvalid
	if confidence >= s.rule.Threshold && (!s.rule.GatesOnIssues() || len(s.issues) <= s.rule.Tolerance) {
		status = domain.VettingValid
	}
	return domain.VettingResult{
		Category:      s.rule.Category,
		Status:        status,
		Confidence:    confidence,
		Issues:        s.issues,
		ExtractedData: s.data,
	}
}

// textLength counts characters of the trimmed text, the way the extraction
// quality heuristics expect.
func textLength(text string) int {
	return utf8.RuneCountInString(strings.TrimSpace(text))
}
