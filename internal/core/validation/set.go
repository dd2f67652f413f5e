// Package validation holds one deterministic scoring function per document
// category. Validators never fail: any text, including empty text, yields a
// result.
package validation

import (
	"time"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
	"github.com/kirillkom/loan-document-vetting/internal/core/patterns"
)

type Option func(*Set)

// WithClock replaces time.Now for the recency rules.
func WithClock(now func() time.Time) Option {
	return func(s *Set) {
		if now != nil {
			s.now = now
		}
	}
}

type Set struct {
	library *patterns.Library
	now     func() time.Time
}

func NewSet(library *patterns.Library, opts ...Option) *Set {
	s := &Set{library: library, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate dispatches to the validator of category. Unknown yields the
// unsupported-document verdict.
func (s *Set) Validate(category domain.Category, text, filename string) domain.VettingResult {
	var result domain.VettingResult
	switch category {
	case domain.CategoryBusinessLicense:
		result = s.BusinessLicense(text)
	case domain.CategoryTaxReturn:
		result = s.TaxReturn(text)
	case domain.CategoryFinancialStatement:
		result = s.FinancialStatement(text)
	case domain.CategoryPersonalFinancialStatement:
		result = s.PersonalFinancialStatement(text)
	case domain.CategoryBusinessPlan:
		result = s.BusinessPlan(text)
	case domain.CategoryUseOfFunds:
		result = s.UseOfFunds(text)
	case domain.CategoryArticlesOfIncorporation:
		result = s.ArticlesOfIncorporation(text)
	default:
		return domain.UnsupportedResult()
	}
	if filename != "" {
		result.ExtractedData["filename"] = filename
	}
	return result
}

func (s *Set) card(category domain.Category) *scorecard {
	return newScorecard(s.library.RulesFor(category))
}

func (s *Set) today() time.Time {
	return patterns.StartOfDay(s.now())
}
