package validation

import (
	"fmt"
	"strings"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
	"github.com/kirillkom/loan-document-vetting/internal/core/patterns"
)

const (
	minPlanSections    = 4
	detailedPlanLength = 5000
)

func (s *Set) BusinessPlan(text string) domain.VettingResult {
	card := s.card(domain.CategoryBusinessPlan)

	sections := card.coverage(text, 60)
	if len(sections) < minPlanSections {
		card.flag(fmt.Sprintf("insufficient business plan content: found %d of %d required sections",
			len(sections), len(card.rule.RequiredFields)))
	}

	length := textLength(text)
	card.record("character_count", length)
	card.record("word_count", len(strings.Fields(text)))
	switch {
	case length < card.rule.MinLength:
		card.penalize(20, "business plan is too brief for loan evaluation")
	case length > detailedPlanLength:
		card.award(20)
	}

	card.check(patterns.FinancialProjection.MatchString(text), 15, 15,
		"financial projections are required: include revenue, expense and cash flow forecasts")
	card.check(patterns.UseOfFundsPhrase.MatchString(text), 15, 15,
		"use of funds statement is required")

	return card.result()
}
