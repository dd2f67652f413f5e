package validation

import (
	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
	"github.com/kirillkom/loan-document-vetting/internal/core/patterns"
)

func (s *Set) TaxReturn(text string) domain.VettingResult {
	card := s.card(domain.CategoryTaxReturn)

	form, ok := patterns.FirstField(patterns.TaxFormTypes, text)
	if ok {
		card.record("form_type", form)
	}
	card.check(ok, 25, 20, "tax form type not clearly identified")

	card.coverage(text, 30)

	signed := patterns.Signature.MatchString(text)
	card.record("signed", signed)
	card.check(signed, 25, 25, "tax return must be signed and dated")

	// Calendar years, not elapsed time: a 2023 return is still acceptable
	// anywhere in 2026.
	if year, ok := patterns.TaxYear(text); ok {
		card.record("tax_year", year)
		oldest := s.now().Year() - card.rule.Recency.Years
		card.check(year >= oldest, 20, 15, "tax return is older than 3 years")
	} else {
		card.penalize(15, "tax year not clearly identified")
	}

	if textLength(text) < card.rule.MinLength {
		card.penalize(20, "document appears incomplete: insufficient content extracted")
	}

	return card.result()
}
