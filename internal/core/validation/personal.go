package validation

import (
	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
	"github.com/kirillkom/loan-document-vetting/internal/core/patterns"
)

func (s *Set) PersonalFinancialStatement(text string) domain.VettingResult {
	card := s.card(domain.CategoryPersonalFinancialStatement)

	card.check(patterns.PFSIdentity.MatchString(text), 30, 20,
		"document does not appear to be sba form 413 or an equivalent personal financial statement")

	card.coverage(text, 40)

	signed := patterns.Signature.MatchString(text)
	card.record("signed", signed)
	card.check(signed, 25, 25, "personal financial statement must be signed")

	date, _, _ := patterns.FindDate(text, patterns.StatementDate)
	if date.IsZero() {
		card.penalize(10, "statement date not clearly visible")
	} else {
		card.record("statement_date", date)
		card.check(!card.rule.Recency.Stale(date, s.today()), 5, 20,
			"personal financial statement must be current (within 90 days)")
	}

	return card.result()
}
