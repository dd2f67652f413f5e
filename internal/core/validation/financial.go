package validation

import (
	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
	"github.com/kirillkom/loan-document-vetting/internal/core/patterns"
)

const minFinancialAmounts = 5

func (s *Set) FinancialStatement(text string) domain.VettingResult {
	card := s.card(domain.CategoryFinancialStatement)

	kind, ok := patterns.FirstField(patterns.FinancialStatementTypes, text)
	if ok {
		card.record("statement_type", kind)
	}
	card.check(ok, 20, 15, "financial statement type not clearly identified")

	card.coverage(text, 40)

	amounts := patterns.Amounts(text)
	card.record("amount_count", len(amounts))
	card.check(len(amounts) >= minFinancialAmounts, 20, 20,
		"insufficient financial data: document may be incomplete")

	date, _, _ := patterns.FindDate(text, patterns.StatementDate)
	if date.IsZero() {
		card.penalize(10, "statement date not clearly visible")
	} else {
		card.record("statement_date", date)
		card.check(!card.rule.Recency.Stale(date, s.today()), 20, 15,
			"financial statement is more than 12 months old")
	}

	// Accountant involvement only ever adds confidence.
	cpa := patterns.CPAMention.MatchString(text)
	card.record("cpa_prepared", cpa)
	if cpa {
		card.award(10)
	}

	return card.result()
}
