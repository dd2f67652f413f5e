package validation

import (
	"math"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
	"github.com/kirillkom/loan-document-vetting/internal/core/patterns"
)

const minFundsAmounts = 2

// UseOfFunds scores a use of funds statement. Its verdict is gated on
// confidence alone; issues are reported but never block a valid result.
func (s *Set) UseOfFunds(text string) domain.VettingResult {
	card := s.card(domain.CategoryUseOfFunds)

	_, ok := card.rule.FirstIdentity(text)
	card.check(ok, 25, 20, "document does not appear to be a use of funds statement")

	// Partial vocabulary coverage is normal for small loans and is not an issue.
	categories := card.coverage(text, 30)
	card.record("categories_found", categories)

	amounts := patterns.Amounts(text)
	card.record("amount_count", len(amounts))
	card.check(len(amounts) >= minFundsAmounts, 25, 25,
		"insufficient breakdown: need specific dollar amounts")

	card.check(patterns.TotalLoanAmount.MatchString(text), 20, 15,
		"total loan amount not clearly specified")

	if card.rule.MustAddUpToTotal {
		reconcileTotal(card, text, amounts)
	}

	return card.result()
}

// reconcileTotal reports whether the line items add up to the stated total.
// It only feeds extracted data.
func reconcileTotal(card *scorecard, text string, amounts []string) {
	total, ok := patterns.TotalLoanAmountValue(text)
	if !ok {
		return
	}
	card.record("total_loan_amount", total)

	sum := 0.0
	skipped := false
	items := 0
	for _, raw := range amounts {
		value, ok := patterns.ParseAmount(raw)
		if !ok {
			continue
		}
		if !skipped && value == total {
			skipped = true
			continue
		}
		sum += value
		items++
	}
	if items == 0 {
		return
	}
	card.record("line_items_total", sum)
	card.record("amounts_reconcile", math.Abs(sum-total) < 0.01)
}
