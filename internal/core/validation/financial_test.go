package validation

import (
	"testing"
	"time"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
)

func balanceSheet(asOf time.Time, withCPA bool) string {
	text := "ACME BAKERY LLC\nBalance Sheet\nAs of " + usDate(asOf) + "\n" +
		"Revenue: $412,000\n" +
		"Net income: $38,500\n" +
		"Total assets: $265,300\n" +
		"Total liabilities: $121,800\n" +
		"Owner's equity: $143,500\n"
	if withCPA {
		text += "Reviewed by Jordan Lee, CPA\n"
	}
	return text
}

func TestFinancialStatementCurrentIsValid(t *testing.T) {
	result := newTestSet().FinancialStatement(balanceSheet(fixedNow.AddDate(0, -3, 0), true))
	if result.Status != domain.VettingValid {
		t.Fatalf("expected valid, got %s with %v", result.Status, result.Issues)
	}
	if result.Confidence != 100 {
		t.Fatalf("expected clamped confidence 100, got %v", result.Confidence)
	}
	if result.ExtractedData["statement_type"] != "balance_sheet" {
		t.Fatalf("unexpected statement type %v", result.ExtractedData["statement_type"])
	}
}

func TestFinancialStatementToleratesOneIssue(t *testing.T) {
	result := newTestSet().FinancialStatement(balanceSheet(fixedNow.AddDate(-2, 0, 0), false))
	if len(result.Issues) != 1 || !hasIssue(result, "more than 12 months old") {
		t.Fatalf("expected single age issue, got %v", result.Issues)
	}
	if result.Status != domain.VettingValid {
		t.Fatalf("one issue is within tolerance, got %s (confidence %v)", result.Status, result.Confidence)
	}
}

func TestFinancialStatementCPAIsBonusOnly(t *testing.T) {
	set := newTestSet()
	asOf := fixedNow.AddDate(-2, 0, 0)
	with := set.FinancialStatement(balanceSheet(asOf, true))
	without := set.FinancialStatement(balanceSheet(asOf, false))
	if with.Confidence-without.Confidence != 10 {
		t.Fatalf("expected 10 point bonus, got %v vs %v", with.Confidence, without.Confidence)
	}
	if len(with.Issues) != len(without.Issues) {
		t.Fatalf("missing cpa must not add an issue")
	}
}

func TestFinancialStatementInsufficientData(t *testing.T) {
	result := newTestSet().FinancialStatement("Income Statement\nRevenue $10\nas of 01/01/2026")
	if !hasIssue(result, "insufficient financial data") {
		t.Fatalf("expected insufficient data issue, got %v", result.Issues)
	}
}
