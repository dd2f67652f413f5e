package validation

import (
	"testing"
	"time"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
)

func personalStatement(dated time.Time) string {
	return "SBA Form 413\nPersonal Financial Statement\n" +
		"Name: Jane Doe\n" +
		"Social Security No: XXX-XX-9876\n" +
		"Total Assets: $640,000\n" +
		"Total Liabilities: $210,000\n" +
		"Net Worth: $430,000\n" +
		"Signature: Jane Doe\n" +
		"Date: " + usDate(dated) + "\n"
}

func TestPersonalFinancialStatementCurrentIsValid(t *testing.T) {
	result := newTestSet().PersonalFinancialStatement(personalStatement(fixedNow.AddDate(0, 0, -30)))
	if result.Status != domain.VettingValid {
		t.Fatalf("expected valid, got %s with %v", result.Status, result.Issues)
	}
}

func TestPersonalFinancialStatementOlderThan90DaysFails(t *testing.T) {
	for _, days := range []int{91, 120, 400} {
		result := newTestSet().PersonalFinancialStatement(personalStatement(fixedNow.AddDate(0, 0, -days)))
		if !hasIssue(result, "must be current (within 90 days)") {
			t.Fatalf("%d days: expected currency issue, got %v", days, result.Issues)
		}
		if result.Status == domain.VettingValid {
			t.Fatalf("%d days: stale statement must not be valid", days)
		}
	}
}

func TestPersonalFinancialStatementUnsigned(t *testing.T) {
	text := "Personal Financial Statement\nName: Jane Doe\nNet Worth: $1\nDate: " + usDate(fixedNow)
	result := newTestSet().PersonalFinancialStatement(text)
	if !hasIssue(result, "must be signed") {
		t.Fatalf("expected signature issue, got %v", result.Issues)
	}
	if result.ExtractedData["signed"] != false {
		t.Fatalf("expected signed=false")
	}
}
