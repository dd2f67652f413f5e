package validation

import (
	"strings"
	"testing"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
)

const (
	planProjections = "Financial Projections\nRevenue forecast for year one is $480,000 with steady growth.\n"
	planFunds       = "Use of Funds\nThe loan funds a second oven and delivery van.\n"
)

func planText(fillerRepeat int, projections, funds string) string {
	filler := strings.Repeat("We bake bread for local cafes and grocers every morning. ", fillerRepeat)
	sections := []string{
		"Executive Summary\n" + filler,
		"Company Description\n" + filler,
		"Market Analysis\n" + filler,
		"Organization and Management\n" + filler,
		projections + filler,
		funds + filler,
	}
	return "Business Plan\n" + strings.Join(sections, "\n")
}

func fullPlan() string {
	return planText(20, planProjections, planFunds)
}

func TestBusinessPlanCompleteIsValid(t *testing.T) {
	text := fullPlan()
	if textLength(text) <= detailedPlanLength {
		t.Fatalf("fixture too short: %d", textLength(text))
	}
	result := newTestSet().BusinessPlan(text)
	if result.Status != domain.VettingValid || len(result.Issues) != 0 {
		t.Fatalf("expected valid without issues, got %s %v", result.Status, result.Issues)
	}
	if got := result.ExtractedData["fields_found"].([]string); len(got) != 6 {
		t.Fatalf("expected six sections, got %v", got)
	}
}

func TestBusinessPlanTooBrief(t *testing.T) {
	result := newTestSet().BusinessPlan("Executive Summary\nWe bake bread.\nMarket Analysis\nPeople like bread.")
	if !hasIssue(result, "too brief") {
		t.Fatalf("expected brevity issue, got %v", result.Issues)
	}
	if !hasIssue(result, "found 2 of 6") {
		t.Fatalf("expected section coverage issue, got %v", result.Issues)
	}
	if result.Status != domain.VettingInvalid || result.Confidence != 0 {
		t.Fatalf("expected invalid with zero confidence, got %s %v", result.Status, result.Confidence)
	}
}
