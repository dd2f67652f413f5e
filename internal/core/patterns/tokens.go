package patterns

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateValue matches the date spellings seen on scanned forms: numeric with
// any of / - . separators, ISO, and month names.
const dateValue = `(\d{4}-\d{1,2}-\d{1,2}|\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}|(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4})`

var (
	Signature      = ci(`\bsignature\b|\bsigned\b`)
	CurrencyAmount = regexp.MustCompile(`\$\s?\d[\d,]*(?:\.\d{2})?`)
	CPAMention     = ci(`\bcpa\b|certified\s+public\s+accountant|accountant|audited\s+by|reviewed\s+by`)

	TaxFormTypes = []Field{
		field("1040", `form\s+1040`),
		field("1120S", `form\s+1120-?s\b`),
		field("1120", `form\s+1120`),
		field("1065", `form\s+1065`),
	}
	taxYearLabelled = ci(`(?:tax\s+year|for\s+(?:the\s+)?(?:calendar\s+)?year|year\s+end(?:ing|ed))[^\d\n]{0,20}((?:19|20)\d{2})\b`)
	taxYearBare     = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)

	ExpirationDate = []*regexp.Regexp{
		ci(`expir(?:ation|es|y)(?:\s+date)?[ \t]*(?:on)?[ \t]*[:\-]?\s*` + dateValue),
		ci(`valid\s+(?:through|until|thru)[ \t]*[:\-]?\s*` + dateValue),
	}
	StatementDate = []*regexp.Regexp{
		ci(`(?:as\s+of|period\s+end(?:ing|ed)|for\s+the\s+(?:year|period|month|quarter)\s+ended)[ \t]*[:\-]?\s*` + dateValue),
		ci(`(?:statement\s+date|date\s+signed|date\s+prepared)[ \t]*[:\-]?\s*` + dateValue),
		ci(`\bdate\b[ \t]*[:\-]?\s*` + dateValue),
	}

	BusinessNameLine = ci(`(?:business|company|entity|dba)\s+name[ \t]*[:\-]?[ \t]*([^\n\r]+)`)
	LicenseNumber    = ci(`license\s+(?:number|no\.?|#)[ \t]*[:\-#]?[ \t]*([a-z0-9][a-z0-9\-/]*)`)

	FinancialStatementTypes = []Field{
		field("balance_sheet", `balance\s+sheet`),
		field("profit_and_loss", `profit\s+(?:and|&)\s+loss`),
		field("income_statement", `income\s+statement`),
		field("cash_flow", `cash\s+flows?`),
		field("financial_statement", `financial\s+statement`),
	}
	PFSIdentity = ci(`sba\s+form\s+413|personal\s+financial\s+statement`)

	FinancialProjection = ci(`(?:projection|forecast|budget).*(?:\$|revenue|income|profit|cash\s+flow)`)
	UseOfFundsPhrase    = ci(`use\s+of\s+(?:funds|proceeds)|loan\s+proceeds`)

	// Only an explicit total counts; a bare "loan amount" line is usually a
	// line item.
	TotalLoanAmount     = ci(`total\s+(?:loan\s+)?amount`)
	totalLoanAmountLine = ci(`total\s+(?:loan\s+)?amount[^$\n]*(\$\s?\d[\d,]*(?:\.\d{2})?)`)

	StateFiling = ci(`secretary\s+of\s+state|filed\s+(?:with|in\s+the\s+office)|\bstate\s+of\s+[a-z]+`)
)

// FindDate returns the first parseable date captured by the patterns, tried
// in order. found reports whether any pattern matched at all, so callers can
// tell an unreadable date from a missing one.
func FindDate(text string, patterns []*regexp.Regexp) (date time.Time, raw string, found bool) {
	for _, pattern := range patterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			found = true
			if parsed, ok := ParseDate(match[1]); ok {
				return parsed, match[1], true
			}
			if raw == "" {
				raw = match[1]
			}
		}
	}
	return time.Time{}, raw, found
}

// TaxYear prefers an explicitly labelled year and falls back to the first
// four-digit year on the page.
func TaxYear(text string) (int, bool) {
	if match := taxYearLabelled.FindStringSubmatch(text); match != nil {
		return atoi(match[1]), true
	}
	if match := taxYearBare.FindStringSubmatch(text); match != nil {
		return atoi(match[1]), true
	}
	return 0, false
}

func BusinessName(text string) (string, bool) {
	match := BusinessNameLine.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	name := strings.TrimSpace(strings.Trim(match[1], " \t:-_"))
	if name == "" {
		return "", false
	}
	return name, true
}

func LicenseNumberValue(text string) (string, bool) {
	match := LicenseNumber.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return strings.ToUpper(match[1]), true
}

// Amounts returns every currency token in text, in reading order.
func Amounts(text string) []string {
	return CurrencyAmount.FindAllString(text, -1)
}

// TotalLoanAmountValue returns the dollar figure on the total loan amount line.
func TotalLoanAmountValue(text string) (float64, bool) {
	match := totalLoanAmountLine.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	return ParseAmount(match[1])
}

// FirstField returns the name of the first field whose pattern matches.
func FirstField(fields []Field, text string) (string, bool) {
	for _, f := range fields {
		if f.Pattern.MatchString(text) {
			return f.Name, true
		}
	}
	return "", false
}

func atoi(digits string) int {
	n, _ := strconv.Atoi(digits)
	return n
}
