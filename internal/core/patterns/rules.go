package patterns

import "github.com/kirillkom/loan-document-vetting/internal/core/domain"

// defaultRules is the SBA loan checklist. Threshold and tolerance values are
// the acceptance contract of each category; change them only together with
// the validator tests.
var defaultRules = map[domain.Category]Rule{
	domain.CategoryBusinessLicense: {
		Category:      domain.CategoryBusinessLicense,
		FilenameHints: hints("license"),
		IdentityPatterns: all(
			`business\s+license`,
			`license\s+to\s+operate`,
			`professional\s+license`,
			`state\s+license`,
		),
		RequiredFields: []Field{
			field("license_number", `license\s+(?:number|no\.?|#)`),
			field("expiration_date", `expiration\s+date|\bexpires\b`),
			field("issue_date", `issue\s+date|date\s+issued|issued\s+on`),
			field("business_name", `business\s+name`),
		},
		MustBeUnexpired: true,
		MinLength:       100,
		Threshold:       70,
		Tolerance:       0,
	},
	domain.CategoryTaxReturn: {
		Category:      domain.CategoryTaxReturn,
		FilenameHints: hints("tax", "1040", "1120", "1065"),
		IdentityPatterns: all(
			`form\s+1040`,
			`form\s+1120s?`,
			`form\s+1065`,
			`tax\s+return`,
		),
		RequiredFields: []Field{
			field("taxpayer_identification", `taxpayer\s+identification|employer\s+identification|social\s+security\s+number`),
			field("adjusted_gross_income", `adjusted\s+gross\s+income`),
			field("total_income", `total\s+income`),
			field("signature", `\bsignature\b`),
			field("date_signed", `date\s+signed|\bdate\b`),
		},
		MustBeSigned: true,
		Recency:      Recency{Years: 3},
		MinLength:    500,
		Threshold:    70,
		Tolerance:    0,
	},
	domain.CategoryFinancialStatement: {
		Category: domain.CategoryFinancialStatement,
		// "personal" hands every statement-like filename to the personal
		// financial statement.
		FilenameHints: vetoed([]string{"personal"},
			"financial", "balance", "profit", "p&l", "income statement", "cash flow"),
		IdentityPatterns: all(
			`balance\s+sheet`,
			`profit\s+(?:and|&)\s+loss`,
			`income\s+statement`,
			`(?:statement\s+of\s+)?cash\s+flows?`,
			`financial\s+statement`,
		),
		IdentityExclusions: all(
			`personal\s+financial\s+statement`,
			`form\s+413`,
			`business\s+plan`,
			`use\s+of\s+funds`,
		),
		RequiredFields: []Field{
			field("total_assets", `total\s+assets`),
			field("total_liabilities", `total\s+liabilities`),
			field("net_income", `net\s+income|net\s+profit`),
			field("revenue", `revenue|\bsales\b`),
			field("date", `\bdate\b|as\s+of|period\s+end(?:ing|ed)`),
		},
		Recency:   Recency{Months: 12},
		Threshold: 65,
		Tolerance: 1,
	},
	domain.CategoryPersonalFinancialStatement: {
		Category:      domain.CategoryPersonalFinancialStatement,
		FilenameHints: hints("personal", "413", "pfs"),
		TextHints:     all(`form\s+413`),
		IdentityPatterns: all(
			`sba\s+form\s+413`,
			`personal\s+financial\s+statement`,
		),
		RequiredFields: []Field{
			field("name", `\bname\b`),
			field("social_security", `social\s+security`),
			field("total_assets", `total\s+assets`),
			field("total_liabilities", `total\s+liabilities`),
			field("net_worth", `net\s+worth`),
			field("signature", `\bsignature\b`),
			field("date", `\bdate\b`),
		},
		MustBeSigned: true,
		Recency:      Recency{Days: 90},
		Threshold:    70,
		Tolerance:    0,
	},
	domain.CategoryBusinessPlan: {
		Category: domain.CategoryBusinessPlan,
		FilenameHints: []Hint{
			{Token: "business plan"},
			{Token: "plan", Unless: []string{"funds", "proceeds"}},
		},
		IdentityPatterns: all(
			`business\s+plan`,
			`executive\s+summary`,
			`market\s+analysis`,
			`financial\s+projections`,
		),
		RequiredFields: []Field{
			field("executive_summary", `executive\s+summary`),
			field("business_description", `(?:business|company)\s+(?:description|overview)`),
			field("market_analysis", `market\s+(?:analysis|research)`),
			field("organization_management", `organi[sz]ation\s+(?:and|&)\s+management|management\s+(?:team|structure|experience)`),
			field("financial_projections", `financial\s+(?:projections|forecasts?)`),
			field("use_of_funds", `use\s+of\s+(?:funds|proceeds)`),
		},
		MinLength: 2000,
		Threshold: 60,
		Tolerance: 1,
	},
	domain.CategoryUseOfFunds: {
		Category:      domain.CategoryUseOfFunds,
		FilenameHints: hints("use of funds", "use of proceeds", "loan purpose", "sources and uses"),
		IdentityPatterns: all(
			`use\s+of\s+(?:funds|proceeds)`,
			`loan\s+proceeds`,
			`(?:purpose\s+of\s+(?:the\s+)?loan|loan\s+purpose)`,
		),
		RequiredFields: []Field{
			field("working_capital", `working\s+capital`),
			field("equipment", `equipment`),
			field("real_estate", `real\s+estate|property\s+purchase`),
			field("debt", `debt\s+(?:refinanc\w*|repayment|payoff)|refinanc\w*|\bdebt\b`),
			field("inventory", `inventory`),
		},
		MustAddUpToTotal: true,
		Threshold:        65,
		Tolerance:        ConfidenceOnly,
	},
	domain.CategoryArticlesOfIncorporation: {
		Category:      domain.CategoryArticlesOfIncorporation,
		FilenameHints: hints("articles", "incorporation", "organization", "operating agreement"),
		IdentityPatterns: all(
			`articles\s+of\s+(?:incorporation|organization)`,
			`certificate\s+of\s+(?:incorporation|formation)`,
			`operating\s+agreement`,
		),
		RequiredFields: []Field{
			field("entity_name", `(?:business|company|corporate|entity)\s+name|name\s+of\s+(?:the\s+)?(?:corporation|company)`),
			field("state_of_incorporation", `state\s+of\s+(?:incorporation|organization|formation)`),
			field("registered_agent", `registered\s+agent|agent\s+for\s+service`),
			field("filing_date", `fil(?:e|ing)\s+date|date\s+(?:of\s+)?fil(?:ed|ing)`),
			field("file_number", `(?:file|entity|document)\s+(?:number|no\.?|#)`),
			field("effective_date", `effective\s+date`),
			field("incorporator", `incorporators?|organizers?`),
		},
		Threshold: 70,
		Tolerance: ConfidenceOnly,
	},
}
