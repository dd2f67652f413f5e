package domain

import "strings"

// Category is the closed set of loan document types the engine recognizes.
type Category string

const (
	CategoryBusinessLicense            Category = "business_license"
	CategoryTaxReturn                  Category = "tax_return"
	CategoryFinancialStatement         Category = "financial_statement"
	CategoryPersonalFinancialStatement Category = "personal_financial_statement"
	CategoryBusinessPlan               Category = "business_plan"
	CategoryUseOfFunds                 Category = "use_of_funds"
	CategoryArticlesOfIncorporation    Category = "articles_of_incorporation"
	CategoryUnknown                    Category = "unknown"
)

// Declaration order is the classifier's tie-break order. Reordering this
// array changes classification results.
var knownCategories = [...]Category{
	CategoryBusinessLicense,
	CategoryTaxReturn,
	CategoryFinancialStatement,
	CategoryPersonalFinancialStatement,
	CategoryBusinessPlan,
	CategoryUseOfFunds,
	CategoryArticlesOfIncorporation,
}

var categoryTitles = map[Category]string{
	CategoryBusinessLicense:            "Business License",
	CategoryTaxReturn:                  "Tax Return",
	CategoryFinancialStatement:         "Financial Statement",
	CategoryPersonalFinancialStatement: "Personal Financial Statement",
	CategoryBusinessPlan:               "Business Plan",
	CategoryUseOfFunds:                 "Use of Funds",
	CategoryArticlesOfIncorporation:    "Articles of Incorporation",
	CategoryUnknown:                    "Unknown",
}

// Categories returns every known category in declaration order, without Unknown.
func Categories() []Category {
	out := make([]Category, len(knownCategories))
	copy(out, knownCategories[:])
	return out
}

func (c Category) String() string {
	return string(c)
}

// Known reports whether c is one of the seven supported document types.
func (c Category) Known() bool {
	for _, known := range knownCategories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) Title() string {
	if title, ok := categoryTitles[c]; ok {
		return title
	}
	return categoryTitles[CategoryUnknown]
}

func ParseCategory(raw string) (Category, bool) {
	candidate := Category(strings.ToLower(strings.TrimSpace(raw)))
	if candidate == CategoryUnknown || candidate.Known() {
		return candidate, true
	}
	return CategoryUnknown, false
}

// CategoryHint is the upload bucket a user picked. It is informational and
// never decides classification.
type CategoryHint string

const (
	HintNone      CategoryHint = ""
	HintBusiness  CategoryHint = "business"
	HintFinancial CategoryHint = "financial"
	HintPersonal  CategoryHint = "personal"
	HintLoan      CategoryHint = "loan"
)

func ParseCategoryHint(raw string) (CategoryHint, bool) {
	switch hint := CategoryHint(strings.ToLower(strings.TrimSpace(raw))); hint {
	case HintNone, HintBusiness, HintFinancial, HintPersonal, HintLoan:
		return hint, true
	default:
		return HintNone, false
	}
}
