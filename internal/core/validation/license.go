package validation

import (
	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
	"github.com/kirillkom/loan-document-vetting/internal/core/patterns"
)

// BusinessLicense scores a business license. An expiration date before now
// always fails the document; dates parse to midnight UTC, so a license
// expiring today is already expired once the day has started.
func (s *Set) BusinessLicense(text string) domain.VettingResult {
	card := s.card(domain.CategoryBusinessLicense)
	card.coverage(text, 40)

	if number, ok := patterns.LicenseNumberValue(text); ok {
		card.record("license_number", number)
	}

	expires, raw, _ := patterns.FindDate(text, patterns.ExpirationDate)
	switch {
	case expires.IsZero():
		if raw != "" {
			card.record("expiration_date_raw", raw)
		}
		card.penalize(20, "expiration date not clearly visible or missing")
	case expires.Before(s.now()):
		card.record("expiration_date", expires)
		card.record("expired", true)
		card.penalize(30, "business license has expired")
	default:
		card.record("expiration_date", expires)
		card.record("expired", false)
		card.award(30)
	}

	card.check(textLength(text) >= card.rule.MinLength, 20, 20,
		"poor quality extraction: too little text to verify the license")

	name, ok := patterns.BusinessName(text)
	if ok {
		card.record("business_name", name)
	}
	card.check(ok, 10, 10, "business name not clearly visible")

	return card.result()
}
