package validation

import (
	"fmt"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
	"github.com/kirillkom/loan-document-vetting/internal/core/patterns"
)

const minArticlesFields = 3

// ArticlesOfIncorporation scores formation documents. Like UseOfFunds it is
// gated on confidence alone.
func (s *Set) ArticlesOfIncorporation(text string) domain.VettingResult {
	card := s.card(domain.CategoryArticlesOfIncorporation)

	_, ok := card.rule.FirstIdentity(text)
	card.check(ok, 30, 25, "document does not appear to be articles of incorporation or organization")

	found := card.coverage(text, 50)
	if len(found) < minArticlesFields {
		card.flag(fmt.Sprintf("missing required incorporation information: found %d of %d fields",
			len(found), len(card.rule.RequiredFields)))
	}

	filed := patterns.StateFiling.MatchString(text)
	card.record("state_filing", filed)
	card.check(filed, 20, 15, "state filing information not clearly visible")

	return card.result()
}
