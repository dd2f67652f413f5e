// Package classifier maps a filename and extracted text to a document category.
package classifier

import (
	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
	"github.com/kirillkom/loan-document-vetting/internal/core/patterns"
)

type Classifier struct {
	library *patterns.Library
}

func New(library *patterns.Library) *Classifier {
	return &Classifier{library: library}
}

// Classify is total: it always returns a category, Unknown when nothing
// matches. Filename hints win over text because uploaders name files on
// purpose while OCR text carries boilerplate shared between forms.
//
// Every pass walks categories in declaration order and stops at the first
// hit, so overlapping evidence always resolves to the earliest-declared
// category. Reordering domain.Categories changes classification results.
func (c *Classifier) Classify(filename, text string) domain.Category {
	name := patterns.NormalizeFilename(filename)
	for _, category := range domain.Categories() {
		rule := c.library.RulesFor(category)
		if rule.MatchesFilename(name) || rule.MatchesTextHint(text) {
			return category
		}
	}
	for _, category := range domain.Categories() {
		if c.library.RulesFor(category).ClaimsText(text) {
			return category
		}
	}
	return domain.CategoryUnknown
}
