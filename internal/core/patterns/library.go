// Package patterns is the static knowledge base of the vetting engine: per
// category identity patterns, required fields, filename hints and the
// numeric/temporal rules validators apply. Everything here is compiled once
// and never mutated, so a Library can be shared by any number of goroutines.
package patterns

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
)

// ConfidenceOnly disables the issue-count gate: the verdict depends on the
// confidence threshold alone.
const ConfidenceOnly = -1

// Field is a named pattern whose match means a piece of required information
// is present.
type Field struct {
	Name    string
	Pattern *regexp.Regexp
}

// Hint is a case-insensitive filename substring. Unless lists substrings that
// veto the hint when present in the same filename.
type Hint struct {
	Token  string
	Unless []string
}

// Recency bounds how old a dated document may be. A zero value disables the rule.
type Recency struct {
	Years  int
	Months int
	Days   int
}

func (r Recency) Enabled() bool {
	return r.Years > 0 || r.Months > 0 || r.Days > 0
}

// Stale reports whether a document dated at date is older than the window
// relative to now. Both are compared as calendar dates.
func (r Recency) Stale(date, now time.Time) bool {
	if !r.Enabled() {
		return false
	}
	limit := StartOfDay(date).AddDate(r.Years, r.Months, r.Days)
	return limit.Before(StartOfDay(now))
}

// Rule is everything the engine knows about one category.
type Rule struct {
	Category domain.Category

	FilenameHints []Hint
	// TextHints are strong markers that count as a filename-level hint even
	// though they are found in the text.
	TextHints []*regexp.Regexp

	IdentityPatterns []*regexp.Regexp
	// IdentityExclusions veto the text fallback of the classifier for this
	// category only. Validators ignore them.
	IdentityExclusions []*regexp.Regexp
	RequiredFields     []Field

	MustBeSigned     bool
	MustBeUnexpired  bool
	Recency          Recency
	MustAddUpToTotal bool
	MinLength        int

	Threshold float64
	Tolerance int
}

// MatchesFilename expects a name already folded by NormalizeFilename.
func (r Rule) MatchesFilename(name string) bool {
	for _, hint := range r.FilenameHints {
		if !strings.Contains(name, hint.Token) {
			continue
		}
		vetoed := false
		for _, unless := range hint.Unless {
			if strings.Contains(name, unless) {
				vetoed = true
				break
			}
		}
		if !vetoed {
			return true
		}
	}
	return false
}

func (r Rule) MatchesTextHint(text string) bool {
	return anyMatch(r.TextHints, text)
}

// FirstIdentity returns the first identity span found in text, following the
// declaration order of IdentityPatterns.
func (r Rule) FirstIdentity(text string) (string, bool) {
	for _, pattern := range r.IdentityPatterns {
		if span := pattern.FindString(text); span != "" {
			return span, true
		}
	}
	return "", false
}

// ClaimsText reports whether the classifier's text fallback should pick this
// category: an identity pattern matches and no exclusion does.
func (r Rule) ClaimsText(text string) bool {
	if _, ok := r.FirstIdentity(text); !ok {
		return false
	}
	return !anyMatch(r.IdentityExclusions, text)
}

// Covered returns the names of required fields present in text, in declaration order.
func (r Rule) Covered(text string) []string {
	found := make([]string, 0, len(r.RequiredFields))
	for _, field := range r.RequiredFields {
		if field.Pattern.MatchString(text) {
			found = append(found, field.Name)
		}
	}
	return found
}

// GatesOnIssues reports whether the issue count takes part in the verdict.
func (r Rule) GatesOnIssues() bool {
	return r.Tolerance != ConfidenceOnly
}

// Library is the read-only lookup over the rule table.
type Library struct {
	rules map[domain.Category]Rule
}

// New returns a Library over the built-in rule table. The table is compiled
// once per process; every Library shares it.
func New() *Library {
	return &Library{rules: defaultRules}
}

// RulesFor returns the rule of a known category. Asking for Unknown or any
// unregistered category is a programming error and panics.
func (l *Library) RulesFor(category domain.Category) Rule {
	rule, ok := l.rules[category]
	if !ok {
		panic(fmt.Sprintf("patterns: no rules registered for category %q", category))
	}
	return rule
}

func (l *Library) Lookup(category domain.Category) (Rule, bool) {
	rule, ok := l.rules[category]
	return rule, ok
}

// NormalizeFilename lowercases a filename and folds common separators to
// spaces so "use_of_funds.pdf" matches the hint "use of funds".
func NormalizeFilename(name string) string {
	folded := strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', '.', '/', '\\':
			return ' '
		default:
			return r
		}
	}, strings.ToLower(name))
	return strings.Join(strings.Fields(folded), " ")
}

func anyMatch(patterns []*regexp.Regexp, text string) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

func ci(expr string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + expr)
}

func field(name, expr string) Field {
	return Field{Name: name, Pattern: ci(expr)}
}

func all(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		out = append(out, ci(expr))
	}
	return out
}

func hints(tokens ...string) []Hint {
	out := make([]Hint, 0, len(tokens))
	for _, token := range tokens {
		out = append(out, Hint{Token: token})
	}
	return out
}

// vetoed builds hints that all share the same Unless tokens.
func vetoed(unless []string, tokens ...string) []Hint {
	out := hints(tokens...)
	for i := range out {
		out[i].Unless = unless
	}
	return out
}
