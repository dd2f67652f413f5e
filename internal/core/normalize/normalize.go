// Package normalize cleans extracted text before classification.
//
// Pipeline order
// 1 drop invalid UTF-8 bytes
// 2 Unicode NFKC normalization
// 3 remove format characters (zero-width space, BOM, soft hyphen)
// 4 width fold fullwidth forms to ASCII
// 5 unify line endings to \n
// 6 collapse horizontal whitespace runs, keep line breaks
//
// Case is preserved; the pattern library matches case-insensitively.
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
		)
	},
}

// Text returns the normalized form of s.
func Text(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		ns = s
	}

	ns = strings.ReplaceAll(ns, "\r\n", "\n")
	ns = strings.ReplaceAll(ns, "\r", "\n")
	return collapseSpaces(ns)
}

// collapseSpaces folds runs of horizontal whitespace to one space and trims
// every line. Blank lines are kept at most once in a row.
func collapseSpaces(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.FieldsFunc(line, isHorizontalSpace), " ")
		if line == "" {
			if blank || len(out) == 0 {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func isHorizontalSpace(r rune) bool {
	return r != '\n' && unicode.IsSpace(r)
}
