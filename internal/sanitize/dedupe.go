package sanitize

import (
	"strings"
	"unicode"

	"github.com/spigell/scholar-match/internal/ai"
)

// NormalizeTitle lowers a paper title into its comparison form: lowercase,
// punctuation stripped, whitespace collapsed.
func NormalizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Dedupe keeps only the first occurrence of each normalized title, preserving
// order of first appearance. Running it twice yields the same list.
func Dedupe(papers []ai.Paper) []ai.Paper {
	seen := make(map[string]struct{}, len(papers))
	unique := make([]ai.Paper, 0, len(papers))

	for _, paper := range papers {
		normalized := NormalizeTitle(paper.Title)
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		unique = append(unique, paper)
	}

	return unique
}
