package sanitize

import (
	"strings"

	"github.com/spigell/scholar-match/internal/ai"
)

// Bare-lastname matching below this length produces too many false positives
// ("Li", "Wang") and is rejected outright.
const minBareLastNameLen = 5

// Authored reports whether the researcher's name plausibly appears in a
// paper's free-text author list. Three tiers, strictest first: exact full-name
// substring; "lastname, F" / "F. Lastname" / "F Lastname" initial patterns;
// bare lastname substring for sufficiently long surnames only.
func Authored(authors, researcherName string) bool {
	authorsLower := strings.ToLower(authors)
	nameLower := strings.ToLower(strings.TrimSpace(researcherName))

	if nameLower == "" {
		return false
	}

	if strings.Contains(authorsLower, nameLower) {
		return true
	}

	parts := strings.Fields(nameLower)
	if len(parts) < 2 {
		return false
	}

	firstName := parts[0]
	lastName := parts[len(parts)-1]
	firstInitial := firstName[:1]

	patterns := []string{
		lastName + ", " + firstInitial,
		firstInitial + ". " + lastName,
		firstInitial + " " + lastName,
	}
	for _, pattern := range patterns {
		if strings.Contains(authorsLower, pattern) {
			return true
		}
	}

	if len(lastName) >= minBareLastNameLen && strings.Contains(authorsLower, lastName) {
		return true
	}

	return false
}

func filterByAuthorship(researcherName string, papers []ai.Paper) []ai.Paper {
	kept := make([]ai.Paper, 0, len(papers))
	for _, paper := range papers {
		if Authored(paper.Authors, researcherName) {
			kept = append(kept, paper)
		}
	}
	return kept
}
