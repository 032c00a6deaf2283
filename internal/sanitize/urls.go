package sanitize

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spigell/scholar-match/internal/ai"
)

const scholarSearchURL = "https://scholar.google.com/scholar?q=%s"

// RepairURL returns a navigable link for a paper. Empty, generic-search,
// placeholder and syntactically invalid URLs are replaced with a literature
// search built from the quoted title plus the researcher's name. The result
// may point at a search rather than a direct citation, but it always parses.
func RepairURL(paper ai.Paper, researcherName string) string {
	raw := strings.TrimSpace(paper.URL)

	if !isBadURL(raw) {
		return raw
	}

	query := url.QueryEscape(fmt.Sprintf("%q %s", paper.Title, researcherName))
	return fmt.Sprintf(scholarSearchURL, query)
}

func isBadURL(raw string) bool {
	if raw == "" {
		return true
	}
	if strings.Contains(raw, "search?q=") || strings.Contains(raw, "example") {
		return true
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return true
	}
	return parsed.Scheme == "" || parsed.Host == ""
}

func repairURLs(researcherName string, papers []ai.Paper) []ai.Paper {
	repaired := make([]ai.Paper, len(papers))
	for i, paper := range papers {
		paper.URL = RepairURL(paper, researcherName)
		repaired[i] = paper
	}
	return repaired
}
