// Package fallback produces deterministic, keyword-driven substitutes for
// gateway results when the completion service is unreachable or returns
// unparseable output. Every result is tagged UsedFallback so telemetry can
// tell synthetic reasoning from genuine upstream output. Profile fetching has
// no fallback: a fabricated profile is worse than an explicit failure.
package fallback

import (
	"fmt"
	"strings"

	"github.com/spigell/scholar-match/internal/ai"
)

const (
	baseScore = 70
	maxScore  = 96

	strongScoreThreshold = 85
	gapScoreThreshold    = 90

	minAlignmentPoints = 3
	maxAlignmentPoints = 5

	fillerAlignment = "Technical expertise relevant to the role requirements"
)

type scoreRule struct {
	terms  []string
	points float64
}

// A rule fires when any of its terms appears in both the job text and the
// candidate text. The tables are fixed, so identical inputs always yield the
// same score and alignment set.
var scoreRules = []scoreRule{
	{terms: []string{"ai safety", "safety", "alignment"}, points: 10},
	{terms: []string{"machine learning", "ml", "deep learning"}, points: 8},
	{terms: []string{"research", "phd", "publication"}, points: 5},
	{terms: []string{"scalable", "production", "deployment"}, points: 7},
	{terms: []string{"interpretability", "explainability"}, points: 6},
	{terms: []string{"oversight", "supervision", "monitoring"}, points: 8},
}

type alignmentRule struct {
	terms  []string
	phrase string
}

var alignmentRules = []alignmentRule{
	{
		terms:  []string{"ai safety", "safety"},
		phrase: "Strong research focus on AI safety aligns perfectly with role requirements",
	},
	{
		terms:  []string{"scalable", "oversight"},
		phrase: "Demonstrated expertise in scalable oversight mechanisms",
	},
	{
		terms:  []string{"research", "publication"},
		phrase: "Proven track record with peer-reviewed publications in top venues",
	},
	{
		terms:  []string{"team", "collaboration"},
		phrase: "Evidence of collaborative research with cross-functional teams",
	},
	{
		terms:  []string{"production", "industry"},
		phrase: "Research has practical applications in production systems",
	},
}

var staticCitations = []ai.Citation{
	{URL: "https://scholar.google.com/citations", Title: "Google Scholar - Research Citations"},
	{URL: "https://arxiv.org", Title: "arXiv - Research Papers"},
}

// Match computes an offline match assessment from the fixed keyword tables.
func Match(doc *ai.Document, jobText string) *ai.MatchResult {
	jobLower := strings.ToLower(jobText)
	candidateLower := candidateText(doc)

	score := Score(jobText, candidateLower)

	alignment := make([]string, 0, maxAlignmentPoints)
	for _, rule := range alignmentRules {
		if len(alignment) == maxAlignmentPoints {
			break
		}
		if containsAny(jobLower, rule.terms) {
			alignment = append(alignment, rule.phrase)
		}
	}
	for len(alignment) < minAlignmentPoints {
		alignment = append(alignment, fillerAlignment)
	}

	var gaps []string
	if score < gapScoreThreshold && score < strongScoreThreshold && !strings.Contains(jobLower, "industry") {
		gaps = append(gaps, "Limited explicit industry experience mentioned in publications")
	}

	quality := "good"
	if score >= strongScoreThreshold {
		quality = "strong"
	}

	var focus string
	if doc != nil && len(doc.Topics) > 0 {
		topics := doc.Topics
		if len(topics) > 3 {
			topics = topics[:3]
		}
		focus = fmt.Sprintf(", particularly in areas of %s", strings.Join(topics, ", "))
	}

	return &ai.MatchResult{
		Score:     score,
		Alignment: alignment,
		Gaps:      gaps,
		Relevance: fmt.Sprintf(
			"This work demonstrates %s alignment with the job requirements%s. The research methodology and technical depth are well-suited for the role.",
			quality, focus,
		),
		Citations:    staticCitations,
		UsedFallback: true,
	}
}

// Score computes the keyword-overlap score for a job/candidate text pair.
// Deterministic given the fixed rule table: base 70, additive points per
// matched rule, capped at 96.
func Score(jobText, candidateText string) float64 {
	jobLower := strings.ToLower(jobText)
	candidateLower := strings.ToLower(candidateText)

	score := float64(baseScore)
	for _, rule := range scoreRules {
		for _, term := range rule.terms {
			if strings.Contains(jobLower, term) && strings.Contains(candidateLower, term) {
				score += rule.points
				break
			}
		}
	}

	if score > maxScore {
		score = maxScore
	}
	return score
}

// Answer produces an offline answer about a candidate. It never claims
// knowledge it cannot have; confidence is always low.
func Answer(question string, candidate *ai.QAContext) *ai.QAResult {
	name := "the candidate"
	paperCount := 0
	if candidate != nil {
		if trimmed := strings.TrimSpace(candidate.Name); trimmed != "" {
			name = trimmed
		}
		paperCount = len(candidate.Papers)
	}

	answer := fmt.Sprintf(
		"The reasoning service is currently unavailable, so this answer is based on the stored profile only. %s has %d publication(s) on record",
		name, paperCount,
	)
	if candidate != nil && strings.TrimSpace(candidate.Institution) != "" {
		answer += fmt.Sprintf(" and is affiliated with %s", candidate.Institution)
	}
	answer += ". Please retry later for a full analysis of: " + strings.TrimSpace(question)

	return &ai.QAResult{
		Answer:       answer,
		Confidence:   ai.ConfidenceLow,
		Sources:      []string{"Stored profile"},
		UsedFallback: true,
	}
}

// Search returns an empty result set: inventing papers offline would defeat
// the authorship guarantees downstream.
func Search(query string) *ai.SearchResult {
	_ = query
	return &ai.SearchResult{
		Papers:       []ai.FoundPaper{},
		UsedFallback: true,
	}
}

func candidateText(doc *ai.Document) string {
	if doc == nil {
		return ""
	}
	parts := []string{doc.Title, doc.Abstract}
	parts = append(parts, doc.Topics...)
	return strings.ToLower(strings.Join(parts, " "))
}

func containsAny(haystack string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}
