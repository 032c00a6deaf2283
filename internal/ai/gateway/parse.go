package gateway

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spigell/scholar-match/internal/ai"
)

// Replies are parsed into loose maps first: the upstream model does not always
// honour the requested types, so every field goes through a coercion step.
// Missing fields take documented defaults (numbers 0, strings empty, arrays
// empty) rather than null.

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

func coerceStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := coerceString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func coercePaper(v any) (ai.Paper, bool) {
	fields, ok := v.(map[string]any)
	if !ok {
		return ai.Paper{}, false
	}

	paper := ai.Paper{
		Title:    coerceString(fields["title"]),
		Authors:  coerceString(fields["authors"]),
		Abstract: coerceString(fields["abstract"]),
		URL:      coerceString(fields["url"]),
		Year:     coerceString(fields["year"]),
	}

	// A paper without a title is unusable downstream.
	if paper.Title == "" {
		return ai.Paper{}, false
	}
	return paper, true
}

func coercePapers(v any) []ai.Paper {
	items, ok := v.([]any)
	if !ok {
		return []ai.Paper{}
	}

	papers := make([]ai.Paper, 0, len(items))
	for _, item := range items {
		if paper, ok := coercePaper(item); ok {
			papers = append(papers, paper)
		}
	}
	return papers
}

func coerceFoundPapers(v any) []ai.FoundPaper {
	items, ok := v.([]any)
	if !ok {
		return []ai.FoundPaper{}
	}

	papers := make([]ai.FoundPaper, 0, len(items))
	for _, item := range items {
		paper, ok := coercePaper(item)
		if !ok {
			continue
		}

		relevance := 0.0
		if fields, ok := item.(map[string]any); ok {
			relevance = clampScore(coerceFloat(fields["relevance"]))
		}

		papers = append(papers, ai.FoundPaper{Paper: paper, Relevance: relevance})
	}
	return papers
}

func clampScore(score float64) float64 {
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if score > maxMatchScore {
		return maxMatchScore
	}
	return score
}

func normalizeConfidence(confidence string) string {
	switch strings.ToLower(strings.TrimSpace(confidence)) {
	case ai.ConfidenceHigh:
		return ai.ConfidenceHigh
	case ai.ConfidenceLow:
		return ai.ConfidenceLow
	default:
		return ai.ConfidenceMedium
	}
}
