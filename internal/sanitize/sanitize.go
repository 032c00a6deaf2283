// Package sanitize post-processes a freshly fetched researcher profile before
// it is trusted or persisted: authorship verification, deduplication and URL
// repair, followed by truncation to the caller's limit. Passes run in a fixed
// order; the limit applies to validated papers only.
package sanitize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/scholar-match/internal/ai"
	"go.uber.org/zap"
)

// Step describes the outcome of one sanitization pass.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// ValidationError reports a profile the sanitizer refused to accept. It
// indicates a caller-correctable input problem, not a transient upstream
// condition, so it always surfaces.
type ValidationError struct {
	Name   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("profile validation: %s", e.Reason)
	}
	return fmt.Sprintf("profile validation for %q: %s", e.Name, e.Reason)
}

type pass struct {
	name  string
	apply func(name string, papers []ai.Paper) []ai.Paper
}

var passes = []pass{
	{name: "authorship", apply: filterByAuthorship},
	{name: "dedupe", apply: func(_ string, papers []ai.Paper) []ai.Paper { return Dedupe(papers) }},
	{name: "url_repair", apply: repairURLs},
}

// Profile runs the full pass sequence over a fetched profile and returns a
// sanitized copy. Papers failing authorship are dropped, never repaired; an
// empty surviving set is a validation failure.
func Profile(profile *ai.RawProfile, limit int, logger *zap.Logger) (*ai.RawProfile, error) {
	if profile == nil {
		return nil, errors.New("profile is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	name := strings.TrimSpace(profile.Name)
	if name == "" {
		return nil, &ValidationError{Reason: "candidate name is empty"}
	}

	papers := profile.Papers
	for _, p := range passes {
		initial := len(papers)
		papers = p.apply(name, papers)

		logger.Debug("sanitization pass",
			zap.String("pass", p.name),
			zap.String("researcher", name),
			zap.Int("initial", initial),
			zap.Int("dropped", initial-len(papers)),
			zap.Int("left", len(papers)),
		)
	}

	if len(papers) == 0 {
		return nil, &ValidationError{Name: name, Reason: "no papers passed authorship verification"}
	}

	limit = ai.ClampPaperLimit(limit)
	if len(papers) > limit {
		papers = papers[:limit]
	}

	sanitized := *profile
	sanitized.Name = name
	sanitized.Papers = papers
	return &sanitized, nil
}
