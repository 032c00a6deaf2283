// Package pipeline is the caller-facing surface of the enrichment and
// matching flow. It wires the completion gateway, the sanitizer, the fallback
// generator and the profile store together, and owns the error policy:
// recoverable gateway failures are masked by the fallback for matching, Q&A
// and search, and surfaced verbatim for profile enrichment.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/scholar-match/internal/ai"
	"github.com/spigell/scholar-match/internal/fallback"
	"github.com/spigell/scholar-match/internal/match"
	"github.com/spigell/scholar-match/internal/sanitize"
	"github.com/spigell/scholar-match/internal/store"
	"go.uber.org/zap"
)

// ErrNotFound reports that no stored candidate matches the given id.
var ErrNotFound = errors.New("candidate not found")

// DefaultPaperLimit applies when enrichment is requested without a limit.
const DefaultPaperLimit = 10

// RankedMatch pairs a candidate with its match assessment in the ranked
// result list of a fan-out.
type RankedMatch struct {
	Candidate ai.Candidate    `json:"candidate"`
	Match     *ai.MatchResult `json:"match"`
	Skills    string          `json:"extractedSkills,omitempty"`
}

// Pipeline exposes the matching and enrichment operations.
type Pipeline struct {
	assistant ai.Assistant
	engine    *match.Engine
	profiles  *store.Store
	logger    *zap.Logger
}

// New creates a Pipeline around a gateway and a profile store.
func New(assistant ai.Assistant, profiles *store.Store, logger *zap.Logger) (*Pipeline, error) {
	if assistant == nil {
		return nil, errors.New("assistant is required")
	}
	if profiles == nil {
		return nil, errors.New("profile store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		assistant: assistant,
		engine:    match.NewEngine(assistant, logger),
		profiles:  profiles,
		logger:    logger,
	}, nil
}

// Store exposes the underlying profile store.
func (p *Pipeline) Store() *store.Store { return p.profiles }

// fallbackEvaluator masks recoverable gateway failures with the deterministic
// generator, so matching failures stay invisible to the end user except via
// the UsedFallback flag.
type fallbackEvaluator struct {
	engine *match.Engine
	logger *zap.Logger
}

func (f *fallbackEvaluator) Evaluate(ctx context.Context, candidate *ai.Candidate, jobText string) (*ai.MatchResult, error) {
	result, err := f.engine.Evaluate(ctx, candidate, jobText)
	if err == nil {
		return result, nil
	}
	if !ai.Recoverable(err) {
		return nil, err
	}

	f.logger.Warn("substituting fallback match",
		zap.String("candidate", candidate.Name),
		zap.Error(err),
	)
	return fallback.Match(match.Document(candidate), jobText), nil
}

func (f *fallbackEvaluator) ExtractSkills(ctx context.Context, candidate *ai.Candidate) (string, error) {
	return f.engine.ExtractSkills(ctx, candidate)
}

// MatchOne scores a single candidate against a job description. The candidate
// is either inline or looked up by id; an unknown id yields ErrNotFound.
func (p *Pipeline) MatchOne(ctx context.Context, candidateID string, inline *ai.Candidate, jobText string) (*ai.MatchResult, error) {
	candidate := inline
	if candidate == nil {
		stored, ok := p.profiles.GetByID(strings.TrimSpace(candidateID))
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, candidateID)
		}
		candidate = &stored.Candidate
	}

	evaluator := &fallbackEvaluator{engine: p.engine, logger: p.logger}
	return evaluator.Evaluate(ctx, candidate, jobText)
}

// MatchAll fans the matching engine out across every stored candidate and
// returns the survivors ranked by score descending. Per-candidate failures
// are logged and excluded; MatchAll itself never fails on them.
func (p *Pipeline) MatchAll(ctx context.Context, jobText string) ([]RankedMatch, error) {
	if strings.TrimSpace(jobText) == "" {
		return nil, errors.New("job text is required")
	}

	stored := p.profiles.GetAll()
	candidates := make([]ai.Candidate, len(stored))
	for i, profile := range stored {
		candidates[i] = profile.Candidate
	}

	p.logger.Info("starting match fan-out",
		zap.Int("candidates", len(candidates)),
	)

	evaluator := &fallbackEvaluator{engine: p.engine, logger: p.logger}
	outcomes := match.FanOut(ctx, evaluator, candidates, jobText, p.logger)

	ranked := match.Rank(outcomes)
	results := make([]RankedMatch, len(ranked))
	for i, outcome := range ranked {
		results[i] = RankedMatch{
			Candidate: outcome.Candidate,
			Match:     outcome.Result,
			Skills:    outcome.Skills,
		}
	}

	p.logger.Info("match fan-out finished",
		zap.Int("analyzed", len(candidates)),
		zap.Int("ranked", len(results)),
		zap.Int("excluded", len(candidates)-len(results)),
	)

	return results, nil
}

// FetchSanitized fetches a researcher profile from the completion service and
// sanitizes it without persisting. There is no fallback here: upstream and
// validation failures surface with their diagnostic detail, since a
// fabricated profile could be persisted and presented as fact.
func (p *Pipeline) FetchSanitized(ctx context.Context, name, affiliation string, limit int) (*ai.RawProfile, error) {
	if limit <= 0 {
		limit = DefaultPaperLimit
	}
	limit = ai.ClampPaperLimit(limit)

	raw, err := p.assistant.FetchProfile(ctx, name, affiliation, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch profile for %q: %w", name, err)
	}

	p.logger.Info("fetched researcher profile",
		zap.String("researcher", raw.Name),
		zap.Int("papers", len(raw.Papers)),
	)

	return sanitize.Profile(raw, limit, p.logger)
}

// SaveProfile persists a sanitized profile, superseding any previous version
// under the same identity key.
func (p *Pipeline) SaveProfile(profile *ai.RawProfile) store.StoredProfile {
	stored := p.profiles.Upsert(ai.Candidate{
		Name:        profile.Name,
		Affiliation: profile.Affiliation,
		Summary:     profile.Summary,
		Papers:      profile.Papers,
	})

	p.logger.Info("saved researcher profile",
		zap.String("id", stored.ID),
		zap.Int("verified_papers", len(stored.Papers)),
	)

	return stored
}

// EnrichProfile fetches, sanitizes and persists a researcher profile in one
// step.
func (p *Pipeline) EnrichProfile(ctx context.Context, name, affiliation string, limit int) (*store.StoredProfile, error) {
	sanitized, err := p.FetchSanitized(ctx, name, affiliation, limit)
	if err != nil {
		return nil, err
	}

	stored := p.SaveProfile(sanitized)
	return &stored, nil
}

// Seed loads the built-in researcher fixtures into the store.
func (p *Pipeline) Seed() int {
	fixtures := store.SeedProfiles()
	for _, candidate := range fixtures {
		p.profiles.Upsert(candidate)
	}
	return len(fixtures)
}

// Ask answers a free-form question about a candidate, substituting the
// fallback on recoverable gateway failures.
func (p *Pipeline) Ask(ctx context.Context, question string, candidate *ai.QAContext) (*ai.QAResult, error) {
	result, err := p.assistant.AnswerQuestion(ctx, question, candidate)
	if err == nil {
		return result, nil
	}
	if !ai.Recoverable(err) {
		return nil, err
	}

	p.logger.Warn("substituting fallback answer", zap.Error(err))
	return fallback.Answer(question, candidate), nil
}

// Search finds literature for a query, substituting the fallback on
// recoverable gateway failures. A positive limit caps the returned papers.
func (p *Pipeline) Search(ctx context.Context, query string, limit int) (*ai.SearchResult, error) {
	result, err := p.assistant.SearchLiterature(ctx, query)
	if err != nil {
		if !ai.Recoverable(err) {
			return nil, err
		}
		p.logger.Warn("substituting fallback search", zap.Error(err))
		result = fallback.Search(query)
	}

	if limit > 0 && len(result.Papers) > limit {
		trimmed := *result
		trimmed.Papers = result.Papers[:limit]
		return &trimmed, nil
	}

	return result, nil
}
