package match

import (
	"context"
	"sort"
	"sync"

	"github.com/spigell/scholar-match/internal/ai"
	"go.uber.org/zap"
)

// Outcome is the tagged result of one candidate evaluation. Failed candidates
// stay in the collected set with their reason, so telemetry and tests can
// assert on why a candidate was excluded, not just that it was.
type Outcome struct {
	Candidate ai.Candidate
	Result    *ai.MatchResult
	Skills    string
	Err       error
}

// Failed reports whether the candidate's evaluation did not produce a result.
func (o Outcome) Failed() bool { return o.Err != nil }

// FanOut evaluates every candidate concurrently, one goroutine per candidate,
// and collects all settlements before returning. One slow or failing
// candidate never blocks or aborts the rest; there is no concurrency cap,
// which is acceptable at the observed scale of tens of candidates.
func FanOut(ctx context.Context, evaluator Evaluator, candidates []ai.Candidate, jobText string, logger *zap.Logger) []Outcome {
	if logger == nil {
		logger = zap.NewNop()
	}

	outcomes := make([]Outcome, len(candidates))

	var wg sync.WaitGroup
	for i, candidate := range candidates {
		wg.Add(1)
		go func(i int, candidate ai.Candidate) {
			defer wg.Done()
			outcomes[i] = evaluateOne(ctx, evaluator, candidate, jobText, logger)
		}(i, candidate)
	}
	wg.Wait()

	return outcomes
}

func evaluateOne(ctx context.Context, evaluator Evaluator, candidate ai.Candidate, jobText string, logger *zap.Logger) Outcome {
	// The skills summary is a side channel: its failure alone does not
	// disqualify the candidate.
	skillsCh := make(chan string, 1)
	go func() {
		skills, err := evaluator.ExtractSkills(ctx, &candidate)
		if err != nil {
			logger.Debug("skills extraction failed",
				zap.String("candidate", candidate.Name),
				zap.Error(err),
			)
			skills = ""
		}
		skillsCh <- skills
	}()

	result, err := evaluator.Evaluate(ctx, &candidate, jobText)
	skills := <-skillsCh

	if err != nil {
		logger.Warn("candidate evaluation failed",
			zap.String("candidate", candidate.Name),
			zap.Error(err),
		)
		return Outcome{Candidate: candidate, Err: err}
	}

	logger.Info("candidate evaluated",
		zap.String("candidate", candidate.Name),
		zap.Float64("score", result.Score),
		zap.Bool("used_fallback", result.UsedFallback),
	)

	return Outcome{Candidate: candidate, Result: result, Skills: skills}
}

// Rank drops failed outcomes and sorts the survivors by score descending.
// The sort is stable, so tie order follows input order; callers must not
// assume deterministic tie order across runs when upstream scores vary. No
// top-N truncation happens here: capping is a presentation concern.
func Rank(outcomes []Outcome) []Outcome {
	ranked := make([]Outcome, 0, len(outcomes))
	for _, outcome := range outcomes {
		if !outcome.Failed() {
			ranked = append(ranked, outcome)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Result.Score > ranked[j].Result.Score
	})

	return ranked
}
