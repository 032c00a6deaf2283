// Package match scores candidates against a job description through the
// completion gateway and fans the evaluation out across all known candidates.
package match

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/scholar-match/internal/ai"
	"go.uber.org/zap"
)

// How many paper titles are folded into the synthetic portfolio abstract.
const maxPortfolioTitles = 10

const skillsQuestion = `List ONLY the top 5-7 most relevant technical skills and research areas from this researcher's work. Be CONCISE - use bullet points with 3-5 words each (e.g., "Deep Learning", "Computer Vision", "PyTorch/TensorFlow"). No explanations, just skill names.`

// Evaluator scores a single candidate against a job description. Implemented
// by Engine; the caller may wrap it with a fallback policy.
type Evaluator interface {
	Evaluate(ctx context.Context, candidate *ai.Candidate, jobText string) (*ai.MatchResult, error)
	ExtractSkills(ctx context.Context, candidate *ai.Candidate) (string, error)
}

// Engine wraps the gateway's match operation. It folds a candidate's paper
// list into one synthetic document so a multi-paper profile is scored as one
// coherent submission rather than per-paper. No retries: the caller decides
// fallback policy.
type Engine struct {
	assistant ai.Assistant
	logger    *zap.Logger
}

// NewEngine creates an Engine.
func NewEngine(assistant ai.Assistant, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{assistant: assistant, logger: logger}
}

// Document builds the synthetic submission for a candidate: portfolio title,
// summary and concatenated top paper titles as the abstract.
func Document(candidate *ai.Candidate) *ai.Document {
	titles := make([]string, 0, len(candidate.Papers))
	for _, paper := range candidate.Papers {
		if len(titles) == maxPortfolioTitles {
			break
		}
		if title := strings.TrimSpace(paper.Title); title != "" {
			titles = append(titles, title)
		}
	}

	abstract := candidate.Summary
	if len(titles) > 0 {
		abstract = fmt.Sprintf("%s\n\nTop Papers: %s", abstract, strings.Join(titles, "; "))
	}

	return &ai.Document{
		Title:    fmt.Sprintf("Research Portfolio of %s", candidate.Name),
		Authors:  candidate.Name,
		Abstract: abstract,
	}
}

// Evaluate scores one candidate against the job description.
func (e *Engine) Evaluate(ctx context.Context, candidate *ai.Candidate, jobText string) (*ai.MatchResult, error) {
	if candidate == nil {
		return nil, errors.New("candidate is required")
	}
	if strings.TrimSpace(jobText) == "" {
		return nil, errors.New("job text is required")
	}

	e.logger.Debug("evaluating candidate",
		zap.String("candidate", candidate.Name),
		zap.Int("papers", len(candidate.Papers)),
	)

	return e.assistant.MatchCandidateToJob(ctx, Document(candidate), jobText)
}

// ExtractSkills asks the gateway for a concise skills summary of a candidate.
func (e *Engine) ExtractSkills(ctx context.Context, candidate *ai.Candidate) (string, error) {
	if candidate == nil {
		return "", errors.New("candidate is required")
	}

	result, err := e.assistant.AnswerQuestion(ctx, skillsQuestion, &ai.QAContext{
		Name:        candidate.Name,
		Institution: candidate.Affiliation,
		Bio:         candidate.Summary,
		Papers:      candidate.Papers,
	})
	if err != nil {
		return "", err
	}

	return result.Answer, nil
}
