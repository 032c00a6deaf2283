package ai

import "context"

// Candidate is a researcher profile scored against a job description.
type Candidate struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Affiliation string  `json:"affiliation"`
	Summary     string  `json:"summary"`
	Papers      []Paper `json:"papers"`
}

// Paper describes a single publication. Authors is a free-text string as
// returned by the completion service, not a structured list.
type Paper struct {
	Title    string `json:"title"`
	Authors  string `json:"authors"`
	Abstract string `json:"abstract"`
	URL      string `json:"url"`
	Year     string `json:"year,omitempty"`
}

// Citation is provenance metadata attached opportunistically to a result.
type Citation struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// Document is a single submission presented to the completion service for
// scoring. A multi-paper profile is folded into one document before matching.
type Document struct {
	Title    string   `json:"title"`
	Authors  string   `json:"authors,omitempty"`
	Topics   []string `json:"topics,omitempty"`
	Abstract string   `json:"abstract"`
}

// MatchResult is the scored assessment of one document against a job
// description. Score is advisory: the upstream reasoning is non-deterministic,
// so repeated calls for the same input may not agree.
type MatchResult struct {
	Score        float64    `json:"score"`
	Alignment    []string   `json:"alignment"`
	Gaps         []string   `json:"gaps"`
	Relevance    string     `json:"relevance"`
	Citations    []Citation `json:"citations,omitempty"`
	UsedFallback bool       `json:"usedFallback"`
}

// QAResult is the answer to a free-form question about a candidate.
type QAResult struct {
	Answer       string     `json:"answer"`
	Confidence   string     `json:"confidence"`
	Sources      []string   `json:"sources"`
	Citations    []Citation `json:"citations,omitempty"`
	UsedFallback bool       `json:"usedFallback"`
}

// Confidence levels reported in QAResult.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// FoundPaper is a literature search hit. Relevance is assigned upstream and
// must be treated as a hint only.
type FoundPaper struct {
	Paper
	Relevance float64 `json:"relevance"`
}

// SearchResult holds literature search hits.
type SearchResult struct {
	Papers       []FoundPaper `json:"papers"`
	Citations    []Citation   `json:"citations,omitempty"`
	UsedFallback bool         `json:"usedFallback"`
}

// RawProfile is a freshly fetched researcher profile. It is untrusted until it
// passes sanitization.
type RawProfile struct {
	Name        string     `json:"name"`
	Affiliation string     `json:"affiliation"`
	Summary     string     `json:"summary"`
	Papers      []Paper    `json:"papers"`
	Citations   []Citation `json:"citations,omitempty"`
}

// QAContext is the candidate background supplied with a question.
type QAContext struct {
	Name        string   `json:"name" mapstructure:"name"`
	Institution string   `json:"institution,omitempty" mapstructure:"institution"`
	Bio         string   `json:"bio,omitempty" mapstructure:"bio"`
	Experience  []string `json:"experience,omitempty" mapstructure:"experience"`
	Papers      []Paper  `json:"papers" mapstructure:"papers"`
}

// Assistant is the completion gateway: it translates structured asks into
// prompt pairs, performs one round-trip to the completion service and parses
// the textual reply into a typed result. Implementations never retry; the
// caller decides fallback policy.
type Assistant interface {
	MatchCandidateToJob(ctx context.Context, doc *Document, jobText string) (*MatchResult, error)
	AnswerQuestion(ctx context.Context, question string, candidate *QAContext) (*QAResult, error)
	SearchLiterature(ctx context.Context, query string) (*SearchResult, error)
	FetchProfile(ctx context.Context, name, affiliation string, paperLimit int) (*RawProfile, error)
}

// MaxProfilePapers bounds FetchProfile's paper limit regardless of caller input.
const MaxProfilePapers = 20

// ClampPaperLimit normalizes a caller-supplied paper limit into [1, MaxProfilePapers].
func ClampPaperLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxProfilePapers {
		return MaxProfilePapers
	}
	return limit
}
