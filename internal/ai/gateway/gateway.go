// Package gateway translates structured asks into prompt pairs, performs one
// round-trip to a completion provider and parses the textual reply into typed
// results. Each gateway holds its own response cache; there is no process-wide
// singleton, so tests and concurrent configurations stay isolated.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/scholar-match/internal/ai"
	"github.com/spigell/scholar-match/internal/aicache"
	"github.com/spigell/scholar-match/internal/util"
	"go.uber.org/zap"
)

//go:embed match_prompt.md
var matchPromptTemplate string

//go:embed qa_prompt.md
var qaPromptTemplate string

//go:embed search_prompt.md
var searchPromptTemplate string

//go:embed profile_prompt.md
var profilePromptTemplate string

const (
	opMatch   = "matchCandidateToJob"
	opQA      = "answerQuestion"
	opSearch  = "searchLiterature"
	opProfile = "fetchProfile"

	matchSystemPrompt = `You are an expert AI research recruiter specializing in matching research papers to job requirements.
Analyze the alignment between research work and job needs. Provide:
1. A match score (0-100)
2. Key alignment points (3-5 specific matches)
3. Any gaps or missing qualifications
4. Overall relevance assessment

Focus on technical skills, research areas, methodologies, and practical applications.`

	qaSystemPrompt = `You are an expert research analyst providing insights about AI researchers based on their publications and background.
Answer questions accurately using the provided context. Include confidence level and cite specific sources.
Be honest about limitations - if information isn't available, say so.`

	searchSystemPrompt = `You are a research paper search assistant. Find relevant academic papers based on the query.
Focus on papers from arXiv, Google Scholar, and GitHub repositories.
Return papers with title, authors, abstract, URL, and relevance score.`

	profileSystemPrompt = `You are a research profile assistant. Build an accurate profile of the requested researcher from public literature indexes.
Only report publications that verifiably list the researcher as an author. Accuracy matters more than completeness.`

	defaultMaxTokens    = 2000
	defaultMaxLogLength = 200
	maxMatchScore       = 100
	maxAlignmentEntries = 5
)

// Gateway implements ai.Assistant on top of any completion provider.
type Gateway struct {
	completer ai.Completer
	cache     *aicache.Cache
	logger    *zap.Logger
	maxTokens int
	maxLogLen int
}

// New creates a Gateway. The cache is owned by the gateway; passing nil
// creates a private cache with the default TTL.
func New(completer ai.Completer, cache *aicache.Cache, logger *zap.Logger, maxTokens, maxLogLength int) (*Gateway, error) {
	if completer == nil {
		return nil, errors.New("completion provider is required")
	}
	if cache == nil {
		cache = aicache.New(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Gateway{
		completer: completer,
		cache:     cache,
		logger:    logger,
		maxTokens: maxTokens,
		maxLogLen: maxLogLength,
	}, nil
}

// CacheSize reports the number of memoized completions.
func (g *Gateway) CacheSize() int { return g.cache.Size() }

type matchParams struct {
	Doc     *ai.Document `json:"doc"`
	JobText string       `json:"jobText"`
}

// MatchCandidateToJob scores one document against a job description.
func (g *Gateway) MatchCandidateToJob(ctx context.Context, doc *ai.Document, jobText string) (*ai.MatchResult, error) {
	if doc == nil {
		return nil, errors.New("document is required")
	}
	if strings.TrimSpace(jobText) == "" {
		return nil, errors.New("job text is required")
	}

	params := matchParams{Doc: doc, JobText: jobText}
	if cached, ok := g.cache.Get(opMatch, params); ok {
		if result, ok := cached.(ai.MatchResult); ok {
			cp := result
			return &cp, nil
		}
	}

	user := render(matchPromptTemplate, map[string]string{
		"PAPER_CONTEXT": documentContext(doc),
		"JOB_TEXT":      jobText,
	})

	completion, err := g.complete(ctx, opMatch, matchSystemPrompt, user)
	if err != nil {
		return nil, err
	}

	data, err := g.parseObject(opMatch, completion.Content)
	if err != nil {
		return nil, err
	}

	result := ai.MatchResult{
		Score:     clampScore(coerceFloat(data["matchScore"])),
		Alignment: coerceStringSlice(data["alignment"]),
		Gaps:      coerceStringSlice(data["gaps"]),
		Relevance: coerceString(data["relevance"]),
		Citations: citationsFromURLs(completion.Citations),
	}
	if len(result.Alignment) > maxAlignmentEntries {
		result.Alignment = result.Alignment[:maxAlignmentEntries]
	}

	g.cache.Set(opMatch, params, result)

	cp := result
	return &cp, nil
}

type qaParams struct {
	Question  string        `json:"question"`
	Candidate *ai.QAContext `json:"candidate"`
}

// AnswerQuestion answers a free-form question about a candidate.
func (g *Gateway) AnswerQuestion(ctx context.Context, question string, candidate *ai.QAContext) (*ai.QAResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, errors.New("question is required")
	}
	if candidate == nil || strings.TrimSpace(candidate.Name) == "" {
		return nil, errors.New("candidate context with a name is required")
	}

	params := qaParams{Question: question, Candidate: candidate}
	if cached, ok := g.cache.Get(opQA, params); ok {
		if result, ok := cached.(ai.QAResult); ok {
			cp := result
			return &cp, nil
		}
	}

	user := render(qaPromptTemplate, map[string]string{
		"RESEARCHER_CONTEXT": candidateContext(candidate),
		"QUESTION":           question,
	})

	completion, err := g.complete(ctx, opQA, qaSystemPrompt, user)
	if err != nil {
		return nil, err
	}

	data, err := g.parseObject(opQA, completion.Content)
	if err != nil {
		return nil, err
	}

	result := ai.QAResult{
		Answer:     coerceString(data["answer"]),
		Confidence: normalizeConfidence(coerceString(data["confidence"])),
		Sources:    coerceStringSlice(data["sources"]),
		Citations:  citationsFromURLs(completion.Citations),
	}

	g.cache.Set(opQA, params, result)

	cp := result
	return &cp, nil
}

type searchParams struct {
	Query string `json:"query"`
}

// SearchLiterature finds papers related to a query. Relevance scores are
// upstream-assigned hints, nothing more.
func (g *Gateway) SearchLiterature(ctx context.Context, query string) (*ai.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("search query is required")
	}

	params := searchParams{Query: query}
	if cached, ok := g.cache.Get(opSearch, params); ok {
		if result, ok := cached.(ai.SearchResult); ok {
			cp := result
			return &cp, nil
		}
	}

	user := render(searchPromptTemplate, map[string]string{"QUERY": query})

	completion, err := g.complete(ctx, opSearch, searchSystemPrompt, user)
	if err != nil {
		return nil, err
	}

	data, err := g.parseObject(opSearch, completion.Content)
	if err != nil {
		return nil, err
	}

	result := ai.SearchResult{
		Papers:    coerceFoundPapers(data["papers"]),
		Citations: citationsFromURLs(completion.Citations),
	}

	g.cache.Set(opSearch, params, result)

	cp := result
	return &cp, nil
}

type profileParams struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation"`
	Limit       int    `json:"limit"`
}

// FetchProfile asks the completion service to browse external literature
// indexes and assemble a researcher profile. On parse failure the error
// surfaces to the caller: a fabricated profile is worse than an explicit
// failure because it can be persisted and presented as fact.
func (g *Gateway) FetchProfile(ctx context.Context, name, affiliation string, paperLimit int) (*ai.RawProfile, error) {
	name = strings.TrimSpace(name)
	affiliation = strings.TrimSpace(affiliation)
	if name == "" {
		return nil, errors.New("researcher name is required")
	}
	if affiliation == "" {
		return nil, errors.New("affiliation is required")
	}

	paperLimit = ai.ClampPaperLimit(paperLimit)

	params := profileParams{Name: name, Affiliation: affiliation, Limit: paperLimit}
	if cached, ok := g.cache.Get(opProfile, params); ok {
		if profile, ok := cached.(ai.RawProfile); ok {
			cp := profile
			return &cp, nil
		}
	}

	user := render(profilePromptTemplate, map[string]string{
		"NAME":        name,
		"AFFILIATION": affiliation,
		"PAPER_LIMIT": strconv.Itoa(paperLimit),
	})

	completion, err := g.complete(ctx, opProfile, profileSystemPrompt, user)
	if err != nil {
		return nil, err
	}

	data, err := g.parseObject(opProfile, completion.Content)
	if err != nil {
		return nil, err
	}

	profile := ai.RawProfile{
		Name:        name,
		Affiliation: affiliation,
		Summary:     coerceString(data["summary"]),
		Papers:      coercePapers(data["papers"]),
		Citations:   citationsFromURLs(completion.Citations),
	}
	if reported := coerceString(data["name"]); reported != "" {
		profile.Name = reported
	}
	if reported := coerceString(data["affiliation"]); reported != "" {
		profile.Affiliation = reported
	}

	g.cache.Set(opProfile, params, profile)

	cp := profile
	return &cp, nil
}

func (g *Gateway) complete(ctx context.Context, op, system, user string) (*ai.Completion, error) {
	g.logger.Debug("gateway request",
		zap.String("operation", op),
		zap.Int("prompt_length", utf8.RuneCountInString(user)),
		zap.String("prompt_preview", util.TruncateForLog(user, g.maxLogLen)),
	)

	completion, err := g.completer.Complete(ctx, ai.CompletionRequest{
		System:    system,
		User:      user,
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		return nil, err
	}

	g.logger.Debug("gateway response",
		zap.String("operation", op),
		zap.Int("response_length", utf8.RuneCountInString(completion.Content)),
		zap.String("response_preview", util.TruncateForLog(completion.Content, g.maxLogLen)),
		zap.Int("cache_size", g.cache.Size()),
	)

	return completion, nil
}

func (g *Gateway) parseObject(op, content string) (map[string]any, error) {
	region, err := ai.ExtractJSONObject(content)
	if err != nil {
		return nil, &ai.ParseError{Op: op, Raw: content, Err: err}
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(region), &data); err != nil {
		return nil, &ai.ParseError{Op: op, Raw: content, Err: err}
	}

	return data, nil
}

func render(template string, values map[string]string) string {
	for key, value := range values {
		template = strings.ReplaceAll(template, "{{"+key+"}}", value)
	}
	return template
}

func documentContext(doc *ai.Document) string {
	authors := doc.Authors
	if strings.TrimSpace(authors) == "" {
		authors = "N/A"
	}
	topics := "N/A"
	if len(doc.Topics) > 0 {
		topics = strings.Join(doc.Topics, ", ")
	}

	return fmt.Sprintf("Paper Title: %s\nAuthors: %s\nTopics: %s\nAbstract: %s",
		doc.Title, authors, topics, doc.Abstract)
}

func candidateContext(candidate *ai.QAContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Researcher: %s\n", candidate.Name)
	fmt.Fprintf(&b, "Institution: %s\n", orNA(candidate.Institution))
	fmt.Fprintf(&b, "Bio: %s\n\n", orNA(candidate.Bio))

	b.WriteString("Experience:\n")
	if len(candidate.Experience) == 0 {
		b.WriteString("N/A\n")
	} else {
		for _, item := range candidate.Experience {
			b.WriteString(item)
			b.WriteString("\n")
		}
	}

	b.WriteString("\nPublications:\n")
	for i, paper := range candidate.Papers {
		fmt.Fprintf(&b, "%d. %s", i+1, paper.Title)
		if strings.TrimSpace(paper.Abstract) != "" {
			fmt.Fprintf(&b, "\n   Abstract: %s", paper.Abstract)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func citationsFromURLs(urls []string) []ai.Citation {
	if len(urls) == 0 {
		return nil
	}
	citations := make([]ai.Citation, 0, len(urls))
	for _, url := range urls {
		if strings.TrimSpace(url) == "" {
			continue
		}
		citations = append(citations, ai.Citation{URL: url})
	}
	return citations
}
