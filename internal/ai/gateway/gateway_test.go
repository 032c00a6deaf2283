package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spigell/scholar-match/internal/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompleter struct {
	reply     string
	citations []string
	err       error

	calls   int
	lastReq ai.CompletionRequest
}

func (s *stubCompleter) Complete(_ context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &ai.Completion{Content: s.reply, Citations: s.citations}, nil
}

func newTestGateway(t *testing.T, completer ai.Completer) *Gateway {
	t.Helper()

	gw, err := New(completer, nil, nil, 0, 0)
	require.NoError(t, err)
	return gw
}

func testDocument() *ai.Document {
	return &ai.Document{
		Title:    "Research Portfolio of Sarah Chen",
		Authors:  "Sarah Chen",
		Abstract: "Scalable oversight of language models.",
	}
}

func TestNewRequiresCompleter(t *testing.T) {
	t.Parallel()

	_, err := New(nil, nil, nil, 0, 0)
	assert.Error(t, err)
}

func TestMatchCandidateToJob(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{
		reply: "Here is my assessment:\n```json\n" +
			`{"matchScore": 87, "alignment": ["AI safety focus", "Oversight research"], "gaps": ["No production experience"], "relevance": "Strong fit"}` +
			"\n```",
		citations: []string{"https://arxiv.org/abs/2211.03540", ""},
	}
	gw := newTestGateway(t, stub)

	result, err := gw.MatchCandidateToJob(context.Background(), testDocument(), "AI safety researcher role")
	require.NoError(t, err)

	assert.Equal(t, 87.0, result.Score)
	assert.Equal(t, []string{"AI safety focus", "Oversight research"}, result.Alignment)
	assert.Equal(t, []string{"No production experience"}, result.Gaps)
	assert.Equal(t, "Strong fit", result.Relevance)
	assert.False(t, result.UsedFallback)

	// Blank citation URLs are dropped.
	require.Len(t, result.Citations, 1)
	assert.Equal(t, "https://arxiv.org/abs/2211.03540", result.Citations[0].URL)

	// The rendered prompt carries both the document and the job text.
	assert.Contains(t, stub.lastReq.User, "Research Portfolio of Sarah Chen")
	assert.Contains(t, stub.lastReq.User, "AI safety researcher role")
	assert.Contains(t, stub.lastReq.System, "research recruiter")
	assert.Equal(t, defaultMaxTokens, stub.lastReq.MaxTokens)
}

func TestMatchCandidateToJobClampsAndTruncates(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{
		reply: `{"matchScore": 250, "alignment": ["a", "b", "c", "d", "e", "f", "g"], "gaps": [], "relevance": "x"}`,
	}
	gw := newTestGateway(t, stub)

	result, err := gw.MatchCandidateToJob(context.Background(), testDocument(), "role")
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.Score)
	assert.Len(t, result.Alignment, maxAlignmentEntries)
}

func TestMatchCandidateToJobToleratesStringScore(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{
		reply: `{"matchScore": "92", "alignment": [], "gaps": [], "relevance": "fine"}`,
	}
	gw := newTestGateway(t, stub)

	result, err := gw.MatchCandidateToJob(context.Background(), testDocument(), "role")
	require.NoError(t, err)
	assert.Equal(t, 92.0, result.Score)
}

func TestMatchCandidateToJobCachesReplies(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{
		reply: `{"matchScore": 80, "alignment": [], "gaps": [], "relevance": "ok"}`,
	}
	gw := newTestGateway(t, stub)

	first, err := gw.MatchCandidateToJob(context.Background(), testDocument(), "role")
	require.NoError(t, err)
	second, err := gw.MatchCandidateToJob(context.Background(), testDocument(), "role")
	require.NoError(t, err)

	assert.Equal(t, 1, stub.calls, "second call must be served from cache")
	assert.Equal(t, first, second)
	assert.NotSame(t, first, second, "cache hits must return copies")
	assert.Equal(t, 1, gw.CacheSize())

	// A different job text misses the cache.
	_, err = gw.MatchCandidateToJob(context.Background(), testDocument(), "another role")
	require.NoError(t, err)
	assert.Equal(t, 2, stub.calls)
}

func TestMatchCandidateToJobValidation(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(t, &stubCompleter{reply: "{}"})

	_, err := gw.MatchCandidateToJob(context.Background(), nil, "role")
	assert.Error(t, err)

	_, err = gw.MatchCandidateToJob(context.Background(), testDocument(), "   ")
	assert.Error(t, err)
}

func TestMatchCandidateToJobParseError(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{reply: "I cannot produce structured output today."}
	gw := newTestGateway(t, stub)

	_, err := gw.MatchCandidateToJob(context.Background(), testDocument(), "role")
	require.Error(t, err)

	var parseErr *ai.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, stub.reply, parseErr.Raw)
	assert.True(t, ai.Recoverable(err))
	assert.Equal(t, 0, gw.CacheSize(), "failed replies must not be cached")
}

func TestMatchCandidateToJobUpstreamError(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{err: &ai.UpstreamError{Op: "complete", Status: 502}}
	gw := newTestGateway(t, stub)

	_, err := gw.MatchCandidateToJob(context.Background(), testDocument(), "role")
	require.Error(t, err)
	assert.True(t, ai.Recoverable(err))
}

func TestAnswerQuestion(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{
		reply: `{"answer": "Yes, extensively.", "confidence": "HIGH", "sources": ["Constitutional AI paper"]}`,
	}
	gw := newTestGateway(t, stub)

	candidate := &ai.QAContext{
		Name:        "Sarah Chen",
		Institution: "Stanford University",
		Papers:      []ai.Paper{{Title: "Constitutional AI"}},
	}

	result, err := gw.AnswerQuestion(context.Background(), "Have they worked on RLHF?", candidate)
	require.NoError(t, err)

	assert.Equal(t, "Yes, extensively.", result.Answer)
	assert.Equal(t, ai.ConfidenceHigh, result.Confidence)
	assert.Equal(t, []string{"Constitutional AI paper"}, result.Sources)

	assert.Contains(t, stub.lastReq.User, "Sarah Chen")
	assert.Contains(t, stub.lastReq.User, "Have they worked on RLHF?")
	assert.Contains(t, stub.lastReq.User, "Constitutional AI")
}

func TestAnswerQuestionNormalizesConfidence(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{reply: `{"answer": "maybe", "confidence": "certainly!", "sources": []}`}
	gw := newTestGateway(t, stub)

	result, err := gw.AnswerQuestion(context.Background(), "q", &ai.QAContext{Name: "A B"})
	require.NoError(t, err)
	assert.Equal(t, ai.ConfidenceMedium, result.Confidence)
}

func TestAnswerQuestionValidation(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(t, &stubCompleter{reply: "{}"})

	_, err := gw.AnswerQuestion(context.Background(), "  ", &ai.QAContext{Name: "A B"})
	assert.Error(t, err)

	_, err = gw.AnswerQuestion(context.Background(), "q", nil)
	assert.Error(t, err)

	_, err = gw.AnswerQuestion(context.Background(), "q", &ai.QAContext{})
	assert.Error(t, err)
}

func TestSearchLiterature(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{
		reply: `{"papers": [
			{"title": "Scaling Laws", "authors": "J. Kaplan", "abstract": "...", "url": "https://arxiv.org/abs/2001.08361", "relevance": 95},
			{"authors": "missing title, must be skipped"},
			{"title": "Overclaimed", "relevance": 300}
		]}`,
	}
	gw := newTestGateway(t, stub)

	result, err := gw.SearchLiterature(context.Background(), "scaling laws")
	require.NoError(t, err)

	require.Len(t, result.Papers, 2)
	assert.Equal(t, "Scaling Laws", result.Papers[0].Title)
	assert.Equal(t, 95.0, result.Papers[0].Relevance)
	assert.Equal(t, 100.0, result.Papers[1].Relevance, "relevance is clamped to the score scale")
	assert.False(t, result.UsedFallback)
}

func TestSearchLiteratureValidation(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(t, &stubCompleter{reply: "{}"})

	_, err := gw.SearchLiterature(context.Background(), "   ")
	assert.Error(t, err)
}

func TestFetchProfile(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{
		reply: `{"name": "Sarah X. Chen", "affiliation": "Stanford University", "summary": "Safety researcher.",
			"papers": [{"title": "Debate as Oversight", "authors": "S. Chen", "url": "https://arxiv.org/abs/1805.00899"}]}`,
	}
	gw := newTestGateway(t, stub)

	profile, err := gw.FetchProfile(context.Background(), "Sarah Chen", "Stanford", 50)
	require.NoError(t, err)

	// The upstream-reported identity wins over the request parameters.
	assert.Equal(t, "Sarah X. Chen", profile.Name)
	assert.Equal(t, "Stanford University", profile.Affiliation)
	assert.Equal(t, "Safety researcher.", profile.Summary)
	require.Len(t, profile.Papers, 1)

	// An out-of-range paper limit is clamped before prompt rendering.
	assert.Contains(t, stub.lastReq.User, "20")
	assert.NotContains(t, stub.lastReq.User, "50")
}

func TestFetchProfileParseFailureSurfaces(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{reply: "no structured data here"}
	gw := newTestGateway(t, stub)

	_, err := gw.FetchProfile(context.Background(), "Sarah Chen", "Stanford", 10)
	require.Error(t, err)

	var parseErr *ai.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestFetchProfileValidation(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(t, &stubCompleter{reply: "{}"})

	_, err := gw.FetchProfile(context.Background(), "   ", "Stanford", 10)
	assert.Error(t, err)

	_, err = gw.FetchProfile(context.Background(), "Sarah Chen", "", 10)
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	t.Parallel()

	out := render("Hello {{NAME}} from {{PLACE}}. Again: {{NAME}}.", map[string]string{
		"NAME":  "Ada",
		"PLACE": "London",
	})
	assert.Equal(t, "Hello Ada from London. Again: Ada.", out)
	assert.False(t, strings.Contains(out, "{{"))
}

func TestPromptTemplatesHavePlaceholders(t *testing.T) {
	t.Parallel()

	assert.Contains(t, matchPromptTemplate, "{{PAPER_CONTEXT}}")
	assert.Contains(t, matchPromptTemplate, "{{JOB_TEXT}}")
	assert.Contains(t, qaPromptTemplate, "{{QUESTION}}")
	assert.Contains(t, qaPromptTemplate, "{{RESEARCHER_CONTEXT}}")
	assert.Contains(t, searchPromptTemplate, "{{QUERY}}")
	assert.Contains(t, profilePromptTemplate, "{{NAME}}")
	assert.Contains(t, profilePromptTemplate, "{{AFFILIATION}}")
	assert.Contains(t, profilePromptTemplate, "{{PAPER_LIMIT}}")
}

func TestCoerceHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 7.5, coerceFloat(7.5))
	assert.Equal(t, 42.0, coerceFloat("42"))
	assert.True(t, coerceFloat("not a number") != coerceFloat("not a number"), "unparseable input yields NaN")

	assert.Equal(t, "hello", coerceString("  hello  "))
	assert.Equal(t, "", coerceString(nil))

	assert.Equal(t, []string{"a", "b"}, coerceStringSlice([]any{"a", "", "b"}))
	assert.Empty(t, coerceStringSlice("not a slice"))

	assert.Equal(t, 0.0, clampScore(-5))
	assert.Equal(t, 100.0, clampScore(250))
	assert.Equal(t, 63.0, clampScore(63))
}

var errBoom = errors.New("boom")

func TestCompleteErrorPassesThrough(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(t, &stubCompleter{err: errBoom})

	_, err := gw.SearchLiterature(context.Background(), "anything")
	assert.ErrorIs(t, err, errBoom)
}
