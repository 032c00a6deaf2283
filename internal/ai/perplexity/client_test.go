package perplexity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spigell/scholar-match/internal/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := New("   ", "", nil)
	assert.Error(t, err)

	client, err := New("key", "", nil)
	require.NoError(t, err)
	assert.Equal(t, defaultModel, client.Model())

	client, err = New("key", "sonar-small", nil)
	require.NoError(t, err)
	assert.Equal(t, "sonar-small", client.Model())
}

func TestComplete(t *testing.T) {
	t.Parallel()

	var captured chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
		assert.Equal(t, contentType, r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"answer": "hi"}`}},
			},
			"citations": []string{"https://arxiv.org/abs/1706.03762"},
		})
	}))
	defer server.Close()

	client, err := New("secret-key", "sonar-pro", nil)
	require.NoError(t, err)
	client.BaseURL = server.URL

	completion, err := client.Complete(context.Background(), ai.CompletionRequest{
		System:    "You are a recruiter.",
		User:      "Score this candidate.",
		MaxTokens: 1500,
	})
	require.NoError(t, err)

	assert.Equal(t, `{"answer": "hi"}`, completion.Content)
	assert.Equal(t, []string{"https://arxiv.org/abs/1706.03762"}, completion.Citations)

	assert.Equal(t, "sonar-pro", captured.Model)
	assert.True(t, captured.ReturnCitations)
	assert.Equal(t, defaultSearchDomains, captured.SearchDomainFilter)
	assert.Equal(t, 1500, captured.MaxTokens)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "You are a recruiter.", captured.Messages[0].Content)
	assert.Equal(t, "user", captured.Messages[1].Role)
}

func TestCompleteOmitsEmptySystemMessage(t *testing.T) {
	t.Parallel()

	var captured chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "ok"}},
			},
		})
	}))
	defer server.Close()

	client, err := New("key", "", nil)
	require.NoError(t, err)
	client.BaseURL = server.URL

	_, err = client.Complete(context.Background(), ai.CompletionRequest{User: "hello"})
	require.NoError(t, err)

	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "user", captured.Messages[0].Role)
}

func TestCompleteUpstreamStatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("rate limit exceeded"))
	}))
	defer server.Close()

	client, err := New("key", "", nil)
	require.NoError(t, err)
	client.BaseURL = server.URL

	_, err = client.Complete(context.Background(), ai.CompletionRequest{User: "hello"})
	require.Error(t, err)

	var upstreamErr *ai.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusTooManyRequests, upstreamErr.Status)
	assert.Contains(t, upstreamErr.Detail, "rate limit")
	assert.True(t, ai.Recoverable(err))
}

func TestCompleteEmptyChoices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	client, err := New("key", "", nil)
	require.NoError(t, err)
	client.BaseURL = server.URL

	_, err = client.Complete(context.Background(), ai.CompletionRequest{User: "hello"})
	require.Error(t, err)

	var upstreamErr *ai.UpstreamError
	assert.ErrorAs(t, err, &upstreamErr)
}

func TestCompleteConnectionFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client, err := New("key", "", nil)
	require.NoError(t, err)
	client.BaseURL = server.URL

	_, err = client.Complete(context.Background(), ai.CompletionRequest{User: "hello"})
	require.Error(t, err)
	assert.True(t, ai.Recoverable(err))
}
