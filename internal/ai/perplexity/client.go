// Package perplexity implements the chat-completions protocol of the
// Perplexity API: one POST per ask carrying a model identifier, role-tagged
// messages and a token budget, answered by one completion choice plus an
// optional flat list of citation URLs.
package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spigell/scholar-match/internal/ai"
	ailog "github.com/spigell/scholar-match/internal/logger"
	"github.com/spigell/scholar-match/internal/util"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api.perplexity.ai/chat/completions"
	defaultModel   = "sonar-pro"

	contentType = "application/json"

	// Low temperature keeps the scoring output as stable as a sampling
	// model allows.
	temperature = 0.2

	previewLogLength = 200
)

// Literature indexes the service is allowed to browse.
var defaultSearchDomains = []string{"arxiv.org", "scholar.google.com", "github.com"}

// Client talks to the Perplexity chat-completions endpoint.
type Client struct {
	apiKey        string
	model         string
	logger        *zap.Logger
	searchDomains []string

	BaseURL    string
	HTTPClient *http.Client
}

// New creates a Client. The model falls back to a sensible default when empty.
func New(apiKey, model string, logger *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("perplexity api key is required")
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	logger = ailog.WithCommonFields(logger, "perplexity", model)

	return &Client{
		apiKey:        apiKey,
		model:         model,
		logger:        logger,
		searchDomains: defaultSearchDomains,
		BaseURL:       defaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model              string        `json:"model"`
	Messages           []chatMessage `json:"messages"`
	ReturnCitations    bool          `json:"return_citations"`
	SearchDomainFilter []string      `json:"search_domain_filter,omitempty"`
	Temperature        float64       `json:"temperature"`
	MaxTokens          int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Citations []string `json:"citations,omitempty"`
}

// Complete sends one chat-completion request and returns the first choice.
func (c *Client) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
	messages := make([]chatMessage, 0, 2)
	if system := strings.TrimSpace(req.System); system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.User})

	body, err := json.Marshal(chatRequest{
		Model:              c.model,
		Messages:           messages,
		ReturnCitations:    true,
		SearchDomainFilter: c.searchDomains,
		Temperature:        temperature,
		MaxTokens:          req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create completion request: %w", err)
	}

	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	httpReq.Header.Set("Content-Type", contentType)

	c.logger.Debug("completion request",
		zap.String("model", c.model),
		zap.Int("max_tokens", req.MaxTokens),
		zap.String("user_preview", util.TruncateForLog(req.User, previewLogLength)),
	)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, &ai.UpstreamError{Op: "complete", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(resp.Body)
		return nil, &ai.UpstreamError{
			Op:     "complete",
			Status: resp.StatusCode,
			Detail: util.TruncateForLog(string(detail), previewLogLength),
		}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &ai.UpstreamError{Op: "complete", Err: fmt.Errorf("decode response body: %w", err)}
	}

	if len(parsed.Choices) == 0 {
		return nil, &ai.UpstreamError{Op: "complete", Err: errors.New("response contains no completion choices")}
	}

	content := parsed.Choices[0].Message.Content

	c.logger.Debug("completion response",
		zap.Int("citations", len(parsed.Citations)),
		zap.String("content_preview", util.TruncateForLog(content, previewLogLength)),
	)

	return &ai.Completion{
		Content:   content,
		Citations: parsed.Citations,
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}
