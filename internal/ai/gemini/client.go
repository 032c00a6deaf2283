// Package gemini is the Gemini-backed completion provider. It exists as an
// alternative to the default Perplexity backend; Gemini returns no citation
// list, which downstream consumers must treat as valid.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/scholar-match/internal/ai"
	ailog "github.com/spigell/scholar-match/internal/logger"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-pro"

// Generator wraps the Google GenAI client behind the ai.Completer contract.
type Generator struct {
	client    *genai.Client
	modelName string
	logger    *zap.Logger
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Generator{
		client:    client,
		modelName: model,
		logger:    ailog.WithCommonFields(logger, "gemini", model),
	}, nil
}

// Complete sends the prompt pair to Gemini and returns the first textual
// response. Gemini carries the system role as a dedicated instruction rather
// than a message.
func (g *Generator) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
	if g == nil || g.client == nil {
		return nil, errors.New("gemini generator is not initialized")
	}

	user := strings.TrimSpace(req.User)
	if user == "" {
		return nil, errors.New("prompt must not be empty")
	}

	config := &genai.GenerateContentConfig{}
	if system := strings.TrimSpace(req.System); system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(user), config)
	if err != nil {
		return nil, &ai.UpstreamError{Op: "complete", Err: fmt.Errorf("generate content: %w", err)}
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return nil, &ai.UpstreamError{Op: "complete", Err: errors.New("gemini api returned empty response")}
	}

	g.logger.Debug("completion response",
		zap.Int("candidates", len(resp.Candidates)),
		zap.Int("content_length", len(output)),
	)

	return &ai.Completion{Content: output}, nil
}

// Model returns the configured model identifier.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
