package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/studydesk/backend/internal/config"
	"github.com/studydesk/backend/internal/models"
	"go.uber.org/zap"
)

// LLMClient is the interface both generator implementations satisfy.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// Generator drafts explanation and tips text for questions being authored.
type Generator struct {
	llm   LLMClient
	model string
}

func NewGenerator(cfg config.GeneratorConfig, log *zap.Logger) *Generator {
	if cfg.Mock {
		log.Info("generator using mock data")
		return &Generator{llm: NewMockClient(), model: "mock"}
	}

	log.Info("generator using Anthropic API", zap.String("model", cfg.Model))
	return &Generator{llm: NewAPIClient(cfg.APIKey, cfg.Model, log), model: cfg.Model}
}

// New wraps an existing client.
func New(llm LLMClient, model string) *Generator {
	return &Generator{llm: llm, model: model}
}

func (g *Generator) DraftExplanation(ctx context.Context, req models.DraftExplanationRequest) (*models.DraftExplanationResponse, error) {
	if req.CorrectOptionIndex < 0 || req.CorrectOptionIndex >= len(req.Options) {
		return nil, fmt.Errorf("%w: correct_option_index out of range", models.ErrValidation)
	}

	resp, err := g.llm.Generate(ctx, DraftSystemPrompt(), BuildDraftUserPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("draft explanation: %w", err)
	}

	draft, err := ParseDraft(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse draft response: %w", err)
	}

	return &models.DraftExplanationResponse{
		Explanation:  draft.Explanation,
		Tips:         draft.Tips,
		Model:        g.model,
		PromptTokens: resp.PromptTokens,
		OutputTokens: resp.OutputTokens,
	}, nil
}

// ── APIClient: Anthropic SDK ─────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
	log    *zap.Logger
}

func NewAPIClient(apiKey, model string, log *zap.Logger) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &APIClient{client: &client, model: model, log: log}
}

func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   2048,
		Temperature: param.NewOpt(0.3),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	msg, err := c.send(ctx, params)
	if err != nil {
		return nil, err
	}

	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			return &LLMResponse{
				Content:      block.Text,
				PromptTokens: int(msg.Usage.InputTokens),
				OutputTokens: int(msg.Usage.OutputTokens),
			}, nil
		}
	}
	return nil, errors.New("draft response has no text block")
}

// send retries rate limits and server errors once with backoff. Other
// client errors are returned immediately.
func (c *APIClient) send(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	const attempts = 2
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		msg, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return msg, nil
		}
		lastErr = err
		if !retryable(err) || attempt == attempts {
			break
		}

		backoff := time.Duration(attempt) * 2 * time.Second
		c.log.Warn("draft request failed, retrying",
			zap.Int("attempt", attempt), zap.Duration("backoff", backoff), zap.Error(err))
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("anthropic request: %w", lastErr)
}

func retryable(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	return true
}

// ── MockClient: local development ─────────────────────────

type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	return &LLMResponse{
		Content: "```json\n" + `{"explanation":"[Mock] A alternativa correta decorre diretamente do enunciado; as demais contrariam a regra aplicável.","tips":"[Mock] Leia o comando da questão duas vezes e elimine as alternativas absolutas."}` + "\n```",
		PromptTokens: 400,
		OutputTokens: 120,
	}, nil
}
