package summarize

import (
	"context"
	"errors"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"go.uber.org/zap"

	"github.com/kim-yeo-appweb-lab/trend-korea-api/internal/trend"
)

// Completer issues one system+user chat completion. The production
// implementation talks to an OpenAI-compatible endpoint; tests substitute a
// canned fake.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, trend.TokenUsage, error)
}

// ClientConfig points the completer at an OpenAI-compatible endpoint. The
// default target is a local Ollama server, which accepts any API key.
type ClientConfig struct {
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float64
}

// Client is the production Completer over the OpenAI-compatible chat API.
type Client struct {
	api    openai.Client
	cfg    ClientConfig
	logger *zap.Logger
}

// NewClient builds a chat completion client.
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gemma3:4b"
	}
	if cfg.APIKey == "" {
		cfg.APIKey = "ollama"
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	api := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
	)
	return &Client{api: api, cfg: cfg, logger: logger}
}

// Model reports the configured model identifier.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Complete sends one chat completion request and returns the raw response
// text with token usage.
func (c *Client) Complete(ctx context.Context, system, user string) (string, trend.TokenUsage, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(c.cfg.Temperature),
	})
	if err != nil {
		return "", trend.TokenUsage{}, err
	}
	if len(resp.Choices) == 0 {
		return "", trend.TokenUsage{}, errors.New("summarize: empty completion response")
	}

	usage := trend.TokenUsage{
		Prompt:     int(resp.Usage.PromptTokens),
		Completion: int(resp.Usage.CompletionTokens),
	}
	usage.Total = usage.Prompt + usage.Completion
	c.logger.Debug("completion finished",
		zap.String("model", c.cfg.Model),
		zap.Int("prompt_tokens", usage.Prompt),
		zap.Int("completion_tokens", usage.Completion),
	)
	return resp.Choices[0].Message.Content, usage, nil
}
