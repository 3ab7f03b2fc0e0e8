package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Veraticus/moneyspice/internal/common"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

// anthropicClient uses the Anthropic Messages API.
type anthropicClient struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxTokens   int64
}

func newAnthropicClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: anthropic API key is required", common.ErrMissingConfig)
	}

	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// Retries are handled by the Suggester.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" && cfg.BaseURL != DefaultConfig().BaseURL {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &anthropicClient{
		client:      anthropic.NewClient(opts...),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   int64(cfg.MaxTokens),
	}, nil
}

// Complete sends the prompt as a single user message.
func (c *anthropicClient) Complete(ctx context.Context, prompt string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(c.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", classifyAnthropicError(err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", common.Transient(ErrEmptyResponse)
	}
	return text.String(), nil
}

// Ping only validates configuration; the hosted API needs no model detection.
func (c *anthropicClient) Ping(context.Context) error {
	if c.model == "" {
		return ErrNoModels
	}
	return nil
}

func (c *anthropicClient) Model() string {
	return c.model
}

func classifyAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return common.Transient(fmt.Errorf("%w: %v", common.ErrRateLimit, err))
		case apiErr.StatusCode >= 500:
			return common.Transient(fmt.Errorf("anthropic server error: %w", err))
		default:
			return common.Permanent(fmt.Errorf("anthropic API error: %w", err))
		}
	}
	return common.Transient(fmt.Errorf("anthropic request failed: %w", err))
}
