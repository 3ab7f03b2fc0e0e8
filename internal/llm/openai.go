package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/moneyspice/internal/common"
)

const openAIBaseURL = "https://api.openai.com/v1"

// openAICompatClient speaks the chat completions protocol shared by LM Studio
// and OpenAI.
type openAICompatClient struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	mu          sync.Mutex
}

func newOpenAICompatClient(cfg Config, hosted bool) (Client, error) {
	d := DefaultConfig()
	baseURL := cfg.BaseURL
	if hosted {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: OpenAI API key is required", common.ErrMissingConfig)
		}
		if baseURL == "" || baseURL == d.BaseURL {
			baseURL = openAIBaseURL
		}
		if cfg.Model == "" {
			cfg.Model = "gpt-4o-mini"
		}
	}
	if baseURL == "" {
		baseURL = d.BaseURL
	}

	return &openAICompatClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

type modelList struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Complete sends a chat completion request.
func (c *openAICompatClient) Complete(ctx context.Context, prompt string) (string, error) {
	model, err := c.resolveModel(ctx)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	raw, err := c.do(ctx, http.MethodPost, "/chat/completions", body)
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", common.Transient(fmt.Errorf("failed to parse response: %w", err))
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", common.Transient(ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

// Ping lists the available models.
func (c *openAICompatClient) Ping(ctx context.Context) error {
	models, err := c.listModels(ctx)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		return ErrNoModels
	}
	return nil
}

// Model returns the configured or detected model, or "" before detection.
func (c *openAICompatClient) Model() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}

// resolveModel picks a model when none is configured: the only one loaded,
// else the first whose id suggests a chat model, else the first listed.
func (c *openAICompatClient) resolveModel(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.model != "" {
		return c.model, nil
	}

	models, err := c.listModels(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to detect model: %w", err)
	}
	c.model, err = pickModel(models)
	if err != nil {
		return "", err
	}
	slog.Info("Detected language model", "model", c.model, "available", len(models))
	return c.model, nil
}

func pickModel(models []string) (string, error) {
	switch len(models) {
	case 0:
		return "", ErrNoModels
	case 1:
		return models[0], nil
	}
	for _, m := range models {
		id := strings.ToLower(m)
		for _, hint := range []string{"chat", "instruct", "conversation"} {
			if strings.Contains(id, hint) {
				return m, nil
			}
		}
	}
	return models[0], nil
}

func (c *openAICompatClient) listModels(ctx context.Context) ([]string, error) {
	raw, err := c.do(ctx, http.MethodGet, "/models", nil)
	if err != nil {
		return nil, err
	}
	var list modelList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to parse model list: %w", err)
	}
	ids := make([]string, 0, len(list.Data))
	for _, m := range list.Data {
		if m.ID != "" {
			ids = append(ids, m.ID)
		}
	}
	return ids, nil
}

// do performs one request and classifies failures for WithRetry.
func (c *openAICompatClient) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, common.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, common.Transient(fmt.Errorf("request to %s failed: %w", c.baseURL, err))
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, common.Transient(fmt.Errorf("failed to read response: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return raw, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("%w: %s", common.ErrRateLimit, strings.TrimSpace(string(raw))),
			Retryable: true,
			After:     retryAfter(resp.Header.Get("Retry-After")),
		}
	case resp.StatusCode >= 500:
		return nil, common.Transient(fmt.Errorf("server error (status %d): %s", resp.StatusCode, string(raw)))
	default:
		return nil, common.Permanent(fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(raw)))
	}
}

func retryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
