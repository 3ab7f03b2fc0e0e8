package llm

import (
	"context"
	"errors"
	"time"
)

// Provider names.
const (
	ProviderLMStudio  = "lmstudio"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

var (
	// ErrNoModels is returned when the server reports no loaded models.
	ErrNoModels = errors.New("no models available")
	// ErrEmptyResponse is returned when the model produced no text.
	ErrEmptyResponse = errors.New("empty response from model")
	// ErrNoSuggestions is returned when a response contains no usable candidates.
	ErrNoSuggestions = errors.New("no suggestions in response")
)

// Client sends a single prompt to a model and returns its raw text.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	// Ping verifies the provider is reachable and a model is available.
	Ping(ctx context.Context) error
	// Model returns the model in use, resolving it if necessary.
	Model() string
}

// Config holds provider and request settings.
type Config struct {
	Provider       string
	BaseURL        string
	APIKey         string
	Model          string
	Timeout        time.Duration
	RetryDelay     time.Duration
	Temperature    float64
	MaxTokens      int
	MaxRetries     int
	RateLimit      int // requests per minute
	NumSuggestions int
}

// DefaultConfig returns settings for a local LM Studio server.
func DefaultConfig() Config {
	return Config{
		Provider:       ProviderLMStudio,
		BaseURL:        "http://localhost:1234/v1",
		Timeout:        240 * time.Second,
		RetryDelay:     time.Second,
		Temperature:    0.3,
		MaxTokens:      8000,
		MaxRetries:     3,
		RateLimit:      60,
		NumSuggestions: 5,
	}
}
