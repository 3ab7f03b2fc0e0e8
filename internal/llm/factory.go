package llm

import (
	"fmt"
	"strings"

	"github.com/Veraticus/moneyspice/internal/common"
)

// NewClient creates the client for cfg.Provider. Unset request settings
// take their DefaultConfig values; an empty provider means LM Studio.
func NewClient(cfg Config) (Client, error) {
	cfg = cfg.withRequestDefaults()

	switch provider := strings.ToLower(strings.TrimSpace(cfg.Provider)); provider {
	case "", ProviderLMStudio:
		return newOpenAICompatClient(cfg, false)
	case ProviderOpenAI:
		return newOpenAICompatClient(cfg, true)
	case ProviderAnthropic:
		return newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider %q", common.ErrInvalidConfig, provider)
	}
}

// withRequestDefaults fills sampling and transport settings. BaseURL is left
// alone because hosted providers replace the local default.
func (c Config) withRequestDefaults() Config {
	d := DefaultConfig()
	if c.Temperature == 0 {
		c.Temperature = d.Temperature
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = d.MaxTokens
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	return c
}
