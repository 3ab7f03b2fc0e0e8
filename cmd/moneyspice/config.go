package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/moneyspice/internal/common"
	"github.com/Veraticus/moneyspice/internal/llm"
	"github.com/Veraticus/moneyspice/internal/match"
	"github.com/Veraticus/moneyspice/internal/search"
	"github.com/Veraticus/moneyspice/internal/selection"
)

const envPrefix = "MONEYSPICE"

// envAliases keeps the plain variable names working alongside the prefixed ones.
var envAliases = map[string][]string{
	"llm.base_url":             {"LM_STUDIO_URL"},
	"llm.model":                {"LM_STUDIO_MODEL"},
	"llm.num_suggestions":      {"NUM_SUGGESTIONS"},
	"matching.max_suggestions": {"NUM_SUGGESTIONS"},
	"logging.level":            {"LOG_LEVEL"},
}

func setDefaults(v *viper.Viper) {
	lc := llm.DefaultConfig()
	v.SetDefault("llm.provider", lc.Provider)
	v.SetDefault("llm.base_url", lc.BaseURL)
	v.SetDefault("llm.temperature", lc.Temperature)
	v.SetDefault("llm.max_tokens", lc.MaxTokens)
	v.SetDefault("llm.timeout", lc.Timeout)
	v.SetDefault("llm.max_retries", lc.MaxRetries)
	v.SetDefault("llm.retry_delay", lc.RetryDelay)
	v.SetDefault("llm.rate_limit", lc.RateLimit)
	v.SetDefault("llm.num_suggestions", lc.NumSuggestions)

	mc := match.DefaultConfig()
	v.SetDefault("matching.max_suggestions", mc.MaxSuggestions)
	v.SetDefault("matching.fuzzy_threshold", mc.FuzzyThreshold)
	v.SetDefault("matching.noise_floor", mc.NoiseFloor)
	v.SetDefault("matching.min_partial_length", mc.MinPartialLength)

	sc := search.DefaultConfig()
	v.SetDefault("search.min_query_length", sc.MinQueryLength)
	v.SetDefault("search.max_results", sc.MaxResults)

	v.SetDefault("transactions.include_pending", false)
	v.SetDefault("moneymoney.osascript", "osascript")
	v.SetDefault("moneymoney.app_name", "MoneyMoney")
	v.SetDefault("cache.path", "$HOME/.local/share/moneyspice/moneyspice.db")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("ui.mode", "auto")
	v.SetDefault("ui.theme", "default")
}

func bindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, aliases := range envAliases {
		args := append([]string{key, envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, aliases...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}
	return nil
}

func llmConfig(v *viper.Viper) (llm.Config, error) {
	cfg := llm.Config{
		Provider:       strings.ToLower(v.GetString("llm.provider")),
		BaseURL:        v.GetString("llm.base_url"),
		APIKey:         v.GetString("llm.api_key"),
		Model:          v.GetString("llm.model"),
		Timeout:        v.GetDuration("llm.timeout"),
		RetryDelay:     v.GetDuration("llm.retry_delay"),
		Temperature:    v.GetFloat64("llm.temperature"),
		MaxTokens:      v.GetInt("llm.max_tokens"),
		MaxRetries:     v.GetInt("llm.max_retries"),
		RateLimit:      v.GetInt("llm.rate_limit"),
		NumSuggestions: v.GetInt("llm.num_suggestions"),
	}

	switch cfg.Provider {
	case llm.ProviderOpenAI:
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.APIKey == "" {
			return cfg, fmt.Errorf("%w: OpenAI API key not found in llm.api_key or OPENAI_API_KEY", common.ErrMissingConfig)
		}
	case llm.ProviderAnthropic:
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if cfg.APIKey == "" {
			return cfg, fmt.Errorf("%w: Anthropic API key not found in llm.api_key or ANTHROPIC_API_KEY", common.ErrMissingConfig)
		}
	case llm.ProviderLMStudio, "":
	default:
		return cfg, fmt.Errorf("%w: unsupported LLM provider %q", common.ErrInvalidConfig, cfg.Provider)
	}

	return cfg, nil
}

func matchConfig(v *viper.Viper) match.Config {
	return match.Config{
		FuzzyThreshold:   v.GetFloat64("matching.fuzzy_threshold"),
		NoiseFloor:       v.GetFloat64("matching.noise_floor"),
		MinPartialLength: v.GetInt("matching.min_partial_length"),
		MaxSuggestions:   v.GetInt("matching.max_suggestions"),
	}
}

func searchConfig(v *viper.Viper) search.Config {
	return search.Config{
		MinQueryLength: v.GetInt("search.min_query_length"),
		MaxResults:     v.GetInt("search.max_results"),
		NoiseFloor:     v.GetFloat64("matching.noise_floor"),
	}
}

func selectionConfig(v *viper.Viper) selection.Config {
	return selection.Config{MinQueryLength: v.GetInt("search.min_query_length")}
}
