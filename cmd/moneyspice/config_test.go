package main

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/moneyspice/internal/common"
	"github.com/Veraticus/moneyspice/internal/llm"
)

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	require.NoError(t, bindEnv(v))
	return v
}

func TestDefaults(t *testing.T) {
	v := newTestViper(t)

	assert.Equal(t, llm.ProviderLMStudio, v.GetString("llm.provider"))
	assert.Equal(t, 5, v.GetInt("llm.num_suggestions"))
	assert.Equal(t, 240*time.Second, v.GetDuration("llm.timeout"))
	assert.True(t, v.GetBool("cache.enabled"))
	assert.Equal(t, "auto", v.GetString("ui.mode"))
	assert.Equal(t, "MoneyMoney", v.GetString("moneymoney.app_name"))
}

func TestEnvironment(t *testing.T) {
	t.Run("prefixed variables", func(t *testing.T) {
		t.Setenv("MONEYSPICE_LLM_MODEL", "qwen2.5-7b")
		t.Setenv("MONEYSPICE_SEARCH_MAX_RESULTS", "7")
		v := newTestViper(t)

		assert.Equal(t, "qwen2.5-7b", v.GetString("llm.model"))
		assert.Equal(t, 7, searchConfig(v).MaxResults)
	})

	t.Run("plain aliases", func(t *testing.T) {
		t.Setenv("LM_STUDIO_URL", "http://studio.local:1234/v1")
		t.Setenv("NUM_SUGGESTIONS", "3")
		v := newTestViper(t)

		assert.Equal(t, "http://studio.local:1234/v1", v.GetString("llm.base_url"))
		assert.Equal(t, 3, v.GetInt("llm.num_suggestions"))
		assert.Equal(t, 3, matchConfig(v).MaxSuggestions)
	})

	t.Run("prefixed wins over alias", func(t *testing.T) {
		t.Setenv("MONEYSPICE_LLM_MODEL", "prefixed")
		t.Setenv("LM_STUDIO_MODEL", "alias")
		v := newTestViper(t)

		assert.Equal(t, "prefixed", v.GetString("llm.model"))
	})
}

func TestLLMConfig(t *testing.T) {
	tests := []struct {
		setup   func(t *testing.T, v *viper.Viper)
		wantErr error
		name    string
		wantKey string
	}{
		{
			name:  "lm studio needs no key",
			setup: func(*testing.T, *viper.Viper) {},
		},
		{
			name: "openai key from environment",
			setup: func(t *testing.T, v *viper.Viper) {
				t.Helper()
				v.Set("llm.provider", "OpenAI")
				t.Setenv("OPENAI_API_KEY", "sk-test")
			},
			wantKey: "sk-test",
		},
		{
			name: "openai without key",
			setup: func(t *testing.T, v *viper.Viper) {
				t.Helper()
				v.Set("llm.provider", "openai")
				t.Setenv("OPENAI_API_KEY", "")
			},
			wantErr: common.ErrMissingConfig,
		},
		{
			name: "anthropic key from config",
			setup: func(t *testing.T, v *viper.Viper) {
				t.Helper()
				v.Set("llm.provider", "anthropic")
				v.Set("llm.api_key", "configured")
				t.Setenv("ANTHROPIC_API_KEY", "ignored")
			},
			wantKey: "configured",
		},
		{
			name: "unknown provider",
			setup: func(_ *testing.T, v *viper.Viper) {
				v.Set("llm.provider", "ollama")
			},
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestViper(t)
			tt.setup(t, v)

			cfg, err := llmConfig(v)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, cfg.APIKey)
			assert.Equal(t, 5, cfg.NumSuggestions)
		})
	}
}
