package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netrach/autochangelog/internal/config"
)

func configWithProvider(provider string) config.LLMConfig {
	return config.LLMConfig{Provider: provider, Model: "test-model"}
}

func TestNewModel_Providers(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cfg config.LLMConfig
	}{
		"openai": {cfg: configWithProvider("openai")},
		"openai compatible proxy": {
			cfg: config.LLMConfig{Provider: "openai", Model: "litellm_proxy/gpt-4o", BaseURL: "https://llm.example.com"},
		},
		"anthropic": {cfg: configWithProvider("anthropic")},
		"ollama": {
			cfg: config.LLMConfig{Provider: "ollama", Model: "llama3", BaseURL: "http://localhost:11434"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			m, err := NewModel(context.Background(), tt.cfg, "test-key")
			require.NoError(t, err)
			assert.NotNil(t, m)
		})
	}
}
