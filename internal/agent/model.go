package agent

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/netrach/autochangelog/internal/config"
	clierrors "github.com/netrach/autochangelog/internal/errors"
)

// Providers lists the supported llm.provider values.
var Providers = []string{"openai", "anthropic", "ollama", "googleai"}

// NewModel binds the configured provider. apiKey is ignored for ollama.
func NewModel(ctx context.Context, cfg config.LLMConfig, apiKey string) (llms.Model, error) {
	switch cfg.Provider {
	case "openai":
		return newOpenAIModel(cfg, apiKey)
	case "anthropic":
		return newAnthropicModel(cfg, apiKey)
	case "ollama":
		return newOllamaModel(cfg)
	case "googleai":
		return newGoogleAIModel(ctx, cfg, apiKey)
	default:
		return nil, clierrors.UnsupportedProvider(cfg.Provider, Providers)
	}
}

// newOpenAIModel also serves OpenAI-compatible proxies such as LiteLLM
// when base_url is set.
func newOpenAIModel(cfg config.LLMConfig, apiKey string) (llms.Model, error) {
	opts := []openai.Option{
		openai.WithModel(cfg.Model),
		openai.WithToken(apiKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	m, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating openai model: %w", err)
	}
	return m, nil
}

func newAnthropicModel(cfg config.LLMConfig, apiKey string) (llms.Model, error) {
	opts := []anthropic.Option{
		anthropic.WithModel(cfg.Model),
		anthropic.WithToken(apiKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}
	m, err := anthropic.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating anthropic model: %w", err)
	}
	return m, nil
}

func newOllamaModel(cfg config.LLMConfig) (llms.Model, error) {
	opts := []ollama.Option{ollama.WithModel(cfg.Model)}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}
	m, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating ollama model: %w", err)
	}
	return m, nil
}

func newGoogleAIModel(ctx context.Context, cfg config.LLMConfig, apiKey string) (llms.Model, error) {
	m, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating googleai model: %w", err)
	}
	return m, nil
}
