package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# autochangelog configuration
# Priority: AUTOCHANGELOG_* env > .autochangelog/config.yml > user config > defaults

# Language model
llm:
  provider: openai                    # openai | anthropic | ollama | googleai
  model: gpt-4o
  base_url: ""                        # OpenAI-compatible proxy (e.g. LiteLLM) or ollama server
  api_key_env: LITELLM_API_KEY        # Env var holding the provider key (not needed for ollama)
  temperature: 0
  max_iterations: 25                  # Model round-trips allowed per answer (1-100)

# GitHub REST API
github:
  api_url: https://api.github.com
  api_version: "2022-11-28"
  token_env: GITHUB_TOKEN             # Env var holding the GitHub token
  timeout: 30s                        # Per-request timeout (0 = none)
  requests_per_second: 0              # Client-side pacing (0 = unlimited)

# Conversation tracing (OTLP over HTTP)
telemetry:
  enabled: false
  endpoint: ""                        # e.g. https://collector.example.com/v1/traces
  api_key_env: TELEMETRY_API_KEY      # Sent as the x-api-key header
  app_name: autochangelog
  tenant_id: ""

# Terminal output
output:
  plain: false                        # Disable colors in rendered markdown

log_level: warn                       # debug | info | warn | error
`
}

// GetDefaults returns the default configuration values as a flat koanf key map.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"llm.provider":       "openai",
		"llm.model":          "gpt-4o",
		"llm.base_url":       "",
		"llm.api_key_env":    "LITELLM_API_KEY",
		"llm.temperature":    0.0,
		"llm.max_iterations": 25,

		"github.api_url":             "https://api.github.com",
		"github.api_version":         "2022-11-28",
		"github.token_env":           "GITHUB_TOKEN",
		"github.timeout":             "30s",
		"github.requests_per_second": 0.0,

		"telemetry.enabled":     false,
		"telemetry.endpoint":    "",
		"telemetry.api_key_env": "TELEMETRY_API_KEY",
		"telemetry.app_name":    "autochangelog",
		"telemetry.tenant_id":   "",

		"output.plain": false,
		"log_level":    "warn",
	}
}
