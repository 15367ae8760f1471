package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clierrors "github.com/netrach/autochangelog/internal/errors"
)

func mapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok && v != ""
	}
}

func defaultConfig(t *testing.T) *Configuration {
	t.Helper()
	cfg, err := LoadWithOptions(LoadOptions{UserConfigPath: noUserConfig(t)})
	require.NoError(t, err)
	return cfg
}

func TestResolveCredentials(t *testing.T) {
	tests := map[string]struct {
		mutate  func(cfg *Configuration)
		env     map[string]string
		want    *Credentials
		wantErr string
	}{
		"all present": {
			env:  map[string]string{"LITELLM_API_KEY": "sk-1", "GITHUB_TOKEN": "ghp-1"},
			want: &Credentials{LLMAPIKey: "sk-1", GitHubToken: "ghp-1"},
		},
		"missing llm key": {
			env:     map[string]string{"GITHUB_TOKEN": "ghp-1"},
			wantErr: "LITELLM_API_KEY environment variable is not set.",
		},
		"missing github token": {
			env:     map[string]string{"LITELLM_API_KEY": "sk-1"},
			wantErr: "GITHUB_TOKEN environment variable is not set.",
		},
		"empty value counts as missing": {
			env:     map[string]string{"LITELLM_API_KEY": "sk-1", "GITHUB_TOKEN": ""},
			wantErr: "GITHUB_TOKEN environment variable is not set.",
		},
		"custom variable names": {
			mutate: func(cfg *Configuration) {
				cfg.LLM.APIKeyEnv = "OPENAI_API_KEY"
				cfg.GitHub.TokenEnv = "GH_TOKEN"
			},
			env:  map[string]string{"OPENAI_API_KEY": "sk-2", "GH_TOKEN": "ghp-2"},
			want: &Credentials{LLMAPIKey: "sk-2", GitHubToken: "ghp-2"},
		},
		"ollama needs no llm key": {
			mutate: func(cfg *Configuration) { cfg.LLM.Provider = "ollama" },
			env:    map[string]string{"GITHUB_TOKEN": "ghp-1"},
			want:   &Credentials{GitHubToken: "ghp-1"},
		},
		"telemetry enabled and complete": {
			mutate: func(cfg *Configuration) {
				cfg.Telemetry.Enabled = true
				cfg.Telemetry.Endpoint = "https://collector.example.com/v1/traces"
			},
			env:  map[string]string{"LITELLM_API_KEY": "sk-1", "GITHUB_TOKEN": "ghp-1", "TELEMETRY_API_KEY": "tk"},
			want: &Credentials{LLMAPIKey: "sk-1", GitHubToken: "ghp-1", TelemetryAPIKey: "tk"},
		},
		"telemetry enabled without endpoint or key": {
			mutate:  func(cfg *Configuration) { cfg.Telemetry.Enabled = true },
			env:     map[string]string{"LITELLM_API_KEY": "sk-1", "GITHUB_TOKEN": "ghp-1"},
			wantErr: "telemetry is enabled but telemetry.endpoint and TELEMETRY_API_KEY must be set.",
		},
		"telemetry disabled ignores missing key": {
			env:  map[string]string{"LITELLM_API_KEY": "sk-1", "GITHUB_TOKEN": "ghp-1"},
			want: &Credentials{LLMAPIKey: "sk-1", GitHubToken: "ghp-1"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := defaultConfig(t)
			if tt.mutate != nil {
				tt.mutate(cfg)
			}

			got, err := ResolveCredentials(cfg, mapLookup(tt.env))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				cliErr := clierrors.AsCLIError(err)
				require.NotNil(t, cliErr)
				assert.Equal(t, clierrors.Configuration, cliErr.Category)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnvLookup_DotEnvFallback(t *testing.T) {
	path := writeFile(t, t.TempDir(), ".env", "AUTOCHANGELOG_TEST_FROM_FILE=file-value\nAUTOCHANGELOG_TEST_SHADOWED=file-value\n")
	t.Setenv("AUTOCHANGELOG_TEST_SHADOWED", "process-value")

	lookup, err := EnvLookup(path)
	require.NoError(t, err)

	v, ok := lookup("AUTOCHANGELOG_TEST_FROM_FILE")
	assert.True(t, ok)
	assert.Equal(t, "file-value", v)

	v, ok = lookup("AUTOCHANGELOG_TEST_SHADOWED")
	assert.True(t, ok)
	assert.Equal(t, "process-value", v, "process environment wins over .env")

	_, ok = lookup("AUTOCHANGELOG_TEST_ABSENT")
	assert.False(t, ok)
}

func TestEnvLookup_MissingFile(t *testing.T) {
	t.Setenv("AUTOCHANGELOG_TEST_ONLY_ENV", "v")

	lookup, err := EnvLookup(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)

	v, ok := lookup("AUTOCHANGELOG_TEST_ONLY_ENV")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
