package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// writeFile writes content to dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// noUserConfig points the user config at a path that does not exist.
func noUserConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing", "config.yml")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadWithOptions(LoadOptions{UserConfigPath: noUserConfig(t)})
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, "LITELLM_API_KEY", cfg.LLM.APIKeyEnv)
	assert.Equal(t, 25, cfg.LLM.MaxIterations)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.APIURL)
	assert.Equal(t, "2022-11-28", cfg.GitHub.APIVersion)
	assert.Equal(t, "GITHUB_TOKEN", cfg.GitHub.TokenEnv)
	assert.Equal(t, 30*time.Second, cfg.GitHub.Timeout)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "autochangelog", cfg.Telemetry.AppName)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.Sources)
}

func TestLoad_Priority(t *testing.T) {
	dir := t.TempDir()
	userPath := writeFile(t, dir, "user/config.yml", `
llm:
  model: user-model
  temperature: 0.5
github:
  timeout: 10s
`)
	projectPath := writeFile(t, dir, "project/config.yml", `
llm:
  model: project-model
log_level: info
`)
	t.Setenv("AUTOCHANGELOG_LOG_LEVEL", "debug")
	t.Setenv("AUTOCHANGELOG_LLM_MAX_ITERATIONS", "7")

	cfg, err := LoadWithOptions(LoadOptions{
		ProjectConfigPath: projectPath,
		UserConfigPath:    userPath,
	})
	require.NoError(t, err)

	assert.Equal(t, "project-model", cfg.LLM.Model, "project overrides user")
	assert.Equal(t, 0.5, cfg.LLM.Temperature, "user value survives when project is silent")
	assert.Equal(t, 10*time.Second, cfg.GitHub.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel, "env overrides project")
	assert.Equal(t, 7, cfg.LLM.MaxIterations)
	assert.Equal(t, []string{userPath, projectPath}, cfg.Sources)
}

func TestLoad_JSONProjectConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.json", `{"llm": {"provider": "anthropic", "model": "claude-sonnet"}, "output": {"plain": true}}`)

	cfg, err := LoadWithOptions(LoadOptions{ProjectConfigPath: path, UserConfigPath: noUserConfig(t)})
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "claude-sonnet", cfg.LLM.Model)
	assert.True(t, cfg.Output.Plain)
}

func TestLoad_TrimsAPIURL(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", "github:\n  api_url: https://ghe.example.com/api/v3/\n")

	cfg, err := LoadWithOptions(LoadOptions{ProjectConfigPath: path, UserConfigPath: noUserConfig(t)})
	require.NoError(t, err)
	assert.Equal(t, "https://ghe.example.com/api/v3", cfg.GitHub.APIURL)
}

func TestLoad_LogLevelCaseInsensitive(t *testing.T) {
	tests := map[string]struct {
		env  string
		file string
		want string
	}{
		"upper case env":   {env: "DEBUG", want: "debug"},
		"mixed case env":   {env: "Warn", want: "warn"},
		"padded env":       {env: " info ", want: "info"},
		"upper case file":  {file: "log_level: ERROR\n", want: "error"},
		"lower case value": {env: "info", want: "info"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			opts := LoadOptions{UserConfigPath: noUserConfig(t)}
			if tt.file != "" {
				opts.ProjectConfigPath = writeFile(t, t.TempDir(), "config.yml", tt.file)
			}
			if tt.env != "" {
				t.Setenv("AUTOCHANGELOG_LOG_LEVEL", tt.env)
			}

			cfg, err := LoadWithOptions(opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.LogLevel)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]struct {
		content string
		wantErr []string
	}{
		"unknown provider": {
			content: "llm:\n  provider: bogus\n",
			wantErr: []string{"llm.provider", "must be one of"},
		},
		"zero iterations": {
			content: "llm:\n  max_iterations: 0\n",
			wantErr: []string{"llm.max_iterations", "must be at least 1"},
		},
		"too many iterations": {
			content: "llm:\n  max_iterations: 500\n",
			wantErr: []string{"llm.max_iterations", "must be at most 100"},
		},
		"invalid api url": {
			content: "github:\n  api_url: not a url\n",
			wantErr: []string{"github.api_url", "valid URL"},
		},
		"negative timeout": {
			content: "github:\n  timeout: -5s\n",
			wantErr: []string{"github.timeout", "must not be negative"},
		},
		"bad log level": {
			content: "log_level: loud\n",
			wantErr: []string{"log_level"},
		},
		"yaml syntax": {
			content: "llm:\n  model: [unterminated\n",
			wantErr: []string{"validating YAML syntax for project config"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yml", tt.content)

			_, err := LoadWithOptions(LoadOptions{ProjectConfigPath: path, UserConfigPath: noUserConfig(t)})
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	_, err := LoadWithOptions(LoadOptions{
		ProjectConfigPath: filepath.Join(t.TempDir(), "nope.yml"),
		UserConfigPath:    noUserConfig(t),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", GetDefaultConfigTemplate())

	fromTemplate, err := LoadWithOptions(LoadOptions{ProjectConfigPath: path, UserConfigPath: noUserConfig(t)})
	require.NoError(t, err)
	fromDefaults, err := LoadWithOptions(LoadOptions{UserConfigPath: noUserConfig(t)})
	require.NoError(t, err)

	fromTemplate.Sources = nil
	assert.Equal(t, fromDefaults, fromTemplate)
}

func TestEnvTransform(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  string
	}{
		"top-level key":        {input: "AUTOCHANGELOG_LOG_LEVEL", want: "log_level"},
		"section key":          {input: "AUTOCHANGELOG_LLM_MODEL", want: "llm.model"},
		"section key with _":   {input: "AUTOCHANGELOG_GITHUB_REQUESTS_PER_SECOND", want: "github.requests_per_second"},
		"telemetry section":    {input: "AUTOCHANGELOG_TELEMETRY_API_KEY_ENV", want: "telemetry.api_key_env"},
		"output section":       {input: "AUTOCHANGELOG_OUTPUT_PLAIN", want: "output.plain"},
		"unknown section kept": {input: "AUTOCHANGELOG_FOO_BAR", want: "foo_bar"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, envTransform(tt.input))
		})
	}
}

func TestGitHubConfig_MarshalYAMLDuration(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		timeout time.Duration
		want    string
	}{
		"default":  {timeout: 30 * time.Second, want: "timeout: 30s"},
		"minutes":  {timeout: 90 * time.Second, want: "timeout: 1m30s"},
		"disabled": {timeout: 0, want: "timeout: 0s"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			data, err := yaml.Marshal(Configuration{GitHub: GitHubConfig{APIURL: "https://api.github.com", Timeout: tt.timeout}})
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.want)
			assert.Contains(t, string(data), "api_url: https://api.github.com")
		})
	}
}

func TestGitHubConfig_MarshaledConfigLoadsBack(t *testing.T) {
	original, err := LoadWithOptions(LoadOptions{UserConfigPath: noUserConfig(t)})
	require.NoError(t, err)
	original.GitHub.Timeout = 45 * time.Second

	data, err := yaml.Marshal(original)
	require.NoError(t, err)
	path := writeFile(t, t.TempDir(), "config.yml", string(data))

	reloaded, err := LoadWithOptions(LoadOptions{ProjectConfigPath: path, UserConfigPath: noUserConfig(t)})
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, reloaded.GitHub.Timeout)
	assert.Equal(t, original.GitHub.APIURL, reloaded.GitHub.APIURL)
}
