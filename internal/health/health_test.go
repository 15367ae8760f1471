package health

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netrach/autochangelog/internal/config"
)

type stubLocator struct {
	url string
	err error
}

func (s stubLocator) CurrentRepoURL() (string, error) { return s.url, s.err }

func lookupFrom(vars map[string]string) config.LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok && v != ""
	}
}

func testConfig() *config.Configuration {
	return &config.Configuration{
		LLM:       config.LLMConfig{Provider: "openai", APIKeyEnv: "LITELLM_API_KEY"},
		GitHub:    config.GitHubConfig{TokenEnv: "GITHUB_TOKEN"},
		Telemetry: config.TelemetryConfig{APIKeyEnv: "TELEMETRY_API_KEY"},
	}
}

func TestRunHealthChecks(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mutate     func(*config.Configuration)
		vars       map[string]string
		local      RepoLocator
		wantPassed bool
		wantFailed []string
	}{
		"everything present": {
			vars:       map[string]string{"LITELLM_API_KEY": "k", "GITHUB_TOKEN": "t"},
			local:      stubLocator{url: "https://github.com/octo/app.git"},
			wantPassed: true,
		},
		"missing github token": {
			vars:       map[string]string{"LITELLM_API_KEY": "k"},
			local:      stubLocator{url: "https://github.com/octo/app.git"},
			wantFailed: []string{"GitHub token"},
		},
		"ollama needs no llm key": {
			mutate:     func(c *config.Configuration) { c.LLM.Provider = "ollama" },
			vars:       map[string]string{"GITHUB_TOKEN": "t"},
			local:      stubLocator{url: "git@github.com:octo/app.git"},
			wantPassed: true,
		},
		"no repository is optional": {
			vars:       map[string]string{"LITELLM_API_KEY": "k", "GITHUB_TOKEN": "t"},
			local:      stubLocator{},
			wantPassed: true,
			wantFailed: []string{"Current repository"},
		},
		"telemetry enabled without settings": {
			mutate:     func(c *config.Configuration) { c.Telemetry.Enabled = true },
			vars:       map[string]string{"LITELLM_API_KEY": "k", "GITHUB_TOKEN": "t"},
			local:      stubLocator{url: "https://github.com/octo/app"},
			wantFailed: []string{"Telemetry"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}

			report := RunHealthChecks(cfg, lookupFrom(tt.vars), tt.local)

			require.Len(t, report.Checks, 4)
			assert.Equal(t, tt.wantPassed, report.Passed)
			var failed []string
			for _, c := range report.Checks {
				if !c.Passed {
					failed = append(failed, c.Name)
				}
			}
			assert.Equal(t, tt.wantFailed, failed)
		})
	}
}

func TestCheckTelemetry_Messages(t *testing.T) {
	t.Parallel()

	tel := config.TelemetryConfig{Enabled: true, APIKeyEnv: "TELEMETRY_API_KEY"}
	result := CheckTelemetry(tel, lookupFrom(nil))
	assert.Equal(t, "missing telemetry.endpoint, TELEMETRY_API_KEY", result.Message)

	tel.Endpoint = "https://collector.example.com"
	result = CheckTelemetry(tel, lookupFrom(map[string]string{"TELEMETRY_API_KEY": "x"}))
	assert.True(t, result.Passed)
	assert.Equal(t, "sending to https://collector.example.com", result.Message)
}

func TestCheckRepository(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		local       RepoLocator
		wantPassed  bool
		wantMessage string
	}{
		"https remote": {
			local:       stubLocator{url: "https://github.com/octo/app.git"},
			wantPassed:  true,
			wantMessage: "octo/app",
		},
		"no remote": {
			local:       stubLocator{},
			wantMessage: "no git remote found (pass --repo with --auto)",
		},
		"unparseable remote": {
			local:       stubLocator{url: "/srv/git/app"},
			wantMessage: "cannot read owner/name from remote /srv/git/app",
		},
		"inspector error": {
			local:       stubLocator{err: errors.New("corrupt config")},
			wantMessage: "corrupt config",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			result := CheckRepository(tt.local)
			assert.True(t, result.Optional)
			assert.Equal(t, tt.wantPassed, result.Passed)
			assert.Equal(t, tt.wantMessage, result.Message)
		})
	}
}

func TestFormatReport(t *testing.T) {
	t.Parallel()

	report := &HealthReport{
		Checks: []CheckResult{
			{Name: "GitHub token", Passed: true, Message: "GITHUB_TOKEN is set"},
			{Name: "LLM credential (openai)", Passed: false, Message: "LITELLM_API_KEY is not set"},
			{Name: "Current repository", Optional: true, Message: "no git remote found (pass --repo with --auto)"},
		},
	}

	assert.Equal(t,
		"✓ GitHub token: GITHUB_TOKEN is set\n"+
			"✗ LLM credential (openai): LITELLM_API_KEY is not set\n"+
			"○ Current repository: no git remote found (pass --repo with --auto)\n",
		FormatReport(report))
}
