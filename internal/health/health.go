// Package health checks that autochangelog can run in the current
// environment without contacting any service. The results back the
// 'autochangelog doctor' command.
package health

import (
	"fmt"
	"strings"

	"github.com/netrach/autochangelog/internal/config"
	"github.com/netrach/autochangelog/internal/git"
)

// RepoLocator finds the repository of the working directory.
type RepoLocator interface {
	CurrentRepoURL() (string, error)
}

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Optional checks are reported but do not fail the report.
	Optional bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// RunHealthChecks runs all health checks against a loaded configuration.
// Credentials are looked up, never resolved, so every missing one is listed.
func RunHealthChecks(cfg *config.Configuration, lookup config.LookupFunc, local RepoLocator) *HealthReport {
	report := &HealthReport{
		Checks: []CheckResult{
			CheckLLMCredential(cfg.LLM, lookup),
			CheckGitHubToken(cfg.GitHub, lookup),
			CheckTelemetry(cfg.Telemetry, lookup),
			CheckRepository(local),
		},
		Passed: true,
	}
	for _, check := range report.Checks {
		if !check.Passed && !check.Optional {
			report.Passed = false
		}
	}
	return report
}

// CheckLLMCredential checks the language model key. Ollama runs locally and
// needs none.
func CheckLLMCredential(llm config.LLMConfig, lookup config.LookupFunc) CheckResult {
	name := fmt.Sprintf("LLM credential (%s)", llm.Provider)
	if llm.Provider == "ollama" {
		return CheckResult{Name: name, Passed: true, Message: "not required for ollama"}
	}
	return envCheck(name, llm.APIKeyEnv, lookup)
}

// CheckGitHubToken checks the GitHub token.
func CheckGitHubToken(gh config.GitHubConfig, lookup config.LookupFunc) CheckResult {
	return envCheck("GitHub token", gh.TokenEnv, lookup)
}

func envCheck(name, key string, lookup config.LookupFunc) CheckResult {
	if _, ok := lookup(key); !ok {
		return CheckResult{Name: name, Passed: false, Message: key + " is not set"}
	}
	return CheckResult{Name: name, Passed: true, Message: key + " is set"}
}

// CheckTelemetry checks that enabled telemetry has an endpoint and a key.
func CheckTelemetry(t config.TelemetryConfig, lookup config.LookupFunc) CheckResult {
	if !t.Enabled {
		return CheckResult{Name: "Telemetry", Passed: true, Message: "disabled"}
	}

	var missing []string
	if strings.TrimSpace(t.Endpoint) == "" {
		missing = append(missing, "telemetry.endpoint")
	}
	if _, ok := lookup(t.APIKeyEnv); !ok {
		missing = append(missing, t.APIKeyEnv)
	}
	if len(missing) > 0 {
		return CheckResult{Name: "Telemetry", Passed: false, Message: "missing " + strings.Join(missing, ", ")}
	}
	return CheckResult{Name: "Telemetry", Passed: true, Message: "sending to " + t.Endpoint}
}

// CheckRepository reports the GitHub repository of the working directory.
// Without one, --auto needs --repo, so the check is optional.
func CheckRepository(local RepoLocator) CheckResult {
	result := CheckResult{Name: "Current repository", Optional: true}

	url, err := local.CurrentRepoURL()
	switch {
	case err != nil:
		result.Message = err.Error()
	case url == "":
		result.Message = "no git remote found (pass --repo with --auto)"
	default:
		ref, perr := git.ParseRemoteURL(url)
		if perr != nil {
			result.Message = fmt.Sprintf("cannot read owner/name from remote %s", url)
			break
		}
		result.Passed = true
		result.Message = ref.String()
	}
	return result
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var b strings.Builder
	for _, check := range report.Checks {
		mark := "✓"
		switch {
		case check.Passed:
		case check.Optional:
			mark = "○"
		default:
			mark = "✗"
		}
		fmt.Fprintf(&b, "%s %s: %s\n", mark, check.Name, check.Message)
	}
	return b.String()
}
