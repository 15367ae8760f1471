package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the autochangelog CLI.

// MissingCredential reports a required environment variable that is not set.
func MissingCredential(envVar, purpose string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("%s environment variable is not set.", envVar),
		fmt.Sprintf("Export it: export %s=<%s>", envVar, purpose),
		fmt.Sprintf("Or add %s=<%s> to a .env file in the working directory", envVar, purpose),
	)
}

// MissingTelemetrySetting reports an incomplete telemetry configuration
// while tracing is enabled.
func MissingTelemetrySetting(missing ...string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("telemetry is enabled but %s must be set.", strings.Join(missing, " and ")),
		"Set telemetry.endpoint in config or AUTOCHANGELOG_TELEMETRY_ENDPOINT",
		"Or disable tracing: telemetry.enabled: false",
	)
}

// InvalidRepoRef reports a --repo value that is not owner/name or a GitHub URL.
func InvalidRepoRef(provided string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid repository reference: %q", provided),
		"autochangelog --auto --repo <owner/repo> [<owner/repo>...]",
		"Use the owner/name form, e.g. octocat/hello-world",
		"Or a GitHub URL, e.g. https://github.com/octocat/hello-world",
	)
}

// UnsupportedProvider reports an llm.provider value with no model binding.
func UnsupportedProvider(provider string, supported []string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("unsupported llm provider: %q", provider),
		fmt.Sprintf("Set llm.provider to one of: %s", strings.Join(supported, ", ")),
	)
}
