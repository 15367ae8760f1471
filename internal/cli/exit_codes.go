package cli

import clierrors "github.com/netrach/autochangelog/internal/errors"

// Exit codes for the autochangelog CLI
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitRuntimeError covers model, network and output failures
	ExitRuntimeError = 1

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitConfigError indicates invalid configuration or missing credentials
	ExitConfigError = 4
)

// ExitCode maps an error returned by Execute to the process exit status.
func ExitCode(err error) int {
	return clierrors.ExitCodeFor(err)
}
