package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCategory_ExitCode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		category ErrorCategory
		want     int
	}{
		"argument":      {category: Argument, want: 3},
		"configuration": {category: Configuration, want: 4},
		"runtime":       {category: Runtime, want: 1},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.category.ExitCode())
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, ExitCodeFor(nil))
	assert.Equal(t, 1, ExitCodeFor(fmt.Errorf("boom")))
	assert.Equal(t, 4, ExitCodeFor(MissingCredential("GITHUB_TOKEN", "token")))

	wrapped := fmt.Errorf("startup: %w", InvalidRepoRef("nope"))
	assert.Equal(t, 3, ExitCodeFor(wrapped))
}

func TestWrap_PreservesCause(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("permission denied")
	err := WrapWithMessage(cause, Runtime, "writing output")

	assert.Equal(t, "writing output: permission denied", err.Error())
	assert.True(t, stderrors.Is(err, cause))
	assert.Nil(t, Wrap(nil, Runtime))
}

func TestFormatErrorPlain(t *testing.T) {
	t.Parallel()

	out := FormatErrorPlain(MissingCredential("LITELLM_API_KEY", "api key"))

	assert.Contains(t, out, "Error [Configuration Error]: LITELLM_API_KEY environment variable is not set.")
	assert.Contains(t, out, "To fix this:")
	assert.Contains(t, out, "  • Export it: export LITELLM_API_KEY=<api key>")
}

func TestFormatErrorPlain_Usage(t *testing.T) {
	t.Parallel()

	out := FormatErrorPlain(InvalidRepoRef("a/b/c"))

	assert.Contains(t, out, `invalid repository reference: "a/b/c"`)
	assert.Contains(t, out, "Usage: autochangelog --auto --repo")
}

func TestFprintAny(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	FprintAny(&buf, fmt.Errorf("model unavailable"))
	require.NotEmpty(t, buf.String())
	assert.Contains(t, buf.String(), "model unavailable")

	buf.Reset()
	FprintAny(&buf, nil)
	assert.Empty(t, buf.String())
}
