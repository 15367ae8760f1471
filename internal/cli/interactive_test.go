package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/netrach/autochangelog/internal/agent"
)

type recordingRecorder struct {
	recorded int
}

func (r *recordingRecorder) RecordConversation(context.Context, []llms.MessageContent) {
	r.recorded++
}

func newSession(input string, runner Runner) (*Session, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &Session{
		Runner: runner,
		In:     strings.NewReader(input),
		Out:    &out,
		ErrOut: &errOut,
	}, &out, &errOut
}

func TestSession_ExitAndEmptyInput(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input       string
		wantPrompts int
	}{
		"exit lowercase":       {input: "exit\n", wantPrompts: 1},
		"exit uppercase":       {input: "EXIT\n", wantPrompts: 1},
		"exit mixed case":      {input: "eXiT\n", wantPrompts: 1},
		"empty then exit":      {input: "\n\nExit\n", wantPrompts: 3},
		"whitespace then exit": {input: "   \n\t\nexit\n", wantPrompts: 3},
		"end of input":         {input: "\n", wantPrompts: 2},
		"no input at all":      {input: "", wantPrompts: 1},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			runner := &fakeRunner{reply: "unused"}
			s, out, _ := newSession(tt.input, runner)

			require.NoError(t, s.Run(context.Background()))

			assert.Empty(t, runner.calls, "the orchestrator is never invoked")
			assert.Equal(t, tt.wantPrompts, strings.Count(out.String(), InteractivePrompt))
		})
	}
}

func TestSession_HistoryAccumulates(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{reply: "# Changelog"}
	rec := &recordingRecorder{}
	s, out, _ := newSession("first question\nfollow up\nexit\n", runner)
	s.Recorder = rec

	require.NoError(t, s.Run(context.Background()))

	require.Len(t, runner.calls, 2)
	assert.Len(t, runner.calls[0], 1)
	second := runner.calls[1]
	require.Len(t, second, 3, "second turn sees first query, first answer, and new query")
	assert.Equal(t, llms.ChatMessageTypeHuman, second[0].Role)
	assert.Equal(t, "first question", agent.Text(second[0]))
	assert.Equal(t, llms.ChatMessageTypeAI, second[1].Role)
	assert.Equal(t, "follow up", agent.Text(second[2]))

	assert.Len(t, s.History(), 4)
	assert.Equal(t, 2, rec.recorded)
	assert.Equal(t, 2, strings.Count(out.String(), "# Changelog\n"))
}

func TestSession_RenderHook(t *testing.T) {
	t.Parallel()

	s, out, _ := newSession("hi\nexit\n", &fakeRunner{reply: "**bold**"})
	var rendered []string
	s.Render = func(_ io.Writer, md string) error {
		rendered = append(rendered, md)
		return nil
	}

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, []string{"**bold**"}, rendered)
	assert.NotContains(t, out.String(), "**bold**")
}

func TestSession_FailedTurnIsDropped(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{err: errors.New("upstream timeout")}
	s, out, errOut := newSession("question\nexit\n", runner)

	require.NoError(t, s.Run(context.Background()))

	assert.Len(t, runner.calls, 1)
	assert.Empty(t, s.History(), "unanswered query is not kept")
	assert.Contains(t, errOut.String(), "changelog generation failed: upstream timeout")
	assert.Equal(t, 2, strings.Count(out.String(), InteractivePrompt), "loop re-prompts after an error")
}

func TestSession_CancelledContextStops(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	runner := &cancellingRunner{cancel: cancel}
	s, _, _ := newSession("question\nanother\nexit\n", runner)

	err := s.Run(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, runner.calls)
}

type cancellingRunner struct {
	cancel context.CancelFunc
	calls  int
}

func (c *cancellingRunner) Run(ctx context.Context, history []llms.MessageContent) ([]llms.MessageContent, error) {
	c.calls++
	c.cancel()
	return history, ctx.Err()
}
