package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/netrach/autochangelog/internal/agent"
	clierrors "github.com/netrach/autochangelog/internal/errors"
	"github.com/netrach/autochangelog/internal/progress"
)

// InteractivePrompt is printed before every query.
const InteractivePrompt = ">>> Enter your query (or 'exit' to quit): "

// Session is the interactive read-evaluate-print loop. History accumulates
// across turns: each user query and the model's final answer.
type Session struct {
	Runner   Runner
	Recorder ConversationRecorder
	In       io.Reader
	Out      io.Writer
	ErrOut   io.Writer
	// Render prints a model reply; defaults to writing it verbatim.
	Render    func(w io.Writer, markdown string) error
	Indicator *progress.Indicator

	history []llms.MessageContent
}

// History returns the conversation so far.
func (s *Session) History() []llms.MessageContent {
	return s.history
}

// Run loops until "exit" (any case) or end of input. Empty lines are
// ignored. A failed turn is reported and its query dropped from history.
func (s *Session) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.In)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(s.Out, InteractivePrompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.Out)
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			return nil
		}

		input := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(input, "exit") {
			return nil
		}
		if input == "" {
			continue
		}

		if err := s.turn(ctx, input); err != nil {
			if ctx.Err() != nil {
				return runError(ctx.Err())
			}
			clierrors.FprintAny(s.ErrOut, runError(err))
		}
	}
}

func (s *Session) turn(ctx context.Context, input string) error {
	pending := make([]llms.MessageContent, len(s.history), len(s.history)+1)
	copy(pending, s.history)
	pending = append(pending, agent.UserMessage(input))

	s.Indicator.Start("Thinking...")
	updated, err := s.Runner.Run(ctx, pending)
	s.Indicator.Stop()
	if s.Recorder != nil {
		s.Recorder.RecordConversation(ctx, updated)
	}
	if err != nil {
		return err
	}

	final, reply, ok := agent.FinalAnswer(updated[min(len(pending), len(updated)):])
	if !ok {
		return errors.New("the model returned no answer")
	}
	s.history = append(pending, final)

	if s.Render == nil {
		_, err := fmt.Fprintln(s.Out, reply)
		return err
	}
	return s.Render(s.Out, reply)
}

// runInteractive starts a Session on in.
func (a *app) runInteractive(ctx context.Context, in io.Reader) error {
	s := &Session{
		Runner:    a.runner,
		Recorder:  a.recorder,
		In:        in,
		Out:       a.out,
		ErrOut:    a.errOut,
		Render:    a.render,
		Indicator: a.indicator,
	}
	return s.Run(ctx)
}
