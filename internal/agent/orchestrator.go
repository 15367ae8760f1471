// Package agent runs the conversation between the language model and the
// changelog tools: it sends the history with the system prompt, executes
// whatever tools the model asks for, and repeats until the model answers.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"
)

// DefaultMaxIterations bounds model round-trips per Run when unset.
const DefaultMaxIterations = 25

// ErrMaxIterations is returned when the model keeps calling tools past the
// iteration limit without producing an answer.
var ErrMaxIterations = errors.New("agent stopped after reaching the iteration limit")

// ToolSet is the tool surface the orchestrator hands to the model.
type ToolSet interface {
	Definitions() []llms.Tool
	Invoke(ctx context.Context, name, rawArgs string) string
}

// Options tunes an Orchestrator.
type Options struct {
	// SystemPrompt defaults to SystemPrompt.
	SystemPrompt  string
	Temperature   float64
	MaxIterations int
	Logger        zerolog.Logger
}

// Orchestrator binds a model, a tool set, and a system prompt.
type Orchestrator struct {
	model  llms.Model
	tools  ToolSet
	prompt string
	temp   float64
	limit  int
	logger zerolog.Logger
}

// New creates an Orchestrator.
func New(model llms.Model, tools ToolSet, opts Options) *Orchestrator {
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = SystemPrompt
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	return &Orchestrator{
		model:  model,
		tools:  tools,
		prompt: opts.SystemPrompt,
		temp:   opts.Temperature,
		limit:  opts.MaxIterations,
		logger: opts.Logger,
	}
}

// Run sends history to the model and returns it extended with every model
// and tool message of this turn; the last element is the model's answer.
// history must not include the system prompt. On error the returned history
// holds whatever was exchanged before the failure.
func (o *Orchestrator) Run(ctx context.Context, history []llms.MessageContent) ([]llms.MessageContent, error) {
	updated := make([]llms.MessageContent, len(history), len(history)+4)
	copy(updated, history)

	opts := []llms.CallOption{llms.WithTemperature(o.temp)}
	if defs := o.tools.Definitions(); len(defs) > 0 {
		opts = append(opts, llms.WithTools(defs))
	}

	for iteration := 1; iteration <= o.limit; iteration++ {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		resp, err := o.model.GenerateContent(ctx, o.withSystem(updated), opts...)
		if err != nil {
			return updated, fmt.Errorf("generating response: %w", err)
		}
		if len(resp.Choices) == 0 {
			return updated, errors.New("model returned no choices")
		}
		choice := resp.Choices[0]

		o.logger.Debug().
			Int("iteration", iteration).
			Int("tool_calls", len(choice.ToolCalls)).
			Str("stop_reason", choice.StopReason).
			Msg("model round-trip")

		updated = append(updated, aiMessage(choice))
		if len(choice.ToolCalls) == 0 {
			return updated, nil
		}

		for _, call := range choice.ToolCalls {
			updated = append(updated, o.invoke(ctx, call))
		}
	}

	return updated, fmt.Errorf("%w (%d)", ErrMaxIterations, o.limit)
}

func (o *Orchestrator) withSystem(history []llms.MessageContent) []llms.MessageContent {
	msgs := make([]llms.MessageContent, 0, len(history)+1)
	msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeSystem, o.prompt))
	return append(msgs, history...)
}

func (o *Orchestrator) invoke(ctx context.Context, call llms.ToolCall) llms.MessageContent {
	var name, args string
	if call.FunctionCall != nil {
		name = call.FunctionCall.Name
		args = call.FunctionCall.Arguments
	}
	return llms.MessageContent{
		Role: llms.ChatMessageTypeTool,
		Parts: []llms.ContentPart{
			llms.ToolCallResponse{
				ToolCallID: call.ID,
				Name:       name,
				Content:    o.tools.Invoke(ctx, name, args),
			},
		},
	}
}

func aiMessage(choice *llms.ContentChoice) llms.MessageContent {
	msg := llms.MessageContent{Role: llms.ChatMessageTypeAI}
	if choice.Content != "" {
		msg.Parts = append(msg.Parts, llms.TextContent{Text: choice.Content})
	}
	for _, call := range choice.ToolCalls {
		msg.Parts = append(msg.Parts, call)
	}
	return msg
}

// UserMessage wraps a query as a human message.
func UserMessage(text string) llms.MessageContent {
	return llms.TextParts(llms.ChatMessageTypeHuman, text)
}

// Text joins the text parts of a message.
func Text(msg llms.MessageContent) string {
	var parts []string
	for _, p := range msg.Parts {
		if t, ok := p.(llms.TextContent); ok {
			parts = append(parts, t.Text)
		}
	}
	return strings.Join(parts, "")
}

// FinalAnswer returns the last model message in history and its text.
func FinalAnswer(history []llms.MessageContent) (llms.MessageContent, string, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == llms.ChatMessageTypeAI {
			return history[i], Text(history[i]), true
		}
	}
	return llms.MessageContent{}, "", false
}
