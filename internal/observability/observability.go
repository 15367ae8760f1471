// Package observability records finished conversations as OpenTelemetry
// spans and ships them to an OTLP/HTTP collector. A disabled Recorder is a
// no-op.
package observability

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/netrach/autochangelog/internal/agent"
)

const tracerName = "github.com/netrach/autochangelog/internal/observability"

// Settings configures a Recorder.
type Settings struct {
	Enabled  bool
	Endpoint string
	APIKey   string
	AppName  string
	TenantID string
	// UserID is usually the local git committer name.
	UserID string
	// LLMSystem and Model describe the backend on the root span.
	LLMSystem string
	Model     string
}

// Recorder turns conversation histories into trace spans.
type Recorder struct {
	provider  *sdktrace.TracerProvider
	tracer    trace.Tracer
	sessionID string
	settings  Settings
}

// New creates a Recorder exporting synchronously to settings.Endpoint, with
// the API key sent as the x-api-key header. Disabled settings yield a no-op.
func New(ctx context.Context, settings Settings) (*Recorder, error) {
	if !settings.Enabled {
		return &Recorder{}, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(settings.Endpoint),
		otlptracehttp.WithHeaders(map[string]string{"x-api-key": settings.APIKey}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", settings.AppName),
		)),
	)
	return NewWithProvider(provider, settings), nil
}

// NewWithProvider creates a Recorder on an existing tracer provider.
func NewWithProvider(provider *sdktrace.TracerProvider, settings Settings) *Recorder {
	return &Recorder{
		provider:  provider,
		tracer:    provider.Tracer(tracerName),
		sessionID: uuid.NewString(),
		settings:  settings,
	}
}

// Enabled reports whether spans are exported.
func (r *Recorder) Enabled() bool {
	return r.provider != nil
}

// SessionID identifies this process's conversation; empty when disabled.
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// RecordConversation emits one agent_thought_process span with a child span
// per message: user_message, ai_response, or tool_call.
func (r *Recorder) RecordConversation(ctx context.Context, history []llms.MessageContent) {
	if !r.Enabled() {
		return
	}

	ctx, root := r.tracer.Start(ctx, "agent_thought_process", trace.WithAttributes(
		attribute.String("llm.system", r.settings.LLMSystem),
		attribute.String("llm.model", r.settings.Model),
		attribute.String("session.id", r.sessionID),
		attribute.String("user.id", r.settings.UserID),
		attribute.String("tenant.id", r.settings.TenantID),
	))
	defer root.End()

	for _, msg := range history {
		switch msg.Role {
		case llms.ChatMessageTypeHuman:
			r.span(ctx, "user_message", attribute.String("content", agent.Text(msg)))
		case llms.ChatMessageTypeAI:
			attrs := []attribute.KeyValue{attribute.String("content", agent.Text(msg))}
			if names := toolCallNames(msg); len(names) > 0 {
				attrs = append(attrs, attribute.String("tool_calls", strings.Join(names, ",")))
			}
			r.span(ctx, "ai_response", attrs...)
		case llms.ChatMessageTypeTool:
			for _, part := range msg.Parts {
				if resp, ok := part.(llms.ToolCallResponse); ok {
					r.span(ctx, "tool_call",
						attribute.String("tool_name", resp.Name),
						attribute.String("tool_output", resp.Content),
					)
				}
			}
		}
	}
}

func (r *Recorder) span(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	_, s := r.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	s.End()
}

// Shutdown flushes and stops the exporter.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if !r.Enabled() {
		return nil
	}
	if err := r.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down tracer provider: %w", err)
	}
	return nil
}

func toolCallNames(msg llms.MessageContent) []string {
	var names []string
	for _, part := range msg.Parts {
		if call, ok := part.(llms.ToolCall); ok && call.FunctionCall != nil {
			names = append(names, call.FunctionCall.Name)
		}
	}
	return names
}
