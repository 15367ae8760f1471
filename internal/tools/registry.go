package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"
)

// Registry keeps the registered tools in registration order.
type Registry struct {
	tools  []Tool
	byName map[string]int
	logger zerolog.Logger
}

// NewRegistry creates an empty registry that logs invocations to logger.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		byName: make(map[string]int),
		logger: logger,
	}
}

// Register adds a tool when its name is not in use.
func (r *Registry) Register(tool Tool) error {
	if tool.Name == "" {
		return errors.New("tool name is empty")
	}
	if tool.Handler == nil {
		return fmt.Errorf("tool %s has no handler", tool.Name)
	}
	if _, exists := r.byName[tool.Name]; exists {
		return fmt.Errorf("tool %s already registered", tool.Name)
	}
	r.byName[tool.Name] = len(r.tools)
	r.tools = append(r.tools, tool)
	return nil
}

// Names lists registered tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.Name
	}
	return names
}

// Definitions returns the function declarations handed to the model.
func (r *Registry) Definitions() []llms.Tool {
	defs := make([]llms.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Schema(),
			},
		})
	}
	return defs
}

// Invoke runs the named tool with JSON-encoded arguments. Unknown tools and
// bad arguments produce an "Error: ..." string for the model to read.
func (r *Registry) Invoke(ctx context.Context, name, rawArgs string) string {
	idx, ok := r.byName[name]
	if !ok {
		r.logger.Debug().Str("tool", name).Msg("unknown tool requested")
		return fmt.Sprintf("Error: unknown tool %q", name)
	}
	tool := r.tools[idx]

	args, err := tool.bind(rawArgs)
	if err != nil {
		r.logger.Debug().Str("tool", name).Err(err).Msg("rejected tool arguments")
		return "Error: " + err.Error()
	}

	result := tool.Handler(ctx, args)
	r.logger.Debug().
		Str("tool", name).
		Strs("args", argKeys(args)).
		Int("result_len", len(result)).
		Msg("tool call")
	return result
}

func argKeys(args Args) []string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	return keys
}
