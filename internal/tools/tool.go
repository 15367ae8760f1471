// Package tools defines the functions the model may call and the registry
// that dispatches them. Every tool returns text: failures are reported as
// strings in the conversation, never as Go errors.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParamType is the JSON Schema type of a tool parameter.
type ParamType string

const (
	String  ParamType = "string"
	Integer ParamType = "integer"
)

// Param describes one named tool argument.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	// Default is applied when the model omits an optional argument.
	Default any
}

// Handler executes a tool with already-validated arguments.
type Handler func(ctx context.Context, args Args) string

// Tool is a named callable exposed to the model.
type Tool struct {
	Name        string
	Description string
	Params      []Param
	Handler     Handler
}

// Schema returns the JSON Schema object describing the tool's parameters.
func (t Tool) Schema() map[string]any {
	properties := make(map[string]any, len(t.Params))
	required := make([]string, 0, len(t.Params))
	for _, p := range t.Params {
		prop := map[string]any{
			"type":        string(p.Type),
			"description": p.Description,
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// Args holds decoded tool arguments after defaults are applied.
type Args map[string]any

// String returns the named argument as a string.
func (a Args) String(name string) string {
	switch v := a[name].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the named argument as an int, or 0 when absent.
func (a Args) Int(name string) int {
	n, _ := toInt(a[name])
	return n
}

// bind decodes raw JSON arguments against the tool's parameters.
func (t Tool) bind(raw string) (Args, error) {
	decoded := map[string]any{}
	if strings.TrimSpace(raw) != "" {
		dec := json.NewDecoder(strings.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&decoded); err != nil {
			return nil, fmt.Errorf("invalid arguments for %s: %w", t.Name, err)
		}
	}

	args := make(Args, len(t.Params))
	for _, p := range t.Params {
		value, present := decoded[p.Name]
		if !present || value == nil || value == "" {
			if p.Required {
				return nil, fmt.Errorf("missing required argument %q for %s", p.Name, t.Name)
			}
			if p.Default != nil {
				args[p.Name] = p.Default
			}
			continue
		}

		switch p.Type {
		case Integer:
			n, ok := toInt(value)
			if !ok {
				return nil, fmt.Errorf("argument %q for %s must be an integer, got %v", p.Name, t.Name, value)
			}
			args[p.Name] = n
		default:
			args[p.Name] = stringValue(value)
		}
	}
	return args, nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if math.Trunc(n) != n {
			return 0, false
		}
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		f, err := n.Float64()
		if err != nil || math.Trunc(f) != f {
			return 0, false
		}
		return int(f), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	default:
		b, err := json.Marshal(s)
		if err != nil {
			return fmt.Sprint(s)
		}
		return string(b)
	}
}
