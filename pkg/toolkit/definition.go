// pkg/toolkit/definition.go

// Package toolkit is the shared layer every adapter package builds on. It turns
// a static list of tool definitions plus a handler into something that can be
// listed in the shapes LLM frameworks expect and executed with validated input.
package toolkit

import "context"

// Definition describes one tool: its name, what it does, and the JSON schema of
// its parameters. The parameters map is always an object schema.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Func executes one tool with parameters that already passed schema validation.
type Func func(ctx context.Context, params map[string]any) (any, error)

// Handler exposes the per-tool functions of an adapter, keyed by tool name.
type Handler interface {
	Funcs() map[string]Func
}

// HandlerFuncs adapts a plain map to the Handler interface.
type HandlerFuncs map[string]Func

// Funcs returns the map itself.
func (h HandlerFuncs) Funcs() map[string]Func { return h }

// Bind turns a typed adapter method into a Func. The validated params are
// decoded into P before fn runs; a value P cannot hold is a *ValidationError
// and fn is not called.
func Bind[P any, R any](fn func(context.Context, P) (R, error)) Func {
	return func(ctx context.Context, params map[string]any) (any, error) {
		var p P
		if err := Decode(params, &p); err != nil {
			return nil, decodeError(err)
		}
		return fn(ctx, p)
	}
}

// clone returns a deep copy of the definition so callers cannot mutate the
// registry's copy through the returned maps.
func (d Definition) clone() Definition {
	return Definition{
		Name:        d.Name,
		Description: d.Description,
		Parameters:  cloneMap(d.Parameters),
	}
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	default:
		return v
	}
}
