// pkg/toolkit/manager.go
package toolkit

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Manager routes a tool name to its schema and handler function. It is built
// once per credential set and is read-only afterwards.
type Manager struct {
	defs    []Definition
	index   map[string]int
	schemas map[string]*Schema
	funcs   map[string]Func
}

// NewManager checks that definitions, schemas, and handler functions describe
// the same set of tool names and returns a Manager over them. A mismatch is a
// programming error in the adapter package, reported here instead of at call time.
func NewManager(defs []Definition, schemas map[string]*Schema, handler Handler) (*Manager, error) {
	if handler == nil {
		return nil, fmt.Errorf("tool manager requires a non-nil handler")
	}
	funcs := handler.Funcs()

	m := &Manager{
		defs:    make([]Definition, 0, len(defs)),
		index:   make(map[string]int, len(defs)),
		schemas: make(map[string]*Schema, len(schemas)),
		funcs:   make(map[string]Func, len(defs)),
	}
	for _, def := range defs {
		if strings.TrimSpace(def.Name) == "" {
			return nil, fmt.Errorf("tool definition with empty name")
		}
		if _, dup := m.index[def.Name]; dup {
			return nil, fmt.Errorf("duplicate tool definition %q", def.Name)
		}
		schema, ok := schemas[def.Name]
		if !ok || schema == nil {
			return nil, &MissingSchemaError{Name: def.Name}
		}
		fn, ok := funcs[def.Name]
		if !ok || fn == nil {
			return nil, &MissingHandlerError{Name: def.Name}
		}
		m.index[def.Name] = len(m.defs)
		m.defs = append(m.defs, def.clone())
		m.schemas[def.Name] = schema
		m.funcs[def.Name] = fn
	}

	var extra []string
	for name := range schemas {
		if _, ok := m.index[name]; !ok {
			extra = append(extra, name)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return nil, fmt.Errorf("schemas without tool definitions: %s", strings.Join(extra, ", "))
	}
	return m, nil
}

// NewManagerFromDefinitions compiles a schema per definition and builds the Manager.
func NewManagerFromDefinitions(defs []Definition, handler Handler) (*Manager, error) {
	schemas, err := SchemasFor(defs)
	if err != nil {
		return nil, err
	}
	return NewManager(defs, schemas, handler)
}

// Tools returns the definitions in registration order. The slice and its maps
// are copies.
func (m *Manager) Tools() []Definition {
	out := make([]Definition, len(m.defs))
	for i, def := range m.defs {
		out[i] = def.clone()
	}
	return out
}

// Names returns the tool names in registration order.
func (m *Manager) Names() []string {
	out := make([]string, len(m.defs))
	for i, def := range m.defs {
		out[i] = def.Name
	}
	return out
}

// Definition returns the definition of a single tool.
func (m *Manager) Definition(name string) (Definition, bool) {
	i, ok := m.index[name]
	if !ok {
		return Definition{}, false
	}
	return m.defs[i].clone(), true
}

// Schemas returns the name to schema map.
func (m *Manager) Schemas() map[string]*Schema {
	out := make(map[string]*Schema, len(m.schemas))
	for k, v := range m.schemas {
		out[k] = v
	}
	return out
}

// Execute validates params against the tool's schema and, only if they pass,
// calls the tool's handler function with the defaulted value.
func (m *Manager) Execute(ctx context.Context, name string, params map[string]any) (any, error) {
	if _, ok := m.index[name]; !ok {
		return nil, &UnknownToolError{Name: name}
	}
	return validateAndCall(ctx, name, m.schemas[name], m.funcs[name], params)
}

func validateAndCall(ctx context.Context, name string, schema *Schema, fn Func, params map[string]any) (any, error) {
	parsed, err := schema.Parse(params)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := fn(ctx, parsed)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			if verr.Tool == "" {
				verr.Tool = name
			}
			return nil, verr
		}
		return nil, &ExecutionError{Tool: name, Err: err}
	}
	return result, nil
}
