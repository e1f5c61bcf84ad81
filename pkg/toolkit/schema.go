// pkg/toolkit/schema.go
package toolkit

import (
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"
)

// Schema validates the raw parameters of one tool and fills in defaults.
type Schema struct {
	tool     string
	raw      map[string]any
	compiled *gojsonschema.Schema
}

// NewSchema compiles a JSON schema for the named tool.
func NewSchema(tool string, raw map[string]any) (*Schema, error) {
	if raw == nil {
		raw = Object(map[string]any{})
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("compile schema for %s: %w", tool, err)
	}
	return &Schema{tool: tool, raw: cloneMap(raw), compiled: compiled}, nil
}

// SchemasFor compiles one schema per definition, keyed by tool name.
func SchemasFor(defs []Definition) (map[string]*Schema, error) {
	schemas := make(map[string]*Schema, len(defs))
	for _, def := range defs {
		s, err := NewSchema(def.Name, def.Parameters)
		if err != nil {
			return nil, err
		}
		schemas[def.Name] = s
	}
	return schemas, nil
}

// Raw returns a copy of the JSON schema document.
func (s *Schema) Raw() map[string]any { return cloneMap(s.raw) }

// Parse applies defaults to a copy of input and validates the result. The
// input map is never modified.
func (s *Schema) Parse(input map[string]any) (map[string]any, error) {
	value := cloneMap(input)
	if value == nil {
		value = map[string]any{}
	}
	applyDefaults(s.raw, value)

	result, err := s.compiled.Validate(gojsonschema.NewGoLoader(value))
	if err != nil {
		return nil, &ValidationError{
			Tool:   s.tool,
			Fields: []FieldError{{Field: "(root)", Description: err.Error()}},
		}
	}
	if result.Valid() {
		return value, nil
	}

	fields := make([]FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		// required errors are reported on the parent object
		if prop, ok := desc.Details()["property"].(string); ok && desc.Type() == "required" {
			if field == "(root)" {
				field = prop
			} else {
				field = field + "." + prop
			}
		}
		fields = append(fields, FieldError{Field: field, Description: desc.Description()})
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return nil, &ValidationError{Tool: s.tool, Fields: fields}
}

// applyDefaults fills absent properties that declare a default, descending
// into nested objects that are present (or were just defaulted).
func applyDefaults(schema map[string]any, value map[string]any) {
	props, _ := schema["properties"].(map[string]any)
	for name, p := range props {
		prop, ok := p.(map[string]any)
		if !ok {
			continue
		}
		if _, present := value[name]; !present {
			if def, hasDefault := prop["default"]; hasDefault {
				value[name] = cloneValue(def)
			}
		}
		if nested, ok := value[name].(map[string]any); ok {
			applyDefaults(prop, nested)
		}
	}
}

// RequiredFields returns the "required" list of an object schema, accepting
// both []string and the []any shape produced by JSON decoding.
func RequiredFields(schema map[string]any) []string {
	switch req := schema["required"].(type) {
	case []string:
		return append([]string(nil), req...)
	case []any:
		out := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}
