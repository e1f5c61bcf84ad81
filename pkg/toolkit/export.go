// pkg/toolkit/export.go
package toolkit

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"
)

// ExecuteFunc runs a tool by name. It is Manager.Execute bound to a manager.
type ExecuteFunc func(ctx context.Context, name string, params map[string]any) (any, error)

// GenericTool is one entry of the framework-neutral tool map.
type GenericTool struct {
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
	Execute     Func           `json:"-"`
}

// GenericTools builds a map from tool name to description, schema, and an
// execute function. A non-empty entry in descriptions replaces the
// definition's description. Execute validates before calling the handler.
func GenericTools(m *Manager, handler Handler, descriptions map[string]string) (map[string]GenericTool, error) {
	var funcs map[string]Func
	if handler != nil {
		funcs = handler.Funcs()
	}
	out := make(map[string]GenericTool, len(m.defs))
	for _, def := range m.defs {
		fn, ok := funcs[def.Name]
		if !ok || fn == nil {
			return nil, &MissingHandlerError{Name: def.Name}
		}
		schema, ok := m.schemas[def.Name]
		if !ok || schema == nil {
			return nil, &MissingSchemaError{Name: def.Name}
		}
		desc := def.Description
		if override := descriptions[def.Name]; override != "" {
			desc = override
		}
		name := def.Name
		out[name] = GenericTool{
			Description: desc,
			Parameters:  schema.Raw(),
			Execute: func(ctx context.Context, params map[string]any) (any, error) {
				return validateAndCall(ctx, name, schema, fn, params)
			},
		}
	}
	return out, nil
}

// OpenAIToolset is the OpenAI function-calling shape. Definitions already match
// the function schema, so they pass through unchanged.
type OpenAIToolset struct {
	Tools           []Definition `json:"tools"`
	ExecuteFunction ExecuteFunc  `json:"-"`
}

// OpenAITools returns the manager's tools in the OpenAI shape.
func OpenAITools(m *Manager) OpenAIToolset {
	return OpenAIToolset{Tools: m.Tools(), ExecuteFunction: m.Execute}
}

// Params converts the toolset into openai-go request parameters.
func (s OpenAIToolset) Params() []openai.ChatCompletionToolParam {
	out := make([]openai.ChatCompletionToolParam, 0, len(s.Tools))
	for _, def := range s.Tools {
		params := shared.FunctionParameters(cloneMap(def.Parameters))
		if params == nil {
			params = shared.FunctionParameters{"type": "object"}
		}
		tool := openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:       def.Name,
				Parameters: params,
			},
		}
		if def.Description != "" {
			tool.Function.Description = openai.String(def.Description)
		}
		out = append(out, tool)
	}
	return out
}

// AnthropicInputSchema is the input_schema object of an Anthropic tool.
type AnthropicInputSchema struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Required   []string       `json:"required"`
}

// AnthropicTool is one tool in the Anthropic tool-use shape.
type AnthropicTool struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	InputSchema AnthropicInputSchema `json:"input_schema"`
}

// AnthropicToolset is the Anthropic tool-use shape plus the execute entry point.
type AnthropicToolset struct {
	Tools           []AnthropicTool `json:"tools"`
	ExecuteFunction ExecuteFunc     `json:"-"`
}

// AnthropicTools nests each definition's properties and required list under
// input_schema, which is where the Anthropic API expects them.
func AnthropicTools(m *Manager) AnthropicToolset {
	tools := make([]AnthropicTool, 0, len(m.defs))
	for _, def := range m.defs {
		props, _ := cloneValue(def.Parameters["properties"]).(map[string]any)
		if props == nil {
			props = map[string]any{}
		}
		tools = append(tools, AnthropicTool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: AnthropicInputSchema{
				Type:       "object",
				Properties: props,
				Required:   RequiredFields(def.Parameters),
			},
		})
	}
	return AnthropicToolset{Tools: tools, ExecuteFunction: m.Execute}
}

// Params converts the toolset into anthropic-sdk-go request parameters.
func (s AnthropicToolset) Params() []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(s.Tools))
	for _, t := range s.Tools {
		tool := anthropic.ToolParam{
			Name: t.Name,
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: t.InputSchema.Properties,
				Required:   t.InputSchema.Required,
			},
		}
		if t.Description != "" {
			tool.Description = anthropic.String(t.Description)
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &tool})
	}
	return out
}
