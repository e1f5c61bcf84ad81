package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/toolbelt/internal/integrations"
	"github.com/mwiater/toolbelt/internal/metrics"
	"github.com/mwiater/toolbelt/pkg/restclient"
	"github.com/mwiater/toolbelt/pkg/toolkit"
)

var demoDefinitions = []toolkit.Definition{
	{
		Name:        "echo",
		Description: "Echo a message back.",
		Parameters: toolkit.Object(map[string]any{
			"msg":   toolkit.Prop("string", "Message to echo."),
			"times": toolkit.Prop("integer", "Repeat count.", toolkit.Default(1)),
		}, "msg"),
	},
	{
		Name:        "fail",
		Description: "Always fails.",
		Parameters:  toolkit.Object(map[string]any{}),
	},
	{
		Name:        "boom",
		Description: "Always panics.",
		Parameters:  toolkit.Object(map[string]any{}),
	},
}

type recorded struct {
	calls int
}

func newDemoRegistry(t *testing.T, rec *recorded) *integrations.Registry {
	t.Helper()
	catalog := []integrations.Descriptor{{
		Name:        "demo",
		Title:       "Demo",
		EnvKeys:     []integrations.EnvKey{{Name: "DEMO_KEY"}},
		Definitions: demoDefinitions,
		New: func(integrations.Env, ...restclient.Option) (*toolkit.Manager, error) {
			return toolkit.NewManagerFromDefinitions(demoDefinitions, toolkit.HandlerFuncs{
				"echo": func(_ context.Context, p map[string]any) (any, error) {
					rec.calls++
					return map[string]any{"msg": p["msg"], "times": p["times"]}, nil
				},
				"fail": func(context.Context, map[string]any) (any, error) {
					rec.calls++
					return nil, errors.New("failed to reach vendor: connection refused")
				},
				"boom": func(context.Context, map[string]any) (any, error) {
					rec.calls++
					panic("nil map")
				},
			})
		},
	}}
	reg, err := integrations.Load(context.Background(), integrations.LoadOptions{
		Catalog: catalog,
		Lookup:  integrations.MapLookup(map[string]string{"DEMO_KEY": "k"}),
	})
	require.NoError(t, err)
	return reg
}

func TestCallSuccessReturnsJSON(t *testing.T) {
	rec := &recorded{}
	d := NewDispatcher(newDemoRegistry(t, rec), nil)

	resp := d.Call(context.Background(), "demo_echo", map[string]any{"msg": "hi"})
	require.False(t, resp.IsError, resp.Text)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(resp.Text), &got))
	assert.Equal(t, "hi", got["msg"])
	assert.EqualValues(t, 1, got["times"])
	assert.Equal(t, 1, rec.calls)
}

func TestCallUnknownToolHasNoSideEffect(t *testing.T) {
	rec := &recorded{}
	d := NewDispatcher(newDemoRegistry(t, rec), metrics.New())

	resp := d.Call(context.Background(), "demo_missing", nil)
	assert.True(t, resp.IsError)
	assert.Equal(t, "Tool not found: demo_missing", resp.Text)
	assert.Zero(t, rec.calls)
}

func TestCallValidationErrorSkipsHandler(t *testing.T) {
	rec := &recorded{}
	d := NewDispatcher(newDemoRegistry(t, rec), nil)

	resp := d.Call(context.Background(), "demo_echo", map[string]any{"times": 2})
	assert.True(t, resp.IsError)
	assert.Contains(t, resp.Text, "msg")
	assert.Zero(t, rec.calls)
}

func TestCallHandlerErrorMessageIsPassedThrough(t *testing.T) {
	d := NewDispatcher(newDemoRegistry(t, &recorded{}), nil)

	resp := d.Call(context.Background(), "demo_fail", nil)
	assert.True(t, resp.IsError)
	assert.Equal(t, "failed to reach vendor: connection refused", resp.Text)
}

func TestCallRecoversFromPanic(t *testing.T) {
	d := NewDispatcher(newDemoRegistry(t, &recorded{}), metrics.New())

	var resp Response
	require.NotPanics(t, func() {
		resp = d.Call(context.Background(), "demo_boom", nil)
	})
	assert.True(t, resp.IsError)
	assert.Contains(t, resp.Text, "nil map")

	// The server keeps working after a panic.
	resp = d.Call(context.Background(), "demo_echo", map[string]any{"msg": "still here"})
	assert.False(t, resp.IsError)
}

func TestResponseResultShape(t *testing.T) {
	res := Response{Text: "oops", IsError: true}.Result()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "text", text.Type)
	assert.Equal(t, "oops", text.Text)
	assert.True(t, res.IsError)
}

func TestToolForDeclaresEmptySchemaByDefault(t *testing.T) {
	reg := newDemoRegistry(t, &recorded{})
	tool, ok := reg.Tool("demo_echo")
	require.True(t, ok)

	declared := toolFor(tool, false)
	assert.Equal(t, "demo_echo", declared.Name)
	assert.Equal(t, "Echo a message back.", declared.Description)
	assert.Equal(t, "Demo: echo", declared.Annotations.Title)
	assert.Equal(t, "object", declared.InputSchema.Type)
	assert.Empty(t, declared.InputSchema.Properties)
	assert.Empty(t, declared.InputSchema.Required)

	exposed := toolFor(tool, true)
	assert.Contains(t, exposed.InputSchema.Properties, "msg")
	assert.Equal(t, []string{"msg"}, exposed.InputSchema.Required)
}

func TestHandlerRoutesThroughDispatcher(t *testing.T) {
	reg := newDemoRegistry(t, &recorded{})
	srv := server.NewMCPServer("test", "0.0.0")
	d := Register(srv, reg, Options{})

	req := mcp.CallToolRequest{}
	req.Params.Name = "demo_echo"
	req.Params.Arguments = map[string]any{"msg": "via handler"}

	res, err := d.handlerFor("demo_echo")(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.IsError)
	text := res.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, "via handler")
}
