// internal/mcpserver/dispatcher.go

// Package mcpserver exposes a loaded integrations.Registry as MCP tools.
// Every call is routed through a Dispatcher, which reports failures as error
// responses instead of returning them.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mwiater/toolbelt/internal/integrations"
	"github.com/mwiater/toolbelt/internal/logging"
	"github.com/mwiater/toolbelt/internal/metrics"
)

// Response is the outcome of one tool call.
type Response struct {
	Text    string
	IsError bool
}

// Result converts the response into the mcp-go result shape.
func (r Response) Result() *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: r.Text}},
		IsError: r.IsError,
	}
}

// Dispatcher routes namespaced tool calls to the registry.
type Dispatcher struct {
	registry *integrations.Registry
	metrics  *metrics.Recorder
}

// NewDispatcher returns a Dispatcher over reg. rec may be nil.
func NewDispatcher(reg *integrations.Registry, rec *metrics.Recorder) *Dispatcher {
	return &Dispatcher{registry: reg, metrics: rec}
}

// panicError carries a recovered panic value.
type panicError struct {
	value any
}

func (e *panicError) Error() string { return fmt.Sprintf("tool panicked: %v", e.value) }

// Call invokes the namespaced tool name with args. It never returns an error
// and never panics; failures are reported in the Response.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]any) Response {
	callID := uuid.NewString()
	log := logging.Logger()

	tool, ok := d.registry.Tool(name)
	if !ok {
		log.Warn().Str("call_id", callID).Str("tool", name).Msg("tool not found")
		d.metrics.Observe("", name, metrics.OutcomeNotFound, 0)
		return Response{Text: "Tool not found: " + name, IsError: true}
	}
	if args == nil {
		args = map[string]any{}
	}

	logging.LogRequest("IN", tool.Integration, tool.Name, callID, args)
	start := time.Now()
	result, err := invoke(ctx, tool, args)
	elapsed := time.Since(start)

	if err != nil {
		outcome := metrics.OutcomeError
		if _, isPanic := err.(*panicError); isPanic {
			outcome = metrics.OutcomePanic
			log.Error().Str("call_id", callID).Str("tool", name).Err(err).Msg("recovered from tool panic")
		}
		d.metrics.Observe(tool.Integration, tool.Name, outcome, elapsed)
		logging.LogRequest("OUT", tool.Integration, tool.Name, callID, err)
		return Response{Text: err.Error(), IsError: true}
	}

	body, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		d.metrics.Observe(tool.Integration, tool.Name, metrics.OutcomeError, elapsed)
		log.Error().Str("call_id", callID).Str("tool", name).Err(err).Msg("failed to encode tool result")
		return Response{Text: "failed to encode result: " + err.Error(), IsError: true}
	}

	d.metrics.Observe(tool.Integration, tool.Name, metrics.OutcomeOK, elapsed)
	logging.LogRequest("OUT", tool.Integration, tool.Name, callID, result)
	log.Info().
		Str("call_id", callID).
		Str("tool", name).
		Dur("elapsed", elapsed).
		Msg("tool call completed")
	return Response{Text: string(body)}
}

func invoke(ctx context.Context, tool integrations.Tool, args map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, &panicError{value: r}
		}
	}()
	return tool.Call(ctx, args)
}
