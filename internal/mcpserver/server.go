// internal/mcpserver/server.go
package mcpserver

import (
	"context"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mwiater/toolbelt/internal/integrations"
	"github.com/mwiater/toolbelt/internal/logging"
	"github.com/mwiater/toolbelt/internal/metrics"
)

// Options controls how tools are published.
type Options struct {
	// ExposeSchemas publishes each tool's parameter schema. By default the
	// declared input schema is an empty object and validation happens only in
	// the integration's tool manager.
	ExposeSchemas bool
	// Metrics records every call. Nil disables recording.
	Metrics *metrics.Recorder
}

// NewServer builds an MCP server with every tool of reg registered.
func NewServer(name, version string, reg *integrations.Registry, opts Options) (*server.MCPServer, *Dispatcher) {
	srv := server.NewMCPServer(name, version, server.WithToolCapabilities(false), server.WithRecovery())
	d := Register(srv, reg, opts)
	return srv, d
}

// Register adds one MCP tool per namespaced tool in reg and returns the
// Dispatcher that serves them.
func Register(srv *server.MCPServer, reg *integrations.Registry, opts Options) *Dispatcher {
	d := NewDispatcher(reg, opts.Metrics)
	for _, t := range reg.Tools() {
		srv.AddTool(toolFor(t, opts.ExposeSchemas), d.handlerFor(t.Namespaced))
	}
	logging.Logger().Info().
		Int("tools", len(reg.ToolNames())).
		Strs("integrations", reg.Integrations()).
		Bool("expose_schemas", opts.ExposeSchemas).
		Msg("registered MCP tools")
	return d
}

func toolFor(t integrations.Tool, exposeSchema bool) mcp.Tool {
	tool := mcp.NewTool(t.Namespaced,
		mcp.WithDescription(t.Description),
		mcp.WithTitleAnnotation(t.Title),
	)
	tool.InputSchema = mcp.ToolInputSchema{Type: "object", Properties: map[string]any{}}
	if !exposeSchema {
		return tool
	}
	if props, ok := t.Definition.Parameters["properties"].(map[string]any); ok {
		tool.InputSchema.Properties = props
	}
	if required, ok := t.Definition.Parameters["required"].([]string); ok {
		tool.InputSchema.Required = required
	}
	return tool
}

func (d *Dispatcher) handlerFor(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return d.Call(ctx, name, req.GetArguments()).Result(), nil
	}
}

// ServeStdio serves srv on stdin/stdout until ctx is cancelled or stdin closes.
// Server diagnostics go to the structured log, never to stdout.
func ServeStdio(ctx context.Context, srv *server.MCPServer) error {
	stdio := server.NewStdioServer(srv)
	stdio.SetErrorLogger(log.New(logging.Logger(), "", 0))
	logging.Logger().Info().Msg("serving MCP over stdio")
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}
