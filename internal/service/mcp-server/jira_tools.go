package mcpserver

import (
	"context"

	"jira_gateway/internal/handler"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registerTools adds one MCP tool per dispatcher descriptor. The dispatcher
// validates arguments itself, so the schema here only informs callers.
func registerTools(s *server.MCPServer, d *handler.Dispatcher) {
	for _, desc := range d.Descriptors() {
		s.AddTool(toMCPTool(desc), toolHandler(d, desc.Name))
	}
}

func toMCPTool(desc handler.ToolDescriptor) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(desc.Description)}
	for _, p := range desc.Params {
		props := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			props = append(props, mcp.Required())
		}
		switch p.Type {
		case handler.ParamInteger:
			if p.Min != nil {
				props = append(props, mcp.Min(float64(*p.Min)))
			}
			if n, ok := p.Default.(int); ok {
				props = append(props, mcp.DefaultNumber(float64(n)))
			}
			opts = append(opts, mcp.WithNumber(p.Name, props...))
		default:
			opts = append(opts, mcp.WithString(p.Name, props...))
		}
	}
	return mcp.NewTool(desc.Name, opts...)
}

// toolHandler always answers with text; failures are already rendered as
// "Error: ..." by the dispatcher.
func toolHandler(d *handler.Dispatcher, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(d.Call(ctx, name, request.GetArguments())), nil
	}
}
