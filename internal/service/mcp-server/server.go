package mcpserver

import (
	"jira_gateway/internal/handler"

	"github.com/mark3labs/mcp-go/server"
)

const (
	ServerName    = "jira-gateway"
	ServerVersion = "1.0.0"
)

// NewServer creates an MCP server exposing every tool of the dispatcher.
func NewServer(d *handler.Dispatcher) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	registerTools(s, d)

	return s
}

// Serve runs the server over stdin/stdout until stdin closes.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
