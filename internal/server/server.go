// Package server assembles the MCP server surface: tool registration,
// resource registration, and the stdio transport loop.
package server

import (
	"log/slog"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/typebridge/fontlab-mcp/internal/bridge"
	"github.com/typebridge/fontlab-mcp/internal/observability"
	"github.com/typebridge/fontlab-mcp/internal/resources"
	"github.com/typebridge/fontlab-mcp/internal/tools"
)

const serverName = "fontlab-mcp-server"

// New builds the MCP server with every tool and resource registered.
// Panics in handlers are recovered by the server and reported as tool
// errors rather than killing the stdio session.
func New(version string, b *bridge.Bridge, m *observability.Metrics, logger *slog.Logger) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(serverName, version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithResourceCapabilities(true, true),
		mcpserver.WithRecovery(),
	)

	tools.Register(s, b, m, logger)
	resources.Register(s, b, logger)

	return s
}

// ServeStdio runs the server on stdin/stdout until the client disconnects.
func ServeStdio(s *mcpserver.MCPServer) error {
	return mcpserver.ServeStdio(s)
}
