// Package service hosts the worksheet MCP server over stdio.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/louisbranch/tenfacts/internal/platform/branding"
	"github.com/louisbranch/tenfacts/internal/platform/logging"
	"github.com/louisbranch/tenfacts/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// serverName identifies this MCP server to clients.
var serverName = branding.AppName + " MCP"

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
	logger    *logging.Logger
}

// New registers the worksheet tools backed by gen.
func New(gen domain.Generator, logger *logging.Logger) (*Server, error) {
	if gen == nil {
		return nil, fmt.Errorf("worksheet generator is required")
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	mcp.AddTool(mcpServer, domain.PageTool(), domain.PageHandler())
	mcp.AddTool(mcpServer, domain.GenerateTool(), domain.GenerateHandler(gen))
	return &Server{mcpServer: mcpServer, logger: logger}, nil
}

// Serve starts the MCP server on stdio and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	s.logger.Info("mcp server starting", "name", serverName, "version", serverVersion)
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	s.logger.Info("mcp server stopped")
	return nil
}
