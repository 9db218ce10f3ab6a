// Package mcp provides an MCP (Model Context Protocol) server exposing the
// switchboard gateway as tools.
package mcp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/switchboard/gateway"
	"github.com/papercomputeco/switchboard/pkg/utils"
)

type Config struct {
	// Gateway handles chat tool calls.
	Gateway *gateway.Gateway

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the chat and providers tools.
func NewServer(c Config) (*Server, error) {
	if c.Gateway == nil {
		return nil, errors.New("gateway is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "switchboard",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        chatToolName,
		Description: chatDescription,
	}, s.handleChat)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        providersToolName,
		Description: providersDescription,
	}, s.handleProviders)

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// MCPServer returns the underlying MCP server, for in-process transports.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}
