package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/papercomputeco/switchboard/api/mcp"
	"github.com/papercomputeco/switchboard/gateway"
)

// RequestIDHeader carries the per-call request ID on every response.
const RequestIDHeader = "X-Request-ID"

// Server is the gateway's HTTP server.
type Server struct {
	config    Config
	gateway   *gateway.Gateway
	mcpServer *mcp.Server
	logger    *slog.Logger
	app       *fiber.App
}

// NewServer creates a new API server.
// The gateway is injected so the same instance can back other surfaces.
func NewServer(config Config, gw *gateway.Gateway, logger *slog.Logger) (*Server, error) {
	if gw == nil {
		return nil, errors.New("gateway is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	mcpServer, err := mcp.NewServer(mcp.Config{
		Gateway: gw,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create MCP server: %w", err)
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             config.BodyLimit,
		IdleTimeout:           config.IdleTimeout,
	})

	s := &Server{
		config:    config,
		gateway:   gw,
		mcpServer: mcpServer,
		logger:    logger,
		app:       app,
	}

	app.Use(recover.New())
	app.Use(s.requestID)
	app.Use(compress.New())

	app.Get("/ping", s.handlePing)
	app.Get("/health", s.handleHealth)
	app.Post("/chat", s.handleChat)
	app.Post("/chat/:provider", s.handleProviderChat)
	app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// RunWithListener starts the API server using the provided listener.
func (s *Server) RunWithListener(listener net.Listener) error {
	s.logger.Info("starting API server",
		"listen", listener.Addr().String(),
	)
	return s.app.Listener(listener)
}

// Shutdown gracefully shuts down the API server, waiting for in-flight
// calls until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// requestID echoes a caller supplied X-Request-ID or assigns a new one,
// and carries it into the gateway through the user context.
func (s *Server) requestID(c *fiber.Ctx) error {
	id := c.Get(RequestIDHeader)
	if id == "" {
		id = gateway.NewRequestID()
	}

	c.Set(RequestIDHeader, id)
	c.SetUserContext(gateway.WithRequestID(c.UserContext(), id))
	return c.Next()
}
