package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/switchboard/pkg/llm"
)

// handlePing returns a simple liveness response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleHealth reports which providers have a credential configured.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(llm.HealthResponse{Providers: s.gateway.Health()})
}

// handleChat runs a chat request whose body names the provider.
func (s *Server) handleChat(c *fiber.Ctx) error {
	result, err := s.gateway.Chat(c.UserContext(), c.Body())
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(result)
}

// handleProviderChat runs a chat request against the provider named in the
// path, which overrides any provider in the body.
func (s *Server) handleProviderChat(c *fiber.Ctx) error {
	body, err := llm.OverrideProvider(c.Body(), c.Params("provider"))
	if err != nil {
		return s.writeError(c, err)
	}

	result, err := s.gateway.Chat(c.UserContext(), body)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(result)
}

func (s *Server) writeError(c *fiber.Ctx, err error) error {
	return c.Status(llm.HTTPStatus(err)).JSON(llm.NewErrorResponse(err))
}
