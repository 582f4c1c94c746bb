package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/teslashibe/go-sway/pkg/hub"
	"github.com/teslashibe/go-sway/pkg/protocol"
	"github.com/teslashibe/go-sway/pkg/sway"
)

// handleHealth reports liveness and websocket client count
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"clients": s.telemetryHub.ClientCount(),
		"time":    time.Now().UTC(),
	})
}

// handleStatus returns the last published telemetry
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.Status())
}

// handleGetConfig returns the active configuration
func (s *Server) handleGetConfig(c *fiber.Ctx) error {
	return c.JSON(s.Config())
}

// handlePutConfig merges the request body over the active configuration.
// Fields left out of the body keep their current values.
func (s *Server) handlePutConfig(c *fiber.Ctx) error {
	cfg := s.Config()
	if err := c.BodyParser(&cfg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return s.applyConfig(c, cfg)
}

// handlePreset replaces the configuration with a named preset
func (s *Server) handlePreset(c *fiber.Ctx) error {
	cfg, err := sway.Preset(c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return s.applyConfig(c, cfg)
}

func (s *Server) applyConfig(c *fiber.Ctx, cfg sway.Config) error {
	cfg = cfg.Sanitized()
	s.SetConfig(cfg)
	if s.onConfig != nil {
		s.onConfig(cfg)
	}
	s.log.Info("config updated over http", zap.String("space", string(cfg.Space)))
	return c.JSON(cfg)
}

// handleTelemetryWS streams telemetry. New clients first receive the active
// configuration and the last status.
func (s *Server) handleTelemetryWS(c *websocket.Conn) {
	var initial []hub.Message
	if msg, err := protocol.NewConfigMessage(s.Config()); err == nil {
		if data, err := msg.Bytes(); err == nil {
			initial = append(initial, hub.NewJSONMessage(data))
		}
	}
	if msg, err := protocol.NewMessage(protocol.TypeTelemetry, s.Status()); err == nil {
		if data, err := msg.Bytes(); err == nil {
			initial = append(initial, hub.NewJSONMessage(data))
		}
	}

	hub.NewClient(s.telemetryHub, c).Run(initial...)
}

// handleListMoves returns the names of playable moves
func (s *Server) handleListMoves(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"moves": s.moves.List()})
}

// handlePlayMove starts a named move
func (s *Server) handlePlayMove(c *fiber.Ctx) error {
	name := c.Params("name")
	if err := s.moves.Play(name); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"queued": name})
}

// reply answers text from telemetry clients. Only ping is understood.
func (s *Server) reply(data []byte) ([]byte, bool) {
	var out *protocol.Message
	msg, err := protocol.ParseMessage(data)
	switch {
	case err != nil:
		out, err = protocol.NewErrorMessage(err.Error())
	case msg.Type == protocol.TypePing:
		id := ""
		if ping, perr := msg.GetPingData(); perr == nil {
			id = ping.ID
		}
		out, err = protocol.NewPongMessage(id, msg.Timestamp, time.Now().UnixMilli())
	default:
		out, err = protocol.NewErrorMessage("unsupported message type: " + string(msg.Type))
	}
	if err != nil {
		return nil, false
	}
	b, err := out.Bytes()
	return b, err == nil
}
