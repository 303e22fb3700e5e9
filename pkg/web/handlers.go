package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/classlens/go-classlens/pkg/hub"
)

// handleSubjects returns the current subject snapshots.
func (s *Server) handleSubjects(c *fiber.Ctx) error {
	return c.JSON(s.engine.Subjects())
}

// handleMetrics returns the current aggregate metrics.
func (s *Server) handleMetrics(c *fiber.Ctx) error {
	return c.JSON(s.engine.Metrics())
}

// handleInsights returns the current ordered findings.
func (s *Server) handleInsights(c *fiber.Ctx) error {
	return c.JSON(s.engine.Findings())
}

// handleConfig returns the effective session configuration.
func (s *Server) handleConfig(c *fiber.Ctx) error {
	return c.JSON(s.engine.Config())
}

// handleLiveWS streams per-tick snapshots to a dashboard viewer.
// The current snapshot is sent immediately so a new viewer does not
// wait a full tick for its first frame.
func (s *Server) handleLiveWS(c *websocket.Conn) {
	c.WriteJSON(s.engine.Snapshot())

	client := hub.NewClient(s.liveHub, c)
	client.Run()
}
