// Package web provides the real-time engagement dashboard API.
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/classlens/go-classlens/internal/log"
	"github.com/classlens/go-classlens/pkg/engine"
	"github.com/classlens/go-classlens/pkg/hub"
)

// Server exposes the engine's snapshots over HTTP and websocket.
// It only reads engine state; nothing flows back into the session.
type Server struct {
	app    *fiber.App
	port   string
	engine *engine.Engine

	// liveHub pushes each tick's snapshot to connected viewers.
	liveHub *hub.Hub
}

// NewServer creates the dashboard server for the given engine.
func NewServer(port string, eng *engine.Engine) *Server {
	s := &Server{
		port:    port,
		engine:  eng,
		liveHub: hub.New("live"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "ClassLens Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static files
	app.Static("/", "./web")

	// API routes
	api := app.Group("/api")
	api.Get("/subjects", s.handleSubjects)
	api.Get("/metrics", s.handleMetrics)
	api.Get("/insights", s.handleInsights)
	api.Get("/config", s.handleConfig)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/live", websocket.New(s.handleLiveWS))

	s.app = app
	return s
}

// Start starts the web server. Blocks.
func (s *Server) Start() error {
	log.Info("dashboard listening", "addr", "http://localhost:"+s.port)

	go s.liveHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the web server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("web server failed", "error", err)
		}
	}()
}

// Publish broadcasts a tick snapshot to live viewers. Wire it to the
// engine's OnTick callback.
func (s *Server) Publish(snap engine.Snapshot) {
	s.liveHub.BroadcastJSON(snap)
}

// Shutdown gracefully stops the web server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
