// Package server exposes the credential broker, scenario catalog,
// analysis endpoint, and the live session event stream over HTTP.
package server

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/marcusbk37/go-roleplay/internal/config"
	"github.com/marcusbk37/go-roleplay/internal/log"
	"github.com/marcusbk37/go-roleplay/pkg/feedback"
	"github.com/marcusbk37/go-roleplay/pkg/hub"
)

// Server hosts the HTTP API.
type Server struct {
	app      *fiber.App
	cfg      *config.Config
	analyzer *feedback.Analyzer
	events   *hub.Hub
	logger   *slog.Logger
}

// New builds the fiber app and wires routes.
func New(cfg *config.Config, analyzer *feedback.Analyzer, events *hub.Hub) *Server {
	s := &Server{
		cfg:      cfg,
		analyzer: analyzer,
		events:   events,
		logger:   log.Component("server"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Roleplay API",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/api")
	api.Post("/voice-auth", s.handleVoiceAuth)
	api.Get("/scenarios", s.handleListScenarios)
	api.Get("/scenarios/:id", s.handleGetScenario)
	api.Post("/analyze-conversation", s.handleAnalyze)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/session", websocket.New(s.handleSessionWS))

	s.app = app
	return s
}

// Listen starts the hub and serves on the configured port.
func (s *Server) Listen() error {
	if s.events != nil {
		go s.events.Run()
	}
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.logger.Info("listening", "addr", addr)
	return s.app.Listen(addr)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleSessionWS(c *websocket.Conn) {
	client := hub.NewClient(s.events, c)
	client.Run()
}
