package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/marcusbk37/go-roleplay/pkg/feedback"
	"github.com/marcusbk37/go-roleplay/pkg/scenario"
)

type voiceAuthRequest struct {
	ScenarioID string `json:"scenarioId"`
}

type voiceAuthResponse struct {
	APIKey     string `json:"apiKey"`
	SecretKey  string `json:"secretKey"`
	ConfigID   string `json:"configId,omitempty"`
	ScenarioID string `json:"scenarioId"`
}

// handleVoiceAuth exchanges a scenario id for voice-API credentials.
// Keys live only server-side; this broker is the single place clients
// obtain them.
func (s *Server) handleVoiceAuth(c *fiber.Ctx) error {
	var req voiceAuthRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if _, err := scenario.Get(req.ScenarioID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Scenario not found",
		})
	}

	if s.cfg.Voice.APIKey == "" || s.cfg.Voice.SecretKey == "" {
		s.logger.Error("voice credentials not configured")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	s.logger.Info("issuing voice credentials", "scenario", req.ScenarioID)
	return c.JSON(voiceAuthResponse{
		APIKey:     s.cfg.Voice.APIKey,
		SecretKey:  s.cfg.Voice.SecretKey,
		ConfigID:   s.cfg.Voice.ConfigID,
		ScenarioID: req.ScenarioID,
	})
}

func (s *Server) handleListScenarios(c *fiber.Ctx) error {
	return c.JSON(scenario.List())
}

func (s *Server) handleGetScenario(c *fiber.Ctx) error {
	sc, err := scenario.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Scenario not found",
		})
	}
	return c.JSON(sc)
}

type transcriptMessage struct {
	Speaker   string  `json:"speaker"`
	Text      string  `json:"text"`
	Timestamp float64 `json:"timestamp"`
}

type analyzeRequest struct {
	Transcript []transcriptMessage `json:"transcript"`
	ScenarioID string              `json:"scenarioId"`
	Objectives []string            `json:"objectives"`
}

func (s *Server) handleAnalyze(c *fiber.Ctx) error {
	var req analyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if len(req.Transcript) == 0 || req.ScenarioID == "" || len(req.Objectives) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required parameters",
		})
	}

	entries := make([]feedback.TranscriptEntry, len(req.Transcript))
	for i, m := range req.Transcript {
		entries[i] = feedback.TranscriptEntry{
			Speaker:       m.Speaker,
			Text:          m.Text,
			OffsetSeconds: m.Timestamp,
		}
	}

	var scType scenario.Type
	if sc, err := scenario.Get(req.ScenarioID); err == nil {
		scType = sc.Type
	}

	result, usage, err := s.analyzer.Analyze(c.Context(), entries, req.Objectives, scType)
	if err != nil {
		s.logger.Error("analysis failed", "scenario", req.ScenarioID, "error", err)
		var parseErr *feedback.ParseError
		details := err.Error()
		if errors.As(err, &parseErr) {
			details = parseErr.Reason
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to analyze conversation",
			"details": details,
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"analysis": result,
		"usage":    usage,
	})
}
