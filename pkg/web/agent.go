package web

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/command-pidog/pidog-api/pkg/agent"
	"github.com/command-pidog/pidog-api/pkg/safety"
)

type chatRequest struct {
	Message  string `json:"message"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

type visionRequest struct {
	Question string `json:"question"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

func (s *Server) handleAgentChat(c *fiber.Ctx) error {
	var body chatRequest
	if err := c.BodyParser(&body); err != nil {
		return &safety.Error{Detail: "Invalid request body: expected {message, provider?, model?}"}
	}
	if body.Message == "" {
		return &safety.Error{Detail: "Message must not be empty"}
	}

	result := s.agent.Chat(c.Context(), body.Message, body.Provider, body.Model)
	return c.JSON(result)
}

func (s *Server) handleAgentVoice(c *fiber.Ctx) error {
	fh, err := c.FormFile("audio")
	if err != nil {
		return &safety.Error{Detail: "Expected multipart upload with an 'audio' file field"}
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	audio, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	result := s.agent.Voice(c.Context(), fh.Filename, fh.Header.Get("Content-Type"), audio)
	return c.JSON(result)
}

func (s *Server) handleAgentVision(c *fiber.Ctx) error {
	var body visionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return &safety.Error{Detail: "Invalid request body: expected {question?, provider?, model?}"}
		}
	}

	result, err := s.agent.Vision(c.Context(), body.Question, body.Provider, body.Model)
	if err != nil {
		if errors.Is(err, agent.ErrCameraNotRunning) || errors.Is(err, agent.ErrNoFrame) {
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		}
		var ve *agent.VisionError
		if errors.As(err, &ve) {
			return fiber.NewError(fiber.StatusBadGateway, ve.Error())
		}
		return err
	}
	return c.JSON(result)
}

func (s *Server) handleAgentProviders(c *fiber.Ctx) error {
	return c.JSON(s.agent.Providers())
}

func (s *Server) handleAgentSkill(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"skill": s.agent.Skill()})
}
