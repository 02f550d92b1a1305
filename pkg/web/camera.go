package web

import (
	"bufio"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const cameraNotRunningDetail = "Camera is not running. POST /camera/start first."

// handleCameraStream serves an MJPEG stream, one part per available
// frame, paced at the camera's target FPS. The loop ends when the client
// disconnects and the write fails, or when the camera is stopped; a
// stopped camera produces no frames, so without that exit the goroutine
// would sleep forever and never notice the disconnect.
func (s *Server) handleCameraStream(c *fiber.Ctx) error {
	if !s.camera.IsRunning() {
		return fiber.NewError(fiber.StatusServiceUnavailable, cameraNotRunningDetail)
	}

	delay := time.Second / time.Duration(s.camera.TargetFPS())
	c.Set(fiber.HeaderContentType, "multipart/x-mixed-replace; boundary=frame")
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		for s.camera.IsRunning() {
			if frame := s.camera.Frame(); frame != nil {
				if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\n\r\n"); err != nil {
					return
				}
				if _, err := w.Write(frame); err != nil {
					return
				}
				if _, err := w.WriteString("\r\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
			time.Sleep(delay)
		}
	}))
	return nil
}

func (s *Server) handleCameraSnapshot(c *fiber.Ctx) error {
	if !s.camera.IsRunning() {
		return fiber.NewError(fiber.StatusServiceUnavailable, cameraNotRunningDetail)
	}
	frame := s.camera.Frame()
	if frame == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "No frame available.")
	}
	c.Set(fiber.HeaderContentType, "image/jpeg")
	return c.Send(frame)
}

func (s *Server) handleCameraStatus(c *fiber.Ctx) error {
	return c.JSON(s.camera.Status())
}

func (s *Server) handleCameraStart(c *fiber.Ctx) error {
	if err := s.camera.Start(); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("Failed to start camera: %v", err))
	}
	return c.JSON(s.camera.Status())
}

func (s *Server) handleCameraStop(c *fiber.Ctx) error {
	s.camera.Stop()
	return c.JSON(s.camera.Status())
}
