// Package web is the HTTP and WebSocket surface of the PiDog API. Every
// route lives under /api/v1; handlers are thin glue that run safety
// checks and delegate to the robot, camera, and agent services.
package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/command-pidog/pidog-api/internal/log"
	"github.com/command-pidog/pidog-api/pkg/agent"
	"github.com/command-pidog/pidog-api/pkg/camera"
	"github.com/command-pidog/pidog-api/pkg/dog"
	"github.com/command-pidog/pidog-api/pkg/hub"
	"github.com/command-pidog/pidog-api/pkg/safety"
)

// Server wires the service layer to Fiber routes.
type Server struct {
	app    *fiber.App
	robot  *dog.Service
	safety *safety.Validator
	camera *camera.Service
	agent  *agent.Agent
	hub    *hub.Hub
	logs   *log.Buffer
}

// NewServer builds the Fiber app and registers every route.
func NewServer(robot *dog.Service, validator *safety.Validator, cam *camera.Service, ag *agent.Agent, h *hub.Hub, logs *log.Buffer) *Server {
	s := &Server{
		robot:  robot,
		safety: validator,
		camera: cam,
		agent:  ag,
		hub:    h,
		logs:   logs,
	}

	app := fiber.New(fiber.Config{
		AppName:               "PiDog API",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New())

	// Unversioned health probe for load balancers.
	app.Get("/health", s.handleHealth)

	api := app.Group("/api/v1")
	api.Get("/health", s.handleHealth)

	api.Get("/actions", s.handleListActions)
	api.Post("/actions/execute", s.handleExecuteActions)
	api.Get("/actions/queue", s.handleQueueStatus)
	api.Delete("/actions/queue", s.handleClearQueue)
	api.Post("/actions/stop", s.handleEmergencyStop)

	api.Post("/servos/head", s.handleSetHead)
	api.Post("/servos/legs", s.handleSetLegs)
	api.Post("/servos/tail", s.handleSetTail)
	api.Get("/servos/positions", s.handleServoPositions)

	api.Get("/sensors/all", s.handleAllSensors)
	api.Get("/sensors/distance", s.handleDistance)
	api.Get("/sensors/imu", s.handleIMU)
	api.Get("/sensors/touch", s.handleTouch)
	api.Get("/sensors/sound", s.handleSoundDirection)

	api.Post("/rgb/mode", s.handleSetRGBMode)
	api.Get("/rgb/styles", s.handleRGBStyles)
	api.Get("/rgb/colors", s.handleRGBColors)

	api.Post("/sound/play", s.handlePlaySound)
	api.Get("/sound/list", s.handleListSounds)

	api.Get("/status", s.handleRobotStatus)
	api.Get("/logs", s.handleLogs)

	api.Get("/camera/stream", s.handleCameraStream)
	api.Get("/camera/snapshot", s.handleCameraSnapshot)
	api.Get("/camera/status", s.handleCameraStatus)
	api.Post("/camera/start", s.handleCameraStart)
	api.Post("/camera/stop", s.handleCameraStop)

	api.Post("/agent/chat", s.handleAgentChat)
	api.Post("/agent/voice", s.handleAgentVoice)
	api.Post("/agent/vision", s.handleAgentVision)
	api.Get("/agent/providers", s.handleAgentProviders)
	api.Get("/agent/skill", s.handleAgentSkill)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	api.Get("/ws", websocket.New(s.handleWS))

	s.app = app
	return s
}

// App exposes the Fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until Shutdown is called.
func (s *Server) Listen(addr string) error {
	log.Info("http server listening", "component", "web", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// handleWS upgrades the connection and services it until disconnect.
func (s *Server) handleWS(c *websocket.Conn) {
	client := s.hub.Connect(c)
	client.Run()
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// errorHandler maps safety violations to 422 and everything else to the
// Fiber error code, always with a {"detail": ...} body.
func errorHandler(c *fiber.Ctx, err error) error {
	var se *safety.Error
	if errors.As(err, &se) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": se.Detail})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"detail": fe.Message})
	}

	log.Error("unhandled request error", "component", "web", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Internal server error"})
}
