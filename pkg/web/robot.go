package web

import (
	"fmt"
	"math"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/command-pidog/pidog-api/pkg/actions"
	"github.com/command-pidog/pidog-api/pkg/dog"
	"github.com/command-pidog/pidog-api/pkg/safety"
)

type actionRequest struct {
	Actions []string `json:"actions"`
	Speed   *int     `json:"speed"`
}

type headCommand struct {
	Yaw   float64 `json:"yaw"`
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Speed *int    `json:"speed"`
}

type legsCommand struct {
	Angles []float64 `json:"angles"`
	Speed  *int      `json:"speed"`
}

type tailCommand struct {
	Angle float64 `json:"angle"`
	Speed *int    `json:"speed"`
}

type rgbModeRequest struct {
	Style      string   `json:"style"`
	Color      any      `json:"color"` // preset name or [R, G, B]
	BPS        *float64 `json:"bps"`
	Brightness *float64 `json:"brightness"`
}

type soundPlayRequest struct {
	Name   string `json:"name"`
	Volume *int   `json:"volume"`
}

// speedOrDefault applies the catalog-wide default speed of 50.
func speedOrDefault(speed *int) int {
	if speed == nil {
		return 50
	}
	return *speed
}

func (s *Server) handleListActions(c *fiber.Ctx) error {
	return c.JSON(actions.List())
}

func (s *Server) handleExecuteActions(c *fiber.Ctx) error {
	var body actionRequest
	if err := c.BodyParser(&body); err != nil {
		return &safety.Error{Detail: "Invalid request body: expected {actions: [...], speed: 0-100}"}
	}
	if len(body.Actions) == 0 {
		return &safety.Error{Detail: "At least one action is required"}
	}
	speed := speedOrDefault(body.Speed)

	if err := s.safety.CheckRateLimit(); err != nil {
		return err
	}
	if err := s.safety.ValidateActions(body.Actions); err != nil {
		return err
	}
	if err := s.safety.ValidateSpeed(speed); err != nil {
		return err
	}
	if err := s.safety.ValidateBattery(s.robot.GetBattery().Voltage); err != nil {
		return err
	}

	queued := s.robot.ExecuteActions(body.Actions, speed)
	return c.JSON(fiber.Map{
		"success":        true,
		"actions_queued": queued,
		"message":        fmt.Sprintf("%d action(s) queued for execution", len(queued)),
	})
}

func (s *Server) handleQueueStatus(c *fiber.Ctx) error {
	return c.JSON(s.robot.GetQueueStatus())
}

func (s *Server) handleClearQueue(c *fiber.Ctx) error {
	if err := s.robot.EmergencyStop(); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Action queue cleared"})
}

func (s *Server) handleEmergencyStop(c *fiber.Ctx) error {
	if err := s.robot.EmergencyStop(); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Emergency stop executed"})
}

func (s *Server) handleSetHead(c *fiber.Ctx) error {
	var body headCommand
	if err := c.BodyParser(&body); err != nil {
		return &safety.Error{Detail: "Invalid request body: expected {yaw, roll, pitch, speed}"}
	}
	speed := speedOrDefault(body.Speed)

	if err := s.safety.ValidateHead(body.Yaw, body.Roll, body.Pitch); err != nil {
		return err
	}
	if err := s.safety.ValidateSpeed(speed); err != nil {
		return err
	}
	if err := s.safety.ValidateBattery(s.robot.GetBattery().Voltage); err != nil {
		return err
	}

	if err := s.robot.SetHead(body.Yaw, body.Roll, body.Pitch, speed); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"position": fiber.Map{"yaw": body.Yaw, "roll": body.Roll, "pitch": body.Pitch},
	})
}

func (s *Server) handleSetLegs(c *fiber.Ctx) error {
	var body legsCommand
	if err := c.BodyParser(&body); err != nil {
		return &safety.Error{Detail: "Invalid request body: expected {angles: [8 floats], speed}"}
	}
	if len(body.Angles) != 8 {
		return &safety.Error{Detail: fmt.Sprintf("Expected 8 leg angles, got %d", len(body.Angles))}
	}
	speed := speedOrDefault(body.Speed)

	if err := s.safety.ValidateSpeed(speed); err != nil {
		return err
	}
	if err := s.safety.ValidateBattery(s.robot.GetBattery().Voltage); err != nil {
		return err
	}

	var angles [8]float64
	copy(angles[:], body.Angles)
	if err := s.robot.SetLegs(angles, speed); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) handleSetTail(c *fiber.Ctx) error {
	var body tailCommand
	if err := c.BodyParser(&body); err != nil {
		return &safety.Error{Detail: "Invalid request body: expected {angle, speed}"}
	}
	speed := speedOrDefault(body.Speed)

	if err := s.safety.ValidateTail(body.Angle); err != nil {
		return err
	}
	if err := s.safety.ValidateSpeed(speed); err != nil {
		return err
	}
	if err := s.safety.ValidateBattery(s.robot.GetBattery().Voltage); err != nil {
		return err
	}

	if err := s.robot.SetTail(body.Angle, speed); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "angle": body.Angle})
}

func (s *Server) handleServoPositions(c *fiber.Ctx) error {
	return c.JSON(s.robot.GetServoPositions())
}

func (s *Server) handleAllSensors(c *fiber.Ctx) error {
	return c.JSON(s.robot.GetSensorData())
}

func (s *Server) handleDistance(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"distance": s.robot.GetSensorData().Distance})
}

func (s *Server) handleIMU(c *fiber.Ctx) error {
	return c.JSON(s.robot.GetSensorData().IMU)
}

func (s *Server) handleTouch(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"state": s.robot.GetSensorData().Touch})
}

func (s *Server) handleSoundDirection(c *fiber.Ctx) error {
	data := s.robot.GetSensorData()
	return c.JSON(fiber.Map{
		"direction": data.SoundDirection,
		"detected":  data.SoundDirection >= 0,
	})
}

func (s *Server) handleSetRGBMode(c *fiber.Ctx) error {
	var body rgbModeRequest
	if err := c.BodyParser(&body); err != nil {
		return &safety.Error{Detail: "Invalid request body: expected {style, color, bps, brightness}"}
	}

	if err := s.safety.ValidateRGBStyle(body.Style); err != nil {
		return err
	}
	color, err := resolveColor(body.Color)
	if err != nil {
		return err
	}

	bps := 1.0
	if body.BPS != nil {
		bps = *body.BPS
	}
	if bps <= 0 || bps > 10 {
		return &safety.Error{Detail: fmt.Sprintf("bps %g out of range (0, 10]", bps)}
	}

	brightness := 1.0
	if body.Brightness != nil {
		brightness = *body.Brightness
	}
	if brightness < 0 || brightness > 1 {
		return &safety.Error{Detail: fmt.Sprintf("Brightness %g out of range [0, 1]", brightness)}
	}

	if err := s.robot.SetRGB(body.Style, color, bps, brightness); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "style": body.Style, "color": color})
}

// resolveColor accepts a preset name or an [R, G, B] array.
func resolveColor(raw any) ([3]int, error) {
	switch v := raw.(type) {
	case nil:
		return dog.RGBColors["white"], nil
	case string:
		if rgb, ok := dog.RGBColors[strings.ToLower(v)]; ok {
			return rgb, nil
		}
		return [3]int{}, &safety.Error{Detail: fmt.Sprintf("Unknown color '%s'. Valid: %v", v, colorNames())}
	case []any:
		if len(v) != 3 {
			return [3]int{}, &safety.Error{Detail: "Color array must have exactly 3 components"}
		}
		var rgb [3]int
		for i, comp := range v {
			f, ok := comp.(float64)
			if !ok || f != math.Trunc(f) || f < 0 || f > 255 {
				return [3]int{}, &safety.Error{Detail: "Color components must be integers in [0, 255]"}
			}
			rgb[i] = int(f)
		}
		return rgb, nil
	default:
		return [3]int{}, &safety.Error{Detail: "Color must be a preset name or an [R, G, B] array"}
	}
}

func colorNames() []string {
	names := make([]string, 0, len(dog.RGBColors))
	for name := range dog.RGBColors {
		names = append(names, name)
	}
	return names
}

func (s *Server) handleRGBStyles(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"styles": dog.RGBStyles})
}

func (s *Server) handleRGBColors(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"colors": dog.RGBColors})
}

func (s *Server) handlePlaySound(c *fiber.Ctx) error {
	var body soundPlayRequest
	if err := c.BodyParser(&body); err != nil {
		return &safety.Error{Detail: "Invalid request body: expected {name, volume}"}
	}
	if !dog.ValidSound(body.Name) {
		return &safety.Error{Detail: fmt.Sprintf("Unknown sound '%s'. Valid: %v", body.Name, dog.SoundNames())}
	}

	volume := 80
	if body.Volume != nil {
		volume = *body.Volume
	}
	if volume < 0 || volume > 100 {
		return &safety.Error{Detail: fmt.Sprintf("Volume %d out of range [0, 100]", volume)}
	}

	if err := s.robot.PlaySound(body.Name, volume); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "name": body.Name, "volume": volume})
}

func (s *Server) handleListSounds(c *fiber.Ctx) error {
	return c.JSON(dog.Sounds)
}

func (s *Server) handleRobotStatus(c *fiber.Ctx) error {
	return c.JSON(s.robot.GetStatus())
}

func (s *Server) handleLogs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	if limit < 1 || limit > 1000 {
		return &safety.Error{Detail: fmt.Sprintf("limit %d out of range [1, 1000]", limit)}
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		return &safety.Error{Detail: "offset must be non-negative"}
	}
	level := strings.ToUpper(c.Query("level", "DEBUG"))

	entries, total := s.logs.Page(limit, offset, level)
	return c.JSON(fiber.Map{
		"entries": entries,
		"total":   total,
		"offset":  offset,
		"limit":   limit,
	})
}
