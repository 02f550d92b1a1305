// Package config provides environment-driven configuration for the PiDog API.
// All variables use the PIDOG_ prefix; a .env file in the working directory
// is loaded by the entry point before Load is called.
package config

import (
	"os"
	"strconv"
)

// Config holds every tunable for the service.
type Config struct {
	// API
	Host  string
	Port  int
	Debug bool

	// Hardware
	MockHardware bool

	// Safety
	MinBatteryVoltage float64
	MaxActionRate     int // accepted action requests per second, process-wide

	// Telemetry streaming
	SensorBroadcastHz float64
	StatusBroadcastHz float64

	// Log buffer
	LogBufferSize int

	// STT (Whisper endpoint)
	STTURL string

	// LLM providers
	OllamaURL        string
	OllamaModel      string
	OpenRouterAPIKey string
	OpenRouterModel  string
	DefaultProvider  string

	// Agent
	SkillPath string

	// Camera
	CameraEnabled bool // auto-start on boot
	CameraFPS     int
	CameraVFlip   bool
	CameraHFlip   bool
}

// Load reads configuration from the environment, falling back to defaults.
func Load() Config {
	return Config{
		Host:  getString("PIDOG_HOST", "0.0.0.0"),
		Port:  getInt("PIDOG_PORT", 8000),
		Debug: getBool("PIDOG_DEBUG", false),

		MockHardware: getBool("PIDOG_MOCK_HARDWARE", false),

		MinBatteryVoltage: getFloat("PIDOG_MIN_BATTERY_VOLTAGE", 6.5),
		MaxActionRate:     getInt("PIDOG_MAX_ACTION_RATE", 10),

		SensorBroadcastHz: getFloat("PIDOG_SENSOR_BROADCAST_HZ", 5.0),
		StatusBroadcastHz: getFloat("PIDOG_STATUS_BROADCAST_HZ", 0.2),

		LogBufferSize: getInt("PIDOG_LOG_BUFFER_SIZE", 2000),

		STTURL: getString("PIDOG_STT_URL", "http://localhost:5000/transcribe"),

		OllamaURL:        getString("PIDOG_OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:      getString("PIDOG_OLLAMA_MODEL", "llama3.2:3b"),
		OpenRouterAPIKey: getString("PIDOG_OPENROUTER_API_KEY", ""),
		OpenRouterModel:  getString("PIDOG_OPENROUTER_MODEL", "meta-llama/llama-3-8b-instruct"),
		DefaultProvider:  getString("PIDOG_DEFAULT_LLM_PROVIDER", "ollama"),

		SkillPath: getString("PIDOG_SKILL_PATH", "skill/pidog_skill.md"),

		CameraEnabled: getBool("PIDOG_CAMERA_ENABLED", false),
		CameraFPS:     getInt("PIDOG_CAMERA_FPS", 15),
		CameraVFlip:   getBool("PIDOG_CAMERA_VFLIP", false),
		CameraHFlip:   getBool("PIDOG_CAMERA_HFLIP", false),
	}
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// LogLevel returns the slog level name derived from the debug flag.
func (c Config) LogLevel() string {
	if c.Debug {
		return "debug"
	}
	return "info"
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
