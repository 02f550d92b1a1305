package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/command-pidog/pidog-api/internal/config"
	"github.com/command-pidog/pidog-api/internal/log"
	"github.com/command-pidog/pidog-api/pkg/agent"
	"github.com/command-pidog/pidog-api/pkg/camera"
	"github.com/command-pidog/pidog-api/pkg/dog"
	"github.com/command-pidog/pidog-api/pkg/hub"
	"github.com/command-pidog/pidog-api/pkg/inference"
	"github.com/command-pidog/pidog-api/pkg/safety"
	"github.com/command-pidog/pidog-api/pkg/telemetry"
	"github.com/command-pidog/pidog-api/pkg/web"
)

func main() {
	// Local overrides; missing file is fine.
	godotenv.Load()

	cfg := config.Load()
	log.Init(cfg.LogLevel(), cfg.LogBufferSize)

	fmt.Println("🐕 PiDog API")
	fmt.Printf("   Listen: %s\n", cfg.Addr())
	fmt.Printf("   Mock hardware: %v\n", cfg.MockHardware)
	fmt.Println()

	if !cfg.MockHardware {
		// Real servo/sensor drivers need the Pi HAT toolchain, which
		// this build does not link. TODO: wire the sunfounder I2C
		// driver behind dog.Device once it is ported.
		log.Warn("real hardware driver not available, using mock", "component", "main")
	}

	robot, _ := dog.NewMockService(cfg.MinBatteryVoltage)
	defer robot.Close()

	validator := safety.NewValidator(cfg.MinBatteryVoltage, cfg.MaxActionRate)

	cam := camera.NewMockService(
		camera.WithFPS(cfg.CameraFPS),
		camera.WithFlip(cfg.CameraVFlip, cfg.CameraHFlip),
	)
	if cfg.CameraEnabled {
		if err := cam.Start(); err != nil {
			log.Error("camera auto-start failed", "component", "main", "error", err)
		}
	}
	defer cam.Stop()

	providers := inference.NewRegistry(inference.RegistryConfig{
		OllamaURL:        cfg.OllamaURL,
		OllamaModel:      cfg.OllamaModel,
		OpenRouterAPIKey: cfg.OpenRouterAPIKey,
		OpenRouterModel:  cfg.OpenRouterModel,
		DefaultProvider:  cfg.DefaultProvider,
	})
	ag := agent.New(robot, validator, cam, providers, cfg.STTURL, cfg.SkillPath)

	h := hub.New()
	stream := telemetry.NewStream(robot, h, cfg.SensorBroadcastHz, cfg.StatusBroadcastHz)
	stream.ForwardLogs(log.Ring().Stream())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go stream.Run(ctx)

	server := web.NewServer(robot, validator, cam, ag, h, log.Ring())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n👋 Shutting down...")
		cancel()
		if err := server.Shutdown(); err != nil {
			log.Error("shutdown error", "component", "main", "error", err)
		}
	}()

	if err := server.Listen(cfg.Addr()); err != nil {
		log.Error("server exited", "component", "main", "error", err)
		os.Exit(1)
	}

	fmt.Println("👋 Goodbye!")
}
