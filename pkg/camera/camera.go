// Package camera owns the capture device lifecycle and frame access.
// The service is a two-state machine (Stopped <-> Running) guarded by its
// own lock, independent of the robot service's lock; neither calls into
// the other.
package camera

import (
	"fmt"
	"sync"

	"github.com/command-pidog/pidog-api/internal/log"
)

// Device is the capture backend. Open may block for device warm-up
// (bounded, about a second on real hardware).
type Device interface {
	Open() error
	// Capture returns one JPEG-encoded frame, or nil when no frame is
	// available right now.
	Capture() ([]byte, error)
	Close() error
}

// Status is the camera state snapshot returned by the API.
type Status struct {
	Running bool `json:"running"`
	Mock    bool `json:"mock"`
	FPS     int  `json:"fps"`
	VFlip   bool `json:"vflip"`
	HFlip   bool `json:"hflip"`
}

// Service manages one capture device.
type Service struct {
	dev   Device
	mock  bool
	fps   int
	vflip bool
	hflip bool

	mu      sync.Mutex
	running bool
}

// Option configures a Service.
type Option func(*Service)

// WithFPS sets the target frame rate for the MJPEG stream.
func WithFPS(fps int) Option {
	return func(s *Service) {
		if fps > 0 {
			s.fps = fps
		}
	}
}

// WithFlip sets the vertical/horizontal flip flags.
func WithFlip(vflip, hflip bool) Option {
	return func(s *Service) {
		s.vflip = vflip
		s.hflip = hflip
	}
}

// NewService creates a camera service over the given device.
func NewService(dev Device, mock bool, opts ...Option) *Service {
	s := &Service{
		dev:  dev,
		mock: mock,
		fps:  15,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewMockService creates a service over the in-memory frame generator.
func NewMockService(opts ...Option) *Service {
	return NewService(NewMockDevice(), true, opts...)
}

// Start initializes the capture device. No-op when already running. A
// failed initialization propagates and leaves the service stopped.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	if err := s.dev.Open(); err != nil {
		log.Error("camera start failed", "component", "camera", "error", err)
		return fmt.Errorf("open capture device: %w", err)
	}
	s.running = true
	log.Info("camera started", "component", "camera", "mock", s.mock, "fps", s.fps)
	return nil
}

// Stop releases the device. No-op when not running.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	if err := s.dev.Close(); err != nil {
		log.Warn("error closing camera", "component", "camera", "error", err)
	}
	s.running = false
	log.Info("camera stopped", "component", "camera")
}

// Frame returns one JPEG-encoded frame, or nil when the camera is not
// running or capture transiently fails. "No frame" is never an error.
func (s *Service) Frame() []byte {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if !running {
		return nil
	}

	frame, err := s.dev.Capture()
	if err != nil {
		log.Error("frame capture error", "component", "camera", "error", err)
		return nil
	}
	return frame
}

// IsRunning reports whether the camera is started.
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// IsMock reports whether the service runs on the mock device.
func (s *Service) IsMock() bool {
	return s.mock
}

// TargetFPS returns the target MJPEG frame rate.
func (s *Service) TargetFPS() int {
	return s.fps
}

// VFlip reports the vertical flip flag.
func (s *Service) VFlip() bool {
	return s.vflip
}

// HFlip reports the horizontal flip flag.
func (s *Service) HFlip() bool {
	return s.hflip
}

// Status returns the full state snapshot.
func (s *Service) Status() Status {
	return Status{
		Running: s.IsRunning(),
		Mock:    s.mock,
		FPS:     s.fps,
		VFlip:   s.vflip,
		HFlip:   s.hflip,
	}
}
