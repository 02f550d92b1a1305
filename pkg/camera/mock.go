package camera

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"sync/atomic"
)

// MockDevice generates placeholder JPEG frames in memory so the stream,
// snapshot, and vision paths work without camera hardware.
type MockDevice struct {
	frames atomic.Uint64
}

// NewMockDevice returns a frame generator producing 320x240 placeholders.
func NewMockDevice() *MockDevice {
	return &MockDevice{}
}

func (m *MockDevice) Open() error {
	return nil
}

func (m *MockDevice) Close() error {
	return nil
}

// Capture renders a gray placeholder with a moving marker bar so
// successive frames differ visibly in the stream.
func (m *MockDevice) Capture() ([]byte, error) {
	n := m.frames.Add(1)

	const w, h = 320, 240
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	bg := color.RGBA{40, 40, 40, 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, bg)
		}
	}

	// 10px marker bar sweeping left to right, one step per frame.
	barX := int(n*10) % (w - 10)
	marker := color.RGBA{180, 180, 180, 255}
	for y := h/2 - 5; y < h/2+5; y++ {
		for x := barX; x < barX+10; x++ {
			img.SetRGBA(x, y, marker)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
