package mocks

import (
	"fmt"
	"image"
	"sync"

	"github.com/user/kitsune/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer. Images pass through
// unchanged and encoding produces a short marker payload.
type Renderer struct {
	mu sync.Mutex

	CheckerboardCalls int
	ResizeCalls       int
	Labels            []string
	Encoded           []ports.ImageFormat

	EncodeErr error
}

func (m *Renderer) Checkerboard(img image.Image, cell int) image.Image {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CheckerboardCalls++
	return img
}

func (m *Renderer) Resize(img image.Image, width, height int) image.Image {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResizeCalls++
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

func (m *Renderer) Label(img image.Image, text string) image.Image {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Labels = append(m.Labels, text)
	return img
}

func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EncodeErr != nil {
		return nil, m.EncodeErr
	}
	m.Encoded = append(m.Encoded, format)
	b := img.Bounds()
	return []byte(fmt.Sprintf("%s:%dx%d", format, b.Dx(), b.Dy())), nil
}

var _ ports.Renderer = (*Renderer)(nil)
