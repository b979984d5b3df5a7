package mocks

import (
	"image"
	"sort"
	"sync"

	"github.com/user/kitsune/pkg/ports"
)

// FrameSink is a mock implementation of ports.FrameSink.
type FrameSink struct {
	mu     sync.Mutex
	frames map[int]image.Image

	Disabled bool
	// SaveErr, when set, is returned for the frame indexes it maps.
	SaveErr map[int]error
}

// NewFrameSink creates an enabled mock sink.
func NewFrameSink() *FrameSink {
	return &FrameSink{frames: make(map[int]image.Image)}
}

func (m *FrameSink) Enabled() bool {
	return !m.Disabled
}

func (m *FrameSink) SaveFrame(index int, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.SaveErr[index]; err != nil {
		return err
	}
	m.frames[index] = img
	return nil
}

// Indexes returns the saved frame indexes in ascending order.
func (m *FrameSink) Indexes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, 0, len(m.frames))
	for i := range m.frames {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Frame returns the image saved under index.
func (m *FrameSink) Frame(index int) (image.Image, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.frames[index]
	return img, ok
}

var _ ports.FrameSink = (*FrameSink)(nil)
