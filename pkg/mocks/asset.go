package mocks

import (
	"fmt"
	"image"
	"sync"

	"github.com/user/kitsune/pkg/ports"
)

// AssetReader is a mock implementation of ports.AssetReader that yields
// Frames solid-color frames, optionally failing at a given frame.
type AssetReader struct {
	mu sync.Mutex

	Frames   int   // Number of frames before end of stream
	FailAt   int   // 1-based frame whose decode fails (0 = never)
	FailErr  error // Error returned at FailAt (defaults to ports.ErrDecode)
	ResetErr error // Error returned by Reset
	Width    int
	Height   int

	status ports.ReaderStatus
	next   int

	// Recorded calls for verification
	ResetCalls  int
	CopyCalls   int
	CancelCalls int
}

// NewAssetReader creates a mock reader producing the given number of frames.
func NewAssetReader(frames int) *AssetReader {
	return &AssetReader{Frames: frames, Width: 4, Height: 4}
}

func (m *AssetReader) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResetCalls++
	if m.ResetErr != nil {
		m.status = ports.StatusIdle
		return m.ResetErr
	}
	m.next = 0
	m.status = ports.StatusReading
	return nil
}

func (m *AssetReader) CopyNextImageBuffer() (ports.ImageBuffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CopyCalls++

	switch m.status {
	case ports.StatusReading:
	case ports.StatusCompleted:
		return ports.ImageBuffer{}, ports.ErrEndOfStream
	default:
		return ports.ImageBuffer{}, fmt.Errorf("%w: reader is %s", ports.ErrDecode, m.status)
	}

	frame := m.next + 1
	if m.FailAt > 0 && frame == m.FailAt {
		m.status = ports.StatusFailed
		if m.FailErr != nil {
			return ports.ImageBuffer{}, m.FailErr
		}
		return ports.ImageBuffer{}, fmt.Errorf("%w: frame %d", ports.ErrDecode, frame)
	}
	if frame > m.Frames {
		m.status = ports.StatusCompleted
		return ports.ImageBuffer{}, ports.ErrEndOfStream
	}

	m.next = frame
	img := image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))
	shade := uint8(frame % 256)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = shade, shade, shade, 255
	}
	return ports.NewImageBuffer(img), nil
}

func (m *AssetReader) CancelReading() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CancelCalls++
	m.status = ports.StatusIdle
}

func (m *AssetReader) Status() ports.ReaderStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Delivered returns the number of frames produced since the last reset.
func (m *AssetReader) Delivered() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.next
}

var _ ports.AssetReader = (*AssetReader)(nil)
