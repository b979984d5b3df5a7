package ports

import (
	"image"
)

// FrameSink receives rendered frames for output.
type FrameSink interface {
	// Enabled returns true if frames are persisted.
	Enabled() bool

	// SaveFrame saves one frame under its 1-based index.
	SaveFrame(index int, img image.Image) error
}
