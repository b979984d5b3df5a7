package pipeline

import (
	"image"
)

// Frame is a decoded frame owned by the pipeline. Alpha is nil for
// single-stream playback.
type Frame struct {
	Index int
	Base  image.Image
	Alpha image.Image
}

// Rendered is a frame ready for output.
type Rendered struct {
	Index int
	Image image.Image
}

// Saved reports a frame written by the sink.
type Saved struct {
	Index int
}
