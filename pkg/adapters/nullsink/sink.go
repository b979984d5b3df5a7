// Package nullsink provides a frame sink that discards everything.
package nullsink

import (
	"image"

	"github.com/user/kitsune/pkg/ports"
)

// Sink is a no-op implementation of ports.FrameSink.
type Sink struct{}

// New creates a new Sink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false so callers can skip preparing frames.
func (s *Sink) Enabled() bool {
	return false
}

// SaveFrame does nothing.
func (s *Sink) SaveFrame(index int, img image.Image) error {
	return nil
}

var _ ports.FrameSink = (*Sink)(nil)
