// Package filesink writes played frames to numbered image files.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"github.com/user/kitsune/pkg/ports"
)

// Options configures the output encoding.
type Options struct {
	Format  ports.ImageFormat // Default: PNG
	Quality int               // JPEG quality (default: 90)
}

// Sink saves frames as <dir>/frame-00001.png and so on.
type Sink struct {
	dir      string
	fs       ports.FileSystem
	renderer ports.Renderer
	opts     Options

	once   sync.Once
	dirErr error
}

// New creates a sink writing into dir.
func New(dir string, fs ports.FileSystem, renderer ports.Renderer, opts Options) *Sink {
	if opts.Quality <= 0 {
		opts.Quality = 90
	}
	return &Sink{
		dir:      dir,
		fs:       fs,
		renderer: renderer,
		opts:     opts,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// Path returns the file path used for a frame index.
func (s *Sink) Path(index int) string {
	return filepath.Join(s.dir, fmt.Sprintf("frame-%05d.%s", index, s.opts.Format))
}

// SaveFrame encodes img and writes it under its index.
func (s *Sink) SaveFrame(index int, img image.Image) error {
	s.once.Do(func() {
		s.dirErr = s.fs.MkdirAll(s.dir)
	})
	if s.dirErr != nil {
		return fmt.Errorf("create output dir: %w", s.dirErr)
	}

	data, err := s.renderer.EncodeImage(img, s.opts.Format, s.opts.Quality)
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", index, err)
	}
	if err := s.fs.WriteFile(s.Path(index), data); err != nil {
		return fmt.Errorf("write frame %d: %w", index, err)
	}
	return nil
}

var _ ports.FrameSink = (*Sink)(nil)
