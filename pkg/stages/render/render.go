// Package render implements the stage that turns decoded frames into
// output images.
package render

import (
	"context"
	"fmt"

	"github.com/user/kitsune/pkg/composite"
	"github.com/user/kitsune/pkg/juxtapose"
	"github.com/user/kitsune/pkg/pipeline"
	"github.com/user/kitsune/pkg/ports"
)

// Options controls how frames are prepared.
type Options struct {
	Width        int  // Output width; 0 keeps the source size
	Height       int  // Output height; 0 keeps the aspect ratio
	Checkerboard bool // Flatten transparency over a checkerboard
	CheckerCell  int
	Label        bool // Stamp the frame index in the corner
	SideBySide   bool // Show base, matte and result next to each other
}

// Stage merges alpha mattes and applies preview options.
type Stage struct {
	renderer ports.Renderer
	opts     Options
}

// NewStage creates a render stage.
func NewStage(renderer ports.Renderer, opts Options) *Stage {
	return &Stage{renderer: renderer, opts: opts}
}

// Execute renders one frame.
func (s *Stage) Execute(ctx context.Context, frame pipeline.Frame) (pipeline.Rendered, error) {
	if err := ctx.Err(); err != nil {
		return pipeline.Rendered{}, err
	}
	if frame.Base == nil {
		return pipeline.Rendered{}, fmt.Errorf("frame %d: missing base image", frame.Index)
	}

	img := frame.Base
	if frame.Alpha != nil {
		img = composite.Merge(frame.Base, frame.Alpha)
		if s.opts.SideBySide {
			img = juxtapose.Combine(juxtapose.DefaultOptions(), frame.Base, frame.Alpha, img)
		}
	}

	if w, h := s.size(img.Bounds().Dx(), img.Bounds().Dy()); w > 0 && h > 0 {
		img = s.renderer.Resize(img, w, h)
	}
	if s.opts.Checkerboard {
		img = s.renderer.Checkerboard(img, s.opts.CheckerCell)
	}
	if s.opts.Label {
		img = s.renderer.Label(img, fmt.Sprintf("#%d", frame.Index))
	}

	return pipeline.Rendered{Index: frame.Index, Image: img}, nil
}

// size returns the resize target, or zeros when no resize is needed.
func (s *Stage) size(srcW, srcH int) (int, int) {
	w, h := s.opts.Width, s.opts.Height
	switch {
	case w <= 0 && h <= 0:
		return 0, 0
	case h <= 0 && srcW > 0:
		h = srcH * w / srcW
	case w <= 0 && srcH > 0:
		w = srcW * h / srcH
	}
	if w == srcW && h == srcH {
		return 0, 0
	}
	return w, h
}

var _ pipeline.Stage[pipeline.Frame, pipeline.Rendered] = (*Stage)(nil)
