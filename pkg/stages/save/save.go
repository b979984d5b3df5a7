// Package save implements the stage that hands rendered frames to a sink.
package save

import (
	"context"

	"github.com/user/kitsune/pkg/pipeline"
	"github.com/user/kitsune/pkg/ports"
)

// Stage writes frames to a ports.FrameSink.
type Stage struct {
	sink   ports.FrameSink
	logger ports.Logger
}

// NewStage creates a save stage.
func NewStage(sink ports.FrameSink, logger ports.Logger) *Stage {
	return &Stage{sink: sink, logger: logger.WithComponent("save")}
}

// Execute saves one frame.
func (s *Stage) Execute(ctx context.Context, frame pipeline.Rendered) (pipeline.Saved, error) {
	if err := ctx.Err(); err != nil {
		return pipeline.Saved{}, err
	}
	if err := s.sink.SaveFrame(frame.Index, frame.Image); err != nil {
		s.logger.Warn("Failed to save frame %d: %s", frame.Index, err)
		return pipeline.Saved{}, err
	}
	s.logger.Debug("Saved frame %d", frame.Index)
	return pipeline.Saved{Index: frame.Index}, nil
}

var _ pipeline.Stage[pipeline.Rendered, pipeline.Saved] = (*Stage)(nil)
