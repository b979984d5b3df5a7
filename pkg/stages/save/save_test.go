package save

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/user/kitsune/pkg/adapters/logger"
	"github.com/user/kitsune/pkg/mocks"
	"github.com/user/kitsune/pkg/pipeline"
)

func TestStage_Execute(t *testing.T) {
	sink := mocks.NewFrameSink()
	sink.SaveErr = map[int]error{2: errors.New("disk full")}
	stage := NewStage(sink, logger.NewNoop())

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	saved, err := stage.Execute(context.Background(), pipeline.Rendered{Index: 1, Image: img})
	if err != nil || saved.Index != 1 {
		t.Fatalf("expected frame 1 saved, got %+v, %v", saved, err)
	}
	if _, err := stage.Execute(context.Background(), pipeline.Rendered{Index: 2, Image: img}); err == nil {
		t.Error("expected sink error for frame 2")
	}

	if got := sink.Indexes(); len(got) != 1 || got[0] != 1 {
		t.Errorf("expected only frame 1 in sink, got %v", got)
	}
}
