package summarizer

import (
	"errors"
	"testing"
	"time"
)

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func TestBuilder_WithSource(t *testing.T) {
	summary := NewBuilder().
		WithSource(SourceInfo{Base: "fox.mp4", Alpha: "fox_alpha.mp4", Codec: "h264", Width: 640, Height: 360}).
		Build()

	if !summary.Source.Dual() {
		t.Error("expected dual source")
	}
	if summary.Source.Width != 640 || summary.Source.Codec != "h264" {
		t.Errorf("unexpected source %+v", summary.Source)
	}
}

func TestBuilder_WithPlayback(t *testing.T) {
	summary := NewBuilder().
		WithPlayback("completed", 90, 3*time.Second).
		WithRates(30, 60).
		WithError(nil).
		Build()

	if summary.Playback.Outcome != "completed" || summary.Playback.Frames != 90 {
		t.Errorf("unexpected playback %+v", summary.Playback)
	}
	if summary.Playback.ElapsedMs != 3000 {
		t.Errorf("expected 3000 ms, got %d", summary.Playback.ElapsedMs)
	}
	if got := summary.Playback.EffectiveFPS(); got != 30 {
		t.Errorf("expected effective 30 fps, got %v", got)
	}
	if summary.Playback.Error != "" {
		t.Errorf("expected no error, got %q", summary.Playback.Error)
	}
}

func TestBuilder_WithError(t *testing.T) {
	summary := NewBuilder().WithError(errors.New("decode failed")).Build()
	if summary.Playback.Error != "decode failed" {
		t.Errorf("expected error text, got %q", summary.Playback.Error)
	}
}

func TestPlaybackInfo_EffectiveFPSUnknown(t *testing.T) {
	if got := (PlaybackInfo{Frames: 10}).EffectiveFPS(); got != 0 {
		t.Errorf("expected 0 without elapsed time, got %v", got)
	}
}
