package kitsune

import (
	"testing"

	"github.com/user/kitsune/pkg/config"
	"github.com/user/kitsune/pkg/ports"
)

func TestConfigBuilder_ExportDefaults(t *testing.T) {
	cfg := NewConfigBuilder().WithBase("fox.mp4").Build()

	if cfg.Format != ports.ImagePNG || cfg.Checkerboard || cfg.Label {
		t.Errorf("unexpected export defaults %+v", cfg)
	}
	if cfg.FPS != 30 || cfg.RefreshHz != 60 {
		t.Errorf("expected 30fps on 60Hz, got %v on %v", cfg.FPS, cfg.RefreshHz)
	}
}

func TestConfigBuilder_PreviewPreset(t *testing.T) {
	cfg := NewConfigBuilderForPreset(PresetPreview).Build()
	if cfg.Format != ports.ImageJPEG || !cfg.Checkerboard || !cfg.Label || cfg.Width != 320 {
		t.Errorf("unexpected preview defaults %+v", cfg)
	}

	if NewConfigBuilderForPreset("bogus").Build().Format != ports.ImagePNG {
		t.Error("expected unknown preset to fall back to export")
	}
}

func TestConfigBuilder_BuildConstraints(t *testing.T) {
	cfg := NewConfigBuilder().
		WithFPS(0).
		WithRefreshHz(-1).
		WithQuality(500).
		WithMaxFrames(-3).
		Build()

	if cfg.FPS != 30 || cfg.RefreshHz != 60 || cfg.Quality != 90 || cfg.MaxFrames != 0 {
		t.Errorf("expected constraints to apply, got %+v", cfg)
	}
}

func TestFromFileConfig(t *testing.T) {
	file := config.Defaults()
	file.Base = "base"
	file.Alpha = "alpha"
	file.Format = "jpeg"
	file.FPS = 24

	cfg := FromFileConfig(file).WithLabel(true).WithSize(640, 0).Build()

	pc := cfg.ToPlayerConfig()
	if pc.BasePath != "base" || pc.AlphaPath != "alpha" || pc.FPS != 24 {
		t.Errorf("unexpected player config %+v", pc)
	}
	if !pc.Render.Label || pc.Render.Width != 640 {
		t.Errorf("expected builder overrides, got %+v", pc.Render)
	}
	if cfg.Format != ports.ImageJPEG {
		t.Errorf("expected jpeg, got %s", cfg.Format)
	}
}
