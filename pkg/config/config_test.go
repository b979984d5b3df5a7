package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/kitsune/pkg/ports"
)

func TestLoadFromFile_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kitsune.yaml")
	yaml := `
base: clips/fox.mp4
alpha: clips/fox_alpha.mp4
fps: 24
max_frames: 48
output_dir: out
format: jpg
checkerboard: true
width: 320
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.FPS != 24 || cfg.MaxFrames != 48 || cfg.Width != 320 {
		t.Errorf("expected file values, got %+v", cfg)
	}
	if cfg.RefreshHz != 60 || cfg.CheckerCell != 8 || cfg.Quality != 90 {
		t.Errorf("expected defaults for unset fields, got %+v", cfg)
	}
	if cfg.ImageFormat() != ports.ImageJPEG {
		t.Errorf("expected jpeg, got %s", cfg.ImageFormat())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
	if cfg.Base != "clips/fox.mp4" || cfg.Alpha != "clips/fox_alpha.mp4" || cfg.OutputDir != "out" {
		t.Errorf("unexpected paths %+v", cfg)
	}
	if !cfg.Checkerboard {
		t.Error("expected checkerboard")
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("fps: [30"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	cfg := Defaults()
	cfg.FPS = -1
	cfg.Quality = 101
	cfg.Format = "gif"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"fps", "quality", "gif"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestDefaults_AreValid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}
