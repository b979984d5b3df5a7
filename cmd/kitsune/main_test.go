package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/user/kitsune/pkg/mocks"
)

func writePNGs(t *testing.T, dir string, n int, c color.Color) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= n; i++ {
		img := image.NewNRGBA(image.Rect(0, 0, 6, 4))
		for y := 0; y < 4; y++ {
			for x := 0; x < 6; x++ {
				img.Set(x, y, c)
			}
		}
		f, err := os.Create(filepath.Join(dir, fmt.Sprintf("%04d.png", i)))
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(f, img); err != nil {
			t.Fatal(err)
		}
		f.Close()
	}
}

func captureExit(t *testing.T) *int {
	t.Helper()
	code := -1
	prev := cli.OsExiter
	cli.OsExiter = func(c int) { code = c }
	t.Cleanup(func() { cli.OsExiter = prev })
	return &code
}

func TestPlay_DualImageSequence(t *testing.T) {
	dir := t.TempDir()
	writePNGs(t, filepath.Join(dir, "base"), 3, color.NRGBA{R: 0xff, A: 0xff})
	writePNGs(t, filepath.Join(dir, "alpha"), 3, color.White)
	out := filepath.Join(dir, "out")
	summary := filepath.Join(dir, "report", "summary.md")

	err := newApp().Run([]string{
		"kitsune", "play",
		"--base", filepath.Join(dir, "base"),
		"--alpha", filepath.Join(dir, "alpha"),
		"--output", out,
		"--summary", summary,
		"--refresh-hz", "120",
		"--quiet",
	})
	if err != nil {
		t.Fatalf("play failed: %v", err)
	}

	for i := 1; i <= 3; i++ {
		path := filepath.Join(out, fmt.Sprintf("frame-%05d.png", i))
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s: %v", path, err)
		}
	}

	data, err := os.ReadFile(summary)
	if err != nil {
		t.Fatalf("expected summary: %v", err)
	}
	for _, want := range []string{"completed", "| Frames | 3 |", "| Saved Frames | 3 |"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("expected summary to contain %q:\n%s", want, data)
		}
	}
}

func TestPlay_MissingBase(t *testing.T) {
	code := captureExit(t)
	newApp().Run([]string{"kitsune", "play", "--quiet"})
	if *code != exitUsage {
		t.Errorf("expected usage exit code, got %d", *code)
	}
}

func TestPlay_UnreadableSource(t *testing.T) {
	code := captureExit(t)
	newApp().Run([]string{"kitsune", "play", "--quiet", filepath.Join(t.TempDir(), "missing")})
	if *code != exitPlayback {
		t.Errorf("expected playback exit code, got %d", *code)
	}
}

func TestPlay_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kitsune.yaml")
	if err := os.WriteFile(path, []byte("fps: -5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	code := captureExit(t)
	newApp().Run([]string{"kitsune", "play", "--config", path, "--quiet", "clip"})
	if *code != exitUsage {
		t.Errorf("expected usage exit code, got %d", *code)
	}
}

func TestProbe(t *testing.T) {
	data, err := mocks.MP4Fixture{
		Width:     64,
		Height:    48,
		Timescale: 30000,
		NALUs:     [][]byte{{0x65, 0x88, 0x84}, {0x41, 0x9a, 0x02}},
	}.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	if err := newApp().Run([]string{"kitsune", "probe", path}); err != nil {
		t.Errorf("probe failed: %v", err)
	}

	code := captureExit(t)
	newApp().Run([]string{"kitsune", "probe"})
	if *code != exitUsage {
		t.Errorf("expected usage exit code, got %d", *code)
	}
}
