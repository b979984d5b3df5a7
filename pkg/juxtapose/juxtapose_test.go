package juxtapose

import (
	"image"
	"image/color"
	"testing"
)

func fill(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestCombine_Layout(t *testing.T) {
	red := color.RGBA{R: 0xff, A: 0xff}
	blue := color.RGBA{B: 0xff, A: 0xff}
	out := Combine(Options{Gap: 2, Background: color.White}, fill(4, 4, red), fill(3, 2, blue))

	if out.Bounds().Dx() != 9 || out.Bounds().Dy() != 4 {
		t.Fatalf("expected 9x4, got %v", out.Bounds())
	}
	if got := out.RGBAAt(0, 0); got != red {
		t.Errorf("expected left image at origin, got %v", got)
	}
	if got := out.RGBAAt(4, 1); got != (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("expected background in gap, got %v", got)
	}
	// 2px tall image centered in 4px: rows 1-2
	if got := out.RGBAAt(6, 0); got != (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("expected background above centered image, got %v", got)
	}
	if got := out.RGBAAt(6, 1); got != blue {
		t.Errorf("expected right image at (6,1), got %v", got)
	}
}

func TestCombine_SkipsNil(t *testing.T) {
	out := Combine(DefaultOptions(), nil, fill(2, 2, color.White), nil)
	if out.Bounds().Dx() != 2 {
		t.Errorf("expected nil images to be skipped, got %v", out.Bounds())
	}
	if Combine(DefaultOptions()) != nil {
		t.Error("expected nil for no images")
	}
}

func TestCombine_OffsetBounds(t *testing.T) {
	src := fill(6, 6, color.RGBA{G: 0xff, A: 0xff})
	sub := src.SubImage(image.Rect(2, 2, 4, 4))
	out := Combine(Options{}, sub)
	if out.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("expected 2x2, got %v", out.Bounds())
	}
	if got := out.RGBAAt(1, 1); got.G != 0xff {
		t.Errorf("expected sub-image pixels, got %v", got)
	}
}
