package ggrenderer

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/user/kitsune/pkg/ports"
)

func TestRenderer_CheckerboardShowsThroughTransparency(t *testing.T) {
	r := New()

	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	// Opaque red in the first cell, fully transparent elsewhere.
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}

	out := r.Checkerboard(img, 8)
	if b := out.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Fatalf("expected 16x16, got %v", b)
	}

	if got := color.RGBAModel.Convert(out.At(2, 2)).(color.RGBA); got.R != 255 || got.G != 0 {
		t.Errorf("expected opaque red over the board, got %v", got)
	}
	light := color.RGBAModel.Convert(out.At(12, 12)).(color.RGBA)
	dark := color.RGBAModel.Convert(out.At(12, 2)).(color.RGBA)
	if light.R != 0xcc || dark.R != 0x99 {
		t.Errorf("expected alternating squares, got light=%v dark=%v", light, dark)
	}
	if a := color.RGBAModel.Convert(out.At(15, 15)).(color.RGBA).A; a != 0xff {
		t.Errorf("expected flattened output to be opaque, got alpha %#x", a)
	}
}

func TestRenderer_CheckerboardDefaultCell(t *testing.T) {
	out := New().Checkerboard(image.NewNRGBA(image.Rect(0, 0, 16, 16)), 0)
	first := color.RGBAModel.Convert(out.At(0, 0)).(color.RGBA)
	second := color.RGBAModel.Convert(out.At(DefaultCell, 0)).(color.RGBA)
	if first == second {
		t.Errorf("expected default cell of %d pixels, got uniform %v", DefaultCell, first)
	}
}

func TestRenderer_Resize(t *testing.T) {
	r := New()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))

	out := r.Resize(img, 20, 10)
	if b := out.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Errorf("expected 20x10, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestRenderer_LabelKeepsSize(t *testing.T) {
	r := New()
	img := image.NewRGBA(image.Rect(0, 0, 120, 40))

	out := r.Label(img, "frame 12")
	if out.Bounds() != img.Bounds() {
		t.Errorf("expected bounds %v, got %v", img.Bounds(), out.Bounds())
	}
	if _, _, _, a := out.At(1, 1).RGBA(); a == 0 {
		t.Error("expected label backing box in the corner")
	}
}

func TestRenderer_EncodeImage(t *testing.T) {
	r := New()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))

	tests := []struct {
		name   string
		format ports.ImageFormat
		decode func([]byte) (image.Image, error)
	}{
		{"png", ports.ImagePNG, func(b []byte) (image.Image, error) { return png.Decode(bytes.NewReader(b)) }},
		{"jpeg", ports.ImageJPEG, func(b []byte) (image.Image, error) { return jpeg.Decode(bytes.NewReader(b)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := r.EncodeImage(img, tt.format, 0)
			if err != nil {
				t.Fatalf("EncodeImage failed: %v", err)
			}
			decoded, err := tt.decode(data)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if decoded.Bounds().Dx() != 10 {
				t.Errorf("expected width 10, got %d", decoded.Bounds().Dx())
			}
		})
	}

	if _, err := r.EncodeImage(img, ports.ImageFormat(99), 0); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestParseImageFormat(t *testing.T) {
	for in, want := range map[string]ports.ImageFormat{
		"png": ports.ImagePNG, ".jpg": ports.ImageJPEG, "JPEG": ports.ImageJPEG, "": ports.ImagePNG,
	} {
		if got := ports.ParseImageFormat(in); got != want {
			t.Errorf("ParseImageFormat(%q) = %s, want %s", in, got, want)
		}
	}
}
