package imageseq

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/user/kitsune/pkg/mocks"
	"github.com/user/kitsune/pkg/ports"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReader_ReadsInNameOrder(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFile("frames/0002.png", encodePNG(t, solid(4, 2, color.Gray{Y: 0x80})))
	fs.WriteFile("frames/0001.png", encodePNG(t, solid(4, 2, color.White)))
	fs.WriteFile("frames/notes.txt", []byte("not an image"))

	var bmpData, tiffData bytes.Buffer
	if err := bmp.Encode(&bmpData, solid(4, 2, color.Black)); err != nil {
		t.Fatal(err)
	}
	if err := tiff.Encode(&tiffData, solid(4, 2, color.Black), nil); err != nil {
		t.Fatal(err)
	}
	fs.WriteFile("frames/0003.bmp", bmpData.Bytes())
	fs.WriteFile("frames/0004.tiff", tiffData.Bytes())

	r := New(fs, "frames")
	if err := r.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if r.Len() != 4 {
		t.Fatalf("expected 4 images, got %d", r.Len())
	}

	wantRed := []uint32{0xffff, 0x8080, 0, 0}
	for i, want := range wantRed {
		buf, err := r.CopyNextImageBuffer()
		if err != nil {
			t.Fatalf("frame %d: %v", i+1, err)
		}
		if buf.Width() != 4 || buf.Height() != 2 {
			t.Errorf("frame %d: expected 4x2, got %dx%d", i+1, buf.Width(), buf.Height())
		}
		if red, _, _, _ := buf.Image.At(0, 0).RGBA(); red != want {
			t.Errorf("frame %d: expected red %#x, got %#x", i+1, want, red)
		}
	}

	if _, err := r.CopyNextImageBuffer(); !errors.Is(err, ports.ErrEndOfStream) {
		t.Fatalf("expected ErrEndOfStream, got %v", err)
	}
	if r.Status() != ports.StatusCompleted {
		t.Errorf("expected completed, got %s", r.Status())
	}

	if err := r.Reset(); err != nil {
		t.Fatalf("second Reset failed: %v", err)
	}
	if _, err := r.CopyNextImageBuffer(); err != nil {
		t.Errorf("expected first frame after reset, got %v", err)
	}
}

func TestReader_EmptyDirectoryEndsImmediately(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.MkdirAll("empty")

	r := New(fs, "empty")
	if err := r.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if _, err := r.CopyNextImageBuffer(); !errors.Is(err, ports.ErrEndOfStream) {
		t.Errorf("expected ErrEndOfStream, got %v", err)
	}
}

func TestReader_MissingDirectory(t *testing.T) {
	r := New(mocks.NewFileSystem(), "missing")
	if err := r.Reset(); !errors.Is(err, ports.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if r.Status() != ports.StatusIdle {
		t.Errorf("expected idle, got %s", r.Status())
	}
}

func TestReader_CorruptImageFails(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFile("frames/0001.png", encodePNG(t, solid(2, 2, color.White)))
	fs.WriteFile("frames/0002.png", []byte("\x89PNG garbage"))

	r := New(fs, "frames")
	if err := r.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if _, err := r.CopyNextImageBuffer(); err != nil {
		t.Fatalf("expected first frame, got %v", err)
	}
	if _, err := r.CopyNextImageBuffer(); !errors.Is(err, ports.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if r.Status() != ports.StatusFailed {
		t.Errorf("expected failed, got %s", r.Status())
	}
}

func TestReader_CancelReading(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFile("frames/0001.png", encodePNG(t, solid(2, 2, color.White)))

	r := New(fs, "frames")
	if err := r.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	r.CancelReading()

	if r.Status() != ports.StatusIdle {
		t.Errorf("expected idle, got %s", r.Status())
	}
	if _, err := r.CopyNextImageBuffer(); !errors.Is(err, ports.ErrDecode) {
		t.Errorf("expected ErrDecode after cancel, got %v", err)
	}
}

func TestSupported(t *testing.T) {
	for name, want := range map[string]bool{
		"a.png": true, "b.JPG": true, "c.webp": true, "d.tif": true,
		"e.txt": false, "f": false, "g.mp4": false,
	} {
		if got := Supported(name); got != want {
			t.Errorf("Supported(%q) = %v, want %v", name, got, want)
		}
	}
}
