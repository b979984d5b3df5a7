// Package ggrenderer implements ports.Renderer with the gg 2D library.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/kitsune/pkg/ports"
)

// DefaultCell is the checkerboard square size used when cell <= 0.
const DefaultCell = 8

var (
	lightSquare = color.Gray{Y: 0xcc}
	darkSquare  = color.Gray{Y: 0x99}
)

// Renderer implements ports.Renderer using gg.
type Renderer struct{}

// New creates a new Renderer.
func New() *Renderer {
	return &Renderer{}
}

// Checkerboard draws img over a two-tone checkerboard.
func (r *Renderer) Checkerboard(img image.Image, cell int) image.Image {
	if cell <= 0 {
		cell = DefaultCell
	}
	b := img.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.SetColor(lightSquare)
	dc.Clear()

	dc.SetColor(darkSquare)
	for y := 0; y < b.Dy(); y += cell {
		for x := 0; x < b.Dx(); x += cell {
			if (x/cell+y/cell)%2 == 1 {
				dc.DrawRectangle(float64(x), float64(y), float64(cell), float64(cell))
			}
		}
	}
	dc.Fill()

	dc.DrawImage(img, -b.Min.X, -b.Min.Y)
	return dc.Image()
}

// Resize scales img with Catmull-Rom filtering.
func (r *Renderer) Resize(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Label draws text on a dark backing box using gg's default face.
func (r *Renderer) Label(img image.Image, text string) image.Image {
	b := img.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.DrawImage(img, -b.Min.X, -b.Min.Y)

	w, h := dc.MeasureString(text)
	const pad = 3.0
	dc.SetColor(color.RGBA{A: 0xa0})
	dc.DrawRectangle(0, 0, w+2*pad, h+2*pad)
	dc.Fill()

	dc.SetColor(color.White)
	dc.DrawStringAnchored(text, pad, pad+h/2, 0, 0.5)
	return dc.Image()
}

// EncodeImage encodes img as PNG or JPEG.
func (r *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case ports.ImageJPEG:
		if quality <= 0 || quality > 100 {
			quality = jpeg.DefaultQuality
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("encode JPEG: %w", err)
		}
	case ports.ImagePNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %d", format)
	}

	return buf.Bytes(), nil
}

var _ ports.Renderer = (*Renderer)(nil)
