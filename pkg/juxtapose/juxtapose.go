// Package juxtapose lays images out side by side.
package juxtapose

import (
	"image"
	"image/color"
	"image/draw"
)

// Options configures the layout.
type Options struct {
	// Gap is the horizontal gap between images in pixels.
	Gap int
	// Background fills the gap and the area around shorter images.
	Background color.Color
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		Gap:        10,
		Background: color.Black,
	}
}

// Combine draws images left to right, each vertically centered.
// Nil images are skipped. It returns nil when there is nothing to draw.
func Combine(opts Options, images ...image.Image) *image.RGBA {
	var parts []image.Image
	for _, img := range images {
		if img != nil {
			parts = append(parts, img)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	if opts.Gap < 0 {
		opts.Gap = 0
	}
	if opts.Background == nil {
		opts.Background = color.Black
	}

	outputWidth := opts.Gap * (len(parts) - 1)
	outputHeight := 0
	for _, img := range parts {
		b := img.Bounds()
		outputWidth += b.Dx()
		if b.Dy() > outputHeight {
			outputHeight = b.Dy()
		}
	}

	output := image.NewRGBA(image.Rect(0, 0, outputWidth, outputHeight))
	draw.Draw(output, output.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	x := 0
	for _, img := range parts {
		b := img.Bounds()
		y := (outputHeight - b.Dy()) / 2
		rect := image.Rect(x, y, x+b.Dx(), y+b.Dy())
		draw.Draw(output, rect, img, b.Min, draw.Src)
		x += b.Dx() + opts.Gap
	}
	return output
}
