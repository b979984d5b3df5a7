package ports

import (
	"image"
	"strings"
)

// ImageFormat selects the encoding of saved frames.
type ImageFormat int

const (
	ImagePNG ImageFormat = iota
	ImageJPEG
)

// String returns the file extension for the format, without the dot.
func (f ImageFormat) String() string {
	switch f {
	case ImageJPEG:
		return "jpg"
	default:
		return "png"
	}
}

// ParseImageFormat parses "png", "jpg" or "jpeg". Anything else is PNG.
func ParseImageFormat(s string) ImageFormat {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "jpg", "jpeg":
		return ImageJPEG
	default:
		return ImagePNG
	}
}

// Renderer prepares decoded frames for display or storage.
type Renderer interface {
	// Checkerboard flattens img over a gray checkerboard so transparency
	// stays visible in formats and viewers without alpha.
	Checkerboard(img image.Image, cell int) image.Image

	// Resize scales img to width x height.
	Resize(img image.Image, width, height int) image.Image

	// Label draws text in the top-left corner of a copy of img.
	Label(img image.Image, text string) image.Image

	// EncodeImage encodes img. quality applies to JPEG only.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)
}
