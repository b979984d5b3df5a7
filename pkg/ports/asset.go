// Package ports defines interfaces for external dependencies.
package ports

import (
	"errors"
	"image"
	"image/draw"
)

var (
	// ErrIO is returned when a source cannot be opened or read.
	ErrIO = errors.New("asset: source unreadable")

	// ErrFormat is returned when a source has no decodable video track.
	ErrFormat = errors.New("asset: unsupported format")

	// ErrDecode is returned when a single frame fails to decode.
	ErrDecode = errors.New("asset: decode failed")

	// ErrEndOfStream is returned by CopyNextImageBuffer once the source is exhausted.
	// It is not a failure; the reader status becomes StatusCompleted.
	ErrEndOfStream = errors.New("asset: end of stream")
)

// ReaderStatus reports the outcome of the most recent read.
type ReaderStatus int

const (
	// StatusIdle means the reader has no open decode session.
	StatusIdle ReaderStatus = iota
	// StatusReading means more frames may be available.
	StatusReading
	// StatusCompleted means the source is exhausted.
	StatusCompleted
	// StatusFailed means a decode error occurred.
	StatusFailed
)

// String returns the string representation of the status.
func (s ReaderStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusReading:
		return "reading"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further frames can be read without a reset.
func (s ReaderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// AssetReader is a per-file decode session producing frames on demand.
type AssetReader interface {
	// Reset opens or rewinds the decode session to frame 0.
	// It fails with ErrIO or ErrFormat when the source cannot be decoded.
	Reset() error

	// CopyNextImageBuffer decodes exactly one frame.
	// It returns ErrEndOfStream when the source is exhausted and an error
	// wrapping ErrDecode when the frame cannot be decoded.
	CopyNextImageBuffer() (ImageBuffer, error)

	// CancelReading releases decode resources. Idempotent.
	CancelReading()

	// Status reflects the outcome of the most recent CopyNextImageBuffer call.
	Status() ReaderStatus
}

// PixelFormat identifies the pixel layout of an ImageBuffer.
type PixelFormat int

const (
	FormatUnknown PixelFormat = iota
	FormatRGBA
	FormatNRGBA
	FormatGray
	FormatYCbCr
)

// String returns the string representation of the pixel format.
func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA:
		return "rgba"
	case FormatNRGBA:
		return "nrgba"
	case FormatGray:
		return "gray"
	case FormatYCbCr:
		return "ycbcr"
	default:
		return "unknown"
	}
}

// PixelFormatOf returns the pixel format of the concrete image type.
func PixelFormatOf(img image.Image) PixelFormat {
	switch img.(type) {
	case *image.RGBA:
		return FormatRGBA
	case *image.NRGBA:
		return FormatNRGBA
	case *image.Gray:
		return FormatGray
	case *image.YCbCr:
		return FormatYCbCr
	default:
		return FormatUnknown
	}
}

// ImageBuffer is one decoded frame.
// A buffer is borrowed for the duration of a single consumer callback;
// consumers that keep it longer must Clone it.
type ImageBuffer struct {
	Image  image.Image
	Format PixelFormat
	Index  int // 1-based frame index, stamped by the engine on delivery
}

// NewImageBuffer wraps img and detects its pixel format.
func NewImageBuffer(img image.Image) ImageBuffer {
	return ImageBuffer{Image: img, Format: PixelFormatOf(img)}
}

// Width returns the frame width in pixels.
func (b ImageBuffer) Width() int {
	if b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dx()
}

// Height returns the frame height in pixels.
func (b ImageBuffer) Height() int {
	if b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dy()
}

// Clone returns a deep copy whose pixels are not shared with b.
func (b ImageBuffer) Clone() ImageBuffer {
	if b.Image == nil {
		return b
	}
	bounds := b.Image.Bounds()
	var dst draw.Image
	switch b.Format {
	case FormatNRGBA:
		dst = image.NewNRGBA(bounds)
	case FormatGray:
		dst = image.NewGray(bounds)
	default:
		dst = image.NewRGBA(bounds)
	}
	draw.Draw(dst, bounds, b.Image, bounds.Min, draw.Src)
	return ImageBuffer{Image: dst, Format: PixelFormatOf(dst), Index: b.Index}
}
