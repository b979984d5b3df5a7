// Package composite merges a base frame with its alpha matte.
//
// The matte's luma becomes the output alpha. Mattes whose size differs from
// the base are scaled to the base bounds first.
package composite

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Merge returns base with alpha taken from the luma of matte.
// The result is non-premultiplied and anchored at the origin.
func Merge(base, matte image.Image) *image.NRGBA {
	b := base.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	mask := Mask(matte, b.Dx(), b.Dy())

	if rgba, ok := base.(*image.RGBA); ok {
		mergeRGBA(out, rgba, mask)
		return out
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(base.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			c.A = scale(c.A, mask.Pix[y*mask.Stride+x])
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}

// mergeRGBA is the fast path for decoder output: premultiplied pixels
// with opaque alpha, so the color channels copy straight across.
func mergeRGBA(out *image.NRGBA, base *image.RGBA, mask *image.Gray) {
	b := base.Bounds()
	for y := 0; y < b.Dy(); y++ {
		off := base.PixOffset(b.Min.X, b.Min.Y+y)
		src := base.Pix[off : off+b.Dx()*4]
		dst := out.Pix[y*out.Stride : y*out.Stride+b.Dx()*4]
		m := mask.Pix[y*mask.Stride : y*mask.Stride+b.Dx()]

		for x := 0; x < b.Dx(); x++ {
			i := x * 4
			a := src[i+3]
			if a == 0xff {
				dst[i], dst[i+1], dst[i+2] = src[i], src[i+1], src[i+2]
			} else if a != 0 {
				dst[i] = unpremultiply(src[i], a)
				dst[i+1] = unpremultiply(src[i+1], a)
				dst[i+2] = unpremultiply(src[i+2], a)
			}
			dst[i+3] = scale(a, m[x])
		}
	}
}

// Premultiply returns Merge(base, matte) as a premultiplied image, ready to
// draw over another image with draw.Over.
func Premultiply(base, matte image.Image) *image.RGBA {
	merged := Merge(base, matte)
	out := image.NewRGBA(merged.Bounds())
	draw.Draw(out, out.Bounds(), merged, image.Point{}, draw.Src)
	return out
}

// Mask converts matte to an 8-bit luma mask of the given size.
func Mask(matte image.Image, width, height int) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, width, height))
	mb := matte.Bounds()
	if mb.Dx() == width && mb.Dy() == height {
		draw.Draw(mask, mask.Bounds(), matte, mb.Min, draw.Src)
		return mask
	}
	draw.BiLinear.Scale(mask, mask.Bounds(), matte, mb, draw.Src, nil)
	return mask
}

func scale(a, m uint8) uint8 {
	return uint8((uint32(a)*uint32(m) + 127) / 255)
}

func unpremultiply(c, a uint8) uint8 {
	v := (uint32(c)*0xff + uint32(a)/2) / uint32(a)
	if v > 0xff {
		return 0xff
	}
	return uint8(v)
}
