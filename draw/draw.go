// Package draw rasterizes text and shapes onto pixel images.
//
// All primitives clip to the destination bounds; nothing in this package returns an error.
package draw

import (
	"image/color"
	"image/draw"

	"github.com/homelab-screen/display/pixel"
)

// Image is an alias for [image/draw.Image].
type Image = draw.Image

// SetPixel sets the pixel at (x, y). Coordinates outside of dst are ignored.
func SetPixel(dst Image, x, y int, c color.Color) {
	dst.Set(x, y, c)
}

// plotter returns a function that sets single pixels in dst to c, using
// the fast path for RGB565 surfaces.
func plotter(dst Image, c color.Color) func(x, y int) {
	if p, ok := dst.(*pixel.CRGB16Image); ok {
		v := pixel.CRGB16Model.Convert(c).(pixel.CRGB16)
		return func(x, y int) {
			p.Pix[p.PixOffset(x, y)] = v.V
		}
	}
	return func(x, y int) {
		dst.Set(x, y, c)
	}
}
