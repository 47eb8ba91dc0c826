package pixel

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
)

type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// CRGB16Image is a 16-bits per pixel 5-6-5-bit RGB image.
//
// Each cell holds one packed color; cells are stored row-major with the origin at the top-left.
type CRGB16Image struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []uint16

	// Stride is the Pix stride (in cells) between vertically adjacent pixels.
	Stride int
}

func NewCRGB16Image(w, h int) *CRGB16Image {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &CRGB16Image{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]uint16, w*h),
		Stride: w,
	}
}

func (p *CRGB16Image) Bounds() image.Rectangle {
	return p.Rect
}

func (p *CRGB16Image) ColorModel() color.Model {
	return CRGB16Model
}

// PixOffset returns the index of the cell at (x, y).
func (p *CRGB16Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x - p.Rect.Min.X)
}

func (p *CRGB16Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return CRGB16{p.Pix[p.PixOffset(x, y)]}
}

// CRGB16At returns the packed color at (x, y), or black outside the bounds.
func (p *CRGB16Image) CRGB16At(x, y int) CRGB16 {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return CRGB16{}
	}
	return CRGB16{p.Pix[p.PixOffset(x, y)]}
}

func (p *CRGB16Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = toCRGB16(c).V
}

// SetCRGB16 sets the pixel at (x, y) without going through the color model.
// Coordinates outside the bounds are ignored.
func (p *CRGB16Image) SetCRGB16(x, y int, c CRGB16) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = c.V
}

func (p *CRGB16Image) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0
	}
}

func (p *CRGB16Image) Fill(c color.Color) {
	value := toCRGB16(c).V
	for i := range p.Pix {
		p.Pix[i] = value
	}
}

// Contains reports if any pixel has the color c.
func (p *CRGB16Image) Contains(c CRGB16) bool {
	for _, v := range p.Pix {
		if v == c.V {
			return true
		}
	}
	return false
}

// PutBytes serializes the pixels row-major into dst, two bytes per pixel in the provided order.
// It returns the number of bytes written, which is short if dst can not hold all pixels.
func (p *CRGB16Image) PutBytes(dst []byte, order binary.ByteOrder) int {
	var (
		w = p.Rect.Dx()
		n int
	)
	for y := 0; y < p.Rect.Dy(); y++ {
		row := p.Pix[y*p.Stride : y*p.Stride+w]
		for _, v := range row {
			if n+2 > len(dst) {
				return n
			}
			order.PutUint16(dst[n:], v)
			n += 2
		}
	}
	return n
}

// Interface checks.
var (
	_ Image = (*CRGB16Image)(nil)
)
