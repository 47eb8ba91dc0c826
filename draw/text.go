package draw

import (
	"image/color"
	"unicode/utf8"
)

// MaxScale is the largest glyph scale. Larger scales are drawn at MaxScale.
const MaxScale = 1 << 12

func normScale(scale int) int {
	switch {
	case scale < 1:
		return 1
	case scale > MaxScale:
		return MaxScale
	}
	return scale
}

// Advance is the horizontal distance between the origins of two adjacent glyphs.
func Advance(scale int) int {
	return GlyphWidth*normScale(scale) + Spacing
}

// Char draws a single glyph with its top-left corner at (x, y). Every glyph pixel becomes a
// scale*scale block. Runes without a glyph are drawn as the replacement glyph.
func Char(dst Image, x, y int, ch rune, c color.Color, scale int) {
	scale = normScale(scale)
	if b := dst.Bounds(); x >= b.Max.X || y >= b.Max.Y {
		return
	}
	g := Lookup(ch)
	for row, bits := range g {
		if bits == 0 {
			continue
		}
		for col := 0; col < GlyphWidth; col++ {
			if bits&(0x80>>uint(col)) != 0 {
				FillRect(dst, x+col*scale, y+row*scale, scale, scale, c)
			}
		}
	}
}

// String draws text left to right starting at (x, y).
func String(dst Image, x, y int, text string, c color.Color, scale int) {
	advance := Advance(scale)
	maxX := dst.Bounds().Max.X
	for _, ch := range text {
		if x >= maxX {
			break
		}
		Char(dst, x, y, ch, c, scale)
		x += advance
	}
}

// StringWidth returns the width in pixels String occupies when drawing text.
func StringWidth(text string, scale int) int {
	return utf8.RuneCountInString(text) * Advance(scale)
}

// StringHeight returns the height in pixels of one line of text.
func StringHeight(scale int) int {
	return GlyphHeight * normScale(scale)
}

// StringCentered draws text horizontally centered on dst.
func StringCentered(dst Image, y int, text string, c color.Color, scale int) {
	b := dst.Bounds()
	String(dst, b.Min.X+(b.Dx()-StringWidth(text, scale))/2, y, text, c, scale)
}

// StringRight draws text so that it ends at x.
func StringRight(dst Image, x, y int, text string, c color.Color, scale int) {
	String(dst, x-StringWidth(text, scale), y, text, c, scale)
}
