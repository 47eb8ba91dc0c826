package draw

import (
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Glyph cell dimensions, in pixels at scale 1.
const (
	GlyphWidth  = 6
	GlyphHeight = 13

	// Spacing is the gap in pixels between two glyphs, independent of scale.
	Spacing = 1
)

// Custom symbols, addressable as runes in strings.
const (
	SymbolDegree    rune = 0x01
	SymbolArrowUp   rune = 0x02
	SymbolArrowDown rune = 0x03
	SymbolBlock     rune = 0x04
)

// Glyph is a fixed size bitmap, one byte per row. Bit 7 is the leftmost column.
type Glyph [GlyphHeight]uint8

var (
	glyphs   = make(map[rune]Glyph)
	fallback Glyph
)

var symbols = map[rune][GlyphHeight]string{
	SymbolDegree: {
		"......",
		"..XX..",
		".X..X.",
		".X..X.",
		"..XX..",
	},
	SymbolArrowUp: {
		"......",
		"..X...",
		".XXX..",
		"X.X.X.",
		"..X...",
		"..X...",
		"..X...",
		"..X...",
		"..X...",
		"..X...",
	},
	SymbolArrowDown: {
		"......",
		"..X...",
		"..X...",
		"..X...",
		"..X...",
		"..X...",
		"..X...",
		"X.X.X.",
		".XXX..",
		"..X...",
	},
	SymbolBlock: {
		"......",
		"XXXXXX",
		"XXXXXX",
		"XXXXXX",
		"XXXXXX",
		"XXXXXX",
		"XXXXXX",
		"XXXXXX",
		"XXXXXX",
		"XXXXXX",
		"XXXXXX",
	},
}

func init() {
	face := basicfont.Face7x13
	for r := rune(0x20); r < 0x7f; r++ {
		if g, ok := faceGlyph(face, r); ok {
			glyphs[r] = g
		}
	}
	fallback, _ = faceGlyph(face, '\ufffd')

	for r, art := range symbols {
		var g Glyph
		for y, row := range art {
			for x := 0; x < len(row) && x < GlyphWidth; x++ {
				if row[x] == 'X' {
					g[y] |= 0x80 >> uint(x)
				}
			}
		}
		glyphs[r] = g
	}
}

// faceGlyph rasterizes r from a basic font face into a Glyph; ok is false if the face
// substituted its replacement glyph.
func faceGlyph(face *basicfont.Face, r rune) (g Glyph, ok bool) {
	dr, mask, maskp, _, ok := face.Glyph(fixed.P(0, face.Ascent), r)
	if mask == nil {
		return g, false
	}
	for y := 0; y < dr.Dy() && y < GlyphHeight; y++ {
		for x := 0; x < dr.Dx() && x < GlyphWidth; x++ {
			if _, _, _, a := mask.At(maskp.X+x, maskp.Y+y).RGBA(); a >= 0x8000 {
				g[y] |= 0x80 >> uint(x)
			}
		}
	}
	return g, ok
}

// Lookup returns the glyph for r, or the replacement glyph if r has none.
func Lookup(r rune) Glyph {
	if g, ok := glyphs[r]; ok {
		return g
	}
	return fallback
}

// Has reports if r has its own glyph.
func Has(r rune) bool {
	_, ok := glyphs[r]
	return ok
}
