package draw

import (
	"image"
	"image/color"
	"math"
)

// FillRect draws a filled w*h rectangle with its top-left corner at (x, y).
// The rectangle is clipped to the bounds of dst.
func FillRect(dst Image, x, y, w, h int, c color.Color) {
	b := dst.Bounds()
	x0, x1, ok := clipSpan(x, w, b.Min.X, b.Max.X)
	if !ok {
		return
	}
	y0, y1, ok := clipSpan(y, h, b.Min.Y, b.Max.Y)
	if !ok {
		return
	}
	plot := plotter(dst, c)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			plot(px, py)
		}
	}
}

// clipSpan clips [pos, pos+n) to [lo, hi) without overflowing for any pos and n.
func clipSpan(pos, n, lo, hi int) (start, end int, ok bool) {
	if n <= 0 || pos >= hi || lo >= hi {
		return 0, 0, false
	}
	if pos < lo {
		skip := uint(lo) - uint(pos)
		if uint(n) <= skip {
			return 0, 0, false
		}
		n = int(uint(n) - skip)
		pos = lo
	}
	if uint(n) >= uint(hi)-uint(pos) {
		return pos, hi, true
	}
	return pos, pos + n, true
}

// HorizontalLine draws a line between (x,y) and (x+w,y).
func HorizontalLine(dst Image, x, y, w int, c color.Color) {
	FillRect(dst, x, y, w, 1, c)
}

// VerticalLine draws a line between (x,y) and (x,y+h).
func VerticalLine(dst Image, x, y, h int, c color.Color) {
	FillRect(dst, x, y, 1, h, c)
}

// ProgressBar draws a horizontal bar. The track covers the whole w*h rectangle, the fill
// covers the leftmost percent of it. Percent is clamped to [0, 100].
func ProgressBar(dst Image, x, y, w, h int, percent float64, fill, track color.Color) {
	percent = clampPercent(percent)
	FillRect(dst, x, y, w, h, track)
	if filled := int(float64(w) * percent / 100); filled > 0 {
		FillRect(dst, x, y, filled, h, fill)
	}
}

// CircleProgress draws a ring with outer radius centered on (cx, cy). The full ring is drawn
// in the track color, the arc starting at 12 o'clock and sweeping clockwise over percent of
// the circle is drawn in the fill color. Percent is clamped to [0, 100].
func CircleProgress(dst Image, cx, cy, radius, thickness int, percent float64, fill, track color.Color) {
	if radius <= 0 {
		return
	}
	if thickness < 1 {
		thickness = 1
	} else if thickness > radius {
		thickness = radius
	}
	percent = clampPercent(percent)

	var (
		outer = radius * radius
		inner = (radius - thickness) * (radius - thickness)
		sweep = percent / 100 * 2 * math.Pi
	)
	if percent < 100 && radius > 1 {
		// The ring pixel closest to 12 o'clock on the counter-clockwise side sits at this
		// angle; it stays track colored for any percentage short of 100.
		if limit := 2*math.Pi - math.Atan2(1, float64(radius-1)); sweep > limit-1e-9 {
			sweep = limit - 1e-9
		}
	}

	var (
		plotFill  = plotter(dst, fill)
		plotTrack = plotter(dst, track)
		bounds    = dst.Bounds()
	)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d := dx*dx + dy*dy
			if d > outer || d <= inner && thickness < radius {
				continue
			}
			x, y := cx+dx, cy+dy
			if !(image.Point{X: x, Y: y}).In(bounds) {
				continue
			}
			angle := math.Atan2(float64(dx), float64(-dy))
			if angle < 0 {
				angle += 2 * math.Pi
			}
			if percent > 0 && angle <= sweep {
				plotFill(x, y)
			} else {
				plotTrack(x, y)
			}
		}
	}
}

func clampPercent(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
