package draw

import (
	"image"
	"math"
	"testing"

	"github.com/homelab-screen/display/pixel"
)

const (
	testWidth  = 240
	testHeight = 320
)

var (
	testFill  = pixel.CRGB16{V: 0x0001}
	testTrack = pixel.CRGB16{V: 0x0002}
)

func newTestImage() *pixel.CRGB16Image {
	return pixel.NewCRGB16Image(testWidth, testHeight)
}

// footprint returns the bounding box of all non-black pixels.
func footprint(i *pixel.CRGB16Image) image.Rectangle {
	var r image.Rectangle
	for y := 0; y < testHeight; y++ {
		for x := 0; x < testWidth; x++ {
			if i.CRGB16At(x, y) != pixel.Black {
				r = r.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return r
}

func TestSetPixel(t *testing.T) {
	i := newTestImage()
	SetPixel(i, 0, 0, pixel.CRGB16{V: 0x1234})
	if v := i.Pix[0]; v != 0x1234 {
		t.Errorf("expected pixel (0,0) to be %#04x, got %#04x", 0x1234, v)
	}
	SetPixel(i, 100, 50, pixel.CRGB16{V: 0xABCD})
	if v := i.Pix[50*testWidth+100]; v != 0xABCD {
		t.Errorf("expected pixel (100,50) to be %#04x, got %#04x", 0xABCD, v)
	}

	i.Clear()
	for _, p := range []image.Point{{-1, 0}, {0, -1}, {testWidth, 0}, {0, testHeight}, {-100, -100}} {
		SetPixel(i, p.X, p.Y, pixel.White)
	}
	if i.Contains(pixel.White) {
		t.Error("expected out of bounds pixels to leave the image unchanged")
	}
}

func TestFillRect(t *testing.T) {
	t.Run("negative-origin", func(it *testing.T) {
		i := newTestImage()
		FillRect(i, -3, -3, 5, 5, pixel.CRGB16{V: 0x3333})
		if v := i.CRGB16At(0, 0); v.V != 0x3333 {
			it.Errorf("expected pixel (0,0) to be filled, got %#04x", v.V)
		}
		if v := i.CRGB16At(1, 1); v.V != 0x3333 {
			it.Errorf("expected pixel (1,1) to be filled, got %#04x", v.V)
		}
		if v := i.CRGB16At(2, 0); v != pixel.Black {
			it.Errorf("expected pixel (2,0) to be untouched, got %#04x", v.V)
		}
		if r := footprint(i); r != image.Rect(0, 0, 2, 2) {
			it.Errorf("expected footprint %s, got %s", image.Rect(0, 0, 2, 2), r)
		}
	})

	t.Run("oversized", func(it *testing.T) {
		i := newTestImage()
		FillRect(i, testWidth-2, testHeight-2, 10, 10, pixel.CRGB16{V: 0x2222})
		if v := i.CRGB16At(testWidth-1, testHeight-1); v.V != 0x2222 {
			it.Errorf("expected bottom-right pixel to be filled, got %#04x", v.V)
		}
		if r := footprint(i); r != image.Rect(testWidth-2, testHeight-2, testWidth, testHeight) {
			it.Errorf("unexpected footprint %s", r)
		}
	})

	t.Run("huge", func(it *testing.T) {
		i := newTestImage()
		FillRect(i, 5, 5, math.MaxInt, 2, pixel.White)
		if r := footprint(i); r != image.Rect(5, 5, testWidth, 7) {
			it.Errorf("expected footprint %s, got %s", image.Rect(5, 5, testWidth, 7), r)
		}
		i.Clear()
		FillRect(i, math.MinInt, 0, math.MaxInt, 1, pixel.White)
		FillRect(i, 0, math.MaxInt, 10, math.MaxInt, pixel.White)
		if i.Contains(pixel.White) {
			it.Error("expected rectangles ending before the surface to draw nothing")
		}
		i.Clear()
		FillRect(i, math.MinInt, math.MinInt, math.MaxInt, math.MaxInt, pixel.White)
		if i.Contains(pixel.White) {
			it.Error("expected rectangle ending at -1 to draw nothing")
		}
	})

	t.Run("empty", func(it *testing.T) {
		i := newTestImage()
		FillRect(i, 10, 10, 0, 10, pixel.White)
		FillRect(i, 10, 10, 10, -1, pixel.White)
		FillRect(i, testWidth, 0, 10, 10, pixel.White)
		if i.Contains(pixel.White) {
			it.Error("expected empty rectangles to draw nothing")
		}
	})
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		Name      string
		Percent   float64
		WantFill  bool
		WantTrack bool
	}{
		{"zero", 0, false, true},
		{"negative", -20, false, true},
		{"half", 50, true, true},
		{"full", 100, true, false},
		{"overflow", 250, true, false},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			i := newTestImage()
			ProgressBar(i, 10, 10, 100, 10, test.Percent, testFill, testTrack)
			if v := i.Contains(testFill); v != test.WantFill {
				it.Errorf("expected fill color present to be %t, got %t", test.WantFill, v)
			}
			if v := i.Contains(testTrack); v != test.WantTrack {
				it.Errorf("expected track color present to be %t, got %t", test.WantTrack, v)
			}
		})
	}

	t.Run("split", func(it *testing.T) {
		i := newTestImage()
		ProgressBar(i, 10, 10, 100, 10, 25, testFill, testTrack)
		if v := i.CRGB16At(34, 15); v != testFill {
			it.Errorf("expected pixel (34,15) to be fill, got %#04x", v.V)
		}
		if v := i.CRGB16At(35, 15); v != testTrack {
			it.Errorf("expected pixel (35,15) to be track, got %#04x", v.V)
		}
	})
}

func TestCircleProgress(t *testing.T) {
	tests := []struct {
		Name      string
		Percent   float64
		WantFill  bool
		WantTrack bool
	}{
		{"zero", 0, false, true},
		{"tiny", 0.01, true, true},
		{"half", 50, true, true},
		{"almost", 99.99, true, true},
		{"full", 100, true, false},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			i := newTestImage()
			CircleProgress(i, 60, 60, 20, 5, test.Percent, testFill, testTrack)
			if v := i.Contains(testFill); v != test.WantFill {
				it.Errorf("expected fill color present to be %t, got %t", test.WantFill, v)
			}
			if v := i.Contains(testTrack); v != test.WantTrack {
				it.Errorf("expected track color present to be %t, got %t", test.WantTrack, v)
			}
		})
	}

	t.Run("clockwise", func(it *testing.T) {
		i := newTestImage()
		CircleProgress(i, 60, 60, 20, 5, 25, testFill, testTrack)
		// 12 o'clock up to 3 o'clock is filled, 6 and 9 o'clock are track.
		if v := i.CRGB16At(60, 41); v != testFill {
			it.Errorf("expected 12 o'clock to be fill, got %#04x", v.V)
		}
		if v := i.CRGB16At(72, 46); v != testFill {
			it.Errorf("expected 1-2 o'clock to be fill, got %#04x", v.V)
		}
		if v := i.CRGB16At(60, 79); v != testTrack {
			it.Errorf("expected 6 o'clock to be track, got %#04x", v.V)
		}
		if v := i.CRGB16At(41, 60); v != testTrack {
			it.Errorf("expected 9 o'clock to be track, got %#04x", v.V)
		}
		if v := i.CRGB16At(60, 60); v != pixel.Black {
			it.Errorf("expected ring center to be untouched, got %#04x", v.V)
		}
	})

	t.Run("clipped", func(it *testing.T) {
		i := newTestImage()
		CircleProgress(i, 0, 0, 20, 5, 50, testFill, testTrack)
		if !i.Contains(testFill) {
			it.Error("expected clipped ring to have fill pixels")
		}
		if r := footprint(i); !r.In(i.Bounds()) {
			it.Errorf("footprint %s exceeds bounds", r)
		}
	})
}
