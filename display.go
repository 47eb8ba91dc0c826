// Package display contains the driver for USB attached RGB565 LCD panels, such as
// the ones found on Thermalright AIO coolers.
package display

import (
	"errors"
	"image/draw"
)

// Panel dimensions in pixels, in the orientation the surface is drawn in.
const (
	Width  = 240
	Height = 320
)

// Errors
var (
	ErrClosed     = errors.New("display: device link is closed")
	ErrTransfer   = errors.New("display: bulk transfer failed")
	ErrShortWrite = errors.New("display: short bulk write")
)

// Display is a frame buffered display.
type Display interface {
	draw.Image

	// Close the display driver.
	Close() error

	// Clear the display buffer.
	Clear()

	// Refresh redraws the display.
	Refresh() error
}
