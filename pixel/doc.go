// Package pixel implements the RGB565 color model and pixel surface used by the panel.
//
// The types are compatible with Go's native [color.Color] and [image.Image] / [draw.Image]
// interfaces, so the standard library image code can draw onto a surface as well.
package pixel
