// Package page composes the status pages shown on the panel.
package page

import (
	"fmt"
	"image/color"
	"time"

	"github.com/homelab-screen/display/draw"
	"github.com/homelab-screen/display/metrics"
	"github.com/homelab-screen/display/pixel"
	"github.com/homelab-screen/display/proxmox"
)

// Kind is a page variant.
type Kind uint8

// Pages, in rotation order.
const (
	Overview Kind = iota
	CPU
	Memory
	Network
	System
	Proxmox
	Storage
)

func (k Kind) String() string {
	switch k {
	case Overview:
		return "overview"
	case CPU:
		return "cpu"
	case Memory:
		return "memory"
	case Network:
		return "network"
	case System:
		return "system"
	case Proxmox:
		return "proxmox"
	case Storage:
		return "storage"
	default:
		return fmt.Sprintf("page(%d)", uint8(k))
	}
}

// Set returns the active pages; the Proxmox pages are appended when available.
func Set(proxmoxAvailable bool) []Kind {
	kinds := []Kind{Overview, CPU, Memory, Network, System}
	if proxmoxAvailable {
		kinds = append(kinds, Proxmox, Storage)
	}
	return kinds
}

// Render draws one page into dst. It does not clear dst first. Nil snapshots render as zero
// snapshots; now feeds the clock on the System page.
func Render(dst draw.Image, kind Kind, m *metrics.Snapshot, p *proxmox.Snapshot, now time.Time) {
	if m == nil {
		m = new(metrics.Snapshot)
	}
	if p == nil {
		p = new(proxmox.Snapshot)
	}
	switch kind {
	case Overview:
		renderOverview(dst, m)
	case CPU:
		renderCPU(dst, m)
	case Memory:
		renderMemory(dst, m)
	case Network:
		renderNetwork(dst, m)
	case System:
		renderSystem(dst, m, now)
	case Proxmox:
		renderProxmox(dst, p)
	case Storage:
		renderStorage(dst, p)
	default:
		renderUnknown(dst, kind)
	}
}

// Layout.
const (
	titleHeight = 32
	margin      = 10
)

// Palette.
var (
	titleBackground = pixel.Navy
	labelColor      = pixel.Gray
	valueColor      = pixel.White
	trackColor      = pixel.DarkGray
)

func title(dst draw.Image, text string, c color.Color) {
	w := dst.Bounds().Dx()
	draw.FillRect(dst, 0, 0, w, titleHeight, titleBackground)
	draw.HorizontalLine(dst, 0, titleHeight-2, w, c)
	draw.StringCentered(dst, (titleHeight-draw.StringHeight(2))/2-1, text, valueColor, 2)
}

// usageColor maps a usage percentage onto green, orange or red.
func usageColor(percent float64) pixel.CRGB16 {
	switch {
	case percent < 60:
		return pixel.Green
	case percent < 85:
		return pixel.Orange
	default:
		return pixel.Red
	}
}

func tempColor(celsius float64) pixel.CRGB16 {
	switch {
	case celsius < 60:
		return pixel.Green
	case celsius < 80:
		return pixel.Orange
	default:
		return pixel.Red
	}
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}

func formatTemp(m *metrics.Snapshot) string {
	if m.CPUTemp == 0 {
		return "--" + string(draw.SymbolDegree) + "C"
	}
	return fmt.Sprintf("%.0f%cC", m.CPUCelsius(), draw.SymbolDegree)
}

// formatUptime renders d as "3d 04h 12m", "4h 12m" or "12m".
func formatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	var (
		days  = int(d / (24 * time.Hour))
		hours = int(d/time.Hour) % 24
		mins  = int(d/time.Minute) % 60
	)
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %02dh %02dm", days, hours, mins)
	case hours > 0:
		return fmt.Sprintf("%dh %02dm", hours, mins)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}

func formatClock(now time.Time) string {
	if now.IsZero() {
		return "--:--:--"
	}
	return now.Format("15:04:05")
}

// fit truncates text to at most n runes.
func fit(text string, n int) string {
	runes := []rune(text)
	if len(runes) > n {
		return string(runes[:n])
	}
	return text
}

// orDash substitutes an unknown string value.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// maxRunes is how many glyphs fit in the panel width at scale.
func maxRunes(dst draw.Image, scale int) int {
	return (dst.Bounds().Dx() - 2*margin) / draw.Advance(scale)
}
