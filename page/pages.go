package page

import (
	"fmt"
	"strings"
	"time"

	"github.com/homelab-screen/display/draw"
	"github.com/homelab-screen/display/metrics"
	"github.com/homelab-screen/display/pixel"
	"github.com/homelab-screen/display/proxmox"
)

func renderOverview(dst draw.Image, m *metrics.Snapshot) {
	w := dst.Bounds().Dx()
	title(dst, "OVERVIEW", pixel.Cyan)
	draw.StringCentered(dst, 42, fit(orDash(m.Hostname), maxRunes(dst, 2)), valueColor, 2)

	// CPU and memory gauges side by side
	const (
		gaugeY      = 130
		gaugeRadius = 44
		gaugeWidth  = 9
	)
	left, right := w/4, w*3/4
	draw.CircleProgress(dst, left, gaugeY, gaugeRadius, gaugeWidth, m.CPUUsage, usageColor(m.CPUUsage), trackColor)
	draw.CircleProgress(dst, right, gaugeY, gaugeRadius, gaugeWidth, m.MemPercent, usageColor(m.MemPercent), trackColor)
	gaugeLabel(dst, left, gaugeY, formatPercent(m.CPUUsage), "CPU")
	gaugeLabel(dst, right, gaugeY, formatPercent(m.MemPercent), "MEM")

	y := gaugeY + gaugeRadius + 16
	draw.String(dst, margin, y, "TEMP", labelColor, 2)
	temp := formatTemp(m)
	draw.StringRight(dst, w-margin, y, temp, tempColor(m.CPUCelsius()), 2)

	y += 36
	draw.String(dst, margin, y, string(draw.SymbolArrowDown), pixel.Green, 2)
	draw.StringRight(dst, w-margin, y, draw.FormatBytesRate(m.NetRxRate), valueColor, 2)
	y += 28
	draw.String(dst, margin, y, string(draw.SymbolArrowUp), pixel.Orange, 2)
	draw.StringRight(dst, w-margin, y, draw.FormatBytesRate(m.NetTxRate), valueColor, 2)

	y += 34
	draw.StringCentered(dst, y, "up "+formatUptime(m.Uptime), labelColor, 1)
}

// gaugeLabel centers a value inside a ring with a caption below it.
func gaugeLabel(dst draw.Image, cx, cy int, value, caption string) {
	draw.String(dst, cx-draw.StringWidth(value, 2)/2, cy-draw.StringHeight(2)/2-6, value, valueColor, 2)
	draw.String(dst, cx-draw.StringWidth(caption, 1)/2, cy+10, caption, labelColor, 1)
}

func renderCPU(dst draw.Image, m *metrics.Snapshot) {
	w := dst.Bounds().Dx()
	title(dst, "CPU", pixel.Green)

	const (
		cy     = 124
		radius = 76
	)
	c := usageColor(m.CPUUsage)
	draw.CircleProgress(dst, w/2, cy, radius, 14, m.CPUUsage, c, trackColor)
	value := formatPercent(m.CPUUsage)
	draw.String(dst, (w-draw.StringWidth(value, 4))/2, cy-draw.StringHeight(4)/2, value, c, 4)

	y := cy + radius + 16
	draw.String(dst, margin, y, "TEMP", labelColor, 2)
	draw.StringRight(dst, w-margin, y, formatTemp(m), tempColor(m.CPUCelsius()), 2)
	y += 28
	draw.ProgressBar(dst, margin, y, w-2*margin, 8, m.CPUCelsius(), tempColor(m.CPUCelsius()), trackColor)

	y += 20
	draw.String(dst, margin, y, "LOAD", labelColor, 1)
	y += 18
	load := fmt.Sprintf("%.2f %.2f %.2f", m.Load1, m.Load5, m.Load15)
	draw.StringCentered(dst, y, load, valueColor, 2)
}

func renderMemory(dst draw.Image, m *metrics.Snapshot) {
	w := dst.Bounds().Dx()
	title(dst, "MEMORY", pixel.Magenta)

	const (
		cy     = 124
		radius = 76
	)
	c := usageColor(m.MemPercent)
	draw.CircleProgress(dst, w/2, cy, radius, 14, m.MemPercent, c, trackColor)
	value := formatPercent(m.MemPercent)
	draw.String(dst, (w-draw.StringWidth(value, 4))/2, cy-draw.StringHeight(4)/2, value, c, 4)

	y := cy + radius + 16
	draw.String(dst, margin, y, "USED", labelColor, 2)
	draw.StringRight(dst, w-margin, y, draw.FormatBytesHuman(m.MemUsed), valueColor, 2)
	y += 28
	draw.String(dst, margin, y, "TOTAL", labelColor, 2)
	draw.StringRight(dst, w-margin, y, draw.FormatBytesHuman(m.MemTotal), valueColor, 2)
	y += 30
	draw.ProgressBar(dst, margin, y, w-2*margin, 10, m.MemPercent, c, trackColor)
}

// rateScale is the rate shown as a full bar on the Network page, 125 MB/s (1 Gbit/s).
const rateScale = 125 << 20

func renderNetwork(dst draw.Image, m *metrics.Snapshot) {
	w := dst.Bounds().Dx()
	title(dst, "NETWORK", pixel.Blue)
	draw.StringCentered(dst, 44, fit(orDash(m.NetInterface), maxRunes(dst, 2)), valueColor, 2)

	y := 84
	for _, row := range []struct {
		arrow rune
		label string
		rate  float64
		c     pixel.CRGB16
	}{
		{draw.SymbolArrowDown, "RX", m.NetRxRate, pixel.Green},
		{draw.SymbolArrowUp, "TX", m.NetTxRate, pixel.Orange},
	} {
		draw.String(dst, margin, y, string(row.arrow)+" "+row.label, row.c, 2)
		y += 32
		draw.StringRight(dst, w-margin, y, draw.FormatBytesRate(row.rate), valueColor, 3)
		y += draw.StringHeight(3) + 10
		draw.ProgressBar(dst, margin, y, w-2*margin, 8, row.rate/rateScale*100, row.c, trackColor)
		y += 28
	}
}

func renderSystem(dst draw.Image, m *metrics.Snapshot, now time.Time) {
	w := dst.Bounds().Dx()
	title(dst, "SYSTEM", pixel.Yellow)

	draw.StringCentered(dst, 48, formatClock(now), valueColor, 4)
	date := "----------"
	if !now.IsZero() {
		date = now.Format("Mon 2006-01-02")
	}
	draw.StringCentered(dst, 108, date, labelColor, 1)

	y := 140
	for _, row := range [][2]string{
		{"HOST", fit(orDash(m.Hostname), 12)},
		{"UP", formatUptime(m.Uptime)},
		{"LOAD", fmt.Sprintf("%.2f", m.Load1)},
		{"TEMP", formatTemp(m)},
	} {
		draw.String(dst, margin, y, row[0], labelColor, 2)
		draw.StringRight(dst, w-margin, y, row[1], valueColor, 2)
		y += 34
	}
	draw.HorizontalLine(dst, margin, y, w-2*margin, trackColor)
}

func renderProxmox(dst draw.Image, p *proxmox.Snapshot) {
	w := dst.Bounds().Dx()
	title(dst, "PROXMOX", pixel.Orange)

	draw.StringCentered(dst, 44, fit(orDash(p.Node), maxRunes(dst, 2)), valueColor, 2)
	draw.StringCentered(dst, 72, fit(orDash(p.Version), maxRunes(dst, 1)), labelColor, 1)

	y := 100
	for _, row := range []struct {
		label          string
		running, total int
	}{
		{"VMs", p.RunningVMs, p.TotalVMs},
		{"CTs", p.RunningCTs, p.TotalCTs},
	} {
		draw.String(dst, margin, y, row.label, labelColor, 2)
		draw.StringRight(dst, w-margin, y, fmt.Sprintf("%d/%d", row.running, row.total), valueColor, 3)
		y += draw.StringHeight(3) + 8
		var pct float64
		if row.total > 0 {
			pct = float64(row.running) / float64(row.total) * 100
		}
		draw.ProgressBar(dst, margin, y, w-2*margin, 10, pct, pixel.Green, trackColor)
		y += 34
	}

	status, c := "OFFLINE", pixel.Red
	if p.Available {
		status, c = "ONLINE", pixel.Green
	}
	draw.StringCentered(dst, y+10, status, c, 2)
}

func renderStorage(dst draw.Image, p *proxmox.Snapshot) {
	w := dst.Bounds().Dx()
	title(dst, "STORAGE", pixel.Cyan)

	if len(p.Storage) == 0 {
		draw.StringCentered(dst, 140, "NO STORAGE", labelColor, 2)
		return
	}

	const rowHeight = 35
	y := titleHeight + 8
	for i, v := range p.Storage {
		if i == proxmox.MaxVolumes {
			break
		}
		pct := v.Percent()
		draw.String(dst, margin, y, fit(v.Name, 20), valueColor, 1)
		draw.StringRight(dst, w-margin, y, formatPercent(pct), usageColor(pct), 1)
		draw.ProgressBar(dst, margin, y+15, w-2*margin, 6, pct, usageColor(pct), trackColor)
		draw.StringRight(dst, w-margin, y+22, draw.FormatBytesHuman(v.Used)+"/"+draw.FormatBytesHuman(v.Total), labelColor, 1)
		y += rowHeight
	}
}

// renderUnknown marks a page kind without a layout.
func renderUnknown(dst draw.Image, kind Kind) {
	title(dst, "UNKNOWN", pixel.Red)
	draw.StringCentered(dst, 80, fit(strings.ToUpper(kind.String()), maxRunes(dst, 2)), pixel.Red, 2)
}
