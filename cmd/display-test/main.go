// Command display-test draws a test pattern or a single status page on the panel, or writes
// the page to a PNG file when no panel is attached.
package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/homelab-screen/display"
	"github.com/homelab-screen/display/draw"
	"github.com/homelab-screen/display/internal/config"
	"github.com/homelab-screen/display/metrics"
	"github.com/homelab-screen/display/page"
	"github.com/homelab-screen/display/pixel"
	"github.com/homelab-screen/display/proxmox"
)

func main() {
	flags := pflag.NewFlagSet("display-test", pflag.ContinueOnError)
	vidFlag := flags.String("vid", fmt.Sprintf("%04x", display.DefaultUSBConfig.VendorID), "USB vendor ID (hex)")
	pidFlag := flags.String("pid", fmt.Sprintf("%04x", display.DefaultUSBConfig.ProductID), "USB product ID (hex)")
	pageFlag := flags.String("page", "pattern", "what to draw: pattern, or a page name")
	pngFlag := flags.String("png", "", "write the first frame to this PNG file instead of the panel")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fatal(err)
	}

	kind, isPage := parsePage(*pageFlag)
	if !isPage && *pageFlag != "pattern" {
		fatal(fmt.Errorf("unknown page %q", *pageFlag))
	}

	if *pngFlag != "" {
		i := pixel.NewCRGB16Image(display.Width, display.Height)
		if isPage {
			renderPage(i, kind, time.Now())
		} else {
			renderPattern(i, 0)
		}
		if err := writePNG(*pngFlag, i); err != nil {
			fatal(err)
		}
		fmt.Printf("wrote %s\n", *pngFlag)
		return
	}

	vid, err := config.ParseID(*vidFlag)
	if err != nil {
		fatal(err)
	}
	pid, err := config.ParseID(*pidFlag)
	if err != nil {
		fatal(err)
	}
	output, err := display.Open(&display.Config{
		USBConfig: display.USBConfig{VendorID: vid, ProductID: pid},
	})
	if err != nil {
		fatal(err)
	}
	defer output.Close()
	fmt.Printf("using driver: %s\n", output)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var (
		offset int
		ticker = time.NewTicker(100 * time.Millisecond)
	)
	defer ticker.Stop()

	fmt.Println("hit control-c to stop...")
	for {
		output.Clear()
		if isPage {
			renderPage(output.Image(), kind, time.Now())
		} else {
			renderPattern(output.Image(), offset)
		}
		if err = output.Refresh(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		offset++

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func parsePage(name string) (page.Kind, bool) {
	for _, kind := range page.Set(true) {
		if strings.EqualFold(kind.String(), name) {
			return kind, true
		}
	}
	return 0, false
}

func renderPage(i *pixel.CRGB16Image, kind page.Kind, now time.Time) {
	var (
		host = &metrics.Source{}
		pve  = &proxmox.Source{}
	)
	m := host.Collect(now)
	p := pve.Collect(context.Background(), now)
	page.Render(i, kind, &m, &p, now)
}

// renderPattern draws a box around the edge, a moving gradient and gauges.
func renderPattern(i *pixel.CRGB16Image, offset int) {
	r := i.Bounds()
	for y := 1; y < r.Max.Y-1; y++ {
		for x := 1; x < r.Max.X-1; x++ {
			i.SetCRGB16(x, y, pixel.RGB565(uint8(x+offset), uint8(y+offset), uint8(x+y)))
		}
	}
	draw.HorizontalLine(i, 0, 0, r.Dx(), pixel.White)
	draw.HorizontalLine(i, 0, r.Max.Y-1, r.Dx(), pixel.White)
	draw.VerticalLine(i, 0, 0, r.Dy(), pixel.White)
	draw.VerticalLine(i, r.Max.X-1, 0, r.Dy(), pixel.White)

	pct := float64(offset % 101)
	draw.FillRect(i, 20, 20, r.Dx()-40, 60, pixel.Black)
	draw.StringCentered(i, 36, fmt.Sprintf("%dx%d", r.Dx(), r.Dy()), pixel.White, 2)
	draw.CircleProgress(i, r.Dx()/2, r.Dy()/2, 60, 12, pct, pixel.Green, pixel.DarkGray)
	draw.ProgressBar(i, 20, r.Dy()-40, r.Dx()-40, 12, pct, pixel.Orange, pixel.DarkGray)
}

func writePNG(name string, i *pixel.CRGB16Image) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err = png.Encode(f, i); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
