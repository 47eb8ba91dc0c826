// Command homelab-screen shows host and Proxmox VE status pages on a USB LCD panel.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/homelab-screen/display"
	"github.com/homelab-screen/display/internal/config"
	"github.com/homelab-screen/display/metrics"
	"github.com/homelab-screen/display/page"
	"github.com/homelab-screen/display/proxmox"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			config.PrintUsage(os.Stdout)
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "homelab-screen: %v\n\n", err)
		config.PrintUsage(os.Stderr)
		os.Exit(1)
	}

	log := config.BuildLogger(cfg, os.Stdout)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, cfg, log); err != nil {
		stop()
		fatal(log, err)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	log.Info("starting homelab-screen",
		"width", display.Width, "height", display.Height,
		"interval", cfg.Interval, "refresh", cfg.RefreshRate.String())

	panel, err := display.Open(&display.Config{
		USBConfig: display.USBConfig{
			VendorID:  cfg.VendorID,
			ProductID: cfg.ProductID,
			Timeout:   display.DefaultUSBConfig.Timeout,
		},
		Logger: log,
	})
	if err != nil {
		return err
	}
	defer func() {
		log.Info("shutting down")
		if err := panel.Close(); err != nil {
			log.Warn("close failed", "error", err)
		}
	}()

	host := &metrics.Source{Interface: cfg.Interface, Logger: log}
	pve := &proxmox.Source{Logger: log}
	if pve.Available() {
		log.Info("Proxmox VE detected, enabling PVE pages")
	}

	var (
		now      = time.Now()
		rotation = page.NewRotation(page.Set(pve.Available()), cfg.Interval, now)
		ticker   = time.NewTicker(cfg.RefreshRate.Period())
	)
	defer ticker.Stop()
	log.Info("starting display loop", "pages", rotation.Len())

	for {
		m := host.Collect(now)
		p := pve.Collect(ctx, now)
		if kind, switched := rotation.Tick(now); switched {
			log.Debug("page switch", "page", kind.String(), "index", rotation.Index()+1, "of", rotation.Len())
		}

		panel.Clear()
		page.Render(panel.Image(), rotation.Current(), &m, &p, now)
		if err := panel.Refresh(); err != nil {
			log.Error("USB send failed", "error", err)
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case now = <-ticker.C:
		}
	}
}

func fatal(log *slog.Logger, err error) {
	log.Error("fatal", "error", err)
	os.Exit(1)
}
