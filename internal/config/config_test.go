package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"periph.io/x/conn/v3/physic"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, envMap(nil))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected defaults %+v, got %+v", Default(), cfg)
	}
	if cfg.VendorID != 0x0416 || cfg.ProductID != 0x5302 {
		t.Errorf("expected 0416:5302, got %04x:%04x", cfg.VendorID, cfg.ProductID)
	}
	if v := cfg.RefreshRate.Period(); v != 100*time.Millisecond {
		t.Errorf("expected 100ms period, got %s", v)
	}
}

func TestLoadFlags(t *testing.T) {
	cfg, err := Load([]string{
		"--vid", "0x1234", "--pid", "ABCD",
		"--interval", "3", "--interface", "vmbr0",
		"--refresh-hz", "5", "--log-level", "debug",
	}, envMap(nil))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	want := Config{
		VendorID:    0x1234,
		ProductID:   0xabcd,
		Interval:    3 * time.Second,
		Interface:   "vmbr0",
		RefreshRate: 5 * physic.Hertz,
		LogLevel:    "debug",
	}
	if cfg != want {
		t.Errorf("expected %+v, got %+v", want, cfg)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "homelab-screen.yaml")
	data := "vid: \"0x1111\"\npid: \"2222\"\ninterval: 15\ninterface: eno1\nrefresh_hz: 2\nlog_level: warn\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("file", func(it *testing.T) {
		cfg, err := Load([]string{"--config", path}, envMap(nil))
		if err != nil {
			it.Fatalf("unexpected error %v", err)
		}
		if cfg.VendorID != 0x1111 || cfg.ProductID != 0x2222 || cfg.Interval != 15*time.Second ||
			cfg.Interface != "eno1" || cfg.RefreshRate != 2*physic.Hertz || cfg.LogLevel != "warn" {
			it.Errorf("unexpected config %+v", cfg)
		}
	})

	t.Run("env-over-file", func(it *testing.T) {
		cfg, err := Load(nil, envMap(map[string]string{
			EnvConfig:   path,
			EnvInterval: "20",
			EnvPID:      "0x3333",
		}))
		if err != nil {
			it.Fatalf("unexpected error %v", err)
		}
		if cfg.Interval != 20*time.Second || cfg.ProductID != 0x3333 || cfg.VendorID != 0x1111 {
			it.Errorf("unexpected config %+v", cfg)
		}
	})

	t.Run("flags-over-env", func(it *testing.T) {
		cfg, err := Load([]string{"--config", path, "--interval", "4"}, envMap(map[string]string{
			EnvInterval: "20",
			EnvLogLevel: "error",
		}))
		if err != nil {
			it.Fatalf("unexpected error %v", err)
		}
		if cfg.Interval != 4*time.Second || cfg.LogLevel != "error" {
			it.Errorf("unexpected config %+v", cfg)
		}
	})
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		Name string
		Args []string
		Env  map[string]string
	}{
		{"bad-vid", []string{"--vid", "xyz"}, nil},
		{"big-pid", []string{"--pid", "0x10000"}, nil},
		{"empty-vid", []string{"--vid", "0x"}, nil},
		{"zero-interval", []string{"--interval", "0"}, nil},
		{"non-numeric-interval", []string{"--interval", "soon"}, nil},
		{"empty-interface", []string{"--interface", ""}, nil},
		{"long-interface", []string{"--interface", strings.Repeat("e", 32)}, nil},
		{"slow-refresh", []string{"--refresh-hz", "0"}, nil},
		{"fast-refresh", []string{"--refresh-hz", "61"}, nil},
		{"bad-level", []string{"--log-level", "loud"}, nil},
		{"unknown-flag", []string{"--brightness", "3"}, nil},
		{"positional", []string{"extra"}, nil},
		{"missing-file", []string{"--config", "/nonexistent/homelab-screen.yaml"}, nil},
		{"bad-env", nil, map[string]string{EnvInterval: "seven"}},
		{"bad-env-vid", nil, map[string]string{EnvVID: "0xZZ"}},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			if _, err := Load(test.Args, envMap(test.Env)); err == nil {
				it.Error("expected an error")
			}
		})
	}
}

func TestLoadHelp(t *testing.T) {
	for _, arg := range []string{"--help", "-h"} {
		if _, err := Load([]string{arg}, envMap(nil)); !errors.Is(err, pflag.ErrHelp) {
			t.Errorf("%s: expected %v, got %v", arg, pflag.ErrHelp, err)
		}
	}
	var buf bytes.Buffer
	PrintUsage(&buf)
	for _, flag := range []string{"--vid", "--pid", "--interval", "--interface", "--refresh-hz", "--log-level", "--config"} {
		if !strings.Contains(buf.String(), flag) {
			t.Errorf("expected usage to mention %s", flag)
		}
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		In   string
		Want uint16
		Err  bool
	}{
		{"0416", 0x0416, false},
		{"0x5302", 0x5302, false},
		{"0XFFFF", 0xffff, false},
		{" 1a ", 0x1a, false},
		{"", 0, true},
		{"0x", 0, true},
		{"12345", 0, true},
		{"-1", 0, true},
		{"g", 0, true},
	}
	for _, test := range tests {
		v, err := ParseID(test.In)
		if test.Err {
			if err == nil {
				t.Errorf("ParseID(%q): expected an error, got %#04x", test.In, v)
			}
			continue
		}
		if err != nil || v != test.Want {
			t.Errorf("ParseID(%q): expected %#04x, got %#04x (%v)", test.In, test.Want, v, err)
		}
	}
}

func TestBuildLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.LogLevel = "warn"
	log := BuildLogger(cfg, &buf)
	log.Info("hidden")
	log.Warn("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("expected info to be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "level=WARN msg=shown") {
		t.Errorf("expected warning in output, got %q", buf.String())
	}
}
