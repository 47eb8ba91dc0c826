// Package config loads the homelab-screen settings from defaults, an optional YAML file,
// the environment and the command line, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"
)

// Environment variables.
const (
	EnvVID       = "HOMELAB_SCREEN_VID"
	EnvPID       = "HOMELAB_SCREEN_PID"
	EnvInterval  = "HOMELAB_SCREEN_INTERVAL"
	EnvInterface = "HOMELAB_SCREEN_INTERFACE"
	EnvLogLevel  = "HOMELAB_SCREEN_LOG_LEVEL"
	EnvRefreshHz = "HOMELAB_SCREEN_REFRESH_HZ"
	EnvConfig    = "HOMELAB_SCREEN_CONFIG"
)

// Limits.
const (
	MaxInterfaceName = 31
	MinRefreshHz     = 1
	MaxRefreshHz     = 60
)

// Config holds the runtime settings.
type Config struct {
	VendorID  uint16
	ProductID uint16

	// Interval between page switches.
	Interval time.Duration

	// Interface overrides network interface detection when set.
	Interface string

	// RefreshRate is how often a frame is rendered and sent.
	RefreshRate physic.Frequency

	LogLevel string
}

// Default returns the default settings.
func Default() Config {
	return Config{
		VendorID:    0x0416,
		ProductID:   0x5302,
		Interval:    7 * time.Second,
		RefreshRate: 10 * physic.Hertz,
		LogLevel:    "info",
	}
}

// fileConfig is the YAML file layout.
type fileConfig struct {
	VID       string `yaml:"vid"`
	PID       string `yaml:"pid"`
	Interval  *int   `yaml:"interval"`
	Interface string `yaml:"interface"`
	RefreshHz *int   `yaml:"refresh_hz"`
	LogLevel  string `yaml:"log_level"`
}

type flagValues struct {
	vid, pid   string
	interval   int
	iface      string
	refreshHz  int
	logLevel   string
	configPath string
}

func newFlagSet(v *flagValues) *pflag.FlagSet {
	def := Default()
	fs := pflag.NewFlagSet("homelab-screen", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&v.vid, "vid", fmt.Sprintf("%04x", def.VendorID), "USB vendor ID (hex)")
	fs.StringVar(&v.pid, "pid", fmt.Sprintf("%04x", def.ProductID), "USB product ID (hex)")
	fs.IntVar(&v.interval, "interval", int(def.Interval/time.Second), "page rotation interval in seconds")
	fs.StringVar(&v.iface, "interface", "", "network interface to monitor (default: auto-detect)")
	fs.IntVar(&v.refreshHz, "refresh-hz", int(def.RefreshRate/physic.Hertz), "frames sent per second")
	fs.StringVar(&v.logLevel, "log-level", def.LogLevel, "log level: debug, info, warn or error")
	fs.StringVar(&v.configPath, "config", "", "YAML configuration file")
	return fs
}

// PrintUsage writes the command line help to w.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: homelab-screen [options]\n\nDrive a USB LCD panel as a homelab status display.\n\nOptions:\n")
	fmt.Fprint(w, newFlagSet(new(flagValues)).FlagUsages())
}

// Load parses args (without the program name) and env on top of the defaults.
// It returns pflag.ErrHelp when help was requested.
func Load(args []string, env func(string) string) (Config, error) {
	if env == nil {
		env = os.Getenv
	}

	var v flagValues
	fs := newFlagSet(&v)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return Config{}, pflag.ErrHelp
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("config: unexpected argument %q", fs.Arg(0))
	}

	cfg := Default()

	path := v.configPath
	if path == "" {
		path = strings.TrimSpace(env(EnvConfig))
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.loadEnv(env); err != nil {
		return Config{}, err
	}

	var err error
	if fs.Changed("vid") {
		if cfg.VendorID, err = ParseID(v.vid); err != nil {
			return Config{}, fmt.Errorf("config: --vid: %w", err)
		}
	}
	if fs.Changed("pid") {
		if cfg.ProductID, err = ParseID(v.pid); err != nil {
			return Config{}, fmt.Errorf("config: --pid: %w", err)
		}
	}
	if fs.Changed("interval") {
		cfg.Interval = time.Duration(v.interval) * time.Second
	}
	if fs.Changed("interface") {
		cfg.Interface = v.iface
		if cfg.Interface == "" {
			return Config{}, errors.New("config: --interface must not be empty")
		}
	}
	if fs.Changed("refresh-hz") {
		cfg.RefreshRate = physic.Frequency(v.refreshHz) * physic.Hertz
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = v.logLevel
	}

	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: failed to read config file: %w", err)
	}
	var f fileConfig
	if err = yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("config: failed to parse config file %s: %w", path, err)
	}
	if f.VID != "" {
		if c.VendorID, err = ParseID(f.VID); err != nil {
			return fmt.Errorf("config: %s: vid: %w", path, err)
		}
	}
	if f.PID != "" {
		if c.ProductID, err = ParseID(f.PID); err != nil {
			return fmt.Errorf("config: %s: pid: %w", path, err)
		}
	}
	if f.Interval != nil {
		c.Interval = time.Duration(*f.Interval) * time.Second
	}
	if f.Interface != "" {
		c.Interface = f.Interface
	}
	if f.RefreshHz != nil {
		c.RefreshRate = physic.Frequency(*f.RefreshHz) * physic.Hertz
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
	return nil
}

func (c *Config) loadEnv(env func(string) string) (err error) {
	if v := strings.TrimSpace(env(EnvVID)); v != "" {
		if c.VendorID, err = ParseID(v); err != nil {
			return fmt.Errorf("config: %s: %w", EnvVID, err)
		}
	}
	if v := strings.TrimSpace(env(EnvPID)); v != "" {
		if c.ProductID, err = ParseID(v); err != nil {
			return fmt.Errorf("config: %s: %w", EnvPID, err)
		}
	}
	if v := strings.TrimSpace(env(EnvInterval)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: invalid interval %q", EnvInterval, v)
		}
		c.Interval = time.Duration(n) * time.Second
	}
	if v := strings.TrimSpace(env(EnvInterface)); v != "" {
		c.Interface = v
	}
	if v := strings.TrimSpace(env(EnvRefreshHz)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: invalid refresh rate %q", EnvRefreshHz, v)
		}
		c.RefreshRate = physic.Frequency(n) * physic.Hertz
	}
	if v := strings.TrimSpace(env(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate checks the settings are usable.
func (c Config) Validate() error {
	if c.Interval < time.Second {
		return fmt.Errorf("config: interval must be at least 1 second, got %s", c.Interval)
	}
	if len(c.Interface) > MaxInterfaceName {
		return fmt.Errorf("config: interface name %q is longer than %d bytes", c.Interface, MaxInterfaceName)
	}
	if c.RefreshRate < MinRefreshHz*physic.Hertz || c.RefreshRate > MaxRefreshHz*physic.Hertz {
		return fmt.Errorf("config: refresh rate %s outside %d..%d Hz", c.RefreshRate, MinRefreshHz, MaxRefreshHz)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseID parses a hexadecimal USB ID with an optional 0x prefix.
func ParseID(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return 0, errors.New("empty USB ID")
	}
	n, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid USB ID %q", s)
	}
	return uint16(n), nil
}

// ParseLevel maps a level name onto a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("config: unknown log level %q", name)
	}
}

// BuildLogger returns a text logger writing to w at the configured level.
func BuildLogger(cfg Config, w io.Writer) *slog.Logger {
	level, _ := ParseLevel(cfg.LogLevel)
	hOpts := &slog.HandlerOptions{Level: level}
	return slog.New(slog.NewTextHandler(w, hOpts))
}
