// Package metrics samples host health from the /proc and /sys text interfaces.
package metrics

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"periph.io/x/conn/v3/physic"
)

// Snapshot is one sample of host metrics. Unknown values are zero.
type Snapshot struct {
	Hostname     string
	CPUTemp      physic.Temperature
	CPUUsage     float64
	MemUsed      uint64
	MemTotal     uint64
	MemPercent   float64
	Load1        float64
	Load5        float64
	Load15       float64
	Uptime       time.Duration
	NetRxRate    float64
	NetTxRate    float64
	NetInterface string
}

// CPUCelsius returns the CPU temperature in degrees Celsius, 0 if unknown.
func (s *Snapshot) CPUCelsius() float64 {
	if s.CPUTemp == 0 {
		return 0
	}
	return float64(s.CPUTemp-physic.ZeroCelsius) / float64(physic.Kelvin)
}

// Source collects Snapshots. The zero value reads the live filesystem.
type Source struct {
	// Root prefixes all paths, empty means "/".
	Root string

	// Interface overrides network interface detection.
	Interface string

	Logger *slog.Logger

	hostname string
	prevCPU  cpuTimes
	hasCPU   bool
	delta    *deltaEngine
}

// Collect takes a sample at now.
func (s *Source) Collect(now time.Time) Snapshot {
	if s.delta == nil {
		s.delta = newDeltaEngine()
	}
	if s.Interface == "" {
		s.Interface = DetectInterface(s.Root)
		s.logger().Info("network interface detected", "interface", s.Interface)
	}
	if s.hostname == "" {
		s.hostname = s.readHostname()
	}

	out := Snapshot{
		Hostname:     s.hostname,
		NetInterface: s.Interface,
		CPUTemp:      s.readTemperature(),
		CPUUsage:     s.cpuUsage(),
		Uptime:       parseUptime(s.read("proc/uptime")),
	}
	out.MemUsed, out.MemTotal, out.MemPercent = parseMemInfo(s.read("proc/meminfo"))
	out.Load1, out.Load5, out.Load15 = parseLoadAvg(s.read("proc/loadavg"))
	out.NetRxRate, out.NetTxRate = s.netRates(now)
	return out
}

func (s *Source) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Source) path(name string) string {
	root := s.Root
	if root == "" {
		root = "/"
	}
	return filepath.Join(root, name)
}

// read returns the file contents or an empty string.
func (s *Source) read(name string) string {
	b, err := os.ReadFile(s.path(name))
	if err != nil {
		return ""
	}
	return string(b)
}

func (s *Source) readHostname() string {
	if name := strings.TrimSpace(s.read("etc/hostname")); name != "" {
		return name
	}
	if name, err := os.Hostname(); err == nil && name != "" {
		return name
	}
	return "localhost"
}

func (s *Source) cpuUsage() float64 {
	cur, ok := parseCPUStat(s.read("proc/stat"))
	if !ok {
		return 0
	}
	prev, had := s.prevCPU, s.hasCPU
	s.prevCPU, s.hasCPU = cur, true
	if !had {
		return 0
	}
	return cpuPercent(prev, cur)
}

var temperaturePaths = []string{
	"sys/class/thermal/thermal_zone0/temp",
	"sys/class/hwmon/hwmon0/temp1_input",
	"sys/class/hwmon/hwmon1/temp1_input",
}

func (s *Source) readTemperature() physic.Temperature {
	for _, name := range temperaturePaths {
		if t, ok := parseMilliCelsius(s.read(name)); ok {
			return t
		}
	}
	return 0
}

func (s *Source) netRates(now time.Time) (rx, tx float64) {
	base := filepath.Join("sys/class/net", s.Interface, "statistics")
	if v, ok := parseCounter(s.read(filepath.Join(base, "rx_bytes"))); ok {
		rx = s.delta.Rate("rx", now, v)
	}
	if v, ok := parseCounter(s.read(filepath.Join(base, "tx_bytes"))); ok {
		tx = s.delta.Rate("tx", now, v)
	}
	return
}
