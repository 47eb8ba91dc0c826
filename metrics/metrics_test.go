package metrics

import (
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, root, name, data string) {
	t.Helper()
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestSource(root string) *Source {
	return &Source{Root: root, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestCollect(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "etc/hostname", "pve01\n")
	writeFile(t, root, "proc/stat", "cpu  100 0 100 700 100 0 0 0 0 0\ncpu0 1 2 3 4 5 6 7\n")
	writeFile(t, root, "proc/meminfo", "MemTotal:       16384 kB\nMemFree:         1024 kB\nMemAvailable:    4096 kB\n")
	writeFile(t, root, "proc/uptime", "93784.50 180000.00\n")
	writeFile(t, root, "proc/loadavg", "0.50 1.25 2.00 1/123 4567\n")
	writeFile(t, root, "sys/class/thermal/thermal_zone0/temp", "45500\n")
	writeFile(t, root, "sys/class/net/eth1/carrier", "1\n")
	writeFile(t, root, "sys/class/net/eth1/statistics/rx_bytes", "1000\n")
	writeFile(t, root, "sys/class/net/eth1/statistics/tx_bytes", "5000\n")

	s := newTestSource(root)
	now := time.Unix(1700000000, 0)
	v := s.Collect(now)

	if v.Hostname != "pve01" {
		t.Errorf("expected hostname pve01, got %q", v.Hostname)
	}
	if v.NetInterface != "eth1" {
		t.Errorf("expected interface eth1, got %q", v.NetInterface)
	}
	if v.CPUUsage != 0 {
		t.Errorf("expected first CPU sample to be 0, got %g", v.CPUUsage)
	}
	if v.MemTotal != 16384*1024 || v.MemUsed != 12288*1024 {
		t.Errorf("expected 12288/16384 kB used, got %d/%d", v.MemUsed/1024, v.MemTotal/1024)
	}
	if !near(v.MemPercent, 75) {
		t.Errorf("expected 75%% memory, got %g", v.MemPercent)
	}
	if want := 26*time.Hour + 3*time.Minute + 4*time.Second + 500*time.Millisecond; v.Uptime != want {
		t.Errorf("expected uptime %s, got %s", want, v.Uptime)
	}
	if v.Load1 != 0.5 || v.Load5 != 1.25 || v.Load15 != 2 {
		t.Errorf("expected load 0.5 1.25 2, got %g %g %g", v.Load1, v.Load5, v.Load15)
	}
	if c := v.CPUCelsius(); !near(c, 45.5) {
		t.Errorf("expected 45.5°C, got %g", c)
	}
	if v.NetRxRate != 0 || v.NetTxRate != 0 {
		t.Errorf("expected first rate sample to be 0, got %g %g", v.NetRxRate, v.NetTxRate)
	}

	// idle+iowait grows by 100 of 300 jiffies
	writeFile(t, root, "proc/stat", "cpu  200 0 200 750 150 0 0 0 0 0\n")
	writeFile(t, root, "sys/class/net/eth1/statistics/rx_bytes", "3048\n")
	writeFile(t, root, "sys/class/net/eth1/statistics/tx_bytes", "4000\n")
	v = s.Collect(now.Add(2 * time.Second))
	if !near(v.CPUUsage, 66.666666) {
		t.Errorf("expected 66.67%% CPU, got %g", v.CPUUsage)
	}
	if !near(v.NetRxRate, 1024) {
		t.Errorf("expected 1024 B/s rx, got %g", v.NetRxRate)
	}
	if v.NetTxRate != 0 {
		t.Errorf("expected reset counter to report 0, got %g", v.NetTxRate)
	}

	// no time passed
	v = s.Collect(now.Add(2 * time.Second))
	if v.NetRxRate != 0 {
		t.Errorf("expected 0 rate without elapsed time, got %g", v.NetRxRate)
	}
}

func TestCollectMissing(t *testing.T) {
	s := newTestSource(t.TempDir())
	s.Interface = "enp3s0"
	v := s.Collect(time.Now())
	if v.CPUUsage != 0 || v.MemTotal != 0 || v.MemPercent != 0 || v.Uptime != 0 || v.Load1 != 0 || v.CPUTemp != 0 {
		t.Errorf("expected zero values, got %+v", v)
	}
	if v.CPUCelsius() != 0 {
		t.Errorf("expected unknown temperature, got %g", v.CPUCelsius())
	}
	if v.NetInterface != "enp3s0" {
		t.Errorf("expected interface override, got %q", v.NetInterface)
	}
	if v.Hostname == "" {
		t.Error("expected a hostname fallback")
	}
}

func TestTemperatureFallback(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "sys/class/thermal/thermal_zone0/temp", "garbage\n")
	writeFile(t, root, "sys/class/hwmon/hwmon1/temp1_input", "61000\n")
	s := newTestSource(root)
	if c := s.Collect(time.Now()); !near(c.CPUCelsius(), 61) {
		t.Errorf("expected 61°C from hwmon1, got %g", c.CPUCelsius())
	}
}

func TestDetectInterface(t *testing.T) {
	t.Run("carrier", func(it *testing.T) {
		root := it.TempDir()
		writeFile(it, root, "sys/class/net/lo/carrier", "1\n")
		writeFile(it, root, "sys/class/net/eno1/carrier", "0\n")
		writeFile(it, root, "sys/class/net/vmbr0/carrier", "1\n")
		if v := DetectInterface(root); v != "vmbr0" {
			it.Errorf("expected vmbr0, got %q", v)
		}
	})

	t.Run("no-carrier", func(it *testing.T) {
		root := it.TempDir()
		writeFile(it, root, "sys/class/net/lo/carrier", "1\n")
		writeFile(it, root, "sys/class/net/wlan0/carrier", "0\n")
		writeFile(it, root, "sys/class/net/eno1/carrier", "0\n")
		if v := DetectInterface(root); v != "eno1" {
			it.Errorf("expected eno1, got %q", v)
		}
	})

	t.Run("loopback-only", func(it *testing.T) {
		root := it.TempDir()
		writeFile(it, root, "sys/class/net/lo/carrier", "1\n")
		if v := DetectInterface(root); v != DefaultInterface {
			it.Errorf("expected %s, got %q", DefaultInterface, v)
		}
	})

	t.Run("missing", func(it *testing.T) {
		if v := DetectInterface(it.TempDir()); v != DefaultInterface {
			it.Errorf("expected %s, got %q", DefaultInterface, v)
		}
	})
}

func TestParseMalformed(t *testing.T) {
	for _, raw := range []string{"", "cpu", "cpu 1 2 3", "intr 1 2 3 4 5 6 7", "cpu a b c d e f g"} {
		if _, ok := parseCPUStat(raw); ok {
			t.Errorf("expected %q to be rejected", raw)
		}
	}
	for _, raw := range []string{"", "MemTotal 1024 kB", "MemTotal: x kB", "MemAvailable: 10 kB"} {
		if used, total, pct := parseMemInfo(raw); used != 0 || total != 0 || pct != 0 {
			t.Errorf("expected %q to give zeros, got %d %d %g", raw, used, total, pct)
		}
	}
	if used, total, _ := parseMemInfo("MemTotal: 100 kB\nMemAvailable: 200 kB\n"); used != 0 || total != 102400 {
		t.Errorf("expected available above total to clamp used to 0, got %d/%d", used, total)
	}
	for _, raw := range []string{"", "x y", "-5 10"} {
		if v := parseUptime(raw); v != 0 {
			t.Errorf("expected uptime %q to be 0, got %s", raw, v)
		}
	}
	for _, raw := range []string{"", "0.1 0.2", "0.1 x 0.3"} {
		if a, b, c := parseLoadAvg(raw); a != 0 || b != 0 || c != 0 {
			t.Errorf("expected load %q to be 0, got %g %g %g", raw, a, b, c)
		}
	}
}

func TestDeltaEngine(t *testing.T) {
	start := time.Unix(1700000000, 0)
	e := newDeltaEngine()
	steps := []struct {
		Key   string
		After time.Duration
		Value uint64
		Want  float64
	}{
		{"rx", 0, 1000, 0},
		{"rx", 2 * time.Second, 3000, 1000},
		{"tx", 2 * time.Second, 50, 0},
		{"rx", 2 * time.Second, 4000, 0},
		{"rx", 4 * time.Second, 100, 0},
		{"rx", 5 * time.Second, 600, 500},
	}
	for i, step := range steps {
		if v := e.Rate(step.Key, start.Add(step.After), step.Value); v != step.Want {
			t.Errorf("step %d (%s): expected %g, got %g", i, step.Key, step.Want, v)
		}
	}
}
