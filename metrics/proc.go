package metrics

import (
	"strconv"
	"strings"
	"time"

	"periph.io/x/conn/v3/physic"
)

// cpuTimes are the aggregate jiffies from the first line of /proc/stat.
type cpuTimes struct {
	Idle  uint64 // idle + iowait
	Total uint64 // user through softirq
}

func parseCPUStat(raw string) (cpuTimes, bool) {
	line, _, _ := strings.Cut(raw, "\n")
	fields := strings.Fields(line)
	if len(fields) < 8 || fields[0] != "cpu" {
		return cpuTimes{}, false
	}
	var v [7]uint64
	for i := range v {
		n, err := strconv.ParseUint(fields[i+1], 10, 64)
		if err != nil {
			return cpuTimes{}, false
		}
		v[i] = n
	}
	var out cpuTimes
	for _, n := range v {
		out.Total += n
	}
	out.Idle = v[3] + v[4]
	return out, true
}

func cpuPercent(prev, cur cpuTimes) float64 {
	total := deltaCounter(cur.Total, prev.Total)
	if total == 0 {
		return 0
	}
	idle := deltaCounter(cur.Idle, prev.Idle)
	if idle > total {
		return 0
	}
	return clampPercent(float64(total-idle) / float64(total) * 100)
}

// parseMemInfo returns used and total bytes, and the used percentage.
func parseMemInfo(raw string) (used, total uint64, percent float64) {
	var available uint64
	for _, line := range strings.Split(raw, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields := strings.Fields(value)
		if len(fields) == 0 {
			continue
		}
		n, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			continue
		}
		switch strings.TrimSpace(key) {
		case "MemTotal":
			total = n * 1024
		case "MemAvailable":
			available = n * 1024
		}
	}
	if total == 0 {
		return 0, 0, 0
	}
	if available <= total {
		used = total - available
	}
	return used, total, percentOf(used, total)
}

func parseUptime(raw string) time.Duration {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return 0
	}
	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

func parseLoadAvg(raw string) (load1, load5, load15 float64) {
	fields := strings.Fields(raw)
	if len(fields) < 3 {
		return
	}
	var v [3]float64
	for i := range v {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return 0, 0, 0
		}
		v[i] = f
	}
	return v[0], v[1], v[2]
}

// parseMilliCelsius parses a sysfs temperature in millidegrees Celsius.
func parseMilliCelsius(raw string) (physic.Temperature, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return physic.ZeroCelsius + physic.Temperature(n)*physic.MilliKelvin, true
}

func parseCounter(raw string) (uint64, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	return n, err == nil
}

func deltaCounter(cur, prev uint64) uint64 {
	if cur < prev {
		return 0
	}
	return cur - prev
}

func clampPercent(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

func percentOf(value, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return clampPercent(float64(value) / float64(total) * 100)
}
