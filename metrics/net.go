package metrics

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultInterface is used when no candidate interface exists.
const DefaultInterface = "eth0"

// maxInterfaceName excludes names that do not fit IFNAMSIZ.
const maxInterfaceName = 32

// DetectInterface picks the first non-loopback interface with carrier, else the first
// candidate, else DefaultInterface.
func DetectInterface(root string) string {
	if root == "" {
		root = "/"
	}
	dir := filepath.Join(root, "sys/class/net")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return DefaultInterface
	}

	var candidates []string
	for _, entry := range entries {
		name := entry.Name()
		if name == "lo" || strings.HasPrefix(name, ".") || len(name) >= maxInterfaceName {
			continue
		}
		candidates = append(candidates, name)
	}
	sort.Strings(candidates)

	for _, name := range candidates {
		b, err := os.ReadFile(filepath.Join(dir, name, "carrier"))
		if err == nil && strings.TrimSpace(string(b)) == "1" {
			return name
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return DefaultInterface
}

type deltaSample struct {
	value uint64
	at    time.Time
}

// deltaEngine is owned by a single Source and is not safe for concurrent use.
type deltaEngine struct {
	samples map[string]deltaSample
}

func newDeltaEngine() *deltaEngine {
	return &deltaEngine{samples: make(map[string]deltaSample)}
}

// Rate stores the counter and returns its per second change since the previous sample.
// It is 0 on the first sample, when no time passed, or after a counter reset.
func (e *deltaEngine) Rate(key string, now time.Time, cur uint64) float64 {
	prev, exists := e.samples[key]
	e.samples[key] = deltaSample{value: cur, at: now}
	if !exists {
		return 0
	}
	seconds := now.Sub(prev.at).Seconds()
	if seconds <= 0 || cur < prev.value {
		return 0
	}
	return float64(cur-prev.value) / seconds
}
