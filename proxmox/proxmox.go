// Package proxmox scrapes Proxmox VE guest, storage and version information from the
// command line tools installed on a node.
package proxmox

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// Limits.
const (
	MaxVolumes  = 8
	MaxNameLen  = 31
	storageCap  = 16 << 10
	minJSONSize = 3
)

// Defaults.
const (
	DefaultCollectInterval = 10 * time.Second
	DefaultCommandTimeout  = 5 * time.Second
)

var (
	toolPaths   = []string{"/usr/bin/pvesh", "/usr/sbin/qm"}
	dfPaths     = []string{"/var/lib/vz", "/var/lib/pve/local-btrfs"}
	versionFile = "/etc/pve/.version"
)

// Volume is one storage entry.
type Volume struct {
	Name  string
	Used  uint64
	Total uint64
}

// Percent is the used share of the volume, 0 when the total is unknown.
func (v Volume) Percent() float64 {
	if v.Total == 0 {
		return 0
	}
	return float64(v.Used) / float64(v.Total) * 100
}

// Snapshot is one collection of hypervisor state. The zero value means not available.
type Snapshot struct {
	Available  bool
	RunningVMs int
	TotalVMs   int
	RunningCTs int
	TotalCTs   int
	Version    string
	Node       string
	Storage    []Volume
}

// Source collects Snapshots, rate limited to one collection per CollectInterval.
type Source struct {
	Runner Runner
	Logger *slog.Logger

	// Root prefixes the tool and version file paths, empty means "/".
	Root string

	// Node is the node name, empty uses the host name.
	Node string

	CollectInterval time.Duration
	CommandTimeout  time.Duration

	checked   bool
	available bool
	collected bool
	last      time.Time
	cached    Snapshot
}

// Available reports if the Proxmox tools are installed. The result is cached.
func (s *Source) Available() bool {
	if !s.checked {
		s.checked = true
		for _, path := range toolPaths {
			if unix.Access(s.path(path), unix.X_OK) == nil {
				s.available = true
				break
			}
		}
	}
	return s.available
}

// Collect returns a fresh snapshot if CollectInterval passed since the previous
// collection, the cached one otherwise.
func (s *Source) Collect(ctx context.Context, now time.Time) Snapshot {
	if !s.Available() {
		return Snapshot{}
	}
	interval := s.CollectInterval
	if interval <= 0 {
		interval = DefaultCollectInterval
	}
	if s.collected && now.Sub(s.last) < interval {
		return s.cached
	}
	s.collected, s.last = true, now

	if s.Node == "" {
		s.Node, _ = os.Hostname()
	}
	out := Snapshot{
		Available: true,
		Node:      s.Node,
	}
	out.RunningVMs, out.TotalVMs = parseList(s.run(ctx, "qm", "list"))
	out.RunningCTs, out.TotalCTs = parseList(s.run(ctx, "pct", "list"))
	out.Storage = s.storage(ctx)
	out.Version = s.version(ctx)

	s.logger().Debug("collected proxmox metrics",
		"vms", out.TotalVMs, "cts", out.TotalCTs, "volumes", len(out.Storage), "version", out.Version)
	s.cached = out
	return out
}

func (s *Source) storage(ctx context.Context) []Volume {
	node := sanitizeNode(s.Node)
	out, err := s.runErr(ctx, "pvesh", "get", "/nodes/"+node+"/storage", "--output-format", "json")
	if err == nil && len(out) >= minJSONSize {
		if len(out) > storageCap {
			out = out[:storageCap]
		}
		if volumes := parseStorage(out); len(volumes) > 0 {
			return volumes
		}
	} else if err != nil {
		s.logger().Debug("pvesh storage query failed, falling back to df", "node", node, "error", err)
	}

	var volumes []Volume
	for _, path := range dfPaths {
		name := strings.TrimPrefix(path, "/var/lib/")
		for _, v := range parseDF(s.run(ctx, "df", "-B1", path), name) {
			if len(volumes) == MaxVolumes {
				return volumes
			}
			volumes = append(volumes, v)
		}
	}
	return volumes
}

func (s *Source) version(ctx context.Context) string {
	if v := firstLine(s.run(ctx, "pveversion")); v != "" {
		return v
	}
	b, err := os.ReadFile(s.path(versionFile))
	if err != nil {
		return ""
	}
	return firstLine(b)
}

// run returns the command output, whatever the exit status.
func (s *Source) run(ctx context.Context, cmd string, args ...string) []byte {
	out, _ := s.runErr(ctx, cmd, args...)
	return out
}

func (s *Source) runErr(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	runner := s.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	timeout := s.CommandTimeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return runner.Run(ctx, cmd, args...)
}

func (s *Source) path(name string) string {
	if s.Root == "" {
		return name
	}
	return filepath.Join(s.Root, name)
}

func (s *Source) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
