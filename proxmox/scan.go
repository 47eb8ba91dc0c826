package proxmox

import (
	"bytes"
	"strconv"
	"strings"
)

// parseList counts the guests in `qm list` or `pct list` output.
func parseList(out []byte) (running, total int) {
	lines := strings.Split(string(out), "\n")
	if len(lines) == 0 {
		return 0, 0
	}
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		total++
		if strings.Contains(line, "running") {
			running++
		}
	}
	return running, total
}

// parseStorage scans `pvesh get /nodes/<node>/storage` JSON output. Each object holding a
// "storage" key spans from the nearest '{' before the key to the first '}' after it. Objects
// without a string name are skipped; "used" and "total" both need to parse or both are zero.
// Scanning stops at MaxVolumes entries or at an unterminated object.
func parseStorage(out []byte) []Volume {
	var (
		key     = []byte(`"storage"`)
		volumes []Volume
		p       int
	)
	for len(volumes) < MaxVolumes {
		i := bytes.Index(out[p:], key)
		if i < 0 {
			break
		}
		at := p + i

		start := bytes.LastIndexByte(out[:at], '{')
		if start < 0 {
			p = at + len(key)
			continue
		}
		end := bytes.IndexByte(out[at:], '}')
		if end < 0 {
			break
		}
		end += at + 1
		obj := out[start:end]
		p = end

		name, ok := stringField(obj, "storage")
		if !ok || name == "" {
			continue
		}
		v := Volume{Name: truncate(name, MaxNameLen)}
		used, okUsed := uintField(obj, "used")
		total, okTotal := uintField(obj, "total")
		if okUsed && okTotal {
			v.Used, v.Total = used, total
		}
		volumes = append(volumes, v)
	}
	return volumes
}

// fieldValue returns the bytes after the colon following "name" in obj.
func fieldValue(obj []byte, name string) ([]byte, bool) {
	i := bytes.Index(obj, []byte(`"`+name+`"`))
	if i < 0 {
		return nil, false
	}
	rest := obj[i+len(name)+2:]
	colon := bytes.IndexByte(rest, ':')
	if colon < 0 {
		return nil, false
	}
	return bytes.TrimLeft(rest[colon+1:], " \t\r\n"), true
}

func stringField(obj []byte, name string) (string, bool) {
	v, ok := fieldValue(obj, name)
	if !ok || len(v) == 0 || v[0] != '"' {
		return "", false
	}
	end := bytes.IndexByte(v[1:], '"')
	if end < 0 {
		return "", false
	}
	return string(v[1 : 1+end]), true
}

func uintField(obj []byte, name string) (uint64, bool) {
	v, ok := fieldValue(obj, name)
	if !ok {
		return 0, false
	}
	n := 0
	for n < len(v) && v[n] >= '0' && v[n] <= '9' {
		n++
	}
	if n == 0 {
		return 0, false
	}
	u, err := strconv.ParseUint(string(v[:n]), 10, 64)
	if err != nil {
		return 0, false
	}
	return u, true
}

// parseDF reads the data lines of `df -B1 <path>` output.
func parseDF(out []byte, name string) []Volume {
	var volumes []Volume
	lines := strings.Split(string(out), "\n")
	if len(lines) == 0 {
		return nil
	}
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		total, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		used, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			continue
		}
		volumes = append(volumes, Volume{Name: truncate(name, MaxNameLen), Used: used, Total: total})
	}
	return volumes
}

// sanitizeNode maps a host name onto the characters allowed in a pvesh path.
func sanitizeNode(name string) string {
	if name == "" {
		return "localhost"
	}
	b := []byte(name)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
		default:
			b[i] = '_'
		}
	}
	return string(b)
}

func firstLine(out []byte) string {
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimRight(line, "\r")
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
