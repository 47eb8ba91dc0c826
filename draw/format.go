package draw

import (
	"math"
	"strconv"
)

const (
	kib = 1 << 10
	mib = 1 << 20
	gib = 1 << 30
	tib = 1 << 40
)

// FormatBytesRate formats a byte per second rate using binary prefixes, like "1.5 MB/s".
func FormatBytesRate(v float64) string {
	switch {
	case math.IsNaN(v), math.IsInf(v, 0), v < 0:
		v = 0
	case v >= gib:
		return strconv.FormatFloat(v/gib, 'f', 1, 64) + " GB/s"
	case v >= mib:
		return strconv.FormatFloat(v/mib, 'f', 1, 64) + " MB/s"
	case v >= kib:
		return strconv.FormatFloat(v/kib, 'f', 1, 64) + " KB/s"
	}
	return strconv.FormatInt(int64(v), 10) + " B/s"
}

// FormatBytesHuman formats a byte count using binary prefixes, like "1.5G".
func FormatBytesHuman(v uint64) string {
	switch {
	case v >= tib:
		return strconv.FormatFloat(float64(v)/tib, 'f', 1, 64) + "T"
	case v >= gib:
		return strconv.FormatFloat(float64(v)/gib, 'f', 1, 64) + "G"
	case v >= mib:
		return strconv.FormatFloat(float64(v)/mib, 'f', 1, 64) + "M"
	case v >= kib:
		return strconv.FormatFloat(float64(v)/kib, 'f', 1, 64) + "K"
	}
	return strconv.FormatUint(v, 10) + "B"
}
