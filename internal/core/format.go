package core

import (
	"fmt"
	"strconv"
)

// Byte unit multipliers (binary).
const (
	KiB int64 = 1024
	MiB       = 1024 * KiB
	GiB       = 1024 * MiB
	TiB       = 1024 * GiB
)

// FormatSize converts a byte count to a human-readable string using binary
// units, e.g. "512 B", "1.5 KB", "8.2 GB".
func FormatSize(bytes int64) string {
	if bytes < 0 {
		return "-" + FormatSize(-bytes)
	}

	switch {
	case bytes >= TiB:
		return fmt.Sprintf("%.1f TB", float64(bytes)/float64(TiB))
	case bytes >= GiB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GiB))
	case bytes >= MiB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MiB))
	case bytes >= KiB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KiB))
	default:
		return strconv.FormatInt(bytes, 10) + " B"
	}
}

// ToGB converts a byte count to gigabytes. This is the only place sizes
// become floating point; everything upstream stays in integer bytes.
func ToGB(bytes int64) float64 {
	return float64(bytes) / float64(GiB)
}

// FormatGB renders a byte count the way the report columns show it:
// one decimal in GB, with "< 0.1 GB" for anything smaller.
func FormatGB(bytes int64) string {
	gb := ToGB(bytes)
	if gb < 0.1 {
		return "< 0.1 GB"
	}
	return fmt.Sprintf("%.1f GB", gb)
}
