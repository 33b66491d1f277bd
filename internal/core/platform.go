package core

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// PlatformString returns a human-readable OS description for report headers.
// Examples: "macOS 14.5 (arm64)", "ubuntu 24.04 (x86_64)".
// Falls back to GOOS/GOARCH when host information is unavailable.
func PlatformString(ctx context.Context) string {
	info, err := host.InfoWithContext(ctx)
	if err != nil || info == nil {
		return fmt.Sprintf("%s (%s)", runtime.GOOS, runtime.GOARCH)
	}

	name := info.Platform
	switch {
	case runtime.GOOS == "darwin":
		name = "macOS"
	case name == "":
		name = info.OS
	}

	arch := info.KernelArch
	if arch == "" {
		arch = runtime.GOARCH
	}

	version := strings.TrimSpace(info.PlatformVersion)
	if version == "" {
		return fmt.Sprintf("%s (%s)", name, arch)
	}
	return fmt.Sprintf("%s %s (%s)", name, version, arch)
}
