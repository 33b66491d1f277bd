package scan

import (
	"context"

	"github.com/lakshaymaurya-felt/diskaudit/internal/config"
)

// DirectorySizeSource measures the recursive on-disk footprint of a path.
// Implementations never fail: unreadable, missing, or timed-out paths
// measure 0.
type DirectorySizeSource interface {
	Size(ctx context.Context, path string) int64
}

// Match is one entry found by path discovery. SizeBytes is only set for
// RuleByExtensionSize, where the file's own size is the measurement.
type Match struct {
	Path      string
	SizeBytes int64
}

// DirectoryFinder locates entries matching a discovery rule. Implementations
// never fail: a missing root or an unreadable subtree yields fewer (or no)
// matches.
type DirectoryFinder interface {
	Find(ctx context.Context, root string, rule config.Rule) []Match

	// Children lists the immediate subdirectories of dir.
	Children(ctx context.Context, dir string) []string
}

// SubsystemUsageSource reports container engine usage. An absent engine is
// reported as ContainerReport{Available: false}.
type SubsystemUsageSource interface {
	Usage(ctx context.Context) ContainerReport
}

// DiskUsageSource reports capacity for the volume containing path. A failed
// query yields the zero overview.
type DiskUsageSource interface {
	Usage(ctx context.Context, path string) DiskOverview
}
