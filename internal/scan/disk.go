package scan

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v4/disk"
	"go.uber.org/zap"
)

// VolumeSource reads volume capacity through gopsutil.
type VolumeSource struct {
	timeout time.Duration
	log     *zap.Logger
}

// NewVolumeSource creates a VolumeSource.
func NewVolumeSource(timeout time.Duration, log *zap.Logger) *VolumeSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &VolumeSource{timeout: timeout, log: log}
}

// Usage implements DiskUsageSource.
func (v *VolumeSource) Usage(ctx context.Context, path string) DiskOverview {
	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	u, err := disk.UsageWithContext(ctx, path)
	if err != nil || u == nil {
		v.log.Warn("disk usage query failed", zap.String("path", path), zap.Error(err))
		return DiskOverview{}
	}
	return NewDiskOverview(u.Total, u.Used, u.Free)
}
