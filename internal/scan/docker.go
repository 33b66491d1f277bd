package scan

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/docker/go-units"
	"go.uber.org/zap"

	"github.com/lakshaymaurya-felt/diskaudit/internal/core"
)

// DockerProbe reads container engine usage from `docker system df`.
type DockerProbe struct {
	runner  core.Runner
	timeout time.Duration
	log     *zap.Logger
}

// NewDockerProbe creates a DockerProbe that runs docker through runner.
func NewDockerProbe(runner core.Runner, timeout time.Duration, log *zap.Logger) *DockerProbe {
	if log == nil {
		log = zap.NewNop()
	}
	return &DockerProbe{runner: runner, timeout: timeout, log: log}
}

// dfRecord is one line of `docker system df --format '{{json .}}'`.
type dfRecord struct {
	Type        string `json:"Type"`
	TotalCount  string `json:"TotalCount"`
	Active      string `json:"Active"`
	Size        string `json:"Size"`
	Reclaimable string `json:"Reclaimable"`
}

// Usage implements SubsystemUsageSource.
func (d *DockerProbe) Usage(ctx context.Context) ContainerReport {
	res, err := d.runner.Run(ctx, d.timeout, "docker", "system", "df", "--format", "{{json .}}")
	if err != nil {
		switch {
		case errors.Is(err, exec.ErrNotFound):
			d.log.Debug("docker not installed")
		case errors.Is(err, core.ErrCommandTimeout):
			d.log.Warn("docker probe timed out", zap.Duration("timeout", d.timeout))
		default:
			// Usually the daemon is not running.
			d.log.Debug("docker unavailable", zap.Error(err), zap.String("stderr", strings.TrimSpace(stderrOf(res))))
		}
		return ContainerReport{}
	}

	report := parseSystemDF(res.Stdout, d.log)
	if report.ReclaimableBytes > report.TotalBytes {
		d.log.Warn("docker reports more reclaimable space than total",
			zap.Int64("total_bytes", report.TotalBytes),
			zap.Int64("reclaimable_bytes", report.ReclaimableBytes))
	}
	return report
}

func stderrOf(res *core.Result) string {
	if res == nil {
		return ""
	}
	return res.Stderr
}

// parseSystemDF reads newline-delimited JSON records. Lines that are not
// valid JSON objects, and records whose sizes do not parse, are skipped.
func parseSystemDF(out string, log *zap.Logger) ContainerReport {
	report := ContainerReport{Available: true, Types: []ContainerUsage{}}

	sc := bufio.NewScanner(strings.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var rec dfRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			log.Debug("skipping malformed docker df record", zap.String("line", line), zap.Error(err))
			continue
		}

		size, okSize := parseSizeField(rec.Size)
		reclaimable, okReclaim := parseSizeField(StripPercent(rec.Reclaimable))
		if !okSize || !okReclaim {
			log.Debug("skipping docker df record with unreadable sizes",
				zap.String("type", rec.Type), zap.String("size", rec.Size), zap.String("reclaimable", rec.Reclaimable))
			continue
		}

		u := ContainerUsage{
			Type:             rec.Type,
			Count:            rec.TotalCount,
			Active:           rec.Active,
			SizeBytes:        size,
			ReclaimableBytes: reclaimable,
		}
		report.Types = append(report.Types, u)
		report.TotalBytes += u.SizeBytes
		report.ReclaimableBytes += u.ReclaimableBytes
	}
	return report
}

// StripPercent removes a trailing parenthetical such as " (48%)".
func StripPercent(s string) string {
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// ParseHumanSize converts a size string such as "8.2GB", "512MB" or "0B"
// into bytes using binary multipliers. Empty or malformed input yields 0.
//
// Units are matched as whole suffixes (TB, GB, MB, KB/kB, B), so "GB" is
// never read as a bare byte count.
func ParseHumanSize(s string) int64 {
	n, _ := parseSizeField(s)
	return n
}

// parseSizeField parses one size column. An empty column is zero; a
// malformed one reports false.
func parseSizeField(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	n, err := units.RAMInBytes(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
