package scan

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"

	"github.com/lakshaymaurya-felt/diskaudit/internal/core"
)

// ─── Native walk ─────────────────────────────────────────────────────────────

// WalkSizer measures paths with a parallel in-process walk.
//
// Symlinks are never followed, the walk never crosses onto another
// filesystem, and a file with several hard links is counted once per probe.
// DuSizer applies the same policy through du -x.
type WalkSizer struct {
	timeout time.Duration
	log     *zap.Logger
}

// NewWalkSizer creates a WalkSizer whose probes give up after timeout.
func NewWalkSizer(timeout time.Duration, log *zap.Logger) *WalkSizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &WalkSizer{timeout: timeout, log: log}
}

// Size implements DirectorySizeSource.
func (w *WalkSizer) Size(ctx context.Context, path string) int64 {
	// The walk reports the root under this exact spelling.
	path = filepath.Clean(path)

	root, isDir, err := rootUsage(path)
	if err != nil {
		w.log.Debug("size probe: path unavailable", zap.String("path", path), zap.Error(err))
		return 0
	}
	if !isDir {
		return root.bytes
	}

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	var (
		total   atomic.Int64
		skipped atomic.Int64
		seen    sync.Map
	)
	total.Add(root.bytes)

	conf := &fastwalk.Config{Follow: false}
	walkErr := fastwalk.Walk(conf, path, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			// Permission denied or vanished entry: skip, don't fail.
			skipped.Add(1)
			return nil
		}
		if p == path {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			skipped.Add(1)
			return nil
		}

		u := entryUsage(info)
		if d.IsDir() && root.hasDev && u.hasDev && u.dev != root.dev {
			return fs.SkipDir
		}
		if u.linked {
			if _, dup := seen.LoadOrStore(u.link, struct{}{}); dup {
				return nil
			}
		}

		total.Add(u.bytes)
		return nil
	})

	if walkErr != nil {
		if errors.Is(walkErr, context.DeadlineExceeded) {
			w.log.Warn("size probe timed out, reporting 0",
				zap.String("path", path), zap.Duration("timeout", w.timeout))
		} else {
			w.log.Warn("size probe failed, reporting 0", zap.String("path", path), zap.Error(walkErr))
		}
		return 0
	}

	if n := skipped.Load(); n > 0 {
		w.log.Debug("size probe skipped unreadable entries",
			zap.String("path", path), zap.Int64("skipped", n))
	}
	return total.Load()
}

// ─── du ──────────────────────────────────────────────────────────────────────

// DuSizer measures paths with `du -skx`.
type DuSizer struct {
	runner  core.Runner
	timeout time.Duration
	log     *zap.Logger
}

// NewDuSizer creates a DuSizer that runs du through runner.
func NewDuSizer(runner core.Runner, timeout time.Duration, log *zap.Logger) *DuSizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &DuSizer{runner: runner, timeout: timeout, log: log}
}

// Size implements DirectorySizeSource.
func (s *DuSizer) Size(ctx context.Context, path string) int64 {
	if _, err := os.Lstat(path); err != nil {
		s.log.Debug("size probe: path unavailable", zap.String("path", path), zap.Error(err))
		return 0
	}

	res, err := s.runner.Run(ctx, s.timeout, "du", "-skx", path)
	switch {
	case err == nil:
	case core.IsExitError(err):
		// du exits 1 when part of the tree is unreadable; the total it
		// printed for the readable part is still usable.
		s.log.Debug("du reported errors", zap.String("path", path), zap.Error(err))
	case errors.Is(err, core.ErrCommandTimeout):
		s.log.Warn("size probe timed out, reporting 0",
			zap.String("path", path), zap.Duration("timeout", s.timeout))
		return 0
	default:
		s.log.Warn("size probe failed, reporting 0", zap.String("path", path), zap.Error(err))
		return 0
	}
	if res == nil {
		return 0
	}

	kb, ok := parseDuOutput(res.Stdout)
	if !ok {
		s.log.Debug("unparseable du output", zap.String("path", path), zap.String("stdout", res.Stdout))
		return 0
	}
	return kb * core.KiB
}

// parseDuOutput reads the KiB figure from the last "<size>\t<path>" line
// of du -s output.
func parseDuOutput(out string) (int64, bool) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	fields := strings.Fields(lines[len(lines)-1])
	if len(fields) == 0 {
		return 0, false
	}
	kb, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || kb < 0 {
		return 0, false
	}
	return kb, true
}
