package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"go.uber.org/zap"

	"github.com/lakshaymaurya-felt/diskaudit/internal/config"
	"github.com/lakshaymaurya-felt/diskaudit/internal/core"
)

// errFindTimeout stops a tree walk once its deadline passes.
var errFindTimeout = errors.New("discovery timed out")

// ─── Native discovery ────────────────────────────────────────────────────────

// TreeFinder walks a billy.Filesystem to discover matching entries.
// It uses the same link and mount policy as WalkSizer: symlinks are listed
// but never descended, and directories on another device are skipped.
type TreeFinder struct {
	fs      billy.Filesystem
	timeout time.Duration
	log     *zap.Logger
}

// NewTreeFinder creates a TreeFinder over fsys. A nil fsys means the host
// filesystem.
func NewTreeFinder(fsys billy.Filesystem, timeout time.Duration, log *zap.Logger) *TreeFinder {
	if fsys == nil {
		fsys = osfs.New("/")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TreeFinder{fs: fsys, timeout: timeout, log: log}
}

// treeWalk carries the state of one Find call.
type treeWalk struct {
	fs       billy.Filesystem
	ctx      context.Context
	rule     config.Rule
	rootDev  uint64
	checkDev bool
	seen     map[string]bool
	matches  []Match
}

// Find implements DirectoryFinder.
func (f *TreeFinder) Find(ctx context.Context, root string, rule config.Rule) []Match {
	info, err := f.fs.Lstat(root)
	if err != nil || !info.IsDir() {
		f.log.Debug("discovery root unavailable",
			zap.String("root", root), zap.Stringer("rule", rule.Kind), zap.Error(err))
		return []Match{}
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	rootInfo := entryUsage(info)
	w := &treeWalk{
		fs:       f.fs,
		ctx:      ctx,
		rule:     rule,
		rootDev:  rootInfo.dev,
		checkDev: rootInfo.hasDev,
		seen:     make(map[string]bool),
	}

	if err := w.visit(root, 0); err != nil {
		f.log.Warn("discovery timed out, reporting no matches",
			zap.String("root", root), zap.Stringer("rule", rule.Kind), zap.Duration("timeout", f.timeout))
		return []Match{}
	}

	sort.Slice(w.matches, func(i, j int) bool { return w.matches[i].Path < w.matches[j].Path })
	return w.matches
}

// visit scans dir, which sits at depth; its entries are at depth+1.
func (w *treeWalk) visit(dir string, depth int) error {
	if w.ctx.Err() != nil {
		return errFindTimeout
	}

	entries, err := w.fs.ReadDir(dir)
	if err != nil {
		// Unreadable subtree.
		return nil
	}

	childDepth := depth + 1
	for _, e := range entries {
		p := w.fs.Join(dir, e.Name())
		symlink := e.Mode()&fs.ModeSymlink != 0

		switch w.rule.Kind {
		case config.RuleByName:
			if e.IsDir() && !symlink && e.Name() == w.rule.Name {
				w.matches = append(w.matches, Match{Path: p})
				continue
			}

		case config.RuleByMarker:
			if !e.IsDir() && e.Name() == w.rule.Name && !w.seen[dir] {
				w.seen[dir] = true
				w.matches = append(w.matches, Match{Path: dir})
			}

		case config.RuleByExtensionSize:
			if e.Mode().IsRegular() && hasExtension(e.Name(), w.rule.Extensions) && e.Size() > w.rule.MinSize {
				w.matches = append(w.matches, Match{Path: p, SizeBytes: e.Size()})
			}
		}

		if !e.IsDir() || symlink || childDepth >= w.rule.MaxDepth {
			continue
		}
		if u := entryUsage(e); w.checkDev && u.hasDev && u.dev != w.rootDev {
			continue
		}
		if err := w.visit(p, childDepth); err != nil {
			return err
		}
	}
	return nil
}

// Children implements DirectoryFinder.
func (f *TreeFinder) Children(ctx context.Context, dir string) []string {
	entries, err := f.fs.ReadDir(dir)
	if err != nil {
		f.log.Debug("cannot list children", zap.String("dir", dir), zap.Error(err))
		return []string{}
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if ctx.Err() != nil {
			break
		}
		if e.IsDir() && e.Mode()&fs.ModeSymlink == 0 {
			out = append(out, f.fs.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out
}

// hasExtension matches name against exts, ignoring case.
func hasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	return slices.ContainsFunc(exts, func(e string) bool { return strings.ToLower(e) == ext })
}

// ─── find(1) ─────────────────────────────────────────────────────────────────

// FindFinder discovers entries by running find(1) with -xdev, so it never
// leaves the root's filesystem; find does not follow symlinks by default.
type FindFinder struct {
	runner  core.Runner
	timeout time.Duration
	log     *zap.Logger
}

// NewFindFinder creates a FindFinder that runs find through runner.
func NewFindFinder(runner core.Runner, timeout time.Duration, log *zap.Logger) *FindFinder {
	if log == nil {
		log = zap.NewNop()
	}
	return &FindFinder{runner: runner, timeout: timeout, log: log}
}

// findArgs builds the find(1) argument list for rule under root.
func findArgs(root string, rule config.Rule) []string {
	args := []string{root, "-maxdepth", fmt.Sprint(rule.MaxDepth), "-xdev"}

	switch rule.Kind {
	case config.RuleByName:
		args = append(args, "-type", "d", "-name", rule.Name, "-print", "-prune")
	case config.RuleByMarker:
		args = append(args, "-type", "f", "-name", rule.Name, "-print")
	case config.RuleByExtensionSize:
		args = append(args, "-type", "f", "(")
		for i, ext := range rule.Extensions {
			if i > 0 {
				args = append(args, "-o")
			}
			args = append(args, "-iname", "*"+ext)
		}
		args = append(args, ")", "-size", fmt.Sprintf("+%dc", rule.MinSize), "-print")
	}
	return args
}

// Find implements DirectoryFinder.
func (f *FindFinder) Find(ctx context.Context, root string, rule config.Rule) []Match {
	if info, err := os.Lstat(root); err != nil || !info.IsDir() {
		f.log.Debug("discovery root unavailable",
			zap.String("root", root), zap.Stringer("rule", rule.Kind), zap.Error(err))
		return []Match{}
	}

	lines, ok := f.run(ctx, findArgs(root, rule)...)
	if !ok {
		return []Match{}
	}

	matches := make([]Match, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		switch rule.Kind {
		case config.RuleByName:
			matches = append(matches, Match{Path: line})

		case config.RuleByMarker:
			dir := filepath.Dir(line)
			if !seen[dir] {
				seen[dir] = true
				matches = append(matches, Match{Path: dir})
			}

		case config.RuleByExtensionSize:
			info, err := os.Lstat(line)
			if err != nil || info.Size() <= rule.MinSize {
				continue
			}
			matches = append(matches, Match{Path: line, SizeBytes: info.Size()})
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Path < matches[j].Path })
	return matches
}

// Children implements DirectoryFinder.
func (f *FindFinder) Children(ctx context.Context, dir string) []string {
	if info, err := os.Lstat(dir); err != nil || !info.IsDir() {
		return []string{}
	}
	lines, ok := f.run(ctx, dir, "-mindepth", "1", "-maxdepth", "1", "-type", "d")
	if !ok {
		return []string{}
	}
	sort.Strings(lines)
	return lines
}

// run executes find and returns its non-empty output lines. A non-zero
// exit still yields the lines find printed before hitting an unreadable
// directory.
func (f *FindFinder) run(ctx context.Context, args ...string) ([]string, bool) {
	res, err := f.runner.Run(ctx, f.timeout, "find", args...)
	switch {
	case err == nil:
	case core.IsExitError(err):
		f.log.Debug("find reported errors", zap.Strings("args", args), zap.Error(err))
	case errors.Is(err, core.ErrCommandTimeout):
		f.log.Warn("discovery timed out, reporting no matches",
			zap.Strings("args", args), zap.Duration("timeout", f.timeout))
		return nil, false
	default:
		f.log.Warn("find failed, reporting no matches", zap.Strings("args", args), zap.Error(err))
		return nil, false
	}
	if res == nil {
		return nil, false
	}

	var lines []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, true
}
