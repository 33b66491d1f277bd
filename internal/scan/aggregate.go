package scan

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/lakshaymaurya-felt/diskaudit/internal/config"
)

// ─── Fixed paths ─────────────────────────────────────────────────────────────

// aggregateFixed sums the size of each configured path. Each path that
// holds any data is listed as its own item.
func aggregateFixed(ctx context.Context, sizer DirectorySizeSource, cat config.Category) CategoryResult {
	res := CategoryResult{ID: cat.ID, Kind: KindPaths, Items: []CategoryItem{}}

	for _, p := range outermostPaths(cat.Paths) {
		size := sizer.Size(ctx, p)
		if size <= 0 {
			continue
		}
		res.Items = append(res.Items, CategoryItem{Path: p, Label: filepath.Base(p), SizeBytes: size})
	}

	sortItems(res.Items)
	res.TotalBytes = sumItems(res.Items)
	return res
}

// outermostPaths cleans paths and drops empty entries, duplicates, and any
// path nested inside another entry, so no byte is measured twice.
func outermostPaths(paths []string) []string {
	cleaned := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		cleaned = append(cleaned, filepath.Clean(p))
	}

	out := make([]string, 0, len(cleaned))
	for i, p := range cleaned {
		keep := true
		for j, q := range cleaned {
			if i == j {
				continue
			}
			if (p == q && j < i) || isWithin(p, q) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, p)
		}
	}
	return out
}

// isWithin reports whether p lies strictly below dir.
func isWithin(p, dir string) bool {
	if dir == string(filepath.Separator) {
		return p != dir && strings.HasPrefix(p, dir)
	}
	return strings.HasPrefix(p, dir+string(filepath.Separator))
}

// ─── Discovery ───────────────────────────────────────────────────────────────

// aggregateDiscovered finds matches under root and measures each one. Files
// found by extension and size carry their own size and are not re-probed.
func aggregateDiscovered(ctx context.Context, finder DirectoryFinder, sizer DirectorySizeSource, root string, cat config.Category) CategoryResult {
	res := CategoryResult{ID: cat.ID, Kind: KindPaths, Items: []CategoryItem{}}

	for _, m := range finder.Find(ctx, root, cat.Rule) {
		size := m.SizeBytes
		if cat.Rule.Kind != config.RuleByExtensionSize {
			size = sizer.Size(ctx, m.Path)
		}
		res.Items = append(res.Items, CategoryItem{
			Path:      m.Path,
			Label:     relativeLabel(root, m.Path),
			SizeBytes: size,
		})
	}

	sortItems(res.Items)
	res.TotalBytes = sumItems(res.Items)
	return res
}

// relativeLabel names path relative to root when it lies below it.
func relativeLabel(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// ─── Top children ────────────────────────────────────────────────────────────

// aggregateTopChildren measures every immediate subdirectory of the
// category's directory and keeps the n largest.
func aggregateTopChildren(ctx context.Context, finder DirectoryFinder, sizer DirectorySizeSource, cat config.Category, n int) CategoryResult {
	res := CategoryResult{ID: cat.ID, Kind: KindPaths, Items: []CategoryItem{}}
	if len(cat.Paths) == 0 || n <= 0 {
		return res
	}

	for _, child := range finder.Children(ctx, cat.Paths[0]) {
		res.Items = append(res.Items, CategoryItem{
			Path:      child,
			Label:     filepath.Base(child),
			SizeBytes: sizer.Size(ctx, child),
		})
	}

	sortItems(res.Items)
	if len(res.Items) > n {
		res.Items = res.Items[:n]
	}
	res.TotalBytes = sumItems(res.Items)
	return res
}

// ─── Subsystem ───────────────────────────────────────────────────────────────

// subsystemResult turns a container report into the docker category. Items
// are the per-type breakdown; the total is the engine's own figure.
func subsystemResult(id config.CategoryID, report ContainerReport) CategoryResult {
	res := CategoryResult{ID: id, Kind: KindSubsystem, Items: []CategoryItem{}}
	if !report.Available {
		return res
	}

	for _, t := range report.Types {
		res.Items = append(res.Items, CategoryItem{Label: t.Type, SizeBytes: t.SizeBytes})
	}
	sortItems(res.Items)
	res.TotalBytes = report.TotalBytes
	return res
}
