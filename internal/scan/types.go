// Package scan measures disk usage per category and assembles the results
// into one immutable Snapshot.
//
// Every probe in this package is soft-failing: a missing path, a permission
// error, an absent tool, or a timeout yields a zero or empty result and a
// log entry, never an error. Only an invalid scan root or a cancelled
// context is reported to the caller.
package scan

import (
	"slices"
	"sort"
	"time"

	"github.com/lakshaymaurya-felt/diskaudit/internal/config"
)

// Kind tags the shape of a CategoryResult.
type Kind int

const (
	// KindPaths results are backed by filesystem paths; items are paths.
	KindPaths Kind = iota

	// KindSubsystem results come from an external subsystem; items are
	// its per-resource-type breakdown and the total is not their sum
	// by construction.
	KindSubsystem
)

// CategoryItem is one measured entry inside a category.
type CategoryItem struct {
	Path      string `json:"path,omitempty"`
	Label     string `json:"label"`
	SizeBytes int64  `json:"size_bytes"`
}

// CategoryResult is the aggregate for one category. The zero value is a
// valid empty result.
type CategoryResult struct {
	ID         config.CategoryID `json:"id"`
	Kind       Kind              `json:"kind"`
	TotalBytes int64             `json:"total_bytes"`
	Items      []CategoryItem    `json:"items"`
}

// clone returns a deep copy so callers cannot reach into a Snapshot.
func (r CategoryResult) clone() CategoryResult {
	r.Items = slices.Clone(r.Items)
	if r.Items == nil {
		r.Items = []CategoryItem{}
	}
	return r
}

// sortItems orders items by size descending, then by label for stability.
func sortItems(items []CategoryItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SizeBytes != items[j].SizeBytes {
			return items[i].SizeBytes > items[j].SizeBytes
		}
		return items[i].Label < items[j].Label
	})
}

// sumItems totals item sizes.
func sumItems(items []CategoryItem) int64 {
	var total int64
	for _, it := range items {
		total += it.SizeBytes
	}
	return total
}

// DiskOverview is a point-in-time capacity reading for the scanned volume.
type DiskOverview struct {
	TotalBytes  uint64  `json:"total_bytes"`
	UsedBytes   uint64  `json:"used_bytes"`
	FreeBytes   uint64  `json:"free_bytes"`
	UsedPercent float64 `json:"used_pct"`
}

// NewDiskOverview builds an overview and derives the used percentage,
// which is 0 when total is 0.
func NewDiskOverview(total, used, free uint64) DiskOverview {
	d := DiskOverview{TotalBytes: total, UsedBytes: used, FreeBytes: free}
	if total > 0 {
		d.UsedPercent = float64(used) / float64(total) * 100
	}
	return d
}

// ContainerUsage is one resource type reported by the container engine.
type ContainerUsage struct {
	Type             string `json:"type"`
	Count            string `json:"count,omitempty"`
	Active           string `json:"active,omitempty"`
	SizeBytes        int64  `json:"size_bytes"`
	ReclaimableBytes int64  `json:"reclaimable_bytes"`
}

// ContainerReport summarizes container engine usage. Available is false
// when the engine is not installed, not running, or did not answer in
// time; all sizes are then zero.
type ContainerReport struct {
	Available        bool             `json:"available"`
	TotalBytes       int64            `json:"total_bytes"`
	ReclaimableBytes int64            `json:"reclaimable_bytes"`
	Types            []ContainerUsage `json:"types,omitempty"`
}

// Savings returns the space a prune is expected to free: the reclaimable
// figure when known, otherwise the total.
func (c ContainerReport) Savings() int64 {
	if !c.Available {
		return 0
	}
	if c.ReclaimableBytes > 0 {
		return c.ReclaimableBytes
	}
	return c.TotalBytes
}

// Snapshot is the immutable result of one scan. All accessors return copies.
type Snapshot struct {
	root       string
	startedAt  time.Time
	duration   time.Duration
	disk       DiskOverview
	container  ContainerReport
	categories map[config.CategoryID]CategoryResult
}

// NewSnapshot assembles a snapshot. Every known category ID is present in
// the result; categories missing from results get their zero value.
// Exposed for collaborators and tests that need a snapshot without a scan.
func NewSnapshot(root string, disk DiskOverview, container ContainerReport, results []CategoryResult, startedAt time.Time, duration time.Duration) Snapshot {
	cats := make(map[config.CategoryID]CategoryResult, len(AllCategories))
	for _, id := range AllCategories {
		kind := KindPaths
		if id == config.CategoryDocker {
			kind = KindSubsystem
		}
		cats[id] = CategoryResult{ID: id, Kind: kind, Items: []CategoryItem{}}
	}
	for _, r := range results {
		cats[r.ID] = r.clone()
	}

	container.Types = slices.Clone(container.Types)
	return Snapshot{
		root:       root,
		startedAt:  startedAt,
		duration:   duration,
		disk:       disk,
		container:  container,
		categories: cats,
	}
}

// AllCategories lists every category a snapshot carries, in display order.
var AllCategories = []config.CategoryID{
	config.CategoryDocker,
	config.CategoryNodeModules,
	config.CategoryPythonVenv,
	config.CategoryMLModels,
	config.CategoryCaches,
	config.CategoryXcodeDev,
	config.CategoryLogs,
	config.CategoryTrash,
	config.CategoryDownloads,
	config.CategoryProjects,
	config.CategoryAppSupport,
}

// Root returns the scanned root path.
func (s Snapshot) Root() string { return s.root }

// StartedAt returns when the scan began.
func (s Snapshot) StartedAt() time.Time { return s.startedAt }

// Duration returns how long the scan took.
func (s Snapshot) Duration() time.Duration { return s.duration }

// Disk returns the disk overview.
func (s Snapshot) Disk() DiskOverview { return s.disk }

// Container returns the container engine report.
func (s Snapshot) Container() ContainerReport {
	c := s.container
	c.Types = slices.Clone(c.Types)
	return c
}

// Category returns the result for id. Unknown IDs yield a zero result.
func (s Snapshot) Category(id config.CategoryID) CategoryResult {
	r, ok := s.categories[id]
	if !ok {
		return CategoryResult{ID: id, Items: []CategoryItem{}}
	}
	return r.clone()
}

// Total returns the total bytes for id.
func (s Snapshot) Total(id config.CategoryID) int64 {
	return s.categories[id].TotalBytes
}

// Categories returns all results in display order.
func (s Snapshot) Categories() []CategoryResult {
	out := make([]CategoryResult, 0, len(s.categories))
	for _, id := range AllCategories {
		out = append(out, s.Category(id))
	}
	// Categories outside AllCategories are not produced by the scanner,
	// but keep them visible if a caller built such a snapshot.
	ids := make([]config.CategoryID, 0, len(s.categories))
	for id := range s.categories {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if !slices.Contains(AllCategories, id) {
			out = append(out, s.Category(id))
		}
	}
	return out
}
