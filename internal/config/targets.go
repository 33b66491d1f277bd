package config

import (
	"fmt"
	"runtime"
)

// CategoryID identifies one tracked class of disk usage.
type CategoryID string

const (
	CategoryDocker      CategoryID = "docker"
	CategoryNodeModules CategoryID = "node_modules"
	CategoryPythonVenv  CategoryID = "python_venv"
	CategoryMLModels    CategoryID = "ml_models"
	CategoryCaches      CategoryID = "caches"
	CategoryXcodeDev    CategoryID = "xcode_dev"
	CategoryLogs        CategoryID = "logs"
	CategoryTrash       CategoryID = "trash"
	CategoryDownloads   CategoryID = "downloads"
	CategoryProjects    CategoryID = "projects"
	CategoryAppSupport  CategoryID = "app_support"
)

// Source says where a category's numbers come from.
type Source int

const (
	// SourceFixedPaths sums the size of a fixed list of well-known paths.
	SourceFixedPaths Source = iota

	// SourceDiscovery finds matching entries under the scan root.
	SourceDiscovery

	// SourceTopChildren ranks the immediate subdirectories of one path.
	SourceTopChildren

	// SourceSubsystem queries the container engine.
	SourceSubsystem
)

// RuleKind is the identification rule used by path discovery.
type RuleKind int

const (
	// RuleByName matches directories with an exact name and does not descend into them.
	RuleByName RuleKind = iota

	// RuleByMarker matches directories that contain a marker file.
	RuleByMarker

	// RuleByExtensionSize matches files by extension whose size exceeds MinSize.
	RuleByExtensionSize
)

// String returns the rule name used in log fields.
func (k RuleKind) String() string {
	switch k {
	case RuleByName:
		return "by-name"
	case RuleByMarker:
		return "by-marker"
	case RuleByExtensionSize:
		return "by-extension-size"
	default:
		return "unknown"
	}
}

// Rule describes what path discovery looks for.
type Rule struct {
	Kind RuleKind

	// Name is the directory name (RuleByName) or marker file name (RuleByMarker).
	Name string

	// Extensions are matched case-insensitively, including the leading dot.
	Extensions []string

	// MinSize is a strict lower bound in bytes for RuleByExtensionSize.
	MinSize int64

	// MaxDepth bounds traversal; the root is depth 0.
	MaxDepth int
}

// Tier is the safety rating shown next to a category.
type Tier int

const (
	TierKeep Tier = iota
	TierReview
	TierSafe
)

// String returns the label printed in the report.
func (t Tier) String() string {
	switch t {
	case TierSafe:
		return "SAFE"
	case TierReview:
		return "REVIEW"
	default:
		return "KEEP"
	}
}

// Category describes one tracked class of disk usage and how to reclaim it.
type Category struct {
	// ID is the unique identifier for this category.
	ID CategoryID

	// Name and Emoji are shown in the category table.
	Name  string
	Emoji string

	// Description is a human-readable description.
	Description string

	// Source selects the aggregation strategy.
	Source Source

	// Paths are the fixed paths (SourceFixedPaths) or the single parent
	// directory (SourceTopChildren).
	Paths []string

	// Rule is set for SourceDiscovery.
	Rule Rule

	// Safe marks cleanup as not needing manual review.
	Safe bool

	// CanDelete marks data that may be removed after review.
	CanDelete bool

	// Recommend controls whether the recommender emits an entry.
	Recommend bool

	// Label, Action and Command make up the recommendation text.
	Label   string
	Action  string
	Command string

	// Hint is the short advice shown in the category table.
	Hint string
}

// Tier returns the safety rating derived from Safe and CanDelete.
func (c Category) Tier() Tier {
	switch {
	case c.Safe:
		return TierSafe
	case c.CanDelete:
		return TierReview
	default:
		return TierKeep
	}
}

// Categories returns every tracked category with paths resolved against p
// and discovery limits taken from cfg. The order is the display order of the
// report before sorting by size.
func Categories(p Paths, cfg ScanConfig) []Category {
	mac := runtime.GOOS == "darwin"

	cacheCmd := fmt.Sprintf("rm -rf %s/* && npm cache clean --force && pip cache purge", p.Tilde(p.Caches))
	if mac {
		cacheCmd += " && brew cleanup"
	}

	devName, devDesc, devAction, devHint := "Dev Tools", "Android SDKs, emulator images, and developer tool data",
		"Remove unused SDK platforms and emulator images", "Android Studio > SDK Manager"
	devCmd := "# Remove unused SDKs and AVDs via Android Studio > SDK Manager"
	devLabel := "Clean SDKs and emulator images"
	if mac {
		devName, devDesc = "Xcode/Dev", "Xcode derived data, iOS simulators, and developer tools"
		devAction, devHint = "Delete DerivedData; remove unused simulators via Xcode", "Xcode > Settings > Platforms"
		devCmd = "rm -rf " + p.Tilde(p.Developer) + "/Xcode/DerivedData"
		devLabel = "Clean Xcode derived data and simulators"
	}

	trashHint := "rm -rf " + p.Tilde(p.Trash) + "/*"
	if mac {
		trashHint = "Empty Trash in Finder"
	}

	return []Category{
		// ── Container engine ────────────────────────────────────
		{
			ID:          CategoryDocker,
			Name:        "Docker",
			Emoji:       "🐳",
			Description: "Docker images, containers, volumes, and build cache",
			Source:      SourceSubsystem,
			Safe:        true,
			CanDelete:   true,
			Recommend:   true,
			Label:       "Prune Docker",
			Action:      "Remove unused Docker images, containers, and build cache",
			Command:     "docker system prune -a",
			Hint:        "docker system prune -a",
		},

		// ── Discovered under the scan root ──────────────────────
		{
			ID:          CategoryNodeModules,
			Name:        "node_modules",
			Emoji:       "📦",
			Description: "Node.js dependency directories from JavaScript/TypeScript projects",
			Source:      SourceDiscovery,
			Rule:        Rule{Kind: RuleByName, Name: "node_modules", MaxDepth: cfg.NodeModulesDepth},
			Safe:        true,
			CanDelete:   true,
			Recommend:   true,
			Label:       "Delete node_modules in old projects",
			Action:      "Remove node_modules directories; restore with 'npm install'",
			Command:     "find " + p.Tilde(p.Projects) + " -name node_modules -type d -prune -exec rm -rf {} +",
			Hint:        "find & delete, restore with npm install",
		},
		{
			ID:          CategoryPythonVenv,
			Name:        "Python venvs",
			Emoji:       "🐍",
			Description: "Python virtual environments (venv, virtualenv, conda envs)",
			Source:      SourceDiscovery,
			Rule:        Rule{Kind: RuleByMarker, Name: "pyvenv.cfg", MaxDepth: cfg.VenvDepth},
			Safe:        true,
			CanDelete:   true,
			Recommend:   true,
			Label:       "Remove unused Python virtual environments",
			Action:      "Delete venv directories; recreate with 'python -m venv'",
			Command:     "# Manually identify and delete: rm -rf <venv_path>",
			Hint:        "remove unused venvs",
		},
		{
			ID:    CategoryMLModels,
			Name:  "ML Models",
			Emoji: "🤖",
			Description: "Machine learning model weights and checkpoints " +
				"(.pt, .pkl, .h5, .ckpt, .safetensors, .bin)",
			Source: SourceDiscovery,
			Rule: Rule{
				Kind:       RuleByExtensionSize,
				Extensions: cfg.ModelExtensions,
				MinSize:    cfg.ModelMinSize,
				MaxDepth:   cfg.ModelDepth,
			},
			Recommend: true,
			Label:     "Review large ML model files",
			Action:    "Check and delete unused model weights/checkpoints",
			Command:   "# Manually review model files before deleting",
			Hint:      "review model files before deleting",
		},

		// ── Fixed well-known paths ──────────────────────────────
		{
			ID:          CategoryCaches,
			Name:        "Caches",
			Emoji:       "💾",
			Description: "Application caches, npm cache, pip cache, Homebrew cache",
			Source:      SourceFixedPaths,
			Paths: []string{
				p.Caches,
				p.NpmCache,
			},
			Safe:      true,
			CanDelete: true,
			Recommend: true,
			Label:     "Clear all caches",
			Action:    "Delete " + p.Tilde(p.Caches) + " and npm/pip/Homebrew caches",
			Command:   cacheCmd,
			Hint:      "rm -rf " + p.Tilde(p.Caches) + "/*",
		},
		{
			ID:          CategoryXcodeDev,
			Name:        devName,
			Emoji:       "🛠",
			Description: devDesc,
			Source:      SourceFixedPaths,
			Paths:       []string{p.Developer},
			Recommend:   true,
			Label:       devLabel,
			Action:      devAction,
			Command:     devCmd,
			Hint:        devHint,
		},
		{
			ID:          CategoryLogs,
			Name:        "Logs",
			Emoji:       "📋",
			Description: "Application log files",
			Source:      SourceFixedPaths,
			Paths:       []string{p.Logs},
			Safe:        true,
			CanDelete:   true,
			Recommend:   true,
			Label:       "Clear application logs",
			Action:      "Delete old log files in " + p.Tilde(p.Logs),
			Command:     "rm -rf " + p.Tilde(p.Logs) + "/*",
			Hint:        "rm -rf " + p.Tilde(p.Logs) + "/*",
		},
		{
			ID:          CategoryTrash,
			Name:        "Trash",
			Emoji:       "🗑",
			Description: "Files in the Trash",
			Source:      SourceFixedPaths,
			Paths:       []string{p.Trash},
			Safe:        true,
			CanDelete:   true,
			Recommend:   true,
			Label:       "Empty the Trash",
			Action:      "Permanently delete files in " + p.Tilde(p.Trash),
			Command:     "rm -rf " + p.Tilde(p.Trash) + "/*",
			Hint:        trashHint,
		},
		{
			ID:          CategoryDownloads,
			Name:        "Downloads",
			Emoji:       "⬇️",
			Description: "Files in the Downloads folder",
			Source:      SourceFixedPaths,
			Paths:       []string{p.Downloads},
			Recommend:   true,
			Label:       "Clean up Downloads folder",
			Action:      "Review and delete files in " + p.Tilde(p.Downloads),
			Command:     "# Manually review " + p.Tilde(p.Downloads),
			Hint:        "review " + p.Tilde(p.Downloads) + " manually",
		},
		{
			ID:          CategoryProjects,
			Name:        "Projects",
			Emoji:       "🗂",
			Description: fmt.Sprintf("Development projects (top %d largest)", cfg.TopProjects),
			Source:      SourceTopChildren,
			Paths:       []string{p.Projects},
			Recommend:   true,
			Label:       "Archive or delete old projects",
			Action:      "Review " + p.Tilde(p.Projects) + " and remove projects no longer in use",
			Command:     "# Manually review " + p.Tilde(p.Projects) + " subdirectories",
			Hint:        "archive or delete old projects",
		},
		{
			ID:          CategoryAppSupport,
			Name:        "App Support",
			Emoji:       "🔧",
			Description: "Application support data and settings",
			Source:      SourceFixedPaths,
			Paths:       []string{p.AppSupport},
			Label:       "Review application support data",
			Action:      "Remove data left behind by uninstalled applications",
			Command:     "# Manually review " + p.Tilde(p.AppSupport),
			Hint:        "review uninstalled app data",
		},
	}
}

// CategoryByID returns the category with the given ID from list.
func CategoryByID(list []Category, id CategoryID) (Category, bool) {
	for _, c := range list {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
