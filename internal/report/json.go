package report

import (
	"encoding/json"
	"io"
	"math"
	"time"

	"github.com/lakshaymaurya-felt/diskaudit/internal/config"
	"github.com/lakshaymaurya-felt/diskaudit/internal/core"
	"github.com/lakshaymaurya-felt/diskaudit/internal/recommend"
	"github.com/lakshaymaurya-felt/diskaudit/internal/scan"
)

// Output is the machine-readable report. Sizes are in GB.
type Output struct {
	ScanPath        string               `json:"scan_path"`
	Platform        string               `json:"platform,omitempty"`
	ScannedAt       time.Time            `json:"scanned_at"`
	DurationSeconds float64              `json:"duration_seconds"`
	Disk            DiskJSON             `json:"disk"`
	Categories      CategoriesJSON       `json:"categories"`
	Recommendations []RecommendationJSON `json:"recommendations"`
}

// DiskJSON is the disk overview.
type DiskJSON struct {
	TotalGB float64 `json:"total_gb"`
	UsedGB  float64 `json:"used_gb"`
	FreeGB  float64 `json:"free_gb"`
	UsedPct float64 `json:"used_pct"`
}

// DockerJSON is the container engine summary.
type DockerJSON struct {
	Available     bool    `json:"available"`
	TotalGB       float64 `json:"total_gb"`
	ReclaimableGB float64 `json:"reclaimable_gb"`
}

// CountedJSON is a discovered category: its total and how many entries
// were found.
type CountedJSON struct {
	TotalGB float64 `json:"total_gb"`
	Count   int     `json:"count"`
}

// CategoriesJSON holds one field per tracked category.
type CategoriesJSON struct {
	Docker       DockerJSON  `json:"docker"`
	NodeModules  CountedJSON `json:"node_modules"`
	PythonVenv   CountedJSON `json:"python_venv"`
	MLModels     CountedJSON `json:"ml_models"`
	CachesGB     float64     `json:"caches_gb"`
	XcodeDevGB   float64     `json:"xcode_dev_gb"`
	LogsGB       float64     `json:"logs_gb"`
	TrashGB      float64     `json:"trash_gb"`
	DownloadsGB  float64     `json:"downloads_gb"`
	ProjectsGB   float64     `json:"projects_gb"`
	AppSupportGB float64     `json:"app_support_gb"`
}

// RecommendationJSON is one recommendation with its size in GB.
type RecommendationJSON struct {
	Category  config.CategoryID `json:"category"`
	Label     string            `json:"label"`
	SizeGB    float64           `json:"size_gb"`
	SizeBytes int64             `json:"size_bytes"`
	Action    string            `json:"action"`
	Command   string            `json:"command"`
	Safe      bool              `json:"safe"`
}

// BuildJSON flattens a snapshot and its recommendations.
func BuildJSON(snap scan.Snapshot, recs []recommend.Recommendation, platform string) Output {
	d := snap.Disk()
	c := snap.Container()

	counted := func(id config.CategoryID) CountedJSON {
		r := snap.Category(id)
		return CountedJSON{TotalGB: gb(r.TotalBytes), Count: len(r.Items)}
	}
	total := func(id config.CategoryID) float64 { return gb(snap.Total(id)) }

	out := Output{
		ScanPath:        snap.Root(),
		Platform:        platform,
		ScannedAt:       snap.StartedAt().UTC(),
		DurationSeconds: round(snap.Duration().Seconds(), 2),
		Disk: DiskJSON{
			TotalGB: gb(int64(d.TotalBytes)),
			UsedGB:  gb(int64(d.UsedBytes)),
			FreeGB:  gb(int64(d.FreeBytes)),
			UsedPct: round(d.UsedPercent, 1),
		},
		Categories: CategoriesJSON{
			Docker: DockerJSON{
				Available:     c.Available,
				TotalGB:       gb(c.TotalBytes),
				ReclaimableGB: gb(c.ReclaimableBytes),
			},
			NodeModules:  counted(config.CategoryNodeModules),
			PythonVenv:   counted(config.CategoryPythonVenv),
			MLModels:     counted(config.CategoryMLModels),
			CachesGB:     total(config.CategoryCaches),
			XcodeDevGB:   total(config.CategoryXcodeDev),
			LogsGB:       total(config.CategoryLogs),
			TrashGB:      total(config.CategoryTrash),
			DownloadsGB:  total(config.CategoryDownloads),
			ProjectsGB:   total(config.CategoryProjects),
			AppSupportGB: total(config.CategoryAppSupport),
		},
		Recommendations: make([]RecommendationJSON, 0, len(recs)),
	}

	for _, r := range recs {
		out.Recommendations = append(out.Recommendations, RecommendationJSON{
			Category:  r.Category,
			Label:     r.Label,
			SizeGB:    gb(r.SizeBytes),
			SizeBytes: r.SizeBytes,
			Action:    r.Action,
			Command:   r.Command,
			Safe:      r.Safe,
		})
	}
	return out
}

// WriteJSON writes out as indented JSON.
func WriteJSON(w io.Writer, out Output) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// gb converts to GB rounded to three decimals.
func gb(bytes int64) float64 {
	return round(core.ToGB(bytes), 3)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
