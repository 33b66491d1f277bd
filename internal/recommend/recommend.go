// Package recommend turns a scan snapshot into cleanup recommendations
// ordered by the space they would free.
package recommend

import (
	"sort"

	"github.com/lakshaymaurya-felt/diskaudit/internal/config"
	"github.com/lakshaymaurya-felt/diskaudit/internal/scan"
)

// Recommendation is one suggested cleanup.
type Recommendation struct {
	Category  config.CategoryID `json:"category"`
	Label     string            `json:"label"`
	SizeBytes int64             `json:"size_bytes"`
	Safe      bool              `json:"safe"`
	Action    string            `json:"action"`
	Command   string            `json:"command"`
}

// Generate returns a recommendation for every recommendable category with
// a strictly positive size, largest first. The container engine is
// recommended only when it is available; its size is the expected savings
// (reclaimable, falling back to total).
func Generate(snap scan.Snapshot, cats []config.Category) []Recommendation {
	recs := make([]Recommendation, 0, len(cats))

	for _, cat := range cats {
		if !cat.Recommend {
			continue
		}

		var size int64
		if cat.Source == config.SourceSubsystem {
			size = snap.Container().Savings()
		} else {
			size = snap.Total(cat.ID)
		}
		if size <= 0 {
			continue
		}

		recs = append(recs, Recommendation{
			Category:  cat.ID,
			Label:     cat.Label,
			SizeBytes: size,
			Safe:      cat.Safe,
			Action:    cat.Action,
			Command:   cat.Command,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].SizeBytes > recs[j].SizeBytes })
	return recs
}

// Savings splits the total of recs into what is safe to delete now and
// what needs review first.
type Savings struct {
	SafeBytes   int64
	ReviewBytes int64
}

// Total returns safe plus review savings.
func (s Savings) Total() int64 { return s.SafeBytes + s.ReviewBytes }

// Summarize adds up recs.
func Summarize(recs []Recommendation) Savings {
	var s Savings
	for _, r := range recs {
		if r.Safe {
			s.SafeBytes += r.SizeBytes
		} else {
			s.ReviewBytes += r.SizeBytes
		}
	}
	return s
}

// SafeOnly returns the recommendations that need no review, in order.
func SafeOnly(recs []Recommendation) []Recommendation {
	out := make([]Recommendation, 0, len(recs))
	for _, r := range recs {
		if r.Safe {
			out = append(out, r)
		}
	}
	return out
}
