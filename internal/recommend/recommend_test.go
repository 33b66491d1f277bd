package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/diskaudit/internal/config"
	"github.com/lakshaymaurya-felt/diskaudit/internal/scan"
)

func categories() []config.Category {
	return config.Categories(config.ResolvePaths("/home/ada", "linux"), config.DefaultScanConfig())
}

func snapshot(container scan.ContainerReport, totals map[config.CategoryID]int64) scan.Snapshot {
	var results []scan.CategoryResult
	for id, total := range totals {
		results = append(results, scan.CategoryResult{ID: id, TotalBytes: total})
	}
	return scan.NewSnapshot("/home/ada", scan.DiskOverview{}, container, results, time.Now(), 0)
}

func TestGenerateSkipsEmptyCategories(t *testing.T) {
	snap := snapshot(scan.ContainerReport{}, map[config.CategoryID]int64{
		config.CategoryCaches: 0,
		config.CategoryTrash:  10,
	})

	recs := Generate(snap, categories())
	require.Len(t, recs, 1)
	assert.Equal(t, config.CategoryTrash, recs[0].Category)
	assert.Equal(t, "Empty the Trash", recs[0].Label)
	assert.True(t, recs[0].Safe)
}

func TestGenerateSortsBySizeDescending(t *testing.T) {
	snap := snapshot(scan.ContainerReport{Available: true, TotalBytes: 500, ReclaimableBytes: 250},
		map[config.CategoryID]int64{
			config.CategoryCaches:      300,
			config.CategoryNodeModules: 900,
			config.CategoryDownloads:   300,
			config.CategoryMLModels:    50,
			config.CategoryLogs:        1,
		})

	recs := Generate(snap, categories())
	require.Len(t, recs, 6)
	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].SizeBytes, recs[i].SizeBytes)
	}
	assert.Equal(t, config.CategoryNodeModules, recs[0].Category)
}

func TestGenerateDockerSavings(t *testing.T) {
	tests := []struct {
		name   string
		report scan.ContainerReport
		want   int64
	}{
		{"reclaimable", scan.ContainerReport{Available: true, TotalBytes: 1000, ReclaimableBytes: 400}, 400},
		{"falls back to total", scan.ContainerReport{Available: true, TotalBytes: 1000}, 1000},
		{"unavailable", scan.ContainerReport{TotalBytes: 1000, ReclaimableBytes: 400}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := Generate(snapshot(tt.report, nil), categories())
			if tt.want == 0 {
				assert.Empty(t, recs)
				return
			}
			require.Len(t, recs, 1)
			assert.Equal(t, config.CategoryDocker, recs[0].Category)
			assert.Equal(t, tt.want, recs[0].SizeBytes)
			assert.Equal(t, "docker system prune -a", recs[0].Command)
		})
	}
}

func TestGenerateNeverRecommendsAppSupport(t *testing.T) {
	snap := snapshot(scan.ContainerReport{}, map[config.CategoryID]int64{config.CategoryAppSupport: 1 << 30})
	assert.Empty(t, Generate(snap, categories()))
}

func TestSummarize(t *testing.T) {
	recs := []Recommendation{
		{SizeBytes: 100, Safe: true},
		{SizeBytes: 50, Safe: false},
		{SizeBytes: 25, Safe: true},
	}
	s := Summarize(recs)
	assert.Equal(t, int64(125), s.SafeBytes)
	assert.Equal(t, int64(50), s.ReviewBytes)
	assert.Equal(t, int64(175), s.Total())
	assert.Len(t, SafeOnly(recs), 2)
}

func TestEmptyTreeScanYieldsNoRecommendations(t *testing.T) {
	home := t.TempDir()
	paths := config.ResolvePaths(home, "darwin")
	cfg := config.DefaultScanConfig()

	s := scan.New(cfg, paths,
		scan.WithContainers(unavailable{}),
		scan.WithDisk(noDisk{}),
	)
	snap, err := s.Scan(context.Background(), home)
	require.NoError(t, err)

	for _, r := range snap.Categories() {
		assert.Zero(t, r.TotalBytes, r.ID)
	}
	assert.Empty(t, Generate(snap, config.Categories(paths, cfg)))
}

type unavailable struct{}

func (unavailable) Usage(context.Context) scan.ContainerReport { return scan.ContainerReport{} }

type noDisk struct{}

func (noDisk) Usage(context.Context, string) scan.DiskOverview { return scan.DiskOverview{} }
