package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePathsDarwin(t *testing.T) {
	p := ResolvePaths("/Users/ada", "darwin")

	assert.Equal(t, filepath.Join("/Users/ada", "Library", "Caches"), p.Caches)
	assert.Equal(t, filepath.Join("/Users/ada", ".Trash"), p.Trash)
	assert.Equal(t, filepath.Join("/Users/ada", "Library", "Application Support"), p.AppSupport)
	assert.Equal(t, filepath.Join("/Users/ada", "Projects"), p.Projects)
}

func TestResolvePathsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/var/cache/ada")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("XDG_STATE_HOME", "relative/is/ignored")

	p := ResolvePaths("/home/ada", "linux")

	assert.Equal(t, "/var/cache/ada", p.Caches)
	assert.Equal(t, filepath.Join("/home/ada", ".local", "share", "Trash"), p.Trash)
	assert.Equal(t, filepath.Join("/home/ada", ".local", "state"), p.Logs)
}

func TestExpandHomeAndTilde(t *testing.T) {
	p := ResolvePaths("/home/ada", "linux")

	assert.Equal(t, "/home/ada", p.ExpandHome("~"))
	assert.Equal(t, filepath.Join("/home/ada", "Projects"), p.ExpandHome("~/Projects"))
	assert.Equal(t, "/srv/data", p.ExpandHome("/srv/data"))

	assert.Equal(t, "~/Projects", p.Tilde("/home/ada/Projects"))
	assert.Equal(t, "~", p.Tilde("/home/ada"))
	assert.Equal(t, "/opt/elsewhere", p.Tilde("/opt/elsewhere"))
}

func TestDefaultScanConfigIsValid(t *testing.T) {
	cfg := DefaultScanConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, int64(100*1024*1024), cfg.ModelMinSize)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ScanConfig)
	}{
		{"zero timeout", func(c *ScanConfig) { c.SizeTimeout = 0 }},
		{"zero depth", func(c *ScanConfig) { c.ModelDepth = 0 }},
		{"no workers", func(c *ScanConfig) { c.Workers = 0 }},
		{"no projects", func(c *ScanConfig) { c.TopProjects = 0 }},
		{"unknown engine", func(c *ScanConfig) { c.Engine = "magic" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultScanConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvSizeTimeout, "30s")
	t.Setenv(EnvWorkers, "4")
	t.Setenv(EnvModelMinSize, "250MB")
	t.Setenv(EnvEngine, "EXEC")

	cfg, err := FromEnv(DefaultScanConfig())
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.SizeTimeout)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, int64(250*1024*1024), cfg.ModelMinSize)
	assert.Equal(t, EngineExec, cfg.Engine)
}

func TestFromEnvReportsBadValues(t *testing.T) {
	t.Setenv(EnvDockerTimeout, "soon")
	t.Setenv(EnvTopProjects, "ten")

	_, err := FromEnv(DefaultScanConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), EnvDockerTimeout)
	assert.Contains(t, err.Error(), EnvTopProjects)
}

func TestParseByteSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"4096", 4096},
		{"100MB", 100 << 20},
		{"2G", 2 << 30},
		{"1.5kb", 1536},
		{"12B", 12},
		{"250mb", 250 << 20},
		{"1GiB", 1 << 30},
		{" 3 MB ", 3 << 20},
	}
	for _, tt := range tests {
		got, err := ParseByteSize(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "lots", "-5MB", "GB", "10XB", "1.5.5GB"} {
		_, err := ParseByteSize(bad)
		assert.Error(t, err, bad)
	}
}

func TestCategoriesTable(t *testing.T) {
	p := ResolvePaths("/home/ada", "linux")
	cfg := DefaultScanConfig()
	cats := Categories(p, cfg)

	require.Len(t, cats, 11)

	seen := map[CategoryID]bool{}
	for _, c := range cats {
		assert.False(t, seen[c.ID], "duplicate category %s", c.ID)
		seen[c.ID] = true
	}

	nm, ok := CategoryByID(cats, CategoryNodeModules)
	require.True(t, ok)
	assert.Equal(t, SourceDiscovery, nm.Source)
	assert.Equal(t, RuleByName, nm.Rule.Kind)
	assert.Equal(t, cfg.NodeModulesDepth, nm.Rule.MaxDepth)
	assert.Equal(t, TierSafe, nm.Tier())

	ml, ok := CategoryByID(cats, CategoryMLModels)
	require.True(t, ok)
	assert.Equal(t, TierKeep, ml.Tier())
	assert.Equal(t, cfg.ModelMinSize, ml.Rule.MinSize)

	caches, ok := CategoryByID(cats, CategoryCaches)
	require.True(t, ok)
	assert.Equal(t, []string{p.Caches, p.NpmCache}, caches.Paths)

	_, ok = CategoryByID(cats, "nope")
	assert.False(t, ok)
}
