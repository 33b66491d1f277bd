package scan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/diskaudit/internal/config"
)

func TestOutermostPaths(t *testing.T) {
	got := outermostPaths([]string{
		"/home/u/Library/Caches",
		"/home/u/.npm",
		"/home/u/Library/Caches/pip",
		"",
		"/home/u/.npm/",
		"/home/u/Library/CachesOld",
	})
	assert.Equal(t, []string{"/home/u/Library/Caches", "/home/u/.npm", "/home/u/Library/CachesOld"}, got)
}

func TestAggregateFixedListsEachPath(t *testing.T) {
	sizer := &fakeSizer{sizes: map[string]int64{
		"/c":     500,
		"/c/pip": 200,
		"/npm":   900,
	}}
	cat := config.Category{ID: config.CategoryCaches, Source: config.SourceFixedPaths, Paths: []string{"/c", "/npm", "/c/pip", "/empty"}}

	r := aggregateFixed(context.Background(), sizer, cat)

	assert.Equal(t, int64(1400), r.TotalBytes)
	require.Len(t, r.Items, 2)
	assert.Equal(t, CategoryItem{Path: "/npm", Label: "npm", SizeBytes: 900}, r.Items[0])
	assert.Equal(t, CategoryItem{Path: "/c", Label: "c", SizeBytes: 500}, r.Items[1])
	assert.NotContains(t, sizer.probed(), "/c/pip")
}

func TestAggregateTopChildren(t *testing.T) {
	finder := &fakeFinder{children: map[string][]string{
		"/Projects": {"/Projects/a", "/Projects/b", "/Projects/c"},
	}}
	sizer := &fakeSizer{sizes: map[string]int64{
		"/Projects/a": 100,
		"/Projects/b": 300,
		"/Projects/c": 200,
	}}
	cat := config.Category{ID: config.CategoryProjects, Source: config.SourceTopChildren, Paths: []string{"/Projects"}}

	r := aggregateTopChildren(context.Background(), finder, sizer, cat, 2)

	require.Len(t, r.Items, 2)
	assert.Equal(t, int64(300), r.Items[0].SizeBytes)
	assert.Equal(t, int64(200), r.Items[1].SizeBytes)
	assert.Equal(t, "b", r.Items[0].Label)
	assert.Equal(t, int64(500), r.TotalBytes)
}

func TestAggregateDiscoveredProbesDirectories(t *testing.T) {
	finder := &fakeFinder{matches: map[config.RuleKind][]Match{
		config.RuleByName: {{Path: "/root/a/node_modules"}, {Path: "/root/b/node_modules"}},
	}}
	sizer := &fakeSizer{sizes: map[string]int64{
		"/root/a/node_modules": 10,
		"/root/b/node_modules": 40,
	}}
	cat := config.Category{ID: config.CategoryNodeModules, Source: config.SourceDiscovery,
		Rule: config.Rule{Kind: config.RuleByName, Name: "node_modules", MaxDepth: 6}}

	r := aggregateDiscovered(context.Background(), finder, sizer, "/root", cat)

	assert.Equal(t, int64(50), r.TotalBytes)
	require.Len(t, r.Items, 2)
	assert.Equal(t, "b/node_modules", r.Items[0].Label)
	assert.Equal(t, "a/node_modules", r.Items[1].Label)
}

func TestAggregateDiscoveredUsesFileSizeDirectly(t *testing.T) {
	finder := &fakeFinder{matches: map[config.RuleKind][]Match{
		config.RuleByExtensionSize: {{Path: "/root/m.pt", SizeBytes: 700}},
	}}
	sizer := &fakeSizer{sizes: map[string]int64{"/root/m.pt": 1}}
	cat := config.Category{ID: config.CategoryMLModels, Source: config.SourceDiscovery,
		Rule: config.Rule{Kind: config.RuleByExtensionSize, MaxDepth: 10}}

	r := aggregateDiscovered(context.Background(), finder, sizer, "/root", cat)

	assert.Equal(t, int64(700), r.TotalBytes)
	assert.Empty(t, sizer.probed())
}

func TestSubsystemResult(t *testing.T) {
	r := subsystemResult(config.CategoryDocker, ContainerReport{
		Available:  true,
		TotalBytes: 900,
		Types: []ContainerUsage{
			{Type: "Containers", SizeBytes: 100},
			{Type: "Images", SizeBytes: 800},
		},
	})
	assert.Equal(t, KindSubsystem, r.Kind)
	assert.Equal(t, int64(900), r.TotalBytes)
	assert.Equal(t, "Images", r.Items[0].Label)

	empty := subsystemResult(config.CategoryDocker, ContainerReport{TotalBytes: 5})
	assert.Zero(t, empty.TotalBytes)
	assert.Empty(t, empty.Items)
}
