package scan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lakshaymaurya-felt/diskaudit/internal/config"
)

func TestNewDiskOverview(t *testing.T) {
	assert.Zero(t, NewDiskOverview(0, 0, 0).UsedPercent)
	assert.Zero(t, NewDiskOverview(0, 10, 0).UsedPercent)
	assert.InDelta(t, 50.0, NewDiskOverview(976562500, 488281250, 488281250).UsedPercent, 0.1)
}

func TestSnapshotCarriesEveryCategory(t *testing.T) {
	snap := NewSnapshot("/root", DiskOverview{}, ContainerReport{}, nil, time.Now(), 0)

	for _, id := range AllCategories {
		r := snap.Category(id)
		assert.Equal(t, id, r.ID)
		assert.Zero(t, r.TotalBytes)
		assert.NotNil(t, r.Items)
	}
	assert.Equal(t, KindSubsystem, snap.Category(config.CategoryDocker).Kind)
	assert.Equal(t, KindPaths, snap.Category(config.CategoryTrash).Kind)
}

func TestSnapshotIsImmutable(t *testing.T) {
	results := []CategoryResult{{
		ID:         config.CategoryTrash,
		TotalBytes: 10,
		Items:      []CategoryItem{{Path: "/t/a", Label: "a", SizeBytes: 10}},
	}}
	snap := NewSnapshot("/root", DiskOverview{}, ContainerReport{}, results, time.Now(), time.Second)

	results[0].Items[0].SizeBytes = 999
	got := snap.Category(config.CategoryTrash)
	got.Items[0].Label = "changed"

	again := snap.Category(config.CategoryTrash)
	assert.Equal(t, int64(10), again.Items[0].SizeBytes)
	assert.Equal(t, "a", again.Items[0].Label)
	assert.Equal(t, time.Second, snap.Duration())
}

func TestSortItems(t *testing.T) {
	items := []CategoryItem{
		{Label: "b", SizeBytes: 5},
		{Label: "a", SizeBytes: 5},
		{Label: "c", SizeBytes: 9},
	}
	sortItems(items)
	assert.Equal(t, []string{"c", "a", "b"}, []string{items[0].Label, items[1].Label, items[2].Label})
}
