package tagindex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lintang/chreader/pkg/tagindex"
)

func TestMemoryIndexLookup(t *testing.T) {
	rows := []tagindex.TagSet{
		{Highway: "primary", Names: []string{"Main St"}, MaxSpeedKM: 50},
		{Highway: "residential"},
	}
	idx := tagindex.NewMemoryIndex(rows, nil)

	ts, found := idx.Lookup(0)
	require.True(t, found)
	assert.Equal(t, "primary", ts.Highway)

	_, found = idx.Lookup(2)
	assert.False(t, found, "index past the row table is missing, not a panic")
}

func TestMemoryIndexCellsNearFindsClosebyRows(t *testing.T) {
	rows := []tagindex.TagSet{
		{Highway: "primary"},
		{Highway: "secondary"},
		{Highway: "residential"},
	}
	locations := map[uint32][2]float64{
		0: {48.8566, 2.3522},
		1: {48.8567, 2.3523},   // a few meters from row 0
		2: {-33.8688, 151.2093}, // Sydney, thousands of km away
	}
	idx := tagindex.NewMemoryIndex(rows, locations)

	near := idx.CellsNear(48.8566, 2.3522, 1.0)
	assert.Contains(t, near, uint32(0))
	assert.Contains(t, near, uint32(1))
	assert.NotContains(t, near, uint32(2))
}

func TestMemoryIndexCellsNearGivesUpWithNoCandidates(t *testing.T) {
	idx := tagindex.NewMemoryIndex(nil, nil)
	near := idx.CellsNear(0, 0, 1.0)
	assert.Empty(t, near)
}
