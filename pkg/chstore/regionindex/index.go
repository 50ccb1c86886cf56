// Package regionindex implements spec.md §4.3: a mapping from tile id
// to the stream slice holding that tile's vertex list, built once at
// construction from a sorted (LocationIndex, RegionIds) pair.
package regionindex

import (
	"lintang/chreader/pkg/chstore/record"
	"lintang/chreader/pkg/geo"
)

// Index is built once and is immutable afterward, so it may be shared
// by reference across independent readers (spec.md §5).
type Index struct {
	offsets map[geo.TileID]int64
	lengths map[geo.TileID]int64
}

// New walks the parallel arrays exactly as spec.md §4.3 describes:
// element i=0 covers [startOfRegions, startOfRegions+loc[0]); later
// elements cover [startOfRegions+loc[i-1], startOfRegions+loc[i]).
func New(loc record.LocationIndex, regionIDs []geo.TileID, startOfRegions int64) *Index {
	idx := &Index{
		offsets: make(map[geo.TileID]int64, len(regionIDs)),
		lengths: make(map[geo.TileID]int64, len(regionIDs)),
	}
	for i, id := range regionIDs {
		off, length := loc.Slice(startOfRegions, uint32(i))
		idx.offsets[id] = off
		idx.lengths[id] = length
	}
	return idx
}

// Locate implements spec.md §4.3's locate(tileId); absent tiles mean
// "no vertices in this tile", which is not an error.
func (idx *Index) Locate(id geo.TileID) (offset, length int64, ok bool) {
	off, present := idx.offsets[id]
	if !present {
		return 0, 0, false
	}
	return off, idx.lengths[id], true
}
