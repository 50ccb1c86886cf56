// Package tagindex gives a concrete shape to the "external tag
// collection index" spec.md §6 describes: a read-only, opaque-to-the-
// reader table the CH reader forwards by reference without ever
// inspecting its contents itself.
package tagindex

import (
	"math"

	"github.com/uber/h3-go/v4"
)

// TagSet is one row of the external tag table a CHEdgeData.TagsValue
// indexes into. Its fields are deliberately road-domain-shaped (the
// teacher's OSM parser carries the same street-level attributes) but
// nothing in pkg/chstore ever reads into it — only identity (the index
// itself) crosses the reader boundary.
type TagSet struct {
	Highway    string
	Names      []string
	MaxSpeedKM float64
	Raw        map[string]string
}

// Index is the contract pkg/chstore depends on: opaque identity, one
// lookup. Any table shape a writer produces can satisfy it.
type Index interface {
	Lookup(tagsValue uint32) (TagSet, bool)
}

// MemoryIndex is a simple in-memory Index, with an additional
// diagnostic-only capability (CellsNear) that has no counterpart in
// spec.md and is never called by pkg/chstore: it exists so this module
// wires github.com/uber/h3-go/v4 the way the teacher's pkg/kv/kv_db.go
// does, bucketing rows by the H3 cell of a representative coordinate
// for fast "what's near here" debugging without touching the CH
// reader's own region/tile index.
type MemoryIndex struct {
	rows  []TagSet
	cells map[h3.Cell][]uint32
}

// NewMemoryIndex builds an index from rows and, for each row i that has
// a non-zero (lat, lon) in locations[i], files it under its H3 res-9
// cell. locations may be shorter than rows or contain zero values for
// rows with no known location; those rows are simply never returned by
// CellsNear.
func NewMemoryIndex(rows []TagSet, locations map[uint32][2]float64) *MemoryIndex {
	idx := &MemoryIndex{
		rows:  rows,
		cells: make(map[h3.Cell][]uint32),
	}
	for tagsValue, latLon := range locations {
		if latLon == ([2]float64{}) {
			continue
		}
		cell := h3.LatLngToCell(h3.NewLatLng(latLon[0], latLon[1]), 9)
		idx.cells[cell] = append(idx.cells[cell], tagsValue)
	}
	return idx
}

// Lookup implements Index.
func (m *MemoryIndex) Lookup(tagsValue uint32) (TagSet, bool) {
	if int(tagsValue) >= len(m.rows) {
		return TagSet{}, false
	}
	return m.rows[tagsValue], true
}

// CellsNear returns the tagsValue ids of rows whose indexed location
// falls within radiusKm of (lat, lon), widening the search ring until
// it finds at least one candidate or gives up after 10 rings — the same
// give-up bound the teacher's GetNearestStreetsFromPointCoord uses.
func (m *MemoryIndex) CellsNear(lat, lon, radiusKm float64) []uint32 {
	origin := h3.LatLngToCell(h3.NewLatLng(lat, lon), 9)

	var found []uint32
	found = append(found, m.cells[origin]...)

	ringsNeeded := ringsForRadius(origin, radiusKm)
	for _, cell := range h3.GridDisk(origin, ringsNeeded) {
		if cell == origin {
			continue
		}
		found = append(found, m.cells[cell]...)
	}

	for ring := 1; len(found) == 0 && ring <= 10; ring++ {
		for _, cell := range h3.GridDisk(origin, ring) {
			if cell == origin {
				continue
			}
			found = append(found, m.cells[cell]...)
		}
	}
	return found
}

func ringsForRadius(origin h3.Cell, radiusKm float64) int {
	cellArea := h3.CellAreaKm2(origin)
	searchArea := math.Pi * radiusKm * radiusKm

	ring := 0
	diskArea := cellArea
	for diskArea < searchArea {
		ring++
		cellCount := float64(3*ring*(ring+1) + 1)
		diskArea = cellCount * cellArea
	}
	return ring
}
