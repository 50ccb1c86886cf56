// Package geo carries the bounding-box and tile-id math the region
// index needs. It wraps github.com/paulmach/orb/maptile instead of
// hand-rolling slippy-tile arithmetic, so the tile ids produced here
// agree bit-for-bit with any other tool in the ecosystem built on the
// same library.
package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// BoundingBox is a closed lat/lon rectangle, minimum corner first.
type BoundingBox struct {
	MinLat, MinLon float64
	MaxLat, MaxLon float64
}

func (b BoundingBox) bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.MinLon, b.MinLat},
		Max: orb.Point{b.MaxLon, b.MaxLat},
	}
}

// TileID is the unsigned 64-bit quantity spec.md §4.5 requires; it must
// match the encoding used when the region index was written. We use
// maptile's quadkey, which packs (x, y, z) into one uint64.
type TileID uint64

// TileRange enumerates, in no particular order, the id of every tile at
// zoom that intersects box. This is the only tile-math entry point the
// region index calls; it never inverts a TileID back to coordinates.
func TileRange(box BoundingBox, zoom int32) []TileID {
	a := maptile.At(orb.Point{box.MinLon, box.MinLat}, maptile.Zoom(zoom))
	b := maptile.At(orb.Point{box.MaxLon, box.MaxLat}, maptile.Zoom(zoom))

	minX, maxX := a.X, b.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := a.Y, b.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}

	// maptile.At maps lon=180 to X=2^zoom, one past the last column.
	lastCol := uint32((uint64(1) << uint(zoom)) - 1)
	if maxX > lastCol {
		maxX = lastCol
	}
	if minX > maxX {
		minX = maxX
	}

	ids := make([]TileID, 0, (maxX-minX+1)*(maxY-minY+1))
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			t := maptile.Tile{X: x, Y: y, Z: maptile.Zoom(zoom)}
			ids = append(ids, TileID(t.Quadkey()))
		}
	}
	return ids
}

// TileIDOf returns the id of the single tile at zoom containing (lat, lon).
// Used by tests and by pkg/osmsource to bucket vertices the same way a
// region-index writer would have.
func TileIDOf(lat, lon float64, zoom int32) TileID {
	t := maptile.At(orb.Point{lon, lat}, maptile.Zoom(zoom))
	return TileID(t.Quadkey())
}
