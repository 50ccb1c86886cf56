// Package record holds the value types deserialized off the CH stream
// (spec.md §3) and the deserializer that produces them (spec.md §4.1).
// Nothing here scans the stream on its own; callers supply exact
// (offset, length) bounds resolved by the block/region indices.
package record

// VertexID is stable across the lifetime of the stream. 0 is valid.
type VertexID uint32

// BlockID is a vertex id rounded down to a multiple of blockSize.
type BlockID uint32

// BlockIDOf computes BlockID(v) = v - (v mod blockSize).
func BlockIDOf(v VertexID, blockSize uint32) BlockID {
	return BlockID(uint32(v) - uint32(v)%blockSize)
}

// Ordinal returns BlockID/blockSize, the index into a BlockLocationIndex.
func (b BlockID) Ordinal(blockSize uint32) uint32 {
	return uint32(b) / blockSize
}

// Vertex is one entry of a Block's vertex list: its coordinates, already
// decoded to floats, and the window into the block's arc array that
// holds its outgoing arcs.
type Vertex struct {
	Lat, Lon float32
	ArcIndex uint32
	ArcCount uint32
}

// Arc is one CH arc: a directed incidence possibly carrying shortcut
// (contracted) endpoints from the contraction process.
type Arc struct {
	TargetID                 VertexID
	ForwardWeight            float32
	BackwardWeight           float32
	ForwardContractedID      VertexID
	BackwardContractedID     VertexID
	ContractedDirectionBits  uint8
	TagsValue                uint32
}

// Block is a contiguous slab of up to blockSize consecutive vertex ids
// together with their outgoing arcs.
type Block struct {
	Vertices []Vertex
	Arcs     []Arc
}

// Point is a geographic coordinate used only for intermediate shape
// points; it deliberately avoids pulling orb.Point into this package so
// that record stays a leaf with no geometry-library dependency of its
// own (pkg/geo is the one place orb is imported).
type Point struct {
	Lat, Lon float64
}

// ShapeArc is the optional polyline of intermediate coordinates for one
// arc; it parallels a Block's Arcs slice index-for-index.
type ShapeArc struct {
	Intermediates []Point
}

// BlockCoordinates is the shape-block counterpart of a Block: same
// length and ordering as the matching Block's Arcs.
type BlockCoordinates struct {
	Arcs []ShapeArc
}

// Region is a map tile's vertex membership list.
type Region struct {
	Vertices []VertexID
}

// LocationIndex is a prefix-sum array of byte lengths: index[i] is the
// cumulative length of elements 0..i. Subtracting adjacent entries
// yields one element's length; anchoring to a base offset yields its
// stream slice.
type LocationIndex []uint64

// Slice returns the (offset, length) of element i relative to base,
// per the resolve formula in spec.md §4.2/§4.3.
func (l LocationIndex) Slice(base int64, i uint32) (offset, length int64) {
	if i == 0 {
		return base, int64(l[0])
	}
	return base + int64(l[i-1]), int64(l[i] - l[i-1])
}
