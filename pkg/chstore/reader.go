// Package chstore is the graph facade of spec.md §4.4: the public
// surface a shortest-path engine queries for vertex coordinates, edges,
// adjacency, edge shapes, and bounding-box vertex enumeration, fronted
// by the three fixed-capacity LRU caches of §4.6.
package chstore

import (
	"lintang/chreader/pkg/chstore/blockindex"
	"lintang/chreader/pkg/chstore/cherrors"
	"lintang/chreader/pkg/chstore/lru"
	"lintang/chreader/pkg/chstore/record"
	"lintang/chreader/pkg/chstore/regionindex"
	"lintang/chreader/pkg/geo"
	"lintang/chreader/pkg/tagindex"
)

// Default cache capacities, per spec.md §2: "~5000 entries", "~1000",
// "~1000" for vertex-blocks, shape-blocks, and regions respectively.
const (
	DefaultVertexCacheCapacity = 5000
	DefaultShapeCacheCapacity  = 1000
	DefaultRegionCacheCapacity = 1000
)

// Config is everything spec.md §6 says is "supplied at construction":
// zone offsets, the three prefix-sum indices, blockSize, zoom, the
// supported-profile set, and the external tag index passed by
// reference. It is a plain struct, not a flag-parsed global — the core
// is a library (spec.md §6) and this mirrors the teacher's own
// constructor-struct convention (contractor.NewContractedGraph,
// kv.NewKVDB) rather than introducing a CLI/env surface.
type Config struct {
	Zoom      int32
	BlockSize uint32

	StartOfRegions int64
	StartOfBlocks  int64
	StartOfShapes  int64

	BlockLocationIndex  record.LocationIndex
	ShapeLocationIndex  record.LocationIndex
	RegionLocationIndex record.LocationIndex
	RegionIDs           []geo.TileID

	BlocksCompressed  bool
	ShapesCompressed  bool
	RegionsCompressed bool

	Profiles []string
	TagIndex tagindex.Index

	VertexCacheCapacity int
	ShapeCacheCapacity  int
	RegionCacheCapacity int
}

// SharedIndexes bundles the two immutable index tables (block and
// region) so several readers over independent file handles can share
// them by reference, per spec.md §5: "all index tables can be shared by
// reference since they are immutable after construction".
type SharedIndexes struct {
	Block  *blockindex.Index
	Region *regionindex.Index
}

// BuildSharedIndexes constructs the index tables from cfg once, so the
// caller can open N readers over N file handles of the same stream
// without rebuilding the prefix-sum arithmetic each time.
func BuildSharedIndexes(cfg Config) *SharedIndexes {
	return &SharedIndexes{
		Block:  blockindex.New(cfg.BlockLocationIndex, cfg.ShapeLocationIndex, cfg.StartOfBlocks, cfg.StartOfShapes, cfg.BlockSize),
		Region: regionindex.New(cfg.RegionLocationIndex, cfg.RegionIDs, cfg.StartOfRegions),
	}
}

// CHGraphReader is the graph facade. One instance owns its stream and
// its three caches exclusively (spec.md §5); it is not safe for
// concurrent use from more than one goroutine.
type CHGraphReader struct {
	stream       record.Stream
	deserializer *record.Deserializer

	blockIdx  *blockindex.Index
	regionIdx *regionindex.Index

	vertexCache *lru.Cache[record.BlockID, record.Block]
	shapeCache  *lru.Cache[record.BlockID, record.BlockCoordinates]
	regionCache *lru.Cache[geo.TileID, record.Region]

	blockSize int32
	zoom      int32

	blocksCompressed  bool
	shapesCompressed  bool
	regionsCompressed bool

	profiles map[string]struct{}
	tagIdx   tagindex.Index
}

// NewCHGraphReader opens a reader over stream using cfg. If shared is
// non-nil its index tables are reused instead of rebuilding them from
// cfg (see SharedIndexes); cfg's zone offsets and location indices are
// then ignored in favor of shared's.
func NewCHGraphReader(stream record.Stream, cfg Config, shared *SharedIndexes) *CHGraphReader {
	if shared == nil {
		shared = BuildSharedIndexes(cfg)
	}

	profiles := make(map[string]struct{}, len(cfg.Profiles))
	for _, p := range cfg.Profiles {
		profiles[p] = struct{}{}
	}

	return &CHGraphReader{
		stream:            stream,
		deserializer:      record.NewDeserializer(stream),
		blockIdx:          shared.Block,
		regionIdx:         shared.Region,
		vertexCache:       lru.New[record.BlockID, record.Block](orDefault(cfg.VertexCacheCapacity, DefaultVertexCacheCapacity)),
		shapeCache:        lru.New[record.BlockID, record.BlockCoordinates](orDefault(cfg.ShapeCacheCapacity, DefaultShapeCacheCapacity)),
		regionCache:       lru.New[geo.TileID, record.Region](orDefault(cfg.RegionCacheCapacity, DefaultRegionCacheCapacity)),
		blockSize:         int32(cfg.BlockSize),
		zoom:              cfg.Zoom,
		blocksCompressed:  cfg.BlocksCompressed,
		shapesCompressed:  cfg.ShapesCompressed,
		regionsCompressed: cfg.RegionsCompressed,
		profiles:          profiles,
		tagIdx:            cfg.TagIndex,
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Close closes the backing stream and discards the caches without
// further I/O (spec.md §5).
func (r *CHGraphReader) Close() error { return r.stream.Close() }

// TagIndex returns the external tag-collection index unchanged (spec.md
// §6): the reader never inspects it, only forwards it by reference.
func (r *CHGraphReader) TagIndex() tagindex.Index { return r.tagIdx }

func (r *CHGraphReader) blockSizeU32() uint32 { return uint32(r.blockSize) }

// fetchBlock resolves and, on miss, deserializes the Block holding id,
// going through the vertex-block cache. present is false when id's
// ordinal is beyond every block the index knows about — "missing" per
// spec.md §4.4, not an error.
func (r *CHGraphReader) fetchBlock(id record.BlockID) (block record.Block, present bool, err error) {
	if id.Ordinal(r.blockSizeU32()) >= r.blockIdx.NumBlocks() {
		return record.Block{}, false, nil
	}
	if b, hit := r.vertexCache.TryGet(id); hit {
		return b, true, nil
	}
	offset, length := r.blockIdx.Resolve(id, blockindex.Blocks)
	b, err := r.deserializer.ReadBlock(offset, length, r.blocksCompressed)
	if err != nil {
		return record.Block{}, false, err
	}
	r.vertexCache.Insert(id, b)
	return b, true, nil
}

// fetchShape is fetchBlock's shape-block counterpart, through the
// shape-block cache.
func (r *CHGraphReader) fetchShape(id record.BlockID) (shape record.BlockCoordinates, present bool, err error) {
	if id.Ordinal(r.blockSizeU32()) >= r.blockIdx.NumShapeBlocks() {
		return record.BlockCoordinates{}, false, nil
	}
	if s, hit := r.shapeCache.TryGet(id); hit {
		return s, true, nil
	}
	offset, length := r.blockIdx.Resolve(id, blockindex.Shapes)
	s, err := r.deserializer.ReadBlockCoordinates(offset, length, r.shapesCompressed)
	if err != nil {
		return record.BlockCoordinates{}, false, err
	}
	r.shapeCache.Insert(id, s)
	return s, true, nil
}

// fetchRegion is fetchBlock's region counterpart, through the region
// cache. present is false for a tile with no region record at all
// (spec.md §3: "absent tiles mean no vertices in this tile").
func (r *CHGraphReader) fetchRegion(tile geo.TileID) (region record.Region, present bool, err error) {
	if reg, hit := r.regionCache.TryGet(tile); hit {
		return reg, true, nil
	}
	offset, length, ok := r.regionIdx.Locate(tile)
	if !ok {
		return record.Region{}, false, nil
	}
	reg, err := r.deserializer.ReadRegion(offset, length, r.regionsCompressed)
	if err != nil {
		return record.Region{}, false, err
	}
	r.regionCache.Insert(tile, reg)
	return reg, true, nil
}

// GetVertex implements spec.md §4.4's getVertex(v).
func (r *CHGraphReader) GetVertex(v record.VertexID) (lat, lon float32, found bool, err error) {
	blockID := record.BlockIDOf(v, r.blockSizeU32())
	block, present, err := r.fetchBlock(blockID)
	if err != nil || !present {
		return 0, 0, false, err
	}
	idx := uint32(v) - uint32(blockID)
	if idx >= uint32(len(block.Vertices)) {
		return 0, 0, false, nil
	}
	vx := block.Vertices[idx]
	return vx.Lat, vx.Lon, true, nil
}

// arcLookup is the result of scanning one endpoint's arc window for a
// specific target, shared by GetEdge and GetEdgeShape so the latter can
// recover the arc's position for the parallel shape lookup.
type arcLookup struct {
	data   CHEdgeData
	arcPos uint32
	owner  record.BlockID
	found  bool
}

func (r *CHGraphReader) findArc(owner, target record.VertexID) (arcLookup, error) {
	blockID := record.BlockIDOf(owner, r.blockSizeU32())
	block, present, err := r.fetchBlock(blockID)
	if err != nil {
		return arcLookup{}, err
	}
	if !present {
		return arcLookup{}, nil
	}
	idx := uint32(owner) - uint32(blockID)
	if idx >= uint32(len(block.Vertices)) {
		return arcLookup{}, nil
	}
	vx := block.Vertices[idx]
	end := vx.ArcIndex + vx.ArcCount
	for i := vx.ArcIndex; i < end; i++ {
		if i >= uint32(len(block.Arcs)) {
			return arcLookup{}, cherrors.Deserialization(nil,
				"vertex arc window [%d,%d) exceeds block's %d arcs", vx.ArcIndex, end, len(block.Arcs))
		}
		if block.Arcs[i].TargetID == target {
			return arcLookup{data: chEdgeDataFromArc(block.Arcs[i]), arcPos: i, owner: blockID, found: true}, nil
		}
	}
	return arcLookup{}, nil
}

// GetEdge implements spec.md §4.4's getEdge(v1, v2): the symmetric-edge
// protocol searches v1's block first, then v2's block as a fallback,
// because a directed arc is stored on only one endpoint. The caller
// never learns which endpoint hosted it — only the directional weight
// fields disambiguate travel direction, and the facade never reverses
// them.
func (r *CHGraphReader) GetEdge(v1, v2 record.VertexID) (CHEdgeData, bool, error) {
	lookup, err := r.findArc(v1, v2)
	if err != nil {
		return CHEdgeData{}, false, err
	}
	if lookup.found {
		return lookup.data, true, nil
	}
	lookup, err = r.findArc(v2, v1)
	if err != nil {
		return CHEdgeData{}, false, err
	}
	if lookup.found {
		return lookup.data, true, nil
	}
	return CHEdgeData{}, false, nil
}

// ContainsEdge implements spec.md §4.4's containsEdge(v1, v2); a
// deserialization error is treated as "not found" since this method has
// no error return (spec.md calls it a "convenience" boolean).
func (r *CHGraphReader) ContainsEdge(v1, v2 record.VertexID) bool {
	_, found, err := r.GetEdge(v1, v2)
	return err == nil && found
}

// GetEdgeShape implements spec.md §4.4's getEdgeShape(v1, v2): the same
// two-step search as GetEdge, but the arc's position within the
// resolved Block's arc array is reused verbatim as the index into the
// matching BlockCoordinates.Arcs. A found arc with no shape block, or
// with an index past the shape block's arc count, still reports found
// with an empty-but-defined polyline (spec.md §4.4).
func (r *CHGraphReader) GetEdgeShape(v1, v2 record.VertexID) ([]record.Point, bool, error) {
	lookup, err := r.findArc(v1, v2)
	if err != nil {
		return nil, false, err
	}
	if !lookup.found {
		lookup, err = r.findArc(v2, v1)
		if err != nil {
			return nil, false, err
		}
	}
	if !lookup.found {
		return nil, false, nil
	}

	shape, present, err := r.fetchShape(lookup.owner)
	if err != nil {
		return nil, false, err
	}
	if !present || lookup.arcPos >= uint32(len(shape.Arcs)) {
		return []record.Point{}, true, nil
	}
	return shape.Arcs[lookup.arcPos].Intermediates, true, nil
}

// GetEdges implements spec.md §4.4's getEdges(v) adjacency operation:
// it materializes v's arc window once, pairing each arc with its shape
// (if any), and returns a restartable iterator over the result.
func (r *CHGraphReader) GetEdges(v record.VertexID) (*EdgeIterator, error) {
	blockID := record.BlockIDOf(v, r.blockSizeU32())
	block, present, err := r.fetchBlock(blockID)
	if err != nil {
		return nil, err
	}
	if !present {
		return newEdgeIterator(nil), nil
	}
	idx := uint32(v) - uint32(blockID)
	if idx >= uint32(len(block.Vertices)) {
		return newEdgeIterator(nil), nil
	}
	vx := block.Vertices[idx]

	shape, shapePresent, err := r.fetchShape(blockID)
	if err != nil {
		return nil, err
	}

	end := vx.ArcIndex + vx.ArcCount
	edges := make([]AdjacentEdge, 0, vx.ArcCount)
	for i := vx.ArcIndex; i < end; i++ {
		if i >= uint32(len(block.Arcs)) {
			return nil, cherrors.Deserialization(nil,
				"vertex %d arc window [%d,%d) exceeds block's %d arcs", v, vx.ArcIndex, end, len(block.Arcs))
		}
		arc := block.Arcs[i]
		var pts []record.Point
		if shapePresent && i < uint32(len(shape.Arcs)) {
			pts = shape.Arcs[i].Intermediates
		}
		edges = append(edges, AdjacentEdge{Neighbour: arc.TargetID, Data: chEdgeDataFromArc(arc), Shape: pts})
	}
	return newEdgeIterator(edges), nil
}

// SupportsProfile implements spec.md §4.4's supportsProfile(profile): a
// membership test against the immutable set captured at construction.
func (r *CHGraphReader) SupportsProfile(profile string) bool {
	_, ok := r.profiles[profile]
	return ok
}

// AddProfile, AddRestriction, EnumerateVertices, and VertexCount are
// spec.md §4.4's unsupported operations (§7 category 3): mutation or
// full enumeration against a read-only, non-indexed-for-that source.
// They return a typed error rather than being omitted from the type, so
// a caller coded against a broader graph-source interface fails at the
// call site (spec.md §9's note that other graph variants share an
// interface family) rather than at compile time.
func (r *CHGraphReader) AddProfile(name string) error {
	return cherrors.Unsupported("AddProfile")
}

func (r *CHGraphReader) AddRestriction(from, via, to record.VertexID) error {
	return cherrors.Unsupported("AddRestriction")
}

func (r *CHGraphReader) EnumerateVertices() ([]record.VertexID, error) {
	return nil, cherrors.Unsupported("EnumerateVertices")
}

func (r *CHGraphReader) VertexCount() (int, error) {
	return 0, cherrors.Unsupported("VertexCount")
}
