package chstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lintang/chreader/pkg/chstore"
	"lintang/chreader/pkg/chstore/cherrors"
	"lintang/chreader/pkg/chstore/record"
	"lintang/chreader/pkg/chstore/record/rtest"
	"lintang/chreader/pkg/geo"
)

// fixture bundles a synthetic in-memory stream with the Config
// describing its layout, mirroring how a real writer would hand both
// to a reader. Region, block, and shape zones are laid out back to
// back in that order; any of the three may be empty.
type fixture struct {
	stream *rtest.MemStream
	cfg    chstore.Config
}

func buildFixture(blocks, shapeBlocks [][]byte, regionOrder []geo.TileID, regions map[geo.TileID][]byte, blockSize uint32, zoom int32, profiles []string) fixture {
	regionBuilder := rtest.NewBuilder()
	for _, id := range regionOrder {
		regionBuilder.Append(regions[id])
	}
	startOfRegions := int64(0)
	all := append([]byte{}, regionBuilder.Bytes()...)

	startOfBlocks := int64(len(all))
	blockBuilder := rtest.NewBuilder()
	for _, b := range blocks {
		blockBuilder.Append(b)
	}
	all = append(all, blockBuilder.Bytes()...)

	startOfShapes := int64(len(all))
	shapeBuilder := rtest.NewBuilder()
	for _, s := range shapeBlocks {
		shapeBuilder.Append(s)
	}
	all = append(all, shapeBuilder.Bytes()...)

	cfg := chstore.Config{
		Zoom:                zoom,
		BlockSize:           blockSize,
		StartOfRegions:       startOfRegions,
		StartOfBlocks:       startOfBlocks,
		StartOfShapes:       startOfShapes,
		BlockLocationIndex:  blockBuilder.LocationIndex(),
		ShapeLocationIndex:  shapeBuilder.LocationIndex(),
		RegionLocationIndex: regionBuilder.LocationIndex(),
		RegionIDs:           regionOrder,
		Profiles:            profiles,
	}
	return fixture{stream: rtest.NewMemStream(all), cfg: cfg}
}

func newReader(f fixture) *chstore.CHGraphReader {
	return chstore.NewCHGraphReader(f.stream, f.cfg, nil)
}

// S1: two vertices in one block, a symmetric arc between them, no shape.
func TestS1_SimpleSymmetricEdge(t *testing.T) {
	vertices := []record.Vertex{
		{Lat: 50.0, Lon: 4.0, ArcIndex: 0, ArcCount: 1},
		{Lat: 50.01, Lon: 4.0, ArcIndex: 1, ArcCount: 1},
	}
	arcs := []record.Arc{
		{TargetID: 1, ForwardWeight: 10, BackwardWeight: 10},
		{TargetID: 0, ForwardWeight: 10, BackwardWeight: 10},
	}
	block := rtest.EncodeBlock(vertices, arcs)
	f := buildFixture([][]byte{block}, nil, nil, nil, 10, 1, nil)
	reader := newReader(f)
	defer reader.Close()

	e01, found, err := reader.GetEdge(0, 1)
	require.NoError(t, err)
	require.True(t, found)
	e10, found, err := reader.GetEdge(1, 0)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, float32(10), e01.ForwardWeight)
	assert.Equal(t, float32(10), e10.ForwardWeight)

	it, err := reader.GetEdges(0)
	require.NoError(t, err)
	require.True(t, it.MoveNext())
	assert.Equal(t, record.VertexID(1), it.Neighbour())
	assert.False(t, it.MoveNext())
}

// S2: blockSize=2, vertex 2 alone in block 1, arc 2->1 stored on vertex 2;
// getEdge(1,2) must still find it via the v2-block fallback.
func TestS2_SymmetricFallbackAcrossBlocks(t *testing.T) {
	blockSize := uint32(2)
	block0 := rtest.EncodeBlock([]record.Vertex{
		{Lat: 1, Lon: 1, ArcIndex: 0, ArcCount: 0},
		{Lat: 2, Lon: 2, ArcIndex: 0, ArcCount: 0},
	}, nil)
	block1 := rtest.EncodeBlock(
		[]record.Vertex{{Lat: 3, Lon: 3, ArcIndex: 0, ArcCount: 1}},
		[]record.Arc{{TargetID: 1, ForwardWeight: 5, BackwardWeight: 5}},
	)

	f := buildFixture([][]byte{block0, block1}, nil, nil, nil, blockSize, 1, nil)
	reader := newReader(f)
	defer reader.Close()

	data, found, err := reader.GetEdge(1, 2)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, float32(5), data.ForwardWeight)

	// direct (non-fallback) search order also succeeds
	data, found, err = reader.GetEdge(2, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, float32(5), data.ForwardWeight)
}

// S3: box covering only the tile holding {0,1} must emit (0,1) and the
// boundary-crossing (1,2), never (2,1).
func TestS3_BoundingBoxBoundaryCrossing(t *testing.T) {
	const zoom = int32(5)
	tileNear := geo.TileIDOf(1.0, 1.0, zoom)
	tileFar := geo.TileIDOf(-40.0, 100.0, zoom)
	require.NotEqual(t, tileNear, tileFar, "fixture assumes these coordinates land in different tiles")

	vertices := []record.Vertex{
		{Lat: 1.0, Lon: 1.0, ArcIndex: 0, ArcCount: 1},   // v0 -> v1
		{Lat: 1.001, Lon: 1.001, ArcIndex: 1, ArcCount: 1}, // v1 -> v2
		{Lat: -40.0, Lon: 100.0, ArcIndex: 2, ArcCount: 0}, // v2
	}
	arcs := []record.Arc{
		{TargetID: 1, ForwardWeight: 10, BackwardWeight: 10},
		{TargetID: 2, ForwardWeight: 7, BackwardWeight: 7},
	}
	block := rtest.EncodeBlock(vertices, arcs)

	regionOrder := []geo.TileID{tileNear, tileFar}
	regions := map[geo.TileID][]byte{
		tileNear: rtest.EncodeRegion([]record.VertexID{0, 1}),
		tileFar:  rtest.EncodeRegion([]record.VertexID{2}),
	}

	f := buildFixture([][]byte{block}, nil, regionOrder, regions, 10, zoom, nil)
	reader := newReader(f)
	defer reader.Close()

	box := geo.BoundingBox{MinLat: 0.999, MinLon: 0.999, MaxLat: 1.002, MaxLon: 1.002}
	edges, err := reader.GetEdgesInBox(box)
	require.NoError(t, err)

	pairs := make(map[[2]record.VertexID]bool)
	for _, e := range edges {
		pairs[[2]record.VertexID{e.V1, e.V2}] = true
	}
	assert.True(t, pairs[[2]record.VertexID{0, 1}], "expected (0,1)")
	assert.True(t, pairs[[2]record.VertexID{1, 2}], "expected boundary-crossing (1,2)")
	assert.False(t, pairs[[2]record.VertexID{2, 1}], "must not emit (2,1)")
	assert.Len(t, edges, 2)
}

// S5: a shape arc with three intermediate points round-trips in on-disk
// order regardless of query direction.
func TestS5_EdgeShapeOrderIsNeverReversed(t *testing.T) {
	vertices := []record.Vertex{
		{Lat: 1, Lon: 1, ArcIndex: 0, ArcCount: 1},
		{Lat: 2, Lon: 2, ArcIndex: 0, ArcCount: 0},
	}
	arcs := []record.Arc{{TargetID: 1, ForwardWeight: 1, BackwardWeight: 1}}
	block := rtest.EncodeBlock(vertices, arcs)

	points := []record.Point{{Lat: 1.1, Lon: 1.1}, {Lat: 1.2, Lon: 1.2}, {Lat: 1.3, Lon: 1.3}}
	shape := rtest.EncodeBlockCoordinates([]record.ShapeArc{{Intermediates: points}})

	f := buildFixture([][]byte{block}, [][]byte{shape}, nil, nil, 10, 1, nil)
	reader := newReader(f)
	defer reader.Close()

	fwd, found, err := reader.GetEdgeShape(0, 1)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, fwd, 3)
	assert.Equal(t, points, fwd)

	bwd, found, err := reader.GetEdgeShape(1, 0)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, points, bwd, "shape order must not be reversed for the opposite query direction")
}

func TestGetEdgeShape_EmptyButDefined(t *testing.T) {
	vertices := []record.Vertex{
		{Lat: 1, Lon: 1, ArcIndex: 0, ArcCount: 1},
		{Lat: 2, Lon: 2, ArcIndex: 0, ArcCount: 0},
	}
	arcs := []record.Arc{{TargetID: 1}}
	block := rtest.EncodeBlock(vertices, arcs)
	shape := rtest.EncodeBlockCoordinates([]record.ShapeArc{{Intermediates: nil}})

	f := buildFixture([][]byte{block}, [][]byte{shape}, nil, nil, 10, 1, nil)
	reader := newReader(f)
	defer reader.Close()

	pts, found, err := reader.GetEdgeShape(0, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.NotNil(t, pts)
	assert.Empty(t, pts)
}

// S6: mutation/enumeration signal unsupported without touching the stream.
func TestS6_UnsupportedOperations(t *testing.T) {
	f := buildFixture([][]byte{rtest.EncodeBlock(nil, nil)}, nil, nil, nil, 10, 1, nil)
	reader := newReader(f)
	defer reader.Close()

	require.ErrorIs(t, reader.AddProfile("car"), cherrors.ErrUnsupported)
	require.ErrorIs(t, reader.AddRestriction(0, 1, 2), cherrors.ErrUnsupported)
	_, err := reader.EnumerateVertices()
	require.ErrorIs(t, err, cherrors.ErrUnsupported)
	_, err = reader.VertexCount()
	require.ErrorIs(t, err, cherrors.ErrUnsupported)
}

func TestSupportsProfile(t *testing.T) {
	f := buildFixture([][]byte{rtest.EncodeBlock(nil, nil)}, nil, nil, nil, 10, 1, []string{"car", "bike"})
	reader := newReader(f)
	defer reader.Close()

	assert.True(t, reader.SupportsProfile("car"))
	assert.True(t, reader.SupportsProfile("bike"))
	assert.False(t, reader.SupportsProfile("foot"))
}

// Boundary: empty block (0 vertices) is a defined, not missing, block;
// every vertex id inside it is still reported missing.
func TestBoundary_EmptyBlock(t *testing.T) {
	f := buildFixture([][]byte{rtest.EncodeBlock(nil, nil)}, nil, nil, nil, 10, 1, nil)
	reader := newReader(f)
	defer reader.Close()

	_, _, found, err := reader.GetVertex(0)
	require.NoError(t, err)
	assert.False(t, found)
}

// Boundary: single-vertex block.
func TestBoundary_SingleVertexBlock(t *testing.T) {
	block := rtest.EncodeBlock([]record.Vertex{{Lat: 9, Lon: 9, ArcIndex: 0, ArcCount: 0}}, nil)
	f := buildFixture([][]byte{block}, nil, nil, nil, 10, 1, nil)
	reader := newReader(f)
	defer reader.Close()

	lat, lon, found, err := reader.GetVertex(0)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, float32(9), lat)
	assert.Equal(t, float32(9), lon)

	_, _, found, err = reader.GetVertex(1)
	require.NoError(t, err)
	assert.False(t, found)
}

// Boundary: final block shorter than blockSize.
func TestBoundary_FinalBlockShorterThanBlockSize(t *testing.T) {
	blockSize := uint32(4)
	block0 := rtest.EncodeBlock([]record.Vertex{
		{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}, {Lat: 3, Lon: 3}, {Lat: 4, Lon: 4},
	}, nil)
	block1 := rtest.EncodeBlock([]record.Vertex{{Lat: 5, Lon: 5}}, nil) // only 1 of 4 slots used

	f := buildFixture([][]byte{block0, block1}, nil, nil, nil, blockSize, 1, nil)
	reader := newReader(f)
	defer reader.Close()

	lat, _, found, err := reader.GetVertex(4)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, float32(5), lat)

	_, _, found, err = reader.GetVertex(5) // slot 1 of the short final block
	require.NoError(t, err)
	assert.False(t, found)
}

// Boundary: vertex with arcCount == 0 has an empty, not missing, adjacency.
func TestBoundary_ZeroArcCount(t *testing.T) {
	block := rtest.EncodeBlock([]record.Vertex{{Lat: 1, Lon: 1, ArcIndex: 0, ArcCount: 0}}, nil)
	f := buildFixture([][]byte{block}, nil, nil, nil, 10, 1, nil)
	reader := newReader(f)
	defer reader.Close()

	it, err := reader.GetEdges(0)
	require.NoError(t, err)
	assert.Equal(t, 0, it.Len())
	assert.False(t, it.MoveNext())
}

// Boundary: a box none of whose tiles has a region record (TileRange
// always yields at least one tile; this fixture has no regions at all)
// returns no edges, no error.
func TestBoundary_BoxCoveringNoTiles(t *testing.T) {
	f := buildFixture([][]byte{rtest.EncodeBlock(nil, nil)}, nil, nil, nil, 10, 5, nil)
	reader := newReader(f)
	defer reader.Close()

	edges, err := reader.GetEdgesInBox(geo.BoundingBox{MinLat: 80, MinLon: 170, MaxLat: 81, MaxLon: 171})
	require.NoError(t, err)
	assert.Empty(t, edges)
}

// Boundary: a box covering tiles with no region record behaves the same
// as a box covering no tiles.
func TestBoundary_BoxCoveringTilesWithNoRegionRecord(t *testing.T) {
	const zoom = int32(3)
	knownTile := geo.TileIDOf(0.0, 0.0, zoom)
	f := buildFixture([][]byte{rtest.EncodeBlock(nil, nil)},
		nil,
		[]geo.TileID{knownTile},
		map[geo.TileID][]byte{knownTile: rtest.EncodeRegion([]record.VertexID{0})},
		10, zoom, nil)
	reader := newReader(f)
	defer reader.Close()

	// A box far from knownTile intersects only tiles absent from the index.
	edges, err := reader.GetEdgesInBox(geo.BoundingBox{MinLat: -80, MinLon: -170, MaxLat: -79, MaxLon: -169})
	require.NoError(t, err)
	assert.Empty(t, edges)
}

// Invariant 2: symmetric-edge duality, including contracted ids.
func TestInvariant_SymmetricEdgeDuality(t *testing.T) {
	vertices := []record.Vertex{
		{Lat: 1, Lon: 1, ArcIndex: 0, ArcCount: 1},
		{Lat: 2, Lon: 2, ArcIndex: 0, ArcCount: 0},
	}
	arcs := []record.Arc{{
		TargetID: 1, ForwardWeight: 3, BackwardWeight: 4,
		ForwardContractedID: 9, BackwardContractedID: 11,
	}}
	block := rtest.EncodeBlock(vertices, arcs)
	f := buildFixture([][]byte{block}, nil, nil, nil, 10, 1, nil)
	reader := newReader(f)
	defer reader.Close()

	a, foundA, err := reader.GetEdge(0, 1)
	require.NoError(t, err)
	require.True(t, foundA)
	b, foundB, err := reader.GetEdge(1, 0)
	require.NoError(t, err)
	require.True(t, foundB)

	assert.Equal(t, a, b, "both searches land on the same stored arc, so the value is identical")
	assert.Equal(t, a.ForwardWeight, b.ForwardWeight)
}

// Invariant 3: adjacency/edge agreement.
func TestInvariant_AdjacencyEdgeAgreement(t *testing.T) {
	vertices := []record.Vertex{
		{Lat: 1, Lon: 1, ArcIndex: 0, ArcCount: 2},
		{Lat: 2, Lon: 2, ArcIndex: 0, ArcCount: 0},
		{Lat: 3, Lon: 3, ArcIndex: 0, ArcCount: 0},
	}
	arcs := []record.Arc{
		{TargetID: 1, ForwardWeight: 1},
		{TargetID: 2, ForwardWeight: 2},
	}
	block := rtest.EncodeBlock(vertices, arcs)
	f := buildFixture([][]byte{block}, nil, nil, nil, 10, 1, nil)
	reader := newReader(f)
	defer reader.Close()

	it, err := reader.GetEdges(0)
	require.NoError(t, err)

	var neighbours []record.VertexID
	for it.MoveNext() {
		neighbours = append(neighbours, it.Neighbour())
	}
	assert.ElementsMatch(t, []record.VertexID{1, 2}, neighbours)

	for _, u := range neighbours {
		_, found, err := reader.GetEdge(0, u)
		require.NoError(t, err)
		assert.True(t, found)
	}
}

// Invariant 6 at the reader level: identical results for cache
// capacities of 1 vs. 1000 (larger than the number of blocks).
func TestInvariant_CacheTransparency(t *testing.T) {
	blockSize := uint32(2)
	var blocks [][]byte
	for i := 0; i < 5; i++ {
		lat := float32(i)
		blocks = append(blocks, rtest.EncodeBlock([]record.Vertex{
			{Lat: lat, Lon: lat, ArcIndex: 0, ArcCount: 0},
		}, nil))
	}

	run := func(cacheCap int) map[int][2]float32 {
		f := buildFixture(blocks, nil, nil, nil, blockSize, 1, nil)
		f.cfg.VertexCacheCapacity = cacheCap
		reader := newReader(f)
		defer reader.Close()

		results := make(map[int][2]float32)
		order := []int{0, 2, 4, 0, 6, 2, 8}
		for _, v := range order {
			lat, lon, found, err := reader.GetVertex(record.VertexID(v))
			require.NoError(t, err)
			require.True(t, found)
			results[v] = [2]float32{lat, lon}
		}
		return results
	}

	small := run(1)
	large := run(1000)
	assert.Equal(t, large, small)
}

// Invariant 7 & 8: read-only invariance and idempotence.
func TestInvariant_ReadOnlyAndIdempotent(t *testing.T) {
	vertices := []record.Vertex{
		{Lat: 1, Lon: 1, ArcIndex: 0, ArcCount: 1},
		{Lat: 2, Lon: 2, ArcIndex: 0, ArcCount: 0},
	}
	arcs := []record.Arc{{TargetID: 1, ForwardWeight: 1}}
	block := rtest.EncodeBlock(vertices, arcs)
	f := buildFixture([][]byte{block}, nil, nil, nil, 10, 1, nil)
	reader := newReader(f)
	defer reader.Close()

	first, found1, err1 := reader.GetEdge(0, 1)
	second, found2, err2 := reader.GetEdge(0, 1)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, found1, found2)
	assert.Equal(t, first, second)
}
