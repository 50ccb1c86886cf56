// chinspect is a small read-only dump tool for a CH block stream, in
// the teacher's cmd/ convention (cmd/preprocessing, cmd/auto). It only
// exercises pkg/chstore's public surface the way a human operator would
// when sanity-checking a stream by hand; it is not the routing server
// or ingestion CLI spec.md §1 excludes as a non-goal.
package main

import (
	"encoding/gob"
	"flag"
	"fmt"
	"log"
	"os"

	"lintang/chreader/pkg/chstore"
	"lintang/chreader/pkg/chstore/record"
	"lintang/chreader/pkg/geo"
)

var (
	dataPath = flag.String("data", "", "path to the CH block stream")
	metaPath = flag.String("meta", "", "path to the gob-encoded index metadata")
	vertex   = flag.Uint("vertex", 0, "dump this vertex's coordinates and adjacency")
	edgeFrom = flag.Uint("edge-from", 0, "look up the edge from this vertex to -edge-to")
	edgeTo   = flag.Uint("edge-to", 0, "look up the edge from -edge-from to this vertex")
	hasEdge  = flag.Bool("edge", false, "look up an edge instead of dumping a vertex")
)

// indexMeta is the on-disk metadata chinspect expects alongside the
// data stream: the same fields chstore.Config needs, gob-encoded the
// way the teacher's ContractedGraph.SaveToFile persists its own graph.
type indexMeta struct {
	Zoom      int32
	BlockSize uint32

	StartOfRegions int64
	StartOfBlocks  int64
	StartOfShapes  int64

	BlockLocationIndex  record.LocationIndex
	ShapeLocationIndex  record.LocationIndex
	RegionLocationIndex record.LocationIndex
	RegionIDs           []uint64

	BlocksCompressed  bool
	ShapesCompressed  bool
	RegionsCompressed bool

	Profiles []string
}

func loadMeta(path string) (indexMeta, error) {
	f, err := os.Open(path)
	if err != nil {
		return indexMeta{}, err
	}
	defer f.Close()

	var m indexMeta
	if err := gob.NewDecoder(f).Decode(&m); err != nil {
		return indexMeta{}, err
	}
	return m, nil
}

func main() {
	flag.Parse()
	if *dataPath == "" || *metaPath == "" {
		log.Fatal("usage: chinspect -data <stream> -meta <index metadata> [-vertex N | -edge -edge-from N -edge-to M]")
	}

	meta, err := loadMeta(*metaPath)
	if err != nil {
		log.Fatalf("load index metadata: %v", err)
	}

	f, err := os.Open(*dataPath)
	if err != nil {
		log.Fatalf("open data stream: %v", err)
	}

	regionIDs := make([]geo.TileID, len(meta.RegionIDs))
	for i, id := range meta.RegionIDs {
		regionIDs[i] = geo.TileID(id)
	}

	reader := chstore.NewCHGraphReader(f, chstore.Config{
		Zoom:                meta.Zoom,
		BlockSize:           meta.BlockSize,
		StartOfRegions:      meta.StartOfRegions,
		StartOfBlocks:       meta.StartOfBlocks,
		StartOfShapes:       meta.StartOfShapes,
		BlockLocationIndex:  meta.BlockLocationIndex,
		ShapeLocationIndex:  meta.ShapeLocationIndex,
		RegionLocationIndex: meta.RegionLocationIndex,
		RegionIDs:           regionIDs,
		BlocksCompressed:    meta.BlocksCompressed,
		ShapesCompressed:    meta.ShapesCompressed,
		RegionsCompressed:   meta.RegionsCompressed,
		Profiles:            meta.Profiles,
	}, nil)
	defer reader.Close()

	if *hasEdge {
		dumpEdge(reader, record.VertexID(*edgeFrom), record.VertexID(*edgeTo))
		return
	}
	dumpVertex(reader, record.VertexID(*vertex))
}

func dumpVertex(reader *chstore.CHGraphReader, v record.VertexID) {
	lat, lon, found, err := reader.GetVertex(v)
	if err != nil {
		log.Fatalf("get vertex %d: %v", v, err)
	}
	if !found {
		fmt.Printf("vertex %d: missing\n", v)
		return
	}
	fmt.Printf("vertex %d: (%.6f, %.6f)\n", v, lat, lon)

	it, err := reader.GetEdges(v)
	if err != nil {
		log.Fatalf("get edges %d: %v", v, err)
	}
	for it.MoveNext() {
		fmt.Printf("  -> %d  fwd=%.3f bwd=%.3f\n", it.Neighbour(), it.EdgeData().ForwardWeight, it.EdgeData().BackwardWeight)
	}
}

func dumpEdge(reader *chstore.CHGraphReader, v1, v2 record.VertexID) {
	data, found, err := reader.GetEdge(v1, v2)
	if err != nil {
		log.Fatalf("get edge %d->%d: %v", v1, v2, err)
	}
	if !found {
		fmt.Printf("edge %d->%d: missing\n", v1, v2)
		return
	}
	fmt.Printf("edge %d->%d: fwd=%.3f bwd=%.3f\n", v1, v2, data.ForwardWeight, data.BackwardWeight)
}
