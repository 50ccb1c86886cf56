package chstore

import (
	"lintang/chreader/pkg/chstore/record"
	"lintang/chreader/pkg/geo"
)

// BoxEdge is one edge emitted by GetEdgesInBox: the pair of endpoints
// and the directional data as stored in V1's own arc window (GetEdges
// does no fallback to V2's block) — never reversed by the facade.
type BoxEdge struct {
	V1, V2 record.VertexID
	Data   CHEdgeData
}

// GetEdgesInBox implements spec.md §4.4's getEdges(box) operation: tile
// expansion, per-tile region fetch, vertex-set union, then the
// "v < u OR u ∉ V" dedup rule for the two-step adjacency walk.
func (r *CHGraphReader) GetEdgesInBox(box geo.BoundingBox) ([]BoxEdge, error) {
	tiles := geo.TileRange(box, r.zoom)

	inSet := make(map[record.VertexID]struct{})
	var vertices []record.VertexID
	for _, tile := range tiles {
		region, present, err := r.fetchRegion(tile)
		if err != nil {
			return nil, err
		}
		if !present {
			continue
		}
		for _, vid := range region.Vertices {
			if _, dup := inSet[vid]; dup {
				continue
			}
			inSet[vid] = struct{}{}
			vertices = append(vertices, vid)
		}
	}

	var edges []BoxEdge
	for _, v := range vertices {
		it, err := r.GetEdges(v)
		if err != nil {
			return nil, err
		}
		for it.MoveNext() {
			u := it.Neighbour()
			_, uInSet := inSet[u]
			if v < u || !uInSet {
				edges = append(edges, BoxEdge{V1: v, V2: u, Data: it.EdgeData()})
			}
		}
	}
	return edges, nil
}
