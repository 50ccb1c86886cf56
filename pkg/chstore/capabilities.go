package chstore

import (
	"lintang/chreader/pkg/chstore/record"
	"lintang/chreader/pkg/geo"
)

// The facade is polymorphic over this capability set (spec.md §4.4,
// §9): vertex-lookup, edge-lookup, adjacency, edge-shape, bounding-box,
// and profile-query. Other read-only graph sources in the surrounding
// system (pkg/osmsource's vertex-only store, for one) may implement a
// subset of these without implementing CHGraphReader's full surface.
type VertexLookup interface {
	GetVertex(v record.VertexID) (lat, lon float32, found bool, err error)
}

type EdgeLookup interface {
	GetEdge(v1, v2 record.VertexID) (CHEdgeData, bool, error)
	ContainsEdge(v1, v2 record.VertexID) bool
}

type AdjacencyLookup interface {
	GetEdges(v record.VertexID) (*EdgeIterator, error)
}

type ShapeLookup interface {
	GetEdgeShape(v1, v2 record.VertexID) ([]record.Point, bool, error)
}

type BoundingBoxLookup interface {
	GetEdgesInBox(box geo.BoundingBox) ([]BoxEdge, error)
}

type ProfileQuery interface {
	SupportsProfile(profile string) bool
}

var (
	_ VertexLookup      = (*CHGraphReader)(nil)
	_ EdgeLookup        = (*CHGraphReader)(nil)
	_ AdjacencyLookup   = (*CHGraphReader)(nil)
	_ ShapeLookup       = (*CHGraphReader)(nil)
	_ BoundingBoxLookup = (*CHGraphReader)(nil)
	_ ProfileQuery      = (*CHGraphReader)(nil)
)
