package chstore

import "lintang/chreader/pkg/chstore/record"

// AdjacentEdge is one arc materialized by GetEdges(v): the neighbour,
// its directional data, and its shape (nil if the arc has no shape
// block counterpart, empty-but-non-nil if it has one with zero points).
type AdjacentEdge struct {
	Neighbour record.VertexID
	Data      CHEdgeData
	Shape     []record.Point
}

// EdgeIterator is the adjacency surface spec.md §4.4 asks for: a lazy,
// finite, restartable sequence of (neighbour, edgeData, intermediates)
// triples. It is "lazy" in the sense that the facade already did the
// one fetch-and-scan needed to materialize it (spec.md §4.4 step 2);
// moving through it afterward touches no cache or stream.
//
// This re-expresses the source's moveNext/current/reset enumerator
// idiom (spec.md §9) as a small stateful cursor instead of Go's
// push-style iterator, since callers need random re-entry via Reset
// and a terminal-after-exhaustion MoveNext, not a range-over-func.
type EdgeIterator struct {
	edges []AdjacentEdge
	pos   int
}

func newEdgeIterator(edges []AdjacentEdge) *EdgeIterator {
	return &EdgeIterator{edges: edges, pos: -1}
}

// MoveNext advances to the next edge, returning false once exhausted.
func (it *EdgeIterator) MoveNext() bool {
	if it.pos+1 >= len(it.edges) {
		return false
	}
	it.pos++
	return true
}

// Reset rewinds the iterator so it can be replayed from the start.
func (it *EdgeIterator) Reset() { it.pos = -1 }

// Len reports the total number of edges, independent of cursor position.
func (it *EdgeIterator) Len() int { return len(it.edges) }

func (it *EdgeIterator) current() AdjacentEdge {
	if it.pos < 0 || it.pos >= len(it.edges) {
		panic("chstore: EdgeIterator accessed before MoveNext or after exhaustion")
	}
	return it.edges[it.pos]
}

// Neighbour returns the current edge's target vertex.
func (it *EdgeIterator) Neighbour() record.VertexID { return it.current().Neighbour }

// EdgeData returns the current edge's directional data, as stored.
func (it *EdgeIterator) EdgeData() CHEdgeData { return it.current().Data }

// Intermediates returns the current edge's shape points, if any.
func (it *EdgeIterator) Intermediates() []record.Point { return it.current().Shape }

// IsInverted is always false: GetEdges(v) only ever walks v's own
// outgoing arc window, never a fallback endpoint (spec.md §4.4).
func (it *EdgeIterator) IsInverted() bool { return false }

// InvertedEdgeData computes the reverse-direction view of the current
// edge on demand (spec.md §4.4).
func (it *EdgeIterator) InvertedEdgeData() CHEdgeData { return it.current().Data.Inverted() }
