package chstore

import "lintang/chreader/pkg/chstore/record"

// CHEdgeData is a value-copy of one CH arc's directional payload
// (spec.md §3's "CH arc", minus the target id, which the caller already
// knows from context — either as the GetEdge argument or as
// EdgeIterator.Neighbour).
type CHEdgeData struct {
	ForwardWeight           float32
	BackwardWeight          float32
	ForwardContractedID     record.VertexID
	BackwardContractedID    record.VertexID
	ContractedDirectionBits uint8
	TagsValue               uint32
}

func chEdgeDataFromArc(a record.Arc) CHEdgeData {
	return CHEdgeData{
		ForwardWeight:           a.ForwardWeight,
		BackwardWeight:          a.BackwardWeight,
		ForwardContractedID:     a.ForwardContractedID,
		BackwardContractedID:    a.BackwardContractedID,
		ContractedDirectionBits: a.ContractedDirectionBits,
		TagsValue:               a.TagsValue,
	}
}

// Inverted returns the opposite-direction view of this edge data: the
// forward/backward weight and contracted-id pairs are swapped, since
// those are defined relative to the direction of travel. The facade
// itself never does this swap on stored data (spec.md §4.4) — it is
// only computed on demand for EdgeIterator.InvertedEdgeData.
//
// ContractedDirectionBits and TagsValue are left unchanged under
// inversion. Both are indices into direction-agnostic external tables
// in this format (the contraction bookkeeping bits and the tag-value
// index respectively), not per-direction magnitudes like the weights —
// this resolves spec.md §9's open question about InvertedEdgeData's
// treatment of those two fields for this implementation; see DESIGN.md.
func (d CHEdgeData) Inverted() CHEdgeData {
	return CHEdgeData{
		ForwardWeight:           d.BackwardWeight,
		BackwardWeight:          d.ForwardWeight,
		ForwardContractedID:     d.BackwardContractedID,
		BackwardContractedID:    d.ForwardContractedID,
		ContractedDirectionBits: d.ContractedDirectionBits,
		TagsValue:               d.TagsValue,
	}
}
