// Package blockindex implements spec.md §4.2: translating a block
// ordinal into the (offset, length) stream slice that holds it, for
// either the vertex/arc zone or the parallel shape zone.
package blockindex

import (
	"lintang/chreader/pkg/chstore/cherrors"
	"lintang/chreader/pkg/chstore/record"
)

// Stream picks which of the two parallel prefix-sum arrays to resolve
// against: the vertex/arc blocks, or the shape blocks.
type Stream int

const (
	Blocks Stream = iota
	Shapes
)

// Index holds the two prefix-sum arrays and base offsets supplied at
// construction (spec.md §6). It is immutable once built and may be
// shared by reference across independent readers (spec.md §5).
type Index struct {
	blockLoc  record.LocationIndex
	shapeLoc  record.LocationIndex
	startBlk  int64
	startShp  int64
	blockSize uint32
}

// New builds an Index over the supplied prefix-sum arrays. blockSize
// must be the same constant the writer used; it is not derived.
func New(blockLoc, shapeLoc record.LocationIndex, startOfBlocks, startOfShapes int64, blockSize uint32) *Index {
	return &Index{
		blockLoc:  blockLoc,
		shapeLoc:  shapeLoc,
		startBlk:  startOfBlocks,
		startShp:  startOfShapes,
		blockSize: blockSize,
	}
}

// BlockSize returns the constant blockSize vertex ids were bucketed by.
func (idx *Index) BlockSize() uint32 { return idx.blockSize }

// Resolve implements spec.md §4.2's resolve(blockId, stream) operation.
// blockId must have been produced by record.BlockIDOf on a vertex the
// caller already believes exists; an out-of-range ordinal is a
// category-4 contract violation (spec.md §7), not a recoverable error,
// because construction guarantees every valid vertex maps inside range.
func (idx *Index) Resolve(id record.BlockID, stream Stream) (offset, length int64) {
	ordinal := id.Ordinal(idx.blockSize)

	var loc record.LocationIndex
	var base int64
	switch stream {
	case Blocks:
		loc, base = idx.blockLoc, idx.startBlk
	case Shapes:
		loc, base = idx.shapeLoc, idx.startShp
	default:
		cherrors.ContractViolation("unknown block index stream %d", stream)
	}

	if ordinal >= uint32(len(loc)) {
		cherrors.ContractViolation("block ordinal %d out of range (have %d blocks)", ordinal, len(loc))
	}
	return loc.Slice(base, ordinal)
}

// NumBlocks reports how many block ordinals the vertex-block index
// covers; used only to bound-check before calling Resolve.
func (idx *Index) NumBlocks() uint32 { return uint32(len(idx.blockLoc)) }

// NumShapeBlocks reports how many block ordinals the shape index
// covers. It may differ from NumBlocks if a writer omits shape data
// for trailing blocks entirely.
func (idx *Index) NumShapeBlocks() uint32 { return uint32(len(idx.shapeLoc)) }
