// Package rtest builds the tiny synthetic streams spec.md §8 asks for
// (S1-S6 and friends). It is a test-only encoder for the wire layout
// documented in record/deserializer.go: the reader is the spec'd
// surface, writing is explicitly out of scope for production code, but
// something has to produce bytes for the reader's own tests to read.
package rtest

import (
	"bytes"
	"encoding/binary"
	"math"

	"lintang/chreader/pkg/chstore/record"
)

// EncodeBlock writes vertices and arcs in the layout decodeBlock expects.
func EncodeBlock(vertices []record.Vertex, arcs []record.Arc) []byte {
	buf := new(bytes.Buffer)
	putU32(buf, uint32(len(vertices)))
	for _, v := range vertices {
		putF32(buf, v.Lat)
		putF32(buf, v.Lon)
		putU32(buf, v.ArcIndex)
		putU32(buf, v.ArcCount)
	}
	putU32(buf, uint32(len(arcs)))
	for _, a := range arcs {
		putU32(buf, uint32(a.TargetID))
		putF32(buf, a.ForwardWeight)
		putF32(buf, a.BackwardWeight)
		putU32(buf, uint32(a.ForwardContractedID))
		putU32(buf, uint32(a.BackwardContractedID))
		buf.WriteByte(a.ContractedDirectionBits)
		putU32(buf, a.TagsValue)
	}
	return buf.Bytes()
}

// EncodeBlockCoordinates writes the parallel shape-arc list.
func EncodeBlockCoordinates(arcs []record.ShapeArc) []byte {
	buf := new(bytes.Buffer)
	putU32(buf, uint32(len(arcs)))
	for _, a := range arcs {
		putU32(buf, uint32(len(a.Intermediates)))
		for _, p := range a.Intermediates {
			putF64(buf, p.Lat)
			putF64(buf, p.Lon)
		}
	}
	return buf.Bytes()
}

// EncodeRegion writes a tile's vertex-membership list.
func EncodeRegion(vertices []record.VertexID) []byte {
	buf := new(bytes.Buffer)
	putU32(buf, uint32(len(vertices)))
	for _, v := range vertices {
		putU32(buf, uint32(v))
	}
	return buf.Bytes()
}

func putU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func putF32(buf *bytes.Buffer, v float32) {
	putU32(buf, math.Float32bits(v))
}

func putF64(buf *bytes.Buffer, v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	buf.Write(b[:])
}
