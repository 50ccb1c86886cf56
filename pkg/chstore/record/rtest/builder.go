package rtest

import "lintang/chreader/pkg/chstore/record"

// Builder concatenates records and tracks their prefix-sum location
// index as it goes, mirroring how blocksIndex/shapesIndex/regionIndex
// are described in spec.md §6.
type Builder struct {
	buf  []byte
	locs record.LocationIndex
}

func NewBuilder() *Builder { return &Builder{} }

// Append adds one record's already-encoded bytes and extends the
// prefix-sum index by its length.
func (b *Builder) Append(chunk []byte) {
	b.buf = append(b.buf, chunk...)
	total := uint64(len(b.buf))
	b.locs = append(b.locs, total)
}

func (b *Builder) Bytes() []byte                    { return b.buf }
func (b *Builder) LocationIndex() record.LocationIndex { return append(record.LocationIndex{}, b.locs...) }
func (b *Builder) Offset() int64                    { return int64(len(b.buf)) }
