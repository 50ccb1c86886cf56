package record

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/DataDog/zstd"

	"lintang/chreader/pkg/chstore/cherrors"
)

// Stream is the minimal contract the deserializer needs from the
// backing storage: seekable, byte-addressable, owned exclusively by one
// reader (spec.md §5). *os.File satisfies it directly.
type Stream interface {
	io.ReaderAt
	io.Closer
}

// Deserializer pulls one typed record from [offset, offset+length) of
// the backing stream on demand; it never scans beyond the bounds it is
// given. The same slice always deserializes to a value-equal record
// (spec.md §4.1's repeatability contract), since the format carries no
// hidden mutable state.
type Deserializer struct {
	stream Stream
}

// NewDeserializer wraps an already-open stream. The deserializer does
// not own the Stream's lifetime; the caller (the graph facade) closes it.
func NewDeserializer(stream Stream) *Deserializer {
	return &Deserializer{stream: stream}
}

func (d *Deserializer) slice(offset, length int64) ([]byte, error) {
	if length < 0 {
		return nil, cherrors.Deserialization(nil, "negative slice length %d at offset %d", length, offset)
	}
	buf := make([]byte, length)
	if _, err := d.stream.ReadAt(buf, offset); err != nil {
		return nil, cherrors.Deserialization(err, "read %d bytes at offset %d", length, offset)
	}
	return buf, nil
}

func maybeDecompress(buf []byte, compressed bool) ([]byte, error) {
	if !compressed {
		return buf, nil
	}
	out, err := zstd.Decompress(nil, buf)
	if err != nil {
		return nil, cherrors.Deserialization(err, "zstd decompress %d byte slice", len(buf))
	}
	return out, nil
}

// ReadBlock materializes the Block at [offset, offset+length).
func (d *Deserializer) ReadBlock(offset, length int64, compressed bool) (Block, error) {
	raw, err := d.slice(offset, length)
	if err != nil {
		return Block{}, err
	}
	raw, err = maybeDecompress(raw, compressed)
	if err != nil {
		return Block{}, err
	}
	return decodeBlock(raw)
}

// ReadBlockCoordinates materializes the BlockCoordinates at [offset, offset+length).
func (d *Deserializer) ReadBlockCoordinates(offset, length int64, compressed bool) (BlockCoordinates, error) {
	raw, err := d.slice(offset, length)
	if err != nil {
		return BlockCoordinates{}, err
	}
	raw, err = maybeDecompress(raw, compressed)
	if err != nil {
		return BlockCoordinates{}, err
	}
	return decodeBlockCoordinates(raw)
}

// ReadRegion materializes the Region at [offset, offset+length).
func (d *Deserializer) ReadRegion(offset, length int64, compressed bool) (Region, error) {
	raw, err := d.slice(offset, length)
	if err != nil {
		return Region{}, err
	}
	raw, err = maybeDecompress(raw, compressed)
	if err != nil {
		return Region{}, err
	}
	return decodeRegion(raw)
}

// --- wire layout ---
//
// All integers are little-endian. This layout is a paired contract with
// whatever writer produced the stream (spec.md's Open Questions note
// the byte layout is out of this spec's scope); it is documented here,
// not derived, and DESIGN.md records the concrete choice made for this
// implementation.
//
// Block:
//   uint32 vertexCount
//   vertexCount * { float32 lat; float32 lon; uint32 arcIndex; uint32 arcCount }
//   uint32 arcCount
//   arcCount * { uint32 targetID; float32 fwdWeight; float32 bwdWeight;
//                uint32 fwdContractedID; uint32 bwdContractedID;
//                uint8 contractedDirectionBits; uint32 tagsValue }
//
// BlockCoordinates:
//   uint32 arcCount
//   arcCount * { uint32 pointCount; pointCount * { float64 lat; float64 lon } }
//
// Region:
//   uint32 vertexCount
//   vertexCount * uint32 vertexID

func decodeBlock(raw []byte) (Block, error) {
	r := newByteReader(raw)

	vertexCount, err := r.u32()
	if err != nil {
		return Block{}, cherrors.Deserialization(err, "read block vertex count")
	}
	vertices := make([]Vertex, vertexCount)
	for i := range vertices {
		lat, err := r.f32()
		if err != nil {
			return Block{}, cherrors.Deserialization(err, "read vertex %d lat", i)
		}
		lon, err := r.f32()
		if err != nil {
			return Block{}, cherrors.Deserialization(err, "read vertex %d lon", i)
		}
		arcIndex, err := r.u32()
		if err != nil {
			return Block{}, cherrors.Deserialization(err, "read vertex %d arc index", i)
		}
		arcCount, err := r.u32()
		if err != nil {
			return Block{}, cherrors.Deserialization(err, "read vertex %d arc count", i)
		}
		vertices[i] = Vertex{Lat: lat, Lon: lon, ArcIndex: arcIndex, ArcCount: arcCount}
	}

	arcCount, err := r.u32()
	if err != nil {
		return Block{}, cherrors.Deserialization(err, "read block arc count")
	}
	arcs := make([]Arc, arcCount)
	for i := range arcs {
		target, err := r.u32()
		if err != nil {
			return Block{}, cherrors.Deserialization(err, "read arc %d target", i)
		}
		fwdW, err := r.f32()
		if err != nil {
			return Block{}, cherrors.Deserialization(err, "read arc %d forward weight", i)
		}
		bwdW, err := r.f32()
		if err != nil {
			return Block{}, cherrors.Deserialization(err, "read arc %d backward weight", i)
		}
		fwdC, err := r.u32()
		if err != nil {
			return Block{}, cherrors.Deserialization(err, "read arc %d forward contracted id", i)
		}
		bwdC, err := r.u32()
		if err != nil {
			return Block{}, cherrors.Deserialization(err, "read arc %d backward contracted id", i)
		}
		dirBits, err := r.u8()
		if err != nil {
			return Block{}, cherrors.Deserialization(err, "read arc %d direction bits", i)
		}
		tags, err := r.u32()
		if err != nil {
			return Block{}, cherrors.Deserialization(err, "read arc %d tags value", i)
		}
		arcs[i] = Arc{
			TargetID:                VertexID(target),
			ForwardWeight:           fwdW,
			BackwardWeight:          bwdW,
			ForwardContractedID:     VertexID(fwdC),
			BackwardContractedID:    VertexID(bwdC),
			ContractedDirectionBits: dirBits,
			TagsValue:               tags,
		}
	}

	if !r.exhausted() {
		return Block{}, cherrors.Deserialization(nil, "block record has %d trailing bytes", r.remaining())
	}
	return Block{Vertices: vertices, Arcs: arcs}, nil
}

func decodeBlockCoordinates(raw []byte) (BlockCoordinates, error) {
	r := newByteReader(raw)

	arcCount, err := r.u32()
	if err != nil {
		return BlockCoordinates{}, cherrors.Deserialization(err, "read shape block arc count")
	}
	arcs := make([]ShapeArc, arcCount)
	for i := range arcs {
		pointCount, err := r.u32()
		if err != nil {
			return BlockCoordinates{}, cherrors.Deserialization(err, "read shape arc %d point count", i)
		}
		points := make([]Point, pointCount)
		for j := range points {
			lat, err := r.f64()
			if err != nil {
				return BlockCoordinates{}, cherrors.Deserialization(err, "read shape arc %d point %d lat", i, j)
			}
			lon, err := r.f64()
			if err != nil {
				return BlockCoordinates{}, cherrors.Deserialization(err, "read shape arc %d point %d lon", i, j)
			}
			points[j] = Point{Lat: lat, Lon: lon}
		}
		arcs[i] = ShapeArc{Intermediates: points}
	}

	if !r.exhausted() {
		return BlockCoordinates{}, cherrors.Deserialization(nil, "shape block record has %d trailing bytes", r.remaining())
	}
	return BlockCoordinates{Arcs: arcs}, nil
}

func decodeRegion(raw []byte) (Region, error) {
	r := newByteReader(raw)

	vertexCount, err := r.u32()
	if err != nil {
		return Region{}, cherrors.Deserialization(err, "read region vertex count")
	}
	vertices := make([]VertexID, vertexCount)
	for i := range vertices {
		v, err := r.u32()
		if err != nil {
			return Region{}, cherrors.Deserialization(err, "read region vertex %d", i)
		}
		vertices[i] = VertexID(v)
	}

	if !r.exhausted() {
		return Region{}, cherrors.Deserialization(nil, "region record has %d trailing bytes", r.remaining())
	}
	return Region{Vertices: vertices}, nil
}

// byteReader is a tiny fixed-buffer cursor; it exists so the decode
// functions above read like a flat sequence of typed fields instead of
// manual offset bookkeeping.
type byteReader struct {
	buf []byte
	pos int
}

func newByteReader(buf []byte) *byteReader { return &byteReader{buf: buf} }

func (r *byteReader) remaining() int   { return len(r.buf) - r.pos }
func (r *byteReader) exhausted() bool  { return r.remaining() == 0 }

func (r *byteReader) take(n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, fmt.Errorf("need %d bytes, have %d", n, r.remaining())
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *byteReader) u8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *byteReader) u32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *byteReader) f32() (float32, error) {
	u, err := r.u32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

func (r *byteReader) f64() (float64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}
