package rtest

import "errors"

var (
	errClosed     = errors.New("rtest: stream closed")
	errOutOfRange = errors.New("rtest: offset out of range")
	errShortRead  = errors.New("rtest: short read")
)

// MemStream is an in-memory Stream (record.Stream: io.ReaderAt + io.Closer)
// backed by a byte slice, used by every synthetic-stream test in this
// module instead of writing fixture files to disk.
type MemStream struct {
	data   []byte
	closed bool
}

func NewMemStream(data []byte) *MemStream {
	return &MemStream{data: data}
}

func (m *MemStream) ReadAt(p []byte, off int64) (int, error) {
	if m.closed {
		return 0, errClosed
	}
	if off < 0 || off > int64(len(m.data)) {
		return 0, errOutOfRange
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, errShortRead
	}
	return n, nil
}

func (m *MemStream) Close() error {
	m.closed = true
	return nil
}

// Len reports the total size of the backing buffer, for building
// prefix-sum location indices over several concatenated records.
func (m *MemStream) Len() int64 { return int64(len(m.data)) }
