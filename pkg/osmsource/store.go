// Package osmsource is the "SQL-backed OSM data source" spec.md §1
// names as a sibling of the CH reader and explicitly calls "a thin
// adapter over standard facilities". Apart from the PutVertex seeding
// helper it only reads, and it implements only chstore.VertexLookup:
// it has no CH arcs, shortcuts, or shapes of
// its own, only the raw vertex coordinates a writer would have sourced
// them from. This lets chstore's capability interfaces (spec.md §9)
// plausibly be satisfied by more than the one CH variant.
package osmsource

import (
	"encoding/binary"
	"math"

	"github.com/cockroachdb/pebble"

	"lintang/chreader/pkg/chstore/record"
)

// Store is a pebble-backed key-value table mapping a VertexID to its
// (lat, lon), mirroring the teacher's pkg/kv.KVDB: a thin wrapper over
// a pebble.DB, no migrations, no query planner.
type Store struct {
	db *pebble.DB
}

// Open wraps an already-open pebble database. Store does not create the
// database and, apart from PutVertex, does not populate it; ingestion is
// explicitly out of scope
// (spec.md §1: "Writing / constructing the serialized stream" and CSV
// ingestion are both non-goals, and this store follows the same rule).
func Open(db *pebble.DB) *Store {
	return &Store{db: db}
}

func vertexKey(v record.VertexID) []byte {
	var key [4]byte
	binary.BigEndian.PutUint32(key[:], uint32(v))
	return key[:]
}

// GetVertex implements chstore.VertexLookup. A missing key is "not
// found", not an error, matching spec.md §7 category 1's contract.
func (s *Store) GetVertex(v record.VertexID) (lat, lon float32, found bool, err error) {
	val, closer, err := s.db.Get(vertexKey(v))
	if err == pebble.ErrNotFound {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, err
	}
	defer closer.Close()

	if len(val) != 8 {
		return 0, 0, false, nil
	}
	lat = math.Float32frombits(binary.BigEndian.Uint32(val[0:4]))
	lon = math.Float32frombits(binary.BigEndian.Uint32(val[4:8]))
	return lat, lon, true, nil
}

// PutVertex is a test/seeding helper, not a production ingestion path:
// it exists so this package's own tests can populate a pebble database
// without depending on chstore's synthetic-stream test helpers.
func (s *Store) PutVertex(v record.VertexID, lat, lon float32) error {
	var val [8]byte
	binary.BigEndian.PutUint32(val[0:4], math.Float32bits(lat))
	binary.BigEndian.PutUint32(val[4:8], math.Float32bits(lon))
	return s.db.Set(vertexKey(v), val[:], pebble.Sync)
}

// Close closes the backing database.
func (s *Store) Close() error { return s.db.Close() }
