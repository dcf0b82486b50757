// Package journal persists domain events in an append-only pebble store,
// so observers can replay the exchange's history without re-querying live
// state.
package journal

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"

	"github.com/efreitasn/minidex/internal/domain"
)

// Envelope wraps one domain event for storage and replay. Seq is a 1-based,
// gapless append sequence; Data is the event's own JSON encoding.
type Envelope struct {
	ID   string          `json:"id"`
	Seq  uint64          `json:"seq"`
	Kind string          `json:"kind"`
	At   time.Time       `json:"at"`
	Data json.RawMessage `json:"data"`
}

// Journal is an append-only event log backed by pebble.
// Keys: e:<8-byte big-endian seq>.
type Journal struct {
	mu  sync.Mutex
	db  *pebble.DB
	seq uint64
}

// eventKey builds the storage key for a sequence number.
func eventKey(seq uint64) []byte {
	key := make([]byte, 10)
	copy(key, "e:")
	binary.BigEndian.PutUint64(key[2:], seq)
	return key
}

// eventKeyUpperBound sorts after every event key.
var eventKeyUpperBound = []byte("e;")

// Open opens (or creates) the journal at path and restores the append
// sequence from the last stored key.
func Open(path string) (*Journal, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	j := &Journal{db: db}

	iter, err := db.NewIter(&pebble.IterOptions{
		LowerBound: eventKey(1),
		UpperBound: eventKeyUpperBound,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open journal iterator: %w", err)
	}
	if iter.Last() {
		j.seq = binary.BigEndian.Uint64(iter.Key()[2:])
	}
	if err := iter.Close(); err != nil {
		db.Close()
		return nil, fmt.Errorf("restore journal sequence: %w", err)
	}

	return j, nil
}

// Append stores the event under the next sequence number and returns its
// envelope. Writes are synced before Append returns.
func (j *Journal) Append(ev domain.Event) (Envelope, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode event: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	env := Envelope{
		ID:   uuid.New().String(),
		Seq:  j.seq + 1,
		Kind: ev.EventKind(),
		At:   time.Now().UTC(),
		Data: data,
	}
	value, err := json.Marshal(env)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode envelope: %w", err)
	}
	if err := j.db.Set(eventKey(env.Seq), value, pebble.Sync); err != nil {
		return Envelope{}, fmt.Errorf("append event %d: %w", env.Seq, err)
	}
	j.seq = env.Seq
	return env, nil
}

// List returns up to limit envelopes with Seq > afterSeq, in append order.
func (j *Journal) List(afterSeq uint64, limit int) ([]Envelope, error) {
	if limit <= 0 {
		return []Envelope{}, nil
	}

	iter, err := j.db.NewIter(&pebble.IterOptions{
		LowerBound: eventKey(afterSeq + 1),
		UpperBound: eventKeyUpperBound,
	})
	if err != nil {
		return nil, fmt.Errorf("open journal iterator: %w", err)
	}

	result := make([]Envelope, 0, limit)
	for valid := iter.First(); valid && len(result) < limit; valid = iter.Next() {
		var env Envelope
		if err := json.Unmarshal(iter.Value(), &env); err != nil {
			iter.Close()
			return nil, fmt.Errorf("decode envelope at %x: %w", iter.Key(), err)
		}
		result = append(result, env)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("close journal iterator: %w", err)
	}
	return result, nil
}

// Seq returns the sequence number of the most recently appended event,
// 0 when the journal is empty.
func (j *Journal) Seq() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.seq
}

// Close closes the underlying store.
func (j *Journal) Close() error {
	return j.db.Close()
}
