package core

import (
	"sync"

	"encorechain/core/events"
)

// RecordedEvent is a journaled copy of an emitted event, flattened for RPC
// consumers.
type RecordedEvent struct {
	Sequence   uint64
	Type       string
	Attributes map[string]string
}

// journalCapacity bounds the in-memory event history. Older entries are
// discarded once the ring is full.
const journalCapacity = 512

// eventJournal retains the most recent events in a fixed-size ring. It
// implements events.Emitter so the ledger can fan committed events into it.
type eventJournal struct {
	mu   sync.Mutex
	next uint64
	ring []RecordedEvent
}

func newEventJournal() *eventJournal {
	return &eventJournal{ring: make([]RecordedEvent, 0, journalCapacity)}
}

// Emit implements events.Emitter.
func (j *eventJournal) Emit(e events.Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	record := RecordedEvent{
		Sequence:   j.next,
		Type:       e.EventType(),
		Attributes: e.Attributes(),
	}
	j.next++
	if len(j.ring) < journalCapacity {
		j.ring = append(j.ring, record)
		return
	}
	copy(j.ring, j.ring[1:])
	j.ring[len(j.ring)-1] = record
}

// Recent returns up to limit of the newest events, oldest first. A
// non-positive limit returns the full retained window.
func (j *eventJournal) Recent(limit int) []RecordedEvent {
	j.mu.Lock()
	defer j.mu.Unlock()
	if limit <= 0 || limit > len(j.ring) {
		limit = len(j.ring)
	}
	out := make([]RecordedEvent, limit)
	copy(out, j.ring[len(j.ring)-limit:])
	return out
}
