package events

// Event represents a structured state change committed by the ledger.
type Event interface {
	EventType() string
	// Attributes renders the event payload as flat string pairs for RPC
	// consumers and log sinks.
	Attributes() map[string]string
}

// Emitter broadcasts events to downstream subscribers (e.g. RPC, indexers).
type Emitter interface {
	Emit(Event)
}

// NoopEmitter is a helper that satisfies the Emitter interface while
// discarding all events. It is useful when a component wants to optionally
// expose events.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(Event) {}
