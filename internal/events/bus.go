package events

// Handler reacts to a published event. Handlers must not block: long
// operations are modeled as per-turn counters, never suspended control flow.
type Handler func(GameEvent)

// EventPersister defines how an event is durably stored. Persistence happens
// synchronously so the on-disk log matches the in-memory one exactly.
type EventPersister interface {
	Append(event GameEvent) error
}

// Bus is the single-threaded event backbone: an append-only audit log plus
// synchronous dispatch. Publishing invokes all registered handlers for the
// type immediately, in subscription order, which is fixed at initialization
// (environment, infection, psychology, AI, endgame). Handlers may publish
// further events; those dispatch recursively within the same turn pass.
type Bus struct {
	log       []GameEvent
	seq       uint64
	subs      map[EventType][]Handler
	allSubs   []Handler
	persister EventPersister
}

// NewBus creates an event bus with an optional persister.
func NewBus(persister EventPersister) *Bus {
	return &Bus{
		subs:      make(map[EventType][]Handler),
		persister: persister,
	}
}

// Subscribe registers a handler for one or more event types. Registration
// order determines dispatch order and must not change after initialization.
func (b *Bus) Subscribe(handler Handler, types ...EventType) {
	for _, t := range types {
		b.subs[t] = append(b.subs[t], handler)
	}
}

// SubscribeAll registers a handler for every event type. Used by the
// presentation transport so it can render without polling internal state.
func (b *Bus) SubscribeAll(handler Handler) {
	b.allSubs = append(b.allSubs, handler)
}

// Publish appends the event to the audit log, persists it, and dispatches
// it synchronously. Seq is assigned here; events are immutable afterwards.
// A persistence failure never blocks dispatch: the in-memory log stays
// authoritative and the error is returned for the caller to record.
func (b *Bus) Publish(turn int, typ EventType, actorID, targetID string, payload interface{}) (GameEvent, error) {
	b.seq++
	event := GameEvent{
		Seq:      b.seq,
		Turn:     turn,
		Type:     typ,
		ActorID:  actorID,
		TargetID: targetID,
		Payload:  payload,
	}
	b.log = append(b.log, event)

	var persistErr error
	if b.persister != nil {
		persistErr = b.persister.Append(event)
	}

	for _, h := range b.subs[typ] {
		h(event)
	}
	for _, h := range b.allSubs {
		h(event)
	}
	return event, persistErr
}

// Seq returns the sequence number of the most recently published event.
func (b *Bus) Seq() uint64 {
	return b.seq
}

// ResumeSeq moves the sequence counter forward, so events published after a
// snapshot restore continue the numbering of the persisted log. It never
// rewinds.
func (b *Bus) ResumeSeq(seq uint64) {
	if seq > b.seq {
		b.seq = seq
	}
}

// Log returns the full append-only history for audit and ending checks.
func (b *Bus) Log() []GameEvent {
	return b.log
}

// Len returns the number of events published so far. Callers use a
// before/after pair to collect the events one pass generated.
func (b *Bus) Len() int {
	return len(b.log)
}

// Since returns the events published at or after the given log index.
func (b *Bus) Since(idx int) []GameEvent {
	if idx < 0 || idx > len(b.log) {
		return nil
	}
	return b.log[idx:]
}
