package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchInSubscriptionOrder(t *testing.T) {
	bus := NewBus(nil)
	var order []string
	bus.Subscribe(func(GameEvent) { order = append(order, "first") }, EventTypeTurnAdvance)
	bus.Subscribe(func(GameEvent) { order = append(order, "second") }, EventTypeTurnAdvance)
	bus.Subscribe(func(GameEvent) { order = append(order, "third") }, EventTypeTurnAdvance)

	bus.Publish(1, EventTypeTurnAdvance, "", "", nil)

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestHandlersOnlySeeSubscribedTypes(t *testing.T) {
	bus := NewBus(nil)
	calls := 0
	bus.Subscribe(func(GameEvent) { calls++ }, EventTypeNoise)

	bus.Publish(1, EventTypeTurnAdvance, "", "", nil)
	bus.Publish(1, EventTypeNoise, "A1", "", nil)
	bus.Publish(1, EventTypePanic, "A1", "", nil)

	assert.Equal(t, 1, calls)
}

func TestSubscribeAllSeesEverything(t *testing.T) {
	bus := NewBus(nil)
	var seen []EventType
	bus.SubscribeAll(func(e GameEvent) { seen = append(seen, e.Type) })

	bus.Publish(1, EventTypeTurnAdvance, "", "", nil)
	bus.Publish(1, EventTypeNoise, "A1", "", nil)

	assert.Equal(t, []EventType{EventTypeTurnAdvance, EventTypeNoise}, seen)
}

func TestSeqIsMonotonicAndLogAppendOnly(t *testing.T) {
	bus := NewBus(nil)
	for i := 0; i < 5; i++ {
		bus.Publish(1, EventTypeNoise, "A1", "", nil)
	}

	log := bus.Log()
	require.Len(t, log, 5)
	for i, e := range log {
		assert.Equal(t, uint64(i+1), e.Seq)
	}
	assert.Equal(t, 5, bus.Len())
	assert.Equal(t, uint64(5), bus.Seq())
}

func TestRecursivePublishDispatchesInline(t *testing.T) {
	bus := NewBus(nil)
	bus.Subscribe(func(e GameEvent) {
		bus.Publish(e.Turn, EventTypeStationAlert, "", "", nil)
	}, EventTypeReveal)

	bus.Publish(3, EventTypeReveal, "A3", "", nil)

	log := bus.Log()
	require.Len(t, log, 2)
	assert.Equal(t, EventTypeReveal, log[0].Type)
	assert.Equal(t, EventTypeStationAlert, log[1].Type)
	assert.Equal(t, uint64(2), log[1].Seq)
}

func TestSince(t *testing.T) {
	bus := NewBus(nil)
	bus.Publish(1, EventTypeNoise, "A1", "", nil)
	mark := bus.Len()
	bus.Publish(1, EventTypePanic, "A2", "", nil)
	bus.Publish(1, EventTypeReveal, "A3", "", nil)

	tail := bus.Since(mark)
	require.Len(t, tail, 2)
	assert.Equal(t, EventTypePanic, tail[0].Type)
	assert.Equal(t, EventTypeReveal, tail[1].Type)

	assert.Empty(t, bus.Since(bus.Len()))
	assert.Nil(t, bus.Since(-1))
	assert.Nil(t, bus.Since(bus.Len()+1))
}

type recordingPersister struct {
	events []GameEvent
	err    error
}

func (p *recordingPersister) Append(e GameEvent) error {
	p.events = append(p.events, e)
	return p.err
}

func TestPersisterReceivesEveryEvent(t *testing.T) {
	p := &recordingPersister{}
	bus := NewBus(p)
	bus.Publish(1, EventTypeNoise, "A1", "", nil)
	bus.Publish(2, EventTypePanic, "A2", "", nil)

	require.Len(t, p.events, 2)
	assert.Equal(t, uint64(1), p.events[0].Seq)
	assert.Equal(t, EventTypePanic, p.events[1].Type)
}

func TestPersisterErrorDoesNotBlockDispatch(t *testing.T) {
	p := &recordingPersister{err: errors.New("disk full")}
	bus := NewBus(p)
	called := false
	bus.Subscribe(func(GameEvent) { called = true }, EventTypeNoise)

	_, err := bus.Publish(1, EventTypeNoise, "A1", "", nil)

	assert.EqualError(t, err, "disk full")
	assert.True(t, called, "handler must run even when persistence fails")
	assert.Equal(t, 1, bus.Len())
}

func TestPublishReturnsOwnPersistError(t *testing.T) {
	p := &recordingPersister{}
	bus := NewBus(p)

	// A handler that publishes recursively with a clean persister must not
	// mask the outer event's write failure.
	bus.Subscribe(func(e GameEvent) {
		p.err = nil
		bus.Publish(e.Turn, EventTypeStationAlert, "", "", nil)
	}, EventTypeReveal)

	p.err = errors.New("disk full")
	_, err := bus.Publish(3, EventTypeReveal, "A3", "", nil)

	assert.EqualError(t, err, "disk full")
}

func TestResumeSeqNeverRewinds(t *testing.T) {
	bus := NewBus(nil)
	bus.ResumeSeq(10)
	e, _ := bus.Publish(1, EventTypeNoise, "A1", "", nil)
	assert.Equal(t, uint64(11), e.Seq)

	bus.ResumeSeq(5)
	e, _ = bus.Publish(1, EventTypeNoise, "A1", "", nil)
	assert.Equal(t, uint64(12), e.Seq)
}
