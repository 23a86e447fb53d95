package network

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/polarnight-games/outpost31/internal/engine"
	"github.com/polarnight-games/outpost31/internal/events"
	"github.com/polarnight-games/outpost31/internal/platform/logger"
	"github.com/polarnight-games/outpost31/internal/platform/metrics"
)

// Hub maintains the set of active clients, broadcasts simulation events to
// them, and serializes all access to the simulation. The engine itself is
// single-threaded; the hub's mutex is the only lock in front of it.
type Hub struct {
	sim   *engine.Simulation
	simMu sync.Mutex

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	logger     *logger.Logger
}

// NewHub initializes a hub around a simulation and subscribes it to the
// event bus so every published event reaches connected clients.
func NewHub(sim *engine.Simulation, log *logger.Logger) *Hub {
	h := &Hub{
		sim:        sim,
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     log,
	}
	sim.Bus().SubscribeAll(h.onEvent)
	return h
}

// onEvent runs on the engine goroutine while it holds the simulation lock;
// it must not block, so a full broadcast buffer drops the frame.
func (h *Hub) onEvent(event events.GameEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to serialize event for broadcast", "error", err)
		metrics.Get().RecordWSError()
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		metrics.Get().RecordWSError()
	}
}

// Run starts the hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("websocket hub shutting down")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWSConnection(1)
			h.logger.Info("websocket client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.Get().RecordWSConnection(-1)
				h.logger.Info("websocket client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					metrics.Get().RecordWSMessage()
				default:
					close(client.send)
					delete(h.clients, client)
					metrics.Get().RecordWSConnection(-1)
				}
			}
			h.mu.Unlock()
		}
	}
}

// ApplyAction forwards an action to the simulation under the lock.
func (h *Hub) ApplyAction(actorID string, action engine.Action) error {
	h.simMu.Lock()
	defer h.simMu.Unlock()
	return h.sim.ApplyAction(actorID, action)
}

// AdvanceTurn advances the simulation one turn under the lock. Events reach
// clients through the bus subscription, not the return value.
func (h *Hub) AdvanceTurn() error {
	h.simMu.Lock()
	defer h.simMu.Unlock()
	_, err := h.sim.AdvanceTurn()
	return err
}

// Snapshot captures the simulation state under the lock.
func (h *Hub) Snapshot() *engine.Snapshot {
	h.simMu.Lock()
	defer h.simMu.Unlock()
	return h.sim.SnapshotState()
}
