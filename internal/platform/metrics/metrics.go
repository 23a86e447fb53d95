// Package metrics provides observability for the simulation server.
// Counters are cheap enough to record on every turn pass.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance and simulation metrics.
type Collector struct {
	// Turn metrics
	TurnCount      int64
	TurnLatencySum int64 // nanoseconds
	TurnLatencyMax int64

	// Event metrics
	EventsPublished  int64
	EventWriteErrors int64

	// Simulation metrics
	DetectionContests int64
	Infections        int64
	Reveals           int64
	ActionsRejected   int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesOut       int64
	WSErrors            int64

	StartTime    time.Time
	lastTurnTime time.Time
	mu           sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordTurn records a completed turn pass.
func (c *Collector) RecordTurn(latency time.Duration) {
	atomic.AddInt64(&c.TurnCount, 1)
	atomic.AddInt64(&c.TurnLatencySum, int64(latency))

	if int64(latency) > atomic.LoadInt64(&c.TurnLatencyMax) {
		atomic.StoreInt64(&c.TurnLatencyMax, int64(latency))
	}

	c.mu.Lock()
	c.lastTurnTime = time.Now()
	c.mu.Unlock()
}

// RecordEvent records an event published to the bus.
func (c *Collector) RecordEvent(persistErr error) {
	atomic.AddInt64(&c.EventsPublished, 1)
	if persistErr != nil {
		atomic.AddInt64(&c.EventWriteErrors, 1)
	}
}

// RecordDetection records one opposed stealth contest.
func (c *Collector) RecordDetection() {
	atomic.AddInt64(&c.DetectionContests, 1)
}

// RecordInfection records a communion or assimilation conversion.
func (c *Collector) RecordInfection() {
	atomic.AddInt64(&c.Infections, 1)
}

// RecordReveal records a terminal unmasking.
func (c *Collector) RecordReveal() {
	atomic.AddInt64(&c.Reveals, 1)
}

// RecordRejection records a rejected player action.
func (c *Collector) RecordRejection() {
	atomic.AddInt64(&c.ActionsRejected, 1)
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records an outgoing WebSocket message.
func (c *Collector) RecordWSMessage() {
	atomic.AddInt64(&c.WSMessagesOut, 1)
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	turnCount := atomic.LoadInt64(&c.TurnCount)
	var turnAvg float64
	if turnCount > 0 {
		turnAvg = float64(atomic.LoadInt64(&c.TurnLatencySum)) / float64(turnCount) / 1e6 // ms
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"turns": map[string]interface{}{
			"count":          turnCount,
			"avg_latency_ms": turnAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.TurnLatencyMax)) / 1e6,
			"last_turn":      c.lastTurnTime.Format(time.RFC3339),
		},

		"events": map[string]interface{}{
			"published":    atomic.LoadInt64(&c.EventsPublished),
			"write_errors": atomic.LoadInt64(&c.EventWriteErrors),
		},

		"simulation": map[string]interface{}{
			"detection_contests": atomic.LoadInt64(&c.DetectionContests),
			"infections":         atomic.LoadInt64(&c.Infections),
			"reveals":            atomic.LoadInt64(&c.Reveals),
			"actions_rejected":   atomic.LoadInt64(&c.ActionsRejected),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		json.NewEncoder(w).Encode(collector.Snapshot())
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		fmt.Fprintf(w, "# HELP outpost_turn_count Total turn passes\n")
		fmt.Fprintf(w, "# TYPE outpost_turn_count counter\n")
		fmt.Fprintf(w, "outpost_turn_count %d\n\n", atomic.LoadInt64(&c.TurnCount))

		fmt.Fprintf(w, "# HELP outpost_turn_latency_max_ms Maximum turn latency\n")
		fmt.Fprintf(w, "# TYPE outpost_turn_latency_max_ms gauge\n")
		fmt.Fprintf(w, "outpost_turn_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.TurnLatencyMax))/1e6)

		fmt.Fprintf(w, "# HELP outpost_events_published Total events published\n")
		fmt.Fprintf(w, "# TYPE outpost_events_published counter\n")
		fmt.Fprintf(w, "outpost_events_published %d\n\n", atomic.LoadInt64(&c.EventsPublished))

		fmt.Fprintf(w, "# HELP outpost_event_write_errors Total event persistence errors\n")
		fmt.Fprintf(w, "# TYPE outpost_event_write_errors counter\n")
		fmt.Fprintf(w, "outpost_event_write_errors %d\n\n", atomic.LoadInt64(&c.EventWriteErrors))

		fmt.Fprintf(w, "# HELP outpost_detection_contests Total stealth contests rolled\n")
		fmt.Fprintf(w, "# TYPE outpost_detection_contests counter\n")
		fmt.Fprintf(w, "outpost_detection_contests %d\n\n", atomic.LoadInt64(&c.DetectionContests))

		fmt.Fprintf(w, "# HELP outpost_infections Total agent conversions\n")
		fmt.Fprintf(w, "# TYPE outpost_infections counter\n")
		fmt.Fprintf(w, "outpost_infections %d\n\n", atomic.LoadInt64(&c.Infections))

		fmt.Fprintf(w, "# HELP outpost_reveals Total terminal reveals\n")
		fmt.Fprintf(w, "# TYPE outpost_reveals counter\n")
		fmt.Fprintf(w, "outpost_reveals %d\n\n", atomic.LoadInt64(&c.Reveals))

		fmt.Fprintf(w, "# HELP outpost_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE outpost_ws_connections gauge\n")
		fmt.Fprintf(w, "outpost_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP outpost_ws_messages_total Total outgoing WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE outpost_ws_messages_total counter\n")
		fmt.Fprintf(w, "outpost_ws_messages_total %d\n", atomic.LoadInt64(&c.WSMessagesOut))
	}
}
