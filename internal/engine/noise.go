package engine

import (
	"github.com/polarnight-games/outpost31/internal/events"
)

// NoiseField tracks how loud each room is during the current turn. Noise
// feeds the detection contest and draws AI investigation. Units halve each
// turn so a single bang fades after a couple of passes.
type NoiseField struct {
	sim   *Simulation
	rooms map[string]int
}

// NewNoiseField creates an empty noise field.
func NewNoiseField(sim *Simulation) *NoiseField {
	return &NoiseField{sim: sim, rooms: make(map[string]int)}
}

// Record adds noise units to a room and publishes the audit event. An empty
// room name means a corridor tile; corridor noise is attributed to the
// nearest room by the caller or dropped.
func (nf *NoiseField) Record(actorID, room string, units int) {
	if room == "" || units <= 0 {
		return
	}
	nf.rooms[room] += units
	nf.sim.emit(events.EventTypeNoise, actorID, "", events.NoisePayload{
		Units: units,
		Room:  room,
	})
}

// Level returns the current noise units in a room.
func (nf *NoiseField) Level(room string) int {
	return nf.rooms[room]
}

// Decay halves every room's noise. Runs in the environment phase.
func (nf *NoiseField) Decay() {
	for room, units := range nf.rooms {
		units /= 2
		if units <= 0 {
			delete(nf.rooms, room)
			continue
		}
		nf.rooms[room] = units
	}
}

// LoudestRoom returns the room with the most noise, scanning rooms in map
// construction order so ties resolve deterministically. Returns "" when the
// station is quiet.
func (nf *NoiseField) LoudestRoom() string {
	best := ""
	bestUnits := 0
	for _, r := range nf.sim.station.Rooms() {
		if u := nf.rooms[r.Name]; u > bestUnits {
			best = r.Name
			bestUnits = u
		}
	}
	return best
}

// snapshot returns a copy of the per-room units for persistence.
func (nf *NoiseField) snapshot() map[string]int {
	out := make(map[string]int, len(nf.rooms))
	for k, v := range nf.rooms {
		out[k] = v
	}
	return out
}

// restore replaces the field contents from a snapshot.
func (nf *NoiseField) restore(rooms map[string]int) {
	nf.rooms = make(map[string]int, len(rooms))
	for k, v := range rooms {
		nf.rooms[k] = v
	}
}
