package engine

import (
	"testing"

	"github.com/polarnight-games/outpost31/internal/events"
)

func TestFrostFollowsFreezeLineAndPower(t *testing.T) {
	sim := newTestSim(t, 1)

	// Deep cold alone is not enough while the generator holds.
	sim.weather.belowFreeze = true
	sim.weather.applyFrost()
	if sim.station.State("Generator").Frozen {
		t.Errorf("A powered station keeps the frost out")
	}

	sim.powerOn = false
	sim.weather.applyFrost()
	for _, r := range sim.station.Rooms() {
		if !sim.station.State(r.Name).Frozen {
			t.Errorf("Expected %s frozen with the power down below the freeze line", r.Name)
		}
	}

	// Restoring either condition thaws every room.
	sim.powerOn = true
	sim.weather.applyFrost()
	if sim.station.State("Generator").Frozen {
		t.Errorf("Restored power must thaw the station")
	}
}

func TestFrozenRoomStressesOccupants(t *testing.T) {
	sim := newTestSim(t, 1)
	h1, _ := sim.Agent("H1")
	sim.station.SetFrozen("Rec Room", true)

	before := h1.Stress
	sim.psychology.OnTurn(events.GameEvent{})

	if h1.Stress <= before {
		t.Fatalf("An occupant of a frozen room must gain stress")
	}
	found := false
	for _, e := range sim.bus.Log() {
		if e.Type != events.EventTypeStressChange {
			continue
		}
		if p := e.Payload.(events.StressChangePayload); p.Cause == "FROZEN_ROOM" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a FROZEN_ROOM stress change event")
	}
}
