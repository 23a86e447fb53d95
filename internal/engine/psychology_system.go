package engine

import (
	"github.com/polarnight-games/outpost31/internal/domain/agent"
	"github.com/polarnight-games/outpost31/internal/domain/rules"
	"github.com/polarnight-games/outpost31/internal/events"
)

// PsychologySystem applies per-turn stress pressure and resolves panic. It
// is the only writer of agent Stress and the station paranoia drift.
type PsychologySystem struct {
	sim *Simulation
}

// NewPsychologySystem creates the system.
func NewPsychologySystem(sim *Simulation) *PsychologySystem {
	return &PsychologySystem{sim: sim}
}

// OnTurn runs the psychology phase: ambient paranoia drift, environmental
// stress, then panic checks in roster order.
func (ps *PsychologySystem) OnTurn(ev events.GameEvent) {
	// Dread accumulates while any disguised infected walks the halls.
	for _, a := range ps.sim.agents {
		if a.Alive && a.Infected && !a.Revealed {
			ps.sim.bumpParanoia(1)
			break
		}
	}

	coldGain := rules.ColdStress(ps.sim.weather.Temperature())
	for _, a := range ps.sim.agents {
		if !a.Alive {
			continue
		}
		// The infected feign stress for cover but never panic; skip them.
		if a.Infected {
			continue
		}
		if coldGain > 0 {
			ps.addStress(a, coldGain, "COLD")
		}
		if st := ps.sim.station.State(ps.sim.roomOf(a)); st != nil && st.Frozen {
			ps.addStress(a, 1, "FROZEN_ROOM")
		}
		if ps.isAlone(a) {
			ps.addStress(a, rules.IsolationStress, "ISOLATION")
		}
		ps.checkPanic(a)
	}
}

// addStress applies a delta and publishes the change when it moved.
func (ps *PsychologySystem) addStress(a *agent.Agent, delta int, cause string) {
	before := a.Stress
	a.AddStress(delta)
	if a.Stress == before {
		return
	}
	ps.sim.emit(events.EventTypeStressChange, "", a.ID, events.StressChangePayload{
		Delta:     a.Stress - before,
		NewStress: a.Stress,
		Cause:     cause,
	})
}

// isAlone reports whether no other living agent shares the room.
func (ps *PsychologySystem) isAlone(a *agent.Agent) bool {
	room := ps.sim.roomOf(a)
	if room == "" {
		return false
	}
	for _, other := range ps.sim.agents {
		if other.ID == a.ID || !other.Alive {
			continue
		}
		if ps.sim.roomOf(other) == room {
			return false
		}
	}
	return true
}

// checkPanic rolls for loss of composure once stress exceeds the agent's
// tolerance. The margin above the threshold is the dice pool; a single
// success breaks them. The forced behavior is a uniform pick over the
// closed behavior set.
func (ps *PsychologySystem) checkPanic(a *agent.Agent) {
	threshold := rules.PanicThreshold(a.Attributes[agent.AttrResolve])
	if a.Stress <= threshold {
		return
	}
	if ps.sim.rng.RollPool(a.Stress-threshold, 0) < 1 {
		return
	}

	behavior := rules.PanicBehaviors[ps.sim.rng.PickIndex(len(rules.PanicBehaviors))]
	ps.sim.emit(events.EventTypePanic, a.ID, "", events.PanicPayload{
		Behavior: string(behavior),
		Stress:   a.Stress,
	})
	ps.applyPanic(a, behavior)

	// The outburst releases pressure back to the tolerance line.
	a.Stress = threshold
}

func (ps *PsychologySystem) applyPanic(a *agent.Agent, behavior rules.PanicBehavior) {
	room := ps.sim.roomOf(a)
	switch behavior {
	case rules.PanicDropItem:
		if len(a.Inventory) > 0 {
			a.Inventory = a.Inventory[1:]
		}
	case rules.PanicFreeze:
		a.FrozenTurns = 1
	case rules.PanicScream:
		ps.sim.noise.Record(a.ID, room, 3)
		ps.sim.alert.Trigger("SCREAM")
	case rules.PanicFlee:
		a.Mode = agent.ModeFleeing
		a.SearchTurnsLeft = 3 // flee duration before the schedule reasserts
	case rules.PanicLashOut:
		if target := ps.nearestCoLocated(a); target != nil {
			ps.sim.combat.Resolve(a, target, "")
		}
	}
}

// nearestCoLocated returns the first living agent sharing the room, in
// roster order.
func (ps *PsychologySystem) nearestCoLocated(a *agent.Agent) *agent.Agent {
	for _, other := range ps.sim.agents {
		if other.ID == a.ID || !other.Alive {
			continue
		}
		if ps.sim.coLocated(a, other) {
			return other
		}
	}
	return nil
}
