package engine

import (
	"github.com/polarnight-games/outpost31/internal/domain/agent"
	"github.com/polarnight-games/outpost31/internal/domain/rules"
	"github.com/polarnight-games/outpost31/internal/events"
	"github.com/polarnight-games/outpost31/internal/platform/metrics"
)

// InfectionSystem runs the disguise state machine: communion spread, mask
// decay, and terminal reveals. It is the only writer of Infected,
// MaskIntegrity and Revealed.
type InfectionSystem struct {
	sim *Simulation
}

// NewInfectionSystem creates the system.
func NewInfectionSystem(sim *Simulation) *InfectionSystem {
	return &InfectionSystem{sim: sim}
}

// OnTurn runs the infection phase: per-room communion checks in fixed room
// order, then mask decay for every masked infected.
func (is *InfectionSystem) OnTurn(ev events.GameEvent) {
	is.communionPass()
	is.decayPass()
}

// communionPass checks passive transmission room by room. The driving mask
// is the lowest-integrity masked infected present: the weakest disguise
// leaks first.
func (is *InfectionSystem) communionPass() {
	for _, room := range is.sim.station.Rooms() {
		var carrier *agent.Agent
		for _, a := range is.sim.agents {
			if !a.Alive || !a.Infected || a.Revealed {
				continue
			}
			if is.sim.roomOf(a) != room.Name {
				continue
			}
			if carrier == nil || a.MaskIntegrity < carrier.MaskIntegrity {
				carrier = a
			}
		}
		if carrier == nil {
			continue
		}

		dark := is.sim.station.IsDark(room.Name, is.sim.powerOn)
		for _, target := range is.sim.agents {
			if !target.Alive || target.Infected {
				continue
			}
			if is.sim.roomOf(target) != room.Name {
				continue
			}
			p := rules.CommunionRisk(dark, carrier.MaskIntegrity, is.sim.paranoia)
			if !is.sim.rng.Chance(p) {
				continue
			}
			is.convert(target)
			is.sim.emit(events.EventTypeCommunion, carrier.ID, target.ID, events.CommunionPayload{
				Room:        room.Name,
				Probability: p,
			})
		}
	}
}

// Assimilate is the deliberate conversion of a lone target. The act re-forms
// the actor's disguise: mask integrity resets to full.
func (is *InfectionSystem) Assimilate(actor, target *agent.Agent) {
	is.convert(target)
	actor.MaskIntegrity = 100
	is.sim.emit(events.EventTypeAssimilation, actor.ID, target.ID, events.AssimilationPayload{
		Room: is.sim.roomOf(target),
	})
}

// convert flips a human to masked infected. Fresh converts start fully
// masked; TrueNature is untouched, it records origin.
func (is *InfectionSystem) convert(target *agent.Agent) {
	target.Infected = true
	target.MaskIntegrity = 100
	target.Revealed = false
	metrics.Get().RecordInfection()
}

// decayPass erodes every masked disguise. Stressors multiply the base rate;
// a mask at zero triggers the terminal reveal.
func (is *InfectionSystem) decayPass() {
	cold := is.sim.weather.ExtremeCold()
	panicked := is.sim.paranoia > rules.ParanoiaPanicked
	for _, a := range is.sim.agents {
		if !a.Alive || !a.Infected || a.Revealed {
			continue
		}
		room := is.sim.roomOf(a)
		st := is.sim.station.State(room)
		decay := rules.MaskDecay(rules.MaskDecayParams{
			ExtremeCold:   cold || (st != nil && st.Frozen),
			HighParanoia:  panicked,
			RoleDissonant: room != "" && !a.InHabitat(room),
		})
		a.MaskIntegrity = rules.ClampMask(a.MaskIntegrity - decay)
		if a.MaskIntegrity <= 0 {
			is.Reveal(a, "MASK_ZERO")
		}
	}
}

// Reveal is the terminal transition of the disguise state machine. It is
// idempotent: a second call on a revealed agent does nothing and publishes
// nothing. There is no path back from Revealed.
func (is *InfectionSystem) Reveal(a *agent.Agent, cause string) {
	if a.Revealed || !a.Infected {
		return
	}
	a.Revealed = true
	a.MaskIntegrity = 0
	a.Mode = agent.ModeHunting
	metrics.Get().RecordReveal()

	is.sim.emit(events.EventTypeReveal, a.ID, "", events.RevealPayload{
		Cause: cause,
		Room:  is.sim.roomOf(a),
	})
	is.sim.bumpParanoia(25)
	is.sim.alert.Trigger("REVEAL")
}
