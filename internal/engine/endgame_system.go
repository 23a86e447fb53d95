package engine

import (
	"github.com/polarnight-games/outpost31/internal/events"
)

// Ending identifiers.
const (
	ResultWin    = "WIN"
	ResultLoss   = "LOSS"
	ResultRescue = "RESCUE"
)

// EndgameSystem evaluates terminal conditions. It subscribes last so it sees
// the turn after every other system has moved the world, publishes exactly
// one EndingReport, and flips the simulation into its ended state.
type EndgameSystem struct {
	sim *Simulation
}

// NewEndgameSystem creates the system.
func NewEndgameSystem(sim *Simulation) *EndgameSystem {
	return &EndgameSystem{sim: sim}
}

// OnTurn ticks the rescue countdown and checks the three endings in a fixed
// order: loss before win before rescue, so a wiped-out crew cannot be saved
// by a plane landing the same hour.
func (es *EndgameSystem) OnTurn(ev events.GameEvent) {
	if es.sim.ended {
		return
	}

	arrived := false
	if es.sim.sosCountdown > 0 {
		es.sim.sosCountdown--
		if es.sim.sosCountdown == 0 {
			arrived = true
			es.sim.emit(events.EventTypeSOSSent, "", "", events.SOSPayload{Arrived: true})
		}
	}

	humans, infected := 0, 0
	for _, a := range es.sim.agents {
		if !a.Alive {
			continue
		}
		if a.Infected {
			infected++
		} else {
			humans++
		}
	}

	switch {
	case humans == 0:
		es.finish(ResultLoss, "ASSIMILATION",
			"Every crew member is dead or assimilated. The station belongs to the organism.")
	case infected == 0:
		es.finish(ResultWin, "PURGE",
			"The last imitation is burned. The survivors wait out the winter.")
	case arrived:
		es.finish(ResultRescue, "EVACUATION",
			"The rescue plane touches down. Whoever boards it, boards it.")
	}
}

// finish publishes the single terminal report and freezes the simulation.
func (es *EndgameSystem) finish(result, ending, message string) {
	es.sim.ended = true
	es.sim.result = result
	es.sim.emit(events.EventTypeEndingReport, "", "", events.EndingPayload{
		Result:  result,
		Ending:  ending,
		Message: message,
	})
}
